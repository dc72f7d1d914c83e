// Package render строит человекочитаемое текстовое представление ветки.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pribylovaa/reddit-threads/internal/models"
)

const (
	timeLayout   = "2006-01-02 15:04:05 UTC"
	lineWidth    = 100
	minWrapWidth = 20
	unknown      = "[unknown]"
)

// HumanTime форматирует unix-время в UTC.
func HumanTime(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(timeLayout)
}

// Thread рендерит запись целиком: заголовок, подчёркивание и блоки "Root #i".
// Обход итеративный, поэтому глубина ветки не ограничена.
func Thread(rec *models.ThreadRecord, maxBodyChars int) string {
	header := fmt.Sprintf("Thread %s | subreddit=%s | comments=%d | roots=%d | %s → %s | orphans=%d",
		rec.LinkID, rec.Subreddit, rec.CommentCount, rec.RootCount,
		HumanTime(rec.CreatedUTCMin), HumanTime(rec.CreatedUTCMax), rec.OrphanComments)

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", utf8.RuneCountInString(header)))

	for i, root := range rec.Roots {
		b.WriteString("\n\nRoot #")
		b.WriteString(strconv.Itoa(i + 1))

		// Глубина считается от корня блока, а не по полю Depth узла.
		type item struct {
			n     *models.ThreadNode
			level int
		}
		stack := []item{{root, 0}}
		for len(stack) > 0 {
			it := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			writeComment(&b, it.n, it.level, maxBodyChars)

			for j := len(it.n.Children) - 1; j >= 0; j-- {
				stack = append(stack, item{it.n.Children[j], it.level + 1})
			}
		}
	}

	return b.String()
}

func writeComment(b *strings.Builder, n *models.ThreadNode, level, maxBodyChars int) {
	indent := strings.Repeat("  ", level)

	author := unknown
	if n.Author != nil && *n.Author != "" {
		author = *n.Author
	}

	fmt.Fprintf(b, "\n%s- %s | net votes=%d | %s", indent, author, n.Score, HumanTime(n.CreatedUTC))

	var body string
	if n.Body != nil {
		body = FormatBody(*n.Body, maxBodyChars)
	}
	if body == "" {
		return
	}

	for _, line := range Wrap(body, max(minWrapWidth, lineWidth-len(indent))) {
		b.WriteByte('\n')
		b.WriteString(indent)
		b.WriteString("  ")
		b.WriteString(line)
	}
}

// FormatBody сворачивает переводы строк в пробелы и обрезает тело до maxChars
// символов с суффиксом "...".
func FormatBody(body string, maxChars int) string {
	body = strings.TrimSpace(strings.ReplaceAll(body, "\n", " "))
	if utf8.RuneCountInString(body) <= maxChars {
		return body
	}

	keep := max(maxChars-3, 0)
	runes := []rune(body)

	return strings.TrimRightFunc(string(runes[:keep]), unicode.IsSpace) + "..."
}

// Wrap жадно разбивает текст на строки не длиннее width символов.
// Пробельные последовательности схлопываются, слишком длинные слова режутся.
func Wrap(text string, width int) []string {
	var (
		lines []string
		cur   []rune
	)

	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, string(cur))
			cur = cur[:0]
		}
	}

	for _, word := range strings.Fields(text) {
		w := []rune(word)

		if len(cur) > 0 && len(cur)+1+len(w) <= width {
			cur = append(cur, ' ')
			cur = append(cur, w...)
			continue
		}

		if len(cur) > 0 {
			flush()
		}

		for len(w) > width {
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		cur = append(cur, w...)
	}
	flush()

	return lines
}
