package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pribylovaa/reddit-threads/internal/models"
)

// buildFunc собирает запись для группы с порядковым номером i (nil — пропуск).
type buildFunc func(i int) *models.ThreadRecord

// emitFunc получает записи строго по возрастанию i. stop=true прекращает приём новых групп.
type emitFunc func(i int, rec *models.ThreadRecord) (stop bool, err error)

type result struct {
	seq int
	rec *models.ThreadRecord
}

// runOrdered прогоняет n групп через build и отдаёт результаты в emit по порядку.
//
// Особенности:
//   - workers <= 1 — последовательный проход без горутин;
//   - одновременно в работе и в буфере переупорядочивания не больше 4×workers групп;
//   - stop или ошибка emit: новые группы не берутся, уже начатые достраиваются и отбрасываются;
//   - отмена ctx: новые группы не берутся, начатые достраиваются и выпускаются по порядку,
//     затем возвращается ctx.Err().
func runOrdered(ctx context.Context, n, workers int, build buildFunc, emit emitFunc) error {
	if workers <= 1 {
		for i := range n {
			if err := ctx.Err(); err != nil {
				return err
			}
			stop, err := emit(i, build(i))
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
		return nil
	}

	window := make(chan struct{}, 4*workers)
	jobs := make(chan int)
	results := make(chan result, workers)
	stop := make(chan struct{})

	stopped := func() bool {
		select {
		case <-stop:
			return true
		default:
			return false
		}
	}

	var producer errgroup.Group
	producer.Go(func() error {
		defer close(jobs)
		for i := range n {
			select {
			case <-stop:
				return nil
			case <-ctx.Done():
				return nil
			case window <- struct{}{}:
			}
			if stopped() || ctx.Err() != nil {
				return nil
			}
			jobs <- i
		}
		return nil
	})

	var pool errgroup.Group
	for range workers {
		pool.Go(func() error {
			for i := range jobs {
				results <- result{seq: i, rec: build(i)}
			}
			return nil
		})
	}
	go func() {
		_ = pool.Wait()
		close(results)
	}()

	var (
		emitErr error
		halted  bool
	)
	pending := make(map[int]*models.ThreadRecord)
	next := 0

	for r := range results {
		pending[r.seq] = r.rec

		for {
			rec, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			<-window

			if halted {
				continue
			}

			s, err := emit(next-1, rec)
			if err != nil {
				emitErr = err
			}
			if err != nil || s {
				halted = true
				close(stop)
			}
		}
	}

	_ = producer.Wait()

	if emitErr != nil {
		return emitErr
	}
	if halted || next == n {
		return nil
	}

	return ctx.Err()
}
