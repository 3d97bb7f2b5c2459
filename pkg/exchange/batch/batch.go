package batch

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var log = logrus.WithField("component", "batch")

// TimeRangedQuery pages through a time range. Each round queries from the
// latest timestamp seen so far; records already delivered are skipped by ID.
type TimeRangedQuery[T any] struct {
	// Q queries one page starting at since.
	Q func(ctx context.Context, since, until time.Time) ([]T, error)

	// T returns the record time and ID returns its unique key.
	T  func(T) time.Time
	ID func(T) string

	// JumpIfEmpty moves the start time forward by this duration when a page
	// is empty, instead of stopping.
	JumpIfEmpty time.Duration

	Limiter *rate.Limiter
}

// Query streams the records of [since, until] into c, oldest first, and
// closes c when done. The returned channel receives at most one error.
func (q *TimeRangedQuery[T]) Query(ctx context.Context, c chan<- T, since, until time.Time) chan error {
	errC := make(chan error, 1)

	go func() {
		defer close(c)
		defer close(errC)

		seen := make(map[string]struct{})
		for since.Before(until) {
			if q.Limiter != nil {
				if err := q.Limiter.Wait(ctx); err != nil {
					errC <- err
					return
				}
			}

			log.Debugf("batch querying %s <=> %s", since, until)

			records, err := q.Q(ctx, since, until)
			if err != nil {
				errC <- err
				return
			}

			if len(records) == 0 {
				if q.JumpIfEmpty > 0 {
					since = since.Add(q.JumpIfEmpty)
					continue
				}
				return
			}

			sort.SliceStable(records, func(i, j int) bool {
				return q.T(records[i]).Before(q.T(records[j]))
			})

			delivered := 0
			for _, record := range records {
				t := q.T(record)
				if t.After(until) {
					return
				}

				id := q.ID(record)
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}

				select {
				case c <- record:
				case <-ctx.Done():
					errC <- ctx.Err()
					return
				}

				delivered++
				if t.After(since) {
					since = t
				}
			}

			if delivered == 0 {
				// a page of delivered records ending at since: step over that millisecond
				if q.T(records[len(records)-1]).Equal(since) {
					since = since.Add(time.Millisecond)
					continue
				}
				return
			}
		}
	}()

	return errC
}

// Collect drains a batch query into a slice.
func Collect[T any](c <-chan T, errC <-chan error) ([]T, error) {
	var records []T
	for record := range c {
		records = append(records, record)
	}
	return records, <-errC
}
