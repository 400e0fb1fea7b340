// Package parallel runs index-range work over a fixed contiguous partition.
//
// Partition(n, p) splits [0,n) into at most p chunks of size ⌈n/p⌉ (the last
// one possibly shorter). ForEach runs one goroutine per chunk through an
// errgroup; each chunk writes only to its own index range, so callers merge
// by index without locks. The first error cancels the shared context and is
// returned.
package parallel

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// ErrBadWorkers indicates a non-positive worker count.
var ErrBadWorkers = errors.New("parallel: workers must be positive")

// Range is a half-open index interval [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns Hi − Lo.
func (r Range) Len() int { return r.Hi - r.Lo }

// Partition splits [0,n) into contiguous ranges of size ⌈n/p⌉.
// Empty input yields no ranges; p larger than n yields n singleton ranges.
func Partition(n, p int) ([]Range, error) {
	if p <= 0 {
		return nil, ErrBadWorkers
	}
	if n <= 0 {
		return nil, nil
	}
	size := (n + p - 1) / p
	out := make([]Range, 0, p)
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, Range{Lo: lo, Hi: hi})
	}

	return out, nil
}

// ForEach runs fn once per chunk of Partition(n, p), concurrently.
// ctx is checked before each chunk starts; fn receives the group context.
func ForEach(ctx context.Context, n, p int, fn func(ctx context.Context, chunk int, r Range) error) error {
	ranges, err := Partition(n, p)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	g, gctx := errgroup.WithContext(ctx)
	for ci, r := range ranges {
		ci, r := ci, r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, ci, r)
		})
	}

	return g.Wait()
}
