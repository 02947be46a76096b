// Package batch splits bulk writes into chunks with a pause between them.
// The pause is rate control for the receiving system only; correctness never
// depends on it.
package batch

import (
	"context"
	"fmt"
	"time"
)

// Config controls chunk size and the pause between chunks
type Config struct {
	Size  int
	Delay time.Duration
}

// DefaultConfig matches the defaults in pkg/config
func DefaultConfig() Config {
	return Config{Size: 100, Delay: 50 * time.Millisecond}
}

// Apply calls fn once per chunk of at most cfg.Size items, sleeping cfg.Delay
// between chunks. It stops at the first error or when ctx is cancelled.
func Apply[T any](ctx context.Context, items []T, cfg Config, fn func(ctx context.Context, chunk []T) error) error {
	size := cfg.Size
	if size <= 0 {
		size = len(items)
	}

	for start := 0; start < len(items); start += size {
		if start > 0 && cfg.Delay > 0 {
			timer := time.NewTimer(cfg.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + size
		if end > len(items) {
			end = len(items)
		}
		if err := fn(ctx, items[start:end]); err != nil {
			return fmt.Errorf("batch %d-%d: %w", start, end-1, err)
		}
	}
	return nil
}
