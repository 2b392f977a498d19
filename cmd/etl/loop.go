package main

import (
	"context"
	"errors"
	"log"
	"time"
)

// loop calls run once when every is zero and returns its error. Otherwise it
// runs immediately and then on every tick until ctx is done; a failed run is
// logged and the next tick starts a fresh one. flush is called after every
// run.
func loop(ctx context.Context, every time.Duration, run func(context.Context) error, flush func()) error {
	if every <= 0 {
		err := run(ctx)
		flush()
		return err
	}

	t := time.NewTicker(every)
	defer t.Stop()
	for {
		if err := run(ctx); err != nil {
			log.Printf("schedule: run failed, next attempt in %s: %v", every, err)
		}
		flush()

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-t.C:
		}
	}
}
