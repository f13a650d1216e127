package core

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

// supervise runs one module call and waits for it, bounded by timeout when it
// is positive and by ctx. A panic becomes *PanicError. When the wait is cut
// short the call is abandoned and left to finish on its own goroutine.
func supervise(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- &PanicError{Value: rec, Stack: debug.Stack()}
			}
		}()
		done <- fn(callCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-callCtx.Done():
		select {
		case err := <-done:
			return err
		default:
		}
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return ctx.Err()
	}
}
