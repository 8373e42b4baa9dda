// Package serial runs an action without overlap, collapsing calls made while it runs into one rerun.
package serial

import (
	"context"
	"sync"
)

// Invoker serializes calls to an action.
type Invoker struct {
	action func(context.Context) error

	mu      sync.Mutex
	idle    *sync.Cond
	running bool
	pending bool
	onError func(error)
}

// New creates an Invoker for action.
func New(action func(context.Context) error) *Invoker {
	inv := &Invoker{action: action}
	inv.idle = sync.NewCond(&inv.mu)
	return inv
}

// OnDeferredError sets the handler for errors of reruns, which have no caller to return to.
func (inv *Invoker) OnDeferredError(fn func(error)) *Invoker {
	inv.mu.Lock()
	inv.onError = fn
	inv.mu.Unlock()
	return inv
}

// Invoke runs the action in the calling goroutine when idle and returns its error.
// When the action is already running, Invoke marks a rerun as pending and returns nil at once.
func (inv *Invoker) Invoke(ctx context.Context) error {
	inv.mu.Lock()
	if inv.running {
		inv.pending = true
		inv.mu.Unlock()
		return nil
	}
	inv.running = true
	inv.mu.Unlock()

	err := inv.action(ctx)
	inv.finish(context.WithoutCancel(ctx))
	return err
}

// finish reruns the action in the background while calls keep arriving, then goes idle.
func (inv *Invoker) finish(ctx context.Context) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if !inv.pending {
		inv.running = false
		inv.idle.Broadcast()
		return
	}
	inv.pending = false
	go func() {
		err := inv.action(ctx)
		if err != nil {
			inv.mu.Lock()
			onError := inv.onError
			inv.mu.Unlock()
			if onError != nil {
				onError(err)
			}
		}
		inv.finish(ctx)
	}()
}

// Wait blocks until the action is neither running nor pending.
func (inv *Invoker) Wait() {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for inv.running {
		inv.idle.Wait()
	}
}
