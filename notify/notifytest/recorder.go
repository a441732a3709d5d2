// Package notifytest provides a recording Dispatcher for tests.
package notifytest

import (
	"context"
	"sync"

	"appliance_store/notify"
)

// Recorder records every notification it receives and reports Result for
// each of them.
type Recorder struct {
	mu            sync.Mutex
	Result        bool
	Confirmations []notify.OrderConfirmation
	StatusUpdates []notify.OrderStatusUpdate
	Returns       []notify.ReturnDecision
}

func New() *Recorder {
	return &Recorder{Result: true}
}

func (r *Recorder) SendOrderConfirmation(_ context.Context, n notify.OrderConfirmation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Confirmations = append(r.Confirmations, n)
	return r.Result
}

func (r *Recorder) SendOrderStatusUpdate(_ context.Context, n notify.OrderStatusUpdate) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StatusUpdates = append(r.StatusUpdates, n)
	return r.Result
}

func (r *Recorder) SendReturnDecision(_ context.Context, n notify.ReturnDecision) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Returns = append(r.Returns, n)
	return r.Result
}

func (r *Recorder) ConfirmationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Confirmations)
}

func (r *Recorder) StatusUpdateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.StatusUpdates)
}

func (r *Recorder) ReturnCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Returns)
}
