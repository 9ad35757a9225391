package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// BatchStatus is the lifecycle state of a submitted batch.
type BatchStatus string

const (
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusFailed    BatchStatus = "failed"
)

// BatchState is the registry's view of one submitted batch. While the batch
// is running, Summaries holds finished items in completion order; once it
// finishes they are replaced by the full set in submission order.
type BatchState struct {
	BatchID        string             `json:"batch_id"`
	Status         BatchStatus        `json:"status"`
	TotalItems     int                `json:"total_items"`
	CompletedItems int                `json:"completed_items"`
	Summaries      []types.RunSummary `json:"summaries"`
	CreatedAt      time.Time          `json:"created_at"`
	FinishedAt     *time.Time         `json:"finished_at,omitempty"`
	Error          string             `json:"error,omitempty"`
}

// BatchEvent is one progress update pushed to websocket subscribers.
// Summary carries the item that just finished and is nil on the initial
// snapshot and the terminal event.
type BatchEvent struct {
	BatchID        string            `json:"batch_id"`
	Status         BatchStatus       `json:"status"`
	TotalItems     int               `json:"total_items"`
	CompletedItems int               `json:"completed_items"`
	Summary        *types.RunSummary `json:"summary,omitempty"`
}

// subscriberBuffer bounds each subscriber channel. A subscriber that falls
// this far behind starts losing intermediate events; the terminal event is
// still delivered through the channel close.
const subscriberBuffer = 64

// batchRegistry tracks submitted batches in memory and fans progress events
// out to websocket subscribers. Batches live for the lifetime of the server
// process.
type batchRegistry struct {
	mu          sync.RWMutex
	batches     map[string]*BatchState
	subscribers map[string]map[chan BatchEvent]struct{}
}

func newBatchRegistry() *batchRegistry {
	return &batchRegistry{
		batches:     make(map[string]*BatchState),
		subscribers: make(map[string]map[chan BatchEvent]struct{}),
	}
}

// create registers a new running batch and returns its initial state.
func (r *batchRegistry) create(totalItems int) BatchState {
	state := BatchState{
		BatchID:    uuid.NewString(),
		Status:     BatchStatusRunning,
		TotalItems: totalItems,
		Summaries:  []types.RunSummary{},
		CreatedAt:  time.Now(),
	}

	r.mu.Lock()
	r.batches[state.BatchID] = &state
	r.mu.Unlock()

	return state
}

// get returns a copy of the batch state.
func (r *batchRegistry) get(id string) (BatchState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.batches[id]
	if !ok {
		return BatchState{}, errors.Newf(errors.ErrCodeBatchNotFound, "batch %s is not known", id)
	}

	out := *state
	out.Summaries = append([]types.RunSummary(nil), state.Summaries...)

	return out, nil
}

// recordItem notes one finished item and publishes a progress event.
// Callers are expected to invoke it serially per batch, which the batch
// runner's progress callback guarantees.
func (r *batchRegistry) recordItem(id string, completed int, summary types.RunSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.batches[id]
	if !ok {
		return
	}

	state.CompletedItems = completed
	state.Summaries = append(state.Summaries, summary)

	r.publishLocked(id, BatchEvent{
		BatchID:        id,
		Status:         state.Status,
		TotalItems:     state.TotalItems,
		CompletedItems: completed,
		Summary:        &summary,
	})
}

// finish marks the batch terminal, replaces the summaries with the final
// submission-ordered set, publishes the terminal event and releases every
// subscriber.
func (r *batchRegistry) finish(id string, summaries []types.RunSummary, runErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.batches[id]
	if !ok {
		return
	}

	now := time.Now()
	state.FinishedAt = &now
	state.CompletedItems = state.TotalItems
	if summaries != nil {
		state.Summaries = summaries
	}

	if runErr != nil {
		state.Status = BatchStatusFailed
		state.Error = runErr.Error()
	} else {
		state.Status = BatchStatusCompleted
	}

	r.publishLocked(id, BatchEvent{
		BatchID:        id,
		Status:         state.Status,
		TotalItems:     state.TotalItems,
		CompletedItems: state.CompletedItems,
	})

	for ch := range r.subscribers[id] {
		close(ch)
	}
	delete(r.subscribers, id)
}

// subscribe returns a channel of progress events for the batch and a
// cancel function. Subscribing to a batch that already finished returns a
// closed channel.
func (r *batchRegistry) subscribe(id string) (<-chan BatchEvent, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan BatchEvent, subscriberBuffer)

	state, ok := r.batches[id]
	if !ok || state.Status != BatchStatusRunning {
		close(ch)
		return ch, func() {}
	}

	if r.subscribers[id] == nil {
		r.subscribers[id] = make(map[chan BatchEvent]struct{})
	}
	r.subscribers[id][ch] = struct{}{}

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if _, live := r.subscribers[id][ch]; live {
			delete(r.subscribers[id], ch)
			close(ch)
		}
	}

	return ch, cancel
}

// publishLocked sends an event to every subscriber without blocking; a full
// subscriber drops the event. The caller holds the registry lock.
func (r *batchRegistry) publishLocked(id string, event BatchEvent) {
	for ch := range r.subscribers[id] {
		select {
		case ch <- event:
		default:
		}
	}
}
