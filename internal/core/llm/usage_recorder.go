package llm

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lueurxax/soundscape/internal/platform/observability"
)

// UsageRecorder receives one call per upstream LLM request.
type UsageRecorder interface {
	RecordTokenUsage(provider, model, task string, promptTokens, completionTokens int, success bool)
	// Close flushes pending entries. Entries recorded after Close are not persisted.
	Close()
}

type usageEntry struct {
	provider   string
	model      string
	task       string
	prompt     int
	completion int
}

// queuedRecorder emits metrics inline and hands successful calls to a single
// background writer. When the queue is full the entry is dropped.
type queuedRecorder struct {
	store  UsageStore
	queue  chan usageEntry
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
	logger *zerolog.Logger
}

// NewUsageRecorder returns a recorder that persists daily usage through store.
// A nil store yields a metrics-only recorder.
func NewUsageRecorder(store UsageStore, logger *zerolog.Logger) UsageRecorder {
	if store == nil {
		return NoopUsageRecorder()
	}

	r := &queuedRecorder{
		store:  store,
		queue:  make(chan usageEntry, usageQueueSize),
		done:   make(chan struct{}),
		logger: logger,
	}

	go r.drain()

	return r
}

func (r *queuedRecorder) RecordTokenUsage(provider, model, task string, promptTokens, completionTokens int, success bool) {
	observeUsage(provider, model, task, promptTokens, completionTokens, success)

	if !success {
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}

	select {
	case r.queue <- usageEntry{provider: provider, model: model, task: task, prompt: promptTokens, completion: completionTokens}:
	default:
		r.logger.Warn().Str(logKeyTask, task).Msg("llm usage queue full, dropping entry")
	}
}

// Close stops accepting entries and waits until the queue is written out.
func (r *queuedRecorder) Close() {
	r.mu.Lock()

	if !r.closed {
		r.closed = true
		close(r.queue)
	}

	r.mu.Unlock()

	<-r.done
}

func (r *queuedRecorder) drain() {
	defer close(r.done)

	for e := range r.queue {
		r.write(e)
	}
}

func (r *queuedRecorder) write(e usageEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), usageStorageTimeout)
	defer cancel()

	if err := r.store.IncrementLLMUsage(ctx, e.provider, e.model, e.task, e.prompt, e.completion); err != nil {
		r.logger.Debug().Err(err).Str(logKeyTask, e.task).Msg("failed to persist LLM usage")
	}
}

func observeUsage(provider, model, task string, promptTokens, completionTokens int, success bool) {
	status := StatusError
	if success {
		status = StatusSuccess
	}

	observability.LLMRequests.WithLabelValues(provider, model, task, status).Inc()

	if promptTokens > 0 {
		observability.LLMTokensPrompt.WithLabelValues(provider, model, task).Add(float64(promptTokens))
	}

	if completionTokens > 0 {
		observability.LLMTokensCompletion.WithLabelValues(provider, model, task).Add(float64(completionTokens))
	}
}

type metricsRecorder struct{}

// NoopUsageRecorder returns a recorder that only emits metrics.
func NoopUsageRecorder() UsageRecorder {
	return metricsRecorder{}
}

func (metricsRecorder) RecordTokenUsage(provider, model, task string, promptTokens, completionTokens int, success bool) {
	observeUsage(provider, model, task, promptTokens, completionTokens, success)
}

func (metricsRecorder) Close() {}
