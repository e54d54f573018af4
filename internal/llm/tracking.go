package llm

import (
	"context"
	"sync"
	"time"

	"github.com/ppiankov/centauri/internal/model"
)

// CallLog collects AI call records for one analysis. Safe for concurrent use.
type CallLog struct {
	mu    sync.Mutex
	calls []model.AICall
}

// NewCallLog creates an empty call log
func NewCallLog() *CallLog {
	return &CallLog{}
}

// Record appends one call
func (l *CallLog) Record(call model.AICall) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.calls = append(l.calls, call)
	l.mu.Unlock()
}

// Calls returns a copy of the recorded calls
func (l *CallLog) Calls() []model.AICall {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.AICall(nil), l.calls...)
}

type callLogKey struct{}

// WithCallLog attaches a call log to ctx so tracked providers can record into it
func WithCallLog(ctx context.Context, log *CallLog) context.Context {
	return context.WithValue(ctx, callLogKey{}, log)
}

// CallLogFrom returns the call log attached to ctx, or nil
func CallLogFrom(ctx context.Context) *CallLog {
	log, _ := ctx.Value(callLogKey{}).(*CallLog)
	return log
}

// TrackingProvider records every completion into the CallLog found on the context
type TrackingProvider struct {
	inner Provider
}

// WithTracking wraps a Provider with call tracking
func WithTracking(p Provider) Provider {
	return &TrackingProvider{inner: p}
}

func (t *TrackingProvider) Name() string {
	return t.inner.Name()
}

func (t *TrackingProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := t.inner.Complete(ctx, req)

	call := model.AICall{
		Provider:  t.inner.Name(),
		Purpose:   req.Purpose,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if resp != nil {
		call.Model = resp.Model
		call.Tokens = resp.TokensUsed
	}
	if err != nil {
		call.Error = err.Error()
	}
	CallLogFrom(ctx).Record(call)

	return resp, err
}
