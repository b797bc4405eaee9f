package audit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/crucial707/printdesk/internal/metrics"
	"github.com/crucial707/printdesk/internal/models"
)

// DefaultTimeout bounds a background post-stage when none is configured.
const DefaultTimeout = 10 * time.Second

// ErrMissingResourceID is returned by Complete when the trail never learned which row it is about.
var ErrMissingResourceID = errors.New("audit trail has no resource id")

// Scope names the mutation a request is about to perform.
type Scope struct {
	Action     models.Action
	Resource   models.Resource
	ResourceID int
	Actor      *models.Actor
	RequestID  string
}

// Trail carries one audited mutation from the pre-stage to the post-stage.
// After is nil until Seal has read the row back.
type Trail struct {
	Scope
	Before Snapshot
	After  Snapshot
}

// WithResourceID returns a copy of t pointing at id. Create trails learn their id only after the insert.
func (t Trail) WithResourceID(id int) Trail {
	t.ResourceID = id
	return t
}

// ActionForMethod maps a mutating HTTP method to its audit action.
func ActionForMethod(method string) (models.Action, bool) {
	switch method {
	case http.MethodPost:
		return models.ActionCreate, true
	case http.MethodPut, http.MethodPatch:
		return models.ActionUpdate, true
	case http.MethodDelete:
		return models.ActionDelete, true
	}
	return "", false
}

// Pipeline runs the pre- and post-mutation stages of the audit trail.
// Stage failures are logged and counted, never returned to the caller of the mutation.
type Pipeline struct {
	capturer *Capturer
	recorder *Recorder
	timeout  time.Duration
	log      *slog.Logger

	wg sync.WaitGroup

	// tail is closed when the most recently queued write has finished.
	// Each write waits for its predecessor so records keep request order.
	mu   sync.Mutex
	tail chan struct{}
}

// NewPipeline wires a Pipeline over the given stores.
func NewPipeline(snapshots SnapshotReader, records RecordWriter, timeout time.Duration, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pipeline{
		capturer: NewCapturer(snapshots, log),
		recorder: NewRecorder(records),
		timeout:  timeout,
		log:      log,
	}
}

// Begin validates s and, for update and delete, captures the row before it changes.
// It returns false when the request cannot be audited; the mutation then proceeds unaudited.
func (p *Pipeline) Begin(ctx context.Context, s Scope) (Trail, bool) {
	if s.Actor == nil || s.Actor.ID == 0 || !s.Resource.Valid() || !s.Action.Valid() {
		return Trail{}, false
	}
	if s.Action != models.ActionCreate && s.ResourceID <= 0 {
		return Trail{}, false
	}

	t := Trail{Scope: s}
	if s.Action != models.ActionCreate {
		t.Before = p.capturer.Capture(ctx, s.Resource, s.ResourceID)
	}
	return t, true
}

// Seal reads the row back for create and update. Call it as soon as the
// mutation has committed, before the client can issue its next request.
func (p *Pipeline) Seal(ctx context.Context, t Trail) Trail {
	if t.Action == models.ActionDelete || t.ResourceID <= 0 {
		return t
	}
	t.After = p.capturer.Capture(ctx, t.Resource, t.ResourceID)
	return t
}

// Complete builds the details and writes one record. A trail that was not
// sealed is sealed here first.
func (p *Pipeline) Complete(ctx context.Context, t Trail) (models.AuditRecord, error) {
	if t.ResourceID <= 0 {
		metrics.IncAuditFailure("assemble")
		return models.AuditRecord{}, ErrMissingResourceID
	}
	if t.After == nil {
		t = p.Seal(ctx, t)
	}

	rec, err := p.recorder.Record(ctx, t.Action, t.Resource, t.ResourceID, *t.Actor, BuildDetails(t.Action, t.Before, t.After))
	if err != nil {
		metrics.IncAuditFailure("write")
		return rec, err
	}
	metrics.IncAuditRecorded(string(rec.Action), string(rec.Resource))
	return rec, nil
}

// Finish runs Complete in the background. The work outlives ctx's cancellation
// (a client hanging up must not lose the record) but is bounded by the pipeline timeout.
// Writes happen in the order Finish was called.
func (p *Pipeline) Finish(ctx context.Context, t Trail) {
	ctx = context.WithoutCancel(ctx)
	p.wg.Add(1)
	metrics.IncAuditPending()

	p.mu.Lock()
	prev, done := p.tail, make(chan struct{})
	p.tail = done
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer metrics.DecAuditPending()
		defer close(done)
		if prev != nil {
			<-prev
		}
		defer func() {
			if rec := recover(); rec != nil {
				metrics.IncAuditFailure("panic")
				p.log.Error("audit post-stage panic", "request_id", t.RequestID, "panic", rec)
			}
		}()

		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		rec, err := p.Complete(ctx, t)
		if err != nil {
			p.log.Error("audit record not written",
				"request_id", t.RequestID,
				"action", t.Action,
				"resource", t.Resource,
				"resource_id", t.ResourceID,
				"error", err,
			)
			return
		}
		p.log.Debug("audit record written", "request_id", t.RequestID, "audit_id", rec.ID)
	}()
}

// Wait blocks until every post-stage started by Finish has returned.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}
