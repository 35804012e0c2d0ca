package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/broadcast"
	"github.com/Sombhu2022/agri-farm-sub000/pkg/logger"
	"github.com/Sombhu2022/agri-farm-sub000/pkg/ratelimiter"
)

// Config holds the engine's tunables.
type Config struct {
	BatchSize       int           `env:"NOTIFY_BATCH_SIZE" envDefault:"10"`
	RateLimit       int           `env:"NOTIFY_RATE_LIMIT" envDefault:"100"`
	RateWindow      time.Duration `env:"NOTIFY_RATE_WINDOW" envDefault:"1m"`
	SendAttempts    int           `env:"NOTIFY_SEND_ATTEMPTS" envDefault:"1"`
	RetryDelay      time.Duration `env:"NOTIFY_RETRY_DELAY" envDefault:"200ms"`
	EventBufferSize int           `env:"NOTIFY_EVENT_BUFFER" envDefault:"64"`
}

func (c *Config) applyDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.RateLimit <= 0 {
		c.RateLimit = 100
	}
	if c.RateWindow <= 0 {
		c.RateWindow = time.Minute
	}
	if c.SendAttempts <= 0 {
		c.SendAttempts = 1
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 200 * time.Millisecond
	}
	if c.EventBufferSize <= 0 {
		c.EventBufferSize = 64
	}
}

// Engine is the notification dispatch engine: it validates submissions,
// queues payloads, drains the queue in fixed-size slices with per-recipient
// fan-out, enforces the global rate limit, and records per-pair results.
//
// One engine runs one cooperative processing loop; all exported methods are
// safe for concurrent use.
type Engine struct {
	cfg        Config
	templates  TemplateStore
	recipients RecipientStore
	registry   *Registry
	limiter    *ratelimiter.FixedWindow
	results    *resultStore
	batches    *batchTracker
	events     *broadcast.MemoryBroadcaster[Event]
	log        *slog.Logger

	mu       sync.Mutex
	queue    []*Payload
	running  bool
	paused   bool
	resumeCh chan struct{}
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithTemplateStore replaces the default in-memory template store.
func WithTemplateStore(s TemplateStore) Option {
	return func(e *Engine) {
		if s != nil {
			e.templates = s
		}
	}
}

// WithRecipientStore replaces the default in-memory recipient store.
func WithRecipientStore(s RecipientStore) Option {
	return func(e *Engine) {
		if s != nil {
			e.recipients = s
		}
	}
}

// WithRateLimiter replaces the default in-memory fixed-window limiter, e.g.
// with one backed by the Redis store.
func WithRateLimiter(l *ratelimiter.FixedWindow) Option {
	return func(e *Engine) {
		if l != nil {
			e.limiter = l
		}
	}
}

// WithSelectionPolicy sets how a provider is chosen when a channel has
// several registered. Default is PolicyFirst.
func WithSelectionPolicy(p SelectionPolicy) Option {
	return func(e *Engine) {
		e.registry = NewRegistry(p)
	}
}

// New creates a notification engine. The engine is idle until the first
// payload is submitted; call Shutdown to release it.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg.applyDefaults()

	ctx, cancel := context.WithCancel(context.Background())

	e := &Engine{
		cfg:        cfg,
		templates:  NewMemoryTemplateStore(),
		recipients: NewMemoryRecipientStore(),
		registry:   NewRegistry(PolicyFirst),
		results:    newResultStore(),
		batches:    newBatchTracker(),
		events:     broadcast.NewMemoryBroadcaster[Event](cfg.EventBufferSize),
		log:        slog.Default(),
		ctx:        ctx,
		cancel:     cancel,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.limiter == nil {
		limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), "notify:dispatch", ratelimiter.Config{
			Limit:  cfg.RateLimit,
			Window: cfg.RateWindow,
		})
		if err != nil {
			cancel()
			return nil, err
		}
		e.limiter = limiter
	}

	return e, nil
}

// RegisterProvider adds a delivery provider for its channel type.
func (e *Engine) RegisterProvider(p Provider) {
	e.registry.Register(p)
}

// AddTemplate registers or overwrites a template by ID.
func (e *Engine) AddTemplate(ctx context.Context, tmpl Template) error {
	return e.templates.Add(ctx, tmpl)
}

// GetTemplate retrieves a template by ID.
func (e *Engine) GetTemplate(ctx context.Context, id string) (*Template, bool) {
	return e.templates.Get(ctx, id)
}

// UpdateTemplate merges a partial update into an existing template.
func (e *Engine) UpdateTemplate(ctx context.Context, id string, update TemplateUpdate) (bool, error) {
	return e.templates.Update(ctx, id, update)
}

// DeleteTemplate removes a template by ID.
func (e *Engine) DeleteTemplate(ctx context.Context, id string) (bool, error) {
	return e.templates.Delete(ctx, id)
}

// AddRecipient registers or overwrites a recipient by ID.
func (e *Engine) AddRecipient(ctx context.Context, rec Recipient) error {
	return e.recipients.Add(ctx, rec)
}

// GetRecipient retrieves a recipient by ID.
func (e *Engine) GetRecipient(ctx context.Context, id string) (*Recipient, bool) {
	return e.recipients.Get(ctx, id)
}

// UpdateRecipient merges a partial update into an existing recipient.
func (e *Engine) UpdateRecipient(ctx context.Context, id string, update RecipientUpdate) (bool, error) {
	return e.recipients.Update(ctx, id, update)
}

// DeleteRecipient removes a recipient by ID.
func (e *Engine) DeleteRecipient(ctx context.Context, id string) (bool, error) {
	return e.recipients.Delete(ctx, id)
}

// Send validates the payload and enqueues it for asynchronous dispatch,
// returning the payload ID. Template and recipient resolution failures are
// synchronous; per-recipient delivery failures are only visible through
// results and events.
func (e *Engine) Send(ctx context.Context, p *Payload) (string, error) {
	if err := e.prepare(ctx, p); err != nil {
		return "", err
	}

	if err := e.enqueue(p); err != nil {
		return "", err
	}

	e.publish(Event{Type: EventQueued, Payload: p})
	e.log.Debug("payload queued",
		logger.PayloadID(p.ID),
		logger.Channel(string(p.Channel)),
		slog.Int("recipients", len(p.RecipientIDs)))

	return p.ID, nil
}

// SendBatch validates every payload, wraps them under one tracked batch, and
// enqueues them all. The batch ID is returned immediately; completion is
// observable via GetBatch.
func (e *Engine) SendBatch(ctx context.Context, payloads []*Payload) (string, error) {
	if len(payloads) == 0 {
		return "", ErrNoPayloads
	}

	// Validate everything before enqueueing anything so a bad payload
	// cannot leave a half-submitted batch behind.
	for _, p := range payloads {
		if err := e.prepare(ctx, p); err != nil {
			return "", err
		}
	}

	batch := e.batches.create(uuid.New().String(), payloads)

	for _, p := range payloads {
		if err := e.enqueue(p); err != nil {
			return "", err
		}
		e.publish(Event{Type: EventQueued, Payload: p})
	}

	e.publish(Event{Type: EventBatchQueued, Batch: batch})
	e.log.Debug("batch queued",
		logger.BatchID(batch.ID),
		slog.Int("payloads", len(payloads)))

	return batch.ID, nil
}

// SendImmediate bypasses the queue entirely: it dispatches every recipient
// concurrently and returns once all have been attempted. Individual
// recipient failures appear in the returned results, not as an error.
func (e *Engine) SendImmediate(ctx context.Context, p *Payload) ([]Result, error) {
	if err := e.prepare(ctx, p); err != nil {
		return nil, err
	}

	tmpl, ok := e.templates.Get(ctx, p.TemplateID)
	if !ok {
		return nil, ErrTemplateNotFound
	}

	return e.fanOut(ctx, p, tmpl), nil
}

// GetResult returns the recorded outcome for a (payload, recipient) pair by
// its derived ID.
func (e *Engine) GetResult(id string) (*Result, bool) {
	return e.results.get(id)
}

// GetBatch returns a snapshot of a tracked batch.
func (e *Engine) GetBatch(id string) (*Batch, bool) {
	return e.batches.get(id)
}

// Stats aggregates delivery outcomes across all recorded results.
func (e *Engine) Stats() Stats {
	return e.results.stats()
}

// QueueSize returns the number of payloads awaiting dispatch.
func (e *Engine) QueueSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// ClearQueue drops all pending payloads and returns how many were removed.
// Dropped payloads produce no results; their batch pairs are discounted so
// affected batches can still complete.
func (e *Engine) ClearQueue() int {
	e.mu.Lock()
	dropped := e.queue
	e.queue = nil
	e.mu.Unlock()

	for _, p := range dropped {
		e.batches.discount(p.ID, len(p.RecipientIDs))
	}
	return len(dropped)
}

// PauseProcessing stops the loop from pulling new slices. Work already
// dispatched keeps running.
func (e *Engine) PauseProcessing() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.paused {
		e.paused = true
		e.resumeCh = make(chan struct{})
	}
}

// ResumeProcessing lets a paused loop continue.
func (e *Engine) ResumeProcessing() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		e.paused = false
		close(e.resumeCh)
	}
}

// Shutdown stops the processing loop and waits for in-flight sends and
// scheduled re-queues, bounded by ctx. The engine accepts no new work
// afterwards.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	if e.paused {
		// Unblock the loop so it can observe cancellation.
		e.paused = false
		close(e.resumeCh)
	}
	e.mu.Unlock()

	e.cancel()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return e.events.Close()
}

// prepare fills generated fields and performs the synchronous validations:
// the template must exist and be active, and at least one recipient must
// resolve in the directory.
func (e *Engine) prepare(ctx context.Context, p *Payload) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Priority == "" {
		p.Priority = PriorityNormal
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	tmpl, ok := e.templates.Get(ctx, p.TemplateID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, p.TemplateID)
	}
	if !tmpl.Active {
		return fmt.Errorf("%w: %s", ErrTemplateInactive, p.TemplateID)
	}

	resolved := 0
	for _, rid := range p.RecipientIDs {
		if _, ok := e.recipients.Get(ctx, rid); ok {
			resolved++
		}
	}
	if resolved == 0 {
		return ErrNoValidRecipients
	}

	return nil
}

func (e *Engine) enqueue(p *Payload) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	e.queue = append(e.queue, p)
	if !e.running {
		e.running = true
		e.wg.Add(1)
		go e.run()
	}
	return nil
}

// requeue is used by scheduled-payload timers; unlike enqueue it silently
// drops work when the engine closed in the meantime.
func (e *Engine) requeue(p *Payload) {
	if err := e.enqueue(p); err != nil {
		e.batches.discount(p.ID, len(p.RecipientIDs))
	}
}

// run is the cooperative processing loop. It exits when the queue empties
// and is restarted by the next enqueue.
func (e *Engine) run() {
	defer e.wg.Done()

	for {
		e.mu.Lock()

		for e.paused && e.ctx.Err() == nil {
			ch := e.resumeCh
			e.mu.Unlock()
			select {
			case <-ch:
			case <-e.ctx.Done():
			}
			e.mu.Lock()
		}

		if e.ctx.Err() != nil || len(e.queue) == 0 {
			e.running = false
			e.mu.Unlock()
			return
		}

		n := min(e.cfg.BatchSize, len(e.queue))
		slice := make([]*Payload, n)
		copy(slice, e.queue[:n])
		e.queue = e.queue[n:]
		e.mu.Unlock()

		var wg sync.WaitGroup
		now := time.Now()
		for _, p := range slice {
			switch {
			case !p.Due(now):
				e.deferPayload(p)
			case p.Expired(now):
				e.dropExpired(p)
			default:
				wg.Add(1)
				go func(p *Payload) {
					defer wg.Done()
					e.process(e.ctx, p)
				}(p)
			}
		}
		wg.Wait()
	}
}

// deferPayload re-queues a not-yet-due payload when its scheduled time
// arrives instead of blocking the loop.
func (e *Engine) deferPayload(p *Payload) {
	delay := time.Until(*p.ScheduledFor)

	e.log.Debug("payload deferred",
		logger.PayloadID(p.ID),
		slog.Duration("delay", delay))

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-e.ctx.Done():
		case <-timer.C:
			e.requeue(p)
		}
	}()
}

// dropExpired removes an expired payload without producing results. The
// asymmetry with other failures is deliberate and documented: expiry means
// the work item no longer exists, not that delivery was attempted.
func (e *Engine) dropExpired(p *Payload) {
	e.log.Warn("payload expired before dispatch, dropping",
		logger.PayloadID(p.ID),
		logger.Channel(string(p.Channel)),
		slog.Time("expires_at", *p.ExpiresAt))

	e.batches.discount(p.ID, len(p.RecipientIDs))
}

// process resolves the template and fans out across the payload's
// recipients.
func (e *Engine) process(ctx context.Context, p *Payload) {
	tmpl, ok := e.templates.Get(ctx, p.TemplateID)
	if !ok {
		// Template deleted between enqueue and dispatch: terminal failure
		// for every pair.
		results := make([]Result, 0, len(p.RecipientIDs))
		for _, rid := range p.RecipientIDs {
			results = append(results, e.finishFailure(p, nil, rid, 1, ErrTemplateNotFound))
		}
		e.publish(Event{Type: EventProcessed, Payload: p, Results: results})
		return
	}

	results := e.fanOut(ctx, p, tmpl)
	e.publish(Event{Type: EventProcessed, Payload: p, Results: results})
}

// fanOut dispatches all recipients of one payload concurrently and returns
// their results in recipient order.
func (e *Engine) fanOut(ctx context.Context, p *Payload, tmpl *Template) []Result {
	if batchID, ok := e.batches.batchOf(p.ID); ok {
		e.batches.markProcessing(batchID)
	}

	results := make([]Result, len(p.RecipientIDs))

	var wg sync.WaitGroup
	for i, rid := range p.RecipientIDs {
		wg.Add(1)
		go func(i int, rid string) {
			defer wg.Done()
			results[i] = e.dispatch(ctx, p, tmpl, rid)
		}(i, rid)
	}
	wg.Wait()

	return results
}

// dispatch attempts delivery for one (payload, recipient) pair and records
// the outcome.
func (e *Engine) dispatch(ctx context.Context, p *Payload, tmpl *Template, rid string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			// A provider panic must not take the loop down; record it as a
			// pair failure unless one was already recorded.
			if _, recorded := e.results.get(ResultID(p.ID, rid)); !recorded {
				res = e.finishFailure(p, nil, rid, 1, fmt.Errorf("panic in provider: %v", r))
			}
		}
	}()

	rec, ok := e.recipients.Get(ctx, rid)
	if !ok {
		return e.finishFailure(p, nil, rid, 1, fmt.Errorf("recipient %s not found", rid))
	}

	if !rec.AcceptsChannel(p.Channel) {
		return e.finishFailure(p, rec, rid, 1, ErrChannelRejected)
	}

	provider, err := e.registry.Select(p.Channel)
	if err != nil {
		return e.finishFailure(p, rec, rid, 1, err)
	}

	if !provider.Validate(ctx, rec) {
		return e.finishFailure(p, rec, rid, 1, ErrProviderValidation)
	}

	content := Render(tmpl, p.Data)

	if err := e.limiter.Acquire(ctx); err != nil {
		return e.finishFailure(p, rec, rid, 1, err)
	}

	attempts := 0
	var sent *Result
	err = retry.Do(
		func() error {
			attempts++
			r, err := provider.Send(ctx, p, rec, content)
			if err != nil {
				return err
			}
			sent = r
			return nil
		},
		retry.Attempts(uint(e.cfg.SendAttempts)),
		retry.Delay(e.cfg.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return e.finishFailure(p, rec, rid, attempts, err)
	}

	res = e.normalize(p, rid, attempts, sent)
	e.results.record(res)
	e.batches.account(p.ID, res)
	e.publish(Event{Type: EventSent, Payload: p, Recipient: rec, Result: &res})

	e.log.Info("notification sent",
		logger.PayloadID(p.ID),
		logger.RecipientID(rid),
		logger.Channel(string(p.Channel)),
		logger.Attempts(attempts))

	return res
}

// finishFailure records a terminal failed result for the pair and emits the
// error event.
func (e *Engine) finishFailure(p *Payload, rec *Recipient, rid string, attempts int, cause error) Result {
	res := Result{
		ID:          ResultID(p.ID, rid),
		PayloadID:   p.ID,
		RecipientID: rid,
		Channel:     p.Channel,
		Priority:    p.Priority,
		Status:      StatusFailed,
		Error:       cause.Error(),
		Attempts:    attempts,
	}

	e.results.record(res)
	e.batches.account(p.ID, res)
	e.publish(Event{Type: EventError, Payload: p, Recipient: rec, Result: &res, Err: cause.Error()})

	e.log.Warn("notification delivery failed",
		logger.PayloadID(p.ID),
		logger.RecipientID(rid),
		logger.Channel(string(p.Channel)),
		logger.Attempts(attempts),
		logger.Error(cause))

	return res
}

// normalize fills engine-owned result fields that providers may omit.
func (e *Engine) normalize(p *Payload, rid string, attempts int, sent *Result) Result {
	res := Result{}
	if sent != nil {
		res = *sent
	}

	res.ID = ResultID(p.ID, rid)
	res.PayloadID = p.ID
	res.RecipientID = rid
	res.Channel = p.Channel
	res.Priority = p.Priority
	res.Attempts = attempts

	if res.Status == "" || res.Status == StatusPending {
		res.Status = StatusSent
	}
	if res.SentAt == nil {
		now := time.Now()
		res.SentAt = &now
	}

	return res
}
