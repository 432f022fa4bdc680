package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rickgao/arbwatch/internal/api"
	"github.com/rickgao/arbwatch/internal/model"
)

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("poller already started")

// errNoSnapshot is reported when a source returns neither a snapshot nor an error.
var errNoSnapshot = errors.New("source returned no snapshot")

// Source fetches one snapshot.
type Source interface {
	FetchSnapshot(ctx context.Context) (*model.Snapshot, error)
}

// SourceFunc is a function adapter for Source.
type SourceFunc func(ctx context.Context) (*model.Snapshot, error)

func (f SourceFunc) FetchSnapshot(ctx context.Context) (*model.Snapshot, error) {
	return f(ctx)
}

// StateHandler receives every applied state, on the poller's owner
// goroutine. Implementations must not block for long.
type StateHandler interface {
	HandleState(s State)
}

// StateHandlerFunc is a function adapter for StateHandler.
type StateHandlerFunc func(State)

func (f StateHandlerFunc) HandleState(s State) {
	f(s)
}

// Fanout returns a StateHandler that calls each non-nil handler in order.
func Fanout(handlers ...StateHandler) StateHandler {
	return StateHandlerFunc(func(s State) {
		for _, h := range handlers {
			if h != nil {
				h.HandleState(s)
			}
		}
	})
}

// Recorder observes poller activity, typically for metrics.
type Recorder interface {
	ObserveAttempt(err error, d time.Duration)
	ObserveDiscard(reason string)
	ObserveState(s State)
}

// Discard reasons passed to Recorder.ObserveDiscard.
const (
	DiscardStale   = "stale"
	DiscardStopped = "stopped"
)

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // Time between attempt starts (default: 3s)
	Timeout  time.Duration // Per-attempt timeout (default: 10s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 3 * time.Second,
		Timeout:  10 * time.Second,
	}
}

// Option configures a Poller.
type Option func(*Poller)

// WithRecorder attaches a Recorder.
func WithRecorder(r Recorder) Option {
	return func(p *Poller) {
		p.recorder = r
	}
}

// result is the outcome of one attempt, delivered to the owner goroutine.
type result struct {
	seq      uint64
	trigger  string
	snapshot *model.Snapshot
	err      error
	started  time.Time
	finished time.Time
}

// Poller periodically refreshes the snapshot from a Source.
type Poller struct {
	cfg      Config
	source   Source
	handler  StateHandler
	recorder Recorder
	logger   *slog.Logger

	state   atomic.Pointer[State]
	seq     atomic.Uint64 // Last started attempt
	applied uint64        // Last applied attempt; owner goroutine only

	results chan result
	done    chan struct{} // Closed when the owner goroutine exits

	mu       sync.Mutex     // Guards ctx and cancel
	ctx      context.Context
	cancel   context.CancelFunc
	attempts sync.WaitGroup // In-flight attempts
}

// New creates a new Poller in the Loading state.
func New(cfg Config, source Source, handler StateHandler, logger *slog.Logger, opts ...Option) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	p := &Poller{
		cfg:     cfg,
		source:  source,
		handler: handler,
		logger:  logger,
		results: make(chan result),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state.Store(&State{Status: StatusLoading})
	return p
}

// State returns a consistent copy of the current state.
func (p *Poller) State() State {
	return *p.state.Load()
}

// Start triggers the first attempt and begins the interval schedule.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.ctx != nil {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	go p.run()

	p.logger.Info("poller started",
		"interval", p.cfg.Interval,
		"timeout", p.cfg.Timeout,
	)

	return nil
}

// Retry triggers one extra attempt now. The interval schedule is not
// reset or delayed. Retry is a no-op before Start or after Stop.
func (p *Poller) Retry() {
	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()

	if ctx == nil || ctx.Err() != nil {
		return
	}
	p.launch("manual")
}

// Stop cancels the schedule and discards the results of attempts still
// in flight. Once Stop returns no further state change happens.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-p.done:
		p.logger.Info("poller stopped", "last_attempt", p.seq.Load())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the owner goroutine: it schedules attempts and applies results.
func (p *Poller) run() {
	defer close(p.done)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.launch("initial")

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.launch("interval")
		case res := <-p.results:
			p.apply(res)
		}
	}
}

// launch numbers a new attempt and runs it in the background.
func (p *Poller) launch(trigger string) {
	seq := p.seq.Add(1)
	p.attempts.Add(1)
	go p.attempt(seq, trigger)
}

// attempt performs one fetch and hands the result to the owner goroutine.
func (p *Poller) attempt(seq uint64, trigger string) {
	defer p.attempts.Done()

	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	res := result{seq: seq, trigger: trigger, started: time.Now()}
	res.snapshot, res.err = p.source.FetchSnapshot(ctx)
	if res.err == nil && res.snapshot == nil {
		res.err = errNoSnapshot
	}
	res.finished = time.Now()

	if p.recorder != nil {
		p.recorder.ObserveAttempt(res.err, res.finished.Sub(res.started))
	}

	select {
	case p.results <- res:
	case <-p.done:
		p.discard(res, DiscardStopped)
	}
}

// apply runs on the owner goroutine.
func (p *Poller) apply(res result) {
	if p.ctx.Err() != nil {
		p.discard(res, DiscardStopped)
		return
	}
	if res.seq <= p.applied {
		p.discard(res, DiscardStale)
		return
	}
	p.applied = res.seq

	prev := p.State()
	s := next(prev, res)
	p.state.Store(&s)

	if res.err != nil {
		p.logger.Warn("refresh failed",
			"attempt", res.seq,
			"trigger", res.trigger,
			"kind", api.Kind(res.err),
			"status", s.Status,
			"err", res.err,
		)
	} else {
		p.logger.Debug("refresh applied",
			"attempt", res.seq,
			"trigger", res.trigger,
			"snapshot_id", res.snapshot.ID(),
			"duration", res.finished.Sub(res.started),
		)
	}
	if prev.Status != s.Status {
		p.logger.Info("refresh status changed", "from", prev.Status, "to", s.Status)
	}

	if p.recorder != nil {
		p.recorder.ObserveState(s)
	}
	if p.handler != nil {
		p.handler.HandleState(s)
	}
}

func (p *Poller) discard(res result, reason string) {
	p.logger.Debug("refresh result discarded",
		"attempt", res.seq,
		"trigger", res.trigger,
		"reason", reason,
	)
	if p.recorder != nil {
		p.recorder.ObserveDiscard(reason)
	}
}
