package email

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrDispatcherClosed is returned by Send after Shutdown has been called
var ErrDispatcherClosed = errors.New("email dispatcher is shut down")

// Dispatcher defaults
const (
	DefaultQueueSize   = 100
	DefaultWorkers     = 2
	DefaultSendTimeout = 10 * time.Second
)

// DispatcherConfig sizes the queue and worker pool
type DispatcherConfig struct {
	QueueSize   int
	Workers     int
	SendTimeout time.Duration
}

// Stats is a snapshot of the dispatcher's delivery counters
type Stats struct {
	Queued  int    `json:"queued"`
	Sent    uint64 `json:"sent"`
	Failed  uint64 `json:"failed"`
	Dropped uint64 `json:"dropped"`
}

// Dispatcher is a Notifier backed by a bounded queue and a fixed pool of
// workers. Messages are delivered on contexts detached from the caller.
// When the queue is full new messages are dropped and counted.
type Dispatcher struct {
	mailer Mailer
	logger *zap.Logger
	cfg    DispatcherConfig

	queue chan Message

	mu     sync.RWMutex
	closed bool

	// cancelled when a Shutdown deadline passes so workers stop delivering
	baseCtx    context.Context
	cancelBase context.CancelFunc

	wg   sync.WaitGroup
	done chan struct{}

	sent    atomic.Uint64
	failed  atomic.Uint64
	dropped atomic.Uint64
}

// NewDispatcher starts cfg.Workers goroutines draining a queue of
// cfg.QueueSize messages into mailer. Zero values take the defaults.
func NewDispatcher(mailer Mailer, logger *zap.Logger, cfg DispatcherConfig) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		mailer:     mailer,
		logger:     logger.Named("email.dispatcher"),
		cfg:        cfg,
		queue:      make(chan Message, cfg.QueueSize),
		baseCtx:    baseCtx,
		cancelBase: cancel,
		done:       make(chan struct{}),
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.worker(i)
	}
	go func() {
		d.wg.Wait()
		close(d.done)
	}()

	return d
}

// Send validates msg and enqueues it without blocking. A full queue drops
// the message and still returns nil.
func (d *Dispatcher) Send(msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- msg:
		d.logger.Debug("email queued",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
		)
	default:
		d.dropped.Add(1)
		d.logger.Warn("email queue full, message dropped",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Int("queue_size", d.cfg.QueueSize),
		)
	}

	return nil
}

// Stats returns the current counters
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Queued:  len(d.queue),
		Sent:    d.sent.Load(),
		Failed:  d.failed.Load(),
		Dropped: d.dropped.Load(),
	}
}

// Shutdown stops accepting messages and waits for queued ones to be
// delivered. If ctx ends first, remaining messages are dropped and
// ctx.Err() is returned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		d.cancelBase()
		d.logger.Info("email dispatcher drained", zap.Any("stats", d.Stats()))
		return nil
	case <-ctx.Done():
		d.cancelBase()
		d.logger.Warn("email dispatcher shutdown deadline exceeded",
			zap.Int("pending", len(d.queue)),
			zap.Error(ctx.Err()),
		)
		return ctx.Err()
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for msg := range d.queue {
		if d.baseCtx.Err() != nil {
			d.dropped.Add(1)
			continue
		}
		d.deliver(id, msg)
	}
}

func (d *Dispatcher) deliver(worker int, msg Message) {
	ctx, cancel := context.WithTimeout(d.baseCtx, d.cfg.SendTimeout)
	defer cancel()

	start := time.Now()
	err := d.mailer.Send(ctx, msg)
	if err != nil {
		d.failed.Add(1)
		d.logger.Error("email delivery failed",
			zap.Int("worker", worker),
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}

	d.sent.Add(1)
	d.logger.Info("email delivered",
		zap.Int("worker", worker),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Duration("elapsed", time.Since(start)),
	)
}
