package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/tracking-system/internal/core/carrier"
	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
	"github.com/99minutos/tracking-system/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrDispatcherClosed is returned by Enqueue after Close.
var ErrDispatcherClosed = errors.New("dispatcher closed")

// Dispatcher routes tracking events to a fixed set of workers using consistent
// hashing on the tracking number, guaranteeing per-shipment event ordering.
type Dispatcher struct {
	workers []chan ports.TrackingEventInput
	service ports.EventService
	log     zerolog.Logger

	mu     sync.RWMutex // guards closed against sends on closed channels
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.EventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.TrackingEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.TrackingEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit when ctx is cancelled or,
// after Close, once their queue is drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its tracking number.
// It blocks while that worker's buffer is full, until ctx is done.
func (d *Dispatcher) Enqueue(ctx context.Context, event ports.TrackingEventInput) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	idx := d.shardIndex(event.TrackingNumber)
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EnqueueBatch enqueues multiple events preserving per-shipment ordering.
// It stops at the first event that cannot be queued and reports how many were.
func (d *Dispatcher) EnqueueBatch(ctx context.Context, events []ports.TrackingEventInput) (int, error) {
	for i, e := range events {
		if err := d.Enqueue(ctx, e); err != nil {
			return i, err
		}
	}
	return len(events), nil
}

// Close stops accepting events and waits for the workers to drain their queues.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a tracking number deterministically to a worker index.
// Numbers are normalised first so "bd123456" and "BD123456" share a worker.
func (d *Dispatcher) shardIndex(trackingNumber string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(carrier.Normalize(trackingNumber)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.TrackingEventInput) {
	defer d.wg.Done()
	depth := metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.process(ctx, id, event)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, event ports.TrackingEventInput) {
	err := d.service.Process(ctx, event)
	if err == nil {
		return
	}

	var rejected *domain.RejectedEvent
	if errors.As(err, &rejected) || errors.Is(err, domain.ErrInvalidFormat) {
		d.log.Warn().Err(err).
			Str("tracking_number", event.TrackingNumber).
			Int("worker_id", id).
			Msg("event rejected")
		return
	}
	d.log.Error().Err(err).
		Str("tracking_number", event.TrackingNumber).
		Int("worker_id", id).
		Msg("event processing failed")
}
