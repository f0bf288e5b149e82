package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher batches notifications and hands the batches to a pool of workers.
// A batch is flushed when it is full or when the flush interval passes after
// its first entry.
type Dispatcher struct {
	log         *zap.Logger
	sink        Sink
	workerCount int
	batchSize   int
	timeout     time.Duration

	inputChan  chan Notification
	batchChan  chan []Notification
	shutdownCh chan struct{}
	once       sync.Once

	// stopping is closed when the aggregator stops reading inputChan; closed
	// is set once no Notify can be sending to it any more.
	stopping chan struct{}
	mu       sync.RWMutex
	closed   bool

	wg           sync.WaitGroup
	pendingMu    sync.Mutex
	pendingCount int
}

func NewDispatcher(sink Sink, workerCount, batchSize int, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if workerCount <= 0 {
		workerCount = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Dispatcher{
		log:         logger.With(zap.String("component", "notify")),
		sink:        sink,
		workerCount: workerCount,
		batchSize:   batchSize,
		timeout:     timeout,
		inputChan:   make(chan Notification, workerCount*batchSize*2),
		batchChan:   make(chan []Notification, workerCount*2),
		shutdownCh:  make(chan struct{}),
		stopping:    make(chan struct{}),
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.log.Info("Starting notification dispatcher", zap.Int("workers", d.workerCount))
	d.wg.Add(1)
	go d.runAggregator(ctx)

	for i := 0; i < d.workerCount; i++ {
		d.wg.Add(1)
		go d.runWorker(i)
	}

	go d.monitorShutdown(ctx)
}

// Shutdown flushes the pending batch and waits for the workers until ctx is done.
func (d *Dispatcher) Shutdown(ctx context.Context) {
	d.once.Do(func() {
		d.log.Info("Initiating notification dispatcher shutdown")
		close(d.shutdownCh)

		done := make(chan struct{})
		go func() {
			d.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			d.log.Info("Notification dispatcher shutdown completed")
		case <-ctx.Done():
			d.log.Warn("Notification dispatcher shutdown interrupted")
		}
	})
}

// Notify queues n. It never blocks past ctx or shutdown: in both cases n is
// delivered directly.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}

	d.updatePendingCount(1)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.deliverDirect(n)
		return
	}

	select {
	case d.inputChan <- n:
	case <-ctx.Done():
		d.deliverDirect(n)
	case <-d.stopping:
		d.deliverDirect(n)
	}
}

func (d *Dispatcher) Pending() int {
	d.pendingMu.Lock()
	defer d.pendingMu.Unlock()
	return d.pendingCount
}

func (d *Dispatcher) monitorShutdown(ctx context.Context) {
	select {
	case <-ctx.Done():
		d.log.Debug("Context cancellation detected")
		d.Shutdown(context.Background())
	case <-d.shutdownCh:
	}
}

func (d *Dispatcher) runAggregator(ctx context.Context) {
	defer d.wg.Done()

	var (
		batch    []Notification
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
		close(d.stopping)
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
	drain:
		for {
			select {
			case n := <-d.inputChan:
				batch = append(batch, n)
			default:
				break drain
			}
		}
		if len(batch) > 0 {
			d.dispatchBatch(batch)
		}
		close(d.batchChan)
	}()

	for {
		select {
		case n := <-d.inputChan:
			batch = append(batch, n)
			if len(batch) >= d.batchSize {
				d.dispatchBatch(batch)
				batch = nil
				timeoutC = nil
			} else if len(batch) == 1 {
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(d.timeout)
				timeoutC = timer.C
			}

		case <-timeoutC:
			d.dispatchBatch(batch)
			batch = nil
			timeoutC = nil

		case <-ctx.Done():
			return

		case <-d.shutdownCh:
			return
		}
	}
}

func (d *Dispatcher) dispatchBatch(batch []Notification) {
	batchCopy := make([]Notification, len(batch))
	copy(batchCopy, batch)

	select {
	case d.batchChan <- batchCopy:
	default:
		d.sink.Deliver(-1, batchCopy)
		d.updatePendingCount(-len(batchCopy))
	}
}

func (d *Dispatcher) runWorker(id int) {
	defer d.wg.Done()

	for batch := range d.batchChan {
		d.sink.Deliver(id, batch)
		d.updatePendingCount(-len(batch))
	}
	d.log.Debug("Notification worker exiting", zap.Int("worker", id))
}

func (d *Dispatcher) deliverDirect(n Notification) {
	d.sink.Deliver(-1, []Notification{n})
	d.updatePendingCount(-1)
}

func (d *Dispatcher) updatePendingCount(delta int) {
	d.pendingMu.Lock()
	defer d.pendingMu.Unlock()
	d.pendingCount += delta
}
