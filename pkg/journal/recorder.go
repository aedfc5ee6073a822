package journal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/telemetry/logging"
)

// writeTimeout bounds a single store write so a stuck backend cannot
// wedge the worker.
const writeTimeout = 5 * time.Second

// slowWriteThreshold is the write duration above which a warning is
// logged.
const slowWriteThreshold = 100 * time.Millisecond

// Recorder writes journal records asynchronously. Records are handed
// to a buffered channel and persisted by a single worker goroutine, so
// recording never blocks a load. When the buffer is full the record is
// dropped and counted rather than queued.
//
// A nil *Recorder is safe: Record and Close are no-ops, so components
// accept a Recorder without a wiring check.
type Recorder struct {
	store   Store
	records chan *Record
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *logging.Logger
	dropped atomic.Int64
	closed  atomic.Bool
}

// NewRecorder creates a recorder over the given store and starts its
// worker. bufferSize <= 0 falls back to the default buffer size.
func NewRecorder(store Store, bufferSize int, logger *logging.Logger) *Recorder {
	if bufferSize <= 0 {
		bufferSize = config.DefaultJournalBufferSize
	}
	if logger == nil {
		logger = logging.Discard()
	}

	r := &Recorder{
		store:   store,
		records: make(chan *Record, bufferSize),
		done:    make(chan struct{}),
		logger:  logger.Component("journal.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Debug("journal recorder started", "buffer_size", bufferSize)
	return r
}

// Record queues a journal record for persistence. If the buffer is
// full or the recorder is closed, the record is dropped and counted.
func (r *Recorder) Record(record *Record) {
	if r == nil || record == nil {
		return
	}
	if r.closed.Load() {
		r.dropped.Add(1)
		return
	}

	select {
	case r.records <- record:
	default:
		dropped := r.dropped.Add(1)
		r.logger.Warn("journal buffer full, record dropped",
			"dataset", record.Dataset,
			"dropped_total", dropped,
		)
	}
}

// Dropped returns the number of records dropped because the buffer
// was full or the recorder was closed.
func (r *Recorder) Dropped() int64 {
	if r == nil {
		return 0
	}
	return r.dropped.Load()
}

// Close stops the worker after draining every queued record. The
// underlying store is not closed; it belongs to the caller.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	if r.closed.Swap(true) {
		return nil
	}
	close(r.done)
	r.wg.Wait()
	r.logger.Debug("journal recorder stopped", "dropped_total", r.dropped.Load())
	return nil
}

// worker persists queued records until Close, then drains the buffer.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.records:
			r.writeRecord(record)
		case <-r.done:
			// Drain whatever is still queued before exiting.
			for {
				select {
				case record := <-r.records:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

// writeRecord persists one record with a bounded timeout. Failures are
// logged and swallowed: the journal is observability, not control flow.
func (r *Recorder) writeRecord(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	start := time.Now()
	err := r.store.Append(ctx, record)
	elapsed := time.Since(start)

	if err != nil {
		r.logger.Error("journal write failed",
			"record_id", record.ID,
			"dataset", record.Dataset,
			"error", err,
		)
		return
	}

	if elapsed > slowWriteThreshold {
		r.logger.Warn("slow journal write",
			"record_id", record.ID,
			"duration_ms", elapsed.Milliseconds(),
		)
	}
}
