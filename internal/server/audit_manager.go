package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pupkingeorgij/artmarket/internal/kafka"
	"github.com/pupkingeorgij/artmarket/internal/metrics"
)

const publishTimeout = 5 * time.Second

// AuditManager collects audit entries into batches and publishes them from a
// fixed pool of workers. A batch is flushed when it is full or when timeout
// has passed since its first entry.
type AuditManager struct {
	producer    kafka.Producer
	topic       string
	logger      *zap.Logger
	workerCount int
	batchSize   int
	timeout     time.Duration

	inputChan  chan AuditLogEntry
	batchChan  chan []AuditLogEntry
	shutdownCh chan struct{}
	startOnce  sync.Once
	stopOnce   sync.Once

	wg           sync.WaitGroup
	pendingMu    sync.Mutex
	pendingCount int
}

func NewAuditManager(producer kafka.Producer, topic string, workerCount, batchSize int, timeout time.Duration, logger *zap.Logger) *AuditManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditManager{
		producer:    producer,
		topic:       topic,
		logger:      logger.Named("audit"),
		workerCount: workerCount,
		batchSize:   batchSize,
		timeout:     timeout,
		inputChan:   make(chan AuditLogEntry, workerCount*batchSize*2),
		batchChan:   make(chan []AuditLogEntry, workerCount*2),
		shutdownCh:  make(chan struct{}),
	}
}

// Start launches the aggregator and the workers. They run until Shutdown.
func (m *AuditManager) Start() {
	m.startOnce.Do(func() {
		m.logger.Info("starting audit manager",
			zap.Int("workers", m.workerCount),
			zap.Int("batch_size", m.batchSize),
			zap.Duration("timeout", m.timeout),
		)

		m.wg.Add(1)
		go m.runAggregator()

		for i := 0; i < m.workerCount; i++ {
			m.wg.Add(1)
			go m.runWorker(i)
		}
	})
}

// Shutdown flushes buffered entries and waits for the workers, or for ctx.
func (m *AuditManager) Shutdown(ctx context.Context) {
	m.stopOnce.Do(func() {
		m.logger.Info("initiating audit manager shutdown")
		close(m.shutdownCh)

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			m.logger.Info("audit manager shutdown completed")
		case <-ctx.Done():
			m.logger.Warn("audit manager shutdown interrupted", zap.Int("pending", m.Pending()))
		}
	})
}

// LogEntry never blocks past ctx or shutdown; such entries are written to the
// log instead.
func (m *AuditManager) LogEntry(ctx context.Context, entry AuditLogEntry) {
	m.updatePendingCount(1)

	select {
	case <-m.shutdownCh:
		m.emergencyLog(entry)
		return
	default:
	}

	select {
	case m.inputChan <- entry:
	case <-ctx.Done():
		m.emergencyLog(entry)
	case <-m.shutdownCh:
		m.emergencyLog(entry)
	}
}

// Pending is the number of accepted entries not yet published.
func (m *AuditManager) Pending() int {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	return m.pendingCount
}

func (m *AuditManager) runAggregator() {
	defer m.wg.Done()

	var (
		batch    []AuditLogEntry
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
		timeoutC = nil
	}

	defer func() {
		stopTimer()
		batch = append(batch, m.drainInput()...)
		if len(batch) > 0 {
			m.dispatchBatch(batch)
		}
		close(m.batchChan)
	}()

	for {
		select {
		case entry := <-m.inputChan:
			batch = append(batch, entry)
			if len(batch) >= m.batchSize {
				stopTimer()
				m.dispatchBatch(batch)
				batch = nil
			} else if len(batch) == 1 {
				timer = time.NewTimer(m.timeout)
				timeoutC = timer.C
			}

		case <-timeoutC:
			timeoutC = nil
			m.dispatchBatch(batch)
			batch = nil

		case <-m.shutdownCh:
			return
		}
	}
}

func (m *AuditManager) drainInput() []AuditLogEntry {
	var rest []AuditLogEntry
	for {
		select {
		case entry := <-m.inputChan:
			rest = append(rest, entry)
		default:
			return rest
		}
	}
}

// dispatchBatch hands the batch to a worker, or publishes it inline when all
// workers are busy.
func (m *AuditManager) dispatchBatch(batch []AuditLogEntry) {
	batchCopy := make([]AuditLogEntry, len(batch))
	copy(batchCopy, batch)

	select {
	case m.batchChan <- batchCopy:
	default:
		m.publishBatch(-1, batchCopy)
	}
}

func (m *AuditManager) runWorker(id int) {
	defer m.wg.Done()

	for batch := range m.batchChan {
		m.publishBatch(id, batch)
	}
	m.logger.Debug("audit worker exiting", zap.Int("worker", id))
}

func (m *AuditManager) publishBatch(workerID int, batch []AuditLogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	for _, entry := range batch {
		value, err := json.Marshal(entry)
		if err != nil {
			m.logger.Error("marshal audit entry", zap.Error(err))
			metrics.AuditEntriesPublishedTotal.WithLabelValues("failed").Inc()
			continue
		}

		if err := m.producer.SendMessage(ctx, m.topic, entry.Key(), value); err != nil {
			m.logger.Error("publish audit entry",
				zap.Int("worker", workerID),
				zap.String("topic", m.topic),
				zap.Error(err),
			)
			metrics.AuditEntriesPublishedTotal.WithLabelValues("failed").Inc()
			continue
		}
		metrics.AuditEntriesPublishedTotal.WithLabelValues("ok").Inc()
	}
	m.updatePendingCount(-len(batch))
}

func (m *AuditManager) emergencyLog(entry AuditLogEntry) {
	m.logger.Warn("audit entry not queued",
		zap.String("route", entry.Route),
		zap.String("path", entry.Path),
		zap.Int("status_code", entry.StatusCode),
		zap.String("executor_id", entry.ExecutorID),
	)
	m.updatePendingCount(-1)
}

func (m *AuditManager) updatePendingCount(delta int) {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	m.pendingCount += delta
}
