// Package audit implements the append-only interaction log. Every turn
// the orchestrator executes, successful or failed, lands here.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/upb/support-orchestrator/models"
	"github.com/upb/support-orchestrator/repositories"
	"go.uber.org/zap"
)

const defaultSinkBuffer = 1024

// Log is a mutex-guarded, append-only ordered sequence of audit records.
// Only the append itself is critical-sectioned; it never blocks on
// network or database calls. When a repository sink is attached, records
// are additionally mirrored to it by a background inserter fed through a
// buffered channel.
type Log struct {
	mu      sync.Mutex
	records []models.AuditRecord

	sink   repositories.AuditRepository
	events chan models.AuditRecord
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewLog creates an in-memory audit log.
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

// NewLogWithSink creates an audit log that also mirrors records into the
// given repository from a background goroutine.
func NewLogWithSink(sink repositories.AuditRepository, logger *zap.Logger) *Log {
	l := &Log{
		sink:   sink,
		events: make(chan models.AuditRecord, defaultSinkBuffer),
		logger: logger,
	}
	l.wg.Add(1)
	go l.inserter()
	return l
}

// Append adds a record to the ordered log. Records are never mutated
// after append. When the persistence buffer is full the record is still
// kept in memory; only the mirror copy is dropped.
func (l *Log) Append(record models.AuditRecord) {
	l.mu.Lock()
	l.records = append(l.records, record)
	l.mu.Unlock()

	if l.sink == nil {
		return
	}
	select {
	case l.events <- record:
	default:
		l.logger.Warn("audit sink buffer full, dropping mirror copy",
			zap.String("record_id", record.ID.String()))
	}
}

// Records returns a copy of the ordered log.
func (l *Log) Records() []models.AuditRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.AuditRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of appended records.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Export serializes the full ordered log as a JSON document suitable for
// offline QA review.
func (l *Log) Export() ([]byte, error) {
	records := l.Records()
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize audit log: %w", err)
	}
	return data, nil
}

// Close stops the persistence inserter, waiting up to timeout for
// pending mirror inserts. The in-memory log stays readable.
func (l *Log) Close(timeout time.Duration) error {
	if l.sink == nil {
		return nil
	}

	close(l.events)
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("audit sink close timeout after %v", timeout)
	}
}

// inserter drains the event channel into the repository.
func (l *Log) inserter() {
	defer l.wg.Done()

	for record := range l.events {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := l.sink.Insert(ctx, &record); err != nil {
			l.logger.Error("failed to persist audit record",
				zap.String("record_id", record.ID.String()),
				zap.Error(err))
		}
		cancel()
	}
}
