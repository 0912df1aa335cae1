package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/support-orchestrator/models"
	"go.uber.org/zap"
)

type mockAuditRepository struct {
	mock.Mock
}

func (m *mockAuditRepository) Insert(ctx context.Context, record *models.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockAuditRepository) List(ctx context.Context, limit, offset int) ([]*models.AuditRecord, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditRecord), args.Error(1)
}

func sampleRecord(input string) models.AuditRecord {
	return models.NewAuditRecord(input, models.TurnResult{
		Text: "answer for " + input,
		Meta: models.TurnMeta{
			Model:      "support-rules-v1",
			Intent:     models.Intent{Category: models.IntentPolicyQuestion, Confidence: 0.6},
			Confidence: 0.6,
			Citations:  []string{"kb/returns_policy.md"},
		},
	})
}

func TestLog_AppendPreservesOrder(t *testing.T) {
	l := NewLog(zap.NewNop())

	for i := 0; i < 5; i++ {
		l.Append(sampleRecord(fmt.Sprintf("question %d", i)))
	}

	records := l.Records()
	require.Len(t, records, 5)
	for i, r := range records {
		assert.Equal(t, fmt.Sprintf("question %d", i), r.Input)
	}
	assert.Equal(t, 5, l.Len())
}

func TestLog_RecordsReturnsCopy(t *testing.T) {
	l := NewLog(zap.NewNop())
	l.Append(sampleRecord("original"))

	records := l.Records()
	records[0].Input = "tampered"

	assert.Equal(t, "original", l.Records()[0].Input)
}

func TestLog_ExportRoundTrips(t *testing.T) {
	l := NewLog(zap.NewNop())
	l.Append(sampleRecord("where is my order A123?"))
	l.Append(sampleRecord("what is the return window?"))

	data, err := l.Export()
	require.NoError(t, err)

	var decoded []models.AuditRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "where is my order A123?", decoded[0].Input)
	assert.Equal(t, l.Records()[0].ID, decoded[0].ID)
}

func TestLog_ExportEmpty(t *testing.T) {
	l := NewLog(zap.NewNop())

	data, err := l.Export()
	require.NoError(t, err)

	var decoded []models.AuditRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Empty(t, decoded)
}

func TestLog_ConcurrentAppends(t *testing.T) {
	l := NewLog(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Append(sampleRecord(fmt.Sprintf("concurrent %d", i)))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, l.Len())
}

func TestLog_SinkReceivesMirrorCopies(t *testing.T) {
	sink := &mockAuditRepository{}
	inserted := make(chan *models.AuditRecord, 2)
	sink.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted <- args.Get(1).(*models.AuditRecord)
	}).Return(nil)

	l := NewLogWithSink(sink, zap.NewNop())
	record := sampleRecord("where is my order A123?")
	l.Append(record)

	select {
	case got := <-inserted:
		assert.Equal(t, record.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("sink never received the record")
	}

	require.NoError(t, l.Close(2*time.Second))
	assert.Equal(t, 1, l.Len())
}

func TestLog_SinkErrorDoesNotAffectMemoryLog(t *testing.T) {
	sink := &mockAuditRepository{}
	sink.On("Insert", mock.Anything, mock.Anything).Return(fmt.Errorf("connection refused"))

	l := NewLogWithSink(sink, zap.NewNop())
	l.Append(sampleRecord("question"))

	require.NoError(t, l.Close(2*time.Second))
	assert.Equal(t, 1, l.Len())
}

func TestLog_CloseWithoutSink(t *testing.T) {
	l := NewLog(zap.NewNop())
	assert.NoError(t, l.Close(time.Second))
}
