package dispatch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/work4food-go/internal/domain/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

func TestBatchID_Format(t *testing.T) {
	windowStart := time.Date(2025, 6, 15, 12, 3, 0, 0, time.UTC)

	assert.Equal(t, "batch_20250615_120300", dispatch.BatchID(windowStart))
}

func TestBatchID_DeterministicPerWindow(t *testing.T) {
	windowStart := time.Date(2025, 6, 15, 12, 3, 0, 0, time.UTC)

	assert.Equal(t, dispatch.BatchID(windowStart), dispatch.BatchID(windowStart))
	assert.NotEqual(t, dispatch.BatchID(windowStart), dispatch.BatchID(windowStart.Add(3*time.Minute)))
}

func TestNewBatchRecord(t *testing.T) {
	start := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Minute)
	clock := shared.NewMockClock(end)

	record := dispatch.NewBatchRecord(start, end, 5, 3, 0.27, clock)

	assert.Equal(t, dispatch.BatchID(start), record.BatchID)
	assert.Equal(t, 5, record.TotalOrders)
	assert.Equal(t, 3, record.AssignedOrders)
	assert.Equal(t, 0.27, record.OmegaUsed)
	assert.Equal(t, end, record.CreatedAt)
}
