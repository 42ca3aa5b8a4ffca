package monitor

import (
	"testing"

	"github.com/rileyhilliard/lbdash/internal/status"
	"github.com/stretchr/testify/assert"
)

func TestNewHistory_DefaultSize(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, DefaultHistorySize, h.size)

	h = NewHistory(-3)
	assert.Equal(t, DefaultHistorySize, h.size)
}

func TestHistory_Record(t *testing.T) {
	h := NewHistory(10)

	h.Record(status.Snapshot{{ID: "a", CPUUsage: 10, MemUsage: 20}})
	h.Record(status.Snapshot{{ID: "a", CPUUsage: 30, MemUsage: 40}})

	assert.Equal(t, []float64{10, 30}, h.CPU("a", 10))
	assert.Equal(t, []float64{20, 40}, h.Mem("a", 10))
	assert.Equal(t, 2, h.Count("a"))
}

func TestHistory_Wraps(t *testing.T) {
	h := NewHistory(3)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		h.Record(status.Snapshot{{ID: "a", CPUUsage: v}})
	}

	assert.Equal(t, []float64{3, 4, 5}, h.CPU("a", 10))
	assert.Equal(t, []float64{4, 5}, h.CPU("a", 2))
	assert.Equal(t, 3, h.Count("a"))
}

func TestHistory_PrunesMissingServers(t *testing.T) {
	h := NewHistory(5)
	h.Record(status.Snapshot{{ID: "a"}, {ID: "b"}})
	assert.Equal(t, 2, h.Len())

	h.Record(status.Snapshot{{ID: "b"}})

	assert.Equal(t, 1, h.Len())
	assert.Nil(t, h.CPU("a", 5))
	assert.Equal(t, 2, h.Count("b"))
}

func TestHistory_Unknown(t *testing.T) {
	h := NewHistory(5)

	assert.Nil(t, h.CPU("missing", 5))
	assert.Nil(t, h.Mem("missing", 5))
	assert.Equal(t, 0, h.Count("missing"))
}

func TestRingBuffer_GetLast(t *testing.T) {
	r := newRingBuffer(4)
	assert.Nil(t, r.getLast(2))

	r.push(1)
	r.push(2)

	assert.Nil(t, r.getLast(0))
	assert.Equal(t, []float64{2}, r.getLast(1))
	assert.Equal(t, []float64{1, 2}, r.getLast(10))
}
