package monitor

import (
	"sync"

	"github.com/rileyhilliard/lbdash/internal/status"
)

// DefaultHistorySize is the default number of samples retained per metric.
// At the default 10s refresh interval this covers the last ten minutes.
const DefaultHistorySize = 60

// History keeps CPU and memory samples for every server in ring buffers.
// It is safe for concurrent use.
type History struct {
	mu      sync.RWMutex
	size    int
	servers map[status.ServerID]*serverHistory
}

type serverHistory struct {
	cpu *ringBuffer
	mem *ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a history tracker with the given buffer size.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:    size,
		servers: make(map[status.ServerID]*serverHistory),
	}
}

// Record appends one sample per server in snap and drops servers that are
// no longer present.
func (h *History) Record(snap status.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seen := make(map[status.ServerID]struct{}, len(snap))
	for _, r := range snap {
		seen[r.ID] = struct{}{}
		hist, ok := h.servers[r.ID]
		if !ok {
			hist = &serverHistory{
				cpu: newRingBuffer(h.size),
				mem: newRingBuffer(h.size),
			}
			h.servers[r.ID] = hist
		}
		hist.cpu.push(r.CPUUsage)
		hist.mem.push(r.MemUsage)
	}

	for id := range h.servers {
		if _, ok := seen[id]; !ok {
			delete(h.servers, id)
		}
	}
}

// CPU returns up to count CPU samples for id, oldest first.
func (h *History) CPU(id status.ServerID, count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	hist, ok := h.servers[id]
	if !ok {
		return nil
	}
	return hist.cpu.getLast(count)
}

// Mem returns up to count memory samples for id, oldest first.
func (h *History) Mem(id status.ServerID, count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	hist, ok := h.servers[id]
	if !ok {
		return nil
	}
	return hist.mem.getLast(count)
}

// Count returns the number of samples stored for id.
func (h *History) Count(id status.ServerID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	hist, ok := h.servers[id]
	if !ok {
		return 0
	}
	return hist.cpu.count
}

// Len returns the number of tracked servers.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.servers)
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order.
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}
	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)
	// head is the next write position, so the newest value sits at head-1.
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
