package backend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rileyhilliard/lbdash/internal/status"
)

// ErrPoolFull is returned by Add once the pool holds its maximum size.
var ErrPoolFull = errors.New("server pool is full")

// UnhealthyCPU is the CPU percentage above which a server reports unhealthy.
const UnhealthyCPU = 95.0

// Defaults for PoolOptions
const (
	DefaultHost     = "localhost"
	DefaultBasePort = 9000
)

// PoolOptions configures a simulated server pool.
type PoolOptions struct {
	// Initial is the number of servers created up front.
	Initial int
	// Max caps the pool size. Zero means unlimited.
	Max int
	// Host and BasePort build each server's address as Host:BasePort+N.
	Host     string
	BasePort int
	// Seed makes the simulation reproducible. Zero picks a random seed.
	Seed uint64
}

// Pool is an in-memory set of simulated backend servers.
// It is safe for concurrent use.
type Pool struct {
	mu       sync.RWMutex
	servers  []status.ServerRecord
	max      int
	host     string
	basePort int
	nextN    int
	rng      *rand.Rand
}

// NewPool creates a pool with opts.Initial servers named server-1..N.
func NewPool(opts PoolOptions) *Pool {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.BasePort == 0 {
		opts.BasePort = DefaultBasePort
	}

	p := &Pool{
		max:      opts.Max,
		host:     opts.Host,
		basePort: opts.BasePort,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	for i := 0; i < opts.Initial; i++ {
		if opts.Max > 0 && i >= opts.Max {
			break
		}
		p.servers = append(p.servers, p.newServer())
	}
	return p
}

// Snapshot returns a copy of the servers in insertion order.
func (p *Pool) Snapshot() status.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(status.Snapshot, len(p.servers))
	copy(out, p.servers)
	return out
}

// Len returns the number of servers.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.servers)
}

// Add appends a new server, or returns ErrPoolFull.
func (p *Pool) Add() (status.ServerRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.max > 0 && len(p.servers) >= p.max {
		return status.ServerRecord{}, fmt.Errorf("%w (max %d)", ErrPoolFull, p.max)
	}
	s := p.newServer()
	p.servers = append(p.servers, s)
	return s, nil
}

// Drift moves every server's metrics one random step. CPU above
// UnhealthyCPU marks the server unhealthy until it drops back.
func (p *Pool) Drift() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.servers {
		s := &p.servers[i]
		s.Requests += int64(p.rng.IntN(200))
		s.ActiveConnections = max(0, s.ActiveConnections+int64(p.rng.IntN(11)-5))
		s.CPUUsage = walk(s.CPUUsage, p.rng.NormFloat64()*8)
		s.MemUsage = walk(s.MemUsage, p.rng.NormFloat64()*4)
		s.Healthy = s.CPUUsage <= UnhealthyCPU
	}
}

// Run drifts the pool on every tick until ctx is done.
func (p *Pool) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.Drift()
		}
	}
}

// chance reports true with probability rate.
func (p *Pool) chance(rate float64) bool {
	if rate <= 0 {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64() < rate
}

// newServer builds the next server. Must be called with p.mu held or
// before the pool is shared.
func (p *Pool) newServer() status.ServerRecord {
	p.nextN++
	return status.ServerRecord{
		ID:                status.ServerID(fmt.Sprintf("server-%d", p.nextN)),
		Host:              p.host,
		Port:              p.basePort + p.nextN,
		Healthy:           true,
		Requests:          int64(p.rng.IntN(1000)),
		ActiveConnections: int64(p.rng.IntN(50)),
		CPUUsage:          round2(10 + p.rng.Float64()*50),
		MemUsage:          round2(20 + p.rng.Float64()*50),
	}
}

// walk applies delta to a percentage and keeps it in [0, 100].
func walk(v, delta float64) float64 {
	return round2(math.Min(100, math.Max(0, v+delta)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
