// Package useragent rotates User-Agent strings across requests so a run's
// traffic does not present a single static client signature.
package useragent

import (
	"math/rand/v2"
	"sync/atomic"
)

// defaultAgents is a small set of current desktop browser identities.
var defaultAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.0.0",
}

// Pool hands out User-Agent strings round-robin or at random.
// Safe for concurrent use.
type Pool struct {
	agents []string
	next   atomic.Uint64
}

// NewPool creates a pool from the given agents, falling back to the default
// set when empty.
func NewPool(agents []string) *Pool {
	if len(agents) == 0 {
		agents = defaultAgents
	}
	copied := make([]string, len(agents))
	copy(copied, agents)
	return &Pool{agents: copied}
}

// Next returns the next agent in round-robin order.
func (p *Pool) Next() string {
	idx := p.next.Add(1) - 1
	return p.agents[idx%uint64(len(p.agents))]
}

// Random returns a uniformly random agent from the pool.
func (p *Pool) Random() string {
	return p.agents[rand.IntN(len(p.agents))]
}

// Len reports the number of agents in the pool.
func (p *Pool) Len() int {
	return len(p.agents)
}
