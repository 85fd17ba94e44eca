package directory

import (
	"math/rand"
	"sync"
)

// Op identifies a fault-injectable operation class.
type Op string

// Operation classes checked against the failure policy. Lookups by id,
// threshold updates, and history reads are never fault-injected.
const (
	OpList        Op = "list"
	OpCreate      Op = "create"
	OpUpdateStock Op = "update_stock"
	OpDelete      Op = "delete"
)

// FailurePolicy decides whether a given call fails with ErrUnavailable.
type FailurePolicy interface {
	ShouldFail(op Op) bool
}

// NeverFail is the zero failure policy.
type NeverFail struct{}

// ShouldFail always reports false.
func (NeverFail) ShouldFail(Op) bool { return false }

// RandomPolicy fails a fixed fraction of calls, uniformly across ops.
type RandomPolicy struct {
	mu   sync.Mutex
	rate float64
	rng  *rand.Rand
}

// NewRandomPolicy returns a policy failing calls at the given rate in [0,1].
func NewRandomPolicy(rate float64, seed int64) *RandomPolicy {
	return &RandomPolicy{rate: rate, rng: rand.New(rand.NewSource(seed))}
}

// ShouldFail rolls against the configured rate.
func (p *RandomPolicy) ShouldFail(Op) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64() < p.rate
}

// ScriptedPolicy replays a per-op script of outcomes, then succeeds. It lets
// tests force deterministic failure sequences.
type ScriptedPolicy struct {
	mu     sync.Mutex
	script map[Op][]bool
}

// NewScriptedPolicy returns an empty script; all calls succeed until Push.
func NewScriptedPolicy() *ScriptedPolicy {
	return &ScriptedPolicy{script: make(map[Op][]bool)}
}

// Push appends outcomes for the next calls of op. true means fail.
func (p *ScriptedPolicy) Push(op Op, outcomes ...bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.script[op] = append(p.script[op], outcomes...)
}

// ShouldFail pops the next scripted outcome for op, defaulting to success.
func (p *ScriptedPolicy) ShouldFail(op Op) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.script[op]
	if len(s) == 0 {
		return false
	}
	out := s[0]
	p.script[op] = s[1:]
	return out
}
