package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SimulationKey identifies a reproducible run. Two runs with the same key and
// configuration draw the same arrival schedule.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

const (
	// SubsystemArrivals seeds the arrival-curve sampler. It uses the master
	// seed directly so `--seed N` maps to one schedule.
	SubsystemArrivals = "arrivals"
)

// SubsystemReplication returns the subsystem name for sweep replication r.
func SubsystemReplication(r int) string {
	return fmt.Sprintf("replication_%d", r)
}

// PartitionedRNG hands out isolated, deterministically seeded sources per
// subsystem: masterSeed for SubsystemArrivals, masterSeed XOR fnv1a64(name)
// for everything else.
//
// Not thread-safe. Draw every source from one goroutine and hand the
// resulting *rand.Rand to at most one consumer.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the cached source for name, creating it on first use.
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	derivedSeed := int64(p.key)
	if name != SubsystemArrivals {
		derivedSeed ^= fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
