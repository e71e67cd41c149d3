package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible dataset run.
// Two runs with the same SimulationKey and identical parameters
// MUST produce bit-for-bit identical paths.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

// pcgStream is the fixed second PCG word; isolation comes from the derived seed.
const pcgStream uint64 = 0x9e3779b97f4a7c15

// SubsystemSample returns the subsystem name for sample N.
// Each sample path draws from its own stream so that paths stay
// independent regardless of the order in which they are simulated.
func SubsystemSample(id int) string {
	return fmt.Sprintf("sample_%d", id)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName), fed to a PCG
// generator from math/rand/v2.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
// The returned *rand.Rand values may be handed to other goroutines as long
// as each one is used by a single goroutine at a time.
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

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewPCG(uint64(derivedSeed), pcgStream))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
