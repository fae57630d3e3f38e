// Package cortex: construction, prime seeding, witness cache and run
// records.
package cortex

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/katalvlaran/manifold/core"
	"github.com/voodooEntity/gits"
	"github.com/voodooEntity/gits/src/transport"
)

// ReferencePoints is the number of prime reference points seeded into
// every cortex.
const ReferencePoints = 144

// Entity types used in the backing graph.
const (
	typePrime   = "Prime"
	typeWitness = "Witness"
	typeRun     = "Run"
	typeNode    = "ManifoldNode"
)

var (
	// ErrEmptyName indicates New received an empty instance name.
	ErrEmptyName = errors.New("cortex: instance name must not be empty")

	// ErrPrimeRange indicates a reference point index outside
	// [0, ReferencePoints).
	ErrPrimeRange = errors.New("cortex: prime index out of range")

	// ErrNilManifold indicates RecordRun received a nil manifold.
	ErrNilManifold = errors.New("cortex: manifold must not be nil")

	// ErrEmptyRunName indicates RecordRun received an empty run name.
	ErrEmptyRunName = errors.New("cortex: run name must not be empty")

	// ErrUnknownRun indicates a lookup for a run never recorded.
	ErrUnknownRun = errors.New("cortex: unknown run")
)

// Cortex is a prime-indexed run memory. All state lives in the backing
// gits instance, which serializes access internally; a Cortex is safe
// for concurrent use.
type Cortex struct {
	name   string
	db     *gits.Gits
	primes []int
}

// New creates a cortex on a fresh gits instance named name and seeds
// the prime reference points.
func New(name string) (*Cortex, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	c := &Cortex{
		name:   name,
		db:     gits.NewInstance(name),
		primes: sievePrimes(ReferencePoints),
	}
	for i, p := range c.primes {
		c.db.MapData(transport.TransportEntity{
			Type:    typePrime,
			Value:   strconv.Itoa(p),
			Context: c.name,
			Properties: map[string]string{
				"index": strconv.Itoa(i),
			},
		})
	}
	return c, nil
}

// Name returns the backing instance name.
func (c *Cortex) Name() string { return c.name }

// Primes returns a copy of the reference points in ascending order.
func (c *Cortex) Primes() []int {
	return append([]int(nil), c.primes...)
}

// Prime returns the i-th reference point.
func (c *Cortex) Prime(i int) (int, error) {
	if i < 0 || i >= len(c.primes) {
		return 0, fmt.Errorf("%w: %d", ErrPrimeRange, i)
	}
	return c.primes[i], nil
}

// Recall returns the witnessed payload for a signature. It satisfies
// scheduler.ReplayCache.
func (c *Cortex) Recall(signature string) (core.Payload, bool) {
	res := c.db.Query().Execute(
		gits.NewQuery().Read(typeWitness).Match("Value", "==", signature),
	)
	if res.Amount == 0 {
		return nil, false
	}

	ent := res.Entities[0]
	payload, err := decodePayload(ent.Properties["kind"], ent.Properties["payload"])
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Remember stores a witnessed payload under its signature. Signatures
// already present are left untouched, so replays stay idempotent.
// Payloads no encoding covers are dropped silently; the scheduler will
// simply recompute them.
func (c *Cortex) Remember(signature string, payload core.Payload) {
	existing := c.db.Query().Execute(
		gits.NewQuery().Read(typeWitness).Match("Value", "==", signature),
	)
	if existing.Amount > 0 {
		return
	}

	kind, encoded, err := encodePayload(payload)
	if err != nil {
		return
	}
	c.db.MapData(transport.TransportEntity{
		Type:    typeWitness,
		Value:   signature,
		Context: c.name,
		Properties: map[string]string{
			"kind":    kind,
			"payload": encoded,
		},
	})
}

// Witnesses returns the number of remembered signatures.
func (c *Cortex) Witnesses() int {
	return c.db.Query().Execute(gits.NewQuery().Read(typeWitness)).Amount
}

// NodeRecord is one node of a recorded run.
type NodeRecord struct {
	ID      string
	Status  core.Status
	Payload core.Payload
}

// RecordRun maps a manifold's terminal state into the graph as one Run
// entity with a ManifoldNode child per node. Node payloads without an
// encoding are recorded status-only.
func (c *Cortex) RecordRun(name string, m *core.Manifold) error {
	if name == "" {
		return ErrEmptyRunName
	}
	if m == nil {
		return ErrNilManifold
	}

	children := make([]transport.TransportRelation, 0, m.Len())
	for id, status := range m.Statuses() {
		props := map[string]string{
			"status": status.String(),
		}
		if status == core.StatusComputed {
			if payload, err := m.Payload(id); err == nil {
				if kind, encoded, encErr := encodePayload(payload); encErr == nil {
					props["kind"] = kind
					props["payload"] = encoded
				}
			}
		}
		children = append(children, transport.TransportRelation{
			Target: transport.TransportEntity{
				Type:       typeNode,
				Value:      id,
				Context:    c.name,
				Properties: props,
			},
		})
	}

	c.db.MapData(transport.TransportEntity{
		Type:           typeRun,
		Value:          name,
		Context:        c.name,
		Properties:     map[string]string{"nodes": strconv.Itoa(len(children))},
		ChildRelations: children,
	})
	return nil
}

// Run returns the recorded nodes of a run keyed by node ID.
func (c *Cortex) Run(name string) (map[string]NodeRecord, error) {
	res := c.db.Query().Execute(
		gits.NewQuery().Read(typeRun).Match("Value", "==", name).To(
			gits.NewQuery().Read(typeNode),
		),
	)
	if res.Amount == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRun, name)
	}

	records := make(map[string]NodeRecord)
	for _, child := range res.Entities[0].Children() {
		rec := NodeRecord{ID: child.Value, Status: parseStatus(child.Properties["status"])}
		if encoded, ok := child.Properties["payload"]; ok {
			if payload, err := decodePayload(child.Properties["kind"], encoded); err == nil {
				rec.Payload = payload
			}
		}
		records[rec.ID] = rec
	}
	return records, nil
}

// parseStatus inverts core.Status.String for recorded nodes.
func parseStatus(s string) core.Status {
	for _, st := range []core.Status{
		core.StatusPending, core.StatusReady, core.StatusComputed,
		core.StatusSkipped, core.StatusFailed,
	} {
		if st.String() == s {
			return st
		}
	}
	return core.StatusPending
}

// sievePrimes returns the first n primes by trial division over known
// primes.
func sievePrimes(n int) []int {
	primes := make([]int, 0, n)
	for candidate := 2; len(primes) < n; candidate++ {
		composite := false
		for _, p := range primes {
			if p*p > candidate {
				break
			}
			if candidate%p == 0 {
				composite = true
				break
			}
		}
		if !composite {
			primes = append(primes, candidate)
		}
	}
	return primes
}
