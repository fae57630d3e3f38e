// Package core_test verifies thread-safety of Manifold under concurrent
// readers during status mutation.
package core_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/katalvlaran/manifold/chart"
	"github.com/katalvlaran/manifold/core"
	"github.com/stretchr/testify/require"
)

// TestConcurrentReadsDuringTransitions hammers accessors while one
// goroutine walks nodes through their lifecycle; the race detector is the
// real assertion here.
func TestConcurrentReadsDuringTransitions(t *testing.T) {
	const width = 64

	specs := make([]chart.NodeSpec, 0, width)
	for i := 0; i < width; i++ {
		specs = append(specs, chart.NodeSpec{ID: fmt.Sprintf("n%d", i), Op: "const"})
	}
	m, err := core.FromChart(mustChart(t, specs))
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < width; i++ {
			id := fmt.Sprintf("n%d", i)
			require.NoError(t, m.MarkReady(id))
			require.NoError(t, m.SetComputed(id, float64(i)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < width; i++ {
			_ = m.Statuses()
			_ = m.Complete()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < width; i++ {
			_, _ = m.Payload(fmt.Sprintf("n%d", i))
			_ = m.TopologicalOrder()
		}
	}()

	wg.Wait()
	require.True(t, m.Complete(), "all nodes computed")
}

// mustChart builds a chart from specs via a rendered YAML document, so
// the test exercises the same entry path as production callers.
func mustChart(t *testing.T, specs []chart.NodeSpec) *chart.Chart {
	t.Helper()
	doc := "nodes:\n"
	for _, s := range specs {
		doc += fmt.Sprintf("  - {id: %s, op: %s}\n", s.ID, s.Op)
	}
	ch, err := chart.Parse([]byte(doc))
	require.NoError(t, err)

	return ch
}
