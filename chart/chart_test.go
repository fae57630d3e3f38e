// Package chart_test verifies document decoding, schema validation and
// Chart immutability guarantees.
package chart_test

import (
	"testing"

	"github.com/katalvlaran/manifold/chart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validDoc is the canonical three-node chart used across tests:
// a, b constants feeding c.
const validDoc = `
name: arithmetic
version: "1"
nodes:
  - id: a
    op: const
    params: {value: 5}
  - id: b
    op: const
    params: {value: 7}
  - id: c
    op: add
    depends_on: [a, b]
`

// TestParse_Valid verifies that a well-formed document yields a Chart
// carrying exactly the declared nodes in declaration order.
func TestParse_Valid(t *testing.T) {
	ch, err := chart.Parse([]byte(validDoc))
	require.NoError(t, err, "valid document must parse")

	assert.Equal(t, "arithmetic", ch.Name(), "chart name")
	assert.Equal(t, "1", ch.Version(), "chart version")
	assert.Equal(t, 3, ch.Len(), "declared node count")

	nodes := ch.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{nodes[0].ID, nodes[1].ID, nodes[2].ID}, "declaration order preserved")

	c, ok := ch.Node("c")
	require.True(t, ok, "node c declared")
	assert.Equal(t, "add", c.Op)
	assert.Equal(t, []string{"a", "b"}, c.DependsOn, "ordered dependency list")
}

// TestParse_JSONDocument verifies the JSON-as-YAML path.
func TestParse_JSONDocument(t *testing.T) {
	raw := []byte(`{"nodes":[{"id":"x","op":"const","params":{"value":1}}]}`)
	ch, err := chart.Parse(raw)
	require.NoError(t, err, "JSON documents are valid YAML")
	assert.True(t, ch.Has("x"))
}

// TestParse_Rejections walks every schema violation and asserts the exact
// sentinel surfaced via errors.Is, with no Chart returned.
func TestParse_Rejections(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"empty document", `name: empty`, chart.ErrEmptyChart},
		{"broken yaml", "nodes: [", chart.ErrBadDocument},
		{"empty id", `nodes: [{id: "", op: const}]`, chart.ErrEmptyNodeID},
		{"empty op", `nodes: [{id: a, op: ""}]`, chart.ErrEmptyOperator},
		{"duplicate id", `nodes: [{id: a, op: const}, {id: a, op: const}]`, chart.ErrDuplicateNodeID},
		{"unknown dependency", `nodes: [{id: a, op: neg, depends_on: [ghost]}]`, chart.ErrUnknownDependency},
		{"self dependency", `nodes: [{id: a, op: neg, depends_on: [a]}]`, chart.ErrSelfDependency},
		{"two-node cycle", `nodes: [{id: a, op: neg, depends_on: [b]}, {id: b, op: neg, depends_on: [a]}]`, chart.ErrChartCycle},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ch, err := chart.Parse([]byte(tc.doc))
			assert.Nil(t, ch, "no partial chart on rejection")
			assert.ErrorIs(t, err, tc.want, "expected sentinel for %s", tc.name)
		})
	}
}

// TestParse_SchemaErrorNamesNode verifies that the structured error names
// the offending node and the missing reference, before any building occurs.
func TestParse_SchemaErrorNamesNode(t *testing.T) {
	doc := `nodes: [{id: root, op: neg, depends_on: [absent]}]`
	_, err := chart.Parse([]byte(doc))
	require.Error(t, err)

	var se *chart.SchemaError
	require.ErrorAs(t, err, &se, "validation failures are *SchemaError")
	assert.Equal(t, "root", se.NodeID, "offending node named")
	assert.Contains(t, se.Detail, `"absent"`, "missing id named")
}

// TestParse_Requirements verifies required-parameter validation.
func TestParse_Requirements(t *testing.T) {
	reqs := chart.Requirements{"const": {"value"}}

	// Missing required parameter.
	doc := `nodes: [{id: a, op: const}]`
	_, err := chart.Parse([]byte(doc), chart.WithRequirements(reqs))
	assert.ErrorIs(t, err, chart.ErrMissingParam, "const without value must fail")

	// Present required parameter.
	ch, err := chart.Parse([]byte(validDoc), chart.WithRequirements(reqs))
	require.NoError(t, err, "satisfied requirements must parse")
	assert.Equal(t, 3, ch.Len())
}

// TestParse_Deterministic runs the same input twice and expects identical
// outcomes, as Parse is specified pure.
func TestParse_Deterministic(t *testing.T) {
	first, err1 := chart.Parse([]byte(validDoc))
	second, err2 := chart.Parse([]byte(validDoc))
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first.Nodes(), second.Nodes(), "identical input, identical chart")

	bad := []byte(`nodes: [{id: a, op: neg, depends_on: [b]}, {id: b, op: neg, depends_on: [a]}]`)
	_, e1 := chart.Parse(bad)
	_, e2 := chart.Parse(bad)
	assert.Equal(t, e1.Error(), e2.Error(), "identical input, identical error")
}

// TestChart_Immutability mutates returned copies and re-reads the chart.
func TestChart_Immutability(t *testing.T) {
	ch, err := chart.Parse([]byte(validDoc))
	require.NoError(t, err)

	nodes := ch.Nodes()
	nodes[0].ID = "mutated"
	nodes[2].DependsOn[0] = "mutated"

	spec, ok := ch.Node("a")
	require.True(t, ok)
	assert.Equal(t, "a", spec.ID, "stored spec unaffected by caller mutation")

	c, _ := ch.Node("c")
	assert.Equal(t, []string{"a", "b"}, c.DependsOn, "stored edges unaffected by caller mutation")

	spec.Params["value"] = 99
	again, _ := ch.Node("a")
	assert.EqualValues(t, 5, again.Params["value"], "params copied per accessor call")
}
