package store_test

import (
	"testing"

	"github.com/dominikbraun/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/gemsimvalid/internal/store"
)

func TestMemoryStoreOrder(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore[string, string]()
	for _, name := range []string{"rechits", "hits", "digis"} {
		require.NoError(t, s.AddVertex(name, name, graph.VertexProperties{}))
	}

	got, err := s.ListVertices()
	require.NoError(t, err)
	assert.Equal(t, []string{"rechits", "hits", "digis"}, got)

	err = s.AddVertex("hits", "hits", graph.VertexProperties{})
	assert.ErrorIs(t, err, graph.ErrVertexAlreadyExists)
}

func TestMemoryStoreRemoveVertex(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore[string, string]()
	require.NoError(t, s.AddVertex("a", "a", graph.VertexProperties{}))
	require.NoError(t, s.AddVertex("b", "b", graph.VertexProperties{}))
	require.NoError(t, s.AddEdge("a", "b", graph.Edge[string]{Source: "a", Target: "b"}))

	assert.ErrorIs(t, s.RemoveVertex("a"), graph.ErrVertexHasEdges)
	assert.ErrorIs(t, s.RemoveVertex("c"), graph.ErrVertexNotFound)

	require.NoError(t, s.RemoveEdge("a", "b"))
	require.NoError(t, s.RemoveVertex("a"))
	assert.Equal(t, []string{"b"}, s.Order())

	count, err := s.VertexCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryStoreEdges(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore[string, string]()
	for _, name := range []string{"hits", "digis", "rechits"} {
		require.NoError(t, s.AddVertex(name, name, graph.VertexProperties{}))
	}
	require.NoError(t, s.AddEdge("digis", "rechits", graph.Edge[string]{Source: "digis", Target: "rechits"}))
	require.NoError(t, s.AddEdge("hits", "digis", graph.Edge[string]{Source: "hits", Target: "digis"}))

	edges, err := s.ListEdges()
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "hits", edges[0].Source)
	assert.Equal(t, "digis", edges[1].Source)

	_, err = s.Edge("hits", "rechits")
	assert.ErrorIs(t, err, graph.ErrEdgeNotFound)

	err = s.UpdateEdge("hits", "digis", graph.Edge[string]{
		Source:     "hits",
		Target:     "digis",
		Properties: graph.EdgeProperties{Attributes: map[string]string{"label": "feeds"}},
	})
	require.NoError(t, err)
	edge, err := s.Edge("hits", "digis")
	require.NoError(t, err)
	assert.Equal(t, "feeds", edge.Properties.Attributes["label"])

	assert.ErrorIs(t, s.UpdateEdge("rechits", "hits", graph.Edge[string]{}), graph.ErrEdgeNotFound)
}

func TestMemoryStoreCreatesCycle(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore[string, string]()
	for _, name := range []string{"hits", "digis", "rechits"} {
		require.NoError(t, s.AddVertex(name, name, graph.VertexProperties{}))
	}
	require.NoError(t, s.AddEdge("hits", "digis", graph.Edge[string]{Source: "hits", Target: "digis"}))
	require.NoError(t, s.AddEdge("digis", "rechits", graph.Edge[string]{Source: "digis", Target: "rechits"}))

	tcs := map[string]struct {
		source, target string
		want           bool
	}{
		"self":     {source: "hits", target: "hits", want: true},
		"backward": {source: "rechits", target: "hits", want: true},
		"forward":  {source: "hits", target: "rechits", want: false},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := s.(*store.MemoryStore[string, string]).CreatesCycle(tc.source, tc.target)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := s.(*store.MemoryStore[string, string]).CreatesCycle("hits", "missing")
	assert.ErrorIs(t, err, graph.ErrVertexNotFound)
}
