package modeltree

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func processInputFixture() ProcessInput {
	return ProcessInput{
		MainTree: federationFixture(),
		SubTrees: []SubTree{
			{Nodes: &Node{ID: "sub-m1", Name: "m1 objects", Teamspace: "acme", Project: "m1", Children: []*Node{
				{ID: "sub-m1-hidden", Name: "hidden", Teamspace: "acme", Model: "m1", ToggleState: "invisible"},
				{ID: "sub-m1-shown", Name: "shown", Teamspace: "acme", Model: "m1"},
			}}},
			{Nodes: &Node{ID: "sub-m2", Name: "m2 objects", Teamspace: "acme", Project: "m2", Children: []*Node{
				{ID: "sub-m2-hidden", Name: "hidden", Teamspace: "acme", Model: "m2", ToggleState: "invisible"},
				{ID: "sub-m2-shown", Name: "shown", Teamspace: "acme", Model: "m2"},
			}}},
		},
		SubModels: []SubModel{{Model: "m1", Name: "Building"}, {Model: "m2", Name: "Site"}},
		ModelsWithMeshes: []MeshGroup{
			{Teamspace: "acme", Model: "m1", Payload: map[string]any{"meshes": []string{"mesh-1"}}},
		},
	}
}

func TestProcess(t *testing.T) {
	result := Process(processInputFixture())

	// fed + 2 children + 2 model roots + 2 grafted roots + 4 leaves
	require.Len(t, result.Nodes, 11)
	assert.Equal(t, "fed", result.Nodes[0].ID)
	assert.Equal(t, VisibilityParentOfInvisible, result.Nodes[0].DefaultVisibility)
	assert.Equal(t, len(result.Nodes), len(result.Indexes))
	assert.Contains(t, result.MeshesByNodeID, "acme@m1")
}

func TestProcessor_Async(t *testing.T) {
	processor := NewProcessor()
	defer processor.Close()

	input := processInputFixture()
	sync := Process(input)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	async, err := processor.ProcessAsync(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, sync, async, "both call paths share one algorithm")
}

func TestProcessor_ContextCancelled(t *testing.T) {
	processor := NewProcessor()
	processor.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := processor.ProcessAsync(ctx, processInputFixture())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessInput_NodeCount(t *testing.T) {
	input := processInputFixture()
	// 5 in the main tree, 3 per sub tree
	assert.Equal(t, 11, input.NodeCount())
}
