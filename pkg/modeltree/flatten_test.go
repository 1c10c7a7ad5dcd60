package modeltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(id, toggleState string) *Node {
	return &Node{
		ID:          id,
		Name:        "node-" + id,
		Type:        NodeTypeMesh,
		Teamspace:   "acme",
		Model:       "m1",
		SharedID:    "shared-" + id,
		ToggleState: toggleState,
	}
}

func branch(id string, children ...*Node) *Node {
	return &Node{
		ID:        id,
		Name:      "node-" + id,
		Type:      NodeTypeTransformation,
		Teamspace: "acme",
		Model:     "m1",
		SharedID:  "shared-" + id,
		Children:  children,
	}
}

func TestFlatten_PreOrder(t *testing.T) {
	tree := branch("root",
		branch("a", leaf("a1", ""), leaf("a2", "")),
		branch("b", leaf("b1", "")),
	)

	result := Flatten(tree)
	require.Len(t, result.Rows, 6)

	var order []string
	for _, row := range result.Rows {
		order = append(order, row.ID)
	}
	assert.Equal(t, []string{"root", "a", "a1", "a2", "b", "b1"}, order)

	root := result.Rows[0]
	assert.Equal(t, 1, root.Level)
	assert.Equal(t, "", root.ParentID)
	assert.Equal(t, []string{"a", "b"}, root.ChildrenIDs)
	assert.True(t, root.HasChildren)

	a1 := result.Rows[2]
	assert.Equal(t, 3, a1.Level)
	assert.Equal(t, "a", a1.ParentID)
	assert.Equal(t, "root", a1.RootParentID, "leaves point at the nearest model node")
}

func TestFlatten_DeepChildrenNumber(t *testing.T) {
	// 1 root + 2 children + 4 grandchildren
	tree := branch("root",
		branch("a", leaf("a1", ""), leaf("a2", "")),
		branch("b", leaf("b1", ""), leaf("b2", "")),
	)

	result := Flatten(tree)
	assert.Equal(t, 7, result.DeepChildrenNumber)
	assert.Equal(t, 6, result.Rows[0].DeepChildrenNumber, "row field counts descendants only")
	assert.Equal(t, 2, result.Rows[1].DeepChildrenNumber)
	assert.Equal(t, 0, result.Rows[2].DeepChildrenNumber)
}

func TestFlatten_VisibilityFold(t *testing.T) {
	tests := []struct {
		name     string
		children []string
		want     Visibility
	}{
		{"all invisible", []string{"invisible", "invisible", "invisible"}, VisibilityInvisible},
		{"some invisible", []string{"invisible", "visible", "visible"}, VisibilityParentOfInvisible},
		{"all visible", []string{"visible", "visible"}, VisibilityVisible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var children []*Node
			for i, state := range tt.children {
				children = append(children, leaf(string(rune('a'+i)), state))
			}

			result := Flatten(branch("root", children...))
			assert.Equal(t, tt.want, result.Rows[0].DefaultVisibility)
			assert.Equal(t, tt.want, result.Visibility)
		})
	}
}

func TestFlatten_ParentOfInvisibleEscalates(t *testing.T) {
	// a grandchild hidden two levels down still marks the root
	tree := branch("root",
		branch("a", leaf("a1", "invisible"), leaf("a2", "visible")),
		branch("b", leaf("b1", "visible")),
	)

	result := Flatten(tree)
	assert.Equal(t, VisibilityParentOfInvisible, result.Rows[0].DefaultVisibility)
	assert.Equal(t, VisibilityParentOfInvisible, result.Rows[1].DefaultVisibility)
	assert.Equal(t, VisibilityVisible, result.Rows[4].DefaultVisibility)
}

func TestFlatten_FederationModelNodes(t *testing.T) {
	federation := &Node{
		ID:           "fed",
		Name:         "federation",
		Type:         NodeTypeTransformation,
		Teamspace:    "acme",
		Project:      "estate",
		IsFederation: true,
		Children: []*Node{
			{
				ID: "m1-root", Name: "acme:building", Type: NodeTypeTransformation,
				Teamspace: "acme", Model: "building",
				Children: []*Node{leaf("m1-leaf-hidden", "invisible"), leaf("m1-leaf", "visible")},
			},
			{
				ID: "m2-root", Name: "acme:site", Type: NodeTypeTransformation,
				Teamspace: "acme", Model: "site",
				Children: []*Node{leaf("m2-leaf-hidden", "invisible"), leaf("m2-leaf", "visible")},
			},
		},
	}

	result := Flatten(federation)
	require.Len(t, result.Rows, 7)

	root := result.Rows[0]
	assert.False(t, root.IsModel, "federation root is not a model node")
	assert.Equal(t, "acme@estate", root.NamespacedID)
	assert.Equal(t, VisibilityParentOfInvisible, root.DefaultVisibility)

	for _, i := range []int{1, 4} {
		assert.True(t, result.Rows[i].IsModel, "federation children are model nodes")
		assert.Equal(t, VisibilityParentOfInvisible, result.Rows[i].DefaultVisibility)
	}

	assert.Equal(t, "m1-root", result.Rows[2].RootParentID)
	assert.Equal(t, "m2-root", result.Rows[5].RootParentID)
}

func TestFlatten_UnnamedTransformation(t *testing.T) {
	tree := branch("root", &Node{ID: "x", Type: NodeTypeTransformation, Teamspace: "acme", Model: "m1"})

	result := Flatten(tree)
	assert.Equal(t, DefaultNodeName, result.Rows[1].Name)
	assert.False(t, result.Rows[0].HasChildren, "unnamed children do not count")
}

func TestBuildAuxiliaryMaps(t *testing.T) {
	result := Flatten(branch("root", leaf("a", "invisible"), leaf("b", "")))
	maps := BuildAuxiliaryMaps(result.Rows)

	assert.Equal(t, 0, maps.Indexes["root"])
	assert.Equal(t, 1, maps.Indexes["a"])
	assert.Equal(t, 2, maps.Indexes["b"])

	assert.Equal(t, VisibilityInvisible, maps.Visibility["a"])
	assert.Equal(t, VisibilityParentOfInvisible, maps.DefaultVisibility["root"])

	for _, id := range []string{"root", "a", "b"} {
		assert.Equal(t, SelectionUnselected, maps.Selection[id])
	}
	assert.Equal(t, "a", maps.BySharedID["shared-a"])
}

func TestAssociateMeshGroups(t *testing.T) {
	groups := []MeshGroup{
		{Teamspace: "acme", Model: "m1", Payload: map[string]any{"meshes": []string{"mesh-1"}}},
		{Teamspace: "acme", Model: "m2", Payload: map[string]any{"meshes": []string{}}},
	}

	byNodeID := AssociateMeshGroups(groups)
	require.Len(t, byNodeID, 2)
	assert.Equal(t, []string{"mesh-1"}, byNodeID["acme@m1"]["meshes"])
	assert.NotContains(t, byNodeID["acme@m1"], "account")
	assert.NotContains(t, byNodeID["acme@m1"], "model")
}
