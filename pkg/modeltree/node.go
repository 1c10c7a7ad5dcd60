package modeltree

import "fmt"

// Visibility is the resolved visibility of a tree node.
type Visibility string

const (
	VisibilityVisible           Visibility = "VISIBLE"
	VisibilityInvisible         Visibility = "INVISIBLE"
	VisibilityParentOfInvisible Visibility = "PARENT_OF_INVISIBLE"
)

// SelectionState of a node in the viewer tree, rebuilt wholesale on load.
type SelectionState string

const SelectionUnselected SelectionState = "UNSELECTED"

// backend toggleState values as delivered by the model tree endpoint
var backendVisibility = map[string]Visibility{
	"visible":           VisibilityVisible,
	"invisible":         VisibilityInvisible,
	"parentOfInvisible": VisibilityParentOfInvisible,
}

const (
	NodeTypeTransformation = "transformation"
	NodeTypeMesh           = "mesh"

	DefaultNodeName = "(No Name)"
)

// Node is a raw tree node as received from the model tree endpoint.
// Federation roots carry isFederation, their children reference sub models.
type Node struct {
	ID           string  `json:"_id"`
	SharedID     string  `json:"shared_id,omitempty"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Teamspace    string  `json:"account"`
	Model        string  `json:"model,omitempty"`
	Project      string  `json:"project,omitempty"`
	Meta         []string `json:"meta,omitempty"`
	ToggleState  string  `json:"toggleState,omitempty"`
	IsFederation bool    `json:"isFederation,omitempty"`
	Children     []*Node `json:"children,omitempty"`
}

// NamespacedID identifies the model (or federation project) a node belongs to.
func (n *Node) NamespacedID() string {
	ref := n.Model
	if ref == "" {
		ref = n.Project
	}
	return fmt.Sprintf("%s@%s", n.Teamspace, ref)
}

// Row is one flattened node. Rows are emitted in pre-order and never mutated
// after emission.
type Row struct {
	ID                 string     `json:"_id"`
	NamespacedID       string     `json:"namespacedId"`
	Name               string     `json:"name"`
	Type               string     `json:"type"`
	Teamspace          string     `json:"teamspace"`
	Meta               []string   `json:"meta"`
	Model              string     `json:"model"`
	SharedID           string     `json:"shared_id,omitempty"`
	DefaultVisibility  Visibility `json:"defaultVisibility"`
	IsFederation       bool       `json:"isFederation,omitempty"`
	IsModel            bool       `json:"isModel,omitempty"`
	Level              int        `json:"level"`
	ParentID           string     `json:"parentId,omitempty"`
	RootParentID       string     `json:"rootParentId,omitempty"`
	HasChildren        bool       `json:"hasChildren"`
	DeepChildrenNumber int        `json:"deepChildrenNumber"`
	ChildrenIDs        []string   `json:"childrenIds"`
}
