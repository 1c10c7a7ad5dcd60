package modeltree

// FlattenResult carries the pre-order row list plus the root subtree size
// (self inclusive) and the root's resolved visibility.
type FlattenResult struct {
	Rows               []Row
	DeepChildrenNumber int
	Visibility         Visibility
}

// Flatten walks the tree depth-first in a single pass and emits one row per
// node, parent before children. The input is not mutated.
func Flatten(root *Node) FlattenResult {
	rows, visibility := flattenNested(root, 1, "", "", false)
	return FlattenResult{
		Rows:               rows,
		DeepChildrenNumber: len(rows),
		Visibility:         visibility,
	}
}

// A node is a "model node" when it is a non-federation root or an immediate
// child of a federation root.
func isModelNode(level int, isFederation, parentIsFederation bool) bool {
	return (level == 1 && !isFederation) || (level == 2 && parentIsFederation)
}

func flattenNested(node *Node, level int, parentID, rootParentID string, parentIsFederation bool) ([]Row, Visibility) {
	name := node.Name
	if node.Type == NodeTypeTransformation && name == "" {
		name = DefaultNodeName
	}

	row := Row{
		ID:                node.ID,
		NamespacedID:      node.NamespacedID(),
		Name:              name,
		Type:              node.Type,
		Teamspace:         node.Teamspace,
		Meta:              node.Meta,
		Model:             node.Model,
		SharedID:          node.SharedID,
		DefaultVisibility: leafVisibility(node.ToggleState),
		IsFederation:      node.IsFederation,
		IsModel:           isModelNode(level, node.IsFederation, parentIsFederation),
		Level:             level,
		ParentID:          parentID,
		RootParentID:      rootParentID,
	}
	if row.Model == "" {
		row.Model = node.Project
	}
	if row.Meta == nil {
		row.Meta = []string{}
	}

	if len(node.Children) == 0 {
		return []Row{row}, row.DefaultVisibility
	}

	childRootParent := rootParentID
	if row.IsModel {
		childRootParent = row.ID
	}

	// visibility folds bottom-up: invisible iff every child is invisible,
	// parent-of-invisible iff at least one child is not fully visible
	row.DefaultVisibility = VisibilityVisible
	row.ChildrenIDs = make([]string, 0, len(node.Children))

	rows := make([]Row, 1, len(node.Children)+1)
	hiddenChildren := 0
	for _, child := range node.Children {
		if child.Name != "" {
			row.HasChildren = true
		}

		childRows, childVisibility := flattenNested(child, level+1, node.ID, childRootParent, node.IsFederation)
		row.DeepChildrenNumber += len(childRows)
		row.ChildrenIDs = append(row.ChildrenIDs, child.ID)
		rows = append(rows, childRows...)

		switch childVisibility {
		case VisibilityInvisible:
			hiddenChildren++
			row.DefaultVisibility = VisibilityParentOfInvisible
		case VisibilityParentOfInvisible:
			row.DefaultVisibility = VisibilityParentOfInvisible
		}
	}

	if hiddenChildren == len(node.Children) {
		row.DefaultVisibility = VisibilityInvisible
	}

	rows[0] = row
	return rows, row.DefaultVisibility
}

func leafVisibility(toggleState string) Visibility {
	if v, ok := backendVisibility[toggleState]; ok {
		return v
	}
	return VisibilityVisible
}
