package modeltree

import "strings"

// SubModel describes a model referenced by a federation, resolved from the
// model settings so federation children can show a display name.
type SubModel struct {
	Model string `json:"model"`
	Name  string `json:"name"`
}

// SubTree is a per sub-model object tree fetched separately and grafted
// under the federation child that references it.
type SubTree struct {
	Nodes *Node `json:"nodes"`
}

// Preprocess rewrites a federation's immediate children, resolving the
// "teamspace:model" placeholder name against the sub model list and grafting
// the sub model's own object tree in as nested children. It returns a new
// tree, the input is left untouched. Missing cross references degrade to the
// original name or an empty graft rather than failing.
func Preprocess(mainTree *Node, subTrees []SubTree, subModels []SubModel) *Node {
	if mainTree == nil {
		return nil
	}

	out := cloneNode(mainTree)
	for _, child := range out.Children {
		teamspace, model, _ := strings.Cut(child.Name, ":")

		subModel := findSubModel(subModels, model)
		if subModel != nil {
			child.Name = teamspace + ":" + subModel.Name
		} else if child.Name == "" {
			child.Name = DefaultNodeName
		}

		if subModel != nil && len(child.Children) > 0 {
			child.Children[0].Name = subModel.Name
		}

		if len(subTrees) > 0 && len(child.Children) > 0 {
			if subTree := findSubTree(subTrees, model); subTree != nil {
				child.Children[0].Children = []*Node{cloneNode(subTree.Nodes)}
			}
		}
	}
	return out
}

func findSubModel(subModels []SubModel, model string) *SubModel {
	for i := range subModels {
		if subModels[i].Model == model {
			return &subModels[i]
		}
	}
	return nil
}

func findSubTree(subTrees []SubTree, model string) *SubTree {
	for i := range subTrees {
		if subTrees[i].Nodes != nil && subTrees[i].Nodes.Project == model {
			return &subTrees[i]
		}
	}
	return nil
}

func cloneNode(node *Node) *Node {
	if node == nil {
		return nil
	}
	cloned := *node
	if node.Meta != nil {
		cloned.Meta = append([]string(nil), node.Meta...)
	}
	if node.Children != nil {
		cloned.Children = make([]*Node, 0, len(node.Children))
		for _, child := range node.Children {
			cloned.Children = append(cloned.Children, cloneNode(child))
		}
	}
	return &cloned
}
