package modeltree

import "encoding/json"

// AuxiliaryMaps are the per-load lookup tables derived from the flattened
// list, 1:1 with its rows. They are rebuilt wholesale on every tree load.
type AuxiliaryMaps struct {
	Indexes           map[string]int            `json:"nodesIndexesMap"`
	Visibility        map[string]Visibility     `json:"nodesVisibilityMap"`
	DefaultVisibility map[string]Visibility     `json:"nodesDefaultVisibilityMap"`
	Selection         map[string]SelectionState `json:"nodesSelectionMap"`
	BySharedID        map[string]string         `json:"nodesBySharedIdsMap"`
}

// BuildAuxiliaryMaps indexes the flattened rows in a single linear pass.
func BuildAuxiliaryMaps(rows []Row) AuxiliaryMaps {
	maps := AuxiliaryMaps{
		Indexes:           make(map[string]int, len(rows)),
		Visibility:        make(map[string]Visibility, len(rows)),
		DefaultVisibility: make(map[string]Visibility, len(rows)),
		Selection:         make(map[string]SelectionState, len(rows)),
		BySharedID:        make(map[string]string, len(rows)),
	}

	for index, row := range rows {
		visibility := row.DefaultVisibility
		if visibility == "" {
			visibility = VisibilityVisible
		}

		maps.Indexes[row.ID] = index
		maps.Visibility[row.ID] = visibility
		maps.DefaultVisibility[row.ID] = visibility
		maps.Selection[row.ID] = SelectionUnselected
		if row.SharedID != "" {
			maps.BySharedID[row.SharedID] = row.ID
		}
	}
	return maps
}

// MeshGroup is a mesh inventory entry keyed by (teamspace, model), the
// payload shape is owned by the viewer bridge and passed through untouched.
type MeshGroup struct {
	Teamspace string         `json:"account"`
	Model     string         `json:"model"`
	Payload   map[string]any `json:"-"`
}

func (g *MeshGroup) UnmarshalJSON(raw []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	if v, ok := fields["account"].(string); ok {
		g.Teamspace = v
	}
	if v, ok := fields["model"].(string); ok {
		g.Model = v
	}
	delete(fields, "account")
	delete(fields, "model")
	g.Payload = fields
	return nil
}

// AssociateMeshGroups re-keys mesh payloads under the namespaced model id.
// The input entries are not mutated.
func AssociateMeshGroups(groups []MeshGroup) map[string]map[string]any {
	meshesByNodeID := make(map[string]map[string]any, len(groups))
	for _, group := range groups {
		payload := make(map[string]any, len(group.Payload))
		for k, v := range group.Payload {
			if k == "account" || k == "model" {
				continue
			}
			payload[k] = v
		}
		meshesByNodeID[group.Teamspace+"@"+group.Model] = payload
	}
	return meshesByNodeID
}
