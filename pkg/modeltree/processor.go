package modeltree

import (
	"context"

	"github.com/repo3d/repo3d/pkg/safe"
)

// ProcessInput is the full payload for one tree load: the main tree, the
// per sub-model trees, the sub model display names and the mesh inventory.
type ProcessInput struct {
	MainTree         *Node       `json:"mainTree"`
	SubTrees         []SubTree   `json:"subTrees"`
	SubModels        []SubModel  `json:"subModels"`
	ModelsWithMeshes []MeshGroup `json:"modelsWithMeshes"`
}

// NodeCount reports the total number of nodes in the main tree plus grafted
// sub trees, callers use it to pick the sync or async path.
func (in ProcessInput) NodeCount() int {
	total := countNodes(in.MainTree)
	for _, subTree := range in.SubTrees {
		total += countNodes(subTree.Nodes)
	}
	return total
}

func countNodes(node *Node) int {
	if node == nil {
		return 0
	}
	total := 1
	for _, child := range node.Children {
		total += countNodes(child)
	}
	return total
}

// ProcessResult mirrors the worker message contract: the flattened rows plus
// every auxiliary map, serialized as a single response.
type ProcessResult struct {
	Nodes             []Row                     `json:"nodesList"`
	MeshesByNodeID    map[string]map[string]any `json:"meshesByNodeId"`
	Indexes           map[string]int            `json:"nodesIndexesMap"`
	Visibility        map[string]Visibility     `json:"nodesVisibilityMap"`
	DefaultVisibility map[string]Visibility     `json:"nodesDefaultVisibilityMap"`
	Selection         map[string]SelectionState `json:"nodesSelectionMap"`
	BySharedID        map[string]string         `json:"nodesBySharedIdsMap"`
}

// Process runs the whole pipeline synchronously: preprocess, flatten, index,
// mesh association. Pure, no cancellation once started.
func Process(input ProcessInput) ProcessResult {
	tree := Preprocess(input.MainTree, input.SubTrees, input.SubModels)
	flattened := Flatten(tree)
	maps := BuildAuxiliaryMaps(flattened.Rows)

	return ProcessResult{
		Nodes:             flattened.Rows,
		MeshesByNodeID:    AssociateMeshGroups(input.ModelsWithMeshes),
		Indexes:           maps.Indexes,
		Visibility:        maps.Visibility,
		DefaultVisibility: maps.DefaultVisibility,
		Selection:         maps.Selection,
		BySharedID:        maps.BySharedID,
	}
}

type processRequest struct {
	input ProcessInput
	reply chan ProcessResult
}

// Processor runs the same pipeline on a dedicated worker goroutine with a
// request/response pair per call and no shared memory, for trees large
// enough that the caller wants them off its own goroutine.
type Processor struct {
	requests chan processRequest
	closed   chan struct{}
}

func NewProcessor() *Processor {
	p := &Processor{
		requests: make(chan processRequest),
		closed:   make(chan struct{}),
	}
	go safe.Run(p.loop)
	return p
}

func (p *Processor) loop() {
	for {
		select {
		case req := <-p.requests:
			req.reply <- Process(req.input)
		case <-p.closed:
			return
		}
	}
}

// ProcessAsync hands the tree to the worker and waits for the single
// response. The computation itself is not cancellable, a caller that gives
// up stops waiting while the worker runs the job to completion.
func (p *Processor) ProcessAsync(ctx context.Context, input ProcessInput) (ProcessResult, error) {
	req := processRequest{
		input: input,
		reply: make(chan ProcessResult, 1),
	}

	select {
	case p.requests <- req:
	case <-ctx.Done():
		return ProcessResult{}, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res, nil
	case <-ctx.Done():
		return ProcessResult{}, ctx.Err()
	}
}

func (p *Processor) Close() {
	close(p.closed)
}
