package registry

import (
	"fmt"

	"github.com/codeready-toolchain/tarsy/pkg/engine"
)

const (
	levelSpacing = 150
	nodeSpacing  = 250
)

// DAGNode is one stage's visualization node.
type DAGNode struct {
	ID       string      `json:"id"`
	Type     string      `json:"type"`
	Data     DAGNodeData `json:"data"`
	Position DAGPosition `json:"position"`
}

// DAGNodeData carries the node's display attributes.
type DAGNodeData struct {
	Label       string `json:"label"`
	StageType   string `json:"type"`
	Description string `json:"description,omitempty"`
}

// DAGPosition is a node's layout coordinate.
type DAGPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DAGEdge is one dependency -> dependent edge.
type DAGEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// DAG is the full visualization layout for a workflow (spec §4.8).
type DAG struct {
	Nodes []DAGNode `json:"nodes"`
	Edges []DAGEdge `json:"edges"`
}

// ToDAG computes a visualization layout for def: each stage's level is its
// maximum BFS depth from any root stage (a stage with no dependencies);
// nodes at a level are spaced nodeSpacing apart and centered, with
// levelSpacing between levels.
func ToDAG(def engine.WorkflowDefinition) DAG {
	byID := make(map[string]engine.Stage, len(def.Stages))
	for _, s := range def.Stages {
		byID[s.ID()] = s
	}

	level := make(map[string]int, len(def.Stages))
	for _, s := range def.Stages {
		level[s.ID()] = maxDepth(s.ID(), byID, map[string]bool{})
	}

	byLevel := make(map[int][]string)
	maxLevel := 0
	for _, s := range def.Stages {
		l := level[s.ID()]
		byLevel[l] = append(byLevel[l], s.ID())
		if l > maxLevel {
			maxLevel = l
		}
	}

	var nodes []DAGNode
	for l := 0; l <= maxLevel; l++ {
		ids := byLevel[l]
		width := (len(ids) - 1) * nodeSpacing
		startX := -width / 2
		for i, id := range ids {
			s := byID[id]
			nodes = append(nodes, DAGNode{
				ID:   id,
				Type: "stage",
				Data: DAGNodeData{
					Label:     s.Name(),
					StageType: s.Type(),
				},
				Position: DAGPosition{X: startX + i*nodeSpacing, Y: l * levelSpacing},
			})
		}
	}

	var edges []DAGEdge
	for _, s := range def.Stages {
		for _, dep := range s.Dependencies() {
			edges = append(edges, DAGEdge{
				ID:     fmt.Sprintf("%s->%s", dep, s.ID()),
				Source: dep,
				Target: s.ID(),
			})
		}
	}

	return DAG{Nodes: nodes, Edges: edges}
}

// maxDepth returns the longest path from any root (a stage with no
// dependencies) to stageID, inclusive of stageID's own level. visiting
// guards against revisiting a node within the same call chain; the
// workflow is already known acyclic by the time ToDAG runs.
func maxDepth(stageID string, byID map[string]engine.Stage, visiting map[string]bool) int {
	stage := byID[stageID]
	deps := stage.Dependencies()
	if len(deps) == 0 {
		return 0
	}
	if visiting[stageID] {
		return 0
	}
	visiting[stageID] = true

	max := 0
	for _, dep := range deps {
		d := maxDepth(dep, byID, visiting) + 1
		if d > max {
			max = d
		}
	}
	return max
}
