package aiengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PiyushDatta/senseboard/internal/board"
	"github.com/PiyushDatta/senseboard/internal/diagram"
	"github.com/PiyushDatta/senseboard/internal/room"
)

func TestDeterministicGenerateTreeProducesRootAndChildren(t *testing.T) {
	input := Input{
		TranscriptWindow: []room.TranscriptChunk{
			{Text: "the root is A", CreatedAt: time.Now()},
			{Text: "children are B and C", CreatedAt: time.Now()},
		},
		ActiveBoard: board.New(),
	}

	patch := DeterministicGenerate(input)
	require.Equal(t, diagram.KindTree, patch.DiagramType)

	var nodeLabels []string
	var edgeCount int
	for _, a := range patch.Actions {
		switch a.Kind {
		case diagram.ActionUpsertNode:
			nodeLabels = append(nodeLabels, a.Label)
		case diagram.ActionUpsertEdge:
			edgeCount++
		}
	}
	assert.Contains(t, nodeLabels, "A")
	assert.Contains(t, nodeLabels, "B")
	assert.Contains(t, nodeLabels, "C")
	assert.GreaterOrEqual(t, edgeCount, 2)
}

func TestDeterministicGenerateAdaptsIntoRenderableOps(t *testing.T) {
	input := Input{
		TranscriptWindow: []room.TranscriptChunk{
			{Text: "root is A", CreatedAt: time.Now()},
			{Text: "children of A are B and C", CreatedAt: time.Now()},
		},
		ActiveBoard: board.New(),
	}
	patch := DeterministicGenerate(input)
	ops := diagram.Adapt(patch, input.ActiveBoard, time.Now())

	state := board.New()
	for _, op := range ops {
		state = board.Apply(state, op, time.Now())
	}

	var rectCount, arrowCount int
	var texts []string
	for _, el := range state.Elements {
		switch el.Kind {
		case board.KindRect, board.KindDiamond:
			rectCount++
			texts = append(texts, el.Text)
		case board.KindArrow:
			arrowCount++
		}
	}
	assert.GreaterOrEqual(t, rectCount, 3)
	assert.GreaterOrEqual(t, arrowCount, 2)
	assert.Subset(t, texts, []string{"A", "B", "C"})
}

func TestDeterministicGenerateSystemBlocksChain(t *testing.T) {
	input := Input{
		TranscriptWindow: []room.TranscriptChunk{
			{Text: "api -> cache -> database", CreatedAt: time.Now()},
		},
		ActiveBoard: board.New(),
	}
	patch := DeterministicGenerate(input)
	assert.Equal(t, diagram.KindSystemBlocks, patch.DiagramType)

	var edges int
	for _, a := range patch.Actions {
		if a.Kind == diagram.ActionUpsertEdge {
			edges++
		}
	}
	assert.Equal(t, 2, edges)
}

func TestDeterministicGenerateFallsBackToFlowchart(t *testing.T) {
	input := Input{
		TranscriptWindow: []room.TranscriptChunk{
			{Text: "first step then second step then third step", CreatedAt: time.Now()},
		},
		ActiveBoard: board.New(),
	}
	patch := DeterministicGenerate(input)
	assert.Equal(t, diagram.KindFlowchart, patch.DiagramType)
	assert.NotEmpty(t, patch.Actions)
}
