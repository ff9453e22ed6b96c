package pipeline

import (
	"testing"

	"github.com/funvibe/icl/internal/diagnostics"
	"github.com/stretchr/testify/require"
)

type upperStage struct{}

func (upperStage) Name() string { return "upper" }
func (upperStage) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Aborted {
		return ctx
	}
	ctx.Set("upper", ctx.Source+"!")
	return ctx
}

type failingStage struct{ code string }

func (f failingStage) Name() string { return "failing" }
func (f failingStage) Process(ctx *PipelineContext) *PipelineContext {
	ctx.Fail("failing", diagnostics.List{diagnostics.NewNoSpan(f.code, "boom", "")})
	return ctx
}

type observingStage struct{ ran *bool }

func (o observingStage) Name() string { return "observing" }
func (o observingStage) Process(ctx *PipelineContext) *PipelineContext {
	*o.ran = true
	return ctx
}

func TestPipelineRunsStagesInOrder(t *testing.T) {
	ctx := NewContext("<test>", "hi")
	ctx = New(upperStage{}).Run(ctx)
	require.Equal(t, "hi!", ctx.Get("upper"))
	require.False(t, ctx.Aborted)
}

func TestPipelineAbortsOnFailureButKeepsRunning(t *testing.T) {
	var laterRan bool
	ctx := NewContext("<test>", "hi")
	ctx = New(failingStage{code: "LEX001"}, observingStage{ran: &laterRan}).Run(ctx)

	require.True(t, ctx.Aborted)
	require.True(t, ctx.Diagnostics.HasErrors())
	require.Equal(t, "LEX001", ctx.Diagnostics[0].Code)
	require.True(t, laterRan, "later processors still run so they can inspect ctx.Aborted themselves")
}
