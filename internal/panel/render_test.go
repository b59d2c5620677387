package panel

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configuredState(size image.Point) *State {
	st := NewState(panelSurface, DefaultFallback())
	st.size = size
	st.configured = true
	return &st
}

func TestPipelineRender(t *testing.T) {
	backend := &fakeBackend{}
	painter := &fakePainter{}
	p := NewPipeline(backend, painter, 0, nil)
	st := configuredState(image.Pt(800, 40))
	st.KeyboardFocus = true

	require.NoError(t, p.Render(st))

	assert.Equal(t, []image.Point{{800, 40}}, backend.resizes)
	assert.Equal(t, 1, backend.binds)
	require.Len(t, backend.submitted, 1)
	assert.Equal(t, uint64(1), p.Cycles())

	frame := backend.submitted[0]
	assert.Equal(t, image.Pt(800, 40), frame.Size())
	assert.Equal(t, color.White, frame.cleared)
	assert.Equal(t, []image.Rectangle{image.Rect(0, 0, 4, 4)}, frame.drawn)

	// background outside the texture, texture pixels inside it
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, frame.Image().RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, frame.Image().RGBAAt(0, 0))

	require.Len(t, painter.views, 1)
	assert.Equal(t, image.Rect(0, 0, 800, 40), painter.regions[0])
	assert.True(t, painter.views[0].KeyboardFocus)
	assert.Equal(t, float32(1), painter.views[0].Scale)
}

func TestPipelineScale(t *testing.T) {
	backend := &fakeBackend{}
	painter := &fakePainter{}
	p := NewPipeline(backend, painter, 2, color.Black)

	require.NoError(t, p.Render(configuredState(image.Pt(800, 40))))

	assert.Equal(t, image.Rect(0, 0, 400, 20), painter.regions[0])
	frame := backend.submitted[0]
	assert.Equal(t, color.Black, frame.cleared)
	assert.Equal(t, []image.Rectangle{image.Rect(0, 0, 8, 8)}, frame.drawn)
}

func TestPipelineReusesTargetWhenSizeUnchanged(t *testing.T) {
	backend := &fakeBackend{}
	p := NewPipeline(backend, &fakePainter{}, 1, nil)
	st := configuredState(image.Pt(800, 40))

	require.NoError(t, p.Render(st))
	require.NoError(t, p.Render(st))
	assert.Len(t, backend.resizes, 1)

	st.size = image.Pt(1024, 40)
	require.NoError(t, p.Render(st))
	assert.Equal(t, []image.Point{{800, 40}, {1024, 40}}, backend.resizes)
	assert.Equal(t, uint64(3), p.Cycles())
}

func TestPipelineFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeBackend, *fakePainter)
		stage RenderStage
	}{
		{
			name:  "backend size diverges",
			setup: func(b *fakeBackend, _ *fakePainter) { b.stuck = true },
			stage: StageSize,
		},
		{
			name:  "ui failure",
			setup: func(_ *fakeBackend, p *fakePainter) { p.err = errBoom },
			stage: StagePaint,
		},
		{
			name:  "bind failure",
			setup: func(b *fakeBackend, _ *fakePainter) { b.bindErr = errBoom },
			stage: StageBind,
		},
		{
			name:  "submit failure",
			setup: func(b *fakeBackend, _ *fakePainter) { b.submitErr = errBoom },
			stage: StageSubmit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			painter := &fakePainter{}
			tt.setup(backend, painter)
			p := NewPipeline(backend, painter, 1, nil)

			err := p.Render(configuredState(image.Pt(800, 40)))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRender)

			var rerr *RenderError
			require.True(t, errors.As(err, &rerr))
			assert.Equal(t, tt.stage, rerr.Stage)

			assert.Empty(t, backend.submitted, "no partial frame is submitted")
			assert.Zero(t, p.Cycles())
		})
	}
}

func TestPipelineRejectsZeroSize(t *testing.T) {
	p := NewPipeline(&fakeBackend{}, &fakePainter{}, 1, nil)
	err := p.Render(configuredState(image.Point{}))
	assert.ErrorIs(t, err, ErrRender)
}

func TestPipelineSingleCycleInFlight(t *testing.T) {
	backend := &fakeBackend{}
	p := NewPipeline(backend, nil, 1, nil)
	st := configuredState(image.Pt(100, 20))

	var nested error
	p.painter = painterFunc(func(image.Rectangle, float32, View) error {
		nested = p.Render(st)
		return nil
	})

	require.NoError(t, p.Render(st))
	require.Error(t, nested)
	assert.ErrorIs(t, nested, ErrRender)
	assert.Len(t, backend.submitted, 1)
}

func TestLogicalRect(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 800, 40), LogicalRect(image.Pt(800, 40), 1))
	assert.Equal(t, image.Rect(0, 0, 400, 20), LogicalRect(image.Pt(800, 40), 2))
	assert.Equal(t, image.Rect(0, 0, 800, 40), LogicalRect(image.Pt(800, 40), 0))
}
