package panel

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocolDesync marks an unexpected or malformed compositor sequence.
	ErrProtocolDesync = errors.New("protocol desync")
	// ErrCapabilityAcquisition marks a device handle that could not be created.
	ErrCapabilityAcquisition = errors.New("capability acquisition failed")
	// ErrRender marks a failed render cycle.
	ErrRender = errors.New("render failed")
	// ErrInterrupted is returned by an event source closed on request.
	ErrInterrupted = errors.New("interrupted")
)

// CapabilityError reports a failed device acquisition. Initial is set when
// the failure happened on the seat's first capability announcement.
type CapabilityError struct {
	Kind    DeviceKind
	Initial bool
	Err     error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("acquire %s: %v", e.Kind, e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// Is matches ErrCapabilityAcquisition.
func (e *CapabilityError) Is(target error) bool { return target == ErrCapabilityAcquisition }

// RenderStage names the step of a render cycle that failed.
type RenderStage string

const (
	StageSize    RenderStage = "size"
	StagePaint   RenderStage = "paint"
	StageBind    RenderStage = "bind"
	StageCompose RenderStage = "compose"
	StageSubmit  RenderStage = "submit"
)

// RenderError reports a failed render cycle.
type RenderError struct {
	Stage RenderStage
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Is matches ErrRender.
func (e *RenderError) Is(target error) bool { return target == ErrRender }

func renderErr(stage RenderStage, err error) error {
	return &RenderError{Stage: stage, Err: err}
}

// fatal classifies err for the loop: errors already in the taxonomy pass
// through, everything else is a protocol desync.
func fatal(err error) error {
	if errors.Is(err, ErrRender) || errors.Is(err, ErrCapabilityAcquisition) || errors.Is(err, ErrProtocolDesync) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrProtocolDesync, err)
}
