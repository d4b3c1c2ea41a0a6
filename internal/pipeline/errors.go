package pipeline

import "fmt"

// Stage identifies which step of the quote pipeline failed, so callers
// can tell a template problem from a pricing problem instead of getting
// one opaque message.
type Stage string

const (
	StageExtract  Stage = "extract"
	StagePricing  Stage = "pricing"
	StageTemplate Stage = "template"
	StageAuth     Stage = "auth"
	StageRender   Stage = "render"
	StageConvert  Stage = "convert"
)

// StageError wraps a failure with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
