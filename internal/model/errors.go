package model

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// ErrNoEvidence is the defined terminal outcome when every discovery path
// was exhausted without finding competitors or evidence. It is not a
// transport error; callers must handle it explicitly.
var ErrNoEvidence = eris.New("model: no competitors or evidence found")

// ErrNotConfigured signals a missing required credential or backend key.
// Fatal: surfaced verbatim to the caller, never retried.
var ErrNotConfigured = eris.New("model: required credential not configured")

// StageSchemaError reports an analysis stage response that failed to
// validate against its declared output schema. Fatal for the run; Raw
// carries enough of the response to reproduce the failure.
type StageSchemaError struct {
	Stage Stage
	Raw   string
	Err   error
}

func (e *StageSchemaError) Error() string {
	return fmt.Sprintf("stage %s: response failed schema validation: %v", e.Stage, e.Err)
}

func (e *StageSchemaError) Unwrap() error {
	return e.Err
}

// NewStageSchemaError wraps a validation failure with the offending raw
// response, capped to keep logs readable.
func NewStageSchemaError(stage Stage, raw string, err error) *StageSchemaError {
	const rawCap = 2000
	if len(raw) > rawCap {
		raw = raw[:rawCap]
	}
	return &StageSchemaError{Stage: stage, Raw: raw, Err: err}
}
