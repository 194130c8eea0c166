package scrape

import (
	"errors"
	"fmt"
)

// ErrUnsuccessful is reported when the envelope carries success=false.
var ErrUnsuccessful = errors.New("api returned success=false")

type Stage string

const (
	StageTransport Stage = "transport"
	StageStatus    Stage = "status"
	StageDecode    Stage = "decode"
	StageEnvelope  Stage = "envelope"
	StagePayload   Stage = "payload"
)

// FetchError is fatal for the current run.
type FetchError struct {
	Stage Stage
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch mmi (%s): %v", e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
