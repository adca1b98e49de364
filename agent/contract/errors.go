package contract

import "errors"

var (
	ErrOracleInvoke       = errors.New("oracle invoke failed")
	ErrToolPayload        = errors.New("tool payload is malformed")
	ErrUnknownTool        = errors.New("tool is not registered")
	ErrValidation         = errors.New("validation failed")
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrPersist            = errors.New("transcript persist failed")
)
