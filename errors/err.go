package errors

import (
	"fmt"
)

var (
	ErrInvalidConfig       = fmt.Errorf("aiagents: invalid config")
	ErrNotFound            = fmt.Errorf("aiagents: not found")
	ErrInvalidParams       = fmt.Errorf("aiagents: invalid params")
	ErrInternal            = fmt.Errorf("aiagents: internal error")
	ErrConfiguration       = fmt.Errorf("aiagents: collaborator not configured")
	ErrContractViolation   = fmt.Errorf("aiagents: collaborator returned malformed data")
	ErrNoProviderAvailable = fmt.Errorf("aiagents: no search provider available")
)

// StageError reports the failure of a single workflow stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ProviderError reports the failure of a single external search backend.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}
