package domain

import "errors"

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrRecordNotFound    = errors.New("record not found")
	ErrNotParticipant    = errors.New("user is not a conversation participant")
	ErrEditConflict      = errors.New("edit conflict")
)

type ErrValidation struct {
	Errors map[string]string
}

func NewErrValidation() *ErrValidation {
	return &ErrValidation{Errors: make(map[string]string)}
}

// implements error interface, so unwrap the error to get the validation errors
func (ErrValidation) Error() string {
	return "validation error"
}

func (e *ErrValidation) AddError(field, message string) {
	e.Errors[field] = message
}

func (e *ErrValidation) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ErrValidation) Evaluate(ok bool, field, message string) {
	if !ok {
		e.AddError(field, message)
	}
}
