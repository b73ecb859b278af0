package httperr

import (
	"errors"
	"fmt"
)

// Kind classifica erros de domínio; o transporte decide o status HTTP.
type Kind string

const (
	KindBadRequest        Kind = "bad_request"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindForbidden         Kind = "forbidden"
	KindUnauthorized      Kind = "unauthorized"
	KindDatabase          Kind = "database"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

func NewBadRequest(code, message string) error {
	return BusinessError{Kind: KindBadRequest, Code: code, Message: message}
}

func NewNotFound(code, message string) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func NewConflict(code, message string) error {
	return BusinessError{Kind: KindConflict, Code: code, Message: message}
}

func NewForbidden(code, message string) error {
	return BusinessError{Kind: KindForbidden, Code: code, Message: message}
}

func NewUnauthorized(code, message string) error {
	return BusinessError{Kind: KindUnauthorized, Code: code, Message: message}
}

func NewInvalidTransition(from, to string) error {
	return BusinessError{
		Kind:    KindInvalidTransition,
		Code:    "invalid_transition",
		Message: fmt.Sprintf("cannot change status from %s to %s", from, to),
	}
}

// Database embrulha uma falha de storage. A mensagem original fica só no log.
func Database(op string, err error) error {
	if err == nil {
		return nil
	}
	var be BusinessError
	if errors.As(err, &be) {
		return err
	}
	return BusinessError{
		Kind:    KindDatabase,
		Code:    "internal_error",
		Message: op,
		Err:     err,
	}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func KindOf(err error) (Kind, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return "", false
}
