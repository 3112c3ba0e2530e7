package report

import (
	"errors"
	"fmt"
)

// Kind классифицирует ошибки сервиса отчетов.
type Kind int

const (
	KindBackend Kind = iota
	KindConfiguration
	KindConnection
	KindConstraint
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindConnection:
		return "connection"
	case KindConstraint:
		return "constraint"
	case KindStorage:
		return "storage"
	default:
		return "backend"
	}
}

// ErrPatientNameRequired возвращается, если имя пациента пустое.
var ErrPatientNameRequired = errors.New("patient name is required")

// Error описывает ошибку операции вместе с ее видом.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E оборачивает err в *Error. Уже типизированная ошибка сохраняет свой вид.
func E(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return &Error{Op: op, Kind: re.Kind, Err: err}
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf возвращает вид ошибки. Для нетипизированных ошибок это KindBackend.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindBackend
}

// Is сообщает, относится ли err к виду kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
