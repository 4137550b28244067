package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrExternalDependency     = errors.New("fallo en servicio externo")
)

// TransitionError describe un cambio de estado rechazado por la máquina de estados.
// errors.Is(err, ErrInvalidStateTransition) es verdadero.
type TransitionError struct {
	From    string
	To      string
	Allowed []string
}

func (e *TransitionError) Error() string {
	allowed := "ninguno (estado terminal)"
	if len(e.Allowed) > 0 {
		allowed = strings.Join(e.Allowed, ", ")
	}
	return fmt.Sprintf("no se puede pasar de %q a %q; estados válidos: %s", e.From, e.To, allowed)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidStateTransition }

// ExternalError envuelve el fallo de un servicio externo (inventario, ubicaciones, identidad).
type ExternalError struct {
	Service string
	Err     error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalError) Is(target error) bool { return target == ErrExternalDependency }

func (e *ExternalError) Unwrap() error { return e.Err }

// External envuelve err como fallo de dependencia externa; nil si err es nil.
func External(service string, err error) error {
	if err == nil {
		return nil
	}
	return &ExternalError{Service: service, Err: err}
}

// ValidationError agrega contexto a ErrInvalidInput.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFoundError agrega contexto a ErrNotFound.
func NotFoundError(resource, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}
