package domain

import (
	"errors"
	"fmt"

	"marehpilates/internal/models"
)

var (
	ErrNotFound           = errors.New("no encontrado")
	ErrValidation         = errors.New("solicitud inválida")
	ErrInvalidReference   = errors.New("referencia no válida")
	ErrDuplicateName      = errors.New("nombre duplicado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInUse              = errors.New("el registro tiene datos relacionados y no puede eliminarse")

	ErrBalanceBlocked     = errors.New("cliente tiene saldo pendiente, no puede reservar")
	ErrMembershipInactive = errors.New("la membresía no está activa")
	ErrMembershipExpired  = errors.New("la membresía está vencida para la fecha de la clase")
	ErrWeeklyLimitReached = errors.New("límite semanal de la membresía alcanzado")
	ErrTotalLimitReached  = errors.New("límite total de la membresía alcanzado")
	ErrSessionFull        = errors.New("la clase no tiene cupo disponible")
	ErrDuplicateBooking   = errors.New("el cliente ya tiene una reserva para esta clase")

	ErrInvalidMovementType = errors.New("tipo debe ser fine, payment o adjustment")
	ErrInvalidPaymentType  = errors.New("payment_type debe ser membership, multa u otro")
)

// ValidationError reports a malformed or missing request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Required builds the error for a missing mandatory field.
func Required(field string) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("falta campo requerido %s", field)}
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ReferenceError reports an id that does not resolve to an existing row.
type ReferenceError struct {
	Field   string
	Message string
}

func (e *ReferenceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s no válido", e.Field)
}
func (e *ReferenceError) Unwrap() error { return ErrInvalidReference }

func InvalidReference(field string) error {
	return &ReferenceError{Field: field}
}

// DuplicateError reports a unique-name collision on create or rename.
type DuplicateError struct {
	Field   string
	Message string
}

func (e *DuplicateError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s ya existe", e.Field)
}
func (e *DuplicateError) Unwrap() error { return ErrDuplicateName }

// ExpiredError carries the two dates that made a membership unusable for a class.
type ExpiredError struct {
	FechaFin     models.Date
	SessionFecha models.Date
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("la membresía vence el %s y la clase es el %s", e.FechaFin, e.SessionFecha)
}

func (e *ExpiredError) Unwrap() error { return ErrMembershipExpired }

// PersistenceError wraps a storage failure surfaced to the caller with its detail.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }
