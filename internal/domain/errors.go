package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrUserInactive       = errors.New("usuario inactivo")
	ErrRateLimited        = errors.New("demasiados intentos, intente más tarde")
)

// Errores de sesión. El cliente distingue los tres para decidir si redirige al login.
var (
	ErrTokenMissing = errors.New("sesión requerida")
	ErrTokenInvalid = errors.New("sesión inválida")
	ErrTokenExpired = errors.New("sesión expirada")
)
