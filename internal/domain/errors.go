package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrInvalidRange = errors.New("rango de fechas inválido")
	ErrDuplicate    = errors.New("recurso duplicado")
)
