package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrIDMismatch   = errors.New("el id del cuerpo no coincide con el de la ruta")
	ErrTransport    = errors.New("fallo de transporte o almacenamiento")
)
