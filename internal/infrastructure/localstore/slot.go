// Package localstore implementa CustomerRepository guardando la lista completa como un
// único blob JSON en un slot con nombre de un almacén clave/valor durable.
//
// Backends de slot:
//   - SQLiteSlot: archivo SQLite local (modernc.org/sqlite, sin cgo).
//   - RedisSlot: una clave de Redis.
package localstore

import "context"

// DefaultSlotName nombre del slot cuando la configuración no indica otro.
const DefaultSlotName = "customers"

// Slot almacén de blobs por nombre.
// Load devuelve (nil, nil) si el slot no existe todavía.
type Slot interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Close() error
}
