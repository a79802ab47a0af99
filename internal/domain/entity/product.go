package entity

import "time"

// Product representa un producto del catálogo. Inmutable una vez referenciado por compras o inventarios.
type Product struct {
	ID        int64
	Name      string
	Unit      string // unidad de medida (kg, un, lt...)
	Category  string
	CreatedAt time.Time
}
