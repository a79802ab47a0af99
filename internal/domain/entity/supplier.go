package entity

import "time"

// Supplier representa un proveedor.
type Supplier struct {
	ID          int64
	Name        string
	ContactInfo string
	CreatedAt   time.Time
}
