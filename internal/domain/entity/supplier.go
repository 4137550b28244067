package entity

import "time"

// SupplierType distingue proveedores reales del proveedor virtual de traslados.
type SupplierType string

const (
	SupplierTypeStandard         SupplierType = "standard"
	SupplierTypeInternalTransfer SupplierType = "internal_transfer"
)

// TransferSupplierCode es el código fijo del proveedor virtual usado por los traslados internos.
const TransferSupplierCode = "INTERNAL-TRANSFER"

// Supplier representa un proveedor. Nunca se elimina: se desactiva (IsActive=false).
type Supplier struct {
	ID        string
	Code      string
	Name      string
	LegalName string
	TaxID     string
	Email     string
	Phone     string
	Type      SupplierType
	IsActive  bool
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}
