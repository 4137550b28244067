package dto

import "time"

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	Code      string         `json:"code,omitempty"`
	Name      string         `json:"name"`
	LegalName string         `json:"legal_name,omitempty"`
	TaxID     string         `json:"tax_id,omitempty"`
	Email     string         `json:"email,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// SupplierResponse representación de un proveedor.
type SupplierResponse struct {
	ID        string         `json:"id"`
	Code      string         `json:"code,omitempty"`
	Name      string         `json:"name"`
	LegalName string         `json:"legal_name,omitempty"`
	TaxID     string         `json:"tax_id,omitempty"`
	Email     string         `json:"email,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Type      string         `json:"type"`
	IsActive  bool           `json:"is_active"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SupplierListResponse listado paginado de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
