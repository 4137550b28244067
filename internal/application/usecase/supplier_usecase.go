package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Proveedores-api/internal/application/dto"
	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores (sin borrado físico).
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor estándar. El código es opcional (se genera SUP-XXXXXXXX) pero único.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ValidationError("name requerido")
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == entity.TransferSupplierCode {
		return nil, domain.ValidationError("el código %s está reservado", code)
	}
	if code != "" {
		existing, err := uc.repo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	id := uuid.New().String()
	if code == "" {
		code = "SUP-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        id,
		Code:      code,
		Name:      strings.TrimSpace(in.Name),
		LegalName: in.LegalName,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Type:      entity.SupplierTypeStandard,
		IsActive:  true,
		Metadata:  in.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if supplier.Metadata == nil {
		supplier.Metadata = map[string]any{}
	}
	if err := uc.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.NotFoundError("proveedor", id)
	}
	return toSupplierResponse(supplier), nil
}

// List lista proveedores con paginación.
func (uc *SupplierUseCase) List(ctx context.Context, onlyActive bool, limit, offset int) (*dto.SupplierListResponse, error) {
	list, err := uc.repo.List(ctx, onlyActive, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Deactivate desactiva el proveedor (soft delete). Idempotente.
func (uc *SupplierUseCase) Deactivate(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.NotFoundError("proveedor", id)
	}
	if supplier.IsActive {
		supplier.IsActive = false
		supplier.UpdatedAt = time.Now()
		if err := uc.repo.Update(ctx, supplier); err != nil {
			return nil, err
		}
	}
	return toSupplierResponse(supplier), nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	if s == nil {
		return nil
	}
	return &dto.SupplierResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		LegalName: s.LegalName,
		TaxID:     s.TaxID,
		Email:     s.Email,
		Phone:     s.Phone,
		Type:      string(s.Type),
		IsActive:  s.IsActive,
		Metadata:  s.Metadata,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
