package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ItemUseCase casos de uso del catálogo de ítems. El saldo se maneja solo vía movimientos.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un nuevo ítem activo con saldo 0.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now().UTC()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		SupplierID:  in.SupplierID,
		UnitPrice:   in.UnitPrice,
		Minimum:     in.Minimum,
		Maximum:     in.Maximum,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !item.ValidBounds() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return ToItemResponse(item), nil
}

// Update actualiza datos de catálogo. minimum < maximum se valida aquí, no al mover stock.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.CategoryID != nil {
		item.CategoryID = *in.CategoryID
	}
	if in.SupplierID != nil {
		item.SupplierID = *in.SupplierID
	}
	if in.UnitPrice != nil {
		item.UnitPrice = *in.UnitPrice
	}
	if in.Minimum != nil {
		item.Minimum = *in.Minimum
	}
	if in.Maximum != nil {
		item.Maximum = *in.Maximum
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	if !item.ValidBounds() {
		return nil, domain.ErrInvalidInput
	}
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.UpdateDetails(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// List lista ítems con filtro de estado de saldo y búsqueda por código o nombre.
func (uc *ItemUseCase) List(ctx context.Context, status, search string, activeOnly bool, page dto.PageRequest) (*dto.ItemListResponse, error) {
	switch status {
	case "", entity.BalanceStatusLow, entity.BalanceStatusOutOfStock, entity.BalanceStatusNormal, entity.BalanceStatusHigh:
	default:
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ItemFilter{
		Status:     status,
		Search:     strings.TrimSpace(search),
		ActiveOnly: activeOnly,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *ToItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ToItemResponse mapea la entidad a la salida HTTP.
func ToItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:          i.ID,
		Code:        i.Code,
		Name:        i.Name,
		Description: i.Description,
		CategoryID:  i.CategoryID,
		SupplierID:  i.SupplierID,
		UnitPrice:   i.UnitPrice,
		Balance:     i.Balance,
		Minimum:     i.Minimum,
		Maximum:     i.Maximum,
		Status:      i.BalanceStatus(),
		IsActive:    i.IsActive,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
