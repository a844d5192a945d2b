package sqlite

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

type itemRow struct {
	ID          string          `db:"id"`
	Code        string          `db:"code"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	CategoryID  string          `db:"category_id"`
	SupplierID  string          `db:"supplier_id"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Balance     int64           `db:"balance"`
	Minimum     int64           `db:"minimum"`
	Maximum     int64           `db:"maximum"`
	IsActive    bool            `db:"is_active"`
	CreatedAt   int64           `db:"created_at"`
	UpdatedAt   int64           `db:"updated_at"`
}

func (r itemRow) toEntity() *entity.Item {
	return &entity.Item{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		SupplierID:  r.SupplierID,
		UnitPrice:   r.UnitPrice,
		Balance:     r.Balance,
		Minimum:     r.Minimum,
		Maximum:     r.Maximum,
		IsActive:    r.IsActive,
		CreatedAt:   fromUnix(r.CreatedAt),
		UpdatedAt:   fromUnix(r.UpdatedAt),
	}
}

type movementRow struct {
	Sequence        int64               `db:"sequence"`
	ID              string              `db:"id"`
	ItemID          string              `db:"item_id"`
	Kind            string              `db:"kind"`
	Quantity        int64               `db:"quantity"`
	UnitPrice       decimal.NullDecimal `db:"unit_price"`
	TotalValue      decimal.NullDecimal `db:"total_value"`
	PreviousBalance int64               `db:"previous_balance"`
	NewBalance      int64               `db:"new_balance"`
	Reference       string              `db:"reference"`
	Notes           string              `db:"notes"`
	CreatedBy       string              `db:"created_by"`
	CreatedAt       int64               `db:"created_at"`
}

func (r movementRow) toEntity() *entity.MovementRecord {
	m := &entity.MovementRecord{
		ID:              r.ID,
		Sequence:        r.Sequence,
		ItemID:          r.ItemID,
		Kind:            entity.MovementKind(r.Kind),
		Quantity:        r.Quantity,
		PreviousBalance: r.PreviousBalance,
		NewBalance:      r.NewBalance,
		Reference:       r.Reference,
		Notes:           r.Notes,
		CreatedBy:       r.CreatedBy,
		CreatedAt:       fromUnix(r.CreatedAt),
	}
	if r.UnitPrice.Valid {
		p := r.UnitPrice.Decimal
		m.UnitPrice = &p
	}
	if r.TotalValue.Valid {
		v := r.TotalValue.Decimal
		m.TotalValue = &v
	}
	return m
}

type alertRow struct {
	ID              string        `db:"id"`
	ItemID          string        `db:"item_id"`
	BalanceSnapshot int64         `db:"balance_snapshot"`
	MinimumSnapshot int64         `db:"minimum_snapshot"`
	IsResolved      bool          `db:"is_resolved"`
	CreatedAt       int64         `db:"created_at"`
	ResolvedAt      sql.NullInt64 `db:"resolved_at"`
	ResolvedBy      string        `db:"resolved_by"`
}

func (r alertRow) toEntity() *entity.LowBalanceAlert {
	a := &entity.LowBalanceAlert{
		ID:              r.ID,
		ItemID:          r.ItemID,
		BalanceSnapshot: r.BalanceSnapshot,
		MinimumSnapshot: r.MinimumSnapshot,
		IsResolved:      r.IsResolved,
		CreatedAt:       fromUnix(r.CreatedAt),
		ResolvedBy:      r.ResolvedBy,
	}
	if r.ResolvedAt.Valid {
		t := fromUnix(r.ResolvedAt.Int64)
		a.ResolvedAt = &t
	}
	return a
}

// decimalText valor TEXT para columnas de monto; NULL cuando no hay valor.
func decimalText(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
