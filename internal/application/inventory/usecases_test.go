package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func int64p(v int64) *int64 { return &v }

func TestRegisterMovementFromRequest(t *testing.T) {
	e := newEngine(t)
	id := e.item(t, "RM-1", 5, 1)

	out, err := e.services.Register.RegisterMovementFromRequest(context.Background(), actor, dto.ApplyMovementRequest{
		ItemID:   id,
		Kind:     "IN",
		Quantity: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.PreviousBalance)
	assert.Equal(t, int64(12), out.NewBalance)
	assert.NotEmpty(t, out.MovementID)

	_, err = e.services.Register.RegisterMovementFromRequest(context.Background(), actor, dto.ApplyMovementRequest{
		ItemID:   id,
		Kind:     "OUT",
		Quantity: 13,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestQueryLedger_FiltraYOrdena(t *testing.T) {
	e := newEngine(t)
	a := e.item(t, "L-A", 10, 1)
	b := e.item(t, "L-B", 10, 1)
	_, err := e.apply(a, entity.MovementKindOUT, 2)
	require.NoError(t, err)
	_, err = e.apply(b, entity.MovementKindIN, 4)
	require.NoError(t, err)
	_, err = e.apply(a, entity.MovementKindIN, 1)
	require.NoError(t, err)
	ctx := context.Background()

	res, err := e.services.Ledger.QueryLedger(ctx, dto.LedgerQuery{ItemID: a})
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.Equal(t, "ADJUST", res.Items[0].Kind)
	assert.Equal(t, "OUT", res.Items[1].Kind)
	assert.Equal(t, "IN", res.Items[2].Kind)
	assert.Equal(t, int64(9), res.Items[2].NewBalance)

	res, err = e.services.Ledger.QueryLedger(ctx, dto.LedgerQuery{Kind: "IN"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)

	future := time.Now().Add(time.Hour)
	res, err = e.services.Ledger.QueryLedger(ctx, dto.LedgerQuery{DateFrom: &future})
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	res, err = e.services.Ledger.QueryLedger(ctx, dto.LedgerQuery{Page: dto.PageRequest{Limit: 2, Offset: 3}})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)

	_, err = e.services.Ledger.QueryLedger(ctx, dto.LedgerQuery{Kind: "TRANSFER"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	past := time.Now().Add(-time.Hour)
	_, err = e.services.Ledger.QueryLedger(ctx, dto.LedgerQuery{DateFrom: &future, DateTo: &past})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuditItem(t *testing.T) {
	e := newEngine(t)
	id := e.item(t, "AU-1", 20, 1)
	_, err := e.apply(id, entity.MovementKindOUT, 5)
	require.NoError(t, err)
	_, err = e.apply(id, entity.MovementKindADJUST, 40)
	require.NoError(t, err)

	audit, err := e.services.Ledger.AuditItem(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
	assert.Equal(t, 3, audit.Movements)
	assert.Equal(t, int64(40), audit.ReplayBalance)
	assert.Equal(t, int64(40), audit.StoredBalance)

	_, err = e.services.Ledger.AuditItem(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestAuditItem_IgnoraDesfaseDeRelojes(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	id := e.item(t, "AU-2", 0, 1)

	// Dos instancias con relojes desfasados: la segunda confirma después pero con un created_at anterior.
	now := time.Now().UTC()
	for _, m := range []struct {
		kind          entity.MovementKind
		qty, prev, nw int64
		at            time.Time
	}{
		{entity.MovementKindIN, 10, 0, 10, now},
		{entity.MovementKindOUT, 4, 10, 6, now.Add(-time.Minute)},
	} {
		err := e.storage.TxRunner.Run(ctx, func(items repository.ItemBalanceWriter, movements repository.MovementRepository) error {
			if err := items.UpdateBalance(ctx, id, m.nw, m.at); err != nil {
				return err
			}
			return movements.Create(ctx, &entity.MovementRecord{
				ID: uuid.New().String(), ItemID: id, Kind: m.kind, Quantity: m.qty,
				PreviousBalance: m.prev, NewBalance: m.nw, CreatedBy: actor, CreatedAt: m.at,
			})
		})
		require.NoError(t, err)
	}

	audit, err := e.services.Ledger.AuditItem(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, audit.Inconsistency)
	assert.True(t, audit.Consistent)
	assert.Equal(t, int64(6), audit.ReplayBalance)
}

func TestImport_AjustaSaldosPorElLibro(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	existing := e.item(t, "IMP-2", 3, 1)

	res, err := e.services.Import.Import(ctx, actor, []dto.ImportRowRequest{
		{Code: "IMP-1", Name: "Nuevo", UnitPrice: decimal.NewFromInt(4), Minimum: int64p(2), Maximum: int64p(50), Balance: int64p(25)},
		{Code: "IMP-2", Name: "Existente renombrado", UnitPrice: decimal.NewFromInt(9), Balance: int64p(8)},
		{Code: "", Name: "Sin código"},
		{Code: "IMP-3", Name: "Límites invertidos", Minimum: int64p(50), Maximum: int64p(10)},
		{Line: 42, Code: "IMP-4", Name: "Saldo negativo", Balance: int64p(-1)},
		{Code: "IMP-5", Name: "Sin saldo"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.Adjusted)
	require.Len(t, res.Errors, 3)
	assert.Contains(t, res.Errors[0], "Fila 4")
	assert.Contains(t, res.Errors[1], "Fila 5")
	assert.Contains(t, res.Errors[2], "Fila 42")

	created, err := e.storage.Items.GetByCode(ctx, "IMP-1")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, int64(25), created.Balance)

	records := e.ledger(t, created.ID)
	require.Len(t, records, 1)
	assert.Equal(t, entity.MovementKindADJUST, records[0].Kind)
	assert.Equal(t, inventory.ImportReference, records[0].Reference)
	assert.Equal(t, int64(0), records[0].PreviousBalance)

	assert.Equal(t, int64(8), e.balance(t, existing))
	updated, err := e.storage.Items.GetByID(ctx, existing)
	require.NoError(t, err)
	assert.Equal(t, "Existente renombrado", updated.Name)

	_, err = e.services.Import.Import(ctx, "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type rejectingApplier struct{}

func (rejectingApplier) ApplyMovement(context.Context, inventory.MovementInput) (*entity.MovementRecord, error) {
	return nil, domain.ErrPersistence
}

func TestImport_AjusteFallidoCuentaElItemCreado(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	existing := e.item(t, "IMF-2", 0, 1)

	uc := inventory.NewImportUseCase(e.storage.Items, rejectingApplier{}, inventory.RetryPolicy{Attempts: 1}, logger.Nop())
	res, err := uc.Import(ctx, actor, []dto.ImportRowRequest{
		{Line: 2, Code: "IMF-1", Name: "Nuevo", UnitPrice: decimal.NewFromInt(1), Balance: int64p(5)},
		{Line: 3, Code: "IMF-2", Name: "Renombrado", UnitPrice: decimal.NewFromInt(1), Balance: int64p(5)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 0, res.Adjusted)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "Fila 2: ítem creado con saldo 0")
	assert.Contains(t, res.Errors[1], "Fila 3: ítem actualizado sin cambiar saldo")

	created, err := e.storage.Items.GetByCode(ctx, "IMF-1")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, int64(0), created.Balance)
	renamed, err := e.storage.Items.GetByID(ctx, existing)
	require.NoError(t, err)
	assert.Equal(t, "Renombrado", renamed.Name)
}

func TestGenerateReplenishmentList(t *testing.T) {
	e := newEngine(t)
	e.item(t, "RP-OK", 500, 10)
	low := e.item(t, "RP-LOW", 5, 10)
	empty := e.item(t, "RP-EMPTY", 0, 10)

	list, err := e.services.Replenishment.GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, empty, list[0].ItemID, "sin stock va primero")
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, int64(1000), list[0].SuggestedOrderQty)
	assert.True(t, list[0].EstimatedOrderCost.Equal(decimal.NewFromInt(2500)))

	assert.Equal(t, low, list[1].ItemID)
	assert.Equal(t, int64(995), list[1].SuggestedOrderQty)
	assert.Equal(t, 2, list[1].Priority)
}
