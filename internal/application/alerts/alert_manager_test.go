package alerts_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/alerts"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/bootstrap"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *recordingNotifier) NotifyLowBalance(_ context.Context, alert *entity.LowBalanceAlert, _ *entity.Item) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, alert.ItemID)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func setup(t *testing.T) (*bootstrap.Storage, *alerts.AlertManager, *recordingNotifier) {
	t.Helper()
	st, err := bootstrap.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(st.Close)
	n := &recordingNotifier{}
	return st, alerts.NewAlertManager(st.Items, st.Alerts, n, 4, logger.Nop()), n
}

// newItem crea un ítem con saldo 0; con minimum >= 0 queda en o bajo el mínimo.
func newItem(t *testing.T, st *bootstrap.Storage, code string, minimum int64) string {
	t.Helper()
	out, err := usecase.NewItemUseCase(st.Items).Create(context.Background(), dto.CreateItemRequest{
		Code:      code,
		Name:      code,
		UnitPrice: decimal.NewFromInt(1),
		Minimum:   minimum,
		Maximum:   minimum + 100,
	})
	require.NoError(t, err)
	return out.ID
}

// adjust lleva el saldo al valor indicado con un ADJUST del procesador, sin evaluar alertas.
func adjust(t *testing.T, st *bootstrap.Storage, id string, balance int64) {
	t.Helper()
	processor := inventory.NewMovementProcessor(st.TxRunner, inventory.NewItemLocker(time.Second), nil, logger.Nop())
	_, err := processor.ApplyMovement(context.Background(), inventory.MovementInput{
		ItemID:   id,
		Kind:     entity.MovementKindADJUST,
		Quantity: balance,
		ActorID:  "tester",
	})
	require.NoError(t, err)
}

func TestEvaluate_EsIdempotente(t *testing.T) {
	st, m, n := setup(t)
	id := newItem(t, st, "EV-1", 5)
	ctx := context.Background()

	created, err := m.Evaluate(ctx, id)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = m.Evaluate(ctx, id)
	require.NoError(t, err)
	assert.False(t, created)

	open, err := m.ListUnresolved(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, open, 1)
	assert.Equal(t, 1, n.count(), "solo se notifica al crear")
}

func TestEvaluate_ConcurrenteCreaUnaSola(t *testing.T) {
	st, m, n := setup(t)
	id := newItem(t, st, "EV-2", 5)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := m.Evaluate(context.Background(), id)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, n.count())
}

func TestEvaluate_SaldoSobreMinimoNoCreaAlerta(t *testing.T) {
	st, m, _ := setup(t)
	id := newItem(t, st, "EV-3", 5)
	adjust(t, st, id, 6)

	created, err := m.Evaluate(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = m.Evaluate(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestEvaluate_FalloDeNotificacionNoFalla(t *testing.T) {
	st, m, n := setup(t)
	n.err = errors.New("smtp caído")
	id := newItem(t, st, "EV-4", 5)

	created, err := m.Evaluate(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestResolve_ConservaPrimeraResolucion(t *testing.T) {
	st, m, _ := setup(t)
	id := newItem(t, st, "RS-1", 5)
	ctx := context.Background()
	_, err := m.Evaluate(ctx, id)
	require.NoError(t, err)
	open, err := st.Alerts.GetUnresolvedByItem(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, open)

	first, err := m.Resolve(ctx, open.ID, "ana")
	require.NoError(t, err)
	assert.True(t, first.IsResolved)
	require.NotNil(t, first.ResolvedAt)
	assert.Equal(t, "ana", first.ResolvedBy)

	second, err := m.Resolve(ctx, open.ID, "otro")
	require.NoError(t, err)
	assert.True(t, second.IsResolved)
	assert.Equal(t, "ana", second.ResolvedBy)
	assert.True(t, first.ResolvedAt.Equal(*second.ResolvedAt))

	// Resuelta la anterior, el ítem puede volver a alertar.
	created, err := m.Evaluate(ctx, id)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestResolve_Errores(t *testing.T) {
	_, m, _ := setup(t)
	_, err := m.Resolve(context.Background(), "no-existe", "ana")
	assert.ErrorIs(t, err, domain.ErrAlertNotFound)

	_, err = m.Resolve(context.Background(), "x", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSweep_NoDuplicaAlRepetir(t *testing.T) {
	st, m, n := setup(t)
	ctx := context.Background()
	newItem(t, st, "SW-1", 5)
	newItem(t, st, "SW-2", 0)
	ok := newItem(t, st, "SW-3", 5)
	adjust(t, st, ok, 50)

	res, err := m.SweepActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Evaluated)
	assert.Equal(t, 2, res.Created)
	assert.Empty(t, res.Errors)

	res, err = m.SweepActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, n.count())
}

func TestSweep_ErroresPorItemNoDetienenElResto(t *testing.T) {
	st, m, _ := setup(t)
	id := newItem(t, st, "SW-4", 5)

	created, err := m.Sweep(context.Background(), []string{"fantasma", id})
	assert.Equal(t, 1, created)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.Contains(t, err.Error(), "fantasma")
}
