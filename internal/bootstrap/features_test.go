package bootstrap_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/bootstrap"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

type ledgerTestContext struct {
	storage  *bootstrap.Storage
	services *bootstrap.Services
	itemID   string
	last     *entity.MovementRecord
	err      error
}

func (c *ledgerTestContext) reset() error {
	c.close()
	st, err := bootstrap.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		return err
	}
	c.storage = st
	c.services = bootstrap.NewServices(st, config.LedgerConfig{
		LockTimeout:      time.Second,
		RetryAttempts:    2,
		RetryBackoff:     time.Millisecond,
		SweepConcurrency: 1,
	}, nil, logger.Nop())
	c.itemID, c.last, c.err = "", nil, nil
	return nil
}

func (c *ledgerTestContext) close() {
	if c.storage != nil {
		c.storage.Close()
		c.storage = nil
	}
}

func (c *ledgerTestContext) anItemWithBalanceAndMinimum(code string, balance, minimum int) error {
	item, err := c.services.Items.Create(context.Background(), dto.CreateItemRequest{
		Code:      code,
		Name:      "Ítem " + code,
		UnitPrice: decimal.NewFromInt(1),
		Minimum:   int64(minimum),
		Maximum:   1000,
	})
	if err != nil {
		return err
	}
	c.itemID = item.ID
	if balance == 0 {
		return nil
	}
	return c.apply(entity.MovementKindADJUST, balance)
}

func (c *ledgerTestContext) apply(kind entity.MovementKind, qty int) error {
	c.last, c.err = c.services.Processor.ApplyMovement(context.Background(), inventory.MovementInput{
		ItemID:   c.itemID,
		Kind:     kind,
		Quantity: int64(qty),
		ActorID:  "bdd",
	})
	return c.err
}

func (c *ledgerTestContext) iRegisterAnOutbound(qty int) error {
	err := c.apply(entity.MovementKindOUT, qty)
	if errors.Is(err, domain.ErrInsufficientBalance) {
		return nil
	}
	return err
}

func (c *ledgerTestContext) iRegisterAnInbound(qty int) error {
	return c.apply(entity.MovementKindIN, qty)
}

func (c *ledgerTestContext) iRegisterAnAdjustment(qty int) error {
	return c.apply(entity.MovementKindADJUST, qty)
}

func (c *ledgerTestContext) iResolveTheOpenAlert() error {
	open, err := c.storage.Alerts.GetUnresolvedByItem(context.Background(), c.itemID)
	if err != nil {
		return err
	}
	if open == nil {
		return errors.New("el ítem no tiene alerta abierta")
	}
	_, err = c.services.Alerts.Resolve(context.Background(), open.ID, "bdd")
	return err
}

func (c *ledgerTestContext) theItemBalanceIs(want int) error {
	item, err := c.storage.Items.GetByID(context.Background(), c.itemID)
	if err != nil {
		return err
	}
	if item.Balance != int64(want) {
		return fmt.Errorf("saldo esperado %d, obtenido %d", want, item.Balance)
	}
	return nil
}

func (c *ledgerTestContext) theItemHasUnresolvedAlerts(want int) error {
	open, err := c.storage.Alerts.GetUnresolvedByItem(context.Background(), c.itemID)
	if err != nil {
		return err
	}
	got := 0
	if open != nil {
		got = 1
	}
	if got != want {
		return fmt.Errorf("alertas abiertas esperadas %d, obtenidas %d", want, got)
	}
	return nil
}

func (c *ledgerTestContext) theMovementFailsWith(code string) error {
	want := map[string]error{
		"INSUFFICIENT_BALANCE": domain.ErrInsufficientBalance,
		"INVALID_QUANTITY":     domain.ErrInvalidQuantity,
		"ITEM_NOT_FOUND":       domain.ErrItemNotFound,
	}[code]
	if want == nil {
		return fmt.Errorf("código desconocido %q", code)
	}
	if !errors.Is(c.err, want) {
		return fmt.Errorf("se esperaba %s, obtenido %v", code, c.err)
	}
	return nil
}

func (c *ledgerTestContext) theLedgerHasMovements(want int) error {
	list, err := c.storage.Movements.List(context.Background(), repository.MovementFilter{ItemID: c.itemID})
	if err != nil {
		return err
	}
	if len(list) != want {
		return fmt.Errorf("movimientos esperados %d, obtenidos %d", want, len(list))
	}
	return nil
}

func (c *ledgerTestContext) theLastMovementGoesFromTo(previous, next int) error {
	if c.last == nil {
		return errors.New("no hay movimiento registrado")
	}
	if c.last.PreviousBalance != int64(previous) || c.last.NewBalance != int64(next) {
		return fmt.Errorf("esperado %d -> %d, obtenido %d -> %d", previous, next, c.last.PreviousBalance, c.last.NewBalance)
	}
	return nil
}

func (c *ledgerTestContext) theAuditIsConsistentWithBalance(want int) error {
	audit, err := c.services.Ledger.AuditItem(context.Background(), c.itemID)
	if err != nil {
		return err
	}
	if !audit.Consistent || audit.ReplayBalance != int64(want) {
		return fmt.Errorf("auditoría inconsistente: %+v", audit)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &ledgerTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.close()
		return ctx, nil
	})

	ctx.Step(`^un ítem "([^"]*)" con saldo (\d+) y mínimo (\d+)$`, tc.anItemWithBalanceAndMinimum)

	ctx.Step(`^registro una salida de (\d+) unidades$`, tc.iRegisterAnOutbound)
	ctx.Step(`^registro una entrada de (\d+) unidades$`, tc.iRegisterAnInbound)
	ctx.Step(`^registro un ajuste a (\d+) unidades$`, tc.iRegisterAnAdjustment)
	ctx.Step(`^resuelvo la alerta abierta del ítem$`, tc.iResolveTheOpenAlert)

	ctx.Step(`^el saldo del ítem es (\d+)$`, tc.theItemBalanceIs)
	ctx.Step(`^el ítem tiene (\d+) alertas sin resolver$`, tc.theItemHasUnresolvedAlerts)
	ctx.Step(`^el movimiento falla con "([^"]*)"$`, tc.theMovementFailsWith)
	ctx.Step(`^el libro del ítem tiene (\d+) movimientos$`, tc.theLedgerHasMovements)
	ctx.Step(`^el último movimiento va de (\d+) a (\d+)$`, tc.theLastMovementGoesFromTo)
	ctx.Step(`^la auditoría del ítem es consistente con saldo (\d+)$`, tc.theAuditIsConsistentWithBalance)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features/stock_ledger.feature"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
