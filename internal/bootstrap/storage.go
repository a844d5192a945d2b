// Package bootstrap arma el almacenamiento y los casos de uso a partir de la configuración.
// Lo comparten cmd/api, cmd/check_low_stock, cmd/seed_sample_data y las pruebas de integración.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/sqlite"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Storage repositorios y TxRunner de un backend.
type Storage struct {
	Driver    string
	Items     repository.ItemRepository
	Movements repository.MovementRepository
	Alerts    repository.AlertRepository
	Analytics repository.AnalyticsRepository
	TxRunner  inventory.TxRunner
	close     func()
}

// Close libera el pool o la conexión.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage abre el backend elegido por DB_DRIVER y aplica migraciones si DB_AUTO_MIGRATE.
func OpenStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Storage, error) {
	switch cfg.DB.Driver {
	case config.DriverSQLite:
		st, err := openSQLite(ctx, cfg.DB.SQLitePath, cfg.Ledger.LockTimeout, cfg.DB.AutoMigrate)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", st.Driver).Str("path", cfg.DB.SQLitePath).Msg("almacenamiento listo")
		return st, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		log.Info().Str("driver", config.DriverPostgres).Msg("almacenamiento listo")
		return &Storage{
			Driver:    config.DriverPostgres,
			Items:     postgres.NewItemRepository(pool),
			Movements: postgres.NewMovementRepository(pool),
			Alerts:    postgres.NewAlertRepository(pool),
			Analytics: postgres.NewAnalyticsRepository(pool),
			TxRunner:  postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout),
			close:     pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("DB_DRIVER no soportado: %q", cfg.DB.Driver)
}

// OpenSQLite abre y migra una base SQLite (":memory:" en pruebas).
func OpenSQLite(ctx context.Context, path string) (*Storage, error) {
	return openSQLite(ctx, path, 5*time.Second, true)
}

func openSQLite(ctx context.Context, path string, busyTimeout time.Duration, migrate bool) (*Storage, error) {
	db, err := sqlite.Connect(ctx, path, busyTimeout)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := sqlite.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &Storage{
		Driver:    config.DriverSQLite,
		Items:     sqlite.NewItemRepository(db),
		Movements: sqlite.NewMovementRepository(db),
		Alerts:    sqlite.NewAlertRepository(db),
		Analytics: sqlite.NewAnalyticsRepository(db),
		TxRunner:  sqlite.NewTxRunner(db),
		close:     func() { _ = db.Close() },
	}, nil
}
