// seed_sample_data crea un catálogo de ejemplo con movimientos. Todo saldo pasa por el
// procesador de movimientos, así el libro queda consistente con los saldos.
//
// Uso:
//
//	go run ./cmd/seed_sample_data [--items 50] [--seed 1]
//	go run ./cmd/seed_sample_data --csv catalogo.csv [--encoding latin1]
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/bootstrap"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/csvimport"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var (
	categories = []string{"Electrónicos", "Ropa", "Hogar", "Deportes", "Libros", "Salud"}
	suppliers  = []string{"Tech Solutions", "Fashion World", "Home & Garden", "Sports Pro"}
)

func main() {
	items := pflag.Int("items", 50, "número de ítems de ejemplo")
	seed := pflag.Int64("seed", 1, "semilla para datos reproducibles")
	actor := pflag.String("actor", "seed", "actor registrado en los movimientos")
	csvPath := pflag.String("csv", "", "importar este CSV en vez de generar datos")
	encoding := pflag.String("encoding", csvimport.EncodingUTF8, "codificación del CSV: utf-8 | latin1")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	storage, err := bootstrap.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer storage.Close()
	services := bootstrap.NewServices(storage, cfg.Ledger, bootstrap.NewNotifier(cfg.SMTP, log), log)

	var rows []dto.ImportRowRequest
	var parseErrs []string
	if *csvPath != "" {
		f, err := os.Open(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir CSV")
		}
		rows, parseErrs, err = csvimport.ReadRows(f, *encoding)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("leer CSV")
		}
	} else {
		rows = sampleRows(rand.New(rand.NewSource(*seed)), *items)
	}

	res, err := services.Import.Import(ctx, *actor, rows)
	if err != nil {
		log.Fatal().Err(err).Msg("importar catálogo")
	}
	res.Errors = append(parseErrs, res.Errors...)

	moved := 0
	if *csvPath == "" {
		moved = randomMovements(ctx, services.Processor, storage, rand.New(rand.NewSource(*seed+1)), *actor)
	}

	for _, e := range res.Errors {
		fmt.Fprintln(os.Stderr, e)
	}
	fmt.Printf("Datos de ejemplo: %d creados, %d actualizados, %d ajustes, %d movimientos, %d errores\n",
		res.Created, res.Updated, res.Adjusted, moved, len(res.Errors))
}

func sampleRows(rng *rand.Rand, n int) []dto.ImportRowRequest {
	rows := make([]dto.ImportRowRequest, 0, n)
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("Producto %03d", i)
		minimum := int64(5 + rng.Intn(16))
		maximum := int64(100 + rng.Intn(401))
		balance := int64(rng.Intn(101))
		rows = append(rows, dto.ImportRowRequest{
			Code:        fmt.Sprintf("PRD%04d", i),
			Name:        name,
			Description: "Descripción del " + name,
			CategoryID:  categories[rng.Intn(len(categories))],
			SupplierID:  suppliers[rng.Intn(len(suppliers))],
			UnitPrice:   decimal.NewFromFloat(10 + rng.Float64()*990).Round(2),
			Minimum:     &minimum,
			Maximum:     &maximum,
			Balance:     &balance,
		})
	}
	return rows
}

// randomMovements de 1 a 5 entradas/salidas por ítem. Las salidas sin saldo se descartan.
func randomMovements(ctx context.Context, processor *inventory.MovementProcessor, storage *bootstrap.Storage, rng *rand.Rand, actor string) int {
	ids, err := storage.Items.ListActiveIDs(ctx)
	if err != nil {
		return 0
	}
	applied := 0
	for _, id := range ids {
		item, err := storage.Items.GetByID(ctx, id)
		if err != nil || item == nil {
			continue
		}
		for n := 1 + rng.Intn(5); n > 0; n-- {
			kind := entity.MovementKindIN
			if rng.Intn(2) == 0 {
				kind = entity.MovementKindOUT
			}
			price := item.UnitPrice
			_, err := processor.ApplyMovement(ctx, inventory.MovementInput{
				ItemID:    id,
				Kind:      kind,
				Quantity:  int64(1 + rng.Intn(20)),
				UnitPrice: &price,
				Reference: fmt.Sprintf("REF-%04d", 1000+rng.Intn(9000)),
				ActorID:   actor,
			})
			if errors.Is(err, domain.ErrInsufficientBalance) {
				continue
			}
			if err == nil {
				applied++
			}
		}
	}
	return applied
}
