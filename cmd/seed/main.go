// Package main provides a CLI tool for seeding the database with demo records.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"stockbook/internal/domain/inventory"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/internal/infrastructure/storage/postgres/inventory_repo"
	"stockbook/pkg/logger"
)

// seedProduct describes one demo product's starting point and daily movement
// pattern. Movements repeat day over day, continuity carries closing stock.
type seedProduct struct {
	name    string
	opening int
	days    []dayMovements
}

type dayMovements struct {
	newStock int
	issued   int
	returns  int
	rebag    int
	damaged  int
}

var demoProducts = []seedProduct{
	{
		name:    "Layers Mash 50kg",
		opening: 120,
		days: []dayMovements{
			{newStock: 40, issued: 25},
			{newStock: 0, issued: 30, returns: 2},
			{newStock: 60, issued: 45, damaged: 1},
			{newStock: 0, issued: 20, rebag: 3},
			{newStock: 50, issued: 35},
		},
	},
	{
		name:    "Broiler Starter 25kg",
		opening: 80,
		days: []dayMovements{
			{newStock: 30, issued: 20},
			{newStock: 20, issued: 25, damaged: 2},
			{newStock: 0, issued: 18},
			{newStock: 40, issued: 30, returns: 1},
			{newStock: 0, issued: 22, rebag: 1},
		},
	},
	{
		name:    "Grower Pellets 50kg",
		opening: 45,
		days: []dayMovements{
			{newStock: 0, issued: 15},
			{newStock: 25, issued: 20},
			{newStock: 0, issued: 18, damaged: 1},
			{newStock: 0, issued: 16},
			{newStock: 0, issued: 0},
		},
	},
	{
		name:    "Finisher Crumbs 25kg",
		opening: 10,
		days: []dayMovements{
			{newStock: 0, issued: 6},
			{newStock: 0, issued: 4},
			{newStock: 0, issued: 0},
			{newStock: 0, issued: 0},
			{newStock: 0, issued: 0},
		},
	},
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	recordRepo := inventory_repo.NewRecordRepo(txManager)
	service := inventory.NewService(recordRepo, txManager, nil)

	if err := seedRecords(ctx, service, log); err != nil {
		log.Fatalw("failed to seed records", "error", err)
	}

	log.Info("seeding completed successfully")
}

// seedRecords writes each product's daily entries oldest first so opening
// stock carries over from the previous day's closing stock.
func seedRecords(ctx context.Context, service *inventory.Service, log *logger.Logger) error {
	today := inventory.NormalizeDate(time.Now().UTC())

	for _, p := range demoProducts {
		start := today.AddDate(0, 0, -(len(p.days) - 1))

		for i, day := range p.days {
			in := inventory.SaveInput{
				ItemName:         p.name,
				Date:             start.AddDate(0, 0, i),
				NewStock:         day.newStock,
				IssuedProduction: day.issued,
				Returns:          day.returns,
				Rebagging:        day.rebag,
				Damaged:          day.damaged,
			}
			// First day anchors the opening stock; later days carry over.
			if i == 0 {
				opening := p.opening
				in.OpeningStock = &opening
			}

			rec, created, err := service.SaveDailyEntry(ctx, in)
			if err != nil {
				return fmt.Errorf("seed %s %s: %w", p.name, in.Date.Format(inventory.DateLayout), err)
			}
			log.Infow("seeded record",
				"item_name", rec.ItemName,
				"date", rec.DateString(),
				"created", created,
				"closing_stock", rec.ClosingStock,
			)
		}
	}

	return nil
}
