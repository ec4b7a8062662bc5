package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"classified-marketplace/internal/config"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/repository"
	pg "classified-marketplace/internal/infra/db/postgres"
	"classified-marketplace/internal/infra/logging"
	"classified-marketplace/internal/infra/security"
	"classified-marketplace/internal/usecase"
)

// seedAdmin is a synthetic identity used only by this tool; it never exists in
// the users table.
const seedAdmin = "seed"

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	planRepo := pg.NewPostgresPlanRepo(pool)
	categoryRepo := pg.NewCategoryRepo(pool)
	authz := security.NewConfigAuthorizer([]string{seedAdmin}, nil)
	planUC := usecase.NewPlanUseCase(planRepo, authz, logger)

	// If plans already exist, leave them alone
	plans, err := planUC.List(ctx)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (months=%d, ad_quota=%d, price=%d LKR)\n", p.Name, p.DurationMonths, p.AdQuota, p.PriceLKR)
		}
	} else {
		seed := []struct {
			Name   string
			Months int
			Quota  int
			Price  int64
		}{
			{"Silver", 1, 20, 1_500},
			{"Gold", 6, 100, 7_500},
			{"Platinum", 12, 500, 12_000},
		}
		for _, s := range seed {
			p, err := planUC.Create(ctx, seedAdmin, s.Name, s.Months, s.Quota, s.Price)
			if err != nil {
				log.Fatalf("create plan %q: %v", s.Name, err)
			}
			fmt.Printf("seeded: %s (id=%s, months=%d, ad_quota=%d, price=%d LKR)\n", p.Name, p.ID, p.DurationMonths, p.AdQuota, p.PriceLKR)
		}
	}

	existing, err := categoryRepo.ListAll(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list categories: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d categories already present. No changes.\n", len(existing))
		return
	}

	categories := []model.Category{
		{Name: "Vehicles", SubCategories: []string{"Cars", "Motorbikes", "Three Wheelers", "Spare Parts"}},
		{Name: "Property", SubCategories: []string{"Houses", "Land", "Apartments", "Rentals"}},
		{Name: "Electronics", SubCategories: []string{"Phones", "Computers", "TVs", "Appliances"}},
		{Name: "Home & Garden", SubCategories: []string{"Furniture", "Tools", "Plants"}},
		{Name: "Jobs", SubCategories: []string{"Full Time", "Part Time"}},
	}
	for _, c := range categories {
		c.ID = uuid.NewString()
		if err := categoryRepo.Save(ctx, repository.NoTX, &c); err != nil {
			log.Fatalf("create category %q: %v", c.Name, err)
		}
		fmt.Printf("seeded category: %s (%d sub-categories)\n", c.Name, len(c.SubCategories))
	}

	fmt.Println("Seeding complete.")
}
