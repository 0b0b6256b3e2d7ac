// Seeds a workspace catalog from a YAML fixture file. Services are created
// first so bundles can reference them by name.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"showdesk_backend/internal/catalog/repository"
	"showdesk_backend/platform/config"
	"showdesk_backend/platform/db"
	"showdesk_backend/platform/logger"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type fixtureService struct {
	Name      string `yaml:"name"`
	Category  string `yaml:"category"`
	StaffRole string `yaml:"staffRole"`
}

type fixtureBundle struct {
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

type fixtureFile struct {
	Services []fixtureService `yaml:"services"`
	Bundles  []fixtureBundle  `yaml:"bundles"`
}

func main() {
	var (
		filePath    = flag.String("file", "fixtures/catalog.yaml", "path to the catalog fixture file")
		workspaceID = flag.String("workspace", "", "workspace id to seed into")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting catalog seed", "file", *filePath)

	wsID, err := uuid.Parse(*workspaceID)
	if err != nil {
		log.Error("invalid workspace id", "value", *workspaceID)
		panic("a valid -workspace uuid is required")
	}

	fixture, err := loadFixture(*filePath)
	if err != nil {
		log.Error("failed to load fixture", "error", err)
		panic("failed to load fixture: " + err.Error())
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := repository.New(pool)

	created := make(map[string]uuid.UUID, len(fixture.Services))
	for _, svc := range fixture.Services {
		pkg, err := createService(ctx, repo, wsID, svc)
		if err != nil {
			log.Error("failed to create service", "name", svc.Name, "error", err)
			panic("failed to create service: " + err.Error())
		}
		created[svc.Name] = pkg.ID
		log.Info("service created", "name", svc.Name, "id", pkg.ID)
	}

	for _, bundle := range fixture.Bundles {
		pkg, err := createBundle(ctx, repo, wsID, bundle, created)
		if err != nil {
			log.Error("failed to create bundle", "name", bundle.Name, "error", err)
			panic("failed to create bundle: " + err.Error())
		}
		log.Info("bundle created", "name", bundle.Name, "id", pkg.ID, "items", len(bundle.Items))
	}

	log.Info("catalog seed complete", "services", len(fixture.Services), "bundles", len(fixture.Bundles))
}

func loadFixture(path string) (fixtureFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fixtureFile{}, err
	}

	var fixture fixtureFile
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return fixtureFile{}, fmt.Errorf("parse fixture: %w", err)
	}
	return fixture, nil
}

func createService(ctx context.Context, repo repository.Repository, workspaceID uuid.UUID, svc fixtureService) (repository.Package, error) {
	category := svc.Category
	if category == "" {
		category = repository.CategoryService
	}

	definition := repository.Definition{}
	if svc.StaffRole != "" {
		definition.IngredientMeta = &repository.IngredientMeta{StaffRole: svc.StaffRole}
	}
	raw, err := json.Marshal(definition)
	if err != nil {
		return repository.Package{}, err
	}

	return repo.CreatePackage(ctx, repository.CreatePackageParams{
		WorkspaceID: workspaceID,
		Name:        svc.Name,
		Category:    category,
		Definition:  raw,
	})
}

func createBundle(ctx context.Context, repo repository.Repository, workspaceID uuid.UUID, bundle fixtureBundle, created map[string]uuid.UUID) (repository.Package, error) {
	blocks := make([]repository.Block, 0, len(bundle.Items))
	for _, item := range bundle.Items {
		id, ok := created[item]
		if !ok {
			return repository.Package{}, fmt.Errorf("bundle %q references unknown service %q", bundle.Name, item)
		}
		catalogID := id
		blocks = append(blocks, repository.Block{Type: repository.BlockTypeLineItem, CatalogID: &catalogID})
	}

	raw, err := json.Marshal(repository.Definition{Blocks: blocks})
	if err != nil {
		return repository.Package{}, err
	}

	return repo.CreatePackage(ctx, repository.CreatePackageParams{
		WorkspaceID: workspaceID,
		Name:        bundle.Name,
		Category:    repository.CategoryPackage,
		Definition:  raw,
	})
}
