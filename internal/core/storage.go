package core

import (
	"fmt"
	"os"

	"jobdeck/internal/infra/persistence/memory"
	"jobdeck/internal/infra/persistence/postgres"
	"jobdeck/internal/infra/persistence/sqlite"
	"jobdeck/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	JOBDECK_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	JOBDECK_SQLITE_PATH: path to sqlite file (default ./jobdeck.db)
//	JOBDECK_POSTGRES_DSN: postgres DSN when driver=postgres
//	JOBDECK_SEED_DEMO: non-empty seeds the demo dataset when no stored
//	document exists
func OpenPersistentStore(engine *domain.RulesEngine) (PersistentStore, error) {
	driver := os.Getenv("JOBDECK_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	seedDemo := os.Getenv("JOBDECK_SEED_DEMO") != ""
	switch StorageDriver(driver) {
	case StorageMemory:
		store := memory.NewStore(engine)
		if seedDemo {
			if err := store.ImportDocument(DemoDocument()); err != nil {
				return nil, err
			}
		}
		return store, nil
	case StorageSQLite:
		path := os.Getenv("JOBDECK_SQLITE_PATH")
		var opts []sqlite.Option
		if seedDemo {
			opts = append(opts, sqlite.WithSeed(DemoDocument))
		}
		return sqlite.NewStore(path, engine, opts...)
	case StoragePostgres:
		dsn := os.Getenv("JOBDECK_POSTGRES_DSN")
		var opts []postgres.Option
		if seedDemo {
			opts = append(opts, postgres.WithSeed(DemoDocument))
		}
		return postgres.NewStore(dsn, engine, opts...)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
