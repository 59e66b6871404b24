package repository

import (
	"fmt"

	"github.com/FedyaB/restapi-server-spbstu/internal/config"
	"github.com/FedyaB/restapi-server-spbstu/internal/infra"
)

// Open builds the employee repository for the configured storage driver.
// The returned func releases the backend.
func Open(cfg *config.Config) (EmployeeRepository, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverFile:
		store, err := infra.OpenDocStore(cfg.DatabasePath, EmployeesTable)
		if err != nil {
			return nil, nil, err
		}
		return NewEmployeeFileRepository(store), store.Close, nil

	case config.DriverPostgres:
		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return NewEmployeeGormRepository(db), sqlDB.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
