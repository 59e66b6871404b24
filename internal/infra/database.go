package infra

import (
	"fmt"

	"github.com/FedyaB/restapi-server-spbstu/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// EmployeeIDSequence hands out employee ids for the postgres driver.
const EmployeeIDSequence = "employees_id_seq"

// NewDatabase establishes a GORM connection backed by pgx and brings the
// employees schema up to date.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

// RunMigrations creates the employees table and its id sequence. It is
// idempotent and is also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Employee{}); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	patches := []string{
		`CREATE SEQUENCE IF NOT EXISTS ` + EmployeeIDSequence + ` OWNED BY employees.id`,
		// keep the sequence ahead of rows imported by other means; it never
		// moves back, so ids of deleted employees are not handed out again
		`SELECT setval('` + EmployeeIDSequence + `', m) FROM (SELECT MAX(id) AS m FROM employees) t
		   WHERE m >= (SELECT last_value FROM ` + EmployeeIDSequence + `)`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
