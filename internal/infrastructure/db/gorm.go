package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tycoon-banking-engine/internal/domain/applicant"
	"tycoon-banking-engine/internal/domain/bank"
	"tycoon-banking-engine/internal/domain/deposit"
	"tycoon-banking-engine/internal/domain/loan"
)

// OpenGormWithDialector opens a gorm DB on any dialector with the shared pool
// settings. Split out from Open so tests can inject a mocked connection.
func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Println("gorm: connected")
	return db, nil
}

// Open connects per the configured driver: "mysql" takes a DSN, "sqlite" a
// file path (or ":memory:").
func Open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "mysql":
		return OpenGormWithDialector(mysql.Open(dsn))
	case "sqlite":
		return OpenGormWithDialector(sqlite.Open(dsn))
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// Migrate creates or updates the engine's tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&applicant.LoanApplicant{},
		&loan.BankLoan{},
		&deposit.BankDeposit{},
		&bank.BankProfile{},
	)
}
