package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

type Options struct {
	// Verbose logs every statement. Otherwise only slow queries and errors.
	Verbose bool
}

func getLogger(verbose bool) logger.Interface {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)
}

func configureConnectionPool(db *gorm.DB, driver string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if driver == DriverSqlite {
		// One writer; an in-memory database also lives on a single connection.
		sqlDB.SetMaxOpenConns(1)
		return nil
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}

// Open connects to the import audit database. driver is "postgres" (dsn in
// key=value or URL form) or "sqlite" (a file path or ":memory:").
func Open(driver, dsn string, opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		if dsn == "" {
			return nil, fmt.Errorf("database connection string is empty")
		}
		dialector = postgres.Open(dsn)
		driver = DriverPostgres
	case DriverSqlite:
		if dsn == "" {
			dsn = ":memory:"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: getLogger(opts.Verbose),
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db, driver); err != nil {
		return nil, err
	}

	return db, nil
}
