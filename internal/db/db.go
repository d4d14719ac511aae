package db

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brightride/brightride-api/internal/models"
)

// poolPlugin keeps the pgx pool behind a postgres handle so Close can
// release it.
type poolPlugin struct {
	pool *pgxpool.Pool
}

func (*poolPlugin) Name() string { return "pgxpool" }

func (*poolPlugin) Initialize(*gorm.DB) error { return nil }

func newPool(dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = 20
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return pool, nil
}

// newLogger reports slow queries and errors. A missing row is an expected
// outcome of lookups, not an error.
func newLogger(w io.Writer) logger.Interface {
	return logger.New(stdlog.New(w, "\r\n", stdlog.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Connect opens the single storage handle shared by every service.
// Postgres goes through a pgx pool; sqlite is for local runs and tests.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var (
		dialector gorm.Dialector
		pool      *pgxpool.Pool
	)
	switch driver {
	case "postgres":
		var err error
		if pool, err = newPool(dsn); err != nil {
			return nil, err
		}
		dialector = postgres.New(postgres.Config{Conn: stdlib.OpenDBFromPool(pool)})
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger(os.Stdout),
		TranslateError: true,
	})
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if pool != nil {
		if err := gdb.Use(&poolPlugin{pool: pool}); err != nil {
			pool.Close()
			return nil, err
		}
		return gdb, nil
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer at a time
	sqlDB.SetMaxOpenConns(1)
	if err := gdb.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
		return nil, fmt.Errorf("sqlite busy_timeout: %w", err)
	}
	return gdb, nil
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.DriverProfile{},
		&models.MechanicProfile{},
		&models.Ride{},
		&models.ServiceRequest{},
	)
}

func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	err = sqlDB.Close()
	if p, ok := gdb.Config.Plugins["pgxpool"].(*poolPlugin); ok {
		p.pool.Close()
	}
	return err
}

// Contains builds a case-sensitive substring condition on column, which
// LIKE does not give on sqlite.
func Contains(gdb *gorm.DB, column string) string {
	if gdb.Dialector.Name() == "postgres" {
		return "strpos(" + column + ", ?) > 0"
	}
	return "instr(" + column + ", ?) > 0"
}
