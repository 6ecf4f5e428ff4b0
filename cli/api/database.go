package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/oaiiae/contacts-api/datastores"
)

type DatabaseOptions struct {
	DatabaseDriver        string        `doc:"store contacts in sqlite, postgres or inmem"       default:"sqlite"`
	DatabaseDSN           string        `doc:"database connection string"                         default:"file:contacts.db?_foreign_keys=on"`
	DatabaseMaxOpenConns  int           `doc:"maximum number of open database connections"        default:"10"`
	DatabaseAutoMigrate   bool          `doc:"create or update the tables on start"               default:"true"`
	DatabaseSlowThreshold time.Duration `doc:"log database queries slower than this"              default:"200ms"`
}

// Stores holds the datastores selected by [DatabaseOptions].
type Stores struct {
	Contacts  datastores.ContactsStore
	Addresses datastores.AddressesStore

	ping  func(context.Context) error
	close func() error
}

// Ping reports whether the database can serve queries.
func (s *Stores) Ping(ctx context.Context) error { return s.ping(ctx) }

// Close releases the database connections.
func (s *Stores) Close() error { return s.close() }

// OpenStores connects to the database, migrates it when asked to and
// registers connection pool gauges in set.
func OpenStores(ctx context.Context, options *DatabaseOptions, logger *slog.Logger, set *metrics.Set) (*Stores, error) {
	if strings.EqualFold(options.DatabaseDriver, "inmem") {
		contacts, addresses := datastores.NewInmem()
		return &Stores{
			Contacts:  contacts,
			Addresses: addresses,
			ping:      func(context.Context) error { return nil },
			close:     func() error { return nil },
		}, nil
	}

	dialector, err := openDialector(options)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormLogger.New(
			slog.NewLogLogger(logger.With("component", "gorm").Handler(), slog.LevelWarn),
			gormLogger.Config{
				SlowThreshold:             options.DatabaseSlowThreshold,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database pool: %w", err)
	}
	if options.DatabaseMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(options.DatabaseMaxOpenConns)
		sqlDB.SetMaxIdleConns(options.DatabaseMaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute) //nolint: mnd // arbitrary
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)  //nolint: mnd // arbitrary

	if err = sqlDB.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("ping database: %w", err), sqlDB.Close())
	}

	if options.DatabaseAutoMigrate {
		if err = datastores.Migrate(ctx, db); err != nil {
			return nil, errors.Join(err, sqlDB.Close())
		}
	}

	meterPool(set, sqlDB)
	logger.Info("database opened", "driver", dialector.Name(), "auto-migrate", options.DatabaseAutoMigrate)

	return &Stores{
		Contacts:  datastores.NewContactsGorm(db),
		Addresses: datastores.NewAddressesGorm(db),
		ping:      sqlDB.PingContext,
		close:     sqlDB.Close,
	}, nil
}

func openDialector(options *DatabaseOptions) (gorm.Dialector, error) {
	if options.DatabaseDSN == "" {
		return nil, errors.New("database dsn is required")
	}

	switch strings.ToLower(options.DatabaseDriver) {
	case "postgres":
		config, err := pgx.ParseConfig(options.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		if _, ok := config.RuntimeParams["application_name"]; !ok {
			config.RuntimeParams["application_name"] = "contacts-api"
		}
		return postgres.New(postgres.Config{Conn: stdlib.OpenDB(*config)}), nil
	case "sqlite":
		return sqlite.Open(options.DatabaseDSN), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", options.DatabaseDriver)
	}
}

func meterPool(set *metrics.Set, db *sql.DB) {
	gauge := func(name string, value func(sql.DBStats) int64) {
		set.NewGauge(name, func() float64 { return float64(value(db.Stats())) })
	}
	gauge(`db_connections{state="open"}`, func(s sql.DBStats) int64 { return int64(s.OpenConnections) })
	gauge(`db_connections{state="in_use"}`, func(s sql.DBStats) int64 { return int64(s.InUse) })
	gauge(`db_connections{state="idle"}`, func(s sql.DBStats) int64 { return int64(s.Idle) })
	gauge(`db_connections_max`, func(s sql.DBStats) int64 { return int64(s.MaxOpenConnections) })
	gauge(`db_connections_wait_total`, func(s sql.DBStats) int64 { return s.WaitCount })
}
