package postgres_wrapper

import (
	"log"
	"os"
	"time"

	"github.com/cenkalti/backoff"
	_ "github.com/lib/pq" // nolint
	"go.uber.org/zap"
	pg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// PostgresConfig describes the order store: one writer, optional read
// replicas for the query side, and a separate URL for schema migration.
type PostgresConfig struct {
	DataSource                 string          `yaml:"data_source"`
	SlaveSources               []string        `yaml:"slave_sources"`
	MigrationConnURL           string          `yaml:"migration_conn_url"`
	MaxOpenConns               int             `yaml:"max_open_conns"`
	MaxIdleConns               int             `yaml:"max_idle_conns"`
	ConnMaxLifeTimeMiliseconds int64           `yaml:"conn_max_life_time_ms"`
	LogLevel                   logger.LogLevel `yaml:"log_level"`
	Location                   string          `yaml:"location"`
}

// InitPostgres opens the writer, registers replicas, and applies pool
// limits. Timestamps gorm writes use the configured exchange location so
// transact times line up with the session clock.
func InitPostgres(cfg *PostgresConfig) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      cfg.LogLevel,
			Colorful:      true,
		},
	)

	loc, err := time.LoadLocation(cfg.Location)
	if err != nil {
		loc = time.Local
	}

	db, err := gorm.Open(pg.Open(cfg.DataSource), &gorm.Config{
		Logger:  gormLogger,
		NowFunc: func() time.Time { return time.Now().In(loc) },
	})
	if err != nil {
		zap.S().Errorw("open postgres", "err", err)
		return nil, err
	}

	if err := registerReplicas(db, cfg.SlaveSources); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		zap.S().Errorw("get sql.DB instance", "err", err)
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifeTimeMiliseconds) * time.Millisecond)

	return db, nil
}

// registerReplicas routes reads to the slave sources. Order queries from
// the report side never touch the writer this way.
func registerReplicas(db *gorm.DB, sources []string) error {
	if len(sources) == 0 {
		return nil
	}

	repl := make([]gorm.Dialector, 0, len(sources))
	for _, s := range sources {
		repl = append(repl, pg.Open(s))
	}

	err := db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: repl,
		Policy:   dbresolver.RandomPolicy{},
	}))
	if err != nil {
		zap.S().Errorw("register postgres replicas", "err", err)
	}
	return err
}

// InitPostgresWithBackoff retries the connection until postgres is up.
// The persistence worker starts alongside the database in compose setups,
// so first attempts routinely lose the race.
func InitPostgresWithBackoff(cfg *PostgresConfig) *gorm.DB {
	var db *gorm.DB
	boff := backoff.NewExponentialBackOff()
	err := backoff.Retry(func() error {
		var err error
		db, err = InitPostgres(cfg)
		if err != nil {
			zap.S().Warnw("connect postgres, retrying", "err", err)
		}
		return err
	}, boff)
	if err != nil {
		panic(err)
	}

	return db
}
