package tenant

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	_ "modernc.org/sqlite"
)

// MemoryDir makes SQLiteOpener keep every tenant in a named shared-cache
// in-memory database.
const MemoryDir = ":memory:"

func gormConfig(log *slog.Logger, naming schema.Namer) *gorm.Config {
	cfg := &gorm.Config{
		Logger: logger.New(slog.NewLogLogger(log.Handler(), slog.LevelWarn), logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
	if naming != nil {
		cfg.NamingStrategy = naming
	}
	return cfg
}

// SQLiteOpener keeps one sqlite file per tenant in Dir. It uses the
// pure Go modernc driver, so no cgo is needed.
type SQLiteOpener struct {
	Dir    string
	Logger *slog.Logger
}

func (o *SQLiteOpener) dsn(name string) string {
	if o.Dir == MemoryDir {
		return "file:" + name + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	}
	return "file:" + filepath.Join(o.Dir, name+".db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func (o *SQLiteOpener) Open(ctx context.Context, name string) (*gorm.DB, error) {
	if o.Dir != MemoryDir {
		if err := os.MkdirAll(o.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("create tenant dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: "sqlite",
		DSN:        o.dsn(name),
	}), gormConfig(o.logger(), nil))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func (o *SQLiteOpener) Release(_ string, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the tenant directory exists and is writable.
func (o *SQLiteOpener) Ping(_ context.Context) error {
	if o.Dir == MemoryDir {
		return nil
	}
	if err := os.MkdirAll(o.Dir, 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(o.Dir, ".ping-*")
	if err != nil {
		return err
	}
	_ = f.Close()
	return os.Remove(f.Name())
}

func (o *SQLiteOpener) Close() error { return nil }

func (o *SQLiteOpener) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// PostgresOpener maps each tenant to a schema of one shared postgres
// database. All tenants share a single connection pool; each gets its own
// gorm handle whose tables are prefixed with the schema name.
type PostgresOpener struct {
	DSN    string
	Logger *slog.Logger

	once   sync.Once
	pool   *sql.DB
	errCon error
}

func (o *PostgresOpener) connect() (*sql.DB, error) {
	o.once.Do(func() {
		db, err := gorm.Open(postgres.Open(o.DSN), gormConfig(o.logger(), nil))
		if err != nil {
			o.errCon = err
			return
		}
		o.pool, o.errCon = db.DB()
	})
	return o.pool, o.errCon
}

func (o *PostgresOpener) Open(ctx context.Context, name string) (*gorm.DB, error) {
	pool, err := o.connect()
	if err != nil {
		return nil, err
	}

	// name has already passed ValidName, so quoting is enough.
	if _, err := pool.ExecContext(ctx, `CREATE SCHEMA IF NOT EXISTS "`+strings.ReplaceAll(name, `"`, "")+`"`); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return gorm.Open(postgres.New(postgres.Config{Conn: pool}), gormConfig(o.logger(), schema.NamingStrategy{
		TablePrefix: name + ".",
	}))
}

// Release is a no-op; the pool is shared.
func (o *PostgresOpener) Release(string, *gorm.DB) error { return nil }

func (o *PostgresOpener) Ping(ctx context.Context) error {
	pool, err := o.connect()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

func (o *PostgresOpener) Close() error {
	if o.pool == nil {
		return nil
	}
	return o.pool.Close()
}

func (o *PostgresOpener) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}
