package postgres

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxipark/config"
	"taxipark/pkg/logger"
	"taxipark/storage"
)

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
	log  logger.ILogger
}

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	url := cfg.PostgresURL()

	// 🔹 Connection pool
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Error("error while parsing Postgres config", logger.Error(err))
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("failed to connect Postgres", logger.Error(err))
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error("failed to ping Postgres", logger.Error(err))
		return nil, err
	}

	if err := Migrate(cfg, log, true); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("Postgres connected")

	return &Store{
		pool: pool,
		log:  log,
	}, nil
}

// Migrate applies (up) or rolls back (down) every migration found under the
// migrations directory.
func Migrate(cfg config.Config, log logger.ILogger, up bool) error {
	m, err := migrate.New("file://"+migrationsPath(cfg), cfg.PostgresURL())
	if err != nil {
		log.Error("migration init error or no migrations found", logger.Error(err))
		return err
	}
	defer m.Close()

	if up {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("no migrations to apply")
		return nil
	}
	if err != nil {
		log.Error("migration error", logger.Bool("up", up), logger.Error(err))
		return err
	}
	return nil
}

func migrationsPath(cfg config.Config) string {
	if cfg.MigrationsPath != "" {
		return cfg.MigrationsPath
	}

	cwd, _ := os.Getwd()
	mPath := filepath.Join(cwd, "migrations")

	// Check if migrations/postgres exists, if so use it, else use migrations
	if _, err := os.Stat(filepath.Join(cwd, "migrations", "postgres")); err == nil {
		mPath = filepath.Join(cwd, "migrations", "postgres")
	}
	return mPath
}

func (s *Store) Close() {
	s.pool.Close()
}

// Truncate empties every table; system data is re-created by the caller.
func (s *Store) Truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "TRUNCATE TABLE sessions, car_drivers, cars, drivers, manufacturers RESTART IDENTITY CASCADE")
	if err != nil {
		s.log.Error("failed to truncate tables", logger.Error(err))
	}
	return err
}

func (s *Store) Manufacturer() storage.IManufacturerStorage {
	return NewManufacturerRepo(s.pool, s.log)
}
func (s *Store) Driver() storage.IDriverStorage   { return NewDriverRepo(s.pool, s.log) }
func (s *Store) Car() storage.ICarStorage         { return NewCarRepo(s.pool, s.log) }
func (s *Store) Session() storage.ISessionStorage { return NewSessionRepo(s.pool, s.log) }

// mapError converts unique violations into storage.ErrAlreadyExists.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return storage.ErrAlreadyExists
	}
	return err
}

// likePattern turns a search term into a substring ILIKE pattern.
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(search) + "%"
}
