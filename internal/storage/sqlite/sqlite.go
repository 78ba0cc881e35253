// Package sqlite stores analysis runs in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/transitsearch/internal/bls"
	"github.com/chrissnell/transitsearch/internal/log"
	"github.com/chrissnell/transitsearch/internal/storage"
	"github.com/chrissnell/transitsearch/pkg/migrate"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store implements storage.RunStore on SQLite
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

var _ storage.RunStore = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies any
// pending migrations
func Open(path string, logger *zap.SugaredLogger) (*Store, error) {
	logger = log.OrNop(logger)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database %s: %w", path, err)
	}
	// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database %s: %w", path, err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	provider := migrate.NewFSProvider(migrationFS, "migrations", "")
	if err := migrate.NewMigrator(db, provider, logger).MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", path, err)
	}

	logger.Debugw("opened result store", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// SaveRun inserts run, assigning its ID when empty, together with its
// periodogram
func (s *Store) SaveRun(ctx context.Context, run *storage.Run, periodogram []bls.PeriodPower) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var epochUTC any
	if run.EpochUTC != nil {
		epochUTC = run.EpochUTC.UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, target, created_at, status, error, failed_stage, segments, points,
			period, epoch_btjd, epoch_utc, power, transit_depth, secondary_depth,
			radius_rj, radius_rsun, impact_parameter, dayside_temperature_k
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Target, run.CreatedAt.UTC(), run.Status, run.Error, run.FailedStage,
		run.Segments, run.Points,
		nullable(run.Period), nullable(run.Epoch), epochUTC, nullable(run.Power),
		nullable(run.TransitDepth), nullable(run.SecondaryDepth),
		nullable(run.RadiusJupiter), nullable(run.RadiusSolar),
		nullable(run.ImpactParameter), nullable(run.DaysideTemperatureK))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if len(periodogram) > 0 {
		data, err := msgpack.Marshal(periodogram)
		if err != nil {
			return fmt.Errorf("failed to encode periodogram: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO periodograms (run_id, periods, data) VALUES (?, ?, ?)",
			run.ID, len(periodogram), data)
		if err != nil {
			return fmt.Errorf("failed to insert periodogram: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Infow("saved run", "id", run.ID, "target", run.Target, "status", run.Status, "periods", len(periodogram))
	return nil
}

const runColumns = `id, target, created_at, status, error, failed_stage, segments, points,
	period, epoch_btjd, epoch_utc, power, transit_depth, secondary_depth,
	radius_rj, radius_rsun, impact_parameter, dayside_temperature_k`

// GetRun returns the run with the given ID, or storage.ErrNotFound
func (s *Store) GetRun(ctx context.Context, id string) (*storage.Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A limit of 0 or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]storage.Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY created_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []storage.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetPeriodogram returns the stored periodogram of a run. A run saved
// without one yields an empty slice.
func (s *Store) GetPeriodogram(ctx context.Context, id string) ([]bls.PeriodPower, error) {
	if _, err := s.GetRun(ctx, id); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM periodograms WHERE run_id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return []bls.PeriodPower{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read periodogram %s: %w", id, err)
	}

	var periodogram []bls.PeriodPower
	if err := msgpack.Unmarshal(data, &periodogram); err != nil {
		return nil, fmt.Errorf("failed to decode periodogram %s: %w", id, err)
	}
	return periodogram, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*storage.Run, error) {
	var (
		run      storage.Run
		epochUTC sql.NullTime
		floats   [9]sql.NullFloat64
	)

	err := sc.Scan(&run.ID, &run.Target, &run.CreatedAt, &run.Status, &run.Error, &run.FailedStage,
		&run.Segments, &run.Points,
		&floats[0], &floats[1], &epochUTC, &floats[2], &floats[3], &floats[4],
		&floats[5], &floats[6], &floats[7], &floats[8])
	if err != nil {
		return nil, err
	}

	run.CreatedAt = run.CreatedAt.UTC()
	run.Period = fromNull(floats[0])
	run.Epoch = fromNull(floats[1])
	if epochUTC.Valid {
		t := epochUTC.Time.UTC()
		run.EpochUTC = &t
	}
	run.Power = fromNull(floats[2])
	run.TransitDepth = fromNull(floats[3])
	run.SecondaryDepth = fromNull(floats[4])
	run.RadiusJupiter = fromNull(floats[5])
	run.RadiusSolar = fromNull(floats[6])
	run.ImpactParameter = fromNull(floats[7])
	run.DaysideTemperatureK = fromNull(floats[8])
	return &run, nil
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
