package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"wayfinder.app/internal/appconf"
	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/logging"
	"wayfinder.app/internal/models"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed schema.sql
var ddl string

const memoryDSN = ":memory:"

var ErrFileDBInTest = errors.New("test environment requires an in-memory database")

type Config struct {
	DBPath string
	Env    appconf.Environment
}

// Store persists user reported hazards so they survive restarts and are
// loaded into every new navigation session.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func Open(ctx context.Context, config Config, logger *slog.Logger) (*Store, error) {
	if config.DBPath == "" {
		config.DBPath = memoryDSN
	}
	if config.Env == appconf.Test && config.DBPath != memoryDSN {
		return nil, fmt.Errorf("%w: %s", ErrFileDBInTest, config.DBPath)
	}

	db, err := sql.Open("sqlite", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if config.DBPath == memoryDSN {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, logger: logging.Component(logger, "store")}
	if err := s.migrate(ctx); err != nil {
		logging.SafeCloseWithLogging(db, s.logger, "sqlite database")
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(ddl, "-- migrate") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", stmt, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveHazards upserts hazards in one transaction.
func (s *Store) SaveHazards(ctx context.Context, hazards ...models.RoadCondition) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			logging.SafeRollbackWithLogging(tx, s.logger, "save hazards")
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reported_hazards (id, type, lat, lng, name, description, severity, verified, reported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			lat = excluded.lat,
			lng = excluded.lng,
			name = excluded.name,
			description = excluded.description,
			severity = excluded.severity,
			verified = excluded.verified,
			reported_at = excluded.reported_at`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer logging.SafeCloseWithLogging(stmt, s.logger, "insert statement")

	for _, h := range hazards {
		if _, err = stmt.ExecContext(ctx,
			h.ID, string(h.Type), h.Location.Lat, h.Location.Lng,
			h.Name, h.Description, string(h.Severity), h.Verified,
			h.ReportedAt.UnixMilli(),
		); err != nil {
			return fmt.Errorf("insert hazard %s: %w", h.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadHazards returns every stored hazard, oldest first.
func (s *Store) LoadHazards(ctx context.Context) ([]models.RoadCondition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, lat, lng, name, description, severity, verified, reported_at
		FROM reported_hazards
		ORDER BY reported_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query hazards: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, s.logger, "hazard rows")

	var hazards []models.RoadCondition
	for rows.Next() {
		var (
			h                  models.RoadCondition
			hazardType, sev    string
			lat, lng           float64
			reportedAtUnixMsec int64
		)
		if err := rows.Scan(&h.ID, &hazardType, &lat, &lng, &h.Name, &h.Description, &sev, &h.Verified, &reportedAtUnixMsec); err != nil {
			return nil, fmt.Errorf("scan hazard: %w", err)
		}
		h.Type = models.HazardType(hazardType)
		h.Severity = models.Severity(sev)
		h.Location = geo.Point{Lat: lat, Lng: lng}
		h.ReportedAt = time.UnixMilli(reportedAtUnixMsec).UTC()
		hazards = append(hazards, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hazards: %w", err)
	}
	return hazards, nil
}
