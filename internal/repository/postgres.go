package repository

import (
	"context"
	"errors"
	"fmt"

	"traverse-api/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements traverse storage on PostgreSQL
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const schema = `
	CREATE TABLE IF NOT EXISTS traverses (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		coordinate_derived BOOLEAN NOT NULL,
		close_loop BOOLEAN NOT NULL,
		start_easting DOUBLE PRECISION NOT NULL,
		start_northing DOUBLE PRECISION NOT NULL,
		misclosure_north DOUBLE PRECISION NOT NULL,
		misclosure_east DOUBLE PRECISION NOT NULL,
		distributed_north DOUBLE PRECISION NOT NULL,
		distributed_east DOUBLE PRECISION NOT NULL,
		closing_north DOUBLE PRECISION,
		closing_east DOUBLE PRECISION,
		total_distance DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS traverse_legs (
		traverse_id UUID NOT NULL REFERENCES traverses(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		code TEXT NOT NULL,
		feature_group TEXT NOT NULL,
		distance DOUBLE PRECISION NOT NULL,
		bearing DOUBLE PRECISION NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		departure DOUBLE PRECISION NOT NULL,
		correction_lat DOUBLE PRECISION NOT NULL,
		correction_dep DOUBLE PRECISION NOT NULL,
		adjusted_lat DOUBLE PRECISION NOT NULL,
		adjusted_dep DOUBLE PRECISION NOT NULL,
		prev_northing DOUBLE PRECISION NOT NULL,
		prev_easting DOUBLE PRECISION NOT NULL,
		final_northing DOUBLE PRECISION NOT NULL,
		final_easting DOUBLE PRECISION NOT NULL,
		closing BOOLEAN NOT NULL,
		PRIMARY KEY (traverse_id, seq)
	);
	CREATE INDEX IF NOT EXISTS traverses_created_at_idx ON traverses (created_at DESC);
`

var legColumns = []string{
	"traverse_id", "seq", "code", "feature_group",
	"distance", "bearing", "latitude", "departure",
	"correction_lat", "correction_dep", "adjusted_lat", "adjusted_dep",
	"prev_northing", "prev_easting", "final_northing", "final_easting",
	"closing",
}

// Migrate creates the tables if they do not exist
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// SaveTraverse stores a traverse and its legs in one transaction
func (r *Repository) SaveTraverse(ctx context.Context, t *models.Traverse) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var closingN, closingE *float64
	if t.ClosingVector != nil {
		closingN, closingE = &t.ClosingVector.North, &t.ClosingVector.East
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO traverses (
			id, name, coordinate_derived, close_loop,
			start_easting, start_northing,
			misclosure_north, misclosure_east,
			distributed_north, distributed_east,
			closing_north, closing_east,
			total_distance, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		t.ID, t.Name, t.CoordinateDerived, t.CloseLoop,
		t.Start.Easting, t.Start.Northing,
		t.Misclosure.North, t.Misclosure.East,
		t.Distributed.North, t.Distributed.East,
		closingN, closingE,
		t.TotalDistance, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert traverse: %w", err)
	}

	// Use CopyFrom for bulk insert
	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"traverse_legs"},
		legColumns,
		pgx.CopyFromSlice(len(t.Legs), func(i int) ([]interface{}, error) {
			l := t.Legs[i]
			return []interface{}{
				t.ID, int32(i), l.Code, l.Group,
				l.Distance, l.Bearing, l.Latitude, l.Departure,
				l.CorrectionLat, l.CorrectionDep, l.AdjustedLat, l.AdjustedDep,
				l.PrevNorthing, l.PrevEasting, l.FinalNorthing, l.FinalEasting,
				l.Closing,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("repository: failed to copy legs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit traverse: %w", err)
	}
	return nil
}

// FindTraverse loads a traverse with its legs. It returns nil, nil when no traverse has the id.
func (r *Repository) FindTraverse(ctx context.Context, id uuid.UUID) (*models.Traverse, error) {
	t := models.Traverse{ID: id}
	var closingN, closingE *float64

	err := r.db.QueryRow(ctx, `
		SELECT
			name, coordinate_derived, close_loop,
			start_easting, start_northing,
			misclosure_north, misclosure_east,
			distributed_north, distributed_east,
			closing_north, closing_east,
			total_distance, created_at
		FROM traverses
		WHERE id = $1
	`, id).Scan(
		&t.Name, &t.CoordinateDerived, &t.CloseLoop,
		&t.Start.Easting, &t.Start.Northing,
		&t.Misclosure.North, &t.Misclosure.East,
		&t.Distributed.North, &t.Distributed.East,
		&closingN, &closingE,
		&t.TotalDistance, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to query traverse: %w", err)
	}
	if closingN != nil && closingE != nil {
		t.ClosingVector = &models.Vector{North: *closingN, East: *closingE}
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			code, feature_group,
			distance, bearing, latitude, departure,
			correction_lat, correction_dep, adjusted_lat, adjusted_dep,
			prev_northing, prev_easting, final_northing, final_easting,
			closing
		FROM traverse_legs
		WHERE traverse_id = $1
		ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query legs: %w", err)
	}
	defer rows.Close()

	t.Legs = []models.Leg{}
	for rows.Next() {
		var l models.Leg
		err := rows.Scan(
			&l.Code, &l.Group,
			&l.Distance, &l.Bearing, &l.Latitude, &l.Departure,
			&l.CorrectionLat, &l.CorrectionDep, &l.AdjustedLat, &l.AdjustedDep,
			&l.PrevNorthing, &l.PrevEasting, &l.FinalNorthing, &l.FinalEasting,
			&l.Closing,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan leg: %w", err)
		}
		t.Legs = append(t.Legs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating legs: %w", err)
	}

	return &t, nil
}

// ListTraverses returns the most recent traverses, newest first
func (r *Repository) ListTraverses(ctx context.Context, limit int) ([]models.TraverseSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			t.id,
			t.name,
			(SELECT COUNT(*) FROM traverse_legs l WHERE l.traverse_id = t.id),
			t.total_distance,
			sqrt(t.misclosure_north ^ 2 + t.misclosure_east ^ 2),
			t.created_at
		FROM traverses t
		ORDER BY t.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute list query: %w", err)
	}
	defer rows.Close()

	summaries := []models.TraverseSummary{}
	for rows.Next() {
		var s models.TraverseSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.LegCount, &s.TotalDistance, &s.LinearMisclosure, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return summaries, nil
}
