package postgres

import (
	"context"

	"github.com/lberthe/cartomark/internal/core/domain"
)

// IterationRepo implements ports.IterationRepository with pgx.
type IterationRepo struct {
	db *DB
}

// NewIterationRepo creates a new IterationRepo.
func NewIterationRepo(db *DB) *IterationRepo {
	return &IterationRepo{db: db}
}

const iterationColumns = `id, place_id, COALESCE(map_ids, '{}'), COALESCE(creator_id::text, ''),
	       custom_name, custom_description, COALESCE(custom_tag_ids, '{}'),
	       ST_Y(location::geometry) as lat,
	       ST_X(location::geometry) as lon,
	       created_at`

// Create inserts an iteration and fills in its generated id.
func (r *IterationRepo) Create(ctx context.Context, it *domain.Iteration) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO place_iterations (place_id, map_ids, creator_id, custom_name, custom_description, custom_tag_ids, location)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, ST_SetSRID(ST_MakePoint($7, $8), 4326)::geography)
		RETURNING id, created_at
	`, it.PlaceID, it.MapIDs, it.CreatorID, it.CustomName, it.CustomDescription,
		it.CustomTagIDs, it.GPS.Lon, it.GPS.Lat).
		Scan(&it.ID, &it.CreatedAt)
}

// Update rewrites an existing iteration.
func (r *IterationRepo) Update(ctx context.Context, it *domain.Iteration) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE place_iterations
		SET map_ids = $2, custom_name = $3, custom_description = $4, custom_tag_ids = $5,
		    location = ST_SetSRID(ST_MakePoint($6, $7), 4326)::geography
		WHERE id = $1
	`, it.ID, it.MapIDs, it.CustomName, it.CustomDescription, it.CustomTagIDs,
		it.GPS.Lon, it.GPS.Lat)
	return err
}

// GetByIDs returns iterations by id, oldest first so overlay resolution is
// deterministic.
func (r *IterationRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Iteration, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+iterationColumns+`
		FROM place_iterations WHERE id = ANY($1)
		ORDER BY created_at
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIterations(rows)
}

// ListByPlace returns every iteration overriding one place.
func (r *IterationRepo) ListByPlace(ctx context.Context, placeID string) ([]domain.Iteration, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+iterationColumns+`
		FROM place_iterations WHERE place_id = $1
		ORDER BY created_at
	`, placeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIterations(rows)
}

// ListByCreator returns a user's iterations.
func (r *IterationRepo) ListByCreator(ctx context.Context, creatorID string) ([]domain.Iteration, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+iterationColumns+`
		FROM place_iterations WHERE creator_id = NULLIF($1, '')::uuid
		ORDER BY created_at
	`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIterations(rows)
}

// Delete removes one iteration.
func (r *IterationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM place_iterations WHERE id = $1`, id)
	return err
}

// DeleteMany removes a batch of iterations.
func (r *IterationRepo) DeleteMany(ctx context.Context, ids []string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM place_iterations WHERE id = ANY($1)`, ids)
	return err
}

func scanIterations(rows rowScanner) ([]domain.Iteration, error) {
	var its []domain.Iteration
	for rows.Next() {
		var it domain.Iteration
		if err := rows.Scan(
			&it.ID, &it.PlaceID, &it.MapIDs, &it.CreatorID,
			&it.CustomName, &it.CustomDescription, &it.CustomTagIDs,
			&it.GPS.Lat, &it.GPS.Lon,
			&it.CreatedAt,
		); err != nil {
			return nil, err
		}
		its = append(its, it)
	}
	return its, rows.Err()
}
