package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lberthe/cartomark/internal/core/domain"
)

// MapRepo implements ports.MapRepository with pgx.
type MapRepo struct {
	db *DB
}

// NewMapRepo creates a new MapRepo.
func NewMapRepo(db *DB) *MapRepo {
	return &MapRepo{db: db}
}

const mapColumns = `id, name, description, COALESCE(owner_id::text, ''),
	       COALESCE(participants, '[]'), COALESCE(place_iteration_ids, '{}'),
	       privacy_status, created_at`

// Create inserts a map and fills in its generated id.
func (r *MapRepo) Create(ctx context.Context, m *domain.Map) error {
	participants, err := json.Marshal(m.Participants)
	if err != nil {
		return fmt.Errorf("encode participants: %w", err)
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO maps (name, description, owner_id, participants, place_iteration_ids, privacy_status)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6)
		RETURNING id, created_at
	`, m.Name, m.Description, m.OwnerID, participants, m.PlaceIterationIDs, string(m.PrivacyStatus)).
		Scan(&m.ID, &m.CreatedAt)
}

// Update rewrites an existing map.
func (r *MapRepo) Update(ctx context.Context, m *domain.Map) error {
	participants, err := json.Marshal(m.Participants)
	if err != nil {
		return fmt.Errorf("encode participants: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
		UPDATE maps
		SET name = $2, description = $3, participants = $4,
		    place_iteration_ids = $5, privacy_status = $6
		WHERE id = $1
	`, m.ID, m.Name, m.Description, participants, m.PlaceIterationIDs, string(m.PrivacyStatus))
	return err
}

// GetByID returns one map.
func (r *MapRepo) GetByID(ctx context.Context, id string) (*domain.Map, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+mapColumns+`
		FROM maps WHERE id = $1
	`, id)
	m, err := scanMap(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetByIDs returns multiple maps by id.
func (r *MapRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Map, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+mapColumns+`
		FROM maps WHERE id = ANY($1)
		ORDER BY name
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMaps(rows)
}

// ListByOwner returns the maps a user owns.
func (r *MapRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Map, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+mapColumns+`
		FROM maps WHERE owner_id = NULLIF($1, '')::uuid
		ORDER BY name
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMaps(rows)
}

// ListPublic returns every public map.
func (r *MapRepo) ListPublic(ctx context.Context) ([]domain.Map, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+mapColumns+`
		FROM maps WHERE privacy_status = 'Public'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMaps(rows)
}

// RemoveIterationRefs strips the given iteration ids from every map's
// reference list. Runs as one statement so the sweep never sees a
// half-cleaned map.
func (r *MapRepo) RemoveIterationRefs(ctx context.Context, iterationIDs []string) error {
	if len(iterationIDs) == 0 {
		return nil
	}
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE maps
		SET place_iteration_ids = (
			SELECT COALESCE(array_agg(x), '{}')
			FROM unnest(place_iteration_ids) AS x
			WHERE x <> ALL($1)
		)
		WHERE place_iteration_ids && $1
	`, iterationIDs)
	return err
}

// Delete removes one map.
func (r *MapRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM maps WHERE id = $1`, id)
	return err
}

func scanMap(row pgx.Row) (*domain.Map, error) {
	var m domain.Map
	var participants []byte
	var privacy string
	if err := row.Scan(
		&m.ID, &m.Name, &m.Description, &m.OwnerID,
		&participants, &m.PlaceIterationIDs,
		&privacy, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(participants, &m.Participants); err != nil {
		return nil, fmt.Errorf("decode participants: %w", err)
	}
	m.PrivacyStatus = domain.PrivacyStatus(privacy)
	return &m, nil
}

func scanMaps(rows pgx.Rows) ([]domain.Map, error) {
	var maps []domain.Map
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return nil, err
		}
		maps = append(maps, *m)
	}
	return maps, rows.Err()
}
