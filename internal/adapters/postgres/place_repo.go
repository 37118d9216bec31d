package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lberthe/cartomark/internal/core/domain"
)

// PlaceRepo implements ports.PlaceRepository with pgx.
type PlaceRepo struct {
	db *DB
}

// NewPlaceRepo creates a new PlaceRepo.
func NewPlaceRepo(db *DB) *PlaceRepo {
	return &PlaceRepo{db: db}
}

const placeColumns = `id, name, description, COALESCE(address, ''),
	       ST_Y(location::geometry) as lat,
	       ST_X(location::geometry) as lon,
	       COALESCE(owner_id::text, ''), COALESCE(tag_ids, '{}'), created_at`

// Create inserts a place and fills in its generated id.
func (r *PlaceRepo) Create(ctx context.Context, p *domain.Place) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO places (name, description, address, location, owner_id, tag_ids)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography, NULLIF($6, '')::uuid, $7)
		RETURNING id, created_at
	`, p.Name, p.Description, p.Address, p.GPS.Lon, p.GPS.Lat, p.OwnerID, p.TagIDs).
		Scan(&p.ID, &p.CreatedAt)
}

// Update rewrites an existing place.
func (r *PlaceRepo) Update(ctx context.Context, p *domain.Place) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE places
		SET name = $2, description = $3, address = $4,
		    location = ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography,
		    tag_ids = $7
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Address, p.GPS.Lon, p.GPS.Lat, p.TagIDs)
	return err
}

// GetByID returns one place.
func (r *PlaceRepo) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	var p domain.Place
	err := r.db.Pool.QueryRow(ctx, `
		SELECT `+placeColumns+`
		FROM places WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Address,
		&p.GPS.Lat, &p.GPS.Lon,
		&p.OwnerID, &p.TagIDs, &p.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDs returns multiple places by id, in name order.
func (r *PlaceRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Place, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+placeColumns+`
		FROM places WHERE id = ANY($1)
		ORDER BY name
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlaces(rows)
}

// ListAll returns every place.
func (r *PlaceRepo) ListAll(ctx context.Context) ([]domain.Place, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+placeColumns+`
		FROM places ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlaces(rows)
}

// ListByOwner returns the places a user created.
func (r *PlaceRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Place, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+placeColumns+`
		FROM places WHERE owner_id = NULLIF($1, '')::uuid
		ORDER BY name
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlaces(rows)
}

// FindNearby returns places within radiusMeters using PostGIS ST_DWithin.
func (r *PlaceRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Place, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, description, COALESCE(address, ''),
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       COALESCE(owner_id::text, ''), COALESCE(tag_ids, '{}'), created_at,
		       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) as distance
		FROM places
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance
		LIMIT $4
	`, lon, lat, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []domain.Place
	for rows.Next() {
		var p domain.Place
		var dist float64
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Address,
			&p.GPS.Lat, &p.GPS.Lon,
			&p.OwnerID, &p.TagIDs, &p.CreatedAt,
			&dist,
		); err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

// Delete removes one place.
func (r *PlaceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM places WHERE id = $1`, id)
	return err
}

// DeleteMany removes a batch of places.
func (r *PlaceRepo) DeleteMany(ctx context.Context, ids []string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM places WHERE id = ANY($1)`, ids)
	return err
}

func scanPlaces(rows rowScanner) ([]domain.Place, error) {
	var places []domain.Place
	for rows.Next() {
		var p domain.Place
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Address,
			&p.GPS.Lat, &p.GPS.Lon,
			&p.OwnerID, &p.TagIDs, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}
