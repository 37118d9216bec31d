package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lberthe/cartomark/internal/core/domain"
)

// TagRepo implements ports.TagRepository with pgx.
type TagRepo struct {
	db *DB
}

// NewTagRepo creates a new TagRepo.
func NewTagRepo(db *DB) *TagRepo {
	return &TagRepo{db: db}
}

const tagColumns = `id, name, background_color, name_color, is_official, COALESCE(creator_id::text, ''), COALESCE(affinities, '[]'), created_at`

// Create inserts a tag and fills in its generated id.
func (r *TagRepo) Create(ctx context.Context, t *domain.Tag) error {
	affinities, err := json.Marshal(t.Affinities)
	if err != nil {
		return fmt.Errorf("encode affinities: %w", err)
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO tags (name, background_color, name_color, is_official, creator_id, affinities)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6)
		RETURNING id, created_at
	`, t.Name, t.BackgroundColor, t.NameColor, t.IsOfficial, t.CreatorID, affinities).
		Scan(&t.ID, &t.CreatedAt)
}

// Update rewrites an existing tag.
func (r *TagRepo) Update(ctx context.Context, t *domain.Tag) error {
	affinities, err := json.Marshal(t.Affinities)
	if err != nil {
		return fmt.Errorf("encode affinities: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
		UPDATE tags
		SET name = $2, background_color = $3, name_color = $4, is_official = $5, affinities = $6
		WHERE id = $1
	`, t.ID, t.Name, t.BackgroundColor, t.NameColor, t.IsOfficial, affinities)
	return err
}

// GetByIDs returns tags by id, in name order.
func (r *TagRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+tagColumns+`
		FROM tags WHERE id = ANY($1)
		ORDER BY name
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}

// ListAll returns every tag.
func (r *TagRepo) ListAll(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+tagColumns+`
		FROM tags ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}

// ListForUser returns official tags plus the user's self-created ones.
func (r *TagRepo) ListForUser(ctx context.Context, userID string) ([]domain.Tag, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+tagColumns+`
		FROM tags
		WHERE is_official OR creator_id = NULLIF($1, '')::uuid
		ORDER BY is_official DESC, name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}

// Delete removes one tag.
func (r *TagRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	return err
}

// DeleteMany removes a batch of tags.
func (r *TagRepo) DeleteMany(ctx context.Context, ids []string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM tags WHERE id = ANY($1)`, ids)
	return err
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTags(rows rowScanner) ([]domain.Tag, error) {
	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		var affinities []byte
		if err := rows.Scan(
			&t.ID, &t.Name, &t.BackgroundColor, &t.NameColor,
			&t.IsOfficial, &t.CreatorID, &affinities, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(affinities, &t.Affinities); err != nil {
			return nil, fmt.Errorf("decode affinities: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
