package usecases

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/core/ports"
)

// DefaultTagPreviewLimit bounds the tag picker preview so it does not
// overcrowd the page. Call sites that want the full pool pass 0.
const DefaultTagPreviewLimit = 10

// TagCatalog handles tag-related business logic: the user-scoped pool of
// available tags, set-subtraction against already-assigned tags, and
// affinity-ranked suggestion.
type TagCatalog struct {
	tags  ports.TagRepository
	cache ports.CacheService
}

// NewTagCatalog creates a new TagCatalog.
func NewTagCatalog(tags ports.TagRepository, cache ports.CacheService) *TagCatalog {
	return &TagCatalog{tags: tags, cache: cache}
}

// LoadForUser returns the official tags plus the session user's own.
// A session lacking the User role skips the load and returns
// domain.ErrPermissionDenied; storage failures come back as FetchError.
func (s *TagCatalog) LoadForUser(ctx context.Context, session domain.Session) ([]domain.Tag, error) {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return nil, domain.ErrPermissionDenied
	}

	cacheKey := "tags:user:" + session.UserID
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var tags []domain.Tag
			if err := json.Unmarshal(data, &tags); err == nil {
				return tags, nil
			}
		}
	}

	tags, err := s.tags.ListForUser(ctx, session.UserID)
	if err != nil {
		return nil, domain.NewFetchError("load tags", err)
	}

	// Tags change rarely within an editing session
	if s.cache != nil {
		if data, err := json.Marshal(tags); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return tags, nil
}

// ListAll returns every tag; moderation only.
func (s *TagCatalog) ListAll(ctx context.Context, session domain.Session) ([]domain.Tag, error) {
	if !domain.HasCapability(session.Status, domain.RoleAdmin) {
		return nil, domain.ErrPermissionDenied
	}
	tags, err := s.tags.ListAll(ctx)
	if err != nil {
		return nil, domain.NewFetchError("load tags", err)
	}
	return tags, nil
}

// GetByIDs returns the tags with the given ids.
func (s *TagCatalog) GetByIDs(ctx context.Context, ids []string) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := s.tags.GetByIDs(ctx, ids)
	if err != nil {
		return nil, domain.NewFetchError("load tags", err)
	}
	return tags, nil
}

// Subtract returns the tags in pool whose id is not in used, de-duplicated
// by id and in pool order. A non-empty nameQuery narrows the result with a
// case-insensitive match against tag names (regex, falling back to a plain
// substring match when the pattern does not compile). limit caps the result;
// 0 means uncapped.
func (s *TagCatalog) Subtract(pool []domain.Tag, used map[string]bool, nameQuery string, limit int) []domain.Tag {
	match := nameMatcher(nameQuery)

	seen := make(map[string]bool, len(pool))
	var out []domain.Tag
	for _, tag := range pool {
		if used[tag.ID] || seen[tag.ID] {
			continue
		}
		if !match(tag.Name) {
			continue
		}
		seen[tag.ID] = true
		out = append(out, tag)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// SuggestByAffinity orders pool tags by their summed affinity weight against
// the already-selected set, highest first. Ties keep pool order; tags already
// selected are excluded. limit 0 means uncapped.
func (s *TagCatalog) SuggestByAffinity(selected, pool []domain.Tag, limit int) []domain.Tag {
	selectedIDs := make(map[string]bool, len(selected))
	for _, t := range selected {
		selectedIDs[t.ID] = true
	}

	type scored struct {
		tag   domain.Tag
		score int
	}
	var candidates []scored
	for _, tag := range pool {
		if selectedIDs[tag.ID] {
			continue
		}
		total := 0
		for _, sel := range selected {
			total += affinityBetween(sel, tag)
		}
		candidates = append(candidates, scored{tag: tag, score: total})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	out := make([]domain.Tag, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.tag)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// affinityBetween returns the suggestion weight linking two tags. Affinity is
// symmetric in practice; whichever side records the higher score wins.
func affinityBetween(a, b domain.Tag) int {
	score := 0
	for _, aff := range a.Affinities {
		if aff.TagID == b.ID && aff.Score > score {
			score = aff.Score
		}
	}
	for _, aff := range b.Affinities {
		if aff.TagID == a.ID && aff.Score > score {
			score = aff.Score
		}
	}
	return score
}

// Create stores a new tag with normalized colors, attributed to the session
// user. Only admins may mint official tags.
func (s *TagCatalog) Create(ctx context.Context, session domain.Session, tag domain.Tag) (*domain.Tag, error) {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return nil, domain.ErrPermissionDenied
	}
	if tag.IsOfficial && !domain.HasCapability(session.Status, domain.RoleAdmin) {
		return nil, domain.ErrPermissionDenied
	}

	tag.CreatorID = session.UserID
	tag.BackgroundColor = domain.HexifyColor(tag.BackgroundColor)
	tag.NameColor = domain.HexifyColor(tag.NameColor)

	if err := s.tags.Create(ctx, &tag); err != nil {
		return nil, domain.NewFetchError("create tag", err)
	}
	s.invalidate(ctx, session.UserID)
	return &tag, nil
}

// Update rewrites an existing tag, normalizing colors.
func (s *TagCatalog) Update(ctx context.Context, session domain.Session, tag domain.Tag) error {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return domain.ErrPermissionDenied
	}
	tag.BackgroundColor = domain.HexifyColor(tag.BackgroundColor)
	tag.NameColor = domain.HexifyColor(tag.NameColor)
	if err := s.tags.Update(ctx, &tag); err != nil {
		return domain.NewFetchError("update tag", err)
	}
	s.invalidate(ctx, session.UserID)
	return nil
}

// Delete removes one tag.
func (s *TagCatalog) Delete(ctx context.Context, session domain.Session, id string) error {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return domain.ErrPermissionDenied
	}
	if err := s.tags.Delete(ctx, id); err != nil {
		return domain.NewFetchError("delete tag", err)
	}
	s.invalidate(ctx, session.UserID)
	return nil
}

// DeleteMany removes a batch of tags; moderation only.
func (s *TagCatalog) DeleteMany(ctx context.Context, session domain.Session, ids []string) error {
	if !domain.HasCapability(session.Status, domain.RoleAdmin) {
		return domain.ErrPermissionDenied
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.tags.DeleteMany(ctx, ids); err != nil {
		return domain.NewFetchError("delete tags", err)
	}
	s.invalidate(ctx, session.UserID)
	return nil
}

func (s *TagCatalog) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "tags:user:"+userID)
	}
}

// nameMatcher builds the case-insensitive name predicate used across the
// tag pickers and the marker filter. An empty query matches everything.
func nameMatcher(query string) func(string) bool {
	if query == "" {
		return func(string) bool { return true }
	}
	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		lower := strings.ToLower(query)
		return func(name string) bool {
			return strings.Contains(strings.ToLower(name), lower)
		}
	}
	return re.MatchString
}
