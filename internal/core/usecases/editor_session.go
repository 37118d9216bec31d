package usecases

import (
	"errors"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/core/ports"
)

// EditorState names the selection/editing phases of a map authoring session.
type EditorState int

const (
	// StateIdle means no marker is selected and no form is open.
	StateIdle EditorState = iota
	// StateDrafting means the form holds a draft with no iteration id yet.
	StateDrafting
	// StateEditingExisting means the form holds an already-created iteration.
	StateEditingExisting
)

// Draft is the form content of an in-progress iteration edit. An empty ID
// marks a draft that has never been submitted.
type Draft struct {
	ID          string
	PlaceID     string
	Name        string
	Description string
	Address     string
	GPS         domain.GeoPoint
	TagIDs      []string
	Tags        []domain.Tag
}

// EditorSession is the state machine behind the map editor: one user working
// on one map's iteration overlay. It is confined to a single goroutine; the
// HTTP layer creates one per request and the tests drive it directly.
type EditorSession struct {
	state   EditorState
	draft   Draft
	catalog *TagCatalog
	sink    ports.MessageSink

	pool       []domain.Tag
	places     []domain.Place
	overlay    []domain.Iteration
	generation uint64

	previewLimit int
}

// NewEditorSession creates a session in the Idle state. previewLimit caps
// the available-tag preview (0 = uncapped).
func NewEditorSession(catalog *TagCatalog, sink ports.MessageSink, previewLimit int) *EditorSession {
	return &EditorSession{
		state:        StateIdle,
		catalog:      catalog,
		sink:         sink,
		previewLimit: previewLimit,
	}
}

// State returns the current phase.
func (s *EditorSession) State() EditorState { return s.state }

// Draft returns the current form content.
func (s *EditorSession) Draft() Draft { return s.draft }

// Overlay returns the working iteration list, oldest first.
func (s *EditorSession) Overlay() []domain.Iteration { return s.overlay }

// BeginLoad starts a new load cycle and returns its generation. Any commit
// carrying an older generation is discarded, so a slow response can never
// overwrite the result of a newer load.
func (s *EditorSession) BeginLoad() uint64 {
	s.generation++
	return s.generation
}

// CommitTags installs a loaded tag pool. Returns false when gen is stale.
func (s *EditorSession) CommitTags(gen uint64, tags []domain.Tag) bool {
	if gen != s.generation {
		return false
	}
	s.pool = tags
	return true
}

// CommitPlaces installs a loaded place set. Returns false when gen is stale.
func (s *EditorSession) CommitPlaces(gen uint64, places []domain.Place) bool {
	if gen != s.generation {
		return false
	}
	s.places = places
	return true
}

// CommitIterations installs a loaded overlay. Returns false when gen is stale.
func (s *EditorSession) CommitIterations(gen uint64, its []domain.Iteration) bool {
	if gen != s.generation {
		return false
	}
	s.overlay = its
	return true
}

// SelectMarker opens the form on the given marker. A base marker seeds a
// fresh draft with an empty tag list; an iteration marker seeds the form
// from its custom fields and keeps its id so Submit updates in place.
func (s *EditorSession) SelectMarker(m domain.Marker) {
	if m.IsIteration {
		s.state = StateEditingExisting
		s.draft = Draft{
			ID:          m.ID,
			PlaceID:     s.placeIDFor(m.ID),
			Name:        m.Name,
			Description: m.Description,
			Address:     m.Address,
			GPS:         m.GPS,
			TagIDs:      append([]string(nil), m.TagIDs...),
			Tags:        append([]domain.Tag(nil), m.Tags...),
		}
		return
	}
	s.state = StateDrafting
	s.draft = Draft{
		PlaceID:     m.ID,
		Name:        m.Name,
		Description: m.Description,
		Address:     m.Address,
		GPS:         m.GPS,
	}
}

// placeIDFor looks up the place an overlay iteration overrides.
func (s *EditorSession) placeIDFor(iterationID string) string {
	for _, it := range s.overlay {
		if it.ID == iterationID {
			return it.PlaceID
		}
	}
	return ""
}

// SetName updates the draft's display name.
func (s *EditorSession) SetName(name string) { s.draft.Name = name }

// SetDescription updates the draft's description.
func (s *EditorSession) SetDescription(desc string) { s.draft.Description = desc }

// CanSubmit reports whether the draft passes the length gate. Single-rune
// names and descriptions are treated as accidental input.
func (s *EditorSession) CanSubmit() bool {
	return len(s.draft.Name) > 1 && len(s.draft.Description) > 1
}

// Submit folds the draft into the overlay. An invalid draft is a silent
// no-op: the gate is not an error and produces no message. A draft whose id
// matches an overlay entry replaces that entry in place; anything else is
// appended, so submitting an id-less draft twice appends two entries.
// Afterwards the form resets to a blank draft and stays open.
func (s *EditorSession) Submit() {
	if !s.CanSubmit() {
		return
	}

	it := domain.Iteration{
		ID:                s.draft.ID,
		PlaceID:           s.draft.PlaceID,
		CustomName:        s.draft.Name,
		CustomDescription: s.draft.Description,
		CustomTagIDs:      append([]string(nil), s.draft.TagIDs...),
		GPS:               s.draft.GPS,
	}

	updated := false
	if it.ID != "" {
		for i := range s.overlay {
			if s.overlay[i].ID == it.ID {
				s.overlay[i] = it
				updated = true
				break
			}
		}
	}
	if !updated {
		s.overlay = append(s.overlay, it)
	}

	s.state = StateDrafting
	s.draft = Draft{}
}

// Cancel closes the form and discards the draft.
func (s *EditorSession) Cancel() {
	s.state = StateIdle
	s.draft = Draft{}
}

// AssignTag moves a pool tag onto the draft. Assigning a tag the draft
// already holds changes nothing.
func (s *EditorSession) AssignTag(tag domain.Tag) {
	for _, id := range s.draft.TagIDs {
		if id == tag.ID {
			return
		}
	}
	s.draft.TagIDs = append(s.draft.TagIDs, tag.ID)
	s.draft.Tags = append(s.draft.Tags, tag)
}

// UnassignTag removes a tag from the draft by id, returning it to the
// available pool.
func (s *EditorSession) UnassignTag(id string) {
	for i, tid := range s.draft.TagIDs {
		if tid == id {
			s.draft.TagIDs = append(s.draft.TagIDs[:i], s.draft.TagIDs[i+1:]...)
			break
		}
	}
	for i, t := range s.draft.Tags {
		if t.ID == id {
			s.draft.Tags = append(s.draft.Tags[:i], s.draft.Tags[i+1:]...)
			break
		}
	}
}

// AvailableTags returns the pool minus the draft's assigned tags, narrowed
// by nameQuery and capped by the session preview limit.
func (s *EditorSession) AvailableTags(nameQuery string) []domain.Tag {
	used := make(map[string]bool, len(s.draft.TagIDs))
	for _, id := range s.draft.TagIDs {
		used[id] = true
	}
	return s.catalog.Subtract(s.pool, used, nameQuery, s.previewLimit)
}

// SuggestedTags ranks the remaining pool by affinity with the draft's
// current selection.
func (s *EditorSession) SuggestedTags(limit int) []domain.Tag {
	return s.catalog.SuggestByAffinity(s.draft.Tags, s.AvailableTags(""), limit)
}

// ReportError translates a load or mutate failure into a user-facing
// message. Permission denials stay silent: the operation was skipped, not
// broken.
func (s *EditorSession) ReportError(err error) {
	if err == nil || errors.Is(err, domain.ErrPermissionDenied) {
		return
	}
	if s.sink == nil {
		return
	}
	var fe *domain.FetchError
	msg := "something went wrong"
	if errors.As(err, &fe) {
		msg = fe.Op + " failed"
	}
	s.sink.Notify(domain.MessageValues{Message: msg, Success: false})
}

// ReportSuccess pushes a positive outcome message.
func (s *EditorSession) ReportSuccess(msg string) {
	if s.sink == nil {
		return
	}
	s.sink.Notify(domain.MessageValues{Message: msg, Success: true})
}
