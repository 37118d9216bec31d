package domain

import (
	"time"
)

// Tag is a shared label users attach to places and iterations. Tags are
// referenced by id everywhere; they are never embedded or duplicated.
type Tag struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	BackgroundColor string        `json:"background_color"`
	NameColor       string        `json:"name_color"`
	IsOfficial      bool          `json:"is_official"`
	CreatorID       string        `json:"creator_id"`
	Affinities      []TagAffinity `json:"affinities,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// TagAffinity is a suggestion weight between two tags.
// Score ranges 0 (never suggested together) to 5 (always suggested).
type TagAffinity struct {
	TagID string `json:"tag_id"`
	Score int    `json:"score"`
}

// Place is a persisted point of interest, owned by its creator and
// independent of any map that references it.
type Place struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	GPS         GeoPoint  `json:"gps_coordinates"`
	OwnerID     string    `json:"owner_id,omitempty"`
	TagIDs      []string  `json:"tag_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// Iteration is a per-map override of a place's display identity: same
// underlying location, different presentation. Its PlaceID must reference
// an existing place.
type Iteration struct {
	ID                string    `json:"id,omitempty"`
	PlaceID           string    `json:"place_id"`
	MapIDs            []string  `json:"map_ids"`
	CreatorID         string    `json:"creator_id"`
	CustomName        string    `json:"custom_name"`
	CustomDescription string    `json:"custom_description"`
	CustomTagIDs      []string  `json:"custom_tag_ids"`
	GPS               GeoPoint  `json:"gps_coordinates"`
	CreatedAt         time.Time `json:"created_at"`
}

// PrivacyStatus controls who may open a map.
type PrivacyStatus string

const (
	PrivacyPrivate   PrivacyStatus = "Private"
	PrivacyProtected PrivacyStatus = "Protected"
	PrivacyPublic    PrivacyStatus = "Public"
)

// Privilege is a per-participant right over a map.
type Privilege string

const (
	PrivilegeOwner  Privilege = "Owner"
	PrivilegeEditor Privilege = "Editor"
	PrivilegeViewer Privilege = "Viewer"
)

// Participant associates a user with their privileges over one map.
type Participant struct {
	UserID     string      `json:"user_id"`
	Privileges []Privilege `json:"privileges"`
}

// Map is a user-composed collection of place iterations.
type Map struct {
	ID                string        `json:"id,omitempty"`
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	OwnerID           string        `json:"owner_id"`
	Participants      []Participant `json:"participants"`
	PlaceIterationIDs []string      `json:"place_iteration_ids"`
	PrivacyStatus     PrivacyStatus `json:"privacy_status"`
	CreatedAt         time.Time     `json:"created_at"`
}

// Marker is the resolved, renderable unit: a place or its active iteration
// with tag objects cross-referenced from the catalog. Markers are derived
// on every recomposition and never persisted.
type Marker struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	GPS         GeoPoint `json:"gps_coordinates"`
	TagIDs      []string `json:"tag_ids"`
	Tags        []Tag    `json:"tags"`
	IsIteration bool     `json:"is_iteration"`
}

// User holds the minimum identity the moderation surface needs.
// Status carries the ampersand-joined capability token, see HasCapability.
type User struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Session identifies the caller of a core operation. It is passed explicitly
// to every gated entry point; the core never reads ambient state.
type Session struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// MessageValues is the user-facing outcome of an operation.
type MessageValues struct {
	Message string `json:"message"`
	Success bool   `json:"success_status"`
}
