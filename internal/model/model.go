// Package model defines shared data structures.
package model

// Species is one fetched species record from the lookup API. Immutable once
// fetched; it becomes persistent only when promoted to a Favorite.
type Species struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Sprite string   `json:"sprite"`
	Types  []string `json:"types"`
	Height int      `json:"height"` // decimetres, as reported by the API
	Weight int      `json:"weight"` // hectograms, as reported by the API
}

// Tag is a user-assigned label on a favorite. Only the values below are
// accepted; the empty string means untagged.
type Tag string

const (
	TagNone       Tag = ""
	TagCaught     Tag = "Caught"
	TagNotFound   Tag = "Not Found"
	TagShiny      Tag = "~Shiny!~"
	TagBattleTeam Tag = "Battle Team"
)

// Tags lists every accepted tag value, including the untagged default.
var Tags = []Tag{TagNone, TagCaught, TagNotFound, TagShiny, TagBattleTeam}

// Valid reports whether t is a member of the closed tag set.
func (t Tag) Valid() bool {
	for _, v := range Tags {
		if t == v {
			return true
		}
	}
	return false
}

// Favorite is a Species the user has saved, plus their own annotations.
// CreatedAt is assigned at promotion time and never updated afterwards.
type Favorite struct {
	Species
	CreatedAt string `json:"created_at"` // RFC 3339
	Notes     string `json:"notes"`
	Tag       Tag    `json:"tag"`
}

// Storage key constants.
const (
	KeyFavorites = "favorites_v1"
)
