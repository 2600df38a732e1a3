// Package favorites owns the persisted favorites collection.
package favorites

import (
	"encoding/json"
	"log"

	"favedex/internal/database"
	"favedex/internal/model"
)

// Adapter mirrors the favorites collection to the key-value store. It is the
// only component with ambient I/O against persistent storage.
type Adapter struct {
	kv database.KV
}

// NewAdapter creates an adapter over the given backend.
func NewAdapter(kv database.KV) *Adapter {
	return &Adapter{kv: kv}
}

// Load reads the stored collection. An absent key yields an empty
// collection. A value that does not parse as the expected shape is deleted
// and an empty collection is returned; corruption is logged, never surfaced.
func (a *Adapter) Load() []model.Favorite {
	raw, ok, err := a.kv.Get(model.KeyFavorites)
	if err != nil {
		log.Printf("favorites: load failed, starting empty: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	var list []model.Favorite
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("favorites: discarding corrupt stored value: %v", err)
		if err := a.kv.Delete(model.KeyFavorites); err != nil {
			log.Printf("favorites: failed to clear corrupt value: %v", err)
		}
		return nil
	}
	return list
}

// Save serializes the full collection and writes it under the fixed key.
// Writes are full-replace, not incremental.
func (a *Adapter) Save(list []model.Favorite) error {
	if list == nil {
		list = []model.Favorite{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return a.kv.Set(model.KeyFavorites, string(raw))
}
