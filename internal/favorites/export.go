package favorites

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"favedex/internal/model"
)

// exportDoc is the on-disk shape of an exported favorites file.
type exportDoc struct {
	Version    int              `json:"version"`
	ExportedAt string           `json:"exported_at"`
	Favorites  []model.Favorite `json:"favorites"`
}

const exportVersion = 1

// Export generates a downloadable JSON document for the given collection.
func Export(list []model.Favorite) ([]byte, error) {
	if list == nil {
		list = []model.Favorite{}
	}
	doc := exportDoc{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Favorites:  list,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Parse reads an exported favorites document and returns its records.
func Parse(r io.Reader) ([]model.Favorite, error) {
	var doc exportDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	if doc.Version != exportVersion {
		return nil, fmt.Errorf("unsupported export version %d", doc.Version)
	}
	return doc.Favorites, nil
}

// Import merges parsed records into the store. Records whose id is already
// present are skipped; imported records keep their own timestamp, notes and
// tag, except that a tag outside the closed set is reset to none. Returns
// the number of records actually added.
func (s *Store) Import(records []model.Favorite) int {
	added := 0
	for _, rec := range records {
		if !rec.Tag.Valid() {
			rec.Tag = model.TagNone
		}
		s.mu.Lock()
		if s.locate(rec.ID) >= 0 {
			s.mu.Unlock()
			continue
		}
		if rec.CreatedAt == "" {
			rec.CreatedAt = s.now().UTC().Format(time.RFC3339)
		}
		s.list = append(s.list, rec)
		s.persist()
		s.mu.Unlock()

		s.notify(Event{Kind: EventAdded, ID: rec.ID})
		added++
	}
	return added
}
