package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"favedex/internal/compare"
	"favedex/internal/connectivity"
	"favedex/internal/database"
	"favedex/internal/favorites"
	"favedex/internal/model"
	"favedex/internal/pokeapi"
	"favedex/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClient struct{}

func (fixedClient) Lookup(ctx context.Context, term string) (model.Species, error) {
	switch term {
	case "pikachu":
		return model.Species{ID: 25, Name: "pikachu", Sprite: "s", Types: []string{"electric"}, Height: 4, Weight: 60}, nil
	case "bulbasaur":
		return model.Species{ID: 1, Name: "bulbasaur", Sprite: "s", Types: []string{"grass", "poison"}, Height: 7, Weight: 69}, nil
	default:
		return model.Species{}, fmt.Errorf("%w: status 404", pokeapi.ErrNotFound)
	}
}

type testApp struct {
	srv   *Server
	store *favorites.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store := favorites.NewStore(favorites.NewAdapter(database.NewMemory()))
	monitor := connectivity.New()
	session := search.NewSession(fixedClient{}, monitor)
	srv, err := New(store, session, compare.NewSelection(), monitor)
	require.NoError(t, err)
	return &testApp{srv: srv, store: store}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.srv.Handler().ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Code < 300 && w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func (a *testApp) addFavorite(t *testing.T, term string) {
	t.Helper()
	sp, err := fixedClient{}.Lookup(context.Background(), term)
	require.NoError(t, err)
	require.True(t, a.store.Add(sp))
}

func TestHomePageRenders(t *testing.T) {
	app := newTestApp(t)
	app.addFavorite(t, "pikachu")

	w, _ := app.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pikachu")
}

func TestSearchAPI(t *testing.T) {
	app := newTestApp(t)

	w, resp := app.do(t, http.MethodPost, "/api/search", map[string]string{"term": "pikachu"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp["state"])
	assert.Equal(t, float64(1), resp["generation"])
	assert.Equal(t, false, resp["favorited"])

	result := resp["result"].(map[string]interface{})
	assert.Equal(t, float64(25), result["id"])

	w, resp = app.do(t, http.MethodPost, "/api/search", map[string]string{"term": "missingno"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "failure", resp["state"])
	assert.Contains(t, resp["message"], "No results")
}

func TestSearchWhileOffline(t *testing.T) {
	app := newTestApp(t)

	w, _ := app.do(t, http.MethodPost, "/api/connectivity", map[string]bool{"online": false})
	require.Equal(t, http.StatusOK, w.Code)

	_, resp := app.do(t, http.MethodPost, "/api/search", map[string]string{"term": "pikachu"})
	assert.Equal(t, "failure", resp["state"])
	assert.Equal(t, search.OfflineMessage, resp["message"])

	app.do(t, http.MethodPost, "/api/connectivity", map[string]bool{"online": true})
	_, resp = app.do(t, http.MethodPost, "/api/search", map[string]string{"term": "pikachu"})
	assert.Equal(t, "success", resp["state"])
}

func TestFavoritesAPI(t *testing.T) {
	app := newTestApp(t)

	sp := map[string]interface{}{"id": 25, "name": "pikachu", "sprite": "s", "types": []string{"electric"}, "height": 4, "weight": 60}
	_, resp := app.do(t, http.MethodPost, "/api/favorites", sp)
	assert.Equal(t, true, resp["added"])

	// Duplicate promotion is a no-op.
	_, resp = app.do(t, http.MethodPost, "/api/favorites", sp)
	assert.Equal(t, false, resp["added"])

	_, resp = app.do(t, http.MethodGet, "/api/favorites", nil)
	assert.Len(t, resp["favorites"], 1)

	_, resp = app.do(t, http.MethodPost, "/api/favorites/25/notes", map[string]string{"notes": "zap"})
	assert.Equal(t, true, resp["updated"])

	_, resp = app.do(t, http.MethodPost, "/api/favorites/25/tag", map[string]string{"tag": "Caught"})
	assert.Equal(t, true, resp["updated"])

	// Tags outside the closed set are rejected and leave the record alone.
	w, _ := app.do(t, http.MethodPost, "/api/favorites/25/tag", map[string]string{"tag": "invalid-value"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	fav, ok := app.store.Get(25)
	require.True(t, ok)
	assert.Equal(t, model.TagCaught, fav.Tag)

	_, resp = app.do(t, http.MethodDelete, "/api/favorites/25", nil)
	assert.Equal(t, true, resp["removed"])
	assert.False(t, app.store.Contains(25))
}

func TestCompareAPI(t *testing.T) {
	app := newTestApp(t)
	app.addFavorite(t, "pikachu")
	app.addFavorite(t, "bulbasaur")

	// Nothing selected yet.
	w, _ := app.do(t, http.MethodGet, "/api/compare", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Only favorites can be selected.
	w, _ = app.do(t, http.MethodPost, "/api/compare/select", map[string]int{"id": 6})
	assert.Equal(t, http.StatusNotFound, w.Code)

	app.do(t, http.MethodPost, "/api/compare/select", map[string]int{"id": 25})
	app.do(t, http.MethodPost, "/api/compare/select", map[string]int{"id": 1})

	w, resp := app.do(t, http.MethodGet, "/api/compare", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(24), resp["id_diff"])
	assert.Equal(t, "bulbasaur", resp["older"])
	assert.Equal(t, "bulbasaur", resp["taller"])
	assert.Equal(t, "bulbasaur", resp["heavier"])
	assert.Equal(t, float64(1), resp["generation_a"])
	assert.Equal(t, float64(1), resp["generation_b"])

	// Reselecting one of the pair is a no-op, not a third id.
	w, _ = app.do(t, http.MethodPost, "/api/compare/select", map[string]int{"id": 1})
	assert.Equal(t, http.StatusOK, w.Code)

	// A genuine third id is rejected.
	require.True(t, app.store.Add(model.Species{ID: 4, Name: "charmander", Height: 6, Weight: 85}))
	w, _ = app.do(t, http.MethodPost, "/api/compare/select", map[string]int{"id": 4})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRemovalPrunesSelection(t *testing.T) {
	app := newTestApp(t)
	app.addFavorite(t, "pikachu")
	app.addFavorite(t, "bulbasaur")

	app.do(t, http.MethodPost, "/api/compare/select", map[string]int{"id": 25})
	app.do(t, http.MethodPost, "/api/compare/select", map[string]int{"id": 1})

	app.do(t, http.MethodDelete, "/api/favorites/25", nil)

	// The removed favorite is gone from the selection, so no pair remains.
	w, _ := app.do(t, http.MethodGet, "/api/compare", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	_, resp := app.do(t, http.MethodGet, "/api/favorites", nil)
	assert.Equal(t, []interface{}{float64(1)}, resp["selected"])
}

func TestClearSelection(t *testing.T) {
	app := newTestApp(t)
	app.addFavorite(t, "pikachu")

	app.do(t, http.MethodPost, "/api/compare/select", map[string]int{"id": 25})
	_, resp := app.do(t, http.MethodPost, "/api/compare/clear", nil)
	assert.Empty(t, resp["selected"])
}

func TestExportImportRoundTrip(t *testing.T) {
	app := newTestApp(t)
	app.addFavorite(t, "pikachu")
	app.addFavorite(t, "bulbasaur")
	app.store.SetNotes(25, "zap")

	w, _ := app.do(t, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	exported := w.Body.Bytes()

	// Import into a fresh instance.
	other := newTestApp(t)
	other.addFavorite(t, "pikachu") // duplicate of one imported record

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("favorites", "favedex-favorites.json")
	require.NoError(t, err)
	_, err = part.Write(exported)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	other.srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["imported"])
	assert.Equal(t, float64(2), resp["total"])
	assert.Equal(t, 2, other.store.Len())

	// The imported record carries its annotations across.
	fav, ok := other.store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "bulbasaur", fav.Name)
}
