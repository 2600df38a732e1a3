// Package server provides the HTTP server and handlers.
package server

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"

	"favedex/internal/compare"
	"favedex/internal/connectivity"
	"favedex/internal/favorites"
	"favedex/internal/model"
	"favedex/internal/search"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Server is the main HTTP server.
type Server struct {
	store     *favorites.Store
	session   *search.Session
	selection *compare.Selection
	monitor   *connectivity.Monitor
	router    chi.Router
	templates *template.Template
}

// New creates a new server. Removal events from the store prune the
// comparison selection so a selected id can never outlive its favorite.
func New(store *favorites.Store, session *search.Session, selection *compare.Selection, monitor *connectivity.Monitor) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"gen": compare.Generation,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		store:     store,
		session:   session,
		selection: selection,
		monitor:   monitor,
		templates: tmpl,
	}
	store.Subscribe(func(ev favorites.Event) {
		if ev.Kind == favorites.EventRemoved {
			selection.Prune(ev.ID)
		}
	})
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Serve static files.
	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Pages.
	r.Get("/", s.handleHome)

	// API.
	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/favorites", s.handleListFavorites)
		r.Post("/favorites", s.handleAddFavorite)
		r.Delete("/favorites/{id}", s.handleRemoveFavorite)
		r.Post("/favorites/{id}/notes", s.handleSetNotes)
		r.Post("/favorites/{id}/tag", s.handleSetTag)
		r.Get("/compare", s.handleCompare)
		r.Post("/compare/select", s.handleCompareSelect)
		r.Post("/compare/deselect", s.handleCompareDeselect)
		r.Post("/compare/clear", s.handleCompareClear)
		r.Post("/connectivity", s.handleConnectivity)
		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	s.router = r
}

// Start starts the server.
func (s *Server) Start(addr string) error {
	log.Printf("Server starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// --- Page Handlers ---

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Favorites": s.store.All(),
		"Tags":      model.Tags,
		"Online":    s.monitor.Online(),
		"Selected":  s.selection.IDs(),
	}
	s.render(w, "layout.html", data)
}

// --- API Handlers ---

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Term string `json:"term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	snap := s.session.Search(r.Context(), req.Term)
	s.writeJSON(w, s.snapshotJSON(snap))
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"favorites": s.store.All(),
		"selected":  s.selection.IDs(),
	})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var sp model.Species
	if err := json.NewDecoder(r.Body).Decode(&sp); err != nil || sp.ID <= 0 || sp.Name == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	added := s.store.Add(sp)
	s.writeJSON(w, map[string]interface{}{"status": "ok", "added": added})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	removed := s.store.Remove(id)
	s.writeJSON(w, map[string]interface{}{"status": "ok", "removed": removed})
}

func (s *Server) handleSetNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	updated := s.store.SetNotes(id, req.Notes)
	s.writeJSON(w, map[string]interface{}{"status": "ok", "updated": updated})
}

func (s *Server) handleSetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Tag string `json:"tag"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	tag := model.Tag(req.Tag)
	if !tag.Valid() {
		http.Error(w, "Unknown tag", http.StatusBadRequest)
		return
	}
	updated := s.store.SetTag(id, tag)
	s.writeJSON(w, map[string]interface{}{"status": "ok", "updated": updated})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	first, second, ok := s.selection.Pair()
	if !ok {
		http.Error(w, "Select two favorites to compare", http.StatusConflict)
		return
	}
	a, okA := s.store.Get(first)
	b, okB := s.store.Get(second)
	if !okA || !okB {
		// Should be unreachable: removals prune the selection.
		http.Error(w, "Selected favorite no longer exists", http.StatusConflict)
		return
	}
	s.writeJSON(w, compare.Diff(a, b))
}

func (s *Server) handleCompareSelect(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bodyID(w, r)
	if !ok {
		return
	}
	if !s.store.Contains(id) {
		http.Error(w, "Not a favorite", http.StatusNotFound)
		return
	}
	if err := s.selection.Select(id); err != nil {
		http.Error(w, "Two favorites are already selected", http.StatusConflict)
		return
	}
	s.writeJSON(w, map[string]interface{}{"status": "ok", "selected": s.selection.IDs()})
}

func (s *Server) handleCompareDeselect(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bodyID(w, r)
	if !ok {
		return
	}
	s.selection.Deselect(id)
	s.writeJSON(w, map[string]interface{}{"status": "ok", "selected": s.selection.IDs()})
}

func (s *Server) handleCompareClear(w http.ResponseWriter, r *http.Request) {
	s.selection.Clear()
	s.writeJSON(w, map[string]interface{}{"status": "ok", "selected": []int{}})
}

func (s *Server) handleConnectivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Online bool `json:"online"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Online {
		s.monitor.SetOnline()
	} else {
		s.monitor.SetOffline()
	}
	s.writeJSON(w, map[string]interface{}{"status": "ok", "online": req.Online})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := favorites.Export(s.store.All())
	if err != nil {
		http.Error(w, "Failed to export", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=favedex-favorites.json")
	w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("favorites")
	if err != nil {
		http.Error(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := favorites.Parse(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse import: %v", err), http.StatusBadRequest)
		return
	}

	imported := s.store.Import(records)
	s.writeJSON(w, map[string]interface{}{
		"status":   "ok",
		"imported": imported,
		"total":    len(records),
	})
}

// --- Helpers ---

func (s *Server) snapshotJSON(snap search.Snapshot) map[string]interface{} {
	resp := map[string]interface{}{
		"state": snap.State.String(),
		"term":  snap.Term,
	}
	switch snap.State {
	case search.StateSuccess:
		resp["result"] = snap.Result
		resp["generation"] = compare.Generation(snap.Result.ID)
		resp["favorited"] = s.store.Contains(snap.Result.ID)
	case search.StateFailure:
		resp["message"] = snap.Message
	}
	return resp
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (s *Server) bodyID(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID <= 0 {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return 0, false
	}
	return req.ID, true
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
	}
}
