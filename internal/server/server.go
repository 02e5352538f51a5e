package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/cyderes/post-viewer/internal/config"
	"github.com/cyderes/post-viewer/internal/page"
	"github.com/cyderes/post-viewer/internal/storage"
)

// Server handles HTTP requests
type Server struct {
	config  config.ServerConfig
	page    *page.Page
	storage storage.Storage
	router  *mux.Router
	server  *http.Server
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, p *page.Page, store storage.Storage) *Server {
	s := &Server{
		config:  cfg,
		page:    p,
		storage: store,
		router:  mux.NewRouter(),
	}

	s.router.HandleFunc("/", s.handlePage).Methods("GET")
	s.router.HandleFunc("/select", s.handleSelect).Methods("POST")
	s.router.HandleFunc("/toggle", s.handleToggle).Methods("POST")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/status", s.handleStatus).Methods("GET")

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handlePage serves the live document
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Render(w); err != nil {
		log.Printf("Failed to render page: %v", err)
	}
}

// handleSelect runs a refresh cycle for the submitted user
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	// an empty or malformed value falls back to the default user
	userID, _ := strconv.Atoi(r.PostForm.Get("userId"))
	record := s.page.SelectChange(r.Context(), userID)
	log.Printf("Refresh %s for user %d: %d articles in %s", record.ID, record.UserID, record.Articles, record.Duration())

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleToggle delivers a click to the toggle button of the submitted post
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	postID := r.PostForm.Get("postId")
	if !s.page.Click(postID) {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	http.Redirect(w, r, "/#post-"+postID, http.StatusSeeOther)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStatus reports the most recent refresh cycles
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	limit := 10 // default
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	refreshes, err := s.storage.RecentRefreshes(r.Context(), limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve status: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"selected_user": s.page.Selected(),
		"articles":      s.page.Articles(),
		"refreshes":     refreshes,
		"count":         len(refreshes),
	})
}
