// Package apitest serves canned placeholder-API data over httptest for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/cyderes/post-viewer/internal/models"
)

// Fixtures is the data set the fake API serves.
type Fixtures struct {
	Users    []models.User
	Posts    []models.Post
	Comments []models.Comment
}

// Server is a fake placeholder API. Paths listed in Fail answer 500.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	fixtures Fixtures
	fail     map[string]bool
	hits     map[string]int
}

// NewServer starts a fake API serving fixtures. Callers must Close it.
func NewServer(fixtures Fixtures) *Server {
	s := &Server{
		fixtures: fixtures,
		fail:     make(map[string]bool),
		hits:     make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Fail makes requests whose path plus query equals target return 500.
// Use "/posts?userId=1" style targets or a bare path like "/users".
func (s *Server) Fail(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[target] = true
}

// Hits returns how often target was requested.
func (s *Server) Hits(target string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[target]
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	s.mu.Lock()
	s.hits[target]++
	failing := s.fail[target] || s.fail[r.URL.Path]
	s.mu.Unlock()

	if failing {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	switch {
	case r.URL.Path == "/users":
		writeJSON(w, s.fixtures.Users)
	case strings.HasPrefix(r.URL.Path, "/users/"):
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/users/"))
		for _, u := range s.fixtures.Users {
			if u.ID == id {
				writeJSON(w, u)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, struct{}{})
	case r.URL.Path == "/posts":
		id, _ := strconv.Atoi(r.URL.Query().Get("userId"))
		posts := []models.Post{}
		for _, p := range s.fixtures.Posts {
			if p.UserID == id {
				posts = append(posts, p)
			}
		}
		writeJSON(w, posts)
	case r.URL.Path == "/comments":
		id, _ := strconv.Atoi(r.URL.Query().Get("postId"))
		comments := []models.Comment{}
		for _, c := range s.fixtures.Comments {
			if c.PostID == id {
				comments = append(comments, c)
			}
		}
		writeJSON(w, comments)
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Sample returns a small two-user data set.
func Sample() Fixtures {
	return Fixtures{
		Users: []models.User{
			{ID: 1, Name: "Leanne Graham", Company: models.Company{Name: "Romaguera-Crona", CatchPhrase: "Multi-layered client-server neural-net"}},
			{ID: 2, Name: "Ervin Howell", Company: models.Company{Name: "Deckow-Crist", CatchPhrase: "Proactive didactic contingency"}},
		},
		Posts: []models.Post{
			{UserID: 1, ID: 1, Title: "sunt aut facere", Body: "quia et suscipit"},
			{UserID: 1, ID: 2, Title: "qui est esse", Body: "est rerum tempore vitae"},
			{UserID: 2, ID: 11, Title: "et ea vero quia", Body: "delectus reiciendis molestiae"},
		},
		Comments: []models.Comment{
			{PostID: 1, ID: 1, Name: "id labore ex et quam laborum", Email: "Eliseo@gardner.biz", Body: "laudantium enim quasi"},
			{PostID: 1, ID: 2, Name: "quo vero reiciendis", Email: "Jayne_Kuhic@sydney.com", Body: "est natus enim nihil"},
			{PostID: 2, ID: 6, Name: "et fugit eligendi", Email: "Presley.Mueller@myrl.com", Body: "doloribus at sed quis"},
			{PostID: 11, ID: 51, Name: "molestias et odio ut", Email: "Sophia@arianna.co.uk", Body: "voluptate iusto quis"},
		},
	}
}
