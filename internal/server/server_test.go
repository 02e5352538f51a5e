package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cyderes/post-viewer/internal/api"
	"github.com/cyderes/post-viewer/internal/api/apitest"
	"github.com/cyderes/post-viewer/internal/config"
	"github.com/cyderes/post-viewer/internal/models"
	"github.com/cyderes/post-viewer/internal/page"
	"github.com/cyderes/post-viewer/internal/storage"
)

// MockStorage is a mock implementation of the Storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) RecordRefresh(ctx context.Context, record models.RefreshRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStorage) RecentRefreshes(ctx context.Context, limit int) ([]models.RefreshRecord, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.RefreshRecord), args.Error(1)
}

func (m *MockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}

func setupServer(t *testing.T, store storage.Storage) (*Server, *apitest.Server) {
	t.Helper()
	fake := apitest.NewServer(apitest.Sample())
	t.Cleanup(fake.Close)

	client := api.NewClient(config.APIConfig{BaseURL: fake.URL, Timeout: 5 * time.Second})
	p := page.New(client, 2, store)
	p.InitPage(context.Background())

	return NewServer(config.ServerConfig{Port: 0}, p, store), fake
}

func postForm(handler http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestServer_handlePage(t *testing.T) {
	s, _ := setupServer(t, storage.NewMemoryStorage(10))

	w := get(s.Handler(), "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `<option value="2">Ervin Howell</option>`)
	assert.Contains(t, w.Body.String(), `class="default-text"`)
}

func TestServer_handleSelect(t *testing.T) {
	s, fake := setupServer(t, storage.NewMemoryStorage(10))

	w := postForm(s.Handler(), "/select", url.Values{"userId": {"2"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, 1, fake.Hits("/posts?userId=2"))

	body := get(s.Handler(), "/").Body.String()
	assert.Contains(t, body, "et ea vero quia")
	assert.Contains(t, body, `<button data-post-id="11"`)
	assert.NotContains(t, body, `class="default-text"`)
}

func TestServer_handleSelect_EmptyValueUsesDefaultUser(t *testing.T) {
	s, fake := setupServer(t, storage.NewMemoryStorage(10))

	w := postForm(s.Handler(), "/select", url.Values{"userId": {""}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 1, fake.Hits("/posts?userId=1"))
}

func TestServer_handleToggle(t *testing.T) {
	s, _ := setupServer(t, storage.NewMemoryStorage(10))
	postForm(s.Handler(), "/select", url.Values{"userId": {"1"}})

	w := postForm(s.Handler(), "/toggle", url.Values{"postId": {"2"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/#post-2", w.Header().Get("Location"))

	body := get(s.Handler(), "/").Body.String()
	assert.Contains(t, body, `<section data-post-id="2" class="comments">`)
	assert.Contains(t, body, `<section data-post-id="1" class="comments hide">`)
	assert.Contains(t, body, "Hide Comments")
}

func TestServer_handleToggle_UnknownPost(t *testing.T) {
	s, _ := setupServer(t, storage.NewMemoryStorage(10))

	w := postForm(s.Handler(), "/toggle", url.Values{"postId": {"404"}})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_handleHealth(t *testing.T) {
	s, _ := setupServer(t, storage.NewMemoryStorage(10))

	w := get(s.Handler(), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestServer_handleStatus(t *testing.T) {
	s, _ := setupServer(t, storage.NewMemoryStorage(10))
	postForm(s.Handler(), "/select", url.Values{"userId": {"1"}})
	postForm(s.Handler(), "/select", url.Values{"userId": {"2"}})

	w := get(s.Handler(), "/status?limit=1")

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		SelectedUser int                    `json:"selected_user"`
		Articles     int                    `json:"articles"`
		Count        int                    `json:"count"`
		Refreshes    []models.RefreshRecord `json:"refreshes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.SelectedUser)
	assert.Equal(t, 1, body.Articles)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Refreshes, 1)
	assert.Equal(t, 2, body.Refreshes[0].UserID)
}

func TestServer_handleStatus_StorageError(t *testing.T) {
	store := new(MockStorage)
	store.On("RecentRefreshes", mock.Anything, 10).Return([]models.RefreshRecord(nil), assert.AnError)
	s, _ := setupServer(t, store)

	w := get(s.Handler(), "/status")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to retrieve status")
	store.AssertExpectations(t)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s, _ := setupServer(t, storage.NewMemoryStorage(10))

	w := get(s.Handler(), "/select")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
