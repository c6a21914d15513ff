package project

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/portfolio-backend/internal/httpx"
	"github.com/ayush/portfolio-backend/internal/middleware"
	"github.com/ayush/portfolio-backend/internal/models"
	"github.com/ayush/portfolio-backend/internal/store"
)

type fakeStore struct {
	projects map[string]*models.Project
	order    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{projects: map[string]*models.Project{}}
}

func (s *fakeStore) Insert(_ context.Context, p *models.Project) (string, error) {
	p.ID = primitive.NewObjectID()
	cp := *p
	s.projects[p.ID.Hex()] = &cp
	s.order = append(s.order, p.ID.Hex())
	return p.ID.Hex(), nil
}

func (s *fakeStore) List(_ context.Context) ([]models.Project, error) {
	var out []models.Project
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, *s.projects[s.order[i]])
	}
	return out, nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (*models.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) Update(_ context.Context, id string, upd models.UpdateProjectRequest) (*models.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Deployed != nil {
		p.Deployed = *upd.Deployed
	}
	cp := *p
	return &cp, nil
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/getall", httpx.Handle(h.List))
	r.Get("/get/{id}", httpx.Handle(h.Get))
	r.Post("/add", httpx.Handle(h.Add))
	r.Put("/update/{id}", httpx.Handle(h.Update))
	return r
}

func addProject(t *testing.T, router http.Handler, title string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(models.AddProjectRequest{
		Title:        title,
		Description:  "a project",
		GitRepoURL:   "https://github.com/a/x",
		Technologies: []string{"go", "mongodb"},
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/add", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), "caller-1"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdd_RecordsCreator(t *testing.T) {
	st := newFakeStore()
	router := newRouter(NewHandler(st))

	w := addProject(t, router, "Portfolio Site")
	require.Equal(t, http.StatusCreated, w.Code)

	var body Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.True(t, body.Success)
	require.Equal(t, "Portfolio Site", body.Project.Title)
	require.Equal(t, "caller-1", body.Project.CreatedBy)
}

func TestAdd_MissingTitle(t *testing.T) {
	st := newFakeStore()
	router := newRouter(NewHandler(st))

	body, _ := json.Marshal(models.AddProjectRequest{Description: "no title"})
	req := httptest.NewRequest(http.MethodPost, "/add", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "title is required")
	require.Empty(t, st.projects)
}

func TestList_EmptyIsAnArray(t *testing.T) {
	router := newRouter(NewHandler(newFakeStore()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/getall", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"projects":[]`)
}

func TestList_NewestFirst(t *testing.T) {
	st := newFakeStore()
	router := newRouter(NewHandler(st))
	addProject(t, router, "first")
	addProject(t, router, "second")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/getall", nil))

	var body ListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body.Projects, 2)
	require.Equal(t, "second", body.Projects[0].Title)
}

func TestGet_UnknownIDIs404(t *testing.T) {
	router := newRouter(NewHandler(newFakeStore()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get/"+primitive.NewObjectID().Hex(), nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), `"success":false`)
	require.NotContains(t, w.Body.String(), "null")
}

func TestUpdate_UnknownIDIs404(t *testing.T) {
	router := newRouter(NewHandler(newFakeStore()))

	title := "new title"
	body, _ := json.Marshal(models.UpdateProjectRequest{Title: &title})
	req := httptest.NewRequest(http.MethodPut, "/update/"+primitive.NewObjectID().Hex(), bytes.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), "caller-1"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdate_AppliesProvidedFields(t *testing.T) {
	st := newFakeStore()
	router := newRouter(NewHandler(st))
	addProject(t, router, "old title")
	id := st.order[0]

	title := "new title"
	deployed := true
	body, _ := json.Marshal(models.UpdateProjectRequest{Title: &title, Deployed: &deployed})
	req := httptest.NewRequest(http.MethodPut, "/update/"+id, bytes.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), "caller-2"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	updated := st.projects[id]
	require.Equal(t, "new title", updated.Title)
	require.True(t, updated.Deployed)
	require.Equal(t, "a project", updated.Description, "absent fields untouched")
}
