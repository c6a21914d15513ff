package project

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ayush/portfolio-backend/internal/httpx"
	"github.com/ayush/portfolio-backend/internal/middleware"
	"github.com/ayush/portfolio-backend/internal/models"
	"github.com/ayush/portfolio-backend/internal/store"
)

// Store is the project persistence the handlers depend on.
type Store interface {
	Insert(ctx context.Context, p *models.Project) (string, error)
	List(ctx context.Context) ([]models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Update(ctx context.Context, id string, upd models.UpdateProjectRequest) (*models.Project, error)
}

// Handler holds the project HTTP handlers.
type Handler struct {
	store    Store
	validate *validator.Validate
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store, validate: validator.New()}
}

// Response is the uniform success body for the single-project endpoints.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Project *models.Project `json:"project,omitempty"`
}

// ListResponse always carries a projects array, even when it is empty.
type ListResponse struct {
	Success  bool             `json:"success"`
	Projects []models.Project `json:"projects"`
}

// Add creates a project owned by the authenticated caller.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) error {
	var req models.AddProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return httpx.BadRequest("invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return httpx.FromValidation(err)
	}

	p := &models.Project{
		Title:        req.Title,
		Description:  req.Description,
		GitRepoURL:   req.GitRepoURL,
		ProjectURL:   req.ProjectURL,
		Technologies: req.Technologies,
		Stack:        req.Stack,
		Deployed:     req.Deployed,
		CreatedBy:    middleware.UserID(r.Context()),
	}
	id, err := h.store.Insert(r.Context(), p)
	if err != nil {
		return httpx.Internal("failed to create project", err)
	}

	created, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		return httpx.Internal("failed to load project", err)
	}
	httpx.JSON(w, http.StatusCreated, Response{Success: true, Message: "project added", Project: created})
	return nil
}

// List returns every project, newest first. Public.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	projects, err := h.store.List(r.Context())
	if err != nil {
		return httpx.Internal("failed to list projects", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	httpx.JSON(w, http.StatusOK, ListResponse{Success: true, Projects: projects})
	return nil
}

// Get returns a single project by id. Public.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	p, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return httpx.NotFound("project not found")
		}
		return httpx.Internal("failed to load project", err)
	}
	httpx.JSON(w, http.StatusOK, Response{Success: true, Project: p})
	return nil
}

// Update applies the provided fields to an existing project. Any
// authenticated caller may update any project.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) error {
	var req models.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return httpx.BadRequest("invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return httpx.FromValidation(err)
	}

	id := chi.URLParam(r, "id")
	p, err := h.store.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return httpx.NotFound("project not found")
		}
		return httpx.Internal("failed to update project", err)
	}
	httpx.JSON(w, http.StatusOK, Response{Success: true, Message: "project updated", Project: p})
	return nil
}
