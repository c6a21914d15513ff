package user

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/portfolio-backend/internal/httpx"
	"github.com/ayush/portfolio-backend/internal/media"
	"github.com/ayush/portfolio-backend/internal/middleware"
	"github.com/ayush/portfolio-backend/internal/models"
	"github.com/ayush/portfolio-backend/internal/store"
	"github.com/ayush/portfolio-backend/internal/token"
)

const (
	maxUploadBytes = 20 << 20

	avatarFolder = "portfolio/avatar"
	resumeFolder = "portfolio/resume"
)

// Store is the user persistence the handlers depend on.
type Store interface {
	Insert(ctx context.Context, u *models.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
}

// TokenRevoker retires a token id at logout.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
}

// Handler holds the user HTTP handlers.
type Handler struct {
	store    Store
	media    media.Uploader
	issuer   *token.Issuer
	revoked  TokenRevoker
	validate *validator.Validate
}

func NewHandler(store Store, uploader media.Uploader, issuer *token.Issuer, revoked TokenRevoker) *Handler {
	return &Handler{
		store:    store,
		media:    uploader,
		issuer:   issuer,
		revoked:  revoked,
		validate: validator.New(),
	}
}

// Response is the uniform success body for the user endpoints.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
}

// Register creates a new user. Both files must upload before anything is
// persisted; on a later failure the assets already uploaded are taken back
// down so no orphans remain.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return httpx.BadRequest("expected multipart form data")
	}

	req := models.RegisterRequest{
		FullName:     r.FormValue("full_name"),
		Email:        r.FormValue("email"),
		Phone:        r.FormValue("phone"),
		AboutMe:      r.FormValue("about_me"),
		Password:     r.FormValue("password"),
		GithubURL:    r.FormValue("github_url"),
		LinkedinURL:  r.FormValue("linkedin_url"),
		InstagramURL: r.FormValue("instagram_url"),
		TwitterURL:   r.FormValue("twitter_url"),
		FacebookURL:  r.FormValue("facebook_url"),
	}
	if err := h.validate.Struct(req); err != nil {
		return httpx.FromValidation(err)
	}

	avatarFile, avatarHeader, err := r.FormFile("avatar")
	if err != nil {
		return httpx.BadRequest("avatar and resume files are required")
	}
	defer avatarFile.Close()

	resumeFile, resumeHeader, err := r.FormFile("resume")
	if err != nil {
		return httpx.BadRequest("avatar and resume files are required")
	}
	defer resumeFile.Close()

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return httpx.Internal("internal error", err)
	}

	avatar, err := h.uploadFile(r.Context(), avatarFolder, avatarFile, avatarHeader)
	if err != nil {
		return httpx.Internal("failed to upload avatar", err)
	}

	resume, err := h.uploadFile(r.Context(), resumeFolder, resumeFile, resumeHeader)
	if err != nil {
		// the avatar is already out there; take it back down
		h.deleteAsset(r.Context(), avatar.PublicID)
		return httpx.Internal("failed to upload resume", err)
	}

	u := &models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		AboutMe:      req.AboutMe,
		Password:     string(hashed),
		Avatar:       avatar,
		Resume:       resume,
		GithubURL:    req.GithubURL,
		LinkedinURL:  req.LinkedinURL,
		InstagramURL: req.InstagramURL,
		TwitterURL:   req.TwitterURL,
		FacebookURL:  req.FacebookURL,
	}

	id, err := h.store.Insert(r.Context(), u)
	if err != nil {
		h.deleteAsset(r.Context(), avatar.PublicID)
		h.deleteAsset(r.Context(), resume.PublicID)
		if errors.Is(err, store.ErrDuplicateEmail) {
			return httpx.BadRequest("email already registered")
		}
		return httpx.Internal("failed to create user", err)
	}

	// Re-fetch to get the full object with _id
	created, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		return httpx.Internal("failed to load user", err)
	}
	return h.respondWithToken(w, created, "user registered", http.StatusCreated)
}

// Login checks the credential and issues a token. Unknown email and wrong
// password get the same answer so neither case is distinguishable.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return httpx.BadRequest("invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return httpx.BadRequest("email and password are required")
	}

	u, err := h.store.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return httpx.Unauthorized("invalid email or password")
		}
		return httpx.Internal("failed to load user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return httpx.Unauthorized("invalid email or password")
	}

	return h.respondWithToken(w, u, "logged in", http.StatusOK)
}

// Logout revokes the current token until its natural expiry and clears
// the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(token.Cookie); err == nil && cookie.Value != "" {
		if claims, err := h.issuer.Verify(cookie.Value); err == nil {
			if err := h.revoked.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				slog.Warn("token revocation failed", "error", err)
			}
		}
	}

	token.ClearCookie(w)
	httpx.JSON(w, http.StatusOK, Response{Success: true, Message: "logged out"})
	return nil
}

// Me returns the caller's own record.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) error {
	u, err := h.store.GetByID(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return httpx.NotFound("user not found")
		}
		return httpx.Internal("failed to load user", err)
	}
	httpx.JSON(w, http.StatusOK, Response{Success: true, Message: "ok", User: u})
	return nil
}

// UpdateProfile applies the provided text fields and optionally replaces
// the avatar and resume assets. Replacements upload first; the old asset
// is removed only after the document write succeeds, and a failed write
// compensates by deleting the fresh uploads.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return httpx.BadRequest("expected multipart form data")
	}

	callerID := middleware.UserID(r.Context())
	current, err := h.store.GetByID(r.Context(), callerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return httpx.NotFound("user not found")
		}
		return httpx.Internal("failed to load user", err)
	}

	upd, err := h.updateFromForm(r.MultipartForm.Value)
	if err != nil {
		return err
	}

	var newAssets, oldAssets []string

	if file, header, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		asset, err := h.uploadFile(r.Context(), avatarFolder, file, header)
		if err != nil {
			return httpx.Internal("failed to upload avatar", err)
		}
		upd.Avatar = &asset
		newAssets = append(newAssets, asset.PublicID)
		if current.Avatar.PublicID != "" {
			oldAssets = append(oldAssets, current.Avatar.PublicID)
		}
	}

	if file, header, err := r.FormFile("resume"); err == nil {
		defer file.Close()
		asset, err := h.uploadFile(r.Context(), resumeFolder, file, header)
		if err != nil {
			for _, id := range newAssets {
				h.deleteAsset(r.Context(), id)
			}
			return httpx.Internal("failed to upload resume", err)
		}
		upd.Resume = &asset
		newAssets = append(newAssets, asset.PublicID)
		if current.Resume.PublicID != "" {
			oldAssets = append(oldAssets, current.Resume.PublicID)
		}
	}

	updated, err := h.store.Update(r.Context(), callerID, upd)
	if err != nil {
		for _, id := range newAssets {
			h.deleteAsset(r.Context(), id)
		}
		if errors.Is(err, store.ErrDuplicateEmail) {
			return httpx.BadRequest("email already registered")
		}
		if errors.Is(err, store.ErrNotFound) {
			return httpx.NotFound("user not found")
		}
		return httpx.Internal("failed to update profile", err)
	}

	// replacements are live; the previous assets are garbage now
	for _, id := range oldAssets {
		h.deleteAsset(r.Context(), id)
	}

	httpx.JSON(w, http.StatusOK, Response{Success: true, Message: "profile updated", User: updated})
	return nil
}

// updateFromForm picks the submitted text fields out of the multipart form
// and re-applies the registration validators to whatever is present.
func (h *Handler) updateFromForm(form map[string][]string) (models.UserUpdate, error) {
	field := func(name string) *string {
		if vals, ok := form[name]; ok && len(vals) > 0 {
			return &vals[0]
		}
		return nil
	}

	upd := models.UserUpdate{
		FullName:     field("full_name"),
		Email:        field("email"),
		Phone:        field("phone"),
		AboutMe:      field("about_me"),
		GithubURL:    field("github_url"),
		LinkedinURL:  field("linkedin_url"),
		InstagramURL: field("instagram_url"),
		TwitterURL:   field("twitter_url"),
		FacebookURL:  field("facebook_url"),
	}

	for name, v := range map[string]*string{
		"full name": upd.FullName,
		"phone":     upd.Phone,
		"about me":  upd.AboutMe,
	} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return models.UserUpdate{}, httpx.BadRequest(name + " cannot be empty")
		}
	}
	if upd.Email != nil {
		if err := h.validate.Var(*upd.Email, "required,email"); err != nil {
			return models.UserUpdate{}, httpx.BadRequest("email is invalid")
		}
	}
	for _, v := range []*string{upd.GithubURL, upd.LinkedinURL, upd.InstagramURL, upd.TwitterURL, upd.FacebookURL} {
		if v != nil && *v != "" {
			if err := h.validate.Var(*v, "url"); err != nil {
				return models.UserUpdate{}, httpx.BadRequest("social link is invalid")
			}
		}
	}
	return upd, nil
}

func (h *Handler) uploadFile(ctx context.Context, folder string, file multipart.File, header *multipart.FileHeader) (models.Asset, error) {
	return h.media.Upload(ctx, folder, header.Filename, file, header.Size, header.Header.Get("Content-Type"))
}

func (h *Handler) deleteAsset(ctx context.Context, publicID string) {
	if err := h.media.Delete(ctx, publicID); err != nil {
		slog.Warn("asset delete failed", "public_id", publicID, "error", err)
	}
}

func (h *Handler) respondWithToken(w http.ResponseWriter, u *models.User, msg string, status int) error {
	raw, err := h.issuer.Issue(u.ID.Hex())
	if err != nil {
		return httpx.Internal("failed to issue token", err)
	}
	token.SetCookie(w, raw, h.issuer.TTL())
	httpx.JSON(w, status, Response{Success: true, Message: msg, User: u})
	return nil
}
