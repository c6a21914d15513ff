package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a document in the projects collection.
type Project struct {
	ID           primitive.ObjectID `json:"id"           bson:"_id,omitempty"`
	Title        string             `json:"title"        bson:"title"`
	Description  string             `json:"description"  bson:"description"`
	GitRepoURL   string             `json:"git_repo_url" bson:"git_repo_url"`
	ProjectURL   string             `json:"project_url"  bson:"project_url"`
	Technologies []string           `json:"technologies" bson:"technologies"`
	Stack        string             `json:"stack"        bson:"stack"`
	Deployed     bool               `json:"deployed"     bson:"deployed"`
	CreatedBy    string             `json:"created_by"   bson:"created_by"`
	CreatedAt    time.Time          `json:"created_at"   bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"   bson:"updated_at"`
}

// AddProjectRequest is the JSON body for POST /api/v1/project/add.
type AddProjectRequest struct {
	Title        string   `json:"title"        validate:"required"`
	Description  string   `json:"description"  validate:"required"`
	GitRepoURL   string   `json:"git_repo_url" validate:"omitempty,url"`
	ProjectURL   string   `json:"project_url"  validate:"omitempty,url"`
	Technologies []string `json:"technologies"`
	Stack        string   `json:"stack"`
	Deployed     bool     `json:"deployed"`
}

// UpdateProjectRequest is the JSON body for PUT /api/v1/project/update/{id}.
// Absent fields are left untouched.
type UpdateProjectRequest struct {
	Title        *string   `json:"title"        validate:"omitempty,min=1"`
	Description  *string   `json:"description"  validate:"omitempty,min=1"`
	GitRepoURL   *string   `json:"git_repo_url" validate:"omitempty,url"`
	ProjectURL   *string   `json:"project_url"  validate:"omitempty,url"`
	Technologies *[]string `json:"technologies"`
	Stack        *string   `json:"stack"`
	Deployed     *bool     `json:"deployed"`
}
