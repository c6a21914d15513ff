package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Asset references a file held by the external media-hosting service.
type Asset struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url"       bson:"url"`
}

// User is a document in the users collection.
type User struct {
	ID           primitive.ObjectID `json:"id"                      bson:"_id,omitempty"`
	FullName     string             `json:"full_name"               bson:"full_name"`
	Email        string             `json:"email"                   bson:"email"`
	Phone        string             `json:"phone"                   bson:"phone"`
	AboutMe      string             `json:"about_me"                bson:"about_me"`
	Password     string             `json:"-"                       bson:"password"` // never serialize
	Avatar       Asset              `json:"avatar"                  bson:"avatar"`
	Resume       Asset              `json:"resume"                  bson:"resume"`
	GithubURL    string             `json:"github_url,omitempty"    bson:"github_url,omitempty"`
	LinkedinURL  string             `json:"linkedin_url,omitempty"  bson:"linkedin_url,omitempty"`
	InstagramURL string             `json:"instagram_url,omitempty" bson:"instagram_url,omitempty"`
	TwitterURL   string             `json:"twitter_url,omitempty"   bson:"twitter_url,omitempty"`
	FacebookURL  string             `json:"facebook_url,omitempty"  bson:"facebook_url,omitempty"`
	CreatedAt    time.Time          `json:"created_at"              bson:"created_at"`
}

// RegisterRequest carries the text fields of the multipart register form.
type RegisterRequest struct {
	FullName     string `validate:"required"`
	Email        string `validate:"required,email"`
	Phone        string `validate:"required"`
	AboutMe      string `validate:"required"`
	Password     string `validate:"required"`
	GithubURL    string `validate:"omitempty,url"`
	LinkedinURL  string `validate:"omitempty,url"`
	InstagramURL string `validate:"omitempty,url"`
	TwitterURL   string `validate:"omitempty,url"`
	FacebookURL  string `validate:"omitempty,url"`
}

// LoginRequest is the JSON body for POST /api/v1/user/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdate lists the profile fields an update may touch.
// Nil pointers leave the stored value untouched.
type UserUpdate struct {
	FullName     *string
	Email        *string
	Phone        *string
	AboutMe      *string
	GithubURL    *string
	LinkedinURL  *string
	InstagramURL *string
	TwitterURL   *string
	FacebookURL  *string
	Avatar       *Asset
	Resume       *Asset
}
