package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Company is the employer block nested in a user record
type Company struct {
	Name        string `json:"name" validate:"required"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs,omitempty"`
}

// User represents a user as returned by the placeholder API
type User struct {
	ID       int     `json:"id" validate:"required,gt=0"`
	Name     string  `json:"name" validate:"required"`
	Username string  `json:"username,omitempty"`
	Email    string  `json:"email,omitempty"`
	Company  Company `json:"company"`
}

// Validate reports whether the user carries enough data to be shown as a post author
func (u *User) Validate() error {
	return validate.Struct(u)
}

// Post represents the original post structure from the API
type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Comment belongs to exactly one post through PostID
type Comment struct {
	PostID int    `json:"postId"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// RefreshRecord tracks the outcome of one refresh cycle
type RefreshRecord struct {
	ID         string    `json:"id" bson:"_id"`
	UserID     int       `json:"user_id" bson:"user_id"`
	Generation uint64    `json:"generation" bson:"generation"`
	Articles   int       `json:"articles" bson:"articles"`
	Stale      bool      `json:"stale" bson:"stale"`
	Error      string    `json:"error,omitempty" bson:"error,omitempty"`
	StartedAt  time.Time `json:"started_at" bson:"started_at"`
	FinishedAt time.Time `json:"finished_at" bson:"finished_at"`
}

// Duration is the wall time the refresh took
func (r RefreshRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
