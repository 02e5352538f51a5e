package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cyderes/post-viewer/internal/config"
	"github.com/cyderes/post-viewer/internal/models"
)

// Client fetches users, posts and comments from the placeholder API.
// Every lookup swallows its own failure: it logs and returns nil.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(cfg config.APIConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Users fetches the full user collection
func (c *Client) Users(ctx context.Context) []models.User {
	var users []models.User
	if err := c.getJSON(ctx, c.baseURL+"/users", &users); err != nil {
		log.Printf("Function getUsers: %v", err)
		return nil
	}
	return users
}

// User fetches a single user by id
func (c *Client) User(ctx context.Context, userID int) *models.User {
	if userID <= 0 {
		return nil
	}
	var user models.User
	if err := c.getJSON(ctx, c.baseURL+"/users/"+strconv.Itoa(userID), &user); err != nil {
		log.Printf("Function getUser %d: %v", userID, err)
		return nil
	}
	return &user
}

// UserPosts fetches the posts written by userID
func (c *Client) UserPosts(ctx context.Context, userID int) []models.Post {
	if userID <= 0 {
		return nil
	}
	var posts []models.Post
	if err := c.getJSON(ctx, c.query("/posts", "userId", userID), &posts); err != nil {
		log.Printf("Function getUserPosts %d: %v", userID, err)
		return nil
	}
	return posts
}

// PostComments fetches the comments attached to postID
func (c *Client) PostComments(ctx context.Context, postID int) []models.Comment {
	if postID <= 0 {
		return nil
	}
	var comments []models.Comment
	if err := c.getJSON(ctx, c.query("/comments", "postId", postID), &comments); err != nil {
		log.Printf("Function getPostComments %d: %v", postID, err)
		return nil
	}
	return comments
}

func (c *Client) query(path, key string, id int) string {
	return c.baseURL + path + "?" + url.Values{key: {strconv.Itoa(id)}}.Encode()
}

// getJSON performs a single GET and decodes the body into out
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
