package render

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/cyderes/post-viewer/internal/dom"
	"github.com/cyderes/post-viewer/internal/models"
)

const (
	ShowComments  = "Show Comments"
	HideComments  = "Hide Comments"
	UnknownAuthor = "Unknown author"
	DefaultText   = "Select an Employee to display their posts."
	LoadFailed    = "Failed to load comments."
)

// Source is the subset of the API client the renderer reads from
type Source interface {
	User(ctx context.Context, userID int) *models.User
	PostComments(ctx context.Context, postID int) []models.Comment
}

// Renderer builds post and comment fragments from API data
type Renderer struct {
	source      Source
	concurrency int
}

// NewRenderer creates a renderer that runs at most concurrency lookups at once
func NewRenderer(source Source, concurrency int) *Renderer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Renderer{source: source, concurrency: concurrency}
}

// CreateSelectOptions builds one <option> per user
func CreateSelectOptions(users []models.User) []*html.Node {
	if users == nil {
		return nil
	}
	options := make([]*html.Node, 0, len(users))
	for _, user := range users {
		option := dom.CreateElemWithText("option", user.Name, "")
		dom.SetAttr(option, "value", strconv.Itoa(user.ID))
		options = append(options, option)
	}
	return options
}

// PopulateSelectMenu appends the user options to selectMenu
func PopulateSelectMenu(selectMenu *html.Node, users []models.User) *html.Node {
	if users == nil || selectMenu == nil {
		return nil
	}
	dom.Append(selectMenu, CreateSelectOptions(users)...)
	return selectMenu
}

// CreateComments builds a fragment with one <article> per comment, in order
func CreateComments(comments []models.Comment) *html.Node {
	if comments == nil {
		return nil
	}
	fragment := dom.NewFragment()
	for _, comment := range comments {
		article := dom.NewElement("article")
		dom.Append(article,
			dom.CreateElemWithText("h3", comment.Name, ""),
			dom.CreateElemWithText("p", comment.Body, ""),
			dom.CreateElemWithText("p", "From: "+comment.Email, ""),
		)
		dom.Append(fragment, article)
	}
	return fragment
}

// DisplayComments fetches the comments of postID and wraps them in a
// collapsed comment section
func (r *Renderer) DisplayComments(ctx context.Context, postID int) *html.Node {
	if postID <= 0 {
		return nil
	}
	return commentSection(postID, r.source.PostComments(ctx, postID))
}

func commentSection(postID int, comments []models.Comment) *html.Node {
	section := dom.NewElement("section")
	dom.SetDataset(section, "postId", strconv.Itoa(postID))
	dom.AddClass(section, "comments")
	dom.AddClass(section, "hide")

	fragment := CreateComments(comments)
	if fragment == nil {
		log.Printf("Function displayComments: no comments loaded for post %d", postID)
		dom.Append(section, dom.CreateElemWithText("p", LoadFailed, ""))
		return section
	}
	dom.Append(section, fragment)
	return section
}

// postData is everything one post article needs besides the post itself
type postData struct {
	author   *models.User
	comments []models.Comment
}

// CreatePosts builds one <article> per post, in input order. Each distinct
// author is fetched once; authors and comments are fetched concurrently
// before any article is assembled.
func (r *Renderer) CreatePosts(ctx context.Context, posts []models.Post) *html.Node {
	if posts == nil {
		return nil
	}

	data := r.prefetch(ctx, posts)

	fragment := dom.NewFragment()
	for i, post := range posts {
		dom.Append(fragment, postArticle(post, data[i]))
	}
	return fragment
}

func (r *Renderer) prefetch(ctx context.Context, posts []models.Post) []postData {
	var (
		mu      sync.Mutex
		authors = make(map[int]*models.User)
		seen    = make(map[int]bool)
		data    = make([]postData, len(posts))
		g       errgroup.Group
	)
	g.SetLimit(r.concurrency)

	for _, post := range posts {
		if seen[post.UserID] {
			continue
		}
		seen[post.UserID] = true
		userID := post.UserID
		g.Go(func() error {
			author := r.source.User(ctx, userID)
			mu.Lock()
			authors[userID] = author
			mu.Unlock()
			return nil
		})
	}

	for i, post := range posts {
		g.Go(func() error {
			data[i].comments = r.source.PostComments(ctx, post.ID)
			return nil
		})
	}

	// lookups swallow their own errors
	_ = g.Wait()

	for i, post := range posts {
		data[i].author = authors[post.UserID]
	}
	return data
}

func postArticle(post models.Post, data postData) *html.Node {
	article := dom.NewElement("article")

	authorLine := "Author: " + UnknownAuthor
	catchPhrase := ""
	if author := data.author; author != nil {
		if err := author.Validate(); err != nil {
			log.Printf("Function createPosts: author %d of post %d: %v", post.UserID, post.ID, err)
		} else {
			authorLine = fmt.Sprintf("Author: %s with %s", author.Name, author.Company.Name)
			catchPhrase = author.Company.CatchPhrase
		}
	}

	id := strconv.Itoa(post.ID)
	dom.SetAttr(article, "id", "post-"+id)
	button := dom.CreateElemWithText("button", ShowComments, "")
	dom.SetDataset(button, "postId", id)
	dom.SetAttr(button, "type", "submit")
	dom.SetAttr(button, "name", "postId")
	dom.SetAttr(button, "value", id)

	dom.Append(article,
		dom.CreateElemWithText("h2", post.Title, ""),
		dom.CreateElemWithText("p", post.Body, ""),
		dom.CreateElemWithText("p", "Post ID: "+id, ""),
		dom.CreateElemWithText("p", authorLine, ""),
		dom.CreateElemWithText("p", catchPhrase, ""),
		button,
		commentSection(post.ID, data.comments),
	)
	return article
}

// DisplayPosts appends the rendered posts to main, or the placeholder
// paragraph when there is nothing to show. It does not clear main.
func (r *Renderer) DisplayPosts(ctx context.Context, main *html.Node, posts []models.Post) *html.Node {
	content := r.Build(ctx, posts)
	if main != nil {
		dom.Append(main, content)
	}
	return content
}

// Build returns what DisplayPosts would append, without touching any container
func (r *Renderer) Build(ctx context.Context, posts []models.Post) *html.Node {
	if len(posts) == 0 {
		return Placeholder()
	}
	return r.CreatePosts(ctx, posts)
}

// Placeholder is the paragraph shown when no posts are selected
func Placeholder() *html.Node {
	return dom.CreateElemWithText("p", DefaultText, "default-text")
}
