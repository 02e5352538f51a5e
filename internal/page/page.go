// Package page owns the live document: the user select menu, the main post
// container and the toggle handlers attached to it. It runs the refresh
// cycle triggered by a user selection.
package page

import (
	"context"
	"io"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/cyderes/post-viewer/internal/dom"
	"github.com/cyderes/post-viewer/internal/interact"
	"github.com/cyderes/post-viewer/internal/models"
	"github.com/cyderes/post-viewer/internal/render"
)

const (
	SelectMenuID   = "selectMenu"
	DefaultUserID  = 1
	selectAction   = "/select"
	toggleAction   = "/toggle"
	pageTitle      = "Employee Posts"
	selectLabel    = "Employees"
	selectFallback = "Show Posts"
)

// Source is everything the page reads from the API
type Source interface {
	render.Source
	Users(ctx context.Context) []models.User
	UserPosts(ctx context.Context, userID int) []models.Post
}

// Recorder persists the outcome of each refresh cycle
type Recorder interface {
	RecordRefresh(ctx context.Context, record models.RefreshRecord) error
}

// Page is the server-held document. All DOM access goes through mu;
// network lookups run outside it.
type Page struct {
	mu         sync.Mutex
	doc        *html.Node
	selectMenu *html.Node
	main       *html.Node
	controller *interact.Controller
	generation uint64
	userID     int

	source   Source
	renderer *render.Renderer
	recorder Recorder
}

// New builds an empty page. recorder may be nil.
func New(source Source, concurrency int, recorder Recorder) *Page {
	p := &Page{
		source:   source,
		renderer: render.NewRenderer(source, concurrency),
		recorder: recorder,
	}
	p.build()
	p.controller = interact.NewController(p.main)
	return p
}

func (p *Page) build() {
	p.doc = dom.NewFragment()
	p.doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	head := dom.NewElement("head")
	meta := dom.NewElement("meta")
	dom.SetAttr(meta, "charset", "utf-8")
	dom.Append(head, meta, dom.CreateElemWithText("title", pageTitle, ""))

	p.selectMenu = dom.NewElement("select")
	dom.SetAttr(p.selectMenu, "id", SelectMenuID)
	dom.SetAttr(p.selectMenu, "name", "userId")
	dom.SetAttr(p.selectMenu, "onchange", "this.form.submit()")
	placeholder := dom.CreateElemWithText("option", selectLabel, "")
	dom.SetAttr(placeholder, "value", "")
	dom.Append(p.selectMenu, placeholder)

	submit := dom.CreateElemWithText("button", selectFallback, "")
	dom.SetAttr(submit, "type", "submit")

	selectForm := dom.NewElement("form")
	dom.SetAttr(selectForm, "method", "post")
	dom.SetAttr(selectForm, "action", selectAction)
	dom.Append(selectForm, p.selectMenu, submit)

	header := dom.NewElement("header")
	dom.Append(header, dom.CreateElemWithText("h1", pageTitle, ""), selectForm)

	p.main = dom.NewElement("main")
	dom.Append(p.main, render.Placeholder())

	toggleForm := dom.NewElement("form")
	dom.SetAttr(toggleForm, "method", "post")
	dom.SetAttr(toggleForm, "action", toggleAction)
	dom.Append(toggleForm, p.main)

	body := dom.NewElement("body")
	dom.Append(body, header, toggleForm)

	root := dom.NewElement("html")
	dom.SetAttr(root, "lang", "en")
	dom.Append(root, head, body)
	p.doc.AppendChild(root)
}

// InitPage fetches every user and fills the select menu with one option per user
func (p *Page) InitPage(ctx context.Context) []models.User {
	users := p.source.Users(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, option := range dom.Children(p.selectMenu) {
		if v, _ := dom.Attr(option, "value"); v != "" {
			p.selectMenu.RemoveChild(option)
		}
	}
	if render.PopulateSelectMenu(p.selectMenu, users) == nil {
		log.Printf("Function initPage: no users loaded")
	}
	return users
}

// SelectChange runs one refresh cycle for userID (DefaultUserID when zero).
// The select menu is disabled while posts are fetched and rendered. If a newer
// refresh starts in the meantime this one discards its render and reports Stale.
func (p *Page) SelectChange(ctx context.Context, userID int) models.RefreshRecord {
	if userID <= 0 {
		userID = DefaultUserID
	}
	record := models.RefreshRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		StartedAt: time.Now().UTC(),
	}

	p.mu.Lock()
	p.generation++
	record.Generation = p.generation
	dom.SetAttr(p.selectMenu, "disabled", "disabled")
	p.mu.Unlock()

	posts := p.source.UserPosts(ctx, userID)
	if posts == nil {
		record.Error = "failed to load posts"
	}
	content := p.renderer.Build(ctx, posts)

	p.mu.Lock()
	if record.Generation != p.generation {
		record.Stale = true
	} else {
		p.controller.RemoveButtonListeners()
		dom.DeleteChildElements(p.main)
		dom.Append(p.main, content)
		p.controller.AddButtonListeners()
		p.markSelected(userID)
		dom.RemoveAttr(p.selectMenu, "disabled")
		record.Articles = p.articleCount()
	}
	p.mu.Unlock()

	record.FinishedAt = time.Now().UTC()
	p.record(ctx, record)
	return record
}

func (p *Page) markSelected(userID int) {
	p.userID = userID
	want := strconv.Itoa(userID)
	for _, option := range dom.Children(p.selectMenu) {
		if v, _ := dom.Attr(option, "value"); v == want {
			dom.SetAttr(option, "selected", "selected")
		} else {
			dom.RemoveAttr(option, "selected")
		}
	}
}

func (p *Page) articleCount() int {
	n := 0
	for _, child := range dom.Children(p.main) {
		if child.Data == "article" {
			n++
		}
	}
	return n
}

func (p *Page) record(ctx context.Context, record models.RefreshRecord) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.RecordRefresh(context.WithoutCancel(ctx), record); err != nil {
		log.Printf("Failed to record refresh %s: %v", record.ID, err)
	}
}

// Click delivers a click to the toggle button of postID
func (p *Page) Click(postID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.controller.Click(postID)
}

// Render writes the whole document as HTML
func (p *Page) Render(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return dom.Render(w, p.doc)
}

// RenderMain writes only the main container
func (p *Page) RenderMain(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return dom.Render(w, p.main)
}

// Disabled reports whether the select menu is currently disabled
func (p *Page) Disabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := dom.Attr(p.selectMenu, "disabled")
	return ok
}

// Selected returns the user whose posts are on display, or zero
func (p *Page) Selected() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.userID
}

// Articles returns the number of post articles currently displayed
func (p *Page) Articles() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.articleCount()
}

// Listeners returns the number of attached toggle handlers
func (p *Page) Listeners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.controller.Listeners()
}
