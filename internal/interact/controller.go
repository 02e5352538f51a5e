package interact

import (
	"golang.org/x/net/html"

	"github.com/cyderes/post-viewer/internal/dom"
)

// Event is a click delivered to a toggle button.
type Event struct {
	Target *html.Node
	PostID string
}

// Handler reacts to a click on a toggle button.
type Handler func(Event)

// Controller keeps the click handlers attached to the toggle buttons under
// root. Handlers are retained by post id so that removal detaches exactly
// the handler that was attached. It is not safe for concurrent use.
type Controller struct {
	root     *html.Node
	handlers map[string]Handler
}

// NewController creates a controller scoped to root.
func NewController(root *html.Node) *Controller {
	return &Controller{
		root:     root,
		handlers: make(map[string]Handler),
	}
}

// AddButtonListeners attaches a toggle handler to every button under root
// that carries a post id, and returns all buttons it scanned.
func (c *Controller) AddButtonListeners() []*html.Node {
	buttons := dom.QuerySelectorAll(c.root, "button")
	for _, button := range buttons {
		postID := dom.Dataset(button, "postId")
		if postID == "" {
			continue
		}
		c.handlers[postID] = c.toggleHandler(postID)
	}
	return buttons
}

// RemoveButtonListeners detaches the handler held for every button under
// root that carries a post id, and returns all buttons it scanned.
func (c *Controller) RemoveButtonListeners() []*html.Node {
	buttons := dom.QuerySelectorAll(c.root, "button")
	for _, button := range buttons {
		postID := dom.Dataset(button, "postId")
		if postID == "" {
			continue
		}
		delete(c.handlers, postID)
	}
	return buttons
}

// Click dispatches a click on the button tagged with postID. It reports
// false when no handler is attached for that id.
func (c *Controller) Click(postID string) bool {
	handler, ok := c.handlers[postID]
	if !ok {
		return false
	}
	handler(Event{
		Target: dom.QuerySelector(c.root, "button", postIDAttr, postID),
		PostID: postID,
	})
	return true
}

// Listeners returns the number of attached handlers.
func (c *Controller) Listeners() int {
	return len(c.handlers)
}

func (c *Controller) toggleHandler(postID string) Handler {
	return func(Event) {
		ToggleComments(c.root, postID)
	}
}
