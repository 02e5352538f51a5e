// Package interact implements the comment toggle and the click-handler
// registry for the per-post toggle buttons.
package interact

import (
	"golang.org/x/net/html"

	"github.com/cyderes/post-viewer/internal/dom"
	"github.com/cyderes/post-viewer/internal/render"
)

const postIDAttr = "data-post-id"

// ToggleCommentSection flips the hide class on the comment section tagged
// with postID. It returns nil when postID is empty or no section matches.
func ToggleCommentSection(root *html.Node, postID string) *html.Node {
	if postID == "" {
		return nil
	}
	section := dom.QuerySelector(root, "section", postIDAttr, postID)
	if section == nil {
		return nil
	}
	dom.ToggleClass(section, "hide")
	return section
}

// ToggleCommentButton swaps the label of the toggle button tagged with postID.
func ToggleCommentButton(root *html.Node, postID string) *html.Node {
	if postID == "" {
		return nil
	}
	button := dom.QuerySelector(root, "button", postIDAttr, postID)
	if button == nil {
		return nil
	}
	if dom.TextContent(button) == render.ShowComments {
		dom.SetTextContent(button, render.HideComments)
	} else {
		dom.SetTextContent(button, render.ShowComments)
	}
	return button
}

// ToggleComments toggles both halves independently; a missing half comes
// back nil without stopping the other.
func ToggleComments(root *html.Node, postID string) (section, button *html.Node) {
	section = ToggleCommentSection(root, postID)
	button = ToggleCommentButton(root, postID)
	return section, button
}
