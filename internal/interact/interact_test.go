package interact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/cyderes/post-viewer/internal/dom"
	"github.com/cyderes/post-viewer/internal/render"
)

// postArticle mirrors the button/section pair the renderer emits
func postArticle(postID string) *html.Node {
	button := dom.CreateElemWithText("button", render.ShowComments, "")
	dom.SetDataset(button, "postId", postID)
	section := dom.NewElement("section")
	dom.SetDataset(section, "postId", postID)
	dom.AddClass(section, "comments")
	dom.AddClass(section, "hide")

	article := dom.NewElement("article")
	dom.Append(article, button, section)
	return article
}

func newMain(postIDs ...string) *html.Node {
	main := dom.NewElement("main")
	for _, id := range postIDs {
		dom.Append(main, postArticle(id))
	}
	return main
}

func TestToggleComments_OnceFlipsBoth(t *testing.T) {
	main := newMain("1")

	section, button := ToggleComments(main, "1")

	require.NotNil(t, section)
	require.NotNil(t, button)
	assert.Equal(t, []string{"comments"}, dom.Classes(section))
	assert.Equal(t, render.HideComments, dom.TextContent(button))
}

func TestToggleComments_TwiceRestores(t *testing.T) {
	main := newMain("1", "2")
	before := dom.String(main)

	ToggleComments(main, "2")
	ToggleComments(main, "2")

	assert.Equal(t, before, dom.String(main))
}

func TestToggleComments_OnlyTouchesMatchingPost(t *testing.T) {
	main := newMain("1", "2")

	ToggleComments(main, "1")

	other := dom.QuerySelector(main, "section", "data-post-id", "2")
	assert.True(t, dom.HasClass(other, "hide"))
	assert.Equal(t, render.ShowComments, dom.TextContent(dom.QuerySelector(main, "button", "data-post-id", "2")))
}

func TestToggleComments_MissingHalf(t *testing.T) {
	main := dom.NewElement("main")
	section := dom.NewElement("section")
	dom.SetDataset(section, "postId", "4")
	dom.AddClass(section, "hide")
	dom.Append(main, section)

	gotSection, gotButton := ToggleComments(main, "4")

	assert.Same(t, section, gotSection)
	assert.Nil(t, gotButton)
	assert.False(t, dom.HasClass(section, "hide"))
}

func TestToggleComments_UnknownPost(t *testing.T) {
	main := newMain("1")

	section, button := ToggleComments(main, "42")

	assert.Nil(t, section)
	assert.Nil(t, button)
	assert.Nil(t, ToggleCommentSection(main, ""))
	assert.Nil(t, ToggleCommentButton(main, ""))
}

func TestController_AddButtonListeners(t *testing.T) {
	main := newMain("1", "2")
	dom.Append(main, dom.CreateElemWithText("button", "untagged", ""))
	c := NewController(main)

	buttons := c.AddButtonListeners()

	assert.Len(t, buttons, 3)
	assert.Equal(t, 2, c.Listeners())
}

func TestController_Click(t *testing.T) {
	main := newMain("1")
	c := NewController(main)
	c.AddButtonListeners()

	assert.True(t, c.Click("1"))
	assert.False(t, dom.HasClass(dom.QuerySelector(main, "section", "data-post-id", "1"), "hide"))
	assert.Equal(t, render.HideComments, dom.TextContent(dom.QuerySelector(main, "button", "data-post-id", "1")))

	assert.False(t, c.Click("9"))
}

func TestController_RepeatedAttachDoesNotStackHandlers(t *testing.T) {
	main := newMain("1")
	c := NewController(main)

	for i := 0; i < 3; i++ {
		c.RemoveButtonListeners()
		c.AddButtonListeners()
	}
	c.Click("1")

	assert.Equal(t, 1, c.Listeners())
	assert.Equal(t, render.HideComments, dom.TextContent(dom.QuerySelector(main, "button", "data-post-id", "1")))
}

func TestController_RemoveButtonListeners(t *testing.T) {
	main := newMain("1", "2")
	c := NewController(main)
	c.AddButtonListeners()

	buttons := c.RemoveButtonListeners()

	assert.Len(t, buttons, 2)
	assert.Equal(t, 0, c.Listeners())
	assert.False(t, c.Click("1"))
	assert.True(t, dom.HasClass(dom.QuerySelector(main, "section", "data-post-id", "1"), "hide"))
}
