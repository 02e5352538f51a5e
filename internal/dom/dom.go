// Package dom is a small element toolkit over golang.org/x/net/html nodes.
// It gives the page the handful of browser DOM operations it needs:
// element creation, fragments, data attributes, class lists and scoped queries.
package dom

import (
	"bytes"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewElement creates an empty element node for tag.
func NewElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
	}
}

// CreateElemWithText creates an element holding a single text node.
// An empty tag defaults to "p"; className is only set when non-empty.
func CreateElemWithText(tag, text, className string) *html.Node {
	if tag == "" {
		tag = "p"
	}
	el := NewElement(tag)
	SetTextContent(el, text)
	if className != "" {
		SetAttr(el, "class", className)
	}
	return el
}

// NewFragment returns a detached container whose children are moved,
// not nested, when passed to Append.
func NewFragment() *html.Node {
	return &html.Node{Type: html.DocumentNode}
}

// IsFragment reports whether n was created by NewFragment.
func IsFragment(n *html.Node) bool {
	return n != nil && n.Type == html.DocumentNode && n.Parent == nil
}

// Append adds nodes to parent in order. Fragments are emptied into parent.
// Nil nodes are skipped.
func Append(parent *html.Node, nodes ...*html.Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if IsFragment(n) {
			for c := n.FirstChild; c != nil; c = n.FirstChild {
				n.RemoveChild(c)
				parent.AppendChild(c)
			}
			continue
		}
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		parent.AppendChild(n)
	}
}

// DeleteChildElements removes every element child of parent, last first.
// It returns nil when parent is not an element.
func DeleteChildElements(parent *html.Node) *html.Node {
	if parent == nil || parent.Type != html.ElementNode {
		return nil
	}
	for child := lastElementChild(parent); child != nil; child = lastElementChild(parent) {
		parent.RemoveChild(child)
	}
	return parent
}

func lastElementChild(n *html.Node) *html.Node {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// Children returns the element children of n.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	if n == nil {
		return out
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Attr returns the value of key and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces key on n.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr drops key from n if present.
func RemoveAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

// DataKey maps a dataset name like "postId" to its attribute "data-post-id".
func DataKey(name string) string {
	var b strings.Builder
	b.WriteString("data-")
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Dataset reads a data-* attribute by its camelCase name.
func Dataset(n *html.Node, name string) string {
	v, _ := Attr(n, DataKey(name))
	return v
}

// SetDataset writes a data-* attribute by its camelCase name.
func SetDataset(n *html.Node, name, val string) {
	SetAttr(n, DataKey(name), val)
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// HasClass reports whether class is in n's class list.
func HasClass(n *html.Node, class string) bool {
	for _, c := range Classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class unless already present.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	SetAttr(n, "class", strings.Join(append(Classes(n), class), " "))
}

// ToggleClass flips class on n and returns whether it is now present.
func ToggleClass(n *html.Node, class string) bool {
	classes := Classes(n)
	kept := classes[:0]
	removed := false
	for _, c := range classes {
		if c == class {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		kept = append(kept, class)
	}
	if len(kept) == 0 {
		RemoveAttr(n, "class")
	} else {
		SetAttr(n, "class", strings.Join(kept, " "))
	}
	return !removed
}

// TextContent concatenates all descendant text of n.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(TextContent(c))
	}
	return b.String()
}

// SetTextContent replaces all children of n with one text node.
func SetTextContent(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// walk visits every element below root in document order until fn returns false.
func walk(root *html.Node, fn func(*html.Node) bool) bool {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && !fn(c) {
			return false
		}
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// QuerySelector finds the first tag element below root whose attr equals value,
// the equivalent of `tag[attr='value']`. An empty attr matches any tag element.
func QuerySelector(root *html.Node, tag, attr, value string) *html.Node {
	if root == nil {
		return nil
	}
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Data != tag {
			return true
		}
		if attr != "" {
			if v, ok := Attr(n, attr); !ok || v != value {
				return true
			}
		}
		found = n
		return false
	})
	return found
}

// QuerySelectorAll returns every tag element below root in document order.
func QuerySelectorAll(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	if root == nil {
		return out
	}
	walk(root, func(n *html.Node) bool {
		if n.Data == tag {
			out = append(out, n)
		}
		return true
	})
	return out
}

// GetElementByID finds the element below root with the given id.
func GetElementByID(root *html.Node, id string) *html.Node {
	if root == nil {
		return nil
	}
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if v, ok := Attr(n, "id"); ok && v == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Render writes n as HTML. Fragments render their children.
func Render(w io.Writer, n *html.Node) error {
	if IsFragment(n) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(w, c); err != nil {
				return err
			}
		}
		return nil
	}
	return html.Render(w, n)
}

// String renders n to a string, mostly for tests and logs.
func String(n *html.Node) string {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
