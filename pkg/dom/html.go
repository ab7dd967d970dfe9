package dom

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLDocument is a Document backed by an x/net/html node tree.
type HTMLDocument struct {
	root *html.Node
}

// Parse reads a full HTML page.
func Parse(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &HTMLDocument{root: root}, nil
}

// Render writes the (possibly modified) page back out.
func (d *HTMLDocument) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *HTMLDocument) ElementByID(id string) Element {
	n := find(d.root, func(n *html.Node) bool {
		v, ok := attr(n, "id")
		return ok && v == id
	})
	if n == nil {
		return nil
	}
	return &node{n: n}
}

func (d *HTMLDocument) Field(name string) Element {
	n := find(d.root, func(n *html.Node) bool {
		switch n.DataAtom {
		case atom.Input, atom.Select, atom.Textarea:
			v, ok := attr(n, "name")
			return ok && v == name
		}
		return false
	})
	if n == nil {
		return nil
	}
	return &node{n: n}
}

func (d *HTMLDocument) ElementsByClass(class string) []Element {
	var out []Element
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && slices.Contains(classes(n), class) {
			out = append(out, &node{n: n})
		}
		return true
	})
	return out
}

func (d *HTMLDocument) CreateElement(tag string) Element {
	tag = strings.ToLower(tag)
	return &node{n: &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}}
}

type node struct {
	n *html.Node
}

func (e *node) Tag() string { return e.n.Data }

func (e *node) Attr(name string) (string, bool) { return attr(e.n, name) }

func (e *node) SetAttr(name, value string) {
	for i := range e.n.Attr {
		if e.n.Attr[i].Namespace == "" && e.n.Attr[i].Key == name {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

func (e *node) AddClass(add ...string) {
	current := classes(e.n)
	for _, c := range add {
		if !slices.Contains(current, c) {
			current = append(current, c)
		}
	}
	e.SetAttr("class", strings.Join(current, " "))
}

func (e *node) RemoveClass(remove ...string) {
	if _, ok := e.Attr("class"); !ok {
		return
	}
	current := slices.DeleteFunc(classes(e.n), func(c string) bool {
		return slices.Contains(remove, c)
	})
	e.SetAttr("class", strings.Join(current, " "))
}

func (e *node) HasClass(class string) bool {
	return slices.Contains(classes(e.n), class)
}

func (e *node) Value() string {
	switch e.n.DataAtom {
	case atom.Textarea:
		return textOf(e.n)
	case atom.Select:
		return selectValue(e.n)
	}
	v, _ := attr(e.n, "value")
	return v
}

func (e *node) Text() string { return textOf(e.n) }

func (e *node) SetText(text string) {
	removeChildren(e.n)
	e.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (e *node) SetInnerHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.n)
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	removeChildren(e.n)
	for _, c := range nodes {
		e.n.AppendChild(c)
	}
	return nil
}

func (e *node) InsertAfter(ref Element) {
	r, ok := ref.(*node)
	if !ok || r.n.Parent == nil || r.n == e.n {
		return
	}
	e.Remove()
	r.n.Parent.InsertBefore(e.n, r.n.NextSibling)
}

func (e *node) Remove() {
	if e.n.Parent != nil {
		e.n.Parent.RemoveChild(e.n)
	}
}

func (e *node) Attached() bool { return e.n.Parent != nil }

// selectValue mirrors browser behaviour: the selected option wins, otherwise
// the first option; an option without a value attribute uses its text.
func selectValue(sel *html.Node) string {
	var first, selected *html.Node
	walk(sel, func(n *html.Node) bool {
		if n.DataAtom != atom.Option {
			return true
		}
		if first == nil {
			first = n
		}
		if _, ok := attr(n, "selected"); ok {
			selected = n
			return false
		}
		return true
	})
	opt := selected
	if opt == nil {
		opt = first
	}
	if opt == nil {
		return ""
	}
	if v, ok := attr(opt, "value"); ok {
		return v
	}
	return strings.TrimSpace(textOf(opt))
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func classes(n *html.Node) []string {
	v, _ := attr(n, "class")
	return strings.Fields(v)
}

func textOf(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

// walk visits n and its descendants in document order until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func find(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}
