// Package page wraps a parsed HTML document with the small query surface
// the audit checks need.
package page

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page. Parsing is permissive: malformed markup
// yields a best-effort tree, never an error.
type Document struct {
	doc *goquery.Document
}

// Element is a single node of a Document.
type Element struct {
	sel *goquery.Selection
}

// Parse builds a Document from an HTML body.
func Parse(body string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// First returns the first element with the given tag name.
func (d *Document) First(tag string) (*Element, bool) {
	sel := d.doc.Find(tag).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &Element{sel: sel}, true
}

// FirstWhere returns the first tag element whose attr equals value exactly.
func (d *Document) FirstWhere(tag, attr, value string) (*Element, bool) {
	sel := d.doc.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr(attr)
		return ok && v == value
	}).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &Element{sel: sel}, true
}

// All returns every element with the given tag name in document order.
func (d *Document) All(tag string) []*Element {
	return wrap(d.doc.Find(tag))
}

// AllWithAttr returns every tag element carrying attr, whatever its value.
func (d *Document) AllWithAttr(tag, attr string) []*Element {
	return wrap(d.doc.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		_, ok := s.Attr(attr)
		return ok
	}))
}

// Text returns the visible text of the page: every text node trimmed and
// joined by single spaces. Script, style and template contents are skipped.
func (d *Document) Text() string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Template:
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range d.doc.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

// Tokens splits a space-separated attribute such as rel or class.
// A missing attribute yields nil.
func (e *Element) Tokens(name string) []string {
	v, ok := e.sel.Attr(name)
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

// Text returns the element's text content with surrounding whitespace trimmed.
func (e *Element) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

func wrap(sel *goquery.Selection) []*Element {
	out := make([]*Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{sel: s})
	})
	return out
}
