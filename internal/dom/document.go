package dom

import (
	"errors"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrEmptyDocument is returned when parsing yields no usable element tree.
var ErrEmptyDocument = errors.New("dom: empty document")

// Document wraps a parsed HTML page and answers the element queries the
// issue mapper needs: resolving caller-supplied selectors and running the
// built-in fallback searches for each violation category. A Document is
// read-only after Parse and safe to share across audit runs.
type Document struct {
	doc *goquery.Document
}

// Parse reads and parses an HTML page. The parser is lenient (malformed
// markup still yields a tree), so errors are limited to reader failures.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	if doc.Selection.Length() == 0 {
		return nil, ErrEmptyDocument
	}
	return &Document{doc: doc}, nil
}

// ParseString parses an HTML page held in memory.
func ParseString(content string) (*Document, error) {
	return Parse(strings.NewReader(content))
}

// Resolve returns the first element matching a CSS selector.
func (d *Document) Resolve(selector string) (*html.Node, bool) {
	sel := d.doc.Find(selector)
	if sel.Length() == 0 {
		return nil, false
	}
	return sel.Get(0), true
}

// attr returns an attribute value and whether the attribute is present.
// Presence matters: an empty alt attribute is not the same as a missing one.
func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// walk visits every element node in document order.
func (d *Document) walk(visit func(*html.Node)) {
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.ElementNode {
			visit(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	for _, root := range d.doc.Nodes {
		rec(root)
	}
}
