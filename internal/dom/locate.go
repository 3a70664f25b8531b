package dom

import (
	"golang.org/x/net/html"
)

// labelableInputTypes are the input types that require an accessible label.
var labelableInputTypes = map[string]bool{
	"text":     true,
	"email":    true,
	"password": true,
	"tel":      true,
	"url":      true,
}

// Location identifies the most representative element for a violation plus
// how many elements matched the search. Count is zero when a fallback search
// found nothing and the location degraded to root scope.
type Location struct {
	Path     string
	Selector string
	Count    int
}

// HTMLRoot binds a violation to the whole page, e.g. transport security.
func (d *Document) HTMLRoot() Location {
	return Location{Path: "//html", Selector: "html", Count: 1}
}

// BodyRoot binds a violation to the page body when no single element offends.
func (d *Document) BodyRoot() Location {
	return Location{Path: "//body", Selector: "body", Count: 1}
}

// Locate resolves a caller-supplied element reference. The returned Location
// describes the first matching element.
func (d *Document) Locate(selector string) (Location, bool) {
	n, ok := d.Resolve(selector)
	if !ok {
		return Location{}, false
	}
	return locationFor(n, 1), true
}

// ImagesMissingAlt finds every img with no alt attribute at all. An empty
// alt="" marks a decorative image and is compliant, so it does not count.
func (d *Document) ImagesMissingAlt() Location {
	var matches []*html.Node
	d.walk(func(n *html.Node) {
		if n.Data != "img" {
			return
		}
		if _, ok := attr(n, "alt"); !ok {
			matches = append(matches, n)
		}
	})
	return d.firstOrRoot(matches)
}

// UnlabeledInputs finds text-like inputs that carry neither an aria-label
// nor an associated <label for=ID>.
func (d *Document) UnlabeledInputs() Location {
	labeled := make(map[string]bool)
	d.walk(func(n *html.Node) {
		if n.Data != "label" {
			return
		}
		if forID, ok := attr(n, "for"); ok && forID != "" {
			labeled[forID] = true
		}
	})

	var matches []*html.Node
	d.walk(func(n *html.Node) {
		if n.Data != "input" {
			return
		}
		typ, ok := attr(n, "type")
		if !ok || !labelableInputTypes[typ] {
			return
		}
		if _, ok := attr(n, "aria-label"); ok {
			return
		}
		if id, ok := attr(n, "id"); ok && labeled[id] {
			return
		}
		matches = append(matches, n)
	})
	return d.firstOrRoot(matches)
}

// KeyboardInaccessible finds anchors without an href and any element removed
// from the tab order with tabindex="-1", in document order.
func (d *Document) KeyboardInaccessible() Location {
	var matches []*html.Node
	d.walk(func(n *html.Node) {
		if n.Data == "a" {
			if _, ok := attr(n, "href"); !ok {
				matches = append(matches, n)
				return
			}
		}
		if ti, ok := attr(n, "tabindex"); ok && ti == "-1" {
			matches = append(matches, n)
		}
	})
	return d.firstOrRoot(matches)
}

// firstOrRoot builds a Location from the first match. An empty match list
// degrades to a root-scoped location rather than an error: the caller passed
// a violation it believes in, and the report must still carry it.
func (d *Document) firstOrRoot(matches []*html.Node) Location {
	if len(matches) == 0 {
		loc := d.BodyRoot()
		loc.Count = 0
		return loc
	}
	return locationFor(matches[0], len(matches))
}

func locationFor(n *html.Node, count int) Location {
	return Location{
		Path:     Path(n),
		Selector: Selector(n),
		Count:    count,
	}
}
