package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Path returns the root-to-node structural path for an element, e.g.
// //body/div[2]/img. Levels where siblings share the element's tag carry a
// 1-based index qualifier. The walk stops below the document node, so the
// html element itself never appears inside a generated path.
func Path(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}

	var segments []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		parent := cur.Parent
		if parent == nil || parent.Type == html.DocumentNode {
			break
		}
		segments = append(segments, pathSegment(cur, parent))
	}

	if len(segments) == 0 {
		return "//" + n.Data
	}

	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return "//" + strings.Join(segments, "/")
}

// pathSegment renders one path level, adding an index when the parent has
// more than one child with the same tag.
func pathSegment(n, parent *html.Node) string {
	index, total := 0, 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != n.Data {
			continue
		}
		total++
		if c == n {
			index = total
		}
	}
	if total > 1 {
		return fmt.Sprintf("%s[%d]", n.Data, index)
	}
	return n.Data
}

// Selector returns a compact selector that re-locates the element:
// #id when an id exists, tag.class1.class2 when classes exist, else the tag.
func Selector(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	if id, ok := attr(n, "id"); ok && id != "" {
		return "#" + id
	}
	if class, ok := attr(n, "class"); ok {
		if names := strings.Fields(class); len(names) > 0 {
			return n.Data + "." + strings.Join(names, ".")
		}
	}
	return n.Data
}
