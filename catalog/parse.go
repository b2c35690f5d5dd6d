package catalog

import (
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	abvPattern = regexp.MustCompile(`(\d+\.?\d*)\s*%`)
	ibuPattern = regexp.MustCompile(`(?i)(\d+)\s*IBU|IBU\s*:?\s*(\d+)`)
)

// ParseCatalog extracts beer records from the catalog page markup.
// The site doesn't publish a structured feed, so extraction leans on
// tag/class heuristics; entries that can't be parsed are skipped.
func ParseCatalog(rawHTML, baseURL string) []Beer {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		log.Printf("⚠️ Failed to parse catalog HTML: %v", err)
		return nil
	}

	elements := findAll(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Div && hasClass(n, "beer-item")
	})
	if len(elements) == 0 {
		// Alternative markup used by the store template
		elements = findAll(doc, func(n *html.Node) bool {
			return n.DataAtom == atom.Article && hasClass(n, "product")
		})
	}
	if len(elements) == 0 {
		log.Println("⚠️ No beer elements found with known selectors")
		return nil
	}

	var beers []Beer
	for idx, el := range elements {
		beer, ok := parseBeerElement(el, baseURL)
		if !ok {
			log.Printf("⚠️ Skipping unparseable beer element %d", idx)
			continue
		}
		beers = append(beers, beer)
	}
	return beers
}

func parseBeerElement(el *html.Node, baseURL string) (Beer, bool) {
	name := headingText(el)
	if name == "" {
		return Beer{}, false
	}

	style := "Unknown"
	if styleEl := findFirst(el, func(n *html.Node) bool {
		return hasAnyClass(n, "style", "beer-style", "category")
	}); styleEl != nil {
		if s := strings.TrimSpace(textContent(styleEl)); s != "" {
			style = s
		}
	}

	var abv float64
	if text := findText(el, "ABV"); text != "" {
		if m := abvPattern.FindStringSubmatch(text); m != nil {
			abv, _ = strconv.ParseFloat(m[1], 64)
		}
	}

	var ibu *int
	if text := findText(el, "IBU"); text != "" {
		if m := ibuPattern.FindStringSubmatch(text); m != nil {
			raw := m[1]
			if raw == "" {
				raw = m[2]
			}
			if v, err := strconv.Atoi(raw); err == nil {
				ibu = &v
			}
		}
	}

	description := ""
	descEl := findFirst(el, func(n *html.Node) bool {
		if n.DataAtom != atom.P && n.DataAtom != atom.Div {
			return false
		}
		return hasAnyClass(n, "description", "excerpt", "beer-description")
	})
	if descEl == nil {
		descEl = findFirst(el, func(n *html.Node) bool { return n.DataAtom == atom.P })
	}
	if descEl != nil {
		description = strings.TrimSpace(textContent(descEl))
	}

	imageURL := ""
	if img := findFirst(el, func(n *html.Node) bool { return n.DataAtom == atom.Img }); img != nil {
		src := attr(img, "src")
		if src == "" {
			src = attr(img, "data-src")
		}
		imageURL = absoluteURL(src, baseURL)
	}

	return Beer{
		ID:          Slugify(name),
		Name:        name,
		Style:       style,
		ABV:         abv,
		IBU:         ibu,
		Description: description,
		ImageURL:    imageURL,
	}, true
}

// Slugify derives a catalog id from a beer name.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	return s
}

// headingText returns the text of the first heading inside el, preferring
// headings with known title classes.
func headingText(el *html.Node) string {
	isHeading := func(n *html.Node) bool {
		switch n.DataAtom {
		case atom.H2, atom.H3, atom.H4:
			return true
		}
		return false
	}

	h := findFirst(el, func(n *html.Node) bool {
		return isHeading(n) && hasAnyClass(n, "title", "product-title", "beer-name")
	})
	if h == nil {
		h = findFirst(el, isHeading)
	}
	if h == nil {
		return ""
	}
	return strings.TrimSpace(textContent(h))
}

// findText returns the first text node under el containing the marker
// (case-insensitive), e.g. "5.5% ABV" or "IBU: 40".
func findText(el *html.Node, marker string) string {
	var result string
	walk(el, func(n *html.Node) bool {
		if n.Type == html.TextNode && strings.Contains(strings.ToUpper(n.Data), marker) {
			result = n.Data
			return false
		}
		return true
	})
	return result
}

func absoluteURL(src, baseURL string) string {
	if src == "" {
		return ""
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}

// walk visits nodes depth-first until fn returns false.
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

func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
			return true
		}
		return true
	})
	return out
}

func findFirst(root *html.Node, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func hasAnyClass(n *html.Node, classes ...string) bool {
	for _, c := range classes {
		if hasClass(n, c) {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
