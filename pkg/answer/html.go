package answer

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var imagePattern = regexp.MustCompile(`\[IMAGE:\s*(.*?)\]`)

// EnsureHTML normalizes a model reply for rich rendering: markdown code
// fences are stripped, [IMAGE: ...] placeholders become placeholder image
// tags and replies without any HTML element are wrapped in paragraph markup.
func EnsureHTML(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```html") && strings.HasSuffix(text, "```") && len(text) >= 10 {
		text = strings.TrimSpace(text[7 : len(text)-3])
	} else if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") && len(text) >= 6 {
		text = strings.TrimSpace(text[3 : len(text)-3])
	}

	text = imagePattern.ReplaceAllStringFunc(text, replaceImagePlaceholder)

	if containsHTMLElement(text) {
		return text
	}

	return "<p>" + strings.ReplaceAll(text, "\n\n", "</p><p>") + "</p>"
}

// replaceImagePlaceholder maps one [IMAGE: description] placeholder to a
// themed placeholder image, picked by keywords in the description.
func replaceImagePlaceholder(match string) string {
	groups := imagePattern.FindStringSubmatch(match)
	if len(groups) < 2 {
		return match
	}

	description := strings.TrimSpace(groups[1])
	lowered := strings.ToLower(description)

	variant := "9C27B0/FFFFFF?text=Visualization"
	switch {
	case strings.Contains(lowered, "graph") || strings.Contains(lowered, "network"):
		variant = "4285F4/FFFFFF?text=Knowledge+Graph+Visualization"
	case strings.Contains(lowered, "hierarchy") || strings.Contains(lowered, "tree"):
		variant = "34A853/FFFFFF?text=Hierarchy+Diagram"
	case strings.Contains(lowered, "flow") || strings.Contains(lowered, "process"):
		variant = "FBBC05/FFFFFF?text=Process+Flow"
	case strings.Contains(lowered, "comparison"):
		variant = "EA4335/FFFFFF?text=Comparison+Chart"
	}

	return fmt.Sprintf(
		`<img src="https://via.placeholder.com/600x400/%s" alt="%s" />`,
		variant, html.EscapeString(description),
	)
}

// containsHTMLElement reports whether text parses to at least one HTML
// element node. Prose with stray angle brackets does not count as markup.
func containsHTMLElement(text string) bool {
	if !strings.Contains(text, "<") {
		return false
	}

	body := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := xhtml.ParseFragment(strings.NewReader(text), body)
	if err != nil {
		return strings.Contains(text, ">")
	}

	for _, node := range nodes {
		if hasElementNode(node) {
			return true
		}
	}
	return false
}

func hasElementNode(node *xhtml.Node) bool {
	if node.Type == xhtml.ElementNode {
		return true
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if hasElementNode(child) {
			return true
		}
	}
	return false
}
