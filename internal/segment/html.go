package segment

import (
	"strings"

	"golang.org/x/net/html"
)

// allowedTags are the elements whose text becomes sentence blocks
var allowedTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "li": true, "td": true, "th": true, "img": true, "span": true, "meta": true,
}

// htmlBlocks parses HTML and returns one block per allowed element, in document order.
// Loose text outside any allowed element is emitted as a "p" block.
func htmlBlocks(content string) []block {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return textBlocks(content)
	}
	stripAttributes(doc)

	var blocks []block
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template", "svg", "title":
				return
			case "img":
				if alt := attr(n, "alt"); alt != "" {
					blocks = append(blocks, block{tag: "img", text: alt})
				}
				return
			case "meta":
				if strings.EqualFold(attr(n, "name"), "description") {
					if c := attr(n, "content"); c != "" {
						blocks = append(blocks, block{tag: "meta", text: c})
					}
				}
				return
			}
			if allowedTags[n.Data] {
				if text := visibleText(n); text != "" {
					blocks = append(blocks, block{tag: n.Data, text: text})
				}
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				blocks = append(blocks, block{tag: "p", text: text})
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return blocks
}

// visibleText extracts text nodes below n, skipping scripts and styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template", "svg":
				return
			case "br", "p", "div", "li", "td", "th":
				buf.WriteString(" ")
			}
		}

		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// stripAttributes removes id, class, style and data-* attributes from every element
func stripAttributes(n *html.Node) {
	if n.Type == html.ElementNode && len(n.Attr) > 0 {
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if key == "id" || key == "class" || key == "style" || strings.HasPrefix(key, "data-") {
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stripAttributes(c)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// PageMeta is the head metadata of an HTML article
type PageMeta struct {
	Title       string
	Description string
	Canonical   string
}

// Metadata reads the <title>, meta description and canonical link of an HTML page
func Metadata(content string) PageMeta {
	var meta PageMeta
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return meta
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if meta.Title == "" {
					meta.Title = visibleText(n)
				}
			case "meta":
				if meta.Description == "" && strings.EqualFold(attr(n, "name"), "description") {
					meta.Description = attr(n, "content")
				}
			case "link":
				if meta.Canonical == "" && strings.EqualFold(attr(n, "rel"), "canonical") {
					meta.Canonical = attr(n, "href")
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return meta
}
