package preview

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// extractBlocks turns converted DOCX HTML into paragraphs of plain text.
// Headings are upper-cased and list items bulleted; script and style
// content is dropped.
func extractBlocks(body []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Head:
				return
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				if text := extractText(n); text != "" {
					blocks = append(blocks, strings.ToUpper(text))
				}
				return
			case atom.P, atom.Pre, atom.Blockquote, atom.Td, atom.Th:
				if text := extractText(n); text != "" {
					blocks = append(blocks, text)
				}
				return
			case atom.Li:
				if text := extractText(n); text != "" {
					blocks = append(blocks, "• "+text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// Bare text with no block elements still deserves a preview.
	if len(blocks) == 0 {
		if text := extractText(doc); text != "" {
			blocks = append(blocks, text)
		}
	}
	return blocks, nil
}

// extractText concatenates descendant text with whitespace collapsed.
func extractText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Br:
				sb.WriteByte(' ')
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
