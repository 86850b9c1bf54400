package web

import (
	"bytes"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

type htmlDocument struct {
	root  *html.Node
	title string
	text  string
}

// parseHTML decodes body to UTF-8, drops non-visible elements and flattens the rest.
func parseHTML(body []byte, declaredCharset string) (*htmlDocument, error) {
	contentType := "text/html"
	if declaredCharset != "" {
		contentType += "; charset=" + declaredCharset
	}
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}
	root, err := html.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	stripInvisible(root)
	doc := &htmlDocument{root: root}
	if t := findFirst(root, atom.Title); t != nil {
		doc.title = strings.TrimSpace(nodeText(t))
	}
	doc.text = collapseSpace(nodeText(root))
	return doc, nil
}

func (d *htmlDocument) markdown() (string, error) {
	target := d.root
	if body := findFirst(d.root, atom.Body); body != nil {
		target = body
	}
	out, err := htmltomarkdown.ConvertNode(target)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func stripInvisible(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && (c.DataAtom == atom.Script || c.DataAtom == atom.Style || c.DataAtom == atom.Noscript):
			n.RemoveChild(c)
		default:
			stripInvisible(c)
		}
		c = next
	}
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

// nodeText joins descendant text nodes with a space separator.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
