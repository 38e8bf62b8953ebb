package confluence

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"rtmsync/internal/domain"
	"rtmsync/internal/ports"
)

var (
	commentMarkerRegex = regexp.MustCompile(`</?ac:inline-comment-marker[^>]*>`)
	urlLikeRegex       = regexp.MustCompile(`(?i)^(https?://|www\.)`)

	plainTextReplacer = strings.NewReplacer(
		"\u00a0", " ",
		"&", "and",
		"<", "(",
		">", ")",
	)
)

// StorageFormat implements ports.ContentTransformer for Confluence storage bodies
type StorageFormat struct{}

// Transform strips inline comment markers from the raw body and flattens it
// to plain text: one line per paragraph, tables as a "Markdown table:" block,
// links as link(text), and struck text wrapped in {{del}}…{{/del}}.
func (StorageFormat) Transform(title, body string) (ports.Content, error) {
	raw := StripCommentMarkers(body)
	text, err := PlainText(raw)
	if err != nil {
		return ports.Content{}, err
	}
	return ports.Content{
		Title:     strings.ReplaceAll(title, "&", "and"),
		Raw:       raw,
		PlainText: text,
	}, nil
}

// StripCommentMarkers removes <ac:inline-comment-marker> tags, keeping their text
func StripCommentMarkers(body string) string {
	return commentMarkerRegex.ReplaceAllString(body, "")
}

// PlainText flattens a storage body. Only paragraphs and tables contribute
// text; everything else is structure.
func PlainText(body string) (string, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse storage body: %w", err)
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.P:
				b.WriteString(strings.TrimSpace(textContent(n)))
				b.WriteString("\n")
				return
			case atom.Table:
				b.WriteString(strings.TrimSpace(tableText(n)))
				b.WriteString("\n")
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return plainTextReplacer.Replace(b.String()), nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	writeText(&b, n)
	return b.String()
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.A:
			b.WriteString(linkText(n))
			return
		case atom.Del, atom.S, atom.Strike:
			b.WriteString(domain.DelOpen)
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				writeText(b, c)
			}
			b.WriteString(domain.DelClose)
			return
		case atom.Table:
			b.WriteString(tableText(n))
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

func linkText(a *html.Node) string {
	var b strings.Builder
	for c := a.FirstChild; c != nil; c = c.NextSibling {
		writeText(&b, c)
	}
	text := strings.TrimSpace(b.String())
	if text == "" || urlLikeRegex.MatchString(text) {
		return "(Link removed)"
	}
	return "link(" + text + ")"
}

// tableText renders a table as
//
//	Markdown table:
//	Headers: | a | b |
//	|---|---|
//	Row: 1 | c | d |
func tableText(table *html.Node) string {
	var b strings.Builder
	b.WriteString("\n\nMarkdown table:\n")

	for i, row := range tableRows(table) {
		cells := rowCells(row)
		if i == 0 {
			b.WriteString("Headers: ")
		} else {
			fmt.Fprintf(&b, "Row: %d ", i)
		}
		for _, cell := range cells {
			b.WriteString("| ")
			b.WriteString(strings.TrimSpace(textContent(cell)))
			b.WriteString(" ")
		}
		b.WriteString("|\n")
		if i == 0 {
			b.WriteString("|" + strings.Repeat("---|", len(cells)) + "\n")
		}
	}
	return b.String()
}

// tableRows returns the rows of table, looking through thead/tbody/tfoot
// but not into nested tables
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Tr:
			rows = append(rows, c)
		case atom.Thead, atom.Tbody, atom.Tfoot:
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if r.Type == html.ElementNode && r.DataAtom == atom.Tr {
					rows = append(rows, r)
				}
			}
		}
	}
	return rows
}

func rowCells(row *html.Node) []*html.Node {
	var cells []*html.Node
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, c)
		}
	}
	return cells
}
