package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// MaxURLChars bounds text extracted from a web page
const MaxURLChars = 8000

// minBlockChars is the length a paragraph or subheading must exceed to count
const minBlockChars = 20

var boilerplateSelector = "script, style, nav, footer, header, aside, iframe"

var blockSelector = "p, h2, h3, h4, h5, h6"

// ExtractText turns an HTML document into readable plain text.
// It keeps the first h1 plus paragraph and subheading blocks from the
// article, main or body element, in that order of preference.
// pageURL may be nil; it only helps the readability fallback resolve links.
func ExtractText(body []byte, pageURL *url.URL) (string, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc := goquery.NewDocumentFromNode(root)
	doc.Find(boilerplateSelector).Remove()

	var content string
	if container := pickContainer(doc); container != nil {
		var parts []string
		if h1 := doc.Find("h1").First(); h1.Length() > 0 {
			parts = append(parts, normalizeSpace(h1.Text()))
		}
		container.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
			text := normalizeSpace(s.Text())
			if utf8.RuneCountInString(text) > minBlockChars {
				parts = append(parts, text)
			}
		})
		content = strings.Join(parts, "\n\n")
	} else {
		content = doc.Text()
	}

	content = collapseBlankLines(content)
	if content == "" {
		content = readabilityText(body, pageURL)
	}

	return truncateRunes(content, MaxURLChars), nil
}

func pickContainer(doc *goquery.Document) *goquery.Selection {
	for _, tag := range []string{"article", "main", "body"} {
		if sel := doc.Find(tag).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// readabilityText is the fallback for pages whose markup has no usable
// paragraph blocks, such as div-only layouts
func readabilityText(body []byte, pageURL *url.URL) string {
	if pageURL == nil {
		pageURL = &url.URL{}
	}
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return ""
	}
	return collapseBlankLines(article.TextContent)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// collapseBlankLines trims every line and drops the empty ones
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
