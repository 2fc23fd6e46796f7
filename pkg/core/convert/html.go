package convert

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// HTMLConverter renders saved web pages (news articles, exchange filings
// exported as HTML) to markdown. The page title becomes the section
// heading; if conversion fails or comes back empty, the tags are stripped
// as a fallback.
type HTMLConverter struct{}

func (c *HTMLConverter) Extensions() []string {
	return []string{"html", "htm"}
}

func (c *HTMLConverter) Convert(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read HTML file: %w", err)
	}
	html := string(data)

	title := ""
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	converter := md.NewConverter("", true, nil)
	body, err := converter.ConvertString(html)
	if err != nil || strings.TrimSpace(body) == "" {
		body = stripHTMLTags(html)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "", fmt.Errorf("HTML contained no extractable text")
	}

	if title != "" {
		return fmt.Sprintf("## %s\n\n%s", title, body), nil
	}
	return body, nil
}

var (
	htmlTagRe    = regexp.MustCompile(`(?s)<(script|style)[^>]*>.*?</(script|style)>`)
	htmlStripRe  = regexp.MustCompile(`<[^>]*>`)
	htmlSpacesRe = regexp.MustCompile(`\n{3,}`)
)

func stripHTMLTags(html string) string {
	s := htmlTagRe.ReplaceAllString(html, "")
	s = htmlStripRe.ReplaceAllString(s, "")
	s = htmlSpacesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
