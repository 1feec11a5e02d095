// Package sanitize removes presentation markup from caption text.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/monasticacademy/srt-to-json-microservice/internal/models"
)

// overrideRegex matches ASS-style override blocks such as {\an8} or {\i1}.
var overrideRegex = regexp.MustCompile(`\{\\[^}]*\}`)

// StripTags removes inline HTML tags (<i>, <b>, <u>, <font ...>) and ASS override
// blocks, decodes HTML entities and keeps line breaks.
func StripTags(text string) string {
	text = overrideRegex.ReplaceAllString(text, "")
	if !strings.ContainsAny(text, "<&") {
		return strings.TrimSpace(text)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		// Unparseable markup is returned as-is rather than dropped.
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(doc.Text())
}

// StripCaptions applies StripTags to every caption and drops captions whose text
// becomes empty. The input slice is not modified.
func StripCaptions(captions []models.Caption) []models.Caption {
	out := make([]models.Caption, 0, len(captions))
	for _, c := range captions {
		c.Content = StripTags(c.Content)
		if c.Content == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}
