package generator

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const wordsPerMinute = 200

// readingMinutes estimates reading time from the visible text of an HTML
// fragment. Code blocks count like prose. Returns at least 1.
func readingMinutes(fragment string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return 0, err
	}
	words := len(strings.Fields(doc.Text()))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return max(minutes, 1), nil
}
