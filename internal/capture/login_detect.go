package capture

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DetectLoginForm reports whether the page still shows a password field,
// which usually means the operator has not finished signing in.
func DetectLoginForm(html string) (bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false, fmt.Errorf("failed to parse page HTML: %w", err)
	}
	return doc.Find(`input[type="password"]`).Length() > 0, nil
}
