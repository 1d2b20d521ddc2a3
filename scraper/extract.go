package scraper

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"huntrecap/models"
)

var (
	digitRun        = regexp.MustCompile(`[0-9]+`)
	placeholderName = regexp.MustCompile(`^Product [0-9]+$`)
)

// extractNumber parses the first integer-looking token out of free text such
// as "1,234 votes". Text with no digits yields 0.
func extractNumber(text string) int {
	cleaned := strings.ReplaceAll(text, ",", "")
	match := digitRun.FindString(cleaned)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}

// firstText walks a selector chain and returns the first non-empty trimmed
// text match within container. Later selectors are never consulted once one
// matches.
func firstText(container *goquery.Selection, chain []string) (string, bool) {
	for _, selector := range chain {
		if text, ok := selectText(container, selector); ok {
			return text, true
		}
	}
	return "", false
}

// selectText evaluates a single selector against the container subtree.
// A malformed selector counts as no-match rather than aborting the chain.
func selectText(container *goquery.Selection, selector string) (text string, ok bool) {
	defer func() {
		if recover() != nil {
			text, ok = "", false
		}
	}()

	found := container.Find(selector).First()
	if found.Length() == 0 {
		return "", false
	}
	trimmed := strings.TrimSpace(found.Text())
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

func selectAttr(container *goquery.Selection, selector, attr string) (value string, ok bool) {
	defer func() {
		if recover() != nil {
			value, ok = "", false
		}
	}()

	raw, exists := container.Find(selector).First().Attr(attr)
	if !exists || strings.TrimSpace(raw) == "" {
		return "", false
	}
	return strings.TrimSpace(raw), true
}

// locateContainers finds the DOM nodes likely to represent individual product
// listings. The primary strategy matches the post-item test marker; only when
// that yields nothing does the class-keyword scan run.
func locateContainers(doc *goquery.Document) []*goquery.Selection {
	matches := doc.Find(primaryContainerSelector)
	if matches.Length() == 0 {
		matches = doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			lower := strings.ToLower(class)
			for _, keyword := range fallbackClassKeywords {
				if strings.Contains(lower, keyword) {
					return true
				}
			}
			return false
		})
	}

	containers := make([]*goquery.Selection, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		containers = append(containers, s)
	})
	return containers
}

// extractProduct builds one record from a candidate container. It never
// fails: any field the chains cannot resolve gets its documented default, so
// the record is always fully populated.
func (s *Scraper) extractProduct(container *goquery.Selection, index int) *models.Product {
	product := &models.Product{
		Name:       fmt.Sprintf("Product %d", index+1),
		Tagline:    "No description available",
		Maker:      "Unknown Maker",
		Category:   "General",
		LaunchedAt: time.Now(),
	}

	if name, ok := firstText(container, nameSelectors); ok {
		product.Name = name
	}
	if tagline, ok := firstText(container, taglineSelectors); ok {
		product.Tagline = tagline
	}
	if votes, ok := firstText(container, voteSelectors); ok {
		product.Votes = extractNumber(votes)
	}
	if comments, ok := firstText(container, commentSelectors); ok {
		product.Comments = extractNumber(comments)
	}
	if maker, ok := firstText(container, makerSelectors); ok {
		product.Maker = maker
	}
	if category, ok := firstText(container, categorySelectors); ok {
		product.Category = category
	}
	product.URL = s.postURL(container, index)

	return product
}

// postURL resolves the product detail link: the first anchor pointing at a
// post path, absolutized against the site origin, or a synthesized
// placeholder when the container carries no such anchor.
func (s *Scraper) postURL(container *goquery.Selection, index int) string {
	href, ok := selectAttr(container, `a[href*="/posts/"]`, "href")
	if !ok {
		return fmt.Sprintf("%s%sproduct-%d", s.origin, postPathMarker, index+1)
	}
	if strings.HasPrefix(href, "/") {
		return s.origin + href
	}
	return href
}

// meaningful reports whether extraction produced real data: a non-empty name
// that is not the synthesized "Product N" placeholder. Real products whose
// names merely begin with "Product" stay in.
func meaningful(p *models.Product) bool {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return false
	}
	return !placeholderName.MatchString(name)
}

// safeExtract isolates one container: a panic during extraction skips that
// container without aborting the batch.
func (s *Scraper) safeExtract(container *goquery.Selection, index int) (product *models.Product) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("container extraction failed",
				slog.Int("index", index),
				slog.Any("panic", r),
			)
			product = nil
		}
	}()
	return s.extractProduct(container, index)
}
