// Package report assembles daily reports from extracted product records and
// writes them to disk.
package report

import (
	"log/slog"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"huntrecap/categories"
	"huntrecap/models"
)

// Builder turns a day's product records into a DailyReport. It deduplicates
// by product URL (first record wins) and canonicalizes category names through
// the shared mapping.
type Builder struct {
	mapping *categories.Mapping
	seen    *lru.Cache[string, struct{}]

	duplicates int
}

// NewBuilder constructs a builder with a bounded dedupe cache.
func NewBuilder(mapping *categories.Mapping, dedupeMaxSize int) (*Builder, error) {
	if dedupeMaxSize <= 0 {
		dedupeMaxSize = 1024
	}
	seen, err := lru.New[string, struct{}](dedupeMaxSize)
	if err != nil {
		return nil, err
	}
	return &Builder{mapping: mapping, seen: seen}, nil
}

// Build assembles the report for one date. Input order is preserved for the
// product list; the summary is computed over the deduplicated set.
func (b *Builder) Build(date string, products []*models.Product) *models.DailyReport {
	kept := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		if _, dup := b.seen.Get(p.URL); dup {
			b.duplicates++
			slog.Debug("dropping duplicate product", slog.String("url", p.URL))
			continue
		}
		b.seen.Add(p.URL, struct{}{})

		if b.mapping != nil {
			p.Category = b.mapping.Canonical(p.Category)
		}
		kept = append(kept, p)
	}

	return &models.DailyReport{
		Date:          date,
		MarketSummary: Summarize(kept),
		Products:      kept,
	}
}

// Duplicates reports how many records the builder has dropped as duplicates.
func (b *Builder) Duplicates() int {
	return b.duplicates
}

// Summarize computes the market summary: total count, top three categories
// by frequency (ties broken by name), and the highest-voted product.
func Summarize(products []*models.Product) models.MarketSummary {
	summary := models.MarketSummary{
		TotalProducts:      len(products),
		TrendingCategories: []string{},
	}
	if len(products) == 0 {
		return summary
	}

	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > 3 {
		names = names[:3]
	}
	summary.TrendingCategories = names

	top := products[0]
	for _, p := range products[1:] {
		if p.Votes > top.Votes {
			top = p
		}
	}
	summary.TopProduct = models.TopProduct{
		Name:     top.Name,
		Votes:    top.Votes,
		Category: top.Category,
	}
	return summary
}

// RankByVotes returns a copy of products sorted by votes descending. The sort
// is stable, so equal-vote products keep their listing order.
func RankByVotes(products []*models.Product) []*models.Product {
	ranked := make([]*models.Product, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})
	return ranked
}

// FilterByCategory returns the products whose category matches, compared on
// normalized URL-style names so display variants still match.
func FilterByCategory(products []*models.Product, category string) []*models.Product {
	want := categories.NormalizeName(category)
	if want == "" {
		return nil
	}

	var filtered []*models.Product
	for _, p := range products {
		if categories.NormalizeName(p.Category) == want {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
