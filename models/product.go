// Package models defines data structures for the daily recap.
package models

import "time"

// Product represents one launched product from a daily listing. Every field
// always carries a value: extraction substitutes documented defaults for
// anything the page did not yield.
type Product struct {
	Name       string    `csv:"name" json:"name"`
	Tagline    string    `csv:"tagline" json:"tagline"`
	Votes      int       `csv:"votes" json:"votes"`
	Comments   int       `csv:"comments" json:"comments"`
	URL        string    `csv:"url" json:"url"`
	Maker      string    `csv:"maker" json:"maker"`
	Category   string    `csv:"category" json:"category"`
	LaunchedAt time.Time `csv:"launched_at" json:"launched_at"`
}

// TopProduct identifies the highest-voted product of a day.
type TopProduct struct {
	Name     string `json:"name"`
	Votes    int    `json:"votes"`
	Category string `json:"category"`
}

// MarketSummary aggregates one day's listing.
type MarketSummary struct {
	TotalProducts      int        `json:"total_products"`
	TrendingCategories []string   `json:"trending_categories"`
	TopProduct         TopProduct `json:"top_product"`
}

// DailyReport is the complete output document for one date.
type DailyReport struct {
	Date          string        `json:"date"`
	MarketSummary MarketSummary `json:"market_summary"`
	Products      []*Product    `json:"products"`
}

// Source distinguishes where a scrape result's products came from.
type Source string

const (
	// SourceLive means at least one meaningful record was extracted from the page.
	SourceLive Source = "live"
	// SourceFallback means extraction yielded nothing usable and the synthetic
	// catalog was substituted.
	SourceFallback Source = "fallback"
	// SourceNone means the fetch itself failed after all retries; the result
	// carries zero products and no fallback was attempted.
	SourceNone Source = "none"
)

// ScrapeResult holds the outcome of scraping one date.
type ScrapeResult struct {
	Date      string
	Source    Source
	Products  []*Product
	StartTime time.Time
	EndTime   time.Time
	Stats     ScrapeStats
}

// ScrapeStats carries diagnostic counters for one scrape run.
type ScrapeStats struct {
	Attempts        int
	Retries         int
	ContainersFound int
	Extracted       int
	Dropped         int
	ErrorsByType    map[string]int
}
