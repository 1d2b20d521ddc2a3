package categories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"huntrecap/config"
)

const categoriesPath = "/categories"

// Scraper harvests the live categories page and merges what it finds into
// the known mapping. The seeded table survives a failed fetch, so callers
// always get a usable mapping back.
type Scraper struct {
	cfg       *config.Config
	collector *colly.Collector

	current      *Mapping
	handlersOnce sync.Once
}

// NewScraper builds a category scraper sharing the main scraper's settings.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
	)
	collector.AllowURLRevisit = true
	collector.SetRequestTimeout(cfg.Timeout)

	return &Scraper{cfg: cfg, collector: collector}, nil
}

// Scrape fetches the categories page and returns the merged mapping. The
// returned mapping is always usable; the error reports a failed live fetch.
func (s *Scraper) Scrape(ctx context.Context) (*Mapping, error) {
	mapping := NewMapping()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return mapping, err
	}

	seeded := mapping.Len()
	s.current = mapping
	s.handlersOnce.Do(func() {
		s.collector.OnHTML(`a[href*="/categories/"]`, func(e *colly.HTMLElement) {
			urlName := nameFromHref(e.Attr("href"))
			display := strings.TrimSpace(e.Text)
			if urlName == "" || display == "" {
				return
			}
			s.current.Add(urlName, display)
		})
	})

	pageURL := s.cfg.BaseURL + categoriesPath
	slog.Info("scraping categories", slog.String("url", pageURL))

	if err := s.collector.Visit(pageURL); err != nil {
		slog.Warn("categories fetch failed, keeping known table",
			slog.Any("error", err),
		)
		return mapping, fmt.Errorf("fetch categories: %w", err)
	}

	slog.Info("categories scraped",
		slog.Int("known", seeded),
		slog.Int("total", mapping.Len()),
	)
	return mapping, nil
}

// nameFromHref extracts the URL-style category name from an anchor target,
// dropping query parameters and fragments.
func nameFromHref(href string) string {
	marker := "/categories/"
	idx := strings.Index(href, marker)
	if idx < 0 {
		return ""
	}
	name := href[idx+len(marker):]
	name = strings.SplitN(name, "?", 2)[0]
	name = strings.SplitN(name, "#", 2)[0]
	return strings.Trim(name, "/")
}

// mappingDocument is the persisted JSON layout.
type mappingDocument struct {
	Metadata struct {
		ScrapedAt       string `json:"scraped_at"`
		TotalCategories int    `json:"total_categories"`
		SourceURL       string `json:"source_url"`
	} `json:"metadata"`
	URLToDisplay map[string]string `json:"url_to_display_mapping"`
	DisplayToURL map[string]string `json:"display_to_url_mapping"`
}

// Save writes the mapping with scrape metadata as an indented JSON document.
func (s *Scraper) Save(mapping *Mapping, path string) error {
	doc := mappingDocument{
		URLToDisplay: make(map[string]string),
		DisplayToURL: make(map[string]string),
	}
	doc.Metadata.ScrapedAt = time.Now().Format(time.RFC3339)
	doc.Metadata.TotalCategories = mapping.Len()
	doc.Metadata.SourceURL = s.cfg.BaseURL + categoriesPath

	for _, urlName := range mapping.URLNames() {
		display, _ := mapping.Display(urlName)
		doc.URLToDisplay[urlName] = display
		doc.DisplayToURL[strings.ToLower(display)] = urlName
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write categories file: %w", err)
	}

	slog.Info("categories saved",
		slog.String("path", path),
		slog.Int("count", mapping.Len()),
	)
	return nil
}
