// Package scraper extracts structured product records from the daily
// listing page. Extraction degrades rather than fails: transport errors
// become empty results and unusable pages fall back to a synthetic catalog,
// so a batch run is never halted by one bad day.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"huntrecap/config"
	"huntrecap/models"
)

const dateLayout = "2006-01-02"

// Scraper wraps the colly session and the extraction pipeline for one target
// site. It holds no state across scrapes beyond the reused HTTP session.
type Scraper struct {
	cfg       *config.Config
	collector *colly.Collector
	mock      *MockGenerator
	Metrics   *Metrics

	origin string
	sleep  func(time.Duration)
	page   pageState
}

// NewScraper builds a scraper instance configured from cfg.
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

	// Revisits are the norm here: the retry loop hits the same URL.
	collector.AllowURLRevisit = true
	collector.SetRequestTimeout(cfg.Timeout)
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	origin := parsed.Scheme + "://" + parsed.Host
	s := &Scraper{
		cfg:       cfg,
		collector: collector,
		mock:      NewMockGenerator(origin),
		Metrics:   NewMetrics(),
		origin:    origin,
		sleep:     time.Sleep,
	}
	s.registerHandlers()
	return s, nil
}

// ScrapeDaily fetches and extracts the product listing for one date. An empty
// or today-valued date targets the root listing; any other date targets the
// time-travel path. The returned error is reserved for context cancellation;
// every scraping failure resolves to a degraded result instead.
func (s *Scraper) ScrapeDaily(ctx context.Context, date string) (*models.ScrapeResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if date == "" {
		date = time.Now().Format(dateLayout)
	}

	result := &models.ScrapeResult{
		Date:      date,
		Source:    models.SourceNone,
		Products:  []*models.Product{},
		StartTime: time.Now(),
		Stats:     models.ScrapeStats{ErrorsByType: make(map[string]int)},
	}

	pageURL := s.dailyURL(date)
	slog.Info("scraping daily listing",
		slog.String("date", date),
		slog.String("url", pageURL),
	)

	doc, err := s.fetchDocument(ctx, pageURL, &result.Stats)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// One date's network failure must not halt a batch run scraping
		// multiple dates: degrade to an empty result.
		slog.Error("fetch failed after retries, returning empty result",
			slog.String("date", date),
			slog.Any("error", err),
		)
		result.EndTime = time.Now()
		return result, nil
	}

	products, usedFallback := s.parseProducts(doc, &result.Stats)
	if usedFallback {
		s.Metrics.IncFallback()
		slog.Warn("no meaningful products extracted, substituting fallback catalog",
			slog.String("date", date),
		)
		result.Source = models.SourceFallback
	} else {
		result.Source = models.SourceLive
	}
	result.Products = products
	result.EndTime = time.Now()

	slog.Info("scrape finished",
		slog.String("date", date),
		slog.String("source", string(result.Source)),
		slog.Int("products", len(result.Products)),
	)
	return result, nil
}

// parseProducts runs the extraction stage and reports whether the fallback
// catalog was substituted. Fallback covers both a clean parse that yielded no
// meaningful record and a parse stage that blew up entirely.
func (s *Scraper) parseProducts(doc *goquery.Document, stats *models.ScrapeStats) ([]*models.Product, bool) {
	extracted := s.extractAll(doc, stats)
	if len(extracted) == 0 {
		return s.mock.Generate(), true
	}
	return extracted, false
}

func (s *Scraper) extractAll(doc *goquery.Document, stats *models.ScrapeStats) (products []*models.Product) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("parse stage failed", slog.Any("panic", r))
			products = nil
		}
	}()

	containers := locateContainers(doc)
	stats.ContainersFound = len(containers)
	s.Metrics.AddContainers(len(containers))
	slog.Debug("located candidate containers", slog.Int("count", len(containers)))

	if len(containers) > s.cfg.MaxProducts {
		containers = containers[:s.cfg.MaxProducts]
	}

	for i, container := range containers {
		product := s.safeExtract(container, i)
		if product == nil {
			stats.Dropped++
			continue
		}
		if !meaningful(product) {
			stats.Dropped++
			slog.Debug("dropping generic record",
				slog.Int("index", i),
				slog.String("name", product.Name),
			)
			continue
		}
		products = append(products, product)
		s.Metrics.IncItems()
	}

	stats.Extracted = len(products)
	return products
}

func (s *Scraper) dailyURL(date string) string {
	if date == time.Now().Format(dateLayout) {
		return s.cfg.BaseURL
	}
	return s.cfg.BaseURL + "/time-travel/" + date
}
