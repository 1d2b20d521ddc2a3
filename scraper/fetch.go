package scraper

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"huntrecap/models"
)

// pageState captures the outcome of a single collector visit. The retry loop
// is strictly sequential, so one slot per scraper is enough.
type pageState struct {
	status int
	body   []byte
	err    error
}

// fetchDocument performs the bounded retry loop: one GET per attempt, with
// exponential backoff plus a flat rate-limit pause between failing attempts.
// The final attempt's error is returned once retries are exhausted; callers
// decide whether to degrade or propagate.
func (s *Scraper) fetchDocument(ctx context.Context, pageURL string, stats *models.ScrapeStats) (*goquery.Document, error) {
	var lastErr error

	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stats.Attempts++
		s.Metrics.IncRequest("fetch")
		slog.Debug("fetching page",
			slog.String("url", pageURL),
			slog.Int("attempt", attempt+1),
		)

		body, err := s.visit(pageURL)
		if err == nil {
			doc, parseErr := goquery.NewDocumentFromReader(bytes.NewReader(body))
			if parseErr == nil {
				return doc, nil
			}
			err = parseErr
		}

		lastErr = err
		label := errorTypeLabel(err)
		stats.ErrorsByType[label]++
		s.Metrics.IncError(label)
		slog.Warn("fetch attempt failed",
			slog.String("url", pageURL),
			slog.Int("attempt", attempt+1),
			slog.String("category", label),
			slog.Any("error", err),
		)

		if attempt < s.cfg.MaxRetries-1 {
			s.sleep(s.cfg.Delay * (1 << attempt))
			s.sleep(s.cfg.Delay)
			stats.Retries++
			s.Metrics.IncRetries()
		}
	}

	return nil, lastErr
}

// visit issues one GET through the collector and returns the response body.
func (s *Scraper) visit(pageURL string) ([]byte, error) {
	s.page = pageState{}

	start := time.Now()
	visitErr := s.collector.Visit(pageURL)
	s.Metrics.ObserveDuration(time.Since(start))

	if s.page.err != nil {
		return nil, s.page.err
	}
	if visitErr != nil {
		return nil, classifyError(visitErr, s.page.status)
	}
	return s.page.body, nil
}

func (s *Scraper) registerHandlers() {
	s.collector.OnResponse(func(r *colly.Response) {
		s.page.status = r.StatusCode
		s.page.body = r.Body
	})

	s.collector.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		s.page.status = status
		s.page.err = classifyError(err, status)
	})
}
