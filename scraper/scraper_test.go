package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"huntrecap/config"
	"huntrecap/models"
)

func newTestScraper(t *testing.T, cfg *config.Config, transport *httpmock.MockTransport) *Scraper {
	t.Helper()

	s, err := NewScraper(cfg)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}
	if transport != nil {
		s.collector.WithTransport(transport)
	}
	s.sleep = func(time.Duration) {}
	return s
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.BaseURL = "http://example.test"
	cfg.Delay = 10 * time.Millisecond
	return cfg
}

func registerListing(transport *httpmock.MockTransport, url string, responder httpmock.Responder) {
	transport.RegisterResponder("GET", url, responder)
	if strings.HasSuffix(url, "/") {
		transport.RegisterResponder("GET", strings.TrimSuffix(url, "/"), responder)
	} else {
		transport.RegisterResponder("GET", url+"/", responder)
	}
}

func htmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(200, body)
	resp.Header.Set("Content-Type", "text/html")
	return httpmock.ResponderFromResponse(resp)
}

func buildListingPage(count int) string {
	var builder strings.Builder
	builder.WriteString(`<html><body><main>`)

	for i := 1; i <= count; i++ {
		fmt.Fprintf(&builder, `<div data-test="post-item-%d">`, i)
		fmt.Fprintf(&builder, `<h3>Widget %d</h3>`, i)
		fmt.Fprintf(&builder, `<p>Tagline for widget %d</p>`, i)
		fmt.Fprintf(&builder, `<span data-test="vote-button">%d</span>`, i*100)
		fmt.Fprintf(&builder, `<span data-test="comment-count">%d comments</span>`, i*10)
		fmt.Fprintf(&builder, `<span data-test="maker-name">Maker %d</span>`, i)
		builder.WriteString(`<span data-test="tag-developer-tools">Developer Tools</span>`)
		fmt.Fprintf(&builder, `<a href="/posts/widget-%d">Widget %d</a>`, i, i)
		builder.WriteString(`</div>`)
	}

	builder.WriteString(`</main></body></html>`)
	return builder.String()
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		expected   string
	}{
		{name: "nil", err: nil, statusCode: 0, expected: "unknown"},
		{name: "context timeout", err: context.DeadlineExceeded, statusCode: 0, expected: "timeout"},
		{name: "net timeout", err: &net.DNSError{IsTimeout: true}, statusCode: 0, expected: "timeout"},
		{name: "connection", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, statusCode: 0, expected: "connection"},
		{name: "forbidden", err: nil, statusCode: http.StatusForbidden, expected: "forbidden"},
		{name: "not found", err: nil, statusCode: http.StatusNotFound, expected: "not_found"},
		{name: "rate limited", err: nil, statusCode: http.StatusTooManyRequests, expected: "rate_limited"},
		{name: "other", err: errors.New("some other error"), statusCode: 0, expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorTypeLabel(classifyError(tt.err, tt.statusCode)); got != tt.expected {
				t.Fatalf("classifyError(%v, %d) = %q, want %q", tt.err, tt.statusCode, got, tt.expected)
			}
		})
	}
}

func TestFetchDocumentRetryBackoff(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 3
	cfg.Delay = time.Second

	transport := httpmock.NewMockTransport()
	registerListing(transport, cfg.BaseURL, httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	s := newTestScraper(t, cfg, transport)
	var sleeps []time.Duration
	s.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	stats := models.ScrapeStats{ErrorsByType: make(map[string]int)}
	doc, err := s.fetchDocument(context.Background(), cfg.BaseURL, &stats)
	if err == nil {
		t.Fatalf("expected error after exhausting retries, got doc=%v", doc)
	}

	if stats.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", stats.Attempts)
	}
	if stats.Retries != 2 {
		t.Errorf("retries = %d, want 2", stats.Retries)
	}

	// Each failing round sleeps twice: exponential backoff, then the flat
	// rate-limit pause. No sleep after the final attempt.
	want := []time.Duration{time.Second, time.Second, 2 * time.Second, time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, sleeps[i], want[i])
		}
	}
}

func TestFetchDocumentCancelledContext(t *testing.T) {
	cfg := testConfig()
	transport := httpmock.NewMockTransport()
	registerListing(transport, cfg.BaseURL, htmlResponder(buildListingPage(1)))

	s := newTestScraper(t, cfg, transport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.ScrapeDaily(ctx, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result != nil {
		t.Fatalf("result should be nil on cancellation, got %+v", result)
	}
}

func TestScrapeDailyFetchFailureReturnsEmpty(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 2

	transport := httpmock.NewMockTransport()
	registerListing(transport, cfg.BaseURL, httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	s := newTestScraper(t, cfg, transport)

	result, err := s.ScrapeDaily(context.Background(), "")
	if err != nil {
		t.Fatalf("scrape daily: %v", err)
	}

	if result.Source != models.SourceNone {
		t.Errorf("source = %q, want %q", result.Source, models.SourceNone)
	}
	if len(result.Products) != 0 {
		t.Errorf("products = %d, want 0 (network failure must not substitute mock data)", len(result.Products))
	}
	if result.Stats.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", result.Stats.Attempts)
	}
	if result.EndTime.Before(result.StartTime) {
		t.Errorf("end time precedes start time")
	}
}

func TestScrapeDailyHTTPStatusClassification(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{status: http.StatusTooManyRequests, expected: "rate_limited"},
		{status: http.StatusForbidden, expected: "forbidden"},
		{status: http.StatusNotFound, expected: "not_found"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			cfg := testConfig()
			cfg.MaxRetries = 1

			transport := httpmock.NewMockTransport()
			registerListing(transport, cfg.BaseURL, httpmock.NewStringResponder(tt.status, ""))

			s := newTestScraper(t, cfg, transport)

			result, err := s.ScrapeDaily(context.Background(), "")
			if err != nil {
				t.Fatalf("scrape daily: %v", err)
			}
			if got := result.Stats.ErrorsByType[tt.expected]; got != 1 {
				t.Fatalf("ErrorsByType[%q] = %d, want 1 (all: %v)", tt.expected, got, result.Stats.ErrorsByType)
			}
		})
	}
}

func TestScrapeDailyFallbackOnEmptyPage(t *testing.T) {
	cfg := testConfig()

	transport := httpmock.NewMockTransport()
	registerListing(transport, cfg.BaseURL, htmlResponder(`<html><body><main>nothing today</main></body></html>`))

	s := newTestScraper(t, cfg, transport)

	result, err := s.ScrapeDaily(context.Background(), "")
	if err != nil {
		t.Fatalf("scrape daily: %v", err)
	}

	if result.Source != models.SourceFallback {
		t.Errorf("source = %q, want %q", result.Source, models.SourceFallback)
	}
	if len(result.Products) != len(mockCatalog) {
		t.Fatalf("products = %d, want %d", len(result.Products), len(mockCatalog))
	}
	for i, p := range result.Products {
		entry := mockCatalog[i]
		if p.Name != entry.Name {
			t.Errorf("product %d = %q, want catalog entry %q", i, p.Name, entry.Name)
		}
		if p.Votes < entry.VotesMin || p.Votes > entry.VotesMax {
			t.Errorf("product %d votes = %d, want in [%d,%d]", i, p.Votes, entry.VotesMin, entry.VotesMax)
		}
	}
}

func TestScrapeDailyLiveExtraction(t *testing.T) {
	cfg := testConfig()
	date := "2025-06-15"

	transport := httpmock.NewMockTransport()
	registerListing(transport, cfg.BaseURL+"/time-travel/"+date, htmlResponder(buildListingPage(2)))

	s := newTestScraper(t, cfg, transport)

	result, err := s.ScrapeDaily(context.Background(), date)
	if err != nil {
		t.Fatalf("scrape daily: %v", err)
	}

	if result.Source != models.SourceLive {
		t.Fatalf("source = %q, want %q", result.Source, models.SourceLive)
	}
	if len(result.Products) != 2 {
		t.Fatalf("products = %d, want 2", len(result.Products))
	}

	first := result.Products[0]
	if first.Name != "Widget 1" {
		t.Errorf("name = %q, want %q", first.Name, "Widget 1")
	}
	if first.Tagline != "Tagline for widget 1" {
		t.Errorf("tagline = %q", first.Tagline)
	}
	if first.Votes != 100 || first.Comments != 10 {
		t.Errorf("votes/comments = %d/%d, want 100/10", first.Votes, first.Comments)
	}
	if first.Maker != "Maker 1" {
		t.Errorf("maker = %q", first.Maker)
	}
	if first.Category != "Developer Tools" {
		t.Errorf("category = %q", first.Category)
	}
	if first.URL != "http://example.test/posts/widget-1" {
		t.Errorf("url = %q", first.URL)
	}
	if first.LaunchedAt.IsZero() {
		t.Errorf("launched_at should be set")
	}

	if result.Stats.ContainersFound != 2 {
		t.Errorf("containers found = %d, want 2", result.Stats.ContainersFound)
	}
	if result.Stats.Extracted != 2 {
		t.Errorf("extracted = %d, want 2", result.Stats.Extracted)
	}
	if result.Stats.Retries != 0 {
		t.Errorf("retries = %d, want 0", result.Stats.Retries)
	}
}

func TestScrapeDailyCapsContainers(t *testing.T) {
	cfg := testConfig()
	cfg.MaxProducts = 20

	transport := httpmock.NewMockTransport()
	registerListing(transport, cfg.BaseURL, htmlResponder(buildListingPage(25)))

	s := newTestScraper(t, cfg, transport)

	result, err := s.ScrapeDaily(context.Background(), "")
	if err != nil {
		t.Fatalf("scrape daily: %v", err)
	}

	if result.Stats.ContainersFound != 25 {
		t.Errorf("containers found = %d, want 25", result.Stats.ContainersFound)
	}
	if len(result.Products) != 20 {
		t.Errorf("products = %d, want 20 (cap applies before extraction)", len(result.Products))
	}
}

func TestScrapeDailyDropsPlaceholderRecords(t *testing.T) {
	cfg := testConfig()

	// One real container, one matching container with no extractable name.
	page := `<html><body>
		<div data-test="post-item-1">
			<h3>CloudPilot</h3>
			<a href="/posts/cloudpilot">CloudPilot</a>
		</div>
		<div data-test="post-item-2"></div>
	</body></html>`

	transport := httpmock.NewMockTransport()
	registerListing(transport, cfg.BaseURL, htmlResponder(page))

	s := newTestScraper(t, cfg, transport)

	result, err := s.ScrapeDaily(context.Background(), "")
	if err != nil {
		t.Fatalf("scrape daily: %v", err)
	}

	if result.Source != models.SourceLive {
		t.Fatalf("source = %q, want %q", result.Source, models.SourceLive)
	}
	if len(result.Products) != 1 {
		t.Fatalf("products = %d, want 1", len(result.Products))
	}
	if result.Products[0].Name != "CloudPilot" {
		t.Errorf("name = %q, want %q", result.Products[0].Name, "CloudPilot")
	}
	if result.Stats.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", result.Stats.Dropped)
	}
}

func TestDailyURL(t *testing.T) {
	cfg := testConfig()
	s := newTestScraper(t, cfg, nil)

	today := time.Now().Format(dateLayout)
	if got := s.dailyURL(today); got != cfg.BaseURL {
		t.Errorf("dailyURL(today) = %q, want base URL", got)
	}
	if got := s.dailyURL("2025-06-15"); got != cfg.BaseURL+"/time-travel/2025-06-15" {
		t.Errorf("dailyURL = %q", got)
	}
}
