// Package categories maps between URL-style category names and display names.
package categories

import (
	"regexp"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// known seeds the mapping with categories that exist regardless of what the
// live categories page exposes on a given day.
var known = map[string]string{
	"engineering-development": "Engineering & Development",
	"design-creative":         "Design & Creative",
	"work-productivity":       "Work & Productivity",
	"marketing-sales":         "Marketing & Sales",
	"social-community":        "Social & Community",
	"health-fitness":          "Health & Fitness",
	"ai-software":             "AI",
	"chrome-extensions":       "Chrome Extensions",
	"developer-tools":         "Developer Tools",
	"productivity-tools":      "Productivity Tools",
	"design-tools":            "Design Tools",
	"business-tools":          "Business Tools",
	"mobile-apps":             "Mobile Apps",
	"web-apps":                "Web Apps",
	"finance":                 "Finance",
	"travel":                  "Travel",
	"ecommerce":               "Ecommerce",
	"platforms":               "Platforms",
	"physical-products":       "Physical Products",
	"web3":                    "Web3",
	"family":                  "Family",
	"lifestyle":               "Lifestyle",
	"product-add-ons":         "Product add-ons",
}

var (
	nonWordChars   = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	hyphenRuns     = regexp.MustCompile(`-+`)
)

const normCacheSize = 512

// NormalizeName converts a display name to its URL-style form:
// "Engineering & Development" -> "engineering-development".
func NormalizeName(name string) string {
	normalized := nonWordChars.ReplaceAllString(strings.ToLower(name), "")
	normalized = whitespaceRuns.ReplaceAllString(strings.TrimSpace(normalized), "-")
	normalized = hyphenRuns.ReplaceAllString(normalized, "-")
	return strings.Trim(normalized, "-")
}

// Mapping is a bidirectional category-name table. Lookups by display name go
// through the slugifier, so results are cached; product listings repeat the
// same handful of categories over and over.
type Mapping struct {
	mu      sync.RWMutex
	entries map[string]string // url name -> display name
	reverse map[string]string // normalized display -> url name

	normCache *lru.Cache[string, string]
}

// NewMapping returns a mapping seeded with the known category table.
func NewMapping() *Mapping {
	cache, err := lru.New[string, string](normCacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}

	m := &Mapping{
		entries:   make(map[string]string, len(known)),
		reverse:   make(map[string]string, len(known)),
		normCache: cache,
	}
	for urlName, display := range known {
		m.Add(urlName, display)
	}
	return m
}

// Add records a category pair. Existing entries win: the seeded table is
// curated and a freshly scraped duplicate should not overwrite it.
func (m *Mapping) Add(urlName, display string) {
	urlName = strings.TrimSpace(urlName)
	display = strings.TrimSpace(display)
	if urlName == "" || display == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[urlName]; !ok {
		m.entries[urlName] = display
	}
	for _, key := range []string{strings.ToLower(display), NormalizeName(display)} {
		if _, ok := m.reverse[key]; !ok {
			m.reverse[key] = urlName
		}
	}
}

// Display looks up the display name for a URL-style name.
func (m *Mapping) Display(urlName string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	display, ok := m.entries[urlName]
	return display, ok
}

// URLName resolves a display name (or free-form category text) to its
// URL-style name, falling back to the slugified input for unknown categories.
func (m *Mapping) URLName(display string) string {
	if cached, ok := m.normCache.Get(display); ok {
		return cached
	}

	m.mu.RLock()
	urlName, ok := m.reverse[strings.ToLower(strings.TrimSpace(display))]
	if !ok {
		urlName, ok = m.reverse[NormalizeName(display)]
	}
	m.mu.RUnlock()

	if !ok {
		urlName = NormalizeName(display)
	}
	m.normCache.Add(display, urlName)
	return urlName
}

// Canonical returns the curated display form of free-form category text, or
// the input unchanged when the category is unknown.
func (m *Mapping) Canonical(category string) string {
	if display, ok := m.Display(m.URLName(category)); ok {
		return display
	}
	return category
}

// Len reports the number of known categories.
func (m *Mapping) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// URLNames returns the known URL-style names, unordered.
func (m *Mapping) URLNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.entries))
	for urlName := range m.entries {
		names = append(names, urlName)
	}
	return names
}
