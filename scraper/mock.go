package scraper

import (
	"math/rand"
	"strings"
	"time"

	"huntrecap/models"
)

// mockEntry is one row of the fallback catalog. Identity fields are fixed;
// vote and comment counts are drawn from the entry's inclusive ranges on
// every generation, standing in for live data that could not be extracted.
type mockEntry struct {
	Name     string
	Tagline  string
	Maker    string
	Category string

	VotesMin, VotesMax       int
	CommentsMin, CommentsMax int
}

var mockCatalog = []mockEntry{
	{Name: "TaskFlow AI", Tagline: "Automate your daily standup notes with AI", Maker: "Sarah Chen", Category: "Productivity Tools", VotesMin: 50, VotesMax: 300, CommentsMin: 5, CommentsMax: 40},
	{Name: "PixelCraft Studio", Tagline: "Design social graphics in your browser", Maker: "Marco Silva", Category: "Design Tools", VotesMin: 80, VotesMax: 250, CommentsMin: 8, CommentsMax: 35},
	{Name: "DevMetrics", Tagline: "Engineering analytics for fast-moving teams", Maker: "Priya Patel", Category: "Developer Tools", VotesMin: 60, VotesMax: 280, CommentsMin: 10, CommentsMax: 45},
	{Name: "Mindful Minutes", Tagline: "Two-minute meditations between meetings", Maker: "James Okafor", Category: "Health & Fitness", VotesMin: 40, VotesMax: 200, CommentsMin: 3, CommentsMax: 25},
	{Name: "LaunchList", Tagline: "Waitlists that convert signups into users", Maker: "Elena Rossi", Category: "Marketing & Sales", VotesMin: 70, VotesMax: 320, CommentsMin: 12, CommentsMax: 50},
	{Name: "CodeSnippet Vault", Tagline: "Searchable snippet manager for teams", Maker: "Tom Baker", Category: "Developer Tools", VotesMin: 55, VotesMax: 230, CommentsMin: 6, CommentsMax: 30},
	{Name: "BudgetBee", Tagline: "Personal finance that fits in a chat window", Maker: "Aisha Mohammed", Category: "Finance", VotesMin: 45, VotesMax: 210, CommentsMin: 4, CommentsMax: 28},
	{Name: "RemoteDesk", Tagline: "Book hot desks and meeting rooms anywhere", Maker: "Lukas Weber", Category: "Work & Productivity", VotesMin: 65, VotesMax: 260, CommentsMin: 9, CommentsMax: 38},
	{Name: "StoryForge", Tagline: "Collaborative worldbuilding for writers", Maker: "Nina Kowalski", Category: "Web Apps", VotesMin: 35, VotesMax: 180, CommentsMin: 2, CommentsMax: 20},
	{Name: "FitSync Pro", Tagline: "One dashboard for every fitness wearable", Maker: "Carlos Mendez", Category: "Health & Fitness", VotesMin: 75, VotesMax: 290, CommentsMin: 11, CommentsMax: 42},
}

// MockGenerator produces the fixed fallback catalog with randomized counts.
type MockGenerator struct {
	origin string
	rand   *rand.Rand
}

// NewMockGenerator builds a generator whose counts vary run to run.
func NewMockGenerator(origin string) *MockGenerator {
	return NewSeededMockGenerator(origin, time.Now().UnixNano())
}

// NewSeededMockGenerator builds a generator with reproducible counts.
func NewSeededMockGenerator(origin string, seed int64) *MockGenerator {
	return &MockGenerator{
		origin: origin,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// Generate returns the ten-entry catalog. Identity fields are deterministic;
// votes and comments are drawn fresh from each entry's range, and launched_at
// is the generation timestamp.
func (g *MockGenerator) Generate() []*models.Product {
	launched := time.Now()
	products := make([]*models.Product, 0, len(mockCatalog))

	for _, entry := range mockCatalog {
		products = append(products, &models.Product{
			Name:       entry.Name,
			Tagline:    entry.Tagline,
			Votes:      g.between(entry.VotesMin, entry.VotesMax),
			Comments:   g.between(entry.CommentsMin, entry.CommentsMax),
			URL:        g.origin + postPathMarker + slugify(entry.Name),
			Maker:      entry.Maker,
			Category:   entry.Category,
			LaunchedAt: launched,
		})
	}
	return products
}

func (g *MockGenerator) between(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rand.Intn(max-min+1)
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
