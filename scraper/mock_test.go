package scraper

import (
	"testing"
)

func TestMockGeneratorCatalogShape(t *testing.T) {
	g := NewMockGenerator("http://example.test")
	products := g.Generate()

	if len(products) != len(mockCatalog) {
		t.Fatalf("products = %d, want %d", len(products), len(mockCatalog))
	}

	for i, p := range products {
		entry := mockCatalog[i]
		if p.Name != entry.Name {
			t.Errorf("product %d name = %q, want %q", i, p.Name, entry.Name)
		}
		if p.Tagline != entry.Tagline {
			t.Errorf("product %d tagline = %q, want %q", i, p.Tagline, entry.Tagline)
		}
		if p.Maker != entry.Maker {
			t.Errorf("product %d maker = %q, want %q", i, p.Maker, entry.Maker)
		}
		if p.Category != entry.Category {
			t.Errorf("product %d category = %q, want %q", i, p.Category, entry.Category)
		}
		if p.Votes < entry.VotesMin || p.Votes > entry.VotesMax {
			t.Errorf("product %d votes = %d, want in [%d,%d]", i, p.Votes, entry.VotesMin, entry.VotesMax)
		}
		if p.Comments < entry.CommentsMin || p.Comments > entry.CommentsMax {
			t.Errorf("product %d comments = %d, want in [%d,%d]", i, p.Comments, entry.CommentsMin, entry.CommentsMax)
		}
		if p.LaunchedAt.IsZero() {
			t.Errorf("product %d launched_at should be set", i)
		}
	}
}

func TestMockGeneratorURLs(t *testing.T) {
	g := NewMockGenerator("http://example.test")
	products := g.Generate()

	if got := products[0].URL; got != "http://example.test/posts/taskflow-ai" {
		t.Errorf("url = %q, want %q", got, "http://example.test/posts/taskflow-ai")
	}
	if got := products[1].URL; got != "http://example.test/posts/pixelcraft-studio" {
		t.Errorf("url = %q, want %q", got, "http://example.test/posts/pixelcraft-studio")
	}
}

func TestMockGeneratorSeededReproducible(t *testing.T) {
	a := NewSeededMockGenerator("http://example.test", 42).Generate()
	b := NewSeededMockGenerator("http://example.test", 42).Generate()

	for i := range a {
		if a[i].Votes != b[i].Votes || a[i].Comments != b[i].Comments {
			t.Errorf("product %d counts differ across same-seed generators: %d/%d vs %d/%d",
				i, a[i].Votes, a[i].Comments, b[i].Votes, b[i].Comments)
		}
	}
}

func TestMockProductsAreMeaningful(t *testing.T) {
	for _, p := range NewMockGenerator("http://example.test").Generate() {
		if !meaningful(p) {
			t.Errorf("catalog entry %q should pass the placeholder filter", p.Name)
		}
	}
}
