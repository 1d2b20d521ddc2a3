package scraper

// Selector chains are ordered data, consulted top to bottom with
// first-match-wins semantics. The listing DOM is JavaScript-rendered and
// unstable, so every field carries several strategies: test-id attributes
// first, then class-substring guesses, then structural fallbacks.

// postPathMarker is the path segment identifying a product detail link.
const postPathMarker = "/posts/"

// primaryContainerSelector matches listing containers by their test marker.
const primaryContainerSelector = `div[data-test*="post-item"], article[data-test*="post-item"], section[data-test*="post-item"]`

// fallbackClassKeywords drive the secondary container scan: any div whose
// class string contains one of these (case-insensitive) is a candidate.
var fallbackClassKeywords = []string{"product", "post", "item"}

var nameSelectors = []string{
	"h3",
	"h2",
	`[data-test*="name"]`,
	`[data-test*="title"]`,
	`[class*="name"]`,
	`[class*="title"]`,
	`a[href*="/posts/"]`,
}

var taglineSelectors = []string{
	`[data-test*="tagline"]`,
	`[data-test*="description"]`,
	"p",
	`[class*="tagline"]`,
	`[class*="description"]`,
	`[class*="subtitle"]`,
}

var voteSelectors = []string{
	`[data-test*="vote"]`,
	`[class*="vote"]`,
	`[class*="count"]`,
}

var commentSelectors = []string{
	`[data-test*="comment"]`,
	`[class*="comment"]`,
	`a[href*="comments"]`,
}

var makerSelectors = []string{
	`[data-test*="maker"]`,
	`[data-test*="author"]`,
	`[class*="maker"]`,
	`[class*="author"]`,
	`[class*="creator"]`,
}

var categorySelectors = []string{
	`[data-test*="category"]`,
	`[data-test*="tag"]`,
	`[class*="category"]`,
	`[class*="tag"]`,
}
