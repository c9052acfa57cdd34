// Package feed decodes and loads the categorized movie feed.
package feed

// Section is one titled row of movies, in display order.
type Section struct {
	Title    string  `json:"title" yaml:"title"`
	Children []Movie `json:"children" yaml:"children"`
}

// Movie is a single feed entry. Poster and Banner are optional; an empty
// string means the feed carries no artwork and a placeholder is shown.
type Movie struct {
	Title      string   `json:"title" yaml:"title"`
	Poster     string   `json:"poster,omitempty" yaml:"poster,omitempty"`
	Banner     string   `json:"banner,omitempty" yaml:"banner,omitempty"`
	Duration   string   `json:"duration" yaml:"duration"`
	Categories []string `json:"categories" yaml:"categories"`
	Cast       []Cast   `json:"cast" yaml:"cast"`
}

// HasPoster reports whether the movie has poster artwork.
func (m Movie) HasPoster() bool {
	return m.Poster != ""
}

// HasBanner reports whether the movie has banner artwork.
func (m Movie) HasBanner() bool {
	return m.Banner != ""
}

// Cast is a credited person.
type Cast struct {
	Name  string `json:"name" yaml:"name"`
	Image string `json:"image" yaml:"image"`
	Bio   string `json:"bio" yaml:"bio"`
	Type  string `json:"type" yaml:"type"`
}

// MovieCount returns the total number of movies across sections.
func MovieCount(sections []Section) int {
	n := 0
	for _, s := range sections {
		n += len(s.Children)
	}
	return n
}
