package feed

import "fmt"

// SampleSections returns the built-in three-row dataset used for offline
// previews: Comedy, Action and Drama with three artwork-less movies each.
func SampleSections() []Section {
	titles := []string{"Comedy", "Action", "Drama"}
	sections := make([]Section, 0, len(titles))
	n := 1
	for _, title := range titles {
		movies := make([]Movie, 0, 3)
		for i := 0; i < 3; i++ {
			movies = append(movies, Movie{
				Title:      fmt.Sprintf("Movie %d", n),
				Categories: []string{title},
				Cast:       []Cast{},
			})
			n++
		}
		sections = append(sections, Section{Title: title, Children: movies})
	}
	return sections
}
