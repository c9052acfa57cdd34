// Package export writes the movie feed into a Datasette-compatible database.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/marquee/internal/cmdutil"
	"github.com/lepinkainen/marquee/internal/config"
	"github.com/lepinkainen/marquee/internal/feed"
	"github.com/lepinkainen/marquee/internal/fileutil"
)

const (
	sectionsSchema = `CREATE TABLE IF NOT EXISTS sections (
		id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		title TEXT NOT NULL
	)`

	moviesSchema = `CREATE TABLE IF NOT EXISTS movies (
		id INTEGER PRIMARY KEY,
		section_id INTEGER NOT NULL REFERENCES sections(id),
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		poster TEXT,
		banner TEXT,
		duration TEXT,
		categories TEXT
	)`

	castSchema = `CREATE TABLE IF NOT EXISTS cast_members (
		movie_id INTEGER NOT NULL REFERENCES movies(id),
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		image TEXT,
		bio TEXT,
		type TEXT,
		PRIMARY KEY (movie_id, position)
	)`
)

var openDatastore = cmdutil.OpenDatastore

// Options control a single export run.
type Options struct {
	FeedURL    string
	Sample     bool
	WriteJSON  bool
	JSONOutput string
	Overwrite  bool
	Loader     *feed.Loader
}

// SectionRow is one row of the sections table.
type SectionRow struct {
	ID       int
	Position int
	Title    string
}

// MovieRow is one row of the movies table. Categories are stored comma-joined.
type MovieRow struct {
	ID         int
	SectionID  int
	Position   int
	Title      string
	Poster     string
	Banner     string
	Duration   string
	Categories []string
}

// CastRow is one row of the cast_members table.
type CastRow struct {
	MovieID  int
	Position int
	Name     string
	Image    string
	Bio      string
	Type     string
}

// Rows holds the flattened feed, with IDs assigned in feed order.
type Rows struct {
	Sections []SectionRow
	Movies   []MovieRow
	Cast     []CastRow
}

// Flatten turns sections into table rows. Section and movie IDs start at 1 and
// follow feed order; positions are zero-based within their parent.
func Flatten(sections []feed.Section) Rows {
	var rows Rows
	movieID := 0
	for i, section := range sections {
		sectionID := i + 1
		rows.Sections = append(rows.Sections, SectionRow{ID: sectionID, Position: i, Title: section.Title})

		for j, movie := range section.Children {
			movieID++
			rows.Movies = append(rows.Movies, MovieRow{
				ID:         movieID,
				SectionID:  sectionID,
				Position:   j,
				Title:      movie.Title,
				Poster:     movie.Poster,
				Banner:     movie.Banner,
				Duration:   movie.Duration,
				Categories: movie.Categories,
			})

			for k, c := range movie.Cast {
				rows.Cast = append(rows.Cast, CastRow{
					MovieID:  movieID,
					Position: k,
					Name:     c.Name,
					Image:    c.Image,
					Bio:      c.Bio,
					Type:     c.Type,
				})
			}
		}
	}
	return rows
}

// Optional feed fields are stored as NULL rather than empty text.
var nullableColumns = map[string]bool{
	"poster":     true,
	"banner":     true,
	"duration":   true,
	"categories": true,
	"image":      true,
	"bio":        true,
	"type":       true,
}

func toRecord[T any](row T) map[string]any {
	return cmdutil.RowToRecord(row, cmdutil.RecordOptions{Nullable: nullableColumns})
}

// Run loads the feed and replaces the exported tables with its contents.
func Run(ctx context.Context, opts Options) (err error) {
	sections, err := loadSections(ctx, opts)
	if err != nil {
		return err
	}

	store, err := openDatastore()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	rows := Flatten(sections)
	if err := cmdutil.WriteToDatastore(store, rows.Sections, sectionsSchema, "sections", "feed sections", toRecord[SectionRow]); err != nil {
		return err
	}
	if err := cmdutil.WriteToDatastore(store, rows.Movies, moviesSchema, "movies", "movies", toRecord[MovieRow]); err != nil {
		return err
	}
	if err := cmdutil.WriteToDatastore(store, rows.Cast, castSchema, "cast_members", "cast members", toRecord[CastRow]); err != nil {
		return err
	}

	if err := writeJSON(sections, opts); err != nil {
		return err
	}

	slog.Info("Export complete", "sections", len(rows.Sections), "movies", len(rows.Movies), "cast", len(rows.Cast))
	return nil
}

func loadSections(ctx context.Context, opts Options) ([]feed.Section, error) {
	if opts.Sample {
		return feed.SampleSections(), nil
	}

	feedURL, err := cmdutil.ResolveFeedURL(opts.FeedURL)
	if err != nil {
		return nil, err
	}

	loader := opts.Loader
	if loader == nil {
		loader = cmdutil.NewFeedLoader()
	}
	return loader.Fetch(ctx, feedURL)
}

func writeJSON(sections []feed.Section, opts Options) error {
	cmdConfig := &cmdutil.BaseCommandConfig{
		ConfigKey:  "export",
		WriteJSON:  opts.WriteJSON,
		JSONOutput: opts.JSONOutput,
		Overwrite:  opts.Overwrite || config.OverwriteFiles,
	}
	if err := cmdutil.SetupJSONOutput(cmdConfig); err != nil {
		return err
	}
	if !cmdConfig.WriteJSON {
		return nil
	}

	if _, err := fileutil.WriteJSONFile(sections, cmdConfig.JSONOutput, cmdConfig.Overwrite); err != nil {
		return fmt.Errorf("failed to write JSON snapshot: %w", err)
	}
	return nil
}
