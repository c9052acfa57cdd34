// Package show prints the movie feed as text, JSON or YAML.
package show

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lepinkainen/marquee/internal/cmdutil"
	"github.com/lepinkainen/marquee/internal/feed"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options control a single show run.
type Options struct {
	FeedURL string
	Sample  bool
	Format  string
	Output  io.Writer
	Loader  *feed.Loader
}

// Run loads the feed (or the built-in sample) and renders it to opts.Output.
func Run(ctx context.Context, opts Options) error {
	sections, err := loadSections(ctx, opts)
	if err != nil {
		return err
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	return Render(out, sections, opts.Format)
}

func loadSections(ctx context.Context, opts Options) ([]feed.Section, error) {
	if opts.Sample {
		slog.Debug("Using built-in sample feed")
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

// Render writes sections to w in the given format. An empty format means text.
func Render(w io.Writer, sections []feed.Section, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		return renderText(w, sections)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sections)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sections); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (expected text, json or yaml)", format)
	}
}

func renderText(w io.Writer, sections []feed.Section) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	title := r.NewStyle().Bold(true)
	faint := r.NewStyle().Faint(true)

	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\n", header.Render(fmt.Sprintf("%s (%d)", section.Title, len(section.Children))))
		if len(section.Children) == 0 {
			fmt.Fprintf(&b, "  %s\n", faint.Render("no movies"))
			continue
		}

		for _, movie := range section.Children {
			fmt.Fprintf(&b, "  %s", title.Render(movie.Title))
			if movie.Duration != "" {
				fmt.Fprintf(&b, "  %s", movie.Duration)
			}
			b.WriteString("\n")
			if len(movie.Categories) > 0 {
				fmt.Fprintf(&b, "    Categories: %s\n", strings.Join(movie.Categories, ", "))
			}
			if movie.HasPoster() {
				fmt.Fprintf(&b, "    Poster: %s\n", movie.Poster)
			}
			if movie.HasBanner() {
				fmt.Fprintf(&b, "    Banner: %s\n", movie.Banner)
			}
			if len(movie.Cast) > 0 {
				names := make([]string, len(movie.Cast))
				for j, c := range movie.Cast {
					names[j] = fmt.Sprintf("%s (%s)", c.Name, c.Type)
				}
				fmt.Fprintf(&b, "    Cast: %s\n", strings.Join(names, ", "))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
