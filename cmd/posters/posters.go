// Package posters downloads feed artwork through a pool of asset slots and
// saves it as resized JPEG files.
package posters

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/lepinkainen/marquee/internal/assets"
	"github.com/lepinkainen/marquee/internal/cmdutil"
	"github.com/lepinkainen/marquee/internal/config"
	"github.com/lepinkainen/marquee/internal/feed"
	"github.com/lepinkainen/marquee/internal/fileutil"
	"github.com/lepinkainen/marquee/internal/poster"
	"golang.org/x/sync/errgroup"
)

// Options control a single posters run. Zero values fall back to the global
// configuration.
type Options struct {
	FeedURL     string
	OutputDir   string
	Banners     bool
	Cast        bool
	Overwrite   bool
	Concurrency int
	MaxWidth    int
	Loader      *feed.Loader
	Store       *assets.Store
}

// Report counts what happened to each artwork job.
type Report struct {
	Saved   int
	Skipped int
	Missing int
	Failed  int
}

type job struct {
	title string
	kind  poster.Kind
	url   string
	path  string
}

// Run loads the feed and saves every poster (plus banners and cast images when
// enabled). Individual failures are logged and counted; only feed loading,
// output setup and cancellation abort the run.
func Run(ctx context.Context, opts Options) (Report, error) {
	feedURL, err := cmdutil.ResolveFeedURL(opts.FeedURL)
	if err != nil {
		return Report{}, err
	}

	cmdConfig := &cmdutil.BaseCommandConfig{
		OutputDir: opts.OutputDir,
		ConfigKey: "posters",
		Overwrite: opts.Overwrite || config.OverwriteFiles,
	}
	if err := cmdutil.SetupOutputDir(cmdConfig); err != nil {
		return Report{}, err
	}

	loader := opts.Loader
	if loader == nil {
		loader = cmdutil.NewFeedLoader()
	}
	store := opts.Store
	if store == nil {
		store = cmdutil.NewAssetStore()
	}

	sections, err := loader.Fetch(ctx, feedURL)
	if err != nil {
		return Report{}, err
	}

	jobs, report := planJobs(sections, cmdConfig.OutputDir, opts.Banners, opts.Cast, cmdConfig.Overwrite)
	slog.Info("Downloading artwork", "jobs", len(jobs), "skipped", report.Skipped, "missing", report.Missing)

	workers := opts.Concurrency
	if workers <= 0 {
		workers = config.Concurrency
	}
	if workers <= 0 {
		workers = config.DefaultConcurrency
	}
	maxWidth := opts.MaxWidth
	if maxWidth <= 0 {
		maxWidth = config.PosterMaxWidth
	}

	saved, failed, err := download(ctx, store, jobs, workers, maxWidth)
	report.Saved = saved
	report.Failed = failed

	stats := store.Cache().Stats()
	slog.Info("Image cache", "entries", store.Cache().Len(), "bytes", store.Cache().Size(),
		"hits", stats.Hits, "misses", stats.Misses, "evictions", stats.Evictions)
	slog.Info("Posters complete", "saved", report.Saved, "skipped", report.Skipped,
		"missing", report.Missing, "failed", report.Failed)

	return report, err
}

// planJobs lists the artwork to fetch in feed order. Existing files are
// skipped unless overwrite is set; movies without a poster count as missing.
func planJobs(sections []feed.Section, outputDir string, banners, cast, overwrite bool) ([]job, Report) {
	var jobs []job
	var report Report
	seen := make(map[string]bool)

	add := func(title string, kind poster.Kind, url string) {
		path := filepath.Join(outputDir, poster.Filename(title, kind))
		if seen[path] {
			return
		}
		seen[path] = true

		if !overwrite && fileutil.FileExists(path) {
			slog.Debug("Artwork exists, skipping", "path", path)
			report.Skipped++
			return
		}
		jobs = append(jobs, job{title: title, kind: kind, url: url, path: path})
	}

	for _, section := range sections {
		for _, movie := range section.Children {
			if movie.HasPoster() {
				add(movie.Title, poster.KindPoster, movie.Poster)
			} else {
				slog.Debug("Movie has no poster", "section", section.Title, "movie", movie.Title)
				report.Missing++
			}
			if banners && movie.HasBanner() {
				add(movie.Title, poster.KindBanner, movie.Banner)
			}
			if cast {
				for _, c := range movie.Cast {
					add(c.Name, poster.KindCast, c.Image)
				}
			}
		}
	}
	return jobs, report
}

func download(ctx context.Context, store *assets.Store, jobs []job, workers, maxWidth int) (saved, failed int, err error) {
	var mu sync.Mutex
	count := func(ok bool) {
		mu.Lock()
		defer mu.Unlock()
		if ok {
			saved++
		} else {
			failed++
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	queue := make(chan job)

	g.Go(func() error {
		defer close(queue)
		for _, j := range jobs {
			select {
			case queue <- j:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < workers; i++ {
		slot := store.NewSlot()
		g.Go(func() error {
			for j := range queue {
				res := <-slot.Request(ctx, j.url)
				if res.Err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					slog.Warn("Failed to fetch artwork", "title", j.title, "kind", j.kind, "url", j.url, "error", res.Err)
					count(false)
					continue
				}

				if err := poster.Save(res.Data, j.path, maxWidth); err != nil {
					slog.Warn("Failed to save artwork", "title", j.title, "kind", j.kind, "path", j.path, "error", err)
					count(false)
					continue
				}
				slog.Debug("Saved artwork", "path", j.path, "cached", res.FromCache)
				count(true)
			}
			return nil
		})
	}

	err = g.Wait()
	return saved, failed, err
}
