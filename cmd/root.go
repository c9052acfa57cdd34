package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/lepinkainen/marquee/cmd/export"
	"github.com/lepinkainen/marquee/cmd/posters"
	"github.com/lepinkainen/marquee/cmd/show"
	"github.com/lepinkainen/marquee/internal/config"
	"github.com/spf13/viper"
)

var (
	runShow    = show.Run
	runPosters = posters.Run
	runExport  = export.Run
)

// Command output goes to stdout; logs go to stderr so output can be piped.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// CLI represents the complete command structure for the marquee application
type CLI struct {
	// Global flags
	FeedURL      string        `help:"URL of the movie feed JSON document (defaults to feed.url in config)"`
	Timeout      time.Duration `help:"Timeout for a single feed or image request, e.g. 15s"`
	CacheEntries int           `help:"Maximum number of images kept in memory"`
	CacheBytes   int64         `help:"Maximum total image bytes kept in memory"`
	Rate         float64       `help:"Image requests per second (negative disables throttling)"`
	Overwrite    bool          `help:"Overwrite existing output files"`
	Debug        bool          `help:"Enable debug logging"`

	Show    ShowCmd    `cmd:"" help:"Print the movie feed"`
	Posters PostersCmd `cmd:"" help:"Download and resize feed artwork"`
	Export  ExportCmd  `cmd:"" help:"Export the feed to a Datasette database"`
}

// ShowCmd represents the show command
type ShowCmd struct {
	Format string `short:"f" help:"Output format" enum:"text,json,yaml" default:"text"`
	Sample bool   `help:"Show the built-in sample feed instead of loading one"`
}

// PostersCmd represents the posters command
type PostersCmd struct {
	Output      string `short:"o" help:"Directory for saved artwork (defaults to posters.output in config)"`
	Banners     bool   `help:"Also download banner images"`
	Cast        bool   `help:"Also download cast member images"`
	Concurrency int    `short:"c" help:"Number of parallel downloads (defaults to posters.concurrency in config)"`
	MaxWidth    int    `help:"Maximum width of saved images in pixels (defaults to posters.maxwidth in config)"`
}

// ExportCmd represents the export command
type ExportCmd struct {
	DB         string `help:"Path to SQLite database file (defaults to datasette.dbfile in config)"`
	Remote     string `help:"Base URL of a remote Datasette instance; enables remote mode"`
	Token      string `help:"API token for the remote Datasette instance"`
	Sample     bool   `help:"Export the built-in sample feed instead of loading one"`
	JSON       bool   `help:"Also write the feed as JSON"`
	JSONOutput string `help:"Path to JSON output file (defaults to json/export.json)"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(false)
	if err := initConfig(); err != nil {
		slog.Error("Fatal error config file", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("marquee"),
		kong.Description("Load a categorized movie feed and fetch its artwork."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	if cli.Debug {
		initLogging(true)
	}
	updateGlobalConfig(&cli)

	if err := kctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func initConfig() error {
	config.SetDefaults()

	// Enable environment variable support, e.g. MARQUEE_HTTP_TIMEOUT
	viper.SetEnvPrefix("marquee")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.BindEnv("feed.url", "MARQUEE_FEED_URL"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		slog.Info("Config file not found, writing default config file...")
		if err := viper.SafeWriteConfig(); err != nil {
			slog.Error("Error writing config file", "error", err)
		}
	}

	// Initialize global config
	config.InitConfig()
	return nil
}

func updateGlobalConfig(cli *CLI) {
	if cli.FeedURL != "" {
		config.FeedURL = cli.FeedURL
	}
	if cli.Timeout > 0 {
		config.HTTPTimeout = cli.Timeout
	}
	if cli.CacheEntries > 0 {
		config.CacheMaxEntries = cli.CacheEntries
	}
	if cli.CacheBytes > 0 {
		config.CacheMaxBytes = cli.CacheBytes
	}
	switch {
	case cli.Rate > 0:
		config.ImageRatePerSecond = cli.Rate
	case cli.Rate < 0:
		config.ImageRatePerSecond = 0
	}
	if cli.Overwrite {
		config.SetOverwriteFiles(true)
	}
}

// Run methods for each command

func (s *ShowCmd) Run(ctx context.Context) error {
	return runShow(ctx, show.Options{
		Format: s.Format,
		Sample: s.Sample,
		Output: stdout,
	})
}

func (p *PostersCmd) Run(ctx context.Context) error {
	report, err := runPosters(ctx, posters.Options{
		OutputDir:   p.Output,
		Banners:     p.Banners,
		Cast:        p.Cast,
		Overwrite:   config.OverwriteFiles,
		Concurrency: p.Concurrency,
		MaxWidth:    p.MaxWidth,
	})
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		slog.Warn("Some artwork could not be saved", "failed", report.Failed)
	}
	return nil
}

func (e *ExportCmd) Run(ctx context.Context) error {
	if e.DB != "" {
		viper.Set("datasette.dbfile", e.DB)
	}
	if e.Remote != "" {
		viper.Set("datasette.mode", "remote")
		viper.Set("datasette.remote_url", e.Remote)
	}
	if e.Token != "" {
		viper.Set("datasette.api_token", e.Token)
	}
	if viper.GetString("datasette.mode") == "remote" && viper.GetString("datasette.remote_url") == "" {
		return fmt.Errorf("remote Datasette URL is required (provide via --remote flag or datasette.remote_url in config)")
	}

	return runExport(ctx, export.Options{
		Sample:     e.Sample,
		WriteJSON:  e.JSON,
		JSONOutput: e.JSONOutput,
		Overwrite:  config.OverwriteFiles,
	})
}

func initLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(stderr, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
