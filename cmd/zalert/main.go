package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/kmathews/zalert"
	"github.com/kmathews/zalert/gmaps"
	"github.com/kmathews/zalert/goquery"
	"github.com/kmathews/zalert/htmltomarkdown"
	"github.com/kmathews/zalert/imap"
	"github.com/kmathews/zalert/pipeline"
	"github.com/kmathews/zalert/rentcast"
	"github.com/kmathews/zalert/sqlite"
	"github.com/kmathews/zalert/yaml"
	"github.com/rs/zerolog"
)

func main() {
	ctx := context.Background()

	// Secrets come from the environment; a .env file is a convenience for
	// local runs.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ListingService zalert.ListingService
	AlertLog       zalert.AlertLog
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("zalert"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'zalert --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set ZALERT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.ListingService = sqlite.NewListingService(m.DB)
	m.AlertLog = sqlite.NewAlertLogService(m.DB)
	deps.DB = m.DB
	deps.Listings = m.ListingService
	deps.Alerts = m.AlertLog
	deps.Extractor = goquery.NewExtractor()
	deps.Converter = htmltomarkdown.NewConverter()

	// Wire command-specific dependencies based on command
	if cmd == "run" {
		scoring, err := yaml.LoadScoringConfig(cli.Run.Scoring)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: pass --scoring to point at your scoring matrix")
			return err
		}

		source := imap.NewSource(imap.Config{
			Addr:     envOr("ZALERT_IMAP_ADDR", "imap.gmail.com:993"),
			Username: os.Getenv("ZALERT_IMAP_USER"),
			Password: os.Getenv("ZALERT_IMAP_PASSWORD"),
			Sender:   envOr("ZALERT_ALERT_SENDER", "zillow.com"),
		})
		if err := source.Open(ctx); err != nil {
			fmt.Fprintln(stderr, "Hint: set ZALERT_IMAP_USER and ZALERT_IMAP_PASSWORD (an app password, not your login)")
			return err
		}
		defer source.Close()

		rentcastKey := os.Getenv("RENTCAST_API_KEY")
		if rentcastKey == "" {
			return fmt.Errorf("RENTCAST_API_KEY not set. Get a key at https://app.rentcast.io/app/api")
		}

		var commutes zalert.CommuteService
		if key := os.Getenv("GOOGLE_MAPS_API_KEY"); key != "" && len(cli.Run.Dest) > 0 {
			commutes = gmaps.NewClient(key)
		} else if len(cli.Run.Dest) > 0 {
			fmt.Fprintln(stderr, "GOOGLE_MAPS_API_KEY not set — commute times will not be looked up")
		}

		logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"}).
			With().Timestamp().Logger()

		deps.Pipeline = &pipeline.Pipeline{
			Source:       source,
			Extractor:    deps.Extractor,
			Properties:   rentcast.NewClient(rentcastKey),
			Commutes:     commutes,
			Listings:     m.ListingService,
			Alerts:       m.AlertLog,
			Scoring:      scoring,
			Destinations: cli.Run.Dest,
			MaxPerRun:    cli.Run.MaxPerRun,
			Logger:       logger,
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("ZALERT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "zalert.db"
	}
	dir := filepath.Join(home, ".zalert")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "zalert.db")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
