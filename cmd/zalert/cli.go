package main

import (
	"context"
	"io"

	"github.com/kmathews/zalert"
	"github.com/kmathews/zalert/pipeline"
	"github.com/kmathews/zalert/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	DB        *sqlite.DB
	Listings  zalert.ListingService
	Alerts    zalert.AlertLog
	Extractor zalert.ListingExtractor
	Converter zalert.Converter
	Pipeline  *pipeline.Pipeline
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Run      RunCmd      `cmd:"" help:"Fetch alerts, enrich new listings, and re-score the ledger"`
	Extract  ExtractCmd  `cmd:"" help:"Extract listing stubs from saved alert files"`
	Listings ListingsCmd `cmd:"" help:"List ledgered listings"`
	Scores   ScoresCmd   `cmd:"" help:"Score the ledger and print it, best value first"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Scoring   string            `short:"s" default:"config/scoring.yaml" help:"Path to the scoring matrix"`
	Dest      map[string]string `short:"d" help:"Commute destinations as label=address (repeatable)"`
	MaxPerRun int               `default:"20" help:"Max new listings to enrich per run"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Paths  []string `arg:"" type:"existingfile" help:"Saved alert messages (.eml) or HTML bodies"`
	JSON   bool     `short:"j" xor:"format" help:"Print listings as JSON"`
	Digest bool     `xor:"format" help:"Print each alert body as a Markdown digest instead of listings"`
}

// ListingsCmd is the "listings" subcommand.
type ListingsCmd struct {
	Sort  string `enum:"added_at,price" default:"added_at" help:"Sort order"`
	Limit int    `help:"Max listings to print"`
}

// ScoresCmd is the "scores" subcommand.
type ScoresCmd struct {
	Scoring string `short:"s" default:"config/scoring.yaml" help:"Path to the scoring matrix"`
	Full    bool   `help:"Show the per-criterion breakdown"`
}
