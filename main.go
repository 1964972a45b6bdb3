package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/mcncl/jsondp/internal/config"
	"github.com/mcncl/jsondp/internal/errors"
)

// Globals are the flags accepted by every command
type Globals struct {
	Config  string           `help:"Path to a config file. Defaults to the nearest .jsondp.yml in the current directory or its parents." short:"c" type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Indent  *int             `help:"Indent output by this many spaces. Overrides output.indent from the config file when set." short:"n"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`
}

// CLI defines the command-line interface
var CLI struct {
	Globals

	Render     RenderCmd     `cmd:"" help:"Decode a JSON-DP document and render it again, with or without provenance."`
	Get        GetCmd        `cmd:"" help:"Look up a field of a JSON-DP object, optionally filtered by provenance."`
	Provenance ProvenanceCmd `cmd:"" help:"Print the provenance blocks of a JSON-DP document."`
	Annotate   AnnotateCmd   `cmd:"" help:"Attach provenance to every top-level entry of a plain JSON document."`
	Merge      MergeCmd      `cmd:"" help:"Merge plain JSON sources into one JSON-DP document, attributing each entry to its source."`
}

// Context holds the runtime context shared by all commands
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *log.Logger
	Stdin  io.Reader
	Stdout io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("jsondp"),
		kong.Description("A tool to attach, query and render data provenance on JSON documents"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("jsondp version %s", Version)},
	)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx, err := newContext(CLI.Globals, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := kctx.Run(ctx); err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		ctx.Logger.Debug("command failed", "err", err)

		fmt.Fprintf(os.Stderr, "\nFor help, run: jsondp --help\n")
		os.Exit(1)
	}
}

// newContext resolves the configuration (CLI > config file > defaults) and
// builds the logger.
func newContext(globals Globals, stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	configPath := globals.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	override := &config.Config{
		Dev: config.DevConfig{Debug: globals.Debug},
	}
	cfg, err := config.LoadConfigWithCLI(configPath, override)
	if err != nil {
		return nil, err
	}
	// An explicit --indent 0 must still win over the file
	if err := cfg.OverrideIndent(globals.Indent); err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(stderr, log.Options{
		Prefix: "jsondp",
		Level:  log.InfoLevel,
	})
	if cfg.Dev.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	if configPath != "" {
		logger.Debug("loaded config", "path", configPath)
	}

	return &Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Logger: logger,
		Stdin:  stdin,
		Stdout: stdout,
	}, nil
}
