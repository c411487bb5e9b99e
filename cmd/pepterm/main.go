package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/pepterm/config"
	"github.com/lixenwraith/pepterm/core"
	"github.com/lixenwraith/pepterm/model"
	"github.com/lixenwraith/pepterm/palette"
	"github.com/lixenwraith/pepterm/parameter"
	"github.com/lixenwraith/pepterm/status"
	"github.com/lixenwraith/pepterm/structure"
	"github.com/lixenwraith/pepterm/terminal"
	"github.com/lixenwraith/pepterm/viewer"
)

// version is overridden at link time with -X main.version=...
var version = "dev"

// statsInterval paces the debug stats logger
const statsInterval = 5 * time.Second

// newClient is replaced in tests to point the client at a local server
var newClient = func(dir string) *structure.Client {
	return structure.NewClient(dir)
}

const usage = `pepterm %s - terminal wireframe viewer for protein cartoons

Usage:
  pepterm [flags] <input>...     view one or more structures side by side
  pepterm search <query>         search RCSB for PDB entries
  pepterm cache [clear]          show or clear the structure cache
  pepterm help | version

Inputs:
  1CRN                  PDB ID, downloaded and converted with PyMOL
  protein.pdb, x.cif    local structure file, converted with PyMOL
  model.obj             Wavefront OBJ used as is

Flags:
  -n, -chain ID         render only this chain
  -c, -color NAME       color scheme or color name (%s)
  -glyph NAME           braille or block
  -colormode MODE       auto, truecolor or 256
  -config PATH          settings file (default %s)
  -debug                write logs to logs/pepterm.log

Controls:
  drag rotate, shift+drag pan, wheel zoom
  r auto-rotate, c cycle colors, 0 reset, q quit
`

// options holds the parsed command line for a viewing session
type options struct {
	inputs     []string
	chain      string
	scheme     string
	glyph      string
	colorMode  string
	configPath string
	debug      bool

	// visited flag names, used to apply only explicit overrides
	set map[string]bool
}

var errHelp = errors.New("help requested")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches subcommands and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return 0
	}

	switch args[0] {
	case "-h", "-help", "--h", "--help", "help":
		printUsage(stdout)
		return 0
	case "-v", "-version", "--v", "--version", "version":
		fmt.Fprintf(stdout, "pepterm %s\n", version)
		return 0
	case "search":
		return exitCode(runSearch(args[1:], stdout), stderr)
	case "cache":
		return exitCode(runCache(args[1:], stdout), stderr)
	}

	opts, err := parseArgs(args)
	if errors.Is(err, errHelp) {
		printUsage(stdout)
		return 0
	}
	if err != nil {
		return exitCode(err, stderr)
	}
	if len(opts.inputs) == 0 {
		printUsage(stdout)
		return 0
	}
	return exitCode(runViewer(opts, stderr), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "pepterm: %v\n", err)
	return 1
}

func printUsage(w io.Writer) {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		cfgPath = "none"
	}
	fmt.Fprintf(w, usage, version, "default "+palette.DefaultName, cfgPath)
}

// parseArgs accepts flags interleaved with inputs
func parseArgs(args []string) (*options, error) {
	opts := &options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("pepterm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.chain, "chain", "", "chain ID")
	fs.StringVar(&opts.chain, "n", "", "chain ID")
	fs.StringVar(&opts.scheme, "color", "", "color scheme")
	fs.StringVar(&opts.scheme, "c", "", "color scheme")
	fs.StringVar(&opts.glyph, "glyph", "", "glyph shape")
	fs.StringVar(&opts.colorMode, "colormode", "", "color mode")
	fs.StringVar(&opts.configPath, "config", "", "config file")
	fs.BoolVar(&opts.debug, "debug", false, "debug logging")

	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, errHelp
			}
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			break
		}
		// A bare "--" ends flag parsing, everything after it is an input
		if len(args) > len(rest) && args[len(args)-len(rest)-1] == "--" {
			opts.inputs = append(opts.inputs, rest...)
			break
		}
		opts.inputs = append(opts.inputs, rest[0])
		args = rest[1:]
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			opts.set["chain"] = true
		case "c":
			opts.set["color"] = true
		default:
			opts.set[f.Name] = true
		}
	})
	if opts.set["chain"] && strings.TrimSpace(opts.chain) == "" {
		return nil, errors.New("-chain needs a chain ID")
	}
	return opts, nil
}

// settings loads the config file and applies flag overrides
func (o *options) settings() (*config.Settings, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.set["color"] {
		cfg.Scheme = o.scheme
	}
	if o.set["glyph"] {
		cfg.Glyph = o.glyph
	}
	if o.set["colormode"] {
		cfg.ColorMode = o.colorMode
	}
	return cfg.Build()
}

func cacheClient() (*structure.Client, error) {
	dir, err := structure.DefaultCacheDir()
	if err != nil {
		return nil, err
	}
	return newClient(dir), nil
}

func runSearch(args []string, stdout io.Writer) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errors.New("search needs a query")
	}
	client, err := cacheClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := client.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintf(stdout, "No results found for '%s'\n", query)
		return nil
	}

	fmt.Fprintln(stdout, "Search Results:")
	for _, r := range results {
		fmt.Fprintf(stdout, "  \x1b[1;36m%s\x1b[0m  %s\n", r.ID, ansi.Truncate(r.Title, parameter.SearchTitleWidth, "..."))
	}
	return nil
}

func runCache(args []string, stdout io.Writer) error {
	client, err := cacheClient()
	if err != nil {
		return err
	}

	switch {
	case len(args) == 0:
		info, err := client.Info()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Cache directory: %s\n", info.Dir)
		fmt.Fprintf(stdout, "Files: %d\n", info.Files)
		fmt.Fprintf(stdout, "Total size: %.2f MB\n", info.MB())
		fmt.Fprintln(stdout, "Run 'pepterm cache clear' to remove cached files.")
		return nil
	case len(args) == 1 && args[0] == "clear":
		n, err := client.Clear()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Cleared %d cached files.\n", n)
		return nil
	}
	return fmt.Errorf("unknown cache command %q (use 'cache' or 'cache clear')", strings.Join(args, " "))
}

// loadModels resolves and parses every input concurrently, preserving input order
func loadModels(ctx context.Context, client *structure.Client, inputs []string, chain string) ([]*model.Model, error) {
	models := make([]*model.Model, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		g.Go(func() error {
			path, err := client.Resolve(ctx, in, chain)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			m, err := model.LoadOBJ(path)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			log.Printf("loaded %s: %d segments", in, len(m.Segments))
			models[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models, nil
}

// runViewer loads the models and runs one interactive session
func runViewer(opts *options, stderr io.Writer) error {
	if logFile := setupLogging(opts.debug); logFile != nil {
		defer logFile.Close()
	}

	settings, err := opts.settings()
	if err != nil {
		return err
	}

	client, err := cacheClient()
	if err != nil {
		return err
	}
	client.Progress = len(opts.inputs) == 1
	client.Logf = func(format string, args ...any) {
		fmt.Fprintf(stderr, format+"\n", args...)
		log.Printf(format, args...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	models, err := loadModels(ctx, client, opts.inputs, opts.chain)
	stop()
	if err != nil {
		return err
	}

	labels := make([]string, len(opts.inputs))
	for i, in := range opts.inputs {
		labels[i] = displayName(in, opts.chain)
	}

	svc := terminal.NewService(settings.ColorMode)
	if err := svc.Start(); err != nil {
		return err
	}
	term := svc.Terminal()
	core.SetCrashTerminal(term)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	reg := status.NewRegistry()
	sessionCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if opts.debug {
		core.Go(func() { logStats(sessionCtx, reg) })
	}

	v := viewer.New(term, models, labels, settings, reg)
	runErr := v.Run(sessionCtx)

	svc.Stop()
	core.SetCrashTerminal(nil)
	log.Printf("session ended: %s", strings.Join(reg.Snapshot(), " "))
	return runErr
}

// displayName is the status line label for one input
func displayName(input, chain string) string {
	name := filepath.Base(input)
	if structure.Classify(input) == structure.KindID {
		name = strings.ToUpper(input)
	}
	if chain != "" {
		name += ":" + chain
	}
	return name
}

// logStats writes a registry snapshot periodically until ctx ends
func logStats(ctx context.Context, reg *status.Registry) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Printf("stats: %s", strings.Join(reg.Snapshot(), " "))
		}
	}
}
