// Package main is the entry point for the docugen document generator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/docugen/docugen/internal/config"
	"github.com/docugen/docugen/internal/docgen"
	"github.com/docugen/docugen/internal/docgen/provider"
	"github.com/docugen/docugen/internal/plugin"
	"github.com/docugen/docugen/internal/plugin/luaplug"
	"github.com/docugen/docugen/internal/plugin/watcher"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	configPath string
	pluginDir  string
	outputDir  string
	docType    string
	title      string
	background string
	list       bool
	watch      bool
	verbose    bool
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry, unsubscribe := buildRegistry(cfg, opts.verbose)
	defer unsubscribe()
	defer registry.Cleanup(context.Background())

	if err := registry.LoadAll(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: load plugins: %v\n", err)
		return 1
	}

	if opts.list {
		printStatus(registry)
		return 0
	}

	backend, err := provider.ForName(cfg.Provider.Name, cfg.Provider.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	req := docgen.Request{
		Type:    docgen.Type(opts.docType),
		Title:   opts.title,
		Context: opts.background,
	}

	if err := generateOnce(ctx, registry, backend, cfg.OutputDir, req); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if !cfg.Watch {
		return 0
	}

	if err := watchLoop(ctx, cfg, registry, backend, req, opts.verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.pluginDir != "" {
		cfg.PluginPaths = []string{opts.pluginDir}
	}
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}
	if opts.watch {
		cfg.Watch = true
	}
	return cfg, cfg.Validate()
}

// buildRegistry wires a registry over the configured plugin paths and
// subscribes a notification printer.
func buildRegistry(cfg *config.Config, verbose bool) (*plugin.Registry, func()) {
	registry := plugin.NewRegistry(
		plugin.WithSources(luaplug.NewSource(cfg.PluginPaths...)),
	)
	unsubscribe := registry.Subscribe(func(n plugin.Notification) {
		if n.Err == nil && !verbose {
			return
		}
		if n.Err != nil {
			fmt.Fprintf(os.Stderr, "plugin %s: %s: %v\n", n.Plugin, n.Type, n.Err)
			return
		}
		if n.Hook != "" {
			fmt.Fprintf(os.Stderr, "plugin %s: %s (%s)\n", n.Plugin, n.Type, n.Hook)
			return
		}
		fmt.Fprintf(os.Stderr, "plugin %s: %s\n", n.Plugin, n.Type)
	})
	return registry, unsubscribe
}

// generateOnce runs the full pipeline for one request and prints the
// published path.
func generateOnce(ctx context.Context, registry *plugin.Registry, backend provider.Provider, outDir string, req docgen.Request) error {
	gen := docgen.NewGenerator(backend, registry)
	doc, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}

	if doc.Report != nil && !doc.Report.OK() {
		for _, f := range doc.Report.Findings {
			fmt.Fprintf(os.Stderr, "validation: %s\n", f)
		}
	}

	pub := docgen.NewPublisher(outDir, registry)
	path, err := pub.Publish(ctx, doc)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// watchLoop re-discovers plugins and regenerates the document whenever
// a plugin directory changes, until interrupted.
func watchLoop(ctx context.Context, cfg *config.Config, registry *plugin.Registry, backend provider.Provider, req docgen.Request, verbose bool) error {
	w, err := watcher.New(cfg.PluginPaths)
	if err != nil {
		return fmt.Errorf("watch plugins: %w", err)
	}
	defer w.Close()

	fmt.Fprintf(os.Stderr, "watching %v for plugin changes\n", w.Dirs())

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "change in %s, reloading plugins\n", ev.Dir)
			}
			if err := registry.Cleanup(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "plugin cleanup: %v\n", err)
			}
			if err := registry.LoadAll(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "plugin reload: %v\n", err)
				continue
			}
			if err := generateOnce(ctx, registry, backend, cfg.OutputDir, req); err != nil {
				fmt.Fprintf(os.Stderr, "regenerate: %v\n", err)
			}
		}
	}
}

// printStatus lists installed plugins and their hook registrations.
func printStatus(registry *plugin.Registry) {
	status := registry.Status()
	if len(status) == 0 {
		fmt.Println("no plugins installed")
		return
	}

	names := make([]string, 0, len(status))
	for name := range status {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := status[name]
		state := "enabled"
		if !s.Enabled {
			state = "disabled"
		}
		fmt.Printf("%s %s (%s)\n", s.Name, s.Version, state)
		for _, h := range s.Hooks {
			fmt.Printf("  hook: %s\n", h)
		}
		for _, d := range s.Dependencies {
			fmt.Printf("  requires: %s\n", d)
		}
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (.yaml, .yml, or .toml)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.pluginDir, "plugins", "", "Plugin directory (overrides config)")
	flag.StringVar(&opts.outputDir, "out", "", "Output directory (overrides config)")
	flag.StringVar(&opts.outputDir, "o", "", "Output directory (shorthand)")
	flag.StringVar(&opts.docType, "type", string(docgen.TypeProjectCharter), "Document type to generate")
	flag.StringVar(&opts.docType, "t", string(docgen.TypeProjectCharter), "Document type to generate (shorthand)")
	flag.StringVar(&opts.title, "title", "", "Document title")
	flag.StringVar(&opts.background, "context", "", "Background text folded into the prompt")
	flag.BoolVar(&opts.list, "list", false, "List installed plugins and exit")
	flag.BoolVar(&opts.watch, "watch", false, "Watch plugin directories and regenerate on change")
	flag.BoolVar(&opts.verbose, "verbose", false, "Print plugin lifecycle notifications")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "docugen - plugin-extensible project document generator\n\n")
		fmt.Fprintf(os.Stderr, "Usage: docugen [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nDocument types:\n")
		for _, t := range docgen.Types() {
			fmt.Fprintf(os.Stderr, "  %s\n", t)
		}
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  docugen -t project-charter -title \"Alpha\"\n")
		fmt.Fprintf(os.Stderr, "  docugen -c docugen.yaml -t requirements -title \"Beta\" -watch\n")
		fmt.Fprintf(os.Stderr, "  docugen -plugins ./plugins -list\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("docugen %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if !opts.list && opts.title == "" {
		fmt.Fprintln(os.Stderr, "Error: -title is required unless -list is given")
		os.Exit(1)
	}

	if !docgen.Type(opts.docType).Recognized() {
		fmt.Fprintf(os.Stderr, "Error: unknown document type %q\n", opts.docType)
		os.Exit(1)
	}

	return opts
}
