package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Saulo520/CleanerMulti/internal/config"
	"github.com/Saulo520/CleanerMulti/internal/language"
	"github.com/Saulo520/CleanerMulti/internal/logging"
	"github.com/Saulo520/CleanerMulti/internal/mutate"
	"github.com/Saulo520/CleanerMulti/internal/output"
	"github.com/Saulo520/CleanerMulti/internal/resolver"
	"github.com/Saulo520/CleanerMulti/internal/scanner"
	"github.com/Saulo520/CleanerMulti/internal/snapshot"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	app := &cli.App{
		Name:    "cleaner",
		Usage:   "Multi-language codebase cleanup CLI",
		Version: version,
		Description: `Cleaner maps import dependencies across a codebase, finds dead files,
broken imports, and unused exports, and applies reversible cleanup
operations behind full-tree snapshots.

Supports: JavaScript, TypeScript, Python, Java, C#, C, C++, Go, PHP`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"CLEANER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Ignore the scan cache and walk the tree fresh",
			},
		},
		Commands: []*cli.Command{
			scanCmd(),
			deadCmd(),
			brokenCmd(),
			commentImportsCmd(),
			removeImportsCmd(),
			removeFolderCmd(),
			moveCmd(),
			undoCmd(),
			snapshotsCmd(),
			graphCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// workspace bundles the collaborators every command wires the same way.
type workspace struct {
	cfg      *config.Config
	root     string
	registry *language.Registry
	scan     *scanner.Scanner
	resolv   *resolver.Resolver
}

// openWorkspace loads config and builds the scan/resolve pipeline. A
// non-empty root overrides the configured project root.
func openWorkspace(c *cli.Context, root string) (*workspace, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	if root == "" {
		root = cfg.ResolvedRoot()
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid path %s: %w", root, err)
	}

	registry := language.NewRegistry(cfg.Project.Languages)
	scan := scanner.New(cfg, registry)
	resolv := resolver.New(absRoot, registry)

	return &workspace{
		cfg:      cfg,
		root:     absRoot,
		registry: registry,
		scan:     scan,
		resolv:   resolv,
	}, nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.LoadOrDefault(), nil
}

func useCache(c *cli.Context) bool {
	return !c.Bool("no-cache")
}

func newFormatter(c *cli.Context) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
}

// newRunner wires a mutation runner with its snapshot store, run log, and
// interactive confirmer. Callers must Close the returned logger.
func newRunner(ws *workspace) (*mutate.Runner, *logging.Logger) {
	snaps := snapshot.NewManager(ws.root, ws.cfg.Snapshot.Dir, ws.cfg.Snapshot.Retain)
	log := logging.New(ws.cfg.Log.Dir, os.Stdout)
	runner := mutate.NewRunner(ws.cfg, ws.root, ws.registry, ws.scan, ws.resolv, snaps, log, mutate.ConfirmFunc(stdinConfirm))
	return runner, log
}

// stdinConfirm prompts on stdout and reads one line from stdin. The exit
// keywords cancel the whole operation rather than declining one prompt.
func stdinConfirm(prompt string) mutate.Decision {
	fmt.Printf("%s [y/N, or 'exit' to cancel]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return mutate.Cancelled
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return mutate.Yes
	case "exit", "quit", "q":
		return mutate.Cancelled
	default:
		return mutate.No
	}
}

func mutateOptions(c *cli.Context) mutate.Options {
	return mutate.Options{
		DryRun:  c.Bool("dry-run"),
		AutoYes: c.Bool("yes"),
	}
}

func mutationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Show what would change without touching anything",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Skip confirmation prompts",
		},
	}
}

// relPath shortens an absolute path for display, relative to root.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
