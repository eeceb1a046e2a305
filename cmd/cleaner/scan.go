package main

import (
	"fmt"
	"strings"

	"github.com/Saulo520/CleanerMulti/internal/analysis"
	"github.com/Saulo520/CleanerMulti/internal/graph"
	"github.com/Saulo520/CleanerMulti/internal/output"
	"github.com/Saulo520/CleanerMulti/internal/progress"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func scanCmd() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Aliases:   []string{"analyze"},
		Usage:     "Build the dependency graph and report dead files, broken imports, and unused exports",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "detailed-unused-exports",
				Usage: "List every unused export name per file",
			},
		},
		Action: runScanCmd,
	}
}

// scanReport is the JSON shape of the full scan.
type scanReport struct {
	Root          string                  `json:"root"`
	TotalFiles    int                     `json:"total_files"`
	TotalEdges    int                     `json:"total_edges"`
	DeadFiles     []string                `json:"dead_files"`
	BrokenImports []analysis.BrokenImport `json:"broken_imports"`
	UnusedExports []analysis.UnusedExport `json:"unused_exports"`
	Errors        []string                `json:"errors,omitempty"`
}

func runScanCmd(c *cli.Context) error {
	detailed := c.Bool("detailed-unused-exports")

	ws, err := openWorkspace(c, c.Args().First())
	if err != nil {
		return err
	}

	g, err := buildGraph(c, ws)
	if err != nil {
		return err
	}

	dead := analysis.FindDead(g, ws.registry)
	broken, brokenErrs := analysis.FindBroken(g.Files, ws.registry, ws.resolv)
	unused, unusedErrs := analysis.FindUnusedExports(g.Files, ws.registry)

	var errs []string
	for _, e := range g.Errors {
		errs = append(errs, e.Error())
	}
	for _, e := range brokenErrs {
		errs = append(errs, e.Error())
	}
	for _, e := range unusedErrs {
		errs = append(errs, e.Error())
	}

	report := scanReport{
		Root:          ws.root,
		TotalFiles:    len(g.Files),
		TotalEdges:    g.EdgeCount(),
		DeadFiles:     dead,
		BrokenImports: broken,
		UnusedExports: unused,
		Errors:        errs,
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() == output.FormatJSON {
		return formatter.Output(report)
	}

	table := output.NewTable(
		"Codebase Scan",
		[]string{"Category", "Count"},
		[][]string{
			{"Files scanned", fmt.Sprintf("%d", report.TotalFiles)},
			{"Import edges", fmt.Sprintf("%d", report.TotalEdges)},
			{"Dead files", fmt.Sprintf("%d", len(dead))},
			{"Broken imports", fmt.Sprintf("%d", len(broken))},
			{"Files with unused exports", fmt.Sprintf("%d", len(unused))},
		},
		nil,
		report,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	w := formatter.Writer()

	if len(dead) > 0 {
		if formatter.Colored() {
			color.Yellow("Dead files (%d):", len(dead))
		} else {
			fmt.Fprintf(w, "Dead files (%d):\n", len(dead))
		}
		for _, f := range dead {
			fmt.Fprintf(w, "  - %s\n", relPath(ws.root, f))
		}
		fmt.Fprintln(w)
	}

	if len(broken) > 0 {
		if formatter.Colored() {
			color.Red("Broken imports (%d):", len(broken))
		} else {
			fmt.Fprintf(w, "Broken imports (%d):\n", len(broken))
		}
		for _, b := range broken {
			fmt.Fprintf(w, "  - %s imports %q\n", relPath(ws.root, b.File), b.Specifier)
		}
		fmt.Fprintln(w)
	}

	if len(unused) > 0 {
		if formatter.Colored() {
			color.Yellow("Files with unused exports (%d):", len(unused))
		} else {
			fmt.Fprintf(w, "Files with unused exports (%d):\n", len(unused))
		}
		for _, u := range unused {
			if detailed {
				fmt.Fprintf(w, "  - %s: %s\n", relPath(ws.root, u.File), strings.Join(u.Names, ", "))
			} else {
				fmt.Fprintf(w, "  - %s (%d unused)\n", relPath(ws.root, u.File), len(u.Names))
			}
		}
		fmt.Fprintln(w)
	}

	if len(errs) > 0 {
		formatter.Warning("Skipped %d unreadable files:", len(errs))
		for _, e := range errs {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}

	return nil
}

// buildGraph scans the tree then assembles the dependency graph with a
// progress bar sized by the scan result. The builder's own scan hits the
// cache written moments earlier.
func buildGraph(c *cli.Context, ws *workspace) (*graph.Graph, error) {
	cache := useCache(c) && ws.cfg.Cache.Enabled

	spinner := progress.NewSpinner("Scanning files...")
	files, err := ws.scan.Scan(ws.root, cache)
	if err != nil {
		spinner.FinishError(err)
		return nil, fmt.Errorf("failed to scan %s: %w", ws.root, err)
	}
	spinner.FinishSuccess()

	if len(files) == 0 {
		color.Yellow("No source files found under %s", ws.root)
	}

	tracker := progress.NewTracker("Building dependency graph...", len(files))
	builder := graph.NewBuilder(ws.scan, ws.registry, ws.resolv, graph.WithProgress(tracker.Tick))
	g, err := builder.Build(ws.root, true)
	if err != nil {
		tracker.FinishError(err)
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	tracker.FinishSuccess()
	return g, nil
}

func deadCmd() *cli.Command {
	return &cli.Command{
		Name:      "dead",
		Usage:     "List files nothing imports, optionally deleting them",
		ArgsUsage: "[path]",
		Flags: append(mutationFlags(),
			&cli.BoolFlag{
				Name:  "delete",
				Usage: "Delete the dead files (snapshots first)",
			},
		),
		Action: runDeadCmd,
	}
}

func runDeadCmd(c *cli.Context) error {
	ws, err := openWorkspace(c, c.Args().First())
	if err != nil {
		return err
	}

	g, err := buildGraph(c, ws)
	if err != nil {
		return err
	}
	dead := analysis.FindDead(g, ws.registry)

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, f := range dead {
		rows = append(rows, []string{relPath(ws.root, f)})
	}
	table := output.NewTable(
		"Dead Files",
		[]string{"File"},
		rows,
		[]string{fmt.Sprintf("Total: %d", len(dead))},
		dead,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	if !c.Bool("delete") {
		return nil
	}

	runner, log := newRunner(ws)
	defer log.Close()
	return runner.DeleteDead(dead, mutateOptions(c))
}

func brokenCmd() *cli.Command {
	return &cli.Command{
		Name:      "broken",
		Usage:     "List local-looking imports that resolve to nothing",
		ArgsUsage: "[path]",
		Action:    runBrokenCmd,
	}
}

func runBrokenCmd(c *cli.Context) error {
	ws, err := openWorkspace(c, c.Args().First())
	if err != nil {
		return err
	}

	spinner := progress.NewSpinner("Scanning files...")
	files, err := ws.scan.Scan(ws.root, useCache(c) && ws.cfg.Cache.Enabled)
	if err != nil {
		spinner.FinishError(err)
		return fmt.Errorf("failed to scan %s: %w", ws.root, err)
	}
	spinner.FinishSuccess()

	broken, errs := analysis.FindBroken(files, ws.registry, ws.resolv)

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, b := range broken {
		rows = append(rows, []string{relPath(ws.root, b.File), b.Specifier})
	}
	table := output.NewTable(
		"Broken Imports",
		[]string{"File", "Specifier"},
		rows,
		[]string{fmt.Sprintf("Total: %d", len(broken)), ""},
		broken,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	if len(errs) > 0 {
		formatter.Warning("Skipped %d unreadable files:", len(errs))
		for _, e := range errs {
			fmt.Fprintf(formatter.Writer(), "  - %s\n", e.Error())
		}
	}
	return nil
}
