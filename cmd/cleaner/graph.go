package main

import (
	"fmt"

	"github.com/Saulo520/CleanerMulti/internal/graph"
	"github.com/Saulo520/CleanerMulti/internal/output"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Aliases:   []string{"dag"},
		Usage:     "Generate the import dependency graph (Mermaid output)",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Include PageRank and density metrics",
			},
		},
		Action: runGraphCmd,
	}
}

func runGraphCmd(c *cli.Context) error {
	includeMetrics := c.Bool("metrics")

	ws, err := openWorkspace(c, c.Args().First())
	if err != nil {
		return err
	}

	g, err := buildGraph(c, ws)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() == output.FormatJSON {
		type edge struct {
			From string `json:"from"`
			To   string `json:"to"`
		}
		var edges []edge
		for _, f := range g.Files {
			for _, to := range g.ImportsOf(f) {
				edges = append(edges, edge{From: relPath(ws.root, f), To: relPath(ws.root, to)})
			}
		}
		payload := struct {
			Nodes   []string       `json:"nodes"`
			Edges   []edge         `json:"edges"`
			Metrics *graph.Metrics `json:"metrics,omitempty"`
		}{Edges: edges}
		for _, f := range g.Files {
			payload.Nodes = append(payload.Nodes, relPath(ws.root, f))
		}
		if includeMetrics {
			payload.Metrics = g.Metrics()
		}
		return formatter.Output(payload)
	}

	w := formatter.Writer()
	fmt.Fprintln(w, "```mermaid")
	fmt.Fprintln(w, "graph TD")
	for _, f := range g.Files {
		rel := relPath(ws.root, f)
		fmt.Fprintf(w, "    %s[%s]\n", sanitizeID(rel), rel)
	}
	for _, f := range g.Files {
		from := sanitizeID(relPath(ws.root, f))
		for _, to := range g.ImportsOf(f) {
			fmt.Fprintf(w, "    %s --> %s\n", from, sanitizeID(relPath(ws.root, to)))
		}
	}
	fmt.Fprintln(w, "```")

	if includeMetrics {
		metrics := g.Metrics()
		fmt.Fprintln(w)
		if formatter.Colored() {
			color.Cyan("Graph Metrics:")
		} else {
			fmt.Fprintln(w, "Graph Metrics:")
		}
		fmt.Fprintf(w, "  Nodes: %d\n", metrics.TotalNodes)
		fmt.Fprintf(w, "  Edges: %d\n", metrics.TotalEdges)
		fmt.Fprintf(w, "  Avg Degree: %.2f\n", metrics.AvgDegree)
		fmt.Fprintf(w, "  Density: %.4f\n", metrics.Density)

		if len(metrics.Nodes) > 0 {
			fmt.Fprintln(w)
			if formatter.Colored() {
				color.Cyan("Top Files by PageRank:")
			} else {
				fmt.Fprintln(w, "Top Files by PageRank:")
			}
			for i, nm := range metrics.Nodes {
				if i >= 5 {
					break
				}
				fmt.Fprintf(w, "  %s: %.4f (in: %d, out: %d)\n",
					relPath(ws.root, nm.Path), nm.PageRank, nm.InDegree, nm.OutDegree)
			}
		}
	}

	return nil
}

func sanitizeID(id string) string {
	// Mermaid node IDs tolerate only word characters.
	result := make([]rune, 0, len(id))
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}
