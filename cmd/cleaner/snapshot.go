package main

import (
	"errors"
	"fmt"

	"github.com/Saulo520/CleanerMulti/internal/output"
	"github.com/Saulo520/CleanerMulti/internal/snapshot"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func snapshotsCmd() *cli.Command {
	return &cli.Command{
		Name:    "snapshots",
		Aliases: []string{"snaps"},
		Usage:   "List stored snapshots, newest first",
		Action:  runSnapshotsCmd,
	}
}

func runSnapshotsCmd(c *cli.Context) error {
	ws, err := openWorkspace(c, "")
	if err != nil {
		return err
	}

	snaps := snapshot.NewManager(ws.root, ws.cfg.Snapshot.Dir, ws.cfg.Snapshot.Retain)
	list := snaps.List()

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, s := range list {
		rows = append(rows, []string{s.Timestamp, s.Label, s.Path})
	}
	table := output.NewTable(
		"Snapshots",
		[]string{"Timestamp", "Label", "Path"},
		rows,
		[]string{fmt.Sprintf("Total: %d", len(list)), "", fmt.Sprintf("Retain: %d", ws.cfg.Snapshot.Retain)},
		list,
	)
	return formatter.Output(table)
}

func undoCmd() *cli.Command {
	return &cli.Command{
		Name:    "undo",
		Aliases: []string{"restore"},
		Usage:   "Restore the project root from the most recent snapshot",
		Action:  runUndoCmd,
	}
}

func runUndoCmd(c *cli.Context) error {
	ws, err := openWorkspace(c, "")
	if err != nil {
		return err
	}

	snaps := snapshot.NewManager(ws.root, ws.cfg.Snapshot.Dir, ws.cfg.Snapshot.Retain)
	result, err := snaps.RestoreLatest()
	if err != nil {
		if errors.Is(err, snapshot.ErrNoSnapshots) {
			color.Yellow("No snapshots to restore")
			return nil
		}
		return fmt.Errorf("restore failed: %w", err)
	}

	// The restored tree invalidates any cached scan.
	ws.scan.Cache().Invalidate(ws.root)

	color.Green("Restored %d files from %s (%s)", result.Restored, result.Snapshot.Timestamp, result.Snapshot.Label)
	if len(result.Errors) > 0 {
		color.Red("Restore completed with %d errors:", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e.Error())
		}
		return fmt.Errorf("%d files failed to restore or verify", len(result.Errors))
	}
	return nil
}
