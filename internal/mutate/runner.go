// Package mutate implements the guarded refactoring operations. Every
// operation follows one fixed protocol: compute the preview, display it,
// stop on dry-run, obtain confirmation unless auto-confirmed, snapshot the
// tree, then mutate file by file, logging and continuing past individual
// failures.
package mutate

import (
	"fmt"

	"github.com/Saulo520/CleanerMulti/internal/config"
	"github.com/Saulo520/CleanerMulti/internal/language"
	"github.com/Saulo520/CleanerMulti/internal/logging"
	"github.com/Saulo520/CleanerMulti/internal/resolver"
	"github.com/Saulo520/CleanerMulti/internal/scanner"
	"github.com/Saulo520/CleanerMulti/internal/snapshot"
)

// Decision is the outcome of a confirmation prompt. Cancelled is a distinct
// variant so callers unwind cleanly instead of terminating the process from
// inside a prompt helper; operations treat it exactly like a refusal.
type Decision int

const (
	No Decision = iota
	Yes
	Cancelled
)

// Confirmer is the external confirmation collaborator.
type Confirmer interface {
	Confirm(prompt string) Decision
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) Decision

func (f ConfirmFunc) Confirm(prompt string) Decision { return f(prompt) }

// Options are the shared per-invocation switches.
type Options struct {
	DryRun  bool
	AutoYes bool
}

// Runner executes mutation operations against one project root.
type Runner struct {
	cfg      *config.Config
	root     string
	registry *language.Registry
	scan     *scanner.Scanner
	resolv   *resolver.Resolver
	snaps    *snapshot.Manager
	log      *logging.Logger
	confirm  Confirmer
}

// NewRunner wires a mutation runner. All collaborators are required; the
// confirmer may be a ConfirmFunc.
func NewRunner(cfg *config.Config, root string, registry *language.Registry, scan *scanner.Scanner, resolv *resolver.Resolver, snaps *snapshot.Manager, log *logging.Logger, confirm Confirmer) *Runner {
	return &Runner{
		cfg:      cfg,
		root:     root,
		registry: registry,
		scan:     scan,
		resolv:   resolv,
		snaps:    snaps,
		log:      log,
		confirm:  confirm,
	}
}

// showPreview logs the exact set of files an operation would touch.
func (r *Runner) showPreview(title string, items []string) {
	r.log.Printf("Preview: %s", title)
	if len(items) == 0 {
		r.log.Printf("  (nothing found)")
		return
	}
	for _, item := range items {
		r.log.Printf(" - %s", item)
	}
}

// gate runs the shared protocol steps between preview and mutation: the
// dry-run stop, the confirmation prompt, and the snapshot. It returns true
// only when the mutation may proceed. A snapshot failure is the one error
// case: without the safety net no destructive step may run.
func (r *Runner) gate(opts Options, prompt, snapshotLabel string) (bool, error) {
	if opts.DryRun {
		r.log.Printf("Dry run: no changes will be made.")
		return false, nil
	}

	if r.cfg.Project.SafeMode && !opts.AutoYes {
		switch r.confirm.Confirm(prompt) {
		case Yes:
		case Cancelled:
			r.log.Printf("Operation cancelled by user.")
			return false, nil
		default:
			r.log.Printf("Operation declined.")
			return false, nil
		}
	}

	path, err := r.snaps.Create(snapshotLabel)
	if err != nil {
		return false, fmt.Errorf("snapshot failed, aborting before any change: %w", err)
	}
	r.log.Printf("Snapshot created: %s", path)
	return true, nil
}

// invalidateScanCache drops the cached file list after the tree changed.
func (r *Runner) invalidateScanCache() {
	r.scan.Cache().Invalidate(r.root)
}
