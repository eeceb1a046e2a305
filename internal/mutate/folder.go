package mutate

import (
	"fmt"
	"os"
	"path/filepath"
)

// RemoveFolder deletes a directory under the project root and everything in
// it, after listing every contained file in the preview. A missing folder is
// reported and the operation becomes a no-op.
func (r *Runner) RemoveFolder(folder string, opts Options) error {
	path := filepath.Join(r.root, folder)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		r.log.Printf("Folder not found: %s", path)
		return nil
	}

	var contained []string
	filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			contained = append(contained, p)
		}
		return nil
	})

	r.showPreview(fmt.Sprintf("files that will be deleted from %q", folder), contained)

	ok, err := r.gate(opts, "Delete this folder?", "remove_folder_"+folder)
	if err != nil || !ok {
		return err
	}

	if err := os.RemoveAll(path); err != nil {
		r.log.Printf("Failed to remove folder %s: %v", path, err)
		return err
	}
	r.log.Printf("Folder removed: %s", path)

	r.invalidateScanCache()
	return nil
}

// DeleteDead removes the given dead files behind a single snapshot. In safe
// mode each file is confirmed individually; a Cancelled decision aborts the
// remaining prompts and the whole operation.
func (r *Runner) DeleteDead(dead []string, opts Options) error {
	if len(dead) == 0 {
		r.log.Printf("No dead files to delete.")
		return nil
	}
	if opts.DryRun {
		r.log.Printf("Dry run: no files will be deleted.")
		return nil
	}

	var toDelete []string
	if r.cfg.Project.SafeMode && !opts.AutoYes {
		for _, f := range dead {
			switch r.confirm.Confirm(fmt.Sprintf("Delete this file?\n%s", f)) {
			case Yes:
				toDelete = append(toDelete, f)
			case Cancelled:
				r.log.Printf("Operation cancelled by user.")
				return nil
			}
		}
	} else {
		toDelete = dead
	}

	if len(toDelete) == 0 {
		r.log.Printf("No files selected for deletion.")
		return nil
	}

	path, err := r.snaps.Create("delete_dead_files")
	if err != nil {
		return fmt.Errorf("snapshot failed, aborting before any change: %w", err)
	}
	r.log.Printf("Snapshot created: %s", path)

	for _, f := range toDelete {
		if err := os.Remove(f); err != nil {
			r.log.Printf("Failed to delete %s: %v", f, err)
			continue
		}
		r.log.Printf("Deleted: %s", f)
	}

	r.invalidateScanCache()
	return nil
}
