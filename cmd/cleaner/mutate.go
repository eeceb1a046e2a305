package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func commentImportsCmd() *cli.Command {
	return &cli.Command{
		Name:      "comment-imports",
		Usage:     "Comment out every import whose specifier mentions a folder",
		ArgsUsage: "<folder>",
		Flags:     mutationFlags(),
		Action:    runCommentImportsCmd,
	}
}

func runCommentImportsCmd(c *cli.Context) error {
	folder := c.Args().First()
	if folder == "" {
		return fmt.Errorf("folder argument is required")
	}

	ws, err := openWorkspace(c, "")
	if err != nil {
		return err
	}
	runner, log := newRunner(ws)
	defer log.Close()

	return runner.CommentImports(folder, mutateOptions(c))
}

func removeImportsCmd() *cli.Command {
	return &cli.Command{
		Name:      "remove-imports",
		Usage:     "Delete every import line whose specifier mentions a folder",
		ArgsUsage: "<folder>",
		Flags:     mutationFlags(),
		Action:    runRemoveImportsCmd,
	}
}

func runRemoveImportsCmd(c *cli.Context) error {
	folder := c.Args().First()
	if folder == "" {
		return fmt.Errorf("folder argument is required")
	}

	ws, err := openWorkspace(c, "")
	if err != nil {
		return err
	}
	runner, log := newRunner(ws)
	defer log.Close()

	return runner.RemoveImports(folder, mutateOptions(c))
}

func removeFolderCmd() *cli.Command {
	return &cli.Command{
		Name:      "remove-folder",
		Usage:     "Delete a folder under the project root and everything in it",
		ArgsUsage: "<folder>",
		Flags:     mutationFlags(),
		Action:    runRemoveFolderCmd,
	}
}

func runRemoveFolderCmd(c *cli.Context) error {
	folder := c.Args().First()
	if folder == "" {
		return fmt.Errorf("folder argument is required")
	}

	ws, err := openWorkspace(c, "")
	if err != nil {
		return err
	}
	runner, log := newRunner(ws)
	defer log.Close()

	return runner.RemoveFolder(folder, mutateOptions(c))
}

func moveCmd() *cli.Command {
	return &cli.Command{
		Name:      "move",
		Usage:     "Move a file or folder and rewrite the imports that reference it",
		ArgsUsage: "<src> <dest>",
		Flags:     mutationFlags(),
		Action:    runMoveCmd,
	}
}

func runMoveCmd(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("src and dest arguments are required")
	}
	src := c.Args().Get(0)
	dest := c.Args().Get(1)

	ws, err := openWorkspace(c, "")
	if err != nil {
		return err
	}
	runner, log := newRunner(ws)
	defer log.Close()

	return runner.MoveAndFix(src, dest, mutateOptions(c))
}
