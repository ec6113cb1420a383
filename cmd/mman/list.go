package main

import (
	"context"
	"fmt"
	"io"

	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/repository"
)

// printLines writes every line once, in order of first appearance.
func printLines(stdout io.Writer, lines []string) error {
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}

		if _, err := fmt.Fprintln(stdout, line); err != nil {
			return errors.Wrap(err, "write")
		}
	}
	return nil
}

func listOS(ctx context.Context, repo *repository.Repository, stdout io.Writer) error {
	if err := repo.ResolveRoot(ctx); err != nil {
		return err
	}
	defer repo.Purge()

	return printLines(stdout, repo.Root().OSNames())
}

func listMan(ctx context.Context, repo *repository.Repository, tag string, section int, stdout io.Writer) error {
	if err := repo.ResolveRoot(ctx); err != nil {
		return err
	}
	if err := repo.ResolveRelease(ctx, tag); err != nil {
		return err
	}
	defer repo.Purge()

	return printLines(stdout, repo.Release().Names(section))
}

func showTmpDir(repo *repository.Repository, stdout io.Writer) error {
	if _, err := fmt.Fprintln(stdout, repo.CacheDir()); err != nil {
		return errors.Wrap(err, "write")
	}

	entries, err := repo.Cache.List()
	if err != nil {
		return err
	}

	for _, e := range entries {
		line := fmt.Sprintf("  %-8v %-40s %8d", e.Handle.Type, e.Handle.Name, e.Size)
		if e.Origin != "" {
			line += "  " + e.Origin
		}
		if _, err := fmt.Fprintln(stdout, line); err != nil {
			return errors.Wrap(err, "write")
		}
	}
	return nil
}
