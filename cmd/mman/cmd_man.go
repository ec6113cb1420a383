package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/repository"
)

// ManOptions bundles the options that select what is shown.
type ManOptions struct {
	Release    string
	ManHash    string
	RootTOML   string
	ShowTmpDir bool
	ListOS     bool
	ListMan    bool
	// ListSection lists the names of one section, set by --listman1 to
	// --listman9.
	ListSection [9]bool
}

var manOptions ManOptions

func init() {
	f := cmdRoot.Flags()
	f.StringVar(&manOptions.Release, "release", "", "show pages of release `tag` (default: latest release)")
	f.StringVar(&manOptions.ManHash, "manhash", "", "use the release manifest in `file` instead of downloading it")
	f.StringVar(&manOptions.RootTOML, "roottoml", "", "use the root manifest in `file` instead of downloading it")
	f.BoolVar(&manOptions.ShowTmpDir, "showtmpdir", false, "print the cache directory and its content")
	f.BoolVar(&manOptions.ListOS, "listos", false, "list the published releases")
	f.BoolVar(&manOptions.ListMan, "listman", false, "list the names of all manual pages")
	for i := range manOptions.ListSection {
		sec := strconv.Itoa(i + 1)
		f.BoolVar(&manOptions.ListSection[i], "listman"+sec, false, "list the names of the manual pages in section "+sec)
	}
}

// listSection returns the section to list, 0 for all and -1 if no listing
// was requested.
func (opts ManOptions) listSection() int {
	for i, set := range opts.ListSection {
		if set {
			return i + 1
		}
	}
	if opts.ListMan {
		return 0
	}
	return -1
}

// parseArgs maps "[mannum] name" to a request.
func parseArgs(args []string) (repository.Request, error) {
	switch len(args) {
	case 1:
		return repository.Request{Name: args[0]}, nil
	case 2:
		sec := args[0]
		if len(sec) != 1 || sec[0] < '1' || sec[0] > '9' {
			return repository.Request{}, errors.Fatalf(errors.ErrConfig, "invalid section %q, want 1 to 9", sec)
		}
		return repository.Request{Section: sec, Name: args[1]}, nil
	}
	return repository.Request{}, errors.Fatal(errors.ErrConfig, "what manual page do you want?")
}

func runMan(ctx context.Context, opts ManOptions, gopts GlobalOptions, args []string, stdout io.Writer) error {
	repo, err := openRepository(gopts, opts)
	if err != nil {
		return err
	}

	switch {
	case opts.ShowTmpDir:
		return showTmpDir(repo, stdout)
	case opts.ListOS:
		return listOS(ctx, repo, stdout)
	case opts.listSection() >= 0:
		return listMan(ctx, repo, opts.Release, opts.listSection(), stdout)
	}

	req, err := parseArgs(args)
	if err != nil {
		return err
	}
	req.Release = opts.Release

	text, err := repo.Resolve(ctx, req)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(stdout, text); err != nil {
		return errors.Wrap(err, "write")
	}
	return printFooter(repo, stdout)
}

// printFooter prints the release and the message of the mirrors after a
// page.
func printFooter(repo *repository.Repository, stdout io.Writer) error {
	if _, err := fmt.Fprintf(stdout, "\nOSNAME(man): %s\n", repo.OSName()); err != nil {
		return errors.Wrap(err, "write")
	}
	if msg := repo.Message(); msg != "" {
		if _, err := fmt.Fprintln(stdout, msg); err != nil {
			return errors.Wrap(err, "write")
		}
	}
	return nil
}
