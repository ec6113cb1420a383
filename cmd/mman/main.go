package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/mman"
)

var version = "0.1.0"

// cmdRoot is the only command, it shows a manual page.
var cmdRoot = &cobra.Command{
	Use:   "mman [flags] [mannum] name",
	Short: "Show manual pages of FreeBSD and OpenBSD releases",
	Long: `
mman shows manual pages of FreeBSD and OpenBSD releases. The pages are
downloaded from a set of mirrors, checked against the SHA3-256 digests the
mirrors announce and kept in a cache directory below the system temp
directory for the rest of the day.

EXIT STATUS
===========

Exit status is 0 if the page was shown, and 1 if there was any error.
`,
	Version:           version,
	Args:              cobra.MaximumNArgs(2),
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return globalOptions.load()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMan(cmd.Context(), manOptions, globalOptions, args, cmd.OutOrStdout())
	},
}

func main() {
	if id, ok := mman.IdentityForCommand(filepath.Base(os.Args[0])); ok {
		globalOptions.preset(id)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cmdRoot.ExecuteContext(ctx)
	if err == nil {
		return
	}

	if !errors.IsFatal(err) {
		log.Debugf("%+v", err)
	}
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}
