package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/five82/pimenu/internal/app"
)

const fullscreenArg = "fs"

var errNoTerminal = errors.New("stdout is not a terminal")

type runFunc func(ctx context.Context, opts app.Options) error

func newRootCmd(run runFunc, isTerminal func() bool) *cobra.Command {
	return &cobra.Command{
		Use:   "pimenu [fs]",
		Short: "Touch-friendly button menu for small screens",
		Long: `PiMenu shows a grid of buttons read from pimenu.yaml next to the binary.
Groups open nested menus; leaves run their command, or pimenu.sh with the
breadcrumb of names as arguments, and show the output.

Pass "fs" to use the whole terminal instead of a 48x16 panel.`,
		Args:          cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs:     []string{fullscreenArg},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				return errNoTerminal
			}
			return run(cmd.Context(), app.Options{
				Fullscreen: len(args) == 1 && args[0] == fullscreenArg,
			})
		},
	}
}
