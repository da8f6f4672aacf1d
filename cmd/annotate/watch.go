package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/annotate"
	adapter "github.com/aretw0/annotate/pkg/adapters/lifecycle"
	"github.com/aretw0/annotate/pkg/core"
)

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Report fixture changes as they happen",
	Long:  `Watch the fixture directory and print one line per changed fixture. The optional pattern is a doublestar glob (default: every file).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := fixtureRoot()
		if root == "" {
			return fmt.Errorf("no fixture directory: pass --fixtures")
		}
		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}

		repo, err := annotate.OpenRepository(root,
			annotate.WithLogger(slog.Default()),
			annotate.WithMustExist(true),
			annotate.WithWatcherErrorHandler(func(err error) {
				fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
			}),
		)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events, err := repo.Watch(ctx, pattern)
		if err != nil {
			return err
		}

		bus := core.NewBus(slog.Default())
		bus.On(core.EventFixtureChanged, func(args ...any) {
			slog.Debug("fixture changed", "event", args[0])
		})

		src := adapter.NewSource(events, bus)
		if err := src.Start(ctx); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Watching %s\n", root)
		for e := range src.Events() {
			fmt.Println(e.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
