package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sunfoxy2k/antechamber/block"
)

func definitionsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "definitions",
		Short: "Inspect the block definition vocabularies",
	}
	cmd.AddCommand(definitionsListCmd(flags), definitionsWatchCmd(flags))
	return cmd
}

func definitionsListCmd(flags *rootFlags) *cobra.Command {
	var withExamples bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the building and complex blocks currently in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(flags)
			if err != nil {
				return err
			}
			printStore(app.store, withExamples)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withExamples, "examples", false, "Include complex-block examples")
	return cmd
}

func definitionsWatchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the definitions directory and report each reload",
		Long: `Watch the overlay directory for definition file changes. Each change
reloads the vocabularies and prints a summary, so overlay files can be
authored with immediate feedback. Requires --definitions or a configured
definitions directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(flags)
			if err != nil {
				return err
			}

			dir := flags.definitionsDir
			if dir == "" {
				dir = app.cfg.Definitions.Dir
			}
			if dir == "" {
				return fmt.Errorf("no definitions directory configured")
			}

			watcher, err := block.NewWatcher(block.WatcherConfig{Dir: dir, Logger: app.logger})
			if err != nil {
				return err
			}
			defer watcher.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := watcher.Start(ctx); err != nil {
				return err
			}

			fmt.Printf("Watching %s for definition changes (Ctrl-C to stop)\n", dir)
			printStore(app.store, false)

			for {
				select {
				case <-ctx.Done():
					return nil
				case store := <-watcher.Stores():
					fmt.Println("\nDefinitions reloaded:")
					printStore(store, false)
				}
			}
		},
	}
}

func printStore(store *block.Store, withExamples bool) {
	fmt.Printf("Building blocks (%d):\n", len(store.BuildingBlocks()))
	for _, name := range store.BuildingBlocks() {
		def, _ := store.Block(name)
		fmt.Printf("  [%s] %s\n", name, def.Purpose)
	}
	fmt.Printf("\nComplex blocks (%d):\n", store.ComplexCount())
	for _, name := range store.ComplexBlocks() {
		def, _ := store.Complex(name)
		fmt.Printf("  #%s# %s\n", name, def.Definition)
		if withExamples {
			for _, ex := range def.Examples {
				fmt.Printf("    e.g. %s\n", ex)
			}
		}
	}
}
