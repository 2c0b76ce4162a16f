package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sunfoxy2k/antechamber/block"
	"github.com/sunfoxy2k/antechamber/pipeline"
)

func runCmd(flags *rootFlags) *cobra.Command {
	var (
		tools          []string
		currentSystem  string
		requiredText   string
		systemSettings string
		formalize      bool
	)

	cmd := &cobra.Command{
		Use:   "run <inspiration>",
		Short: "Run the full generation pipeline",
		Long: `Run every stage in sequence: context, skeleton, complex tagging,
population, and optionally enrichment and formalization. Intermediate
outputs are logged; the final prompt goes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(flags)
			if err != nil {
				return err
			}

			inspiration, err := app.loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			result, err := app.pipe.Run(cmd.Context(), pipeline.RunInput{
				Inspiration:    inspiration,
				Tools:          tools,
				CurrentSystem:  currentSystem,
				RequiredText:   requiredText,
				SystemSettings: systemSettings,
				Formalize:      formalize,
			})
			if err != nil {
				return err
			}

			for stage, res := range result.StageResults {
				if !res.Valid {
					fmt.Fprintf(os.Stderr, "warning: %s stage degraded: %s\n",
						stage, strings.Join(res.Errors, "; "))
				}
			}
			fmt.Println(result.Final)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tools, "tools", nil, "Tools available to the assistant")
	cmd.Flags().StringVar(&currentSystem, "system", "", "Description of the hosting system")
	cmd.Flags().StringVar(&requiredText, "required-text", "", "Text that must appear word-for-word in the prompt")
	cmd.Flags().StringVar(&systemSettings, "settings", "", "System settings for the enrichment stage")
	cmd.Flags().BoolVar(&formalize, "formalize", false, "Run the final formalization pass")

	return cmd
}

func contextCmd(flags *rootFlags) *cobra.Command {
	var (
		tools         []string
		currentSystem string
	)

	cmd := &cobra.Command{
		Use:   "context <inspiration>",
		Short: "Generate the five-persona context document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(flags)
			if err != nil {
				return err
			}
			inspiration, err := app.loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, res, err := app.pipe.GenerateContext(cmd.Context(), inspiration,
				strings.Join(tools, ", "), currentSystem)
			if err != nil {
				return err
			}
			emit(out, res)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tools, "tools", nil, "Tools available to the assistant")
	cmd.Flags().StringVar(&currentSystem, "system", "", "Description of the hosting system")
	return cmd
}

func skeletonCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "skeleton <inspiration>",
		Short: "Generate the block-annotated skeleton",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(flags)
			if err != nil {
				return err
			}
			inspiration, err := app.loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, res, err := app.pipe.GenerateSkeleton(cmd.Context(), inspiration)
			if err != nil {
				return err
			}
			emit(out, res)
			return nil
		},
	}
}

func tagCmd(flags *rootFlags) *cobra.Command {
	var contextRef string

	cmd := &cobra.Command{
		Use:   "tag <skeleton>",
		Short: "Layer complex-block tags onto a skeleton",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(flags)
			if err != nil {
				return err
			}
			skeleton, err := app.loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			userContext, err := loadOptional(cmd, app, contextRef)
			if err != nil {
				return err
			}
			out, res, err := app.pipe.TagComplexBlocks(cmd.Context(), skeleton, userContext)
			if err != nil {
				return err
			}
			emit(out, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&contextRef, "context", "", "Context document (file, URL, or '-')")
	return cmd
}

func populateCmd(flags *rootFlags) *cobra.Command {
	var (
		contextRef   string
		requiredText string
		tools        []string
	)

	cmd := &cobra.Command{
		Use:   "populate <tagged-structure>",
		Short: "Expand a tagged structure into natural-language prose",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(flags)
			if err != nil {
				return err
			}
			structured, err := app.loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			userContext, err := loadOptional(cmd, app, contextRef)
			if err != nil {
				return err
			}
			out, res, err := app.pipe.PopulateBlocks(cmd.Context(), structured, userContext, requiredText, tools)
			if err != nil {
				return err
			}
			emit(out, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&contextRef, "context", "", "Context document (file, URL, or '-')")
	cmd.Flags().StringVar(&requiredText, "required-text", "", "Text that must appear word-for-word")
	cmd.Flags().StringSliceVar(&tools, "tools", nil, "Tool names that must not leak into the prose")
	return cmd
}

func enrichCmd(flags *rootFlags) *cobra.Command {
	var (
		contextRef string
		settings   string
	)

	cmd := &cobra.Command{
		Use:   "enrich <prompt>",
		Short: "Add system settings to the prompt's opening paragraph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(flags)
			if err != nil {
				return err
			}
			structure, err := app.loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			userContext, err := loadOptional(cmd, app, contextRef)
			if err != nil {
				return err
			}
			out, res, err := app.pipe.AddSystemInfo(cmd.Context(), structure, userContext, settings)
			if err != nil {
				return err
			}
			emit(out, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&contextRef, "context", "", "Context document (file, URL, or '-')")
	cmd.Flags().StringVar(&settings, "settings", "", "System settings to weave in")
	return cmd
}

func formalizeCmd(flags *rootFlags) *cobra.Command {
	var tools []string

	cmd := &cobra.Command{
		Use:   "formalize <prompt>",
		Short: "Run the final editorial pass over a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(flags)
			if err != nil {
				return err
			}
			text, err := app.loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, res, err := app.pipe.Formalize(cmd.Context(), text, tools)
			if err != nil {
				return err
			}
			emit(out, res)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tools, "tools", nil, "Tool names that must not leak into the prose")
	return cmd
}

func formatCmd(flags *rootFlags) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "format <block-text>",
		Short: "Reformat block-annotated text into content/tag line pairs",
		Long: `Reformat block-annotated text so each line becomes a content line of
grouped explanations over a tag line, preserving a one-to-one visual
correspondence between explanations and tags. No model calls are made.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(flags)
			if err != nil {
				return err
			}
			text, err := app.loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := width
			if !cmd.Flags().Changed("width") {
				w = app.cfg.Format.Width
			}
			formatter := &block.Formatter{Width: w}
			fmt.Println(formatter.Format(text))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", block.DefaultWrapWidth, "Wrap width (negative disables wrapping)")
	return cmd
}

// loadOptional resolves an optional reference flag. An empty ref means
// the flag was not set and is not an error.
func loadOptional(cmd *cobra.Command, app *appContext, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	return app.loader.Load(cmd.Context(), ref)
}
