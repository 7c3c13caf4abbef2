package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"recipe-extractor/internal/core/recipe"
	"recipe-extractor/internal/pkg/common"

	"github.com/spf13/cobra"
)

// recipeOutput 食譜與顯示資料
type recipeOutput struct {
	Recipe common.Recipe     `json:"recipe"`
	View   recipe.RecipeView `json:"view"`
}

// NewExtractCommand extract 命令
func NewExtractCommand(root *RootCommand) *cobra.Command {
	var (
		model    string
		servings int
	)

	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Extract a recipe from a web page",
		Example: `  recipectl extract https://example.com/pasta
  recipectl extract https://example.com/pasta --model claude-sonnet-4-20250514 --servings 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), root, args[0], model, servings)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Model ID (default: selected model)")
	cmd.Flags().IntVarP(&servings, "servings", "s", 0, "Scale ingredients to this many servings")

	return cmd
}

func runExtract(ctx context.Context, root *RootCommand, url, model string, servings int) error {
	settings, err := root.library.Settings(ctx)
	if err != nil {
		return err
	}
	creds, err := recipe.CredentialsFromSettings(settings, model)
	if err != nil {
		return err
	}

	r, err := root.extractor.Extract(ctx, url, creds)
	if err != nil {
		return err
	}
	if err := root.library.SaveRecipe(ctx, *r); err != nil {
		return err
	}
	if err := root.library.SaveCurrentSession(ctx, r.ID, common.ModeOverview); err != nil {
		return err
	}

	return printRecipe(root.opts, *r, servings)
}

// NewHistoryCommand history 命令
func NewHistoryCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List previously extracted recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipes, err := root.library.Recipes(cmd.Context())
			if err != nil {
				return err
			}
			return root.opts.Print(recipes, func(w io.Writer) error {
				if len(recipes) == 0 {
					_, err := fmt.Fprintln(w, "No recipes yet")
					return err
				}
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tSERVINGS\tEXTRACTED\tURL")
				for _, r := range recipes {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
						r.ID, r.Title, r.BaseServings, r.ExtractedAt.Format("2006-01-02 15:04"), r.SourceURL)
				}
				return tw.Flush()
			})
		},
	}
}

// NewShowCommand show 命令
func NewShowCommand(root *RootCommand) *cobra.Command {
	var servings int

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := root.library.Recipe(ctx, args[0])
			if err != nil {
				return err
			}
			if servings == 0 {
				p, err := root.library.Progress(ctx, r.ID)
				if err != nil {
					return err
				}
				if p != nil {
					servings = p.Servings
				}
			}
			return printRecipe(root.opts, r, servings)
		},
	}

	cmd.Flags().IntVarP(&servings, "servings", "s", 0, "Scale ingredients to this many servings")

	return cmd
}

// NewDeleteCommand delete 命令
func NewDeleteCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved recipe and its cooking progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.library.DeleteRecipe(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(root.opts.Writer, "Deleted %s\n", args[0])
			return err
		},
	}
}

func printRecipe(opts *OutputOptions, r common.Recipe, servings int) error {
	view := recipe.BuildView(r, servings)
	return opts.Print(recipeOutput{Recipe: r, View: view}, func(w io.Writer) error {
		return writeRecipeText(w, r, view)
	})
}

func writeRecipeText(w io.Writer, r common.Recipe, view recipe.RecipeView) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", r.Title)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n", r.Description)
	}
	fmt.Fprintf(&b, "Source: %s\n", r.SourceURL)
	if view.Servings != view.BaseServings {
		fmt.Fprintf(&b, "Servings: %d (original %d)\n", view.Servings, view.BaseServings)
	} else {
		fmt.Fprintf(&b, "Servings: %d\n", view.Servings)
	}

	b.WriteString("\nIngredients\n")
	for _, ing := range view.Ingredients {
		line := strings.Join(strings.Fields(strings.Join([]string{ing.Quantity, ing.Unit, ing.Name}, " ")), " ")
		if ing.Notes != "" {
			line += " (" + ing.Notes + ")"
		}
		if len(ing.Alternatives) > 0 {
			alts := make([]string, 0, len(ing.Alternatives))
			for _, a := range ing.Alternatives {
				prefix := ""
				if !a.Exact {
					prefix = "~"
				}
				alts = append(alts, prefix+a.Quantity+" "+a.Unit)
			}
			line += " [" + strings.Join(alts, ", ") + "]"
		}
		fmt.Fprintf(&b, "  - %s\n", line)
	}

	b.WriteString("\nSteps\n")
	for i, s := range r.Steps {
		fmt.Fprintf(&b, "  %d. %s", i+1, s.Title)
		if s.Duration != "" {
			fmt.Fprintf(&b, " (%s)", s.Duration)
		}
		fmt.Fprintf(&b, "\n     %s\n", s.Instruction)
		if s.Details != "" {
			fmt.Fprintf(&b, "     Tip: %s\n", s.Details)
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\nBefore you start\n")
		for _, warning := range r.Warnings {
			fmt.Fprintf(&b, "  ! %s\n", warning)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
