package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"recipe-extractor/internal/core/ai/provider"
	"recipe-extractor/internal/core/library"
	"recipe-extractor/internal/core/quantity"
	"recipe-extractor/internal/core/units"
	"recipe-extractor/internal/pkg/common"

	"github.com/spf13/cobra"
)

// NewModelsCommand models 命令
func NewModelsCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List supported models and whether a key is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.library.Settings(cmd.Context())
			if err != nil {
				return err
			}
			models := provider.AvailableModels(s.ProviderKeys)
			return root.opts.Print(models, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "\tID\tNAME\tPROVIDER\tKEY")
				for _, m := range models {
					marker := ""
					if m.ID == s.SelectedModel {
						marker = "*"
					}
					key := "missing"
					if m.Available {
						key = "ok"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", marker, m.ID, m.Name, m.Provider.DisplayName(), key)
				}
				return tw.Flush()
			})
		},
	}
}

// NewSettingsCommand settings 命令
func NewSettingsCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change API keys and the selected model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.library.Settings(cmd.Context())
			if err != nil {
				return err
			}
			return printSettings(root.opts, s)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-key <firecrawl|openai|google|anthropic> <key>",
		Short: "Store an API key (empty string removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := library.SettingsUpdate{}
			if strings.EqualFold(args[0], "firecrawl") {
				update.Firecrawl = &args[1]
			} else {
				name, err := provider.ParseProviderName(args[0])
				if err != nil {
					return err
				}
				update.ProviderKeys = map[common.ProviderName]string{name: args[1]}
			}

			s, err := root.library.UpdateSettings(cmd.Context(), update)
			if err != nil {
				return err
			}
			return printSettings(root.opts, s)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "model <id>",
		Short: "Select the model used for extraction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := root.library.SetSelectedModel(ctx, args[0]); err != nil {
				return err
			}
			s, err := root.library.Settings(ctx)
			if err != nil {
				return err
			}
			return printSettings(root.opts, s)
		},
	})

	return cmd
}

func printSettings(opts *OutputOptions, s common.AppSettings) error {
	masked := library.MaskedSettings(s)
	return opts.Print(masked, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Firecrawl\t%s\n", orNone(masked.Firecrawl))
		for _, p := range provider.Providers {
			fmt.Fprintf(tw, "%s\t%s\n", p.DisplayName(), orNone(masked.ProviderKeys[p]))
		}
		fmt.Fprintf(tw, "Model\t%s\n", orNone(masked.SelectedModel))
		return tw.Flush()
	})
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// conversionOutput 換算結果
type conversionOutput struct {
	Quantity     float64                         `json:"quantity"`
	Unit         string                          `json:"unit"`
	Alternatives []common.AlternativeMeasurement `json:"alternatives"`
}

// NewConvertCommand convert 命令
func NewConvertCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:     "convert <quantity> <unit>",
		Short:   "Convert a measurement with fixed ratios",
		Example: "  recipectl convert 2 cucchiai\n  recipectl convert 500 ml",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := strconv.ParseFloat(strings.ReplaceAll(args[0], ",", "."), 64)
			if err != nil {
				return fmt.Errorf("quantity must be a number: %q", args[0])
			}

			alts := units.Convert(q, args[1])
			out := conversionOutput{Quantity: q, Unit: args[1], Alternatives: alts}
			if out.Alternatives == nil {
				out.Alternatives = []common.AlternativeMeasurement{}
			}

			return root.opts.Print(out, func(w io.Writer) error {
				if len(alts) == 0 {
					_, err := fmt.Fprintf(w, "No conversions for %q\n", args[1])
					return err
				}
				fmt.Fprintf(w, "%s %s =\n", quantity.Format(q, 1), args[1])
				for _, a := range alts {
					if _, err := fmt.Fprintf(w, "  %s %s\n", units.FormatAltValue(a.Quantity, a.Unit), a.Unit); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
