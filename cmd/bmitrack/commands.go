package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"bmitrack/internal/app"
	"bmitrack/internal/domain"

	"github.com/spf13/cobra"
)

// withServices opens the configured backend for the duration of fn.
func (c *cli) withServices(cmd *cobra.Command, fn func(svc services) error) error {
	b, err := openBackend(cmd.Context(), c.cfg, c.log)
	if err != nil {
		return err
	}
	defer func() { _ = b.close() }()
	return fn(newServices(b, c.log, nil))
}

func (c *cli) bmiCmd() *cobra.Command {
	var (
		weight, height float64
		system         string
	)

	cmd := &cobra.Command{
		Use:   "bmi",
		Short: "Compute a BMI report; without flags, report on the stored profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if weight == 0 && height == 0 {
				return c.withServices(cmd, func(svc services) error {
					r := svc.bmi.CurrentReport(cmd.Context())
					printReport(cmd, r.Report)
					printf(cmd, "Goal:     %.0f%% (%.1f -> %.1f %s)\n",
						r.GoalProgress*100, r.Settings.StartWeight, r.Settings.TargetWeight, r.System.WeightUnit())
					return nil
				})
			}

			sys, err := domain.ParseMeasurementSystem(system)
			if err != nil {
				return err
			}
			r, err := app.NewBMIService(nil).Evaluate(weight, height, sys)
			if err != nil {
				return err
			}
			printReport(cmd, r)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&weight, "weight", "w", 0, "body weight (kg or lb)")
	cmd.Flags().Float64VarP(&height, "height", "H", 0, "height (cm or in)")
	cmd.Flags().StringVarP(&system, "system", "s", "imperial", "measurement system: metric or imperial")
	return cmd
}

func printReport(cmd *cobra.Command, r app.Report) {
	unit := r.System.WeightUnit()
	printf(cmd, "BMI:      %.1f (%s)\n", r.BMI, r.Category.Label)
	printf(cmd, "Normal:   %.1f - %.1f %s\n", r.NormalRange.Min, r.NormalRange.Max, unit)
	switch r.Delta.Kind {
	case domain.Gain:
		printf(cmd, "Advice:   gain %.1f %s\n", r.Delta.Amount, r.Delta.Unit)
	case domain.Lose:
		printf(cmd, "Advice:   lose %.1f %s\n", r.Delta.Amount, r.Delta.Unit)
	default:
		printf(cmd, "Advice:   maintain\n")
	}
}

func (c *cli) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the BMI category bands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "CATEGORY\tFROM\tBELOW\tCOLOR")
			for _, b := range domain.Bands() {
				upper := "-"
				if b.Category != domain.VerySeverelyObese {
					upper = strconv.FormatFloat(b.Max, 'f', -1, 64)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Label, strconv.FormatFloat(b.Min, 'f', -1, 64), upper, b.Color)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) logCmd() *cobra.Command {
	var system string

	cmd := &cobra.Command{
		Use:   "log <weight>",
		Short: "Append a weight to the log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid weight %q", args[0])
			}
			return c.withServices(cmd, func(svc services) error {
				sys := svc.settings.LoadSettings(cmd.Context()).System
				if system != "" {
					if sys, err = domain.ParseMeasurementSystem(system); err != nil {
						return err
					}
				}
				e, err := svc.history.AppendEntry(cmd.Context(), weight, sys)
				if err != nil {
					return err
				}
				printf(cmd, "Logged %.1f %s (%s)\n", e.Weight, e.System.WeightUnit(), e.ID[:8])
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&system, "system", "s", "", "measurement system (default: profile system)")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show logged weights, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd, func(svc services) error {
				entries := svc.history.Recent(cmd.Context(), limit)
				if len(entries) == 0 {
					printf(cmd, "No entries.\n")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintln(tw, "DATE\tWEIGHT\tID")
				for _, e := range entries {
					_, _ = fmt.Fprintf(tw, "%s\t%.1f %s\t%s\n",
						e.Date.Local().Format("2006-01-02 15:04"), e.Weight, e.System.WeightUnit(), e.ID[:8])
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show (0 for all)")
	return cmd
}

func (c *cli) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the stored profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd, func(svc services) error {
				printSettings(cmd, svc.settings.LoadSettings(cmd.Context()))
				return nil
			})
		},
	}
	cmd.AddCommand(c.settingsSetCmd(), c.settingsSystemCmd())
	return cmd
}

func (c *cli) settingsSetCmd() *cobra.Command {
	var weight, height, start, target float64

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile values, keeping the ones not given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd, func(svc services) error {
				st := svc.settings.LoadSettings(cmd.Context())
				flags := cmd.Flags()
				if flags.Changed("weight") {
					st.Weight = weight
				}
				if flags.Changed("height") {
					st.Height = height
				}
				if flags.Changed("start") {
					st.StartWeight = start
				}
				if flags.Changed("target") {
					st.TargetWeight = target
				}
				if err := svc.settings.SaveSettings(cmd.Context(), st); err != nil {
					return err
				}
				printSettings(cmd, st)
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&weight, "weight", 0, "current weight")
	cmd.Flags().Float64Var(&height, "height", 0, "height")
	cmd.Flags().Float64Var(&start, "start", 0, "starting weight of the current goal")
	cmd.Flags().Float64Var(&target, "target", 0, "target weight")
	return cmd
}

func (c *cli) settingsSystemCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "system <metric|imperial>",
		Short:     "Switch the profile's measurement system, converting its values",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"metric", "imperial"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := domain.ParseMeasurementSystem(args[0])
			if err != nil {
				return err
			}
			return c.withServices(cmd, func(svc services) error {
				st, err := svc.settings.SwitchSystem(cmd.Context(), sys)
				if err != nil {
					return err
				}
				printSettings(cmd, st)
				return nil
			})
		},
	}
}

func printSettings(cmd *cobra.Command, st domain.Settings) {
	w, h := st.System.WeightUnit(), st.System.HeightUnit()
	printf(cmd, "System:   %s\n", st.System)
	printf(cmd, "Weight:   %.1f %s\n", st.Weight, w)
	printf(cmd, "Height:   %.0f %s\n", st.Height, h)
	printf(cmd, "Start:    %.1f %s\n", st.StartWeight, w)
	printf(cmd, "Target:   %.1f %s\n", st.TargetWeight, w)
}
