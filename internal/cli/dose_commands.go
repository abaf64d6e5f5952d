package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/ketchup/internal/services"
)

type logDoseOptions struct {
	mood     string
	skin     string
	spotting bool
}

func newLogDoseCommand(options *rootOptions) *cobra.Command {
	input := &logDoseOptions{}
	cmd := &cobra.Command{
		Use:   "log-dose",
		Short: "Append one confirmed dose",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := options.openRuntime(false)
			if err != nil {
				return err
			}
			defer rt.Close()

			event, err := rt.doses.LogDose(rt.patient.ID, services.DoseInput{
				Mood:     input.mood,
				Skin:     input.skin,
				Spotting: input.spotting,
			})
			if err != nil {
				return err
			}

			language := rt.language()
			count, err := rt.tracker.CountState(rt.patient.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rt.i18n.Translatef(language, "dose.entry", count.TotalLogs))
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n",
				rt.i18n.Translatef(language, "dose.day", event.CycleDay),
				rt.i18n.Translate(language, services.PillTypeKey(event.PillType)),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.mood, "mood", "", "mood note")
	cmd.Flags().StringVar(&input.skin, "skin", "", "skin note")
	cmd.Flags().BoolVar(&input.spotting, "spotting", false, "spotting observed")
	return cmd
}

func newStatusCommand(options *rootOptions) *cobra.Command {
	var strategy string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the current cycle position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			strategies := []string{services.CycleStrategyCount, services.CycleStrategyDate}
			if strategy != "" {
				normalized, err := services.NormalizeCycleStrategy(strategy)
				if err != nil {
					return err
				}
				strategies = []string{normalized}
			}

			rt, err := options.openRuntime(false)
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			for _, selected := range strategies {
				if selected == services.CycleStrategyCount {
					if err := printCountStatus(out, rt); err != nil {
						return err
					}
					continue
				}
				if err := printDateStatus(out, rt, strategy != ""); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "count or date (default prints both)")
	return cmd
}

func printCountStatus(out io.Writer, rt *appRuntime) error {
	state, err := rt.tracker.CountState(rt.patient.ID)
	if err != nil {
		return err
	}
	language := rt.language()
	phase := rt.i18n.Translate(language, services.PhaseKey(state.Phase))

	fmt.Fprintf(out, "%s: %s\n", rt.i18n.Translate(language, "cycle.day"), rt.i18n.Translatef(language, "dose.day", state.CycleDay))
	fmt.Fprintln(out, rt.i18n.Translatef(language, "cycle.phase", phase))
	fmt.Fprintf(out, "%s: %d\n", rt.i18n.Translate(language, "cycle.total_logs"), state.TotalLogs)
	fmt.Fprintf(out, "%s: %s\n", rt.i18n.Translate(language, "cycle.status"), rt.i18n.Translate(language, services.AdvisoryKey(state)))
	return nil
}

// printDateStatus skips a missing cycle start silently unless the date strategy was asked for.
func printDateStatus(out io.Writer, rt *appRuntime, explicit bool) error {
	state, err := rt.tracker.DateState(rt.patient.ID, time.Now().In(rt.config.Location))
	if errors.Is(err, services.ErrCycleStartNotConfigured) && !explicit {
		return nil
	}
	if err != nil {
		return err
	}
	language := rt.language()
	fmt.Fprintf(out, "%s (%s), %d\n",
		rt.i18n.Translatef(language, "dose.day", state.CycleDay),
		rt.i18n.Translate(language, services.PillTypeKey(state.PillType)),
		state.DayInCycle,
	)
	return nil
}
