package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexshd/spacebound"
)

func (a *app) optimizeCmd() *cobra.Command {
	var metrics []float64

	cmd := &cobra.Command{
		Use:   "optimize SIZE [SIZE...]",
		Short: "Compute efficiency multipliers for one or more workload sizes",
		Example: `  spacebound optimize 100 10000
  spacebound optimize 10000 --metrics 783,783,790,781`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sizes, err := parseInts(args)
			if err != nil {
				return err
			}

			results, err := a.optimizer.OptimizeAll(cmd.Context(), sizes, metrics)
			if err != nil {
				return err
			}
			a.logger.Debug("optimized", "sizes", len(sizes), "metrics", len(metrics))

			return a.emit(cmd, results, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "SIZE\tBOUND\tSTABILITY\tMULTIPLIER")
				for _, r := range results {
					fmt.Fprintf(tw, "%d\t%.2f\t%.4f\t%.2f\n",
						r.DataSize, r.SpaceBound, r.Stability, r.EfficiencyMultiplier)
				}
				tw.Flush()
			})
		},
	}

	cmd.Flags().Float64SliceVarP(&metrics, "metrics", "m", nil, "recent metric samples, comma separated")
	return cmd
}

// planView is the JSON shape of the plan command.
type planView struct {
	Plan             spacebound.BatchPlan
	OrbitalStability float64
	Strategy         spacebound.StrategyRecommendation
}

func (a *app) planCmd() *cobra.Command {
	var metrics []float64

	cmd := &cobra.Command{
		Use:   "plan TOTAL",
		Short: "Split TOTAL items into batches and recommend a processing strategy",
		Example: `  spacebound plan 10000
  spacebound plan 10000 --metrics 1,5,10 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			totals, err := parseInts(args)
			if err != nil {
				return err
			}
			total := totals[0]

			plan, err := a.optimizer.Plan(total, metrics)
			if err != nil {
				return err
			}
			rec, err := a.optimizer.Recommend(total, metrics)
			if err != nil {
				return err
			}

			a.logger.Debug("plan ready",
				"items", plan.TotalItems,
				"batch_size", plan.BatchSize,
				"batches", plan.Batches,
				"strategy", rec.Strategy,
			)
			if rec.RiskLevel == "HIGH" {
				a.logger.Warn("metrics are unstable", "stability", rec.Stability, "orbital", rec.OrbitalStability)
			}

			view := planView{Plan: plan, OrbitalStability: rec.OrbitalStability, Strategy: rec.StrategyRecommendation}
			return a.emit(cmd, view, func(w io.Writer) {
				writePlan(w, view)
			})
		},
	}

	cmd.Flags().Float64SliceVarP(&metrics, "metrics", "m", nil, "recent metric samples, comma separated")
	return cmd
}

func writePlan(w io.Writer, v planView) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "items\t%d\n", v.Plan.TotalItems)
	fmt.Fprintf(tw, "batch size\t%d\n", v.Plan.BatchSize)
	fmt.Fprintf(tw, "batches\t%d\n", v.Plan.Batches)
	fmt.Fprintf(tw, "space bound\t%.2f\n", v.Plan.SpaceBound)
	fmt.Fprintf(tw, "reduction\t%.1f%%\n", v.Plan.SpaceReductionPercent)
	fmt.Fprintf(tw, "stability\t%.4f\n", v.Plan.Stability)
	fmt.Fprintf(tw, "orbital\t%.4f\n", v.OrbitalStability)
	fmt.Fprintf(tw, "strategy\t%s (%s risk, confidence %.2f)\n",
		v.Strategy.Strategy, v.Strategy.RiskLevel, v.Strategy.Confidence)
	tw.Flush()
	fmt.Fprintln(w, v.Strategy.Reason)
}
