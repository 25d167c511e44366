package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexshd/spacebound"
)

// statsView is the JSON shape of the stats command. HarmonicMean is omitted
// when a value is not strictly positive.
type statsView struct {
	Count             int
	ArithmeticMean    float64
	HarmonicMean      *float64 `json:",omitempty"`
	Variance          float64
	StandardDeviation float64
	Stability         float64
	DualAxis          spacebound.DualAxis
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats VALUE [VALUE...]",
		Short: "Describe a sample: means, variance, stability and dual-axis split",
		Example: `  spacebound stats 1 2 4
  spacebound stats -- -109 -115 0.1 0.5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xs, err := parseFloats(args)
			if err != nil {
				return err
			}

			v := statsView{Count: len(xs)}
			if v.ArithmeticMean, err = spacebound.ArithmeticMean(xs); err != nil {
				return err
			}
			if hm, err := spacebound.HarmonicMean(xs); err != nil {
				a.logger.Warn("harmonic mean skipped", "err", err)
			} else {
				v.HarmonicMean = &hm
			}
			if v.Variance, err = spacebound.Variance(xs); err != nil {
				return err
			}
			if v.StandardDeviation, err = spacebound.StandardDeviation(xs); err != nil {
				return err
			}
			if v.Stability, err = spacebound.DharmaIndex(xs); err != nil {
				return err
			}
			if v.DualAxis, err = spacebound.SplitDualAxis(xs); err != nil {
				return err
			}

			return a.emit(cmd, v, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "count\t%d\n", v.Count)
				fmt.Fprintf(tw, "arithmetic mean\t%.4f\n", v.ArithmeticMean)
				if v.HarmonicMean != nil {
					fmt.Fprintf(tw, "harmonic mean\t%.4f\n", *v.HarmonicMean)
				} else {
					fmt.Fprintf(tw, "harmonic mean\tn/a\n")
				}
				fmt.Fprintf(tw, "variance\t%.4f\n", v.Variance)
				fmt.Fprintf(tw, "std deviation\t%.4f\n", v.StandardDeviation)
				fmt.Fprintf(tw, "stability\t%.4f\n", v.Stability)
				fmt.Fprintf(tw, "debt mean\t%.4f (%d values)\n", v.DualAxis.DebtMean, len(v.DualAxis.Debt))
				fmt.Fprintf(tw, "merit mean\t%.4f (%d values)\n", v.DualAxis.MeritMean, len(v.DualAxis.Merit))
				fmt.Fprintf(tw, "equilibrium distance\t%.4f\n", v.DualAxis.EquilibriumDistance)
				tw.Flush()
			})
		},
	}
}

// proportionView is the JSON shape of a single proportion lookup.
type proportionView struct {
	Ratio     float64
	Tolerance float64
	Matched   bool
	Match     *spacebound.ProportionMatch `json:",omitempty"`
}

func (a *app) proportionCmd() *cobra.Command {
	var tolerance float64

	cmd := &cobra.Command{
		Use:   "proportion [RATIO]",
		Short: "Match a ratio against the reference ratios, or list them",
		Example: `  spacebound proportion
  spacebound proportion 1.618 --tolerance 0.01`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				table := spacebound.SacredProportions()
				return a.emit(cmd, table, func(w io.Writer) {
					tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
					for _, p := range table {
						fmt.Fprintf(tw, "%s\t%.6f\n", p.Name, p.Value)
					}
					tw.Flush()
				})
			}

			ratios, err := parseFloats(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("tolerance") {
				tolerance = a.cfg.Optimizer.Tolerance
			}

			v := proportionView{Ratio: ratios[0], Tolerance: tolerance}
			if m, ok := spacebound.IdentifySacredProportionWithin(v.Ratio, tolerance); ok {
				v.Matched = true
				v.Match = &m
			}

			return a.emit(cmd, v, func(w io.Writer) {
				if v.Matched {
					fmt.Fprintf(w, "%g → %s\n", v.Ratio, v.Match)
					return
				}
				fmt.Fprintf(w, "%g: no reference ratio within %g\n", v.Ratio, v.Tolerance)
			})
		},
	}

	cmd.Flags().Float64VarP(&tolerance, "tolerance", "t", spacebound.DefaultTolerance, "inclusive match distance (default from config)")
	return cmd
}

// resonanceView is the JSON shape of the resonance command.
type resonanceView struct {
	Resonance        spacebound.Resonance
	Attractor        spacebound.Attractor
	OrbitalStability float64
}

func (a *app) resonanceCmd() *cobra.Command {
	var constant, attractor float64

	cmd := &cobra.Command{
		Use:   "resonance VALUE [VALUE...] --constant C",
		Short: "Relate a varying positive series to a constant and to the attractor",
		Example: `  spacebound resonance 1 2 4 --constant 1
  spacebound resonance 0.5 0.3 0.2 --constant 0.1 --attractor 0.1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xs, err := parseFloats(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("attractor") {
				attractor = a.cfg.Optimizer.Attractor
			}

			var v resonanceView
			if v.Resonance, err = a.optimizer.HarmonicResonance(xs, constant); err != nil {
				return err
			}
			if v.Attractor, err = spacebound.AnalyzeAttractor(xs, attractor); err != nil {
				return err
			}
			if v.OrbitalStability, err = spacebound.OrbitalStability(xs, attractor); err != nil {
				return err
			}
			a.logger.Debug("resonance computed", "ratio", v.Resonance.Ratio, "attractor", attractor)

			return a.emit(cmd, v, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "ratio\t%.4f\n", v.Resonance.Ratio)
				if v.Resonance.Matched {
					fmt.Fprintf(tw, "reference\t%s\n", v.Resonance.Match)
				} else {
					fmt.Fprintf(tw, "reference\tnone\n")
				}
				fmt.Fprintf(tw, "mean distance\t%.4f\n", v.Attractor.MeanDistance)
				fmt.Fprintf(tw, "attractor resonance\t%.4f\n", v.Attractor.Resonance)
				if v.Attractor.HasConvergence {
					fmt.Fprintf(tw, "convergence rate\t%.4f (converging: %t)\n",
						v.Attractor.ConvergenceRate, v.Attractor.Converging())
				}
				fmt.Fprintf(tw, "orbital stability\t%.4f\n", v.OrbitalStability)
				tw.Flush()
			})
		},
	}

	cmd.Flags().Float64Var(&constant, "constant", 0, "constant signal to compare against")
	cmd.Flags().Float64Var(&attractor, "attractor", 0, "equilibrium point (default from config)")
	_ = cmd.MarkFlagRequired("constant")
	return cmd
}
