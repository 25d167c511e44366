package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexshd/spacebound"
)

// sampleView is the JSON shape of the sample command.
type sampleView struct {
	Operations    int64
	Errors        int64
	Duration      time.Duration
	Throughput    float64
	MeanLatencyMS float64
	Stability     float64
	Plan          *planView `json:",omitempty"`
}

func (a *app) sampleCmd() *cobra.Command {
	var (
		url   string
		items int
		cfg   = spacebound.DefaultSampleConfig()
	)

	cmd := &cobra.Command{
		Use:   "sample --url URL",
		Short: "Measure GET latencies against a URL and derive a batch plan",
		Example: `  spacebound sample --url http://localhost:8080/health --duration 5s
  spacebound sample --url http://localhost:8080/api --items 20000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			transport := &http.Transport{MaxIdleConnsPerHost: cfg.Workers}
			defer transport.CloseIdleConnections()
			client := &http.Client{Transport: transport, Timeout: 10 * time.Second}

			a.logger.Info("sampling", "url", url, "workers", cfg.Workers, "duration", cfg.Duration)

			s, err := spacebound.Sample(cmd.Context(), getOperation(client, url), cfg)
			if err != nil {
				return err
			}
			if len(s.Latencies) == 0 {
				return fmt.Errorf("no successful requests to %s (%d errors)", url, s.Errors)
			}
			if s.Errors > 0 {
				a.logger.Warn("requests failed", "errors", s.Errors, "ok", s.Operations)
			}

			v := sampleView{
				Operations: s.Operations,
				Errors:     s.Errors,
				Duration:   s.Duration,
				Throughput: s.Throughput(),
			}
			if v.MeanLatencyMS, err = spacebound.ArithmeticMean(s.Latencies); err != nil {
				return err
			}
			if v.Stability, err = spacebound.DharmaIndex(s.Latencies); err != nil {
				return err
			}

			if items > 0 {
				plan, err := a.optimizer.Plan(items, s.Latencies)
				if err != nil {
					return err
				}
				rec, err := a.optimizer.Recommend(items, s.Latencies)
				if err != nil {
					return err
				}
				v.Plan = &planView{Plan: plan, OrbitalStability: rec.OrbitalStability, Strategy: rec.StrategyRecommendation}
			}

			return a.emit(cmd, v, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "requests\t%d ok, %d failed\n", v.Operations, v.Errors)
				fmt.Fprintf(tw, "throughput\t%.1f req/s\n", v.Throughput)
				fmt.Fprintf(tw, "mean latency\t%.3f ms\n", v.MeanLatencyMS)
				fmt.Fprintf(tw, "stability\t%.4f\n", v.Stability)
				tw.Flush()
				if v.Plan != nil {
					fmt.Fprintln(w)
					writePlan(w, *v.Plan)
				}
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&url, "url", "", "URL to GET")
	f.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "concurrent workers")
	f.DurationVarP(&cfg.Duration, "duration", "d", cfg.Duration, "measurement window")
	f.DurationVar(&cfg.Warmup, "warmup", cfg.Warmup, "discarded warmup window")
	f.IntVar(&items, "items", 0, "also plan batches for this many items")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

// getOperation issues one GET per call. Non-2xx responses count as errors.
func getOperation(client *http.Client, url string) spacebound.Operation {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("GET %s: %s", url, resp.Status)
		}
		return nil
	}
}
