// Command telemetrysim is a demo harness for pkg/telemetry: it registers a
// couple of synthetic signals, feeds them on a ticker, and prints the
// periodicity/trend/anomaly results the processing loop produces.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/signalforge/telemetry/pkg/control"
	"github.com/signalforge/telemetry/pkg/loop"
	"github.com/signalforge/telemetry/pkg/pattern"
	sig "github.com/signalforge/telemetry/pkg/signal"
	"github.com/signalforge/telemetry/pkg/telemetry"
)

type opts struct {
	samples  int
	interval time.Duration
	rateHz   float64
	periodS  float64
	noise    float64
	seed     int64
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "telemetrysim",
		Short: "Synthetic waveform generator and live analyzer for pkg/telemetry",
		Long: `telemetrysim registers two synthetic signals ("sine" and "drifting"),
samples them on a timer, and prints the live periodicity, trend, and anomaly
analyses the processing loop computes on each tick.

Examples:
  telemetrysim -s 50 -i 200ms
  telemetrysim --period 2s --noise 0.4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o)
		},
	}

	root.Flags().IntVarP(&o.samples, "samples", "s", 30, "number of ticks to run (0 = run until Ctrl-C)")
	root.Flags().DurationVarP(&o.interval, "interval", "i", 200*time.Millisecond, "sampling interval")
	root.Flags().Float64Var(&o.rateHz, "rate-hz", 5, "nominal sampling rate passed to the analysis options")
	root.Flags().Float64Var(&o.periodS, "period", 4, "period, in seconds, of the synthetic sine wave")
	root.Flags().Float64Var(&o.noise, "noise", 0.15, "stddev of additive Gaussian noise")
	root.Flags().Int64Var(&o.seed, "seed", 1, "PRNG seed for the synthetic noise")

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, o opts) error {
	if o.interval <= 0 {
		return fmt.Errorf("interval must be > 0")
	}
	if o.periodS <= 0 {
		return fmt.Errorf("period must be > 0")
	}

	core := telemetry.NewCore(telemetry.Config{
		LoopConfig: loop.Config{
			Period:  o.interval,
			Options: pattern.Options{RateHz: o.rateHz},
		},
	})

	modes := map[sig.Mode]bool{
		sig.ModeBasic:       true,
		sig.ModeTrend:       true,
		sig.ModePeriodicity: true,
		sig.ModeAnomaly:     true,
	}

	if err := core.RegisterSignal("sine", sig.Config{
		RateHint:      sig.RateStandard,
		AnalysisModes: modes,
	}); err != nil {
		return fmt.Errorf("register sine: %w", err)
	}
	if err := core.RegisterSignal("drifting", sig.Config{
		RateHint:      sig.RateStandard,
		AnalysisModes: modes,
	}); err != nil {
		return fmt.Errorf("register drifting: %w", err)
	}
	if err := core.CreateThreshold("sine", control.ThresholdConfig{
		Threshold:  0,
		Hysteresis: 1.5,
		DeadBand:   0.3,
	}); err != nil {
		return fmt.Errorf("create threshold: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := core.Run(ctx); err != nil {
			slog.Warn("processing loop stopped", "err", err)
		}
	}()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TICK\tSIGNAL\tVALUE\tTREND\tPERIODIC\tANOMALIES\tCONTROL")
	tw.Flush()

	rng := rand.New(rand.NewSource(o.seed))
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	t := 0
	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted")
			return nil
		case <-ticker.C:
			now := int64(t) * o.interval.Microseconds()
			angle := 2 * math.Pi * float64(t) * o.interval.Seconds() / o.periodS

			sineVal := math.Sin(angle) + rng.NormFloat64()*o.noise
			driftVal := 0.01*float64(t) + rng.NormFloat64()*o.noise

			core.SampleSignalAt("sine", sineVal, nil, now)
			core.SampleSignalAt("drifting", driftVal, nil, now)

			outcome, ctrlErr := core.ApplyControl("sine", sineVal)
			ctrlStr := "-"
			if ctrlErr == nil {
				ctrlStr = outcome.State.String()
			}

			printRow(tw, t, "sine", sineVal, core, ctrlStr)
			printRow(tw, t, "drifting", driftVal, core, "-")

			t++
			if o.samples > 0 && t >= o.samples {
				return nil
			}
		}
	}
}

func printRow(tw *tabwriter.Writer, tick int, id string, value float64, core *telemetry.Core, ctrlStr string) {
	trendRes, err := core.AnalyzeWaveform(id, sig.ModeTrend)
	trendStr := "-"
	if err == nil && trendRes.Trend != nil {
		trendStr = fmt.Sprintf("%s(%.3f)", trendRes.Trend.Direction, trendRes.Trend.Slope)
	}

	periodRes, err := core.AnalyzeWaveform(id, sig.ModePeriodicity)
	periodStr := "-"
	if err == nil && periodRes.Periodicity != nil && periodRes.Periodicity.Detected {
		periodStr = fmt.Sprintf("%.2fs", periodRes.Periodicity.PeriodSeconds)
	}

	anomRes, err := core.AnalyzeWaveform(id, sig.ModeAnomaly)
	anomStr := "0"
	if err == nil && anomRes.Anomaly != nil {
		anomStr = fmt.Sprintf("%d", len(anomRes.Anomaly.Points))
	}

	fmt.Fprintf(tw, "%d\t%s\t%.4f\t%s\t%s\t%s\t%s\n", tick, id, value, trendStr, periodStr, anomStr, ctrlStr)
	tw.Flush()
}
