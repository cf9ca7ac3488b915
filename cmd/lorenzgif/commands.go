package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/lorenzgif/internal/analysis"
	"github.com/san-kum/lorenzgif/internal/config"
	"github.com/san-kum/lorenzgif/internal/ctxlog"
	"github.com/san-kum/lorenzgif/internal/dynamo"
	"github.com/san-kum/lorenzgif/internal/integrators"
	"github.com/san-kum/lorenzgif/internal/physics"
	"github.com/san-kum/lorenzgif/internal/pipeline"
	"github.com/san-kum/lorenzgif/internal/storage"
	"github.com/san-kum/lorenzgif/internal/viz"
)

const (
	analysisDt        = 0.01
	analysisTransient = 5.0
	analysisDuration  = 50.0
)

var (
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func runRegimes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		regimes := make([]config.Regime, 0, len(args))
		for _, name := range args {
			r, err := findRegime(cfg, name)
			if err != nil {
				return err
			}
			regimes = append(regimes, r)
		}
		cfg.Regimes = regimes
	}

	results, err := pipeline.RunAll(cmd.Context(), cfg)
	for _, res := range results {
		fields := []viz.Field{
			{Label: "frames", Value: fmt.Sprintf("%d", res.Frames)},
			{Label: "animation", Value: res.Animation},
			{Label: "elapsed", Value: res.Elapsed.Round(time.Millisecond).String()},
			{Label: "z max", Value: fmt.Sprintf("%.3f", res.Metrics["z_max"])},
		}
		if res.Video != "" {
			fields = append(fields, viz.Field{Label: "video", Value: res.Video})
		}
		fmt.Println(viz.Summary(res.Regime, fields))
	}
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIGMA\tRHO\tBETA\tINITIAL\tT\tPOINTS")
	for _, name := range config.PresetNames() {
		r := config.Preset(name)
		fmt.Fprintf(w, "%s\t%.3g\t%.3g\t%.4f\t%v\t[%g, %g]\t%d\n",
			r.Name, r.Params.Sigma, r.Params.Rho, r.Params.Beta, r.Initial, r.Start, r.End, r.Points)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.Select(config.PresetNames()...); err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	ctxlog.FromContext(cmd.Context()).Info("config written", "path", args[0], "regimes", len(cfg.Regimes))
	return nil
}

func openStore() (*storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.Output.Dir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REGIME\tTIME\tRHO\tPOINTS\tFRAMES\tINTEG\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.3g\t%d\t%d\t%s\t%.2fs\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.Rho,
			run.Points,
			run.Frames,
			run.Integrator,
			run.Elapsed,
		)
	}
	return w.Flush()
}

func loadRun(id string) (*storage.RunMetadata, [][]float64, []float64, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, nil, err
	}
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, nil, err
	}
	states, times, err := st.LoadStates(id)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(states) == 0 {
		return nil, nil, nil, fmt.Errorf("run %s has no samples", id)
	}
	return meta, states, times, nil
}

func column(states [][]float64, i int) []float64 {
	out := make([]float64, len(states))
	for k := range states {
		out[k] = states[k][i]
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s  rho=%.3g  samples: %d  t in [%g, %g]\n\n",
		meta.ID, meta.Params.Rho, len(states), times[0], times[len(times)-1])

	for i, name := range []string{"x", "y", "z"} {
		graph := asciigraph.Plot(column(states, i),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+"(t)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(times) < 2 {
		return fmt.Errorf("run %s has too few samples to analyze", meta.ID)
	}

	sp, err := analysis.PowerSpectrum(column(states, 0), times[1]-times[0])
	if err != nil {
		return err
	}

	shown := sp.Power[1:max(2, len(sp.Power)/8)]
	fmt.Println(asciigraph.Plot(shown,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum of x(t)"),
	))
	fmt.Println()

	lambda := analysis.LyapunovExponent(
		physics.NewLorenz(meta.Params), integrators.NewRK4(),
		dynamo.State(meta.Initial[:]), analysisDt, analysisTransient, analysisDuration, 0)

	verdict := viz.StatusPaused.Render("regular")
	if lambda > 0.01 {
		verdict = viz.StatusFailed.Render("chaotic")
	}

	freq := sp.Dominant()
	fields := []viz.Field{
		{Label: "dominant freq", Value: fmt.Sprintf("%.4f", freq)},
		{Label: "flatness", Value: fmt.Sprintf("%.4f", sp.SpectralFlatness())},
		{Label: "lyapunov", Value: fmt.Sprintf("%.4f", lambda)},
		{Label: "verdict", Value: verdict},
	}
	if freq > 0 {
		fields = append(fields, viz.Field{Label: "period", Value: fmt.Sprintf("%.4f", 1/freq)})
	}
	fmt.Println(viz.Summary("analysis: "+meta.ID, fields))
	return nil
}

func sweepRho(cmd *cobra.Command, args []string) error {
	if sweepSteps < 2 {
		return fmt.Errorf("steps must be at least 2, got %d", sweepSteps)
	}
	rhos := make([]float64, sweepSteps)
	for i := range rhos {
		rhos[i] = sweepMin + (sweepMax-sweepMin)*float64(i)/float64(sweepSteps-1)
	}

	build := func(rho float64) dynamo.System {
		p := physics.Classic()
		p.Rho = rho
		return physics.NewLorenz(p)
	}
	points := analysis.BifurcationDiagram(build, integrators.NewRK4(), rhos, 2,
		dynamo.State{0.1, 0, 0}, analysisDt, 30, 20)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RHO\tPEAKS\tZ MIN\tZ MAX\tSPREAD")
	for _, pt := range points {
		if len(pt.Maxima) == 0 {
			fmt.Fprintf(w, "%.3f\t0\t-\t-\t-\n", pt.Param)
			continue
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, z := range pt.Maxima {
			lo, hi = math.Min(lo, z), math.Max(hi, z)
		}
		fmt.Fprintf(w, "%.3f\t%d\t%.3f\t%.3f\t%s\n", pt.Param, len(pt.Maxima), lo, hi,
			viz.ProgressBar(math.Min(1, (hi-lo)/20), 20))
	}
	return w.Flush()
}

func previewRegime(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	regime := cfg.Regimes[0]
	if len(args) == 1 {
		if regime, err = findRegime(cfg, args[0]); err != nil {
			return err
		}
	}

	ctxlog.FromContext(cmd.Context()).Info("integrating chunks", "regime", regime.Name, "points", regime.Points)
	frames, err := pipeline.Trajectories(cmd.Context(), cfg.Solver, regime)
	if err != nil {
		return err
	}
	return viz.RunPreview(viz.NewPreview(regime.Name, frames, cfg.Render, cfg.Animation))
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, times, states)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, times, states)
}
