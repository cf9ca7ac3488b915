// Package pipeline runs one parameter regime end to end: time grid,
// growing-prefix chunks, integration, one rendered frame per chunk, the
// looping animation and the run record.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/lorenzgif/internal/analysis"
	"github.com/san-kum/lorenzgif/internal/animation"
	"github.com/san-kum/lorenzgif/internal/chunk"
	"github.com/san-kum/lorenzgif/internal/config"
	"github.com/san-kum/lorenzgif/internal/ctxlog"
	"github.com/san-kum/lorenzgif/internal/dynamo"
	"github.com/san-kum/lorenzgif/internal/export"
	"github.com/san-kum/lorenzgif/internal/integrators"
	"github.com/san-kum/lorenzgif/internal/physics"
	"github.com/san-kum/lorenzgif/internal/render"
	"github.com/san-kum/lorenzgif/internal/sim"
	"github.com/san-kum/lorenzgif/internal/storage"
)

const (
	FramesDir      = "frames"
	SeriesFile     = "series.png"
	ProjectionFile = "projection.svg"

	seriesWidth  = 800
	seriesHeight = 300
)

// Result describes what one regime run produced.
type Result struct {
	Regime     string
	Frames     int
	FrameDir   string
	Animation  string
	Video      string
	Series     string
	Projection string
	Final      *sim.Result
	Metrics    map[string]float64
	Elapsed    time.Duration
}

type Pipeline struct {
	cfg      *config.Config
	store    *storage.Store
	renderer *render.Renderer
	now      func() time.Time
}

func New(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := integrators.Lookup(cfg.Solver.Integrator); err != nil {
		return nil, err
	}
	r, err := render.NewRenderer(cfg.Render)
	if err != nil {
		return nil, err
	}
	st := storage.New(cfg.Output.Dir)
	if err := st.Init(); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	return &Pipeline{
		cfg:      cfg,
		store:    st,
		renderer: r,
		now:      time.Now,
	}, nil
}

// RunAll runs every configured regime in order and stops at the first
// failure.
func RunAll(ctx context.Context, cfg *config.Config) ([]*Result, error) {
	p, err := New(cfg)
	if err != nil {
		return nil, err
	}
	results := make([]*Result, 0, len(cfg.Regimes))
	for _, regime := range cfg.Regimes {
		res, err := p.Run(ctx, regime)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Run renders one frame per chunk into <dir>/<regime>/frames, then
// assembles <regime>.gif. A failed chunk aborts the run before the
// animation is written.
func (p *Pipeline) Run(ctx context.Context, regime config.Regime) (*Result, error) {
	log := ctxlog.FromContext(ctx).With("regime", regime.Name)
	start := p.now()

	runDir := p.store.RunDir(regime.Name)
	frameDir := filepath.Join(runDir, FramesDir)
	removed, err := prepareFrameDir(frameDir)
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		log.Debug("removed stale frames", "count", removed)
	}

	times := chunk.Grid(regime.Start, regime.End, regime.Points)
	log.Info("starting regime",
		"sigma", regime.Params.Sigma, "rho", regime.Params.Rho, "beta", regime.Params.Beta,
		"points", len(times), "chunks", len(chunk.Lengths(len(times), regime.ChunkStep)))

	final, frames, err := ForEachChunk(ctx, p.cfg.Solver, regime, func(i, total int, res *sim.Result) error {
		path, err := p.renderer.WriteFrame(frameDir, i, total, res.States)
		if err != nil {
			return err
		}
		log.Debug("frame written", "index", i, "points", len(res.Times), "steps", res.StepsTaken, "path", path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("regime %s: %w", regime.Name, err)
	}

	res := &Result{
		Regime:    regime.Name,
		FrameDir:  frameDir,
		Animation: filepath.Join(runDir, regime.Name+".gif"),
		Final:     final,
	}

	res.Frames, err = animation.AssembleDir(frameDir, res.Animation, p.cfg.Animation)
	if err != nil {
		return nil, fmt.Errorf("regime %s: %w", regime.Name, err)
	}
	log.Info("animation written", "path", res.Animation, "frames", res.Frames)

	if p.cfg.Animation.Video != "" {
		res.Video = filepath.Join(runDir, p.cfg.Animation.Video)
		paths, err := animation.ListFrames(frameDir)
		if err == nil {
			err = animation.WriteAVI(paths, res.Video, p.cfg.Animation)
		}
		if err != nil {
			return nil, fmt.Errorf("regime %s: video: %w", regime.Name, err)
		}
		log.Info("video written", "path", res.Video)
	}

	if err := p.writeExports(res); err != nil {
		return nil, fmt.Errorf("regime %s: %w", regime.Name, err)
	}

	res.Metrics = Metrics(final)
	res.Elapsed = p.now().Sub(start)

	meta := storage.RunMetadata{
		ID:         regime.Name,
		Timestamp:  start,
		Params:     regime.Params,
		Initial:    regime.Initial,
		Start:      regime.Start,
		End:        regime.End,
		Points:     regime.Points,
		ChunkStep:  regime.ChunkStep,
		Integrator: p.cfg.Solver.Integrator,
		Tolerance:  p.cfg.Solver.Tolerance,
		Frames:     res.Frames,
		Animation:  res.Animation,
		Video:      res.Video,
		Elapsed:    res.Elapsed.Seconds(),
		Metrics:    res.Metrics,
	}
	if err := p.store.Save(meta, final.Times, statesToRows(final.States)); err != nil {
		return nil, fmt.Errorf("regime %s: save run: %w", regime.Name, err)
	}

	log.Info("regime done", "frames", frames, "elapsed", res.Elapsed.Round(time.Millisecond))
	return res, nil
}

func (p *Pipeline) writeExports(res *Result) error {
	if len(res.Final.Times) < 2 {
		return nil
	}
	dir := filepath.Dir(res.Animation)

	res.Series = filepath.Join(dir, SeriesFile)
	if err := writeFile(res.Series, func(f *os.File) error {
		return export.SeriesPNG(f, res.Final.Times, res.Final.States, seriesWidth, seriesHeight)
	}); err != nil {
		return fmt.Errorf("series chart: %w", err)
	}

	res.Projection = filepath.Join(dir, ProjectionFile)
	if err := writeFile(res.Projection, func(f *os.File) error {
		return export.ProjectionSVG(f, res.Final.States, p.renderer.View(),
			p.cfg.Render.Width, p.cfg.Render.Height, p.cfg.Render.Color)
	}); err != nil {
		return fmt.Errorf("projection: %w", err)
	}
	return nil
}

// ForEachChunk integrates every growing prefix of the regime's time grid
// from the initial state and hands each trajectory to fn in order. It
// returns the full-length trajectory and the number of chunks. An empty
// grid yields no chunks and an empty final result.
func ForEachChunk(ctx context.Context, solver config.SolverConfig, regime config.Regime, fn func(i, total int, res *sim.Result) error) (*sim.Result, int, error) {
	integ, err := integrators.Lookup(solver.Integrator)
	if err != nil {
		return nil, 0, err
	}
	simulator := sim.New(physics.NewLorenz(regime.Params), integ)

	times := chunk.Grid(regime.Start, regime.End, regime.Points)
	prefixes := chunk.Prefixes(times, regime.ChunkStep)

	final := &sim.Result{Times: []float64{}, States: []dynamo.State{}}
	for i, ts := range prefixes {
		res, err := simulator.Run(ctx, regime.InitialState(), ts, solver.Config)
		if err != nil {
			return nil, i, fmt.Errorf("chunk %d of %d: %w", i, len(prefixes), err)
		}
		if err := fn(i, len(prefixes), res); err != nil {
			return nil, i, err
		}
		final = res
	}
	return final, len(prefixes), nil
}

// Trajectories collects every chunk's states, for the terminal preview.
func Trajectories(ctx context.Context, solver config.SolverConfig, regime config.Regime) ([][]dynamo.State, error) {
	out := make([][]dynamo.State, 0)
	_, _, err := ForEachChunk(ctx, solver, regime, func(_, _ int, res *sim.Result) error {
		out = append(out, res.States)
		return nil
	})
	return out, err
}

// Metrics summarizes the full-length trajectory.
func Metrics(res *sim.Result) map[string]float64 {
	m := map[string]float64{
		"steps":    float64(res.StepsTaken),
		"rejected": float64(res.Rejected),
	}
	if len(res.States) == 0 {
		return m
	}

	xs, zs := res.Component(0), res.Component(2)
	m["x_min"], m["x_max"] = minMax(xs)
	_, m["z_max"] = minMax(zs)

	if len(res.Times) >= 2 {
		if sp, err := analysis.PowerSpectrum(xs, res.Times[1]-res.Times[0]); err == nil {
			m["x_dominant_freq"] = sp.Dominant()
			m["x_spectral_flatness"] = sp.SpectralFlatness()
		}
	}
	return m
}

func minMax(v []float64) (lo, hi float64) {
	lo, hi = v[0], v[0]
	for _, x := range v[1:] {
		lo, hi = min(lo, x), max(hi, x)
	}
	return lo, hi
}

// prepareFrameDir creates dir and deletes every image the assembler would
// read, returning how many were removed. Other files are left alone.
func prepareFrameDir(dir string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !animation.IsImage(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func statesToRows(states []dynamo.State) [][]float64 {
	rows := make([][]float64, len(states))
	for i, s := range states {
		rows[i] = s
	}
	return rows
}
