package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/lorenzgif/internal/animation"
	"github.com/san-kum/lorenzgif/internal/physics"
	"github.com/san-kum/lorenzgif/internal/render"
	"github.com/san-kum/lorenzgif/internal/sim"
)

const (
	DefaultStart     = 1.0
	DefaultEnd       = 60.0
	DefaultPoints    = 6000
	DefaultChunkStep = 20
	DefaultOutputDir = "images"
)

// Regime is one parameter set pushed through the pipeline. Its name
// doubles as the output sub-directory.
type Regime struct {
	Name      string         `yaml:"name"`
	Params    physics.Params `yaml:",inline"`
	Initial   [3]float64     `yaml:"initial"`
	Start     float64        `yaml:"start"`
	End       float64        `yaml:"end"`
	Points    int            `yaml:"points"`
	ChunkStep int            `yaml:"chunk_step"`
}

type SolverConfig struct {
	Integrator string `yaml:"integrator"`
	sim.Config `yaml:",inline"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type Config struct {
	Regimes   []Regime          `yaml:"regimes"`
	Solver    SolverConfig      `yaml:"solver"`
	Render    render.Options    `yaml:"render"`
	Animation animation.Options `yaml:"animation"`
	Output    OutputConfig      `yaml:"output"`
}

func DefaultSolver() SolverConfig {
	return SolverConfig{Integrator: "rk45", Config: sim.DefaultConfig()}
}

// Default is the classic single-regime run: sigma=10, rho=28, beta=8/3
// from (0.1, 0, 0) over t in [1, 60].
func Default() *Config {
	return &Config{
		Regimes:   []Regime{*Preset("chaotic")},
		Solver:    DefaultSolver(),
		Render:    render.DefaultOptions(),
		Animation: animation.DefaultOptions(),
		Output:    OutputConfig{Dir: DefaultOutputDir},
	}
}

// Load reads a yaml file over the defaults. A file that lists regimes
// replaces the default regime list (see Regime.UnmarshalYAML).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations that would make output paths collide
// or images degenerate. Numeric ranges are left to the integrator.
func (c *Config) Validate() error {
	if len(c.Regimes) == 0 {
		return fmt.Errorf("config: no regimes")
	}
	seen := make(map[string]bool, len(c.Regimes))
	for _, r := range c.Regimes {
		if r.Name == "" {
			return fmt.Errorf("config: regime without a name")
		}
		if strings.ContainsAny(r.Name, `/\`) || strings.Contains(r.Name, "..") {
			return fmt.Errorf("config: regime %q: name must not contain a path separator or \"..\"", r.Name)
		}
		if seen[r.Name] {
			return fmt.Errorf("config: duplicate regime %q", r.Name)
		}
		seen[r.Name] = true
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("config: render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("config: output dir is empty")
	}
	return nil
}

// Select replaces the regime list with the named presets.
func (c *Config) Select(names ...string) error {
	regimes := make([]Regime, 0, len(names))
	for _, name := range names {
		r := Preset(name)
		if r == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, PresetNames())
		}
		regimes = append(regimes, *r)
	}
	c.Regimes = regimes
	return c.Validate()
}

// UnmarshalYAML starts a regime from the preset of the same name, or from
// the chaotic preset, so an entry only lists the fields it changes.
func (r *Regime) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Name string `yaml:"name"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}
	base := Preset(head.Name)
	if base == nil {
		base = Preset("chaotic")
		base.Name = head.Name
	}

	type plain Regime
	p := plain(*base)
	if err := node.Decode(&p); err != nil {
		return fmt.Errorf("regime %q: %w", head.Name, err)
	}
	*r = Regime(p)
	return nil
}

func (r Regime) InitialState() []float64 {
	return []float64{r.Initial[0], r.Initial[1], r.Initial[2]}
}
