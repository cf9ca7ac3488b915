package pipeline_test

import (
	"context"
	"image/gif"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lorenzgif/internal/animation"
	"github.com/san-kum/lorenzgif/internal/config"
	"github.com/san-kum/lorenzgif/internal/dynamo"
	"github.com/san-kum/lorenzgif/internal/pipeline"
	"github.com/san-kum/lorenzgif/internal/storage"
)

func smallConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Output.Dir = dir
	cfg.Render.Width = 120
	cfg.Render.Height = 90
	cfg.Animation.FrameDelay = 40 * time.Millisecond
	cfg.Animation.HoldDelay = time.Second
	for i := range cfg.Regimes {
		cfg.Regimes[i].Start = 1
		cfg.Regimes[i].End = 5
		cfg.Regimes[i].Points = 41
		cfg.Regimes[i].ChunkStep = 10
	}
	return cfg
}

func decodeGIF(path string) *gif.GIF {
	f, err := os.Open(path)
	Expect(err).NotTo(HaveOccurred())
	defer f.Close()
	g, err := gif.DecodeAll(f)
	Expect(err).NotTo(HaveOccurred())
	return g
}

var _ = Describe("Pipeline", func() {
	var (
		dir string
		cfg *config.Config
		ctx context.Context
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		cfg = smallConfig(dir)
		ctx = context.Background()
	})

	Describe("Run", func() {
		It("renders one frame per growing prefix and a looping GIF", func() {
			results, err := pipeline.RunAll(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))

			res := results[0]
			Expect(res.Frames).To(Equal(5))
			Expect(res.Final.Times).To(HaveLen(41))
			Expect(res.Final.States[0]).To(Equal(dynamo.State{0.1, 0, 0}))

			frames, err := animation.ListFrames(res.FrameDir)
			Expect(err).NotTo(HaveOccurred())
			names := make([]string, len(frames))
			for i, f := range frames {
				names[i] = filepath.Base(f)
			}
			Expect(names).To(Equal([]string{"000.png", "001.png", "002.png", "003.png", "004.png"}))

			g := decodeGIF(res.Animation)
			Expect(g.Image).To(HaveLen(5))
			Expect(g.LoopCount).To(Equal(0))
			Expect(g.Delay).To(Equal([]int{100, 4, 4, 4, 100}))
		})

		It("writes the run record and exports", func() {
			_, err := pipeline.RunAll(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())

			st := storage.New(dir)
			meta, err := st.Load("chaotic")
			Expect(err).NotTo(HaveOccurred())
			Expect(meta.Frames).To(Equal(5))
			Expect(meta.Params.Rho).To(Equal(28.0))
			Expect(meta.Integrator).To(Equal("rk45"))
			Expect(meta.Metrics).To(HaveKey("z_max"))

			states, times, err := st.LoadStates("chaotic")
			Expect(err).NotTo(HaveOccurred())
			Expect(states).To(HaveLen(41))
			Expect(times[0]).To(Equal(1.0))
			Expect(times[40]).To(Equal(5.0))

			Expect(filepath.Join(dir, "chaotic", pipeline.SeriesFile)).To(BeARegularFile())
			Expect(filepath.Join(dir, "chaotic", pipeline.ProjectionFile)).To(BeARegularFile())
		})

		It("removes stale frames from an earlier run", func() {
			frameDir := filepath.Join(dir, "chaotic", pipeline.FramesDir)
			Expect(os.MkdirAll(frameDir, 0755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(frameDir, "0099.png"), []byte("stale"), 0644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(frameDir, "zz_old.png"), []byte("stale"), 0644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(frameDir, "cover.JPG"), []byte("stale"), 0644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(frameDir, "notes.txt"), []byte("keep"), 0644)).To(Succeed())

			results, err := pipeline.RunAll(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Frames).To(Equal(5))
			Expect(decodeGIF(results[0].Animation).Image).To(HaveLen(5))
			Expect(filepath.Join(frameDir, "0099.png")).NotTo(BeAnExistingFile())
			Expect(filepath.Join(frameDir, "zz_old.png")).NotTo(BeAnExistingFile())
			Expect(filepath.Join(frameDir, "cover.JPG")).NotTo(BeAnExistingFile())
			Expect(filepath.Join(frameDir, "notes.txt")).To(BeAnExistingFile())

			frames, err := animation.ListFrames(frameDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(HaveLen(5))
		})

		It("writes an AVI when a video name is configured", func() {
			cfg.Animation.Video = "chaotic.avi"
			results, err := pipeline.RunAll(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Video).To(Equal(filepath.Join(dir, "chaotic", "chaotic.avi")))
			Expect(results[0].Video).To(BeARegularFile())
		})

		It("runs every regime into its own directory", func() {
			Expect(cfg.Select("chaotic", "steady")).To(Succeed())
			for i := range cfg.Regimes {
				cfg.Regimes[i].End = 3
				cfg.Regimes[i].Points = 11
			}

			results, err := pipeline.RunAll(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[1].Animation).To(Equal(filepath.Join(dir, "steady", "steady.gif")))
			Expect(decodeGIF(results[1].Animation).Image).To(HaveLen(2))
		})
	})

	Describe("failures", func() {
		It("aborts on divergence without writing the animation", func() {
			cfg.Solver.MaxNorm = 1.0

			_, err := pipeline.RunAll(ctx, cfg)
			Expect(err).To(MatchError(dynamo.ErrUnstable))
			Expect(filepath.Join(dir, "chaotic", "chaotic.gif")).NotTo(BeAnExistingFile())
		})

		It("treats an empty time grid as having no frames", func() {
			cfg.Regimes[0].Points = 0

			_, err := pipeline.RunAll(ctx, cfg)
			Expect(err).To(MatchError(animation.ErrNoFrames))
		})

		It("rejects an unknown integrator", func() {
			cfg.Solver.Integrator = "leapfrog"

			_, err := pipeline.New(cfg)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a regime name that escapes the output directory", func() {
			cfg.Regimes[0].Name = "../escape"

			_, err := pipeline.New(cfg)
			Expect(err).To(MatchError(ContainSubstring("path separator")))
			Expect(filepath.Join(filepath.Dir(dir), "escape")).NotTo(BeAnExistingFile())
		})

		It("stops on a cancelled context", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := pipeline.RunAll(cancelled, cfg)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("New", func() {
		It("creates the output directory", func() {
			cfg.Output.Dir = filepath.Join(dir, "nested", "out")

			_, err := pipeline.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Output.Dir).To(BeADirectory())
		})
	})

	Describe("Trajectories", func() {
		It("returns every chunk in order", func() {
			trajs, err := pipeline.Trajectories(ctx, cfg.Solver, cfg.Regimes[0])
			Expect(err).NotTo(HaveOccurred())
			Expect(trajs).To(HaveLen(5))
			for i, want := range []int{1, 11, 21, 31, 41} {
				Expect(trajs[i]).To(HaveLen(want))
			}
		})
	})
})
