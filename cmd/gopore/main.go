// gopore samples density, gyration-radius and diffusion statistics of a
// molecule species from a pore-system trajectory, as described by a YAML
// run configuration.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aklein/gopore/cfg"
	"github.com/aklein/gopore/traj/ptf"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	workers    int
	verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gopore",
		Short: "sample pore-trajectory statistics into a JSON result file",
		Long: "gopore reads a molecular dynamics trajectory of a pore system in the\n" +
			"ptf format and accumulates the statistics configured in the given YAML\n" +
			"file: density and gyration-radius profiles, windowed mean-square\n" +
			"displacements, or the transition matrices of the Monte Carlo diffusion\n" +
			"method. The merged results are written as JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "gopore.yml", "run configuration file")
	pf.IntVarP(&opts.workers, "workers", "w", 0, "override the configured worker count")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func run(opts *rootOptions) error {
	log, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	c, err := cfg.New(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", opts.configPath, err)
	}
	if opts.workers > 0 {
		c.Workers = opts.workers
	}

	s, open, err := c.Sampler()
	if err != nil {
		return err
	}

	frames := c.Frames
	if frames == 0 {
		frames, err = countFrames(c.Traj)
		if err != nil {
			return err
		}
		log.Info("counted trajectory frames", zap.String("traj", c.Traj), zap.Int("frames", frames))
	}

	res, err := s.Sample(open, frames, c.Options(log))
	if err != nil {
		return err
	}

	out, err := os.Create(c.OutPath())
	if err != nil {
		return err
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("writing %s: %w", c.OutPath(), err)
	}
	log.Info("results written", zap.String("out", c.OutPath()))
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	conf := zap.NewProductionConfig()
	conf.Encoding = "console"
	return conf.Build()
}

func countFrames(traj string) (int, error) {
	r, err := ptf.New(traj)
	if err != nil {
		return 0, err
	}
	defer r.Close()
	return r.Count()
}
