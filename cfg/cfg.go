// Package cfg loads and validates the YAML run configuration of gopore
// and turns it into a ready-to-run sampler.
package cfg

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	pore "github.com/aklein/gopore"
	"github.com/aklein/gopore/sample"
	"github.com/aklein/gopore/traj/ptf"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Here are the accepted geometry types.
var (
	GCylinder = "cylinder"
	GSlit     = "slit"
	GBox      = "box"
)

// Geometry describes the simulated system. Diameter is used by cylinder
// systems, Height by slit systems; Box holds the extents of the pore body
// (the reservoirs are added on top) or, for a plain box system, the whole
// box.
type Geometry struct {
	Type      string     `yaml:"type"`
	Diameter  float64    `yaml:"diameter"`
	Height    float64    `yaml:"height"`
	Reservoir float64    `yaml:"reservoir"`
	Focal     [3]float64 `yaml:"focal"`
	Box       [3]float64 `yaml:"box"`
}

// Molecule describes the repeating molecule of the trajectory. Selection,
// if given, lists the names of the atoms used for the centers of mass;
// Masses covers either the whole molecule or just the selection.
type Molecule struct {
	Names     []string  `yaml:"names"`
	Masses    []float64 `yaml:"masses"`
	Selection []string  `yaml:"selection"`
}

// Density configures the density sampling routine.
type Density struct {
	Bins int `yaml:"bins"`
}

// Gyration configures the gyration-radius sampling routine.
type Gyration struct {
	Bins int `yaml:"bins"`
}

// MSD configures the windowed mean-square-displacement routine. LenObs
// and LenFrame are in seconds.
type MSD struct {
	Bins        int     `yaml:"bins"`
	LenObs      float64 `yaml:"len_obs"`
	LenFrame    float64 `yaml:"len_frame"`
	LenStep     int     `yaml:"len_step"`
	BinStepSize int     `yaml:"bin_step_size"`
}

// MC configures the transition-matrix routine for the Monte Carlo
// diffusion method. LenFrame is in seconds.
type MC struct {
	Bins     int     `yaml:"bins"`
	LenSteps []int   `yaml:"len_steps"`
	LenFrame float64 `yaml:"len_frame"`
}

// Cfg is a structure containing the parameters specified in the
// configuration file. It can be instanced through the New function or by
// "hand". If it is instanced by hand, please use the Check method to
// check if the Cfg meets the requirements.
type Cfg struct {
	// Traj is the ptf file containing the trajectory
	Traj string `yaml:"traj"`

	// Out is the file the JSON results are written to. If empty, the
	// trajectory path with a ".json" suffix is used
	Out string `yaml:"out"`

	// Frames is the number of frames to sample. If it is 0, the whole
	// trajectory is counted and used
	Frames int `yaml:"frames"`

	// Geometry describes the system the trajectory was simulated in
	Geometry Geometry `yaml:"geometry"`

	// Molecule describes the sampled molecule species
	Molecule Molecule `yaml:"molecule"`

	// Entry removes the pore entrance region from classification, on
	// both ends of the pore
	Entry float64 `yaml:"entry"`

	// The sampling routines. At least one block must be present; msd
	// and mc exclude each other
	Density  *Density  `yaml:"density"`
	Gyration *Gyration `yaml:"gyration"`
	MSD      *MSD      `yaml:"msd"`
	MC       *MC       `yaml:"mc"`

	// Workers is the number of parallel workers. 0 means one per
	// logical CPU
	Workers int `yaml:"workers"`

	// PBC specifies if the centers of mass are wrapped back into the
	// box. It defaults to true when left out
	PBC *bool `yaml:"pbc"`

	// Shift is an optional translation applied to every position
	Shift []float64 `yaml:"shift"`
}

// New opens and decodes the specified configuration file. The file must
// be a YAML file. This function automatically calls the Check method to
// check the integrity of Cfg.
func New(path string) (*Cfg, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var c Cfg
	dec := yaml.NewDecoder(bufio.NewReader(f))
	err = dec.Decode(&c)
	if err != nil {
		return nil, err
	}

	err = c.Check()
	if err != nil {
		return nil, fmt.Errorf("Check: %w", err)
	}

	return &c, nil
}

// Check checks if Cfg is correct. It returns an error if a field doesn't
// meet the requirements. Fine-grained validation of the sampling routines
// (window feasibility, lag bounds) happens when the sampler is built.
func (c *Cfg) Check() error {
	if c.Traj == "" {
		return fmt.Errorf("Traj must name a trajectory file")
	}

	switch strings.ToLower(c.Geometry.Type) {
	case GCylinder:
		if c.Geometry.Diameter <= 0 {
			return fmt.Errorf("a cylinder system needs a positive Diameter")
		}
	case GSlit:
		if c.Geometry.Height <= 0 {
			return fmt.Errorf("a slit system needs a positive Height")
		}
	case GBox:
	default:
		return fmt.Errorf("unknown geometry type %q (want cylinder, slit or box)", c.Geometry.Type)
	}
	if c.hasPore() && c.Geometry.Reservoir <= 0 {
		return fmt.Errorf("a pore system needs a positive Reservoir")
	}
	for _, v := range c.Geometry.Box {
		if v <= 0 {
			return fmt.Errorf("all Box extents must be positive, got %v", c.Geometry.Box)
		}
	}

	if len(c.Molecule.Names) == 0 {
		return fmt.Errorf("the molecule needs at least one atom name")
	}
	if len(c.Molecule.Masses) == 0 {
		return fmt.Errorf("the molecule needs masses")
	}

	if c.Entry < 0 {
		return fmt.Errorf("Entry cannot be lower than 0")
	}
	if c.Frames < 0 {
		return fmt.Errorf("Frames cannot be lower than 0")
	}
	if c.Workers < 0 {
		return fmt.Errorf("Workers cannot be lower than 0")
	}
	if c.Shift != nil && len(c.Shift) != 3 {
		return fmt.Errorf("Shift must have 3 components, got %d", len(c.Shift))
	}

	if c.Density == nil && c.Gyration == nil && c.MSD == nil && c.MC == nil {
		return fmt.Errorf("no sampling routine configured")
	}
	if c.MSD != nil && c.MC != nil {
		return fmt.Errorf("msd and mc cannot be sampled together")
	}
	for name, bins := range c.binCounts() {
		if bins <= 0 {
			return fmt.Errorf("%s needs a positive bin count", name)
		}
	}

	return nil
}

func (c *Cfg) hasPore() bool {
	t := strings.ToLower(c.Geometry.Type)
	return t == GCylinder || t == GSlit
}

func (c *Cfg) binCounts() map[string]int {
	m := make(map[string]int)
	if c.Density != nil {
		m["density"] = c.Density.Bins
	}
	if c.Gyration != nil {
		m["gyration"] = c.Gyration.Bins
	}
	if c.MSD != nil {
		m["msd"] = c.MSD.Bins
	}
	if c.MC != nil {
		m["mc"] = c.MC.Bins
	}
	return m
}

// System builds the geometry the configuration describes.
func (c *Cfg) System() (pore.Geometry, error) {
	g := c.Geometry
	switch strings.ToLower(g.Type) {
	case GCylinder:
		return pore.NewCylinder(g.Focal, g.Diameter, g.Reservoir, g.Box), nil
	case GSlit:
		return pore.NewSlit(g.Focal, g.Height, g.Reservoir, g.Box), nil
	case GBox:
		return pore.NewBox(g.Box), nil
	}
	return nil, fmt.Errorf("unknown geometry type %q", g.Type)
}

// Sampler builds the configured sampler and the trajectory opener it will
// read from.
func (c *Cfg) Sampler() (*sample.Sampler, pore.Opener, error) {
	geom, err := c.System()
	if err != nil {
		return nil, nil, err
	}
	mol, err := pore.NewMolecule(c.Molecule.Names, c.Molecule.Masses, c.Molecule.Selection...)
	if err != nil {
		return nil, nil, err
	}
	s := sample.New(geom, mol, c.Entry)
	if c.Density != nil {
		if err := s.InitDensity(c.Density.Bins); err != nil {
			return nil, nil, err
		}
	}
	if c.Gyration != nil {
		if err := s.InitGyration(c.Gyration.Bins); err != nil {
			return nil, nil, err
		}
	}
	if c.MSD != nil {
		if err := s.InitMSD(c.MSD.Bins, c.MSD.LenObs, c.MSD.LenFrame, c.MSD.LenStep, c.MSD.BinStepSize); err != nil {
			return nil, nil, err
		}
	}
	if c.MC != nil {
		if err := s.InitMC(c.MC.Bins, c.MC.LenSteps, c.MC.LenFrame); err != nil {
			return nil, nil, err
		}
	}
	return s, ptf.Opener(c.Traj), nil
}

// Options turns the run-time knobs of the configuration into sampling
// options, attaching the given logger.
func (c *Cfg) Options(log *zap.Logger) *sample.Options {
	o := sample.DefaultOptions()
	if c.Workers > 0 {
		o.Cpus(c.Workers)
	}
	if c.PBC != nil {
		o.PBC(*c.PBC)
	}
	if c.Shift != nil {
		o.Shift(c.Shift)
	}
	if log != nil {
		o.Logger(log)
	}
	return o
}

// OutPath returns the path the results are written to.
func (c *Cfg) OutPath() string {
	if c.Out != "" {
		return c.Out
	}
	return c.Traj + ".json"
}
