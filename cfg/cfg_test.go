package cfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const goodYAML = `traj: water.ptf
frames: 1000
geometry:
  type: cylinder
  diameter: 4
  reservoir: 5
  focal: [5, 5, 10]
  box: [10, 10, 10]
molecule:
  names: [OW, HW1, HW2]
  masses: [15.999, 1.008, 1.008]
  selection: [OW]
entry: 0.5
density:
  bins: 100
gyration:
  bins: 100
msd:
  bins: 50
  len_obs: 4.0e-12
  len_frame: 2.0e-15
  len_step: 40
  bin_step_size: 1
workers: 4
pbc: true
shift: [0, 0, 1]
`

func writeCfg(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNew(t *testing.T) {
	c, err := New(writeCfg(t, goodYAML))
	require.NoError(t, err)
	require.Equal(t, "water.ptf", c.Traj)
	require.Equal(t, 1000, c.Frames)
	require.Equal(t, "cylinder", c.Geometry.Type)
	require.Equal(t, [3]float64{5, 5, 10}, c.Geometry.Focal)
	require.Equal(t, []string{"OW"}, c.Molecule.Selection)
	require.NotNil(t, c.Density)
	require.Equal(t, 100, c.Density.Bins)
	require.NotNil(t, c.MSD)
	require.Equal(t, 40, c.MSD.LenStep)
	require.Nil(t, c.MC)
	require.Equal(t, 4, c.Workers)
	require.NotNil(t, c.PBC)
	require.True(t, *c.PBC)
	require.Equal(t, []float64{0, 0, 1}, c.Shift)
	require.Equal(t, "water.ptf.json", c.OutPath())
}

func TestCheck(t *testing.T) {
	base := func() *Cfg {
		c, err := New(writeCfg(t, goodYAML))
		require.NoError(t, err)
		return c
	}

	cases := []struct {
		name  string
		wreck func(*Cfg)
	}{
		{"no trajectory", func(c *Cfg) { c.Traj = "" }},
		{"unknown geometry", func(c *Cfg) { c.Geometry.Type = "torus" }},
		{"no diameter", func(c *Cfg) { c.Geometry.Diameter = 0 }},
		{"no reservoir", func(c *Cfg) { c.Geometry.Reservoir = 0 }},
		{"flat box", func(c *Cfg) { c.Geometry.Box[1] = 0 }},
		{"no atoms", func(c *Cfg) { c.Molecule.Names = nil }},
		{"no masses", func(c *Cfg) { c.Molecule.Masses = nil }},
		{"negative entry", func(c *Cfg) { c.Entry = -1 }},
		{"negative workers", func(c *Cfg) { c.Workers = -2 }},
		{"short shift", func(c *Cfg) { c.Shift = []float64{1, 2} }},
		{"no routine", func(c *Cfg) { c.Density, c.Gyration, c.MSD, c.MC = nil, nil, nil, nil }},
		{"msd and mc", func(c *Cfg) { c.MC = &MC{Bins: 10, LenSteps: []int{1}, LenFrame: 1e-15} }},
		{"zero bins", func(c *Cfg) { c.Density.Bins = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.wreck(c)
			require.Error(t, c.Check())
		})
	}

	//a slit needs a height, not a diameter
	c := base()
	c.Geometry.Type = "slit"
	require.Error(t, c.Check())
	c.Geometry.Height = 2
	require.NoError(t, c.Check())

	//a plain box needs neither, but then windowed diffusion is rejected
	//when the sampler is built, not here
	c = base()
	c.Geometry.Type = "box"
	c.Geometry.Diameter = 0
	c.Geometry.Reservoir = 0
	require.NoError(t, c.Check())
}

func TestSampler(t *testing.T) {
	c, err := New(writeCfg(t, goodYAML))
	require.NoError(t, err)
	s, open, err := c.Sampler()
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NotNil(t, open)

	//an infeasible observation length surfaces when building the sampler
	c.MSD.LenObs = 3.0e-15
	_, _, err = c.Sampler()
	require.Error(t, err)

	//windowed diffusion in a plain box too
	c, err = New(writeCfg(t, goodYAML))
	require.NoError(t, err)
	c.Geometry.Type = "box"
	_, _, err = c.Sampler()
	require.Error(t, err)
}

func TestOptions(t *testing.T) {
	c, err := New(writeCfg(t, goodYAML))
	require.NoError(t, err)
	o := c.Options(nil)
	require.Equal(t, 4, o.Cpus())
	require.True(t, o.PBC())
	require.Equal(t, []float64{0, 0, 1}, o.Shift())

	pbc := false
	c.PBC = &pbc
	c.Workers = 0
	o = c.Options(nil)
	require.False(t, o.PBC())
	require.Greater(t, o.Cpus(), 0)
}

func TestSystem(t *testing.T) {
	c, err := New(writeCfg(t, goodYAML))
	require.NoError(t, err)
	g, err := c.System()
	require.NoError(t, err)
	require.Equal(t, "CYLINDER", g.Type())
	require.Equal(t, 2.0, g.Radius())
	//the reservoirs extend the box on both ends of z
	require.Equal(t, [3]float64{10, 10, 20}, g.Box())
}
