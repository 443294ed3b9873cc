package io

import (
	"fmt"
	"strings"

	"gopkg.in/gcfg.v1"
)

const (
	ExamplePotentialFile = `[Potential]

#######################
# Required Parameters #
#######################

# Directory containing the trained potential. It must hold graph.dat (network
# weights and biases) and parameters.dat (symmetry function records), and may
# hold mean.txt (input shift) and minmax.txt (training input ranges, used only
# for extrapolation warnings).
Input = path/to/training/dir

# Global cutoff radius for neighbor lists, in the same length units as the
# particle snapshot.
Cutoff = 6.0

#######################
# Optional Parameters #
#######################

# Angular symmetry function flavor. TwoDistance decays with the two anchor
# sides of each triplet; ThreeDistance additionally decays with the far side
# and cuts triplets whose far side leaves the cutoff. Default is TwoDistance.
# Angular = TwoDistance

# Number of worker goroutines used for the per-particle evaluation loop.
# Default is the number of available cores.
# Workers = 8

# Output file which is useful for debugging. Generally, there isn't a reason
# to use this unless something goes wrong.
# LogFile = log.out`
)

// PotentialConfig is the [Potential] section of a run configuration file.
type PotentialConfig struct {
	// Required
	Input  string
	Cutoff float64

	// Optional
	Angular string
	Workers int
	LogFile string
}

func (con *PotentialConfig) ValidInput() bool {
	return con.Input != ""
}
func (con *PotentialConfig) ValidCutoff() bool {
	return con.Cutoff > 0
}
func (con *PotentialConfig) ValidAngular() bool {
	switch strings.ToLower(con.Angular) {
	case "twodistance", "threedistance":
		return true
	}
	return false
}
func (con *PotentialConfig) ValidWorkers() bool {
	return con.Workers > 0
}

// ThreeDistance returns true if the config selects the three-distance
// angular flavor.
func (con *PotentialConfig) ThreeDistance() bool {
	return strings.ToLower(con.Angular) == "threedistance"
}

// PotentialWrapper wraps PotentialConfig for gcfg.
type PotentialWrapper struct {
	Potential PotentialConfig
}

// DefaultPotentialWrapper returns a wrapper around a config with the
// optional fields set to their defaults.
func DefaultPotentialWrapper() *PotentialWrapper {
	con := PotentialConfig{}
	con.Angular = "TwoDistance"
	return &PotentialWrapper{con}
}

// ReadPotentialConfig parses the [Potential] section of the named config
// file and checks the required fields.
func ReadPotentialConfig(fname string) (*PotentialConfig, error) {
	wrap := DefaultPotentialWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}

	con := &wrap.Potential
	switch {
	case !con.ValidInput():
		return nil, fmt.Errorf("config %s needs an Input directory.", fname)
	case !con.ValidCutoff():
		return nil, fmt.Errorf("config %s needs a positive Cutoff.", fname)
	case !con.ValidAngular():
		return nil, fmt.Errorf(
			"config %s: Angular must be TwoDistance or ThreeDistance.", fname,
		)
	}
	return con, nil
}
