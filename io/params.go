/*package io loads trained potential parameter files and run configuration.

The on-disk layout is a training directory containing graph.dat (network
weights and biases), parameters.dat (symmetry function records), and the
optional mean.txt and minmax.txt auxiliary tables. The formats are fixed by
the training pipeline, so the loaders here validate aggressively: a malformed
file must fail at setup time, never turn into silent numeric corruption
during a run.
*/
package io

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/phil-mansfield/table"

	"github.com/Tylor-yu/lammps/mat"
	"github.com/Tylor-yu/lammps/nn"
	"github.com/Tylor-yu/lammps/symm"
)

// PotentialFiles collects everything read from one training directory.
type PotentialFiles struct {
	Net   *nn.Network
	Funcs symm.Set
	// Means is the optional per-descriptor input shift, nil if mean.txt is
	// absent.
	Means []float64
	// Mins and Maxes are the optional training input ranges, nil if
	// minmax.txt is absent. They only drive extrapolation warnings.
	Mins, Maxes []float64
}

// ReadPotentialDir loads graph.dat, parameters.dat, and the optional
// auxiliary files from dir. Angular records use the given flavor. The
// network input width and the descriptor count must agree, as must the
// lengths of the auxiliary tables.
func ReadPotentialDir(dir string, angular symm.Kind) (*PotentialFiles, error) {
	net, err := ReadGraph(path.Join(dir, "graph.dat"))
	if err != nil {
		return nil, err
	}
	funcs, err := ReadSymmFuncs(path.Join(dir, "parameters.dat"), angular)
	if err != nil {
		return nil, err
	}

	if net.Inputs() != len(funcs) {
		return nil, fmt.Errorf(
			"network in %s expects %d inputs, but parameters.dat has %d "+
				"symmetry functions", dir, net.Inputs(), len(funcs),
		)
	}

	files := &PotentialFiles{Net: net, Funcs: funcs}

	meanFile := path.Join(dir, "mean.txt")
	if _, err := os.Stat(meanFile); err == nil {
		cols, err := table.ReadTable(meanFile, []int{0}, nil)
		if err != nil {
			return nil, err
		}
		if len(cols[0]) != len(funcs) {
			return nil, fmt.Errorf(
				"mean.txt has %d entries, want %d", len(cols[0]), len(funcs),
			)
		}
		files.Means = cols[0]
	}

	minmaxFile := path.Join(dir, "minmax.txt")
	if _, err := os.Stat(minmaxFile); err == nil {
		cols, err := table.ReadTable(minmaxFile, []int{0, 1}, nil)
		if err != nil {
			return nil, err
		}
		if len(cols[0]) != len(funcs) {
			return nil, fmt.Errorf(
				"minmax.txt has %d entries, want %d", len(cols[0]), len(funcs),
			)
		}
		files.Mins, files.Maxes = cols[0], cols[1]
	}

	return files, nil
}

// ReadGraph parses a graph.dat network file. The header line gives the
// hidden layer count, nodes per hidden layer, activation name, input width,
// and output width. A blank line separates the header from the weight rows
// and the weight rows from the bias rows. The weight block holds one row per
// source node: inputs rows for the first hidden layer, nodes rows for each
// further hidden layer, and outputs rows of width nodes for the output layer,
// which are reshaped to nodes x outputs. The last bias row belongs to the
// output layer and only its first entry is meaningful.
func ReadGraph(fname string) (*nn.Network, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scan := bufio.NewScanner(f)
	if !scan.Scan() {
		return nil, fmt.Errorf("%s is empty", fname)
	}

	head := strings.Fields(scan.Text())
	if len(head) != 5 {
		return nil, fmt.Errorf(
			"%s header has %d fields, want 5", fname, len(head),
		)
	}
	layers, err1 := strconv.Atoi(head[0])
	nodes, err2 := strconv.Atoi(head[1])
	activation := head[2]
	inputs, err3 := strconv.Atoi(head[3])
	outputs, err4 := strconv.Atoi(head[4])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return nil, fmt.Errorf("%s header is not numeric", fname)
	}

	switch {
	case layers < 1 || nodes < 1 || inputs < 1:
		return nil, fmt.Errorf(
			"%s describes a %d x %d network with %d inputs",
			fname, layers, nodes, inputs,
		)
	case outputs != 1:
		return nil, fmt.Errorf(
			"%s network has %d outputs, want 1", fname, outputs,
		)
	case strings.ToLower(activation) != "sigmoid":
		return nil, fmt.Errorf(
			"%s uses unsupported activation %q", fname, activation,
		)
	}

	weightRows, err := readRowBlock(scan, nodes)
	if err != nil {
		return nil, fmt.Errorf("%s weights: %s", fname, err.Error())
	}
	biasRows, err := readRowBlock(scan, nodes)
	if err != nil {
		return nil, fmt.Errorf("%s biases: %s", fname, err.Error())
	}

	wantWeights := inputs + (layers-1)*nodes + outputs
	if len(weightRows) != wantWeights {
		return nil, fmt.Errorf(
			"%s has %d weight rows, want %d", fname, len(weightRows),
			wantWeights,
		)
	}
	if len(biasRows) != layers+1 {
		return nil, fmt.Errorf(
			"%s has %d bias rows, want %d", fname, len(biasRows), layers+1,
		)
	}

	weights := make([]*mat.Matrix, layers+1)
	biases := make([]*mat.Matrix, layers+1)

	row := 0
	weights[0], row = stackRows(weightRows, row, inputs, nodes)
	for l := 1; l < layers; l++ {
		weights[l], row = stackRows(weightRows, row, nodes, nodes)
	}
	// The output block is written row-per-output-node and reshaped to
	// nodes x 1.
	outVals := make([]float64, nodes)
	copy(outVals, weightRows[row])
	weights[layers] = mat.NewMatrix(outVals, outputs, nodes)

	for l := 0; l < layers; l++ {
		biases[l] = mat.NewMatrix(biasRows[l], nodes, 1)
	}
	biases[layers] = mat.NewMatrix(biasRows[layers][:1], 1, 1)

	return nn.NewNetwork(weights, biases)
}

// readRowBlock reads whitespace-separated float rows until a blank line or
// EOF. Every row must have exactly width entries.
func readRowBlock(scan *bufio.Scanner, width int) ([][]float64, error) {
	rows := [][]float64{}
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			if len(rows) == 0 {
				// Leading blank separator.
				continue
			}
			break
		}

		fields := strings.Fields(line)
		if len(fields) != width {
			return nil, fmt.Errorf(
				"row %d has %d entries, want %d", len(rows), len(fields),
				width,
			)
		}
		row := make([]float64, width)
		for i, field := range fields {
			x, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf(
					"row %d entry %d: %s", len(rows), i, err.Error(),
				)
			}
			row[i] = x
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("block is empty")
	}
	return rows, scan.Err()
}

// stackRows joins height consecutive rows into one matrix, returning the
// matrix and the next unconsumed row index.
func stackRows(rows [][]float64, start, height, width int) (*mat.Matrix, int) {
	vals := make([]float64, 0, height*width)
	for i := start; i < start+height; i++ {
		vals = append(vals, rows[i]...)
	}
	return mat.NewMatrix(vals, width, height), start + height
}

// ReadSymmFuncs parses a parameters.dat symmetry function file. The first
// line gives the record count; each following non-empty line is one record,
// with the token count distinguishing radial records (eta, Rc, Rs) from
// angular ones (eta, Rc, zeta, lambda). Angular records take the given
// flavor. The line order defines the descriptor vector ordering and is
// preserved exactly.
func ReadSymmFuncs(fname string, angular symm.Kind) (symm.Set, error) {
	if angular != symm.AngularTwo && angular != symm.AngularThree {
		return nil, fmt.Errorf("invalid angular flavor %d", int(angular))
	}

	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scan := bufio.NewScanner(f)
	if !scan.Scan() {
		return nil, fmt.Errorf("%s is empty", fname)
	}
	count, err := strconv.Atoi(strings.TrimSpace(scan.Text()))
	if err != nil || count < 1 {
		return nil, fmt.Errorf("%s has invalid record count %q",
			fname, strings.TrimSpace(scan.Text()))
	}

	funcs := symm.Set{}
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		vals := make([]float64, len(fields))
		for i, field := range fields {
			if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf(
					"%s record %d: %s", fname, len(funcs), err.Error(),
				)
			}
		}

		switch len(vals) {
		case 3:
			funcs = append(funcs, symm.Param{
				Kind: symm.Radial,
				Eta:  vals[0], Rc: vals[1], Rs: vals[2],
			})
		case 4:
			funcs = append(funcs, symm.Param{
				Kind: angular,
				Eta:  vals[0], Rc: vals[1], Zeta: vals[2], Lambda: vals[3],
			})
		default:
			return nil, fmt.Errorf(
				"%s record %d has %d values, want 3 or 4",
				fname, len(funcs), len(vals),
			)
		}
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}

	if len(funcs) != count {
		return nil, fmt.Errorf(
			"%s declares %d records but contains %d", fname, count, len(funcs),
		)
	}
	if err := funcs.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %s", fname, err.Error())
	}
	return funcs, nil
}
