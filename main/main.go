package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/phil-mansfield/table"

	"github.com/Tylor-yu/lammps/geom"
	"github.com/Tylor-yu/lammps/io"
	"github.com/Tylor-yu/lammps/potential"
	"github.com/Tylor-yu/lammps/symm"
)

func main() {
	var (
		configPath, logPath, pprofPath string
		exampleConfig                  bool
		workers                        int
	)

	flag.StringVar(&configPath, "Config", "",
		"Path to the [Potential] configuration file.")
	flag.BoolVar(&exampleConfig, "ExampleConfig", false,
		"Print an example configuration file and exit.")
	flag.StringVar(&logPath, "Log", "",
		"Location to write log statements to. Default is stderr.")
	flag.StringVar(&pprofPath, "PProf", "",
		"Location to write profile to. Default is no profiling.")
	flag.IntVar(&workers, "Workers", runtime.NumCPU(),
		"Number of goroutines used for the evaluation loop.")

	flag.Parse()

	if exampleConfig {
		fmt.Println(io.ExamplePotentialFile)
		return
	}

	if logPath != "" {
		lf, err := os.Create(logPath)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(lf)
		defer lf.Close()
	}

	if pprofPath != "" {
		f, err := os.Create(pprofPath)
		if err != nil {
			log.Fatal(err.Error())
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if configPath == "" {
		log.Fatalf(
			"Usage: $ %s -Config config.txt snapshot.txt forces.txt",
			os.Args[0],
		)
	}
	args := flag.Args()
	if len(args) != 2 {
		log.Fatalf(
			"Required file use: $ %s -Config config.txt snapshot.txt "+
				"forces.txt", os.Args[0],
		)
	}
	snapFile, outFile := args[0], args[1]

	con, err := io.ReadPotentialConfig(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}
	if con.Workers > 0 {
		workers = con.Workers
	}
	// The -Log flag wins over the config file.
	if logPath == "" && con.LogFile != "" {
		lf, err := os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(lf)
		defer lf.Close()
	}
	runtime.GOMAXPROCS(workers)

	p, err := loadPotential(con)
	if err != nil {
		log.Fatal(err.Error())
	}

	xs, err := readSnapshot(snapFile)
	if err != nil {
		log.Fatal(err.Error())
	}
	log.Printf("%d particles read.", len(xs))

	lists := neighborLists(xs, con.Cutoff)

	sink := potential.NewArraySink(len(xs))
	p.EvaluateParallel(lists, workers, sink)

	fmt.Printf("Total potential energy: %.10g\n", sink.Energy)
	fmt.Printf("Virial: %.6g %.6g %.6g %.6g %.6g %.6g\n",
		sink.Virial[0], sink.Virial[1], sink.Virial[2],
		sink.Virial[3], sink.Virial[4], sink.Virial[5])

	if err := writeForces(outFile, sink.Forces); err != nil {
		log.Fatal(err.Error())
	}
}

// loadPotential reads the training directory named by the config and wires
// the optional auxiliary tables into the potential.
func loadPotential(con *io.PotentialConfig) (*potential.Potential, error) {
	angular := symm.AngularTwo
	if con.ThreeDistance() {
		angular = symm.AngularThree
	}

	files, err := io.ReadPotentialDir(con.Input, angular)
	if err != nil {
		return nil, err
	}

	p, err := potential.New(files.Net, files.Funcs, con.Cutoff)
	if err != nil {
		return nil, err
	}
	if files.Means != nil {
		if err := p.SetMeans(files.Means); err != nil {
			return nil, err
		}
	}
	if files.Mins != nil {
		if err := p.SetRanges(files.Mins, files.Maxes); err != nil {
			return nil, err
		}
	}

	log.Printf(
		"Loaded potential: %d symmetry functions, %d hidden layers, "+
			"cutoff %g.",
		p.Descriptors(), files.Net.HiddenLayers(), p.Cutoff(),
	)
	return p, nil
}

// readSnapshot reads particle positions from a whitespace table with x, y, z
// in the first three columns.
func readSnapshot(fname string) ([]geom.Vec, error) {
	cols, err := table.ReadTable(fname, []int{0, 1, 2}, nil)
	if err != nil {
		return nil, err
	}

	xs := make([]geom.Vec, len(cols[0]))
	for i := range xs {
		xs[i] = geom.Vec{cols[0][i], cols[1][i], cols[2][i]}
	}
	return xs, nil
}

// neighborLists brute-forces full neighbor lists. This driver stands in for
// the simulation code that would normally maintain them, so an O(n^2) build
// is fine here.
func neighborLists(xs []geom.Vec, cutoff float64) [][]potential.Neighbor {
	lists := make([][]potential.Neighbor, len(xs))
	for i := range xs {
		for j := range xs {
			if i == j {
				continue
			}
			dr := xs[j].Sub(&xs[i])
			r := dr.Norm()
			if r < cutoff {
				lists[i] = append(lists[i], potential.Neighbor{
					Index: j, Dr: dr, R: r,
				})
			}
		}
	}
	return lists
}

func writeForces(fname string, forces []geom.Vec) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	for i := range forces {
		_, err = fmt.Fprintf(f, "%d %.16g %.16g %.16g\n",
			i, forces[i][0], forces[i][1], forces[i][2])
		if err != nil {
			return err
		}
	}
	return nil
}
