// Command wxstat computes, per weather station, the minimum, mean, and
// maximum temperature observed in a measurements file, and prints the
// result sorted by station name.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"go.coldcutz.net/go-stuff/utils"

	"github.com/wxstat/aggregator/internal/engine"
	"github.com/wxstat/aggregator/internal/mmapfile"
	"github.com/wxstat/aggregator/internal/render"
	"github.com/wxstat/aggregator/internal/vecscan"
	"github.com/wxstat/aggregator/internal/verify"
)

var (
	file         = flag.String("file", "measurements.txt", "path to the measurements file")
	workers      = flag.Int("workers", runtime.NumCPU(), "number of parallel chunk workers")
	verifyFlag   = flag.Bool("verify", false, "cross-check the engine against independent reference aggregators before printing")
	cpuprofile   = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile   = flag.String("memprofile", "", "write memory profile to `file`")
	traceprofile = flag.String("trace", "", "write trace to `file`")
)

func main() {
	flag.Parse()
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	if *traceprofile != "" {
		f, err := os.Create(*traceprofile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := trace.Start(f); err != nil {
			panic(err)
		}
		defer trace.Stop()
	}

	_, done, log, err := utils.StdSetup()
	if err != nil {
		panic(err)
	}
	done() // use default signal stuff

	if err := run(log); err != nil {
		log.Error("error", "err", err)
		os.Exit(1)
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			panic(err)
		}
	}
}

func run(log *slog.Logger) error {
	// Refuse to even open the file on a host with no usable vector equality
	// instruction; there's no point mapping gigabytes of input we can't scan.
	if !vecscan.Supported() {
		return fmt.Errorf("unsupported CPU: no usable 256-bit (or wider) byte-compare capability")
	}

	mapping, err := mmapfile.Open(*file)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer mapping.Close()

	data := mapping.Bytes()

	if *verifyFlag {
		log.Info("running cross-check against reference aggregators", "workers", *workers)
		if mismatches := verify.CrossCheck(data, *workers); len(mismatches) > 0 {
			for _, m := range mismatches {
				log.Error("verify mismatch", "station", m.Station, "source", m.Source)
			}
			return fmt.Errorf("verify: %d station(s) disagreed with reference aggregators", len(mismatches))
		}
		log.Info("verify: engine agrees with both reference aggregators")
	}

	records := engine.Run(data, *workers)
	return render.Write(os.Stdout, records)
}
