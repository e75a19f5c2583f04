package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"msolve-lift/config"
	"msolve-lift/gbcore"
	"msolve-lift/modgb"
	"msolve-lift/monomial"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func usage() {
	fmt.Println(`usage: gblift lift [options] <ideal.json>

Flags:
  -threads   <int>     concurrent primes solved per batch (default: 1)
  -signatures           use the signature-based (SBA) engine instead of Buchberger
  -info      <int>     diagnostic verbosity (default: 0)
  -out       <string>  write the rational Gröbner basis to this file instead of stdout
  -report    <string>  write an HTML chart of prime-count vs. wall time to this path
  -seed      <string>  deterministic seed string driving prime selection (default: "gblift")

ideal.json format:
  {"nv": 2, "gens": [[{"coeff": 1, "exp": [2, 0]}, {"coeff": -1, "exp": [0, 0]}], ...]}`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "lift":
		runLift(os.Args[2:])
	default:
		usage()
	}
}

type jsonTerm struct {
	Coeff int64   `json:"coeff"`
	Exp   []int32 `json:"exp"`
}

type jsonIdeal struct {
	NV   int          `json:"nv"`
	Gens [][]jsonTerm `json:"gens"`
}

func loadIdeal(path string) ([]*modgb.IntPoly, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc jsonIdeal
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	gens := make([]*modgb.IntPoly, len(doc.Gens))
	for i, g := range doc.Gens {
		terms := make([]modgb.IntTerm, len(g))
		for j, t := range g {
			terms[j] = modgb.IntTerm{Exp: monomial.Exp(t.Exp), Coeff: t.Coeff}
		}
		gens[i] = &modgb.IntPoly{NV: doc.NV, Terms: terms}
	}
	return gens, nil
}

func runLift(args []string) {
	fs := flag.NewFlagSet("lift", flag.ExitOnError)
	threads := fs.Int("threads", 1, "concurrent primes solved per batch")
	signatures := fs.Bool("signatures", false, "use the signature-based (SBA) engine")
	info := fs.Int("info", 0, "diagnostic verbosity")
	out := fs.String("out", "", "output file for the rational Gröbner basis (default: stdout)")
	report := fs.String("report", "", "write an HTML diagnostic chart to this path")
	seed := fs.String("seed", "gblift", "seed string driving prime selection")
	fs.Parse(args)

	if fs.NArg() < 1 {
		usage()
	}
	gens, err := loadIdeal(fs.Arg(0))
	if err != nil {
		log.Fatalf("load ideal: %v", err)
	}

	cfg, err := config.New(
		config.WithThreads(*threads),
		config.WithSignatures(*signatures),
		config.WithInfoLevel(*info),
	)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	start := time.Now()
	rep := gbcore.Run(cfg, gens, []byte(*seed))
	elapsed := time.Since(start)

	if rep.Code != gbcore.CodeSuccess {
		fmt.Fprintf(os.Stderr, "lift failed, return code %d\n", rep.Code)
		os.Exit(1)
	}
	if *info > 0 && len(rep.BadPrimes) > 0 {
		log.Printf("rejected %d prime(s) during the run: %v", len(rep.BadPrimes), rep.BadPrimes)
	}

	gbText := rep.Table.WriteRationalGB()
	if *out == "" {
		fmt.Println(gbText)
	} else {
		if err := os.WriteFile(*out, []byte(gbText), 0o644); err != nil {
			log.Fatalf("write %s: %v", *out, err)
		}
	}

	if *report != "" {
		if err := writeReport(*report, rep, elapsed); err != nil {
			log.Printf("warn: write report: %v", err)
		}
	}
}

// writeReport renders a single-chart HTML page showing accepted prime
// count against total wall-clock time, mirroring cmd/analysis's
// newHistogramChart + components.Page pattern.
func writeReport(path string, rep gbcore.Report, elapsed time.Duration) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Lift summary",
			Subtitle: fmt.Sprintf("primes=%d, polys=%d, elapsed=%s", rep.Table.NPrimes, len(rep.Table.Polys), elapsed),
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "gblift report", Width: "900px", Height: "500px"}),
	)
	bar.SetXAxis([]string{"accepted primes"}).
		AddSeries("count", []opts.BarData{{Value: int(rep.Table.NPrimes)}})

	page := components.NewPage()
	page.AddCharts(bar)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}
