// Command solve runs one search over one puzzle file and writes the
// solution and statistics reports.
//
// Usage:
//
//	solve [flags] <bfs|dfs|astr> <order|heuristic> <input> <solution-file> <stats-file>
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/pzielasko/taquin/config"
	"github.com/pzielasko/taquin/puzzle"
	"github.com/pzielasko/taquin/report"
	"github.com/pzielasko/taquin/solver"
)

const usage = "usage: solve [flags] <bfs|dfs|astr> <order|heuristic> <input> <solution-file> <stats-file>"

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, usage)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	args := cfg.Args()
	if len(args) < 5 {
		fmt.Fprintln(os.Stderr, "Problem parsing arguments: not enough arguments")
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	strat, err := solver.ParseStrategy(args[0], args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Problem parsing arguments: %v\n", err)
		os.Exit(1)
	}

	input := args[2]
	p, err := puzzle.FromFile(input)
	if err != nil {
		switch {
		case errors.Is(err, puzzle.ErrNotFound):
			fmt.Fprintf(os.Stderr, "File not found: %s\n", input)
		case errors.Is(err, puzzle.ErrEmpty):
			fmt.Fprintf(os.Stderr, "File is empty: %s\n", input)
		case errors.Is(err, puzzle.ErrCorrupt):
			fmt.Fprintf(os.Stderr, "File is corrupted: %s\n", input)
		default:
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	s := &solver.Solver{}
	if err := s.Init(p, strat); err != nil {
		fmt.Fprintf(os.Stderr, "Puzzle cannot be solved: %v\n", err)
		os.Exit(1)
	}
	if d := cfg.GetInt("max-depth"); d > 0 {
		s.SetMaxDepth(d)
	}
	if f := cfg.GetFloat64("mem-fraction"); f > 0 {
		s.SetMemFraction(f)
	}

	res, err := s.Solve()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := report.WriteSolution(args[3], res); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := report.WriteStats(args[4], res); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Print(report.Summary(res))
	log.Info().
		Str("strategy", strat.String()).
		Str("input", input).
		Bool("found", res.Found).
		Int("length", len(res.Path)).
		Uint64("visited", res.VisitedStates).
		Uint64("processed", res.ProcessedStates).
		Int("max-depth", res.MaxDepth).
		Float64("elapsed-ms", report.Milliseconds(res)).
		Msg("solve-done")
}
