// Package report renders solve results into the two output files the
// command line produces: a solution report and a statistics report.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pzielasko/taquin/puzzle"
	"github.com/pzielasko/taquin/solver"
)

// NoSolution is the sentinel written in place of a path length when the
// search exhausted the space without reaching the goal.
const NoSolution = -1

// FprintSolution writes the solution report: the path length on the first
// line and the move-letter string on the second, or the no-solution
// sentinel alone.
func FprintSolution(w io.Writer, res *solver.Result) error {
	if !res.Found {
		_, err := fmt.Fprintf(w, "%d\n", NoSolution)
		return err
	}
	_, err := fmt.Fprintf(w, "%d\n%s\n", len(res.Path), puzzle.PathString(res.Path))
	return err
}

// FprintStats writes the statistics report: path length (or the sentinel),
// visited states, processed states, max depth, and elapsed milliseconds
// with three decimals.
func FprintStats(w io.Writer, res *solver.Result) error {
	length := NoSolution
	if res.Found {
		length = len(res.Path)
	}
	_, err := fmt.Fprintf(w, "%d\n%d\n%d\n%d\n%.3f\n",
		length,
		res.VisitedStates,
		res.ProcessedStates,
		res.MaxDepth,
		Milliseconds(res),
	)
	return err
}

// WriteSolution writes the solution report to a file.
func WriteSolution(path string, res *solver.Result) error {
	return writeFile(path, res, FprintSolution)
}

// WriteStats writes the statistics report to a file.
func WriteStats(path string, res *solver.Result) error {
	return writeFile(path, res, FprintStats)
}

func writeFile(path string, res *solver.Result, fprint func(io.Writer, *solver.Result) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fprint(f, res); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Milliseconds returns the elapsed solve time in milliseconds.
func Milliseconds(res *solver.Result) float64 {
	return float64(res.Elapsed.Nanoseconds()) / 1e6
}

// Summary renders a human-readable account of a result for interactive
// display.
func Summary(res *solver.Result) string {
	var sb strings.Builder
	if res.Found {
		fmt.Fprintf(&sb, "Path (%d): %s\n", len(res.Path), puzzle.PathString(res.Path))
	} else {
		sb.WriteString("No path found\n")
	}
	fmt.Fprintf(&sb, "Max depth: %d\n", res.MaxDepth)
	fmt.Fprintf(&sb, "Visited states: %d\n", res.VisitedStates)
	fmt.Fprintf(&sb, "Processed states: %d\n", res.ProcessedStates)
	fmt.Fprintf(&sb, "Time spent: %.3f ms\n", Milliseconds(res))
	return sb.String()
}
