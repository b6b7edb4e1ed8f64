package bench

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matryer/is"
	"gopkg.in/yaml.v3"

	"github.com/pzielasko/taquin/puzzle"
	"github.com/pzielasko/taquin/solver"
)

func testFile(name string) string {
	return filepath.Join("testdata", name)
}

func mustStrategy(t *testing.T, alg, arg string) solver.Strategy {
	t.Helper()
	s, err := solver.ParseStrategy(alg, arg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRunAggregates(t *testing.T) {
	is := is.New(t)
	r := NewRunner(mustStrategy(t, "astr", "manh"))
	r.SetWorkers(2)
	files := []string{
		testFile("one_move.txt"),
		testFile("three_moves.txt"),
		testFile("unsolvable.txt"),
		testFile("corrupt.txt"),
	}
	sum, err := r.Run(files)
	is.NoErr(err)
	is.Equal(sum.Files, 4)
	is.Equal(sum.Solved, 2)
	is.Equal(sum.Unsolvable, 1)
	is.Equal(sum.Errors, 1)
	is.Equal(sum.Skipped, 0)

	is.Equal(sum.Length.Runs(), 2)
	is.Equal(sum.Length.Mean(), 2.0)
	is.Equal(sum.Length.Min(), 1.0)
	is.Equal(sum.Length.Max(), 3.0)
	is.Equal(sum.ElapsedMs.Runs(), 3) // the corrupt file never ran a search

	is.Equal(sum.Results[0].File, files[0]) // results keep input order
	is.True(errors.Is(sum.Results[3].Err, puzzle.ErrCorrupt))
}

func TestRunEmptyBatch(t *testing.T) {
	is := is.New(t)
	r := NewRunner(mustStrategy(t, "bfs", "UDLR"))
	sum, err := r.Run(nil)
	is.NoErr(err)
	is.Equal(sum.Files, 0)
	is.Equal(sum.Solved, 0)
}

func TestLogStreamIsOneYAMLSequence(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	r := NewRunner(mustStrategy(t, "bfs", "UDLR"))
	r.SetWorkers(1)
	r.SetLogStream(&buf)

	sum, err := r.Run([]string{testFile("one_move.txt"), testFile("three_moves.txt")})
	is.NoErr(err)
	is.Equal(sum.Solved, 2)

	var entries []LogEntry
	is.NoErr(yaml.Unmarshal(buf.Bytes(), &entries))
	is.Equal(len(entries), 2)
	is.Equal(entries[0].File, testFile("one_move.txt"))
	is.Equal(entries[0].Strategy, "bfs/UDLR")
	is.True(entries[0].Found)
	is.Equal(entries[0].Path, "D")
	is.Equal(entries[1].Length, 3)
}

// abortWriter aborts the batch from the log writer goroutine as soon as
// the first entry lands, so the abort races a running batch.
type abortWriter struct {
	r    *Runner
	once sync.Once
	buf  bytes.Buffer
}

func (w *abortWriter) Write(p []byte) (int, error) {
	w.once.Do(func() { w.r.Abort() })
	return w.buf.Write(p)
}

func TestAbortStopsBatch(t *testing.T) {
	is := is.New(t)
	r := NewRunner(mustStrategy(t, "bfs", "UDLR"))
	r.SetWorkers(1)
	w := &abortWriter{r: r}
	r.SetLogStream(w)

	files := []string{
		testFile("one_move.txt"),
		testFile("one_move.txt"),
		testFile("one_move.txt"),
		testFile("one_move.txt"),
	}
	sum, err := r.Run(files)
	is.NoErr(err)
	is.True(sum.Solved >= 1)  // the file that triggered the abort had finished
	is.True(sum.Skipped >= 2) // the abort lands within the first two files
	is.Equal(sum.Solved+sum.Errors+sum.Skipped, 4)
}

func TestReport(t *testing.T) {
	is := is.New(t)
	r := NewRunner(mustStrategy(t, "astr", "hamm"))
	r.SetWorkers(1)
	sum, err := r.Run([]string{testFile("one_move.txt"), testFile("three_moves.txt")})
	is.NoErr(err)

	rep := sum.Report(95.0)
	is.True(strings.Contains(rep, "astr/hamm: 2 files"))
	is.True(strings.Contains(rep, "solved 2, unsolvable 0, errors 0"))
	is.True(strings.Contains(rep, "intervals are 95% confidence"))
}

func TestLengthHistogram(t *testing.T) {
	is := is.New(t)
	r := NewRunner(mustStrategy(t, "bfs", "UDLR"))
	r.SetWorkers(1)
	sum, err := r.Run([]string{testFile("one_move.txt"), testFile("three_moves.txt")})
	is.NoErr(err)

	var buf bytes.Buffer
	is.NoErr(sum.LengthHistogram(&buf, 3))
	is.True(buf.Len() > 0)

	is.Equal(sum.SolvedLengths(), []float64{1, 3})
}

func TestHistogramSkipsEmptyBatch(t *testing.T) {
	is := is.New(t)
	r := NewRunner(mustStrategy(t, "bfs", "UDLR"))
	sum, err := r.Run([]string{testFile("corrupt.txt")})
	is.NoErr(err)

	var buf bytes.Buffer
	is.NoErr(sum.LengthHistogram(&buf, 3))
	is.Equal(buf.Len(), 0)
}
