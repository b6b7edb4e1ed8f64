// Package bench solves a batch of puzzle files under one strategy and
// aggregates the outcomes. Every solve stays single-threaded; the pool
// only spreads whole files across workers.
package bench

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/pzielasko/taquin/puzzle"
	"github.com/pzielasko/taquin/solver"
	"github.com/pzielasko/taquin/stats"
)

// LogEntry is one finished file, meant for serializing to a log stream.
type LogEntry struct {
	File      string  `json:"file" yaml:"file"`
	Strategy  string  `json:"strategy" yaml:"strategy"`
	Found     bool    `json:"found" yaml:"found"`
	Length    int     `json:"length" yaml:"length"`
	Path      string  `json:"path,omitempty" yaml:"path,omitempty"`
	Visited   uint64  `json:"visited" yaml:"visited"`
	Processed uint64  `json:"processed" yaml:"processed"`
	ElapsedMs float64 `json:"elapsed_ms" yaml:"elapsed_ms"`
	Error     string  `json:"error,omitempty" yaml:"error,omitempty"`
	Thread    int     `json:"thread" yaml:"thread"`
}

// A FileResult pairs one input file with its solve outcome. Err covers
// parse failures and aborts; Res is nil when Err is set.
type FileResult struct {
	File string
	Res  *solver.Result
	Err  error
}

// Runner drives a batch. Configure it before Run; a Runner is good for
// one batch at a time.
type Runner struct {
	strategy    solver.Strategy
	maxDepth    int
	memFraction float64
	workers     int
	logStream   io.Writer

	stopping atomic.Bool
	mu       sync.Mutex
	active   []*solver.Solver
}

func NewRunner(strat solver.Strategy) *Runner {
	return &Runner{strategy: strat}
}

// SetWorkers sets the pool size. Zero means one worker per CPU.
func (r *Runner) SetWorkers(n int) {
	r.workers = n
}

// SetMaxDepth bounds depth-first solves in the batch.
func (r *Runner) SetMaxDepth(d int) {
	r.maxDepth = d
}

// SetMemFraction passes a registry sizing fraction to every solver.
func (r *Runner) SetMemFraction(f float64) {
	r.memFraction = f
}

// SetLogStream turns on per-file log entries, written as a YAML sequence.
func (r *Runner) SetLogStream(l io.Writer) {
	r.logStream = l
}

// Abort stops the batch: in-flight solves are aborted and no further
// files are started. Already-finished files keep their results.
func (r *Runner) Abort() {
	r.stopping.Store(true)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.active {
		if s != nil {
			s.Abort()
		}
	}
}

// Run solves every file and aggregates. The returned summary is complete
// even when some files error or the batch is aborted midway.
func (r *Runner) Run(files []string) (*Summary, error) {
	workers := r.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}
	r.stopping.Store(false)
	r.mu.Lock()
	r.active = make([]*solver.Solver, workers)
	r.mu.Unlock()

	log.Debug().Str("strategy", r.strategy.String()).
		Int("files", len(files)).
		Int("workers", workers).
		Msg("bench-start")

	logChan := make(chan []byte)
	done := make(chan bool)
	writer := errgroup.Group{}
	if r.logStream != nil {
		writer.Go(func() error {
			for {
				select {
				case bytes := <-logChan:
					r.logStream.Write(bytes)
				case <-done:
					return nil
				}
			}
		})
	}

	tstart := time.Now()
	results := make([]FileResult, len(files))
	var next atomic.Int64

	g := errgroup.Group{}
	for t := 0; t < workers; t++ {
		t := t
		g.Go(func() error {
			for {
				if r.stopping.Load() {
					return nil
				}
				i := int(next.Add(1)) - 1
				if i >= len(files) {
					return nil
				}
				results[i] = r.solveFile(files[i], t, logChan)
			}
		})
	}
	err := g.Wait()
	elapsed := time.Since(tstart)

	if r.logStream != nil {
		close(done)
		writer.Wait()
	}
	if err != nil {
		return nil, err
	}

	sum := summarize(r.strategy.String(), results, elapsed)
	log.Debug().Str("strategy", sum.Strategy).
		Int("solved", sum.Solved).
		Int("unsolvable", sum.Unsolvable).
		Int("errors", sum.Errors).
		Dur("elapsed", elapsed).
		Msg("bench-done")
	return sum, nil
}

func (r *Runner) solveFile(path string, thread int, logChan chan []byte) FileResult {
	entry := LogEntry{File: path, Strategy: r.strategy.String(), Thread: thread}
	fr := FileResult{File: path}

	p, err := puzzle.FromFile(path)
	if err == nil {
		s := &solver.Solver{}
		err = s.Init(p, r.strategy)
		if err == nil {
			if r.maxDepth > 0 {
				s.SetMaxDepth(r.maxDepth)
			}
			if r.memFraction > 0 {
				s.SetMemFraction(r.memFraction)
			}
			r.mu.Lock()
			r.active[thread] = s
			r.mu.Unlock()

			fr.Res, err = s.Solve()

			r.mu.Lock()
			r.active[thread] = nil
			r.mu.Unlock()
		}
	}
	if err != nil {
		fr.Err = err
		entry.Error = err.Error()
	} else {
		entry.Found = fr.Res.Found
		entry.Length = len(fr.Res.Path)
		entry.Path = puzzle.PathString(fr.Res.Path)
		entry.Visited = fr.Res.VisitedStates
		entry.Processed = fr.Res.ProcessedStates
		entry.ElapsedMs = float64(fr.Res.Elapsed.Nanoseconds()) / 1e6
	}

	if r.logStream != nil {
		// marshalled as a single-element sequence so the stream
		// concatenates into one valid YAML list
		out, merr := yaml.Marshal([]LogEntry{entry})
		if merr != nil {
			log.Err(merr).Str("file", path).Msg("marshalling bench log")
		} else {
			logChan <- out
		}
	}
	return fr
}

// A Summary aggregates one batch. Length covers solved files only;
// ElapsedMs and Processed cover every search that ran to completion.
// Skipped counts files never started before an abort.
type Summary struct {
	Strategy   string
	Files      int
	Solved     int
	Unsolvable int
	Errors     int
	Skipped    int

	Length    stats.Statistic
	ElapsedMs stats.Statistic
	Processed stats.Statistic

	Results []FileResult
	Elapsed time.Duration
}

func summarize(strategy string, results []FileResult, elapsed time.Duration) *Summary {
	sum := &Summary{
		Strategy: strategy,
		Files:    len(results),
		Results:  results,
		Elapsed:  elapsed,
	}
	for i := range results {
		switch {
		case results[i].File == "":
			sum.Skipped++
			continue
		case results[i].Err != nil:
			sum.Errors++
			continue
		case results[i].Res.Found:
			sum.Solved++
		default:
			sum.Unsolvable++
		}
		res := results[i].Res
		if res.Found {
			sum.Length.Push(float64(len(res.Path)))
		}
		sum.ElapsedMs.Push(float64(res.Elapsed.Nanoseconds()) / 1e6)
		sum.Processed.Push(float64(res.ProcessedStates))
	}
	return sum
}

// SolvedLengths returns the solution length of every solved file, in
// input order.
func (sum *Summary) SolvedLengths() []float64 {
	solved := lo.Filter(sum.Results, func(fr FileResult, _ int) bool {
		return fr.Err == nil && fr.Res != nil && fr.Res.Found
	})
	return lo.Map(solved, func(fr FileResult, _ int) float64 {
		return float64(len(fr.Res.Path))
	})
}

// LengthHistogram renders a terminal histogram of solution lengths.
// Nothing is written when no file was solved.
func (sum *Summary) LengthHistogram(w io.Writer, bins int) error {
	lengths := sum.SolvedLengths()
	if len(lengths) == 0 {
		return nil
	}
	return histogram.Fprint(w, histogram.Hist(bins, lengths), histogram.Linear(40))
}

// ElapsedHistogram renders a terminal histogram of per-file solve times
// in milliseconds.
func (sum *Summary) ElapsedHistogram(w io.Writer, bins int) error {
	completed := lo.Filter(sum.Results, func(fr FileResult, _ int) bool {
		return fr.Err == nil && fr.Res != nil
	})
	times := lo.Map(completed, func(fr FileResult, _ int) float64 {
		return float64(fr.Res.Elapsed.Nanoseconds()) / 1e6
	})
	if len(times) == 0 {
		return nil
	}
	return histogram.Fprint(w, histogram.Hist(bins, times), histogram.Linear(40))
}

// Report renders the batch summary. Intervals are mean ± z·stderr at the
// given confidence level.
func (sum *Summary) Report(confidence float64) string {
	var ss strings.Builder
	fmt.Fprintf(&ss, "%s: %d files in %v\n", sum.Strategy, sum.Files,
		sum.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&ss, "solved %d, unsolvable %d, errors %d\n",
		sum.Solved, sum.Unsolvable, sum.Errors)
	if sum.Skipped > 0 {
		fmt.Fprintf(&ss, "aborted with %d files not started\n", sum.Skipped)
	}
	if sum.ElapsedMs.Runs() == 0 {
		return ss.String()
	}
	z := stats.ZVal(confidence)
	fmt.Fprintf(&ss, "%-12s%-14s%-14s%-14s%-14s\n", "", "Mean", "Min", "Max", "Interval")
	if sum.Length.Runs() > 0 {
		fmt.Fprintf(&ss, "%-12s%-14.2f%-14.0f%-14.0f±%-14.2f\n", "length",
			sum.Length.Mean(), sum.Length.Min(), sum.Length.Max(),
			z*sum.Length.StandardError())
	}
	fmt.Fprintf(&ss, "%-12s%-14.3f%-14.3f%-14.3f±%-14.3f\n", "elapsed ms",
		sum.ElapsedMs.Mean(), sum.ElapsedMs.Min(), sum.ElapsedMs.Max(),
		z*sum.ElapsedMs.StandardError())
	fmt.Fprintf(&ss, "%-12s%-14.1f%-14.0f%-14.0f±%-14.1f\n", "processed",
		sum.Processed.Mean(), sum.Processed.Min(), sum.Processed.Max(),
		z*sum.Processed.StandardError())
	fmt.Fprintf(&ss, "intervals are %v%% confidence\n", confidence)
	return ss.String()
}
