package shell

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pzielasko/taquin/archive"
	"github.com/pzielasko/taquin/bench"
	"github.com/pzielasko/taquin/puzzle"
	"github.com/pzielasko/taquin/solver"
)

const defaultSolveAlg = "astr"

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) FloatDefault(key string, defaultF float64) (float64, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultF, nil
	}
	return strconv.ParseFloat(v[0], 64)
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for load")
	}
	if sc.solving() {
		return nil, errSolverBusy
	}

	path := cmd.args[0]
	var p *puzzle.Puzzle
	var err error
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		resp, herr := http.Get(path)
		if herr != nil {
			return nil, herr
		}
		defer resp.Body.Close()
		p, err = puzzle.Parse(resp.Body)
	} else {
		p, err = puzzle.FromFile(path)
		if err != nil && errors.Is(err, puzzle.ErrNotFound) && !filepath.IsAbs(path) {
			// fall back to the configured puzzle directory
			p, err = puzzle.FromFile(filepath.Join(sc.config.GetString("data-path"), path))
		}
	}
	if err != nil {
		return nil, err
	}
	sc.puzzle = p
	sc.puzzleFile = path
	sc.solver = nil
	log.Debug().Str("file", path).Int("width", p.Width()).Int("height", p.Height()).
		Msg("loaded puzzle")
	return msg(p.String()), nil
}

func (sc *ShellController) unload(cmd *shellcmd) (*Response, error) {
	if sc.solving() {
		return nil, errSolverBusy
	}
	sc.puzzle = nil
	sc.puzzleFile = ""
	sc.solver = nil
	return msg("puzzle unloaded"), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.puzzle == nil {
		return nil, errNoPuzzle
	}
	p := sc.puzzle
	var ss strings.Builder
	ss.WriteString(p.String())
	fmt.Fprintf(&ss, "size %dx%d", p.Width(), p.Height())
	if sc.puzzleFile != "" {
		fmt.Fprintf(&ss, ", from %s", sc.puzzleFile)
	}
	ss.WriteByte('\n')
	if p.IsSolved() {
		ss.WriteString("already solved\n")
	} else {
		fmt.Fprintf(&ss, "hamming %d, manhattan %d\n", p.Hamming(), p.Manhattan())
	}
	return msg(ss.String()), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	if sc.puzzle == nil {
		return nil, errNoPuzzle
	}
	if cmd.args == nil {
		return nil, errors.New("need a move sequence, e.g. `moves RRD`")
	}
	if sc.solving() {
		return nil, errSolverBusy
	}
	seq, err := puzzle.ParsePath(strings.Join(cmd.args, ""))
	if err != nil {
		return nil, err
	}
	cur := sc.puzzle
	for i, dir := range seq {
		next, ok := cur.Move(dir)
		if !ok {
			return nil, fmt.Errorf("move %d (%v) would take the blank off the grid", i+1, dir)
		}
		cur = next
	}
	sc.puzzle = cur
	var ss strings.Builder
	ss.WriteString(cur.String())
	if cur.IsSolved() {
		ss.WriteString("solved!\n")
	}
	return msg(ss.String()), nil
}

// solveParams resolves strategy options against config defaults.
func (sc *ShellController) solveParams(cmd *shellcmd) (solver.Strategy, int, float64, error) {
	alg := cmd.options.String("alg")
	if alg == "" {
		alg = defaultSolveAlg
	}
	var arg string
	switch alg {
	case "bfs", "dfs":
		arg = cmd.options.String("order")
		if arg == "" {
			arg = sc.config.GetString("default-order")
		}
	default:
		arg = cmd.options.String("heuristic")
		if arg == "" {
			arg = "manh"
		}
	}
	strat, err := solver.ParseStrategy(alg, arg)
	if err != nil {
		return solver.Strategy{}, 0, 0, err
	}
	maxDepth, err := cmd.options.IntDefault("maxdepth", sc.config.GetInt("max-depth"))
	if err != nil {
		return solver.Strategy{}, 0, 0, err
	}
	memFraction, err := cmd.options.FloatDefault("memfraction", sc.config.GetFloat64("mem-fraction"))
	if err != nil {
		return solver.Strategy{}, 0, 0, err
	}
	return strat, maxDepth, memFraction, nil
}

// solvePrepare parses options and initializes the solver. The solver is
// kept on the controller so `solve stop` and `solve status` can reach it.
func (sc *ShellController) solvePrepare(cmd *shellcmd) (*solver.Solver, solver.Strategy, error) {
	if sc.puzzle == nil {
		return nil, solver.Strategy{}, errNoPuzzle
	}
	if sc.solving() {
		return nil, solver.Strategy{}, errSolverBusy
	}
	strat, maxDepth, memFraction, err := sc.solveParams(cmd)
	if err != nil {
		return nil, solver.Strategy{}, err
	}
	s := &solver.Solver{}
	if err := s.Init(sc.puzzle, strat); err != nil {
		return nil, solver.Strategy{}, err
	}
	if maxDepth > 0 {
		s.SetMaxDepth(maxDepth)
	} else {
		maxDepth = solver.DefaultMaxDepth
	}
	if memFraction > 0 {
		s.SetMemFraction(memFraction)
	}
	sc.solver = s
	sc.curStrategy = strat

	note := fmt.Sprintf("solving with strategy %v", strat)
	if strat.Alg == solver.DFS {
		note += fmt.Sprintf(", depth bound %d", maxDepth)
	}
	sc.showMessage(note)
	return s, strat, nil
}

func (sc *ShellController) solveRunSync(s *solver.Solver, strat solver.Strategy, p *puzzle.Puzzle) (string, error) {
	res, err := s.Solve()
	if err != nil {
		return "", err
	}
	sc.recordSolve(p, strat, res)
	return solveReport(strat, res), nil
}

func solveReport(strat solver.Strategy, res *solver.Result) string {
	var ss strings.Builder
	switch {
	case res.Found && len(res.Path) == 0:
		ss.WriteString("already solved\n")
	case res.Found:
		fmt.Fprintf(&ss, "solution in %d moves: %s\n", len(res.Path), puzzle.PathString(res.Path))
	case strat.Alg == solver.DFS:
		ss.WriteString("no solution within the depth bound\n")
	default:
		ss.WriteString("no solution exists\n")
	}
	fmt.Fprintf(&ss, "visited %d states, processed %d, deepest %d, in %v\n",
		res.VisitedStates, res.ProcessedStates, res.MaxDepth,
		res.Elapsed.Round(time.Microsecond))
	return ss.String()
}

func (sc *ShellController) recordSolve(p *puzzle.Puzzle, strat solver.Strategy, res *solver.Result) {
	a := sc.openArchive()
	if a == nil {
		return
	}
	if err := a.Record(p, strat, res); err != nil {
		log.Err(err).Msg("recording solve")
	}
}

// solve runs asynchronously so the prompt stays responsive; a Ctrl-C or
// `solve stop` aborts it.
func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		switch cmd.args[0] {
		case "stop":
			if !sc.solving() {
				return nil, errors.New("no running solve to stop")
			}
			sc.solver.Abort()
			return msg(""), nil
		case "status":
			if sc.solver == nil {
				return nil, errors.New("no solve has been started yet")
			}
			return msg(fmt.Sprintf("%v: processed %d states",
				sc.curStrategy, sc.solver.ProcessedStates())), nil
		}
		return nil, fmt.Errorf("do not understand solve argument %v", cmd.args[0])
	}

	s, strat, err := sc.solvePrepare(cmd)
	if err != nil {
		return nil, err
	}
	sc.startSolve(s, strat, sc.puzzle)
	return msg(""), nil
}

// solveSync runs a solve to completion and returns the result. This is
// the preferred method for scripts.
func (sc *ShellController) solveSync(cmd *shellcmd) (*Response, error) {
	s, strat, err := sc.solvePrepare(cmd)
	if err != nil {
		return nil, err
	}
	result, err := sc.solveRunSync(s, strat, sc.puzzle)
	if err != nil {
		return nil, err
	}
	return msg(result), nil
}

func (sc *ShellController) startSolve(s *solver.Solver, strat solver.Strategy, p *puzzle.Puzzle) {
	sc.solveTicker = time.NewTicker(10 * time.Second)
	sc.solveTickerDone = make(chan bool)

	go func() {
		result, err := sc.solveRunSync(s, strat, p)
		if err != nil {
			sc.showError(err)
		} else {
			sc.showMessage(result)
		}
		sc.solveTicker.Stop()
		sc.solveTickerDone <- true
		log.Debug().Msg("solve thread exiting...")
	}()

	go func() {
		for {
			select {
			case <-sc.solveTickerDone:
				log.Debug().Msg("ticker thread exiting...")
				return
			case <-sc.solveTicker.C:
				log.Info().Msgf("Solver has processed %v states...", s.ProcessedStates())
			}
		}
	}()
}

func (sc *ShellController) bench(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need at least one puzzle file or glob for bench")
	}
	if sc.solving() {
		return nil, errSolverBusy
	}

	var files []string
	for _, arg := range cmd.args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, err
		}
		if matches == nil && !filepath.IsAbs(arg) {
			matches, err = filepath.Glob(filepath.Join(sc.config.GetString("data-path"), arg))
			if err != nil {
				return nil, err
			}
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, errors.New("no puzzle files matched")
	}

	strat, maxDepth, memFraction, err := sc.solveParams(cmd)
	if err != nil {
		return nil, err
	}
	workers, err := cmd.options.IntDefault("workers", sc.config.GetInt("bench-workers"))
	if err != nil {
		return nil, err
	}

	runner := bench.NewRunner(strat)
	runner.SetMaxDepth(maxDepth)
	runner.SetMemFraction(memFraction)
	runner.SetWorkers(workers)

	var logFile *os.File
	if cmd.options.Bool("log") {
		logFile, err = os.Create(BenchLog)
		if err != nil {
			return nil, err
		}
		runner.SetLogStream(logFile)
		sc.showMessage("bench will log to " + BenchLog)
	}

	sum, err := runner.Run(files)
	if logFile != nil {
		if cerr := logFile.Close(); cerr != nil {
			log.Err(cerr).Msg("closing bench log")
		}
	}
	if err != nil {
		return nil, err
	}

	var ss strings.Builder
	ss.WriteString(sum.Report(sc.config.GetFloat64("confidence")))
	switch cmd.options.String("histogram") {
	case "length":
		if err := sum.LengthHistogram(&ss, 10); err != nil {
			return nil, err
		}
	case "time":
		if err := sum.ElapsedHistogram(&ss, 10); err != nil {
			return nil, err
		}
	}
	return msg(ss.String()), nil
}

func (sc *ShellController) archiveCmd(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("usage: archive <recent|best>")
	}
	a := sc.openArchive()
	if a == nil {
		return nil, errors.New("no archive is configured; set archive-path first")
	}
	switch cmd.args[0] {
	case "recent":
		limit := 10
		if len(cmd.args) > 1 {
			var err error
			limit, err = strconv.Atoi(cmd.args[1])
			if err != nil {
				return nil, err
			}
		}
		entries, err := a.Recent(limit)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return msg("archive is empty"), nil
		}
		return msg(archiveTable(entries)), nil
	case "best":
		if sc.puzzle == nil {
			return nil, errNoPuzzle
		}
		e, err := a.Best(sc.puzzle)
		if errors.Is(err, archive.ErrNotFound) {
			return nil, errors.New("no archived solution for this puzzle")
		}
		if err != nil {
			return nil, err
		}
		return msg(fmt.Sprintf("best archived solve: %s in %d moves: %s",
			e.Strategy, len(e.Path), e.Path)), nil
	}
	return nil, fmt.Errorf("do not understand archive argument %v", cmd.args[0])
}

func archiveTable(entries []archive.Entry) string {
	var ss strings.Builder
	fmt.Fprintf(&ss, "%-18s%-8s%-12s%-7s%-8s%s\n",
		"Grid", "Size", "Strategy", "Found", "Moves", "When")
	for _, e := range entries {
		found := "no"
		if e.Found {
			found = "yes"
		}
		fmt.Fprintf(&ss, "%-18s%-8s%-12s%-7s%-8d%s\n",
			e.GridKey, fmt.Sprintf("%dx%d", e.Width, e.Height), e.Strategy,
			found, len(e.Path), e.CreatedAt.Format("2006-01-02 15:04"))
	}
	return ss.String()
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg(settingsDisplay(sc.config.SanitizedSettings())), nil
	}
	opt := cmd.args[0]
	if len(cmd.args) == 1 {
		settings := sc.config.SanitizedSettings()
		val, ok := settings[opt]
		if !ok {
			return nil, fmt.Errorf("unknown setting %q", opt)
		}
		return msg(fmt.Sprintf("%v", val)), nil
	}
	value := strings.Join(cmd.args[1:], " ")
	if err := sc.config.Set(opt, value); err != nil {
		return nil, err
	}
	return msg("set " + opt + " to " + value), nil
}

func (sc *ShellController) setConfig(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil || len(cmd.args) < 2 {
		return nil, errors.New("usage: setconfig <key> <value>")
	}

	key := cmd.args[0]
	value := cmd.args[1]

	if err := sc.config.Set(key, value); err != nil {
		return nil, err
	}
	if err := sc.config.Write(); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return msg(fmt.Sprintf("set config %s to %s and saved to file", key, value)), nil
}

func settingsDisplay(settings map[string]any) string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var ss strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&ss, "%-16s %v\n", k, settings[k])
	}
	return ss.String()
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return usage("standard")
	}
	return usageTopic(cmd.args[0])
}
