// Package shell implements the interactive taquin console.
package shell

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/pzielasko/taquin/archive"
	"github.com/pzielasko/taquin/config"
	"github.com/pzielasko/taquin/puzzle"
	"github.com/pzielasko/taquin/solver"
)

const BenchLog = "/tmp/taquinbench"

var (
	errNoData            = errors.New("no data in command")
	errWrongOptionSyntax = errors.New("wrong option syntax")
	errSolverBusy        = errors.New("a solve is already running; do a `solve stop` first")
	errNoPuzzle          = errors.New("please load a puzzle first with the `load` command")
)

type ShellController struct {
	l        *readline.Instance
	config   *config.Config
	execPath string

	gitVersion string

	puzzle     *puzzle.Puzzle
	puzzleFile string

	solver      *solver.Solver
	curStrategy solver.Strategy

	solveTicker     *time.Ticker
	solveTickerDone chan bool

	archive *archive.Archive
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	// handle options after the first value; every -option takes a value
	lastWasOption := false
	lastOption := ""
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			lastWasOption = true
			lastOption = fields[idx][1:]
			continue
		}
		if lastWasOption {
			options[lastOption] = append(options[lastOption], fields[idx])
			lastWasOption = false
		} else {
			args = append(args, fields[idx])
		}
	}
	if lastWasOption {
		return nil, errWrongOptionSyntax
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := &ShellController{config: cfg, execPath: execPath, gitVersion: gitVersion}

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mtaquin>\033[0m ",
		HistoryFile:     filepath.Join(os.TempDir(), "readline-taquin.tmp"),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
		AutoComplete:        NewShellCompleter(sc),
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	// headless controllers carry no readline instance
	if sc.l == nil {
		showMessage(msg, os.Stderr)
		return
	}
	showMessage(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) solving() bool {
	return sc.solver != nil && sc.solver.IsSolving()
}

// openArchive opens the solve archive on first use. A missing or broken
// archive only disables recording, never a solve.
func (sc *ShellController) openArchive() *archive.Archive {
	if sc.archive != nil {
		return sc.archive
	}
	path := sc.config.GetString("archive-path")
	if path == "" {
		return nil
	}
	a, err := archive.Open(path)
	if err != nil {
		log.Err(err).Str("archive-path", path).Msg("opening archive")
		return nil
	}
	sc.archive = a
	return a
}

func (sc *ShellController) executeCommand(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "load":
		return sc.load(cmd)
	case "unload":
		return sc.unload(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "moves":
		return sc.moves(cmd)
	case "solve":
		return sc.solve(cmd)
	case "bench":
		return sc.bench(cmd)
	case "archive":
		return sc.archiveCmd(cmd)
	case "set":
		return sc.set(cmd)
	case "setconfig":
		return sc.setConfig(cmd)
	case "script":
		return sc.script(cmd)
	case "help":
		return sc.help(cmd)
	}
	return nil, errors.New("command " + strconv.Quote(cmd.cmd) + " not found")
}

func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	cmd, err := extractFields(line)
	if err != nil {
		sc.showError(err)
		return
	}
	switch cmd.cmd {
	case "exit", "quit", "bye":
		sig <- syscall.SIGINT
	default:
		resp, err := sc.executeCommand(cmd)
		if err != nil {
			sc.showError(err)
			return
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {

		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			// a Ctrl-C aborts a running solve before it quits the shell
			if sc.solving() {
				sc.solver.Abort()
				sc.showMessage("aborting solve...")
				continue
			}
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sc.Execute(sig, line)

	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup closes long-lived resources before process exit.
func (sc *ShellController) Cleanup() {
	if sc.solving() {
		sc.solver.Abort()
	}
	if sc.archive != nil {
		sc.archive.Close()
	}
}
