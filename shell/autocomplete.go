package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-alg", "-maxdepth")
	Args    []string // Possible argument values (for non-option arguments)
}

var configKeys = []string{
	"archive-path", "bench-workers", "confidence", "data-path",
	"debug", "default-order", "max-depth", "mem-fraction",
}

// commandMetadata maps command names to their options and arguments.
// These are extracted from the actual command implementations in api.go.
var commandMetadata = map[string]CommandMetadata{
	"solve": {
		Options: []string{
			"-alg", "-order", "-heuristic", "-maxdepth", "-memfraction",
		},
		Args: []string{"stop", "status"},
	},
	"bench": {
		Options: []string{
			"-alg", "-order", "-heuristic", "-maxdepth", "-memfraction",
			"-workers", "-log", "-histogram",
		},
	},
	"archive": {
		Args: []string{"recent", "best"},
	},
	"set": {
		Args: configKeys,
	},
	"setconfig": {
		Args: configKeys,
	},
	"help": {
		Args: []string{
			"load", "unload", "show", "moves", "solve", "bench",
			"archive", "set", "setconfig", "script",
		},
	},
}

// Common command names for command completion
var commandNames = []string{
	"help", "load", "unload", "show", "s", "moves", "solve", "bench",
	"archive", "set", "setconfig", "script", "exit",
}

// Common values for certain option types
var boolValues = []string{"true", "false"}
var algValues = []string{"bfs", "dfs", "astr"}
var heuristicValues = []string{"hamm", "manh"}
var histogramValues = []string{"length", "time"}

// Do implements the readline.AutoComplete interface
// It provides context-aware autocomplete based on what's been typed
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Get the text up to the cursor position
	text := string(line[:pos])

	// Parse the line using shellquote to handle quoted strings properly
	fields, err := shellquote.Split(text)
	if err != nil {
		// If we can't parse, fall back to simple space splitting
		fields = strings.Fields(text)
	}

	// Check if we're in the middle of typing a word or just after a space
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	// Determine what we're trying to complete
	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		// Completing a command name
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		// We have a command, now complete its arguments/options
		cmdName := fields[0]

		if !endsWithSpace && len(fields) > 0 {
			prefix = fields[len(fields)-1]
		}

		// Get the last complete field to check context
		var lastCompleteField string
		if endsWithSpace && len(fields) > 0 {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		// Check if the last field was an option that expects specific values
		if lastCompleteField != "" && strings.HasPrefix(lastCompleteField, "-") {
			optName := strings.TrimPrefix(lastCompleteField, "-")

			// Provide context-specific completions based on option name
			switch optName {
			case "alg":
				completions = algValues
			case "heuristic":
				completions = heuristicValues
			case "histogram":
				completions = histogramValues
			case "log":
				completions = boolValues
			}
		}

		// If we haven't determined completions yet, show command options/args
		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				// If we're typing something that starts with -, show options
				if strings.HasPrefix(prefix, "-") {
					completions = metadata.Options
				} else {
					// Show args if available, otherwise show options
					if len(metadata.Args) > 0 {
						completions = metadata.Args
					} else {
						completions = metadata.Options
					}
				}
			}
		}
	}

	// Filter completions based on prefix
	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}

	return matches, len(prefix)
}
