package cli

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"focustimer/internal/logging"
)

func (app *App) newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Run focusctl commands interactively against one open backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.inShell {
				app.printf("already in the shell\n")
				return nil
			}
			return app.runShell(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "focus> ", "prompt string")
	return cmd
}

func (app *App) runShell(prompt string) error {
	historyFile := app.historyFile
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), "focusctl-shell.history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          app.out,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	app.inShell = true
	defer func() { app.inShell = false }()
	app.printf("focusctl shell: 'help' for commands, 'exit' to leave\n")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			app.printf("\n")
			return nil
		}
		if err != nil {
			return err
		}
		if !app.handleShellLine(line) {
			return nil
		}
	}
}

// handleShellLine runs one shell input line and reports whether the shell
// should keep going.
func (app *App) handleShellLine(line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return true
	case "exit", "quit":
		return false
	case "help":
		app.printShellHelp()
		return true
	}

	tokens, err := shlex.Split(line)
	if err != nil {
		app.printf("parse error: %v\n", err)
		return true
	}
	if len(tokens) == 0 {
		return true
	}
	if tokens[0] == "log" {
		if err := app.handleShellLog(tokens[1:]); err != nil {
			app.printf("log: %v\n", err)
		}
		return true
	}

	if err := app.Execute(tokens); err != nil {
		app.printf("error: %v\n", err)
	}
	return true
}

// handleShellLog changes the level for the rest of the session.
func (app *App) handleShellLog(args []string) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		count int
		level string
		show  bool
	)
	fs.CountVarP(&count, "verbose", "v", "increase verbosity (-v, up to 4 times)")
	fs.StringVar(&level, "level", "", "error, warn, info, debug or trace")
	fs.BoolVarP(&show, "show", "s", false, "print the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case level != "":
		if err := logging.SetLevel(level); err != nil {
			return err
		}
	case count > 0:
		logging.SetVerbosity(count)
	default:
		app.printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}
	app.cfg.LogLevel = logging.LevelName()
	app.printf("log level set to %s\n", logging.LevelName())
	return nil
}

func (app *App) printShellHelp() {
	app.printf(`examples:
  config get                       # durations, count and backend
  config set --work 50m --short 10m
  config dump                      # every stored key
  count / count reset
  tasks add Prepare report
  tasks list --open
  tasks done <id> / tasks due <id> 2026-05-01 / tasks rm <id>
  run --intervals 1                # count down one interval here
  log -vv / log --level debug      # change logging for this session
  exit / quit
`)
}
