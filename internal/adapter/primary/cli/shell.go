package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"cron-editor/internal/domain"
	"cron-editor/internal/logging"
	"cron-editor/internal/usecase"
)

func newShellCmd() *cobra.Command {
	var (
		prompt string
		key    string
	)
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Edit an expression field by field in an interactive shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := newFileUseCase()
			if err != nil {
				return err
			}
			session := &shellSession{
				uc:        uc,
				key:       key,
				out:       cmd.OutOrStdout(),
				renderer:  NewTerminalRenderer(appCfg.HighlightColor),
				verbosity: logging.Verbosity(),
			}
			return session.run(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "cron> ", "shell prompt")
	cmd.Flags().StringVar(&key, "key", "default", "editor key to bind to")
	return cmd
}

// shellSession binds one editor instance to a line-oriented terminal.
type shellSession struct {
	uc        usecase.EditorUseCase
	key       string
	out       io.Writer
	renderer  domain.Renderer
	verbosity int
}

func (s *shellSession) run(prompt string) error {
	snap, err := s.uc.Open(s.key)
	if err != nil {
		return err
	}

	historyFile := filepath.Join(os.TempDir(), "cron-editor-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintf(s.out, "Editing %q. Type 'help' for commands, 'exit' to quit.\n", s.key)
	s.print(snap)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Fprintln(s.out)
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(s.out)
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(s.out, "Parse error: %v\n", err)
			continue
		}
		quit, err := s.handle(tokens)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// handle executes one tokenized shell line and reports whether to quit.
func (s *shellSession) handle(tokens []string) (bool, error) {
	if len(tokens) == 0 {
		return false, nil
	}
	switch tokens[0] {
	case "exit", "quit":
		fmt.Fprintln(s.out, "Bye!")
		return true, nil
	case "help":
		printShellHelp(s.out)
		return false, nil
	case "set":
		if len(tokens) < 2 {
			return false, fmt.Errorf("usage: set <field> [value]")
		}
		index, err := parseField(tokens[1])
		if err != nil {
			return false, err
		}
		snap, err := s.uc.SetField(s.key, index, strings.Join(tokens[2:], " "))
		if err != nil {
			return false, err
		}
		s.print(snap)
	case "expr":
		values, err := domain.ParseExpression(strings.Join(tokens[1:], " "))
		if err != nil {
			return false, err
		}
		var snap usecase.Snapshot
		for i, v := range values {
			if snap, err = s.uc.SetField(s.key, i, v); err != nil {
				return false, err
			}
		}
		s.print(snap)
	case "focus":
		if len(tokens) != 2 {
			return false, fmt.Errorf("usage: focus <field>")
		}
		index, err := parseField(tokens[1])
		if err != nil {
			return false, err
		}
		snap, err := s.uc.Focus(s.key, index)
		if err != nil {
			return false, err
		}
		s.print(snap)
	case "blur":
		snap, err := s.uc.Blur(s.key)
		if err != nil {
			return false, err
		}
		s.print(snap)
	case "show":
		snap, err := s.uc.Snapshot(s.key)
		if err != nil {
			return false, err
		}
		s.print(snap)
	case "next":
		count := 5
		if len(tokens) > 1 {
			n, err := strconv.Atoi(tokens[1])
			if err != nil {
				return false, fmt.Errorf("next: count must be a number")
			}
			count = n
		}
		runs, err := s.uc.NextRuns(s.key, count)
		if err != nil {
			return false, err
		}
		for _, t := range runs {
			fmt.Fprintln(s.out, t.Format(time.RFC3339))
		}
	case "log":
		return false, s.handleLog(tokens[1:])
	case "shell":
		fmt.Fprintln(s.out, "Already in the shell. Enter another command or 'exit' to quit.")
	default:
		verbosity = s.verbosity
		if err := executeArgs(s.out, tokens); err != nil {
			return false, err
		}
		s.verbosity = verbosity
	}
	return false, nil
}

func (s *shellSession) print(snap usecase.Snapshot) {
	fmt.Fprintln(s.out, snap.Render(s.renderer))
	var marks []string
	for i, f := range snap.Fields {
		mark := f.Raw
		if !f.Valid {
			mark = "!" + mark
		}
		if i == snap.Highlight {
			mark = ">" + mark
		}
		marks = append(marks, mark)
	}
	fmt.Fprintf(s.out, "  value: %s   fields: %s\n", snap.Value, strings.Join(marks, " "))
}

// parseField accepts an index 0-4 or a field name such as "hour" or "dow".
func parseField(token string) (int, error) {
	if n, err := strconv.Atoi(token); err == nil {
		if n < 0 || n >= domain.FieldCount {
			return 0, fmt.Errorf("%w: %d", domain.ErrFieldIndex, n)
		}
		return n, nil
	}
	switch strings.ToLower(token) {
	case "minute", "min", "m":
		return int(domain.KindMinute), nil
	case "hour", "h":
		return int(domain.KindHour), nil
	case "day-of-month", "dom", "day":
		return int(domain.KindDayOfMonth), nil
	case "month", "mon":
		return int(domain.KindMonth), nil
	case "day-of-week", "dow", "weekday":
		return int(domain.KindDayOfWeek), nil
	}
	return 0, fmt.Errorf("unknown field %q", token)
}

// executeArgs runs a regular command from inside the shell. The config and
// env file of the outer invocation carry over; NewRootCmd resets both flags.
func executeArgs(out io.Writer, args []string) error {
	if len(args) == 0 {
		return nil
	}
	outer := []string{"--config", cfgPath, "--env-file", envFile}
	root := NewRootCmd()
	root.SetOut(out)
	root.SetArgs(append(outer, args...))
	return root.Execute()
}

func (s *shellSession) handleLog(args []string) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "level (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Fprintf(s.out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		s.verbosity = count
	case vcount > 0:
		s.verbosity = vcount
	default:
		fmt.Fprintf(s.out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	verbosity = s.verbosity
	logging.SetVerbosity(s.verbosity)
	fmt.Fprintf(s.out, "log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp(w io.Writer) {
	fmt.Fprintln(w, `Commands:
  set <field> <value>     # set one field; field is 0-4 or minute|hour|dom|month|dow
  expr 0 9 * * 1-5        # replace the whole expression
  focus <field>           # highlight the field in the summary
  blur                    # clear the highlight
  show                    # print the summary and value
  next [n]                # list upcoming run times
  describe "*/5 * * * *"  # any cron-editor subcommand
  log -vv                 # increase logging
  log --show              # print the current log level
  exit / quit             # leave the shell`)
}
