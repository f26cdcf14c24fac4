package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cron-editor/internal/adapter/primary/web"
	"cron-editor/internal/adapter/secondary/repository"
	"cron-editor/internal/adapter/secondary/schedule"
	"cron-editor/internal/config"
	"cron-editor/internal/core"
	"cron-editor/internal/domain"
	"cron-editor/internal/logging"
	"cron-editor/internal/usecase"
)

var (
	cfgPath   string
	envFile   string
	verbosity int
	appCfg    = config.DefaultConfig()
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cron-editor",
		Short:         "Validate, describe and edit 5-field cron expressions",
		Long:          "Cron expression editor: grammar validation, English summaries, next-run previews, an interactive shell and a web widget.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "path to the config file")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with CRON_EDITOR_* overrides")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase logging (-v, -vv, ... up to 4)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath, envFile)
		if err != nil {
			return err
		}
		appCfg = cfg
		if verbosity > 0 {
			logging.SetVerbosity(verbosity)
		} else {
			_, count, _ := logging.ParseLevel(cfg.LogLevel)
			logging.SetVerbosity(count)
		}
		return nil
	}

	cmd.AddCommand(
		newDescribeCmd(),
		newValidateCmd(),
		newNextCmd(),
		newGetCmd(),
		newSetCmd(),
		newServeCmd(),
		newShellCmd(),
		newConfigCmd(),
	)

	return cmd
}

func joinExpr(args []string) string {
	return strings.Join(args, " ")
}

type fieldOutput struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	Valid bool   `json:"valid" yaml:"valid"`
}

type describeOutput struct {
	Expression string        `json:"expression" yaml:"expression"`
	Valid      bool          `json:"valid" yaml:"valid"`
	Summary    string        `json:"summary,omitempty" yaml:"summary,omitempty"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	Fields     []fieldOutput `json:"fields" yaml:"fields"`
}

func newDescribeCmd() *cobra.Command {
	var (
		output    string
		highlight int
		markers   bool
	)
	cmd := &cobra.Command{
		Use:   "describe <expression>",
		Short: "Print the English summary of an expression",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := joinExpr(args)
			if _, err := domain.ParseExpression(expr); err != nil {
				return err
			}
			engine, _ := core.NewEngine(expr)
			if cmd.Flags().Changed("highlight") {
				if _, err := engine.FocusField(highlight); err != nil {
					return err
				}
			}
			state := engine.State()
			out := cmd.OutOrStdout()

			switch output {
			case "text":
				var r domain.Renderer = NewTerminalRenderer(appCfg.HighlightColor)
				if markers {
					r = domain.NewMarkerRenderer()
				}
				fmt.Fprintln(out, engine.Render(r))
			case "json", "yaml":
				if err := writeStructured(out, output, describe(state)); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown output format %q (want text, json or yaml)", output)
			}

			if !state.Valid {
				return fmt.Errorf("%w: %q", domain.ErrInvalidExpression, state.Value)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	cmd.Flags().IntVar(&highlight, "highlight", domain.NoHighlight, "field index (0-4) to emphasize")
	cmd.Flags().BoolVar(&markers, "markers", false, "emphasize with [ ] instead of terminal styles")
	return cmd
}

func describe(state core.State) describeOutput {
	d := describeOutput{
		Expression: state.Value,
		Valid:      state.Valid,
		Fields:     make([]fieldOutput, 0, domain.FieldCount),
	}
	for i, f := range state.Fields {
		d.Fields = append(d.Fields, fieldOutput{Name: domain.Kind(i).String(), Value: f.Raw, Valid: f.Valid})
	}
	if state.Valid {
		d.Summary = state.Summary.String()
	} else {
		d.Error = domain.InvalidExpressionMessage
	}
	return d
}

func writeStructured(w io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <expression>",
		Short: "Check an expression against the field grammar",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := joinExpr(args)
			out := cmd.OutOrStdout()
			if domain.ValidateExpression(expr) {
				fmt.Fprintln(out, "valid")
				return nil
			}

			var bad []string
			fields := domain.DefaultGrammar().Evaluate(domain.SplitExpression(expr))
			for i, f := range fields {
				if !f.Valid {
					bad = append(bad, fmt.Sprintf("%s=%q", domain.Kind(i), f.Raw))
				}
			}
			if n := len(strings.Fields(expr)); n != domain.FieldCount {
				bad = append(bad, fmt.Sprintf("expected %d fields, got %d", domain.FieldCount, n))
			}
			fmt.Fprintf(out, "invalid: %s\n", strings.Join(bad, ", "))
			return fmt.Errorf("%w: %q", domain.ErrInvalidExpression, expr)
		},
	}
}

func newNextCmd() *cobra.Command {
	var (
		count int
		utc   bool
	)
	cmd := &cobra.Command{
		Use:   "next <expression>",
		Short: "List upcoming run times",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := time.Local
			if utc {
				loc = time.UTC
			}
			expr := joinExpr(args)
			if !domain.ValidateExpression(expr) {
				return fmt.Errorf("%w: %q", domain.ErrInvalidExpression, expr)
			}
			runs, err := schedule.NewCronPreviewer(loc).Next(expr, time.Now(), count)
			if err != nil {
				return err
			}
			for _, t := range runs {
				fmt.Fprintln(cmd.OutOrStdout(), t.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of run times")
	cmd.Flags().BoolVar(&utc, "utc", false, "print times in UTC")
	return cmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the stored expression and summary of an editor key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := newFileUseCase()
			if err != nil {
				return err
			}
			snap, err := uc.Open(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), snap.Value)
			fmt.Fprintln(cmd.OutOrStdout(), snap.Render(NewTerminalRenderer(appCfg.HighlightColor)))
			return nil
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <expression>",
		Short: "Store an expression under an editor key",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := newFileUseCase()
			if err != nil {
				return err
			}
			key := args[0]
			values, err := domain.ParseExpression(joinExpr(args[1:]))
			if err != nil {
				return err
			}
			if _, err := uc.Open(key); err != nil {
				return err
			}

			var snap usecase.Snapshot
			for i, v := range values {
				if snap, err = uc.SetField(key, i, v); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s: %s\n", key, snap.Value)
			fmt.Fprintln(cmd.OutOrStdout(), snap.Render(NewTerminalRenderer(appCfg.HighlightColor)))
			if !snap.Valid {
				logging.Warnf("stored invalid expression for %s", key)
			}
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web editor and REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := newFileUseCase()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = appCfg.Addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			srv := web.NewServer(uc, addr)
			fmt.Fprintf(cmd.OutOrStdout(), "Cron editor running at http://%s\n", addr)
			logging.Infof("web UI: http://%s (store %s)", addr, appCfg.StorePath)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "HTTP listen address host:port")
	return cmd
}

func newFileUseCase() (usecase.EditorUseCase, error) {
	repo, err := repository.NewFileRepository(appCfg.StorePath)
	if err != nil {
		return nil, err
	}
	return usecase.NewEditorUseCase(repo, schedule.NewCronPreviewer(time.Local))
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update the configuration file",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeStructured(cmd.OutOrStdout(), output, appCfg)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

func newConfigSetCmd() *cobra.Command {
	var (
		addr      string
		storePath string
		logLevel  string
		color     string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update values in the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewFileStore(cfgPath)
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("store") {
				cfg.StorePath = storePath
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("highlight-color") {
				cfg.HighlightColor = color
			}
			if cfg, err = config.Normalize(cfg); err != nil {
				return err
			}
			if err := store.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s: addr=%s store=%s logLevel=%s\n",
				cfgPath, cfg.Addr, cfg.StorePath, cfg.LogLevel)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address host:port")
	cmd.Flags().StringVar(&storePath, "store", "", "path of the value store")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "error|warn|info|debug|trace")
	cmd.Flags().StringVar(&color, "highlight-color", "", "terminal color of the highlighted fragment")
	return cmd
}
