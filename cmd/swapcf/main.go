package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/meenmo/swapleg/cmd/swapcf/internal/trade"
	"github.com/meenmo/swapleg/logger"
	"github.com/meenmo/swapleg/swap"
	"github.com/meenmo/swapleg/swap/config"
	"github.com/meenmo/swapleg/swap/market"
	"github.com/meenmo/swapleg/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg      config.Config
	log      zerolog.Logger
	valuer   *swap.Valuer
	registry *market.Registry
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return newApp(stdin, stdout, stderr).execute(args)
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr}
}

func (a *app) execute(args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := root.Execute(); err != nil {
		a.log.Error().Err(err).Msg("swapcf failed")
		writeError(a.stdout, err.Error())
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "swapcf",
		Short: "Interest rate swap cashflow generation and valuation",
		Long: `swapcf reads a trade file (YAML or JSON) describing swap legs, curves and
holidays, and prints the generated schedule, the valued cashflows or the
per-party present and future values as JSON.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().String("config", "", "config file path (YAML, JSON or TOML)")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().Bool("pretty", false, "human readable logs on stderr")

	root.AddCommand(a.scheduleCmd(), a.cashflowsCmd(), a.valueCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	// A missing .env is fine.
	_ = godotenv.Load()

	var err error
	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		a.cfg, err = config.LoadFromFile(configFile)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		a.cfg.Log.Level = lvl
	}
	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
		a.cfg.Log.Pretty = true
	}

	a.log = logger.New(logger.Config{Level: a.cfg.Log.Level, Pretty: a.cfg.Log.Pretty, Out: a.stderr})
	logger.SetGlobalLogger(a.log)
	a.valuer = swap.NewValuer(a.cfg, a.log)
	a.registry = market.NewRegistry(a.log)
	a.log.Debug().
		Str("past_cashflows", string(a.cfg.PastCashflows)).
		Int("workers", a.cfg.Workers).
		Str("command", cmd.Name()).
		Msg("configured")
	return nil
}

func addInputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "trade file path (reads stdin when empty)")
}

func (a *app) load(cmd *cobra.Command) (*trade.Input, *trade.Trade, error) {
	path, _ := cmd.Flags().GetString("input")
	raw, err := readInput(strings.TrimSpace(path), a.stdin)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read input: %w", err)
	}
	in, err := trade.Parse(raw)
	if err != nil {
		return nil, nil, err
	}
	tr, err := in.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build swap: %w", err)
	}
	a.log.Debug().Str("swap", tr.Swap.ID).Int("legs", len(tr.Swap.Streams)).Msg("trade loaded")
	return in, tr, nil
}

// value registers the trade's market environment for the duration of the
// valuation and resolves the curves through the registry.
func (a *app) value(tr *trade.Trade) error {
	if err := a.registry.Add(tr.Environment); err != nil {
		return fmt.Errorf("failed to register market environment: %w", err)
	}
	id := tr.Environment.ID()
	defer a.registry.Remove(id)

	env, err := a.registry.Get(id)
	if err != nil {
		return err
	}
	return a.valuer.ValueSwap(tr.Swap, env, tr.ValuationDate)
}

func (a *app) scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the generated payment and calculation periods of each leg",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, tr, err := a.load(cmd)
			if err != nil {
				return err
			}
			return writeJSON(a.stdout, trade.Output{
				TaskID: in.TaskID,
				Legs:   trade.Legs(tr.Swap, false),
			})
		},
	}
	addInputFlag(cmd)
	return cmd
}

func (a *app) cashflowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cashflows",
		Short: "Print the valued cashflows of each leg",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, tr, err := a.load(cmd)
			if err != nil {
				return err
			}
			if err := a.value(tr); err != nil {
				return err
			}
			return writeJSON(a.stdout, trade.Output{
				TaskID:        in.TaskID,
				ValuationDate: tr.ValuationDate.Format(utils.DateLayout),
				Legs:          trade.Legs(tr.Swap, true),
			})
		},
	}
	addInputFlag(cmd)
	return cmd
}

func (a *app) valueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "value",
		Short: "Print present and future values per party",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, tr, err := a.load(cmd)
			if err != nil {
				return err
			}
			if err := a.value(tr); err != nil {
				return err
			}
			parties, _ := cmd.Flags().GetStringSlice("party")
			if len(parties) == 0 {
				parties = trade.Parties(tr.Swap)
			}
			values, err := trade.Values(tr.Swap, parties)
			if err != nil {
				return err
			}
			a.log.Info().Str("swap", tr.Swap.ID).Int("parties", len(values)).Msg("swap valued")
			return writeJSON(a.stdout, trade.Output{
				TaskID:        in.TaskID,
				ValuationDate: tr.ValuationDate.Format(utils.DateLayout),
				Values:        values,
			})
		},
	}
	addInputFlag(cmd)
	cmd.Flags().StringSlice("party", nil, "party to value the swap for (repeatable; default all parties)")
	return cmd
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeError(w io.Writer, msg string) {
	outputBytes, _ := json.Marshal(trade.Output{Error: msg})
	fmt.Fprintln(w, string(outputBytes))
}
