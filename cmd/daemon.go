package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/envel/internal/cli"
	"github.com/theirongolddev/envel/internal/config"
	"github.com/theirongolddev/envel/internal/daemon"
	"github.com/theirongolddev/envel/internal/envelope"
	"github.com/theirongolddev/envel/internal/model"
)

var (
	flagDaemonAddr     string
	flagDaemonInterval time.Duration
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the budget watch daemon with HTTP status endpoints",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query a running daemon",
	RunE:  runDaemonStatus,
}

func init() {
	daemonCmd.Flags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default 127.0.0.1:8786)")
	daemonCmd.Flags().DurationVar(&flagDaemonInterval, "interval", 30*time.Second, "Polling interval")
	daemonCmd.AddCommand(daemonStatusCmd)
	rootCmd.AddCommand(daemonCmd)
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.General.CurrencySymbol != "" {
		cli.Symbol = cfg.General.CurrencySymbol
	}

	addr := flagDaemonAddr
	if addr == "" {
		addr = cfg.Daemon.Addr
	}

	client := daemon.NewClient(addr)
	st, err := client.Status(cmd.Context())
	if err != nil {
		if errors.Is(err, daemon.ErrNotRunning) {
			fmt.Println(cli.Muted("daemon is not running"))
			return nil
		}
		return err
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Daemon " + st.Summary.Date,
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Started", st.StartedAt.Format("2006-01-02 15:04")},
			{"Last poll", st.LastPollAt.Format("15:04:05")},
			{"Interval", fmt.Sprintf("%ds", st.PollIntervalSec)},
			{"Polls", cli.FormatNumber(st.PollCount)},
			{"Events", cli.FormatNumber(int64(st.EventCount))},
			{"Available", cli.FormatMoney(st.Summary.AvailableFunds)},
			{"Spent today", cli.FormatMoney(st.Summary.SpentToday)},
			{"Daily limit", cli.FormatMoney(st.Summary.DailyLimit)},
		},
	}))
	if st.LastError != "" {
		fmt.Println(cli.Warn("last error: " + st.LastError))
	}
	return nil
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	addr := flagDaemonAddr
	if addr == "" {
		addr = app.cfg.Daemon.Addr
	}
	interval := flagDaemonInterval
	if app.cfg.Daemon.PollIntervalSec > 0 && !cmd.Flags().Changed("interval") {
		interval = time.Duration(app.cfg.Daemon.PollIntervalSec) * time.Second
	}

	svc := daemon.New(daemon.Config{
		Store: app.st,
		Clock: app.clock,
		EndDates: model.EndDates{
			Primary:   app.cfg.Budget.EndDatePrimary,
			Secondary: app.cfg.Budget.EndDateSecondary,
		},
		SavingGoal: app.cfg.Budget.SavingGoal,
		Envelope: envelope.Config{
			Enabled:      app.cfg.Envelope.Enabled,
			RoundingUnit: app.cfg.Envelope.RoundingUnit,
			UseSecondary: app.cfg.Envelope.UseSecondary,
		},
		Interval: interval,
		Addr:     addr,
		Logger:   logger,
	})

	return svc.Run(ctx)
}
