// Paysweep Worker — один проход сверки платежей с EDO API.
//
// Проход:
//   - для каждой операции (capture, charge, cancel, notify, ...) получает
//     список бронирований к обработке
//   - режет его на чанки и отправляет их по одному
//   - пишет итог в лог, метрики и (опционально) в RabbitMQ
//
// Процесс завершается после прохода; расписание задаёт внешний планировщик
// (cron, Kubernetes CronJob).
//
// Использование:
//
//	paysweep-worker [--config FILE]             выполнить проход
//	paysweep-worker operations [--json]         список операций
//	paysweep-worker check [--upcoming N]        проверить конфигурацию
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/shaiso/Paysweep/internal/cli"
	"github.com/shaiso/Paysweep/internal/config"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var configPath string
	var jsonOutput bool

	configFn := func() (*config.Config, error) {
		if err := config.LoadDotEnv(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
		return config.Load(config.Path(configPath))
	}
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd := &cobra.Command{
		Use:           "paysweep-worker",
		Short:         "Paysweep — payment reconciliation pass against the EDO API",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFn()
			if err != nil {
				return err
			}
			return runWorker(cmd.Context(), cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $PAYSWEEP_CONFIG or "+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(
		cli.NewOperationsCmd(configFn, outputFn),
		cli.NewCheckCmd(configFn, outputFn, time.Now),
	)

	// graceful shutdown: отмена учитывается только между операциями
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(1)
	}
}
