package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Paysweep/internal/schedule"
)

// NewCheckCmd проверяет конфигурацию, ничего не отправляя в API.
// При заданном расписании печатает ближайшие запуски.
func NewCheckCmd(configFn ConfigFunc, outputFn func() *Output, now func() time.Time) *cobra.Command {
	var upcoming int

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration without calling the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFn()
			if err != nil {
				return err
			}

			specs, err := cfg.Specs()
			if err != nil {
				return err
			}

			out := outputFn()
			out.Success(fmt.Sprintf("config ok: %d operation(s) enabled", len(specs)))

			if cfg.Schedule.Cron == "" || upcoming <= 0 {
				return nil
			}

			sched, err := schedule.Parse(cfg.Schedule.Cron, cfg.Schedule.Timezone)
			if err != nil {
				return err
			}

			next := make([]time.Time, 0, upcoming)
			rows := make([][]string, 0, upcoming)
			at := now()
			for i := 0; i < upcoming; i++ {
				at = sched.Next(at)
				next = append(next, at)
				rows = append(rows, []string{at.Format(time.RFC3339)})
			}

			return out.Print([]string{"NEXT_RUN_UTC"}, rows, next)
		},
	}

	cmd.Flags().IntVar(&upcoming, "upcoming", 3, "Number of upcoming scheduled runs to print")

	return cmd
}
