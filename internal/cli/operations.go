package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Paysweep/internal/config"
	"github.com/shaiso/Paysweep/internal/domain"
)

// ConfigFunc загружает конфигурацию после разбора флагов.
type ConfigFunc func() (*config.Config, error)

// operationView — операция в JSON-выводе.
type operationView struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	FetchURL    string `json:"fetch_url,omitempty"`
	ProcessURL  string `json:"process_url"`
	ChunkSize   int    `json:"chunk_size,omitempty"`
	Shape       string `json:"shape"`
	WrapField   string `json:"wrap_field,omitempty"`
	PointInTime bool   `json:"point_in_time"`
	DaysAhead   int    `json:"days_ahead,omitempty"`
}

// NewOperationsCmd печатает операции в порядке выполнения.
func NewOperationsCmd(configFn ConfigFunc, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List operations in execution order",
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

			headers := []string{"#", "NAME", "KIND", "CHUNK", "SHAPE", "FETCH", "PROCESS"}
			rows := make([][]string, len(specs))
			views := make([]operationView, len(specs))
			for i, s := range specs {
				fetch := s.FetchURL
				chunk := strconv.Itoa(s.ChunkSize)
				if s.Kind == domain.OperationKindNotify {
					fetch, chunk = "-", "-"
				} else if s.PointInTime {
					fetch += "/<" + pointInTimeLabel(s.DaysAhead) + ">"
				}
				rows[i] = []string{strconv.Itoa(i + 1), s.Name, string(s.Kind), chunk, shapeLabel(s), fetch, s.ProcessURL}
				views[i] = toView(s)
			}

			return outputFn().Print(headers, rows, views)
		},
	}
}

func toView(s domain.OperationSpec) operationView {
	v := operationView{
		Name:        s.Name,
		Kind:        string(s.Kind),
		ProcessURL:  s.ProcessURL,
		Shape:       string(s.Shape),
		PointInTime: s.PointInTime,
		DaysAhead:   s.DaysAhead,
	}
	if s.Kind != domain.OperationKindNotify {
		v.FetchURL = s.FetchURL
		v.ChunkSize = s.ChunkSize
	}
	if s.Shape == domain.ShapeWrapped {
		v.WrapField = s.FieldName()
	}
	return v
}

func shapeLabel(s domain.OperationSpec) string {
	if s.Shape == domain.ShapeWrapped {
		return "wrapped(" + s.FieldName() + ")"
	}
	return string(s.Shape)
}

func pointInTimeLabel(daysAhead int) string {
	switch {
	case daysAhead > 0:
		return "now+" + strconv.Itoa(daysAhead) + "d"
	case daysAhead < 0:
		return "now" + strconv.Itoa(daysAhead) + "d"
	default:
		return "now"
	}
}
