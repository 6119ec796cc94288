// Package command implements the dementia-calc command line tool.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/dementia-probability-mcp/internal/domain"
	"github.com/dementia-probability-mcp/internal/logging"
	"github.com/dementia-probability-mcp/internal/service"
)

// NewCommand builds the dementia-calc command. Results go to out; logs go
// to logger.
func NewCommand(out io.Writer, logger *logrus.Logger) *cli.Command {
	calculator := service.NewCalculatorService(logger)

	return &cli.Command{
		Name:      "dementia-calc",
		Usage:     "Post-test probability of dementia from sex, age group and MMSE result",
		UsageText: "dementia-calc --gender female --age 80-84 --mmse low",
		Writer:    out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "gender",
				Aliases: []string{"g"},
				Usage:   "Male or Female",
			},
			&cli.StringFlag{
				Name:    "age",
				Aliases: []string{"a"},
				Usage:   "Age group: 60-64, 65-69, 70-74, 75-79, 80-84, 85-89 or 90+",
			},
			&cli.StringFlag{
				Name:    "mmse",
				Aliases: []string{"m"},
				Usage:   "MMSE result: low (0-24) or high (25-30)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the result as JSON",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "table",
				Usage: "Print the prevalence and likelihood ratio tables",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the tables as JSON",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ref := service.GetReferenceTables()
					if cmd.Bool("json") {
						return writeJSON(out, ref)
					}
					_, err := fmt.Fprint(out, service.FormatReferenceTables(ref))
					return err
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			start := time.Now()
			sel, stats, err := calculator.CalculateRaw(domain.RawSelection{
				Gender:     cmd.String("gender"),
				AgeBracket: cmd.String("age"),
				MMSEResult: cmd.String("mmse"),
			})
			logging.Operation(logger, logging.OperationCLI, "calculate", sel, time.Since(start), err)
			if err != nil {
				return err
			}

			if cmd.Bool("json") {
				return writeJSON(out, struct {
					Selection domain.Selection `json:"selection"`
					domain.DementiaStats
					Formatted service.FormattedStats `json:"formatted"`
				}{sel, stats, service.Format(stats)})
			}

			_, err = fmt.Fprintln(out, service.FormatReport(stats))
			return err
		},
	}
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
