// Command axon inspects and exercises the value layer: it can dump the
// type identity registry and run a featurize pipeline over CSV input.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/axonml/axon/core"
	"github.com/axonml/axon/featurize"
	"github.com/axonml/axon/tensor"
	"github.com/axonml/axon/types"
)

var log = logrus.New()

func main() {
	app := &cli.App{
		Name:  "axon",
		Usage: "inference-engine value layer tools",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				log.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			typesCommand(),
			featurizeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func typesCommand() *cli.Command {
	return &cli.Command{
		Name:  "types",
		Usage: "dump the registered type identity table",
		Action: func(c *cli.Context) error {
			registerBuiltins()

			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFAMILY\tGO TYPE")
			for _, dt := range types.Registered() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", dt, dt.Family(), dt.GoType())
			}
			return w.Flush()
		},
	}
}

// registerBuiltins forces identity registration for the payload types the
// engine ships with; identities are otherwise issued lazily on first use.
func registerBuiltins() {
	types.Of[tensor.Dense[float32]]()
	types.Of[tensor.Dense[float64]]()
	types.Of[tensor.Dense[int32]]()
	types.Of[tensor.Dense[int64]]()
	types.Of[tensor.Sparse[float32]]()
	types.Of[tensor.Sparse[int32]]()
	types.Of[tensor.Sequence[float32]]()
}

func featurizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "featurize",
		Usage:     "fit a pipeline on CSV rows and print the transformed rows",
		ArgsUsage: "<input.csv>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "scaler",
				Value: "minmax",
				Usage: "scaler stage: minmax or standard",
			},
			&cli.BoolFlag{
				Name:  "impute",
				Usage: "prepend a mean imputer for NaN cells",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one CSV file argument", 1)
			}

			samples, width, err := loadCSV(c.Args().First())
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"rows":     len(samples),
				"features": width,
			}).Debug("loaded input")

			var stages []featurize.Transformer
			if c.Bool("impute") {
				stages = append(stages, &featurize.Imputer{})
			}
			switch c.String("scaler") {
			case "minmax":
				stages = append(stages, &featurize.MinMaxScaler{})
			case "standard":
				stages = append(stages, &featurize.StandardScaler{})
			default:
				return cli.Exit("unknown scaler: "+c.String("scaler"), 1)
			}

			ctx := context.Background()
			pipe := featurize.NewPipeline(log, stages...)
			if err := pipe.Fit(ctx, samples); err != nil {
				return err
			}
			out, err := pipe.TransformAll(ctx, samples)
			if err != nil {
				return err
			}

			w := csv.NewWriter(c.App.Writer)
			for _, v := range out {
				t, err := core.Get[tensor.Dense[float32]](v)
				if err != nil {
					return err
				}
				row := make([]string, t.Len())
				for j, x := range t.Data() {
					row[j] = strconv.FormatFloat(float64(x), 'g', -1, 32)
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}
}

// loadCSV parses every row into a float32 feature vector wrapped in a
// Value. Unparseable cells become NaN so an Imputer stage can fill them.
func loadCSV(path string) ([]*core.Value, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, 0, err
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("%s: no rows", path)
	}

	width := len(records[0])
	nan := float32(math.NaN())
	samples := make([]*core.Value, len(records))
	for i, rec := range records {
		if len(rec) != width {
			return nil, 0, fmt.Errorf("%s: row %d has %d cells, want %d", path, i, len(rec), width)
		}
		data := make([]float32, width)
		for j, cell := range rec {
			x, err := strconv.ParseFloat(cell, 32)
			if err != nil {
				data[j] = nan
				continue
			}
			data[j] = float32(x)
		}
		t, err := tensor.NewDense([]int{width}, data)
		if err != nil {
			return nil, 0, err
		}
		samples[i] = core.NewValue(t, types.Of[tensor.Dense[float32]](), nil)
	}
	return samples, width, nil
}
