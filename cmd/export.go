package cmd

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/oupath/sim"
)

// Output file names written by ExportDataset.
const (
	PathsFileName  = "paths.csv"
	CoeffsFileName = "coeffs.csv"
	HeaderFileName = "header.yaml"
)

// ExportHeader is the YAML side-car describing the CSV files.
type ExportHeader struct {
	Version   int            `yaml:"export_version"`
	CreatedAt string         `yaml:"created_at,omitempty"`
	Shapes    ExportShapes   `yaml:"shapes"`
	Params    ExportParams   `yaml:"params"`
	Seed      *int64         `yaml:"seed,omitempty"` // absent for ambient runs
	Layout    map[string]int `yaml:"coefficient_groups"`
}

// ExportShapes records the array shapes.
type ExportShapes struct {
	Paths  [3]int `yaml:"paths,flow"`
	Coeffs [3]int `yaml:"coeffs,flow"`
}

// ExportParams records the OU parameters.
type ExportParams struct {
	Horizon float64 `yaml:"horizon"`
	Steps   int     `yaml:"steps"`
	Mu      float64 `yaml:"mu"`
	Sigma   float64 `yaml:"sigma"`
	Theta   float64 `yaml:"theta"`
	X0      float64 `yaml:"x0"`
}

var pathsColumns = []string{"sample", "step", "time", "value"}

var coeffsColumns = []string{
	"sample", "segment", "knot",
	"a_time", "a_value", "b_time", "b_value",
	"two_c_time", "two_c_value", "three_d_time", "three_d_value",
}

// NewExportHeader builds the header for ds. seed is nil for ambient runs.
func NewExportHeader(ds *sim.Dataset, seed *int64) ExportHeader {
	p := ds.Params
	return ExportHeader{
		Version:   1,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Shapes:    ExportShapes{Paths: ds.Paths.Shape(), Coeffs: ds.Coeffs.Shape()},
		Params: ExportParams{
			Horizon: p.Horizon, Steps: p.Steps, Mu: p.Mu, Sigma: p.Sigma, Theta: p.Theta, X0: p.X0,
		},
		Seed:   seed,
		Layout: map[string]int{"a": 0, "b": 1, "two_c": 2, "three_d": 3},
	}
}

// ExportDataset writes paths.csv, coeffs.csv and header.yaml into dir,
// creating it if needed.
func ExportDataset(dir string, ds *sim.Dataset, header ExportHeader) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating output directory %s", dir)
	}
	if err := writeFile(filepath.Join(dir, PathsFileName), func(w io.Writer) error { return WritePathsCSV(w, ds) }); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, CoeffsFileName), func(w io.Writer) error { return WriteCoeffsCSV(w, ds) }); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, HeaderFileName), func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(header); err != nil {
			return err
		}
		return enc.Close()
	}); err != nil {
		return err
	}
	logrus.Debugf("Successfully wrote dataset to '%s'", dir)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

// WritePathsCSV writes one row per (sample, step).
func WritePathsCSV(w io.Writer, ds *sim.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(pathsColumns); err != nil {
		return err
	}
	n, steps, _ := ds.Paths.Dims()
	row := make([]string, len(pathsColumns))
	for s := 0; s < n; s++ {
		for j := 0; j < steps; j++ {
			row[0] = strconv.Itoa(s)
			row[1] = strconv.Itoa(j)
			row[2] = formatFloat(ds.Paths.At(s, j, sim.ChannelTime))
			row[3] = formatFloat(ds.Paths.At(s, j, sim.ChannelValue))
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCoeffsCSV writes one row per (sample, segment) with the segment's
// starting knot and its eight coefficients.
func WriteCoeffsCSV(w io.Writer, ds *sim.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(coeffsColumns); err != nil {
		return err
	}
	n, segments, width := ds.Coeffs.Dims()
	row := make([]string, 3+width)
	for s := 0; s < n; s++ {
		for k := 0; k < segments; k++ {
			row[0] = strconv.Itoa(s)
			row[1] = strconv.Itoa(k)
			row[2] = formatFloat(ds.Knots[k])
			for c := 0; c < width; c++ {
				row[3+c] = formatFloat(ds.Coeffs.At(s, k, c))
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatFloat uses the shortest representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
