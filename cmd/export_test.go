package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/oupath/sim"
)

func buildTestDataset(t *testing.T, samples, steps int) *sim.Dataset {
	t.Helper()
	cfg := sim.NewDatasetConfig(samples, sim.NewPathParams(1.0, steps, 0.5, 0.3, 2.0, 1.0), 0)
	ds, err := sim.BuildDataset(context.Background(), cfg, sim.NewPartitionedRNG(sim.NewSimulationKey(42)))
	require.NoError(t, err)
	return ds
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWritePathsCSV_RowsAndValues(t *testing.T) {
	ds := buildTestDataset(t, 3, 5)

	var buf bytes.Buffer
	require.NoError(t, WritePathsCSV(&buf, ds))
	rows := readCSV(t, buf.Bytes())

	require.Len(t, rows, 1+3*5)
	assert.Equal(t, pathsColumns, rows[0])

	// row for sample 2, step 4
	last := rows[len(rows)-1]
	assert.Equal(t, "2", last[0])
	assert.Equal(t, "4", last[1])
	v, err := strconv.ParseFloat(last[3], 64)
	require.NoError(t, err)
	assert.Equal(t, ds.Paths.At(2, 4, sim.ChannelValue), v, "values must round-trip exactly")
}

func TestWriteCoeffsCSV_RowsAndValues(t *testing.T) {
	ds := buildTestDataset(t, 2, 6)

	var buf bytes.Buffer
	require.NoError(t, WriteCoeffsCSV(&buf, ds))
	rows := readCSV(t, buf.Bytes())

	require.Len(t, rows, 1+2*5)
	assert.Equal(t, coeffsColumns, rows[0])
	for _, row := range rows[1:] {
		assert.Len(t, row, len(coeffsColumns))
	}

	// sample 1, segment 3: knot and b_value
	row := rows[1+5+3]
	knot, err := strconv.ParseFloat(row[2], 64)
	require.NoError(t, err)
	assert.Equal(t, ds.Knots[3], knot)
	b, err := strconv.ParseFloat(row[6], 64)
	require.NoError(t, err)
	assert.Equal(t, ds.Coeffs.At(1, 3, 3), b)
}

func TestExportDataset_WritesAllFiles(t *testing.T) {
	ds := buildTestDataset(t, 2, 4)
	dir := filepath.Join(t.TempDir(), "nested", "out")
	seed := int64(42)

	require.NoError(t, ExportDataset(dir, ds, NewExportHeader(ds, &seed)))

	for _, name := range []string{PathsFileName, CoeffsFileName, HeaderFileName} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}

	data, err := os.ReadFile(filepath.Join(dir, HeaderFileName))
	require.NoError(t, err)
	var header ExportHeader
	require.NoError(t, yaml.Unmarshal(data, &header))
	assert.Equal(t, 1, header.Version)
	assert.Equal(t, [3]int{2, 4, 2}, header.Shapes.Paths)
	assert.Equal(t, [3]int{2, 3, 8}, header.Shapes.Coeffs)
	assert.Equal(t, 4, header.Params.Steps)
	require.NotNil(t, header.Seed)
	assert.Equal(t, int64(42), *header.Seed)
	assert.Equal(t, 3, header.Layout["three_d"])
}

func TestNewExportHeader_AmbientOmitsSeed(t *testing.T) {
	ds := buildTestDataset(t, 1, 3)
	header := NewExportHeader(ds, nil)

	out, err := yaml.Marshal(header)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "seed")
}
