package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmehdipour/churnctl/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	report := &model.Report{
		Months: sampleRows(),
		Canceled: []model.CanceledCustomer{
			{Email: "a@example.com", CanceledAt: time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)},
		},
	}
	names := FileNames{Monthly: "monthly.csv", Canceled: "canceled.csv", Chart: "chart.png"}

	paths, err := WriteArtifacts(dir, report, names, ChartOptions{Width: 400, Height: 300})
	require.NoError(t, err)
	require.Len(t, paths, 3)

	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.NotZero(t, info.Size(), p)
	}
	b, err := os.ReadFile(filepath.Join(dir, "canceled.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "a@example.com,2023-03-05 00:00:00")
}

func TestWriteArtifacts_SkipsEmptyNames(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteArtifacts(dir, &model.Report{Months: sampleRows()}, FileNames{Monthly: "m.csv"}, ChartOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "m.csv")}, paths)
}
