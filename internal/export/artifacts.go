package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jmehdipour/churnctl/internal/model"
)

// FileNames are the artifact names written by WriteArtifacts.
type FileNames struct {
	Monthly  string
	Canceled string
	Chart    string
}

// WriteArtifacts writes the monthly CSV, canceled CSV and chart into dir
// and returns the paths written.
func WriteArtifacts(dir string, report *model.Report, names FileNames, chart ChartOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	jobs := []struct {
		name  string
		write func(io.Writer) error
	}{
		{names.Monthly, func(w io.Writer) error { return WriteMonthlyCSV(w, report.Months) }},
		{names.Canceled, func(w io.Writer) error { return WriteCanceledCSV(w, report.Canceled) }},
		{names.Chart, func(w io.Writer) error { return RenderChart(w, report.Months, chart) }},
	}

	var written []string
	for _, j := range jobs {
		if j.name == "" {
			continue
		}
		path := filepath.Join(dir, j.name)
		if err := writeFile(path, j.write); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
