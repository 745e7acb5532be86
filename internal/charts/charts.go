package charts

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one line on a chart. NaN values (the undefined head of a
// moving average) are skipped when plotting.
type Series struct {
	Name   string
	Values []float64
}

// Renderer writes PNG charts below RootDir.
type Renderer struct {
	RootDir string
}

func NewRenderer(rootDir string) *Renderer {
	return &Renderer{RootDir: filepath.Clean(rootDir)}
}

// SaveLineChart renders the given series into filename and returns the
// absolute path of the written file.
func (r *Renderer) SaveLineChart(filename, title string, series ...Series) (string, error) {
	absPath, err := r.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Days"
	p.Y.Label.Text = "Price"

	for i, s := range series {
		pts := make(plotter.XYs, 0, len(s.Values))
		for day, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(day), Y: v})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return "", fmt.Errorf("build line %q: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	if err := p.Save(14*vg.Inch, 6*vg.Inch, absPath); err != nil {
		return "", fmt.Errorf("save chart %q: %w", filename, err)
	}
	return absPath, nil
}

func (r *Renderer) ensureTarget(filename string) (string, error) {
	filename = filepath.Base(filename)
	if filename == "" || filename == "." || !strings.HasSuffix(filename, ".png") {
		return "", fmt.Errorf("bad chart filename %q", filename)
	}
	if err := os.MkdirAll(r.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	return filepath.Join(r.RootDir, filename), nil
}
