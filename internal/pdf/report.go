package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator builds downloadable prediction reports.
type Generator interface {
	GenerateReport(data ReportData) (string, error)
}

type ReportData struct {
	Ticker      string
	MSE         float64
	RMSE        float64
	R2          float64
	GeneratedAt time.Time
	ChartPaths  []string
	Filename    string // file name without path; generated when empty
}

// ReportGenerator writes PDF reports below RootDir.
type ReportGenerator struct {
	RootDir string
}

func NewReportGenerator(rootDir string) *ReportGenerator {
	return &ReportGenerator{RootDir: filepath.Clean(rootDir)}
}

func (g *ReportGenerator) GenerateReport(data ReportData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("%s_report.pdf", data.Ticker)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, fmt.Sprintf("Stock Prediction Report: %s", data.Ticker), "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 8, fmt.Sprintf("Generated at %s", data.GeneratedAt.Format(time.RFC1123)), "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 10, "Model metrics", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(60, 8, "Mean squared error", "1", 0, "L", false, 0, "")
	doc.CellFormat(60, 8, fmt.Sprintf("%.4f", data.MSE), "1", 1, "R", false, 0, "")
	doc.CellFormat(60, 8, "Root mean squared error", "1", 0, "L", false, 0, "")
	doc.CellFormat(60, 8, fmt.Sprintf("%.4f", data.RMSE), "1", 1, "R", false, 0, "")
	doc.CellFormat(60, 8, "R squared", "1", 0, "L", false, 0, "")
	doc.CellFormat(60, 8, fmt.Sprintf("%.4f", data.R2), "1", 1, "R", false, 0, "")

	for _, chart := range data.ChartPaths {
		doc.AddPage()
		// A4 is 210mm wide; leave 10mm margins and let height follow the
		// image's aspect ratio
		doc.ImageOptions(chart, 10, 20, 190, 0, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	if err := doc.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("write report pdf: %w", err)
	}
	return absPath, nil
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	filename = filepath.Base(filename)
	if filename == "" || filename == "." {
		return "", fmt.Errorf("bad report filename %q", filename)
	}
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	return filepath.Join(g.RootDir, filename), nil
}
