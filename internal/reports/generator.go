package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/fdg312/fuel-score/internal/scoring"
	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// recentDays limits the PDF table; the CSV always holds the whole range.
const recentDays = 31

// Generator renders stored daily scores as PDF or CSV.
type Generator struct {
	scores storage.ScoresStorage
}

func NewGenerator(scores storage.ScoresStorage) *Generator {
	return &Generator{scores: scores}
}

// scoreRow is one stored day with its breakdown decoded.
type scoreRow struct {
	storage.DailyScore
	parts scoring.Breakdown
	ok    bool
}

// Generate renders the report for profileID over [from, to].
func (g *Generator) Generate(ctx context.Context, profileID uuid.UUID, from, to, format string) ([]byte, error) {
	stored, err := g.scores.ListDailyScores(ctx, profileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily scores: %w", err)
	}

	rows := make([]scoreRow, 0, len(stored))
	for _, s := range stored {
		row := scoreRow{DailyScore: s}
		if len(s.Breakdown) > 0 {
			row.ok = json.Unmarshal(s.Breakdown, &row.parts) == nil
		}
		rows = append(rows, row)
	}

	switch format {
	case FormatPDF:
		return g.generatePDF(from, to, rows)
	case FormatCSV:
		return g.generateCSV(rows)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
}

var csvHeader = []string{
	"date", "total", "load", "strategy", "penalty_profile",
	"nutrition", "macros", "timing", "structure", "training",
	"bonuses", "penalties", "incomplete_penalty", "reliable",
}

func (g *Generator) generateCSV(rows []scoreRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{r.Date, strconv.Itoa(r.Total), r.Load, r.Strategy, r.PenaltyProfile}
		if r.ok {
			b := r.parts
			record = append(record,
				formatScore(b.Nutrition.Total),
				formatScore(b.Nutrition.Macros.Total),
				formatScore(b.Nutrition.Timing.Total),
				formatScore(b.Nutrition.Structure),
				formatScore(b.Training.Total),
				formatScore(b.Bonuses.Total),
				formatScore(b.Penalties.Total),
				formatScore(b.IncompletePenalty),
				strconv.FormatBool(b.DataCompleteness.Reliable),
			)
		} else {
			record = append(record, "", "", "", "", "", "", "", "", "")
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Summary aggregates a range of daily scores.
type Summary struct {
	Days         int
	Average      *float64
	Best         *scoreRow
	Worst        *scoreRow
	Reliable     int
	AvgNutrition *float64
	AvgTraining  *float64
}

func summarize(rows []scoreRow) Summary {
	s := Summary{Days: len(rows)}
	if len(rows) == 0 {
		return s
	}

	var total, nutrition, training float64
	var nutritionN, trainingN int
	for i := range rows {
		r := &rows[i]
		total += float64(r.Total)
		if s.Best == nil || r.Total > s.Best.Total {
			s.Best = r
		}
		if s.Worst == nil || r.Total < s.Worst.Total {
			s.Worst = r
		}
		if !r.ok {
			continue
		}
		if r.parts.DataCompleteness.Reliable {
			s.Reliable++
		}
		nutrition += r.parts.Nutrition.Total
		nutritionN++
		if r.parts.Training.Applicable {
			training += r.parts.Training.Total
			trainingN++
		}
	}

	avg := round1(total / float64(len(rows)))
	s.Average = &avg
	if nutritionN > 0 {
		v := round1(nutrition / float64(nutritionN))
		s.AvgNutrition = &v
	}
	if trainingN > 0 {
		v := round1(training / float64(trainingN))
		s.AvgTraining = &v
	}
	return s
}

func (g *Generator) generatePDF(from, to string, rows []scoreRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Fuel score report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Fuel score report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s - %s", from, to))
	pdf.Ln(12)

	summary := summarize(rows)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	lines := []string{
		fmt.Sprintf("Days scored: %d", summary.Days),
		fmt.Sprintf("Average score: %s", formatOptional(summary.Average)),
		fmt.Sprintf("Average nutrition score: %s", formatOptional(summary.AvgNutrition)),
		fmt.Sprintf("Average training score: %s", formatOptional(summary.AvgTraining)),
		fmt.Sprintf("Days with reliable data: %d", summary.Reliable),
	}
	if summary.Best != nil {
		lines = append(lines,
			fmt.Sprintf("Best day: %s (%d)", summary.Best.Date, summary.Best.Total),
			fmt.Sprintf("Worst day: %s (%d)", summary.Worst.Date, summary.Worst.Total),
		)
	}
	for _, line := range lines {
		pdf.Cell(0, 6, line)
		pdf.Ln(5)
	}
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Recent days")
	pdf.Ln(8)

	drawDaysTable(pdf, rows)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func drawDaysTable(pdf *gofpdf.Fpdf, rows []scoreRow) {
	if len(rows) > recentDays {
		rows = rows[len(rows)-recentDays:]
	}

	pdf.SetFont("Helvetica", "B", 8)
	header := []struct {
		title string
		width float64
	}{
		{"Date", 25}, {"Total", 15}, {"Load", 22}, {"Nutrition", 22},
		{"Training", 22}, {"Bonuses", 20}, {"Penalties", 20}, {"Reliable", 18},
	}
	for i, h := range header {
		ln := 0
		if i == len(header)-1 {
			ln = 1
		}
		pdf.CellFormat(h.width, 6, h.title, "1", ln, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 8)
	for _, r := range rows {
		cells := []string{r.Date, strconv.Itoa(r.Total), r.Load, "", "", "", "", ""}
		if r.ok {
			cells[3] = formatScore(r.parts.Nutrition.Total)
			if r.parts.Training.Applicable {
				cells[4] = formatScore(r.parts.Training.Total)
			} else {
				cells[4] = "-"
			}
			cells[5] = formatScore(r.parts.Bonuses.Total)
			cells[6] = formatScore(r.parts.Penalties.Total + r.parts.IncompletePenalty)
			cells[7] = yesNo(r.parts.DataCompleteness.Reliable)
		}
		for i, c := range cells {
			ln := 0
			if i == len(cells)-1 {
				ln = 1
			}
			pdf.CellFormat(header[i].width, 6, c, "1", ln, "C", false, 0, "")
		}
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(round1(v), 'f', 1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return "no data"
	}
	return formatScore(*v)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
