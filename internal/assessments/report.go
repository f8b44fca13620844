package assessments

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/2beens/coachlab/internal/threshold"
)

const (
	SheetStages     = "Stages"
	SheetThresholds = "Thresholds"
	SheetZones      = "Zones"
)

// BuildReport renders the assessment as an xlsx workbook. A nil analysis leaves a
// note on the threshold sheets instead of numbers.
func BuildReport(a *Assessment, analysis *Analysis) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetStages); err != nil {
		return nil, err
	}
	for _, sheet := range []string{SheetThresholds, SheetZones} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", sheet, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2E75B6"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := writeStagesSheet(f, a, headerStyle); err != nil {
		return nil, fmt.Errorf("stages sheet: %w", err)
	}

	if analysis == nil {
		note := fmt.Sprintf("threshold analysis is not available for %s assessments", a.Type)
		for _, sheet := range []string{SheetThresholds, SheetZones} {
			if err := f.SetCellValue(sheet, "A1", note); err != nil {
				return nil, err
			}
		}
	} else {
		if err := writeThresholdsSheet(f, analysis, headerStyle); err != nil {
			return nil, fmt.Errorf("thresholds sheet: %w", err)
		}
		if err := writeZonesSheet(f, analysis, headerStyle); err != nil {
			return nil, fmt.Errorf("zones sheet: %w", err)
		}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeStagesSheet(f *excelize.File, a *Assessment, headerStyle int) error {
	header := []any{"Stage", "Intensity (" + a.Unit + ")", "Heart rate", "Lactate (mmol/L)", "VO2 (ml/kg/min)", "RPE"}
	if err := writeHeader(f, SheetStages, header, headerStyle); err != nil {
		return err
	}

	for i, s := range a.Stages {
		row := []any{s.Seq, s.Intensity, optional(s.HeartRate), optional(s.Lactate), optional(s.VO2), optional(s.RPE)}
		if err := setRow(f, SheetStages, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetStages, "A", "F", 18)
}

func writeThresholdsSheet(f *excelize.File, analysis *Analysis, headerStyle int) error {
	res := analysis.Result
	if err := writeHeader(f, SheetThresholds, []any{"Threshold", "Intensity", "Lactate", "Heart rate", "Pace (s/km)"}, headerStyle); err != nil {
		return err
	}

	points := []struct {
		name  string
		point *threshold.Point
	}{
		{"Aerobic (LT1)", res.AerobicThreshold},
		{"Anaerobic (LT2)", res.AnaerobicThreshold},
		{"OBLA", res.OBLA},
	}
	row := 2
	for _, p := range points {
		values := []any{p.name, "", "", "", ""}
		if p.point != nil {
			values = []any{p.name, p.point.Intensity, p.point.Lactate, nonZero(p.point.HeartRate), optional(p.point.PaceSecPerKm)}
		}
		if err := setRow(f, SheetThresholds, row, values); err != nil {
			return err
		}
		row++
	}

	row++
	summary := [][]any{
		{"Method", string(res.Method)},
		{"Confidence", string(res.Confidence)},
		{"R²", res.RSquared},
	}
	if analysis.VO2Peak != nil {
		summary = append(summary, []any{"VO2 peak", *analysis.VO2Peak})
	}
	for _, w := range res.Warnings {
		summary = append(summary, []any{"Warning", w})
	}
	for _, values := range summary {
		if err := setRow(f, SheetThresholds, row, values); err != nil {
			return err
		}
		row++
	}

	return f.SetColWidth(SheetThresholds, "A", "E", 18)
}

func writeZonesSheet(f *excelize.File, analysis *Analysis, headerStyle int) error {
	header := []any{"Zone", "Name", "From", "To", "HR from", "HR to", "Pace from (s/km)", "Pace to (s/km)"}
	if err := writeHeader(f, SheetZones, header, headerStyle); err != nil {
		return err
	}

	for i, z := range analysis.Result.Zones {
		row := []any{
			z.Number, z.Name, z.MinIntensity, optional(z.MaxIntensity),
			optional(z.MinHeartRate), optional(z.MaxHeartRate), optional(z.MinPace), optional(z.MaxPace),
		}
		if err := setRow(f, SheetZones, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetZones, "A", "H", 16)
}

func writeHeader(f *excelize.File, sheet string, header []any, style int) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	lastCell, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", lastCell, style)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func nonZero(v float64) any {
	if v == 0 {
		return ""
	}
	return v
}
