package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"Mansoor88-6/nagster-console/internal/models"
)

// SheetOverview is the only sheet in an overview workbook.
const SheetOverview = "Overview"

var overviewHeaders = []string{
	"Employee ID", "Name", "Designation", "Department", "Location", "Work Mode",
	"Status", "Login", "Logout", "Active (min)", "Idle (min)", "Suspicious Flags",
}

var overviewWidths = []float64{14, 24, 20, 18, 14, 12, 10, 8, 8, 12, 12, 16}

// WriteOverviewXLSX writes the daily overview as a workbook: a title row, a
// header row, one row per employee and a totals row.
func WriteOverviewXLSX(w io.Writer, date string, employees []models.Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	styles, err := buildStyles(f)
	if err != nil {
		return fmt.Errorf("failed to build styles: %w", err)
	}
	for i, width := range overviewWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(SheetOverview, col, col, width)
	}

	if err := f.SetCellValue(SheetOverview, "A1", "Nagster overview "+date); err != nil {
		return err
	}
	_ = f.SetCellStyle(SheetOverview, "A1", "A1", styles.title)

	if err := setRow(f, 2, toAny(overviewHeaders), styles.header); err != nil {
		return err
	}

	row := 3
	for _, e := range employees {
		values := []any{
			e.EmployeeID, e.Name, e.Designation, e.Department, e.Location, e.WorkMode,
			e.Status, models.ClockTime(e.LoginTime), models.ClockTime(e.LogoutTime),
			e.ActiveMinutes, e.IdleMinutes, e.SuspiciousFlagCount,
		}
		style := styles.base
		if e.IsSuspicious() {
			style = styles.flagged
		}
		if err := setRow(f, row, values, style); err != nil {
			return err
		}
		row++
	}

	stats := models.ComputeStats(employees)
	totals := []any{
		"Total", stats.Total, "Active", stats.Active, "Suspicious", stats.Suspicious,
	}
	if err := setRow(f, row, totals, styles.header); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []any, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetOverview, start, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	end, _ := excelize.CoordinatesToCellName(len(values), row)
	return f.SetCellStyle(SheetOverview, start, end, style)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

type styleSet struct {
	base, title, header, flagged int
}

func buildStyles(f *excelize.File) (styleSet, error) {
	var s styleSet
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	var err error
	if s.base, err = f.NewStyle(&excelize.Style{Border: border, Alignment: center}); err != nil {
		return s, err
	}
	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Border:    border,
		Alignment: center,
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}},
	}); err != nil {
		return s, err
	}
	s.flagged, err = f.NewStyle(&excelize.Style{
		Border:    border,
		Alignment: center,
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FF0000"}},
	})
	return s, err
}
