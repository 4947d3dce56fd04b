package attendance

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"Date", "Employee", "Day Type", "Clock In", "Clock Out", "Working Hours",
	"Status", "Late Countable", "Day Credit", "Extra Hours", "Auto Checkout",
	"Overtime Status", "Distance (m)", "Location Note",
}

// ExportAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ExportAttendance(ctx context.Context, req attendance.ExportRequest) (attendance.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return attendance.ExportFile{}, err
	}

	claims, err := s.requirePermission(ctx, user.PermissionAttendanceExport)
	if err != nil {
		return attendance.ExportFile{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	logs, err := s.attendanceRepo.ListByPeriod(ctx, claims.CompanyID, req.EmployeeID, start, end)
	if err != nil {
		return attendance.ExportFile{}, err
	}

	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, s.exportRow(l))
	}

	base := fmt.Sprintf("attendance_%s_%s", req.StartDate, req.EndDate)
	if req.Format == attendance.ExportFormatXLSX {
		content, err := renderXLSX(rows)
		if err != nil {
			return attendance.ExportFile{}, err
		}
		return attendance.ExportFile{
			Filename:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}, nil
	}

	content, err := renderCSV(rows)
	if err != nil {
		return attendance.ExportFile{}, err
	}
	return attendance.ExportFile{
		Filename:    base + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Content:     content,
	}, nil
}

func (s *AttendanceServiceImpl) exportRow(a attendance.Attendance) []string {
	r := s.respond(a)

	name := ""
	if a.EmployeeName != nil {
		name = *a.EmployeeName
	}
	clockOut, hours := "", ""
	if r.ClockOutTime != nil {
		clockOut = *r.ClockOutTime
	}
	if r.WorkingHours != nil {
		hours = strconv.FormatFloat(*r.WorkingHours, 'f', 2, 64)
	}
	distance := ""
	if a.CheckoutDistanceMeters != nil {
		distance = strconv.FormatFloat(*a.CheckoutDistanceMeters, 'f', 0, 64)
	}
	note := ""
	if a.LocationNote != nil {
		note = *a.LocationNote
	}

	return []string{
		r.Date, name, r.DayType, r.ClockInTime, clockOut, hours,
		r.StatusLabel, strconv.FormatBool(a.LateCountable), a.DayCredit.String(),
		strconv.FormatFloat(r.ExtraWorkedHours, 'f', 2, 64), strconv.FormatBool(a.AutoCheckout),
		string(a.OvertimeStatus), distance, note,
	}
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(rows [][]string) ([]byte, error) {
	const sheet = "Attendance"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", "F", 22)
	_ = f.SetColWidth(sheet, "G", lastCol, 16)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
