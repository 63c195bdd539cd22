// Package export writes reservation, user and review tables to Excel
// workbooks for the admin tool.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/handicapstudent/ppt-project/internal/config"
	"github.com/handicapstudent/ppt-project/internal/models"
)

const exportTimeLayout = "2006-01-02 15:04"

type Exporter struct {
	path   string
	logger *zerolog.Logger
}

func NewExporter(cfg config.ExportConfig, logger *zerolog.Logger) *Exporter {
	return &Exporter{path: cfg.Path, logger: logger}
}

// ExportReservations writes all reservations to a dated workbook and
// returns the file path.
func (e *Exporter) ExportReservations(reservations []*models.Reservation) (string, error) {
	f, sheet, err := e.newWorkbook("Reservations", []string{
		"ID", "Student ID", "Restaurant", "Seat", "Start", "End",
	})
	if err != nil {
		return "", err
	}
	defer f.Close()

	for i, r := range reservations {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.UserID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Restaurant)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Seat)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.StartTime.Format(exportTimeLayout))
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.EndTime.Format(exportTimeLayout))
	}

	_ = f.SetColWidth(sheet, "A", "A", 8)
	_ = f.SetColWidth(sheet, "B", "D", 16)
	_ = f.SetColWidth(sheet, "E", "F", 20)

	return e.save(f, "reservations")
}

// ExportUsers writes all registered users. Passwords and security answers
// stay out of the workbook.
func (e *Exporter) ExportUsers(users []*models.User) (string, error) {
	f, sheet, err := e.newWorkbook("Users", []string{
		"Student ID", "Security Question", "Has Certificate",
	})
	if err != nil {
		return "", err
	}
	defer f.Close()

	for i, u := range users {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), u.UserID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), u.SecurityQuestion)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), boolToYesNo(len(u.CertBlob) > 0 || u.CertPath != ""))
	}

	_ = f.SetColWidth(sheet, "A", "A", 16)
	_ = f.SetColWidth(sheet, "B", "B", 40)
	_ = f.SetColWidth(sheet, "C", "C", 14)

	return e.save(f, "users")
}

// ExportReviews writes all reviews with their ratings and timestamps.
func (e *Exporter) ExportReviews(reviews []*models.Review) (string, error) {
	f, sheet, err := e.newWorkbook("Reviews", []string{
		"ID", "Student ID", "Rating", "Review", "Written At",
	})
	if err != nil {
		return "", err
	}
	defer f.Close()

	for i, rv := range reviews {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rv.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), rv.UserID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), rv.Rating)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), rv.Text)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), rv.Timestamp.Format(exportTimeLayout))
	}

	_ = f.SetColWidth(sheet, "A", "A", 8)
	_ = f.SetColWidth(sheet, "B", "C", 14)
	_ = f.SetColWidth(sheet, "D", "D", 60)
	_ = f.SetColWidth(sheet, "E", "E", 20)

	return e.save(f, "reviews")
}

func (e *Exporter) newWorkbook(sheet string, headers []string) (*excelize.File, string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return nil, "", fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		f.Close()
		return nil, "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	return f, sheet, nil
}

func (e *Exporter) save(f *excelize.File, kind string) (string, error) {
	fileName := fmt.Sprintf("%s_export_%s.xlsx", kind, time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("save export file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Excel export created")
	return filePath, nil
}

func boolToYesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
