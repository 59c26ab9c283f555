package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	sheetParticipants = "Participants"
	sheetBAAs         = "Business Associates"
	exportTimeLayout  = "2006-01-02 15:04:05"
)

// ExportService spreadsheet exports.
//
// The workbook is returned as a buffer; the handler sets the download
// headers and writes it out.
type ExportService interface {
	// ExportSubmissions renders the submissions report as .xlsx with one
	// sheet for participants and one for business associates.
	ExportSubmissions(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	report ReportService
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService creates an ExportService.
func NewExportService(report ReportService, logger *zap.Logger) ExportService {
	return &exportService{report: report, logger: logger, now: time.Now}
}

func (s *exportService) ExportSubmissions(ctx context.Context) (*bytes.Buffer, string, error) {
	data, err := s.report.Submissions(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetParticipants); err != nil {
		return nil, "", s.fail(err)
	}
	if _, err := f.NewSheet(sheetBAAs); err != nil {
		return nil, "", s.fail(err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// ── participants ──
	pRows := [][]interface{}{{"Participant ID", "Name", "Login ID", "Assigned", "Completed", "Form", "Completed At"}}
	for _, p := range data.Participants {
		base := []interface{}{p.Participant.ID, p.Participant.Name, p.Participant.LoginID, p.Assigned, len(p.Completed)}
		if len(p.Completed) == 0 {
			pRows = append(pRows, append(base, "-", "-"))
			continue
		}
		for _, c := range p.Completed {
			row := append(append([]interface{}{}, base...), c.Name, formatTime(c.CompletedAt))
			pRows = append(pRows, row)
		}
	}
	if err := writeSheet(f, sheetParticipants, pRows, headerStyle, []float64{14, 24, 16, 10, 11, 28, 20}); err != nil {
		return nil, "", s.fail(err)
	}

	// ── business associates ──
	bRows := [][]interface{}{{"BAA ID", "Name", "Email", "Login ID", "Status", "Completed At"}}
	for _, b := range data.BAAs {
		status := "Pending"
		if b.CompletedAt != nil {
			status = "Completed"
		}
		bRows = append(bRows, []interface{}{b.ID, deref(b.Name), deref(b.Email), b.LoginID, status, formatTime(b.CompletedAt)})
	}
	if err := writeSheet(f, sheetBAAs, bRows, headerStyle, []float64{10, 24, 28, 16, 12, 20}); err != nil {
		return nil, "", s.fail(err)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", s.fail(err)
	}

	filename := fmt.Sprintf("submissions_%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) fail(err error) error {
	s.logger.Error("failed to build workbook", zap.Error(err))
	return ErrExportFailed
}

// ── helpers ──

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int, widths []float64) error {
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	for r, row := range rows {
		start, _ := excelize.CoordinatesToCellName(1, r+1)
		if err := f.SetSheetRow(sheet, start, &row); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(exportTimeLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
