package member

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const rosterSheet = "Members"

var rosterHeader = []string{
	"Code", "Name", "Email", "Phone", "Status", "Join Date", "Expiry Date", "Plan ID",
}

// Roster renders members as an .xlsx workbook with one row per member.
func Roster(members []Member) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(rosterSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(rosterSheet, "A1", &rosterHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(rosterHeader), 1)
	if err := f.SetCellStyle(rosterSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, m := range members {
		row := []interface{}{
			m.MemberCode, m.Name, m.Email, m.Phone, string(m.Status),
			m.JoinDate.Format("2006-01-02"), "", "",
		}
		if m.ExpiryDate != nil {
			row[6] = m.ExpiryDate.Format("2006-01-02")
		}
		if m.PlanID != nil {
			row[7] = *m.PlanID
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(rosterSheet, "A", "H", 18); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
