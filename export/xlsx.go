package export

import (
	"fmt"

	m "moodindex/internal/model"

	"github.com/xuri/excelize/v2"
)

const sheet = "History"

var header = []interface{}{"Timestamp", "Value", "Mood", "Nifty", "FMA", "SMA"}

// WriteXLSX writes the history, one record per row, in stored order.
func WriteXLSX(history []m.Record, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range history {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Timestamp, r.Value, r.Mood.String(), optional(r.RawData.Nifty), optional(r.RawData.Fma), optional(r.RawData.Sma)}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func optional(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
