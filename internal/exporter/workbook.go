package exporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"cacases/internal/frame"
	"cacases/pkg/contracts/domain"
)

const summarySheet = "Summary"

// sheetName makes an entity name usable as a worksheet name.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if len([]rune(name)) > excelize.MaxSheetNameLength {
		name = string([]rune(name)[:excelize.MaxSheetNameLength])
	}
	return name
}

// WriteWorkbook writes a summary sheet followed by one sheet per entity
// holding the same table as its .data file.
func WriteWorkbook(w io.Writer, frames *frame.Collection, snapshot *domain.RunSnapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if err := writeSummarySheet(f, frames.Schema(), snapshot); err != nil {
		return err
	}

	for _, name := range frames.Names() {
		fr, _ := frames.Get(name)
		if err := writeFrameSheet(f, fr); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
	}

	f.SetActiveSheet(0)
	_, err := f.WriteTo(w)
	return err
}

func writeSummarySheet(f *excelize.File, schema frame.Schema, snapshot *domain.RunSnapshot) error {
	columns := schema.Names()
	header := []interface{}{"Entity", "Region", "Last Date", "Rows"}
	for _, c := range columns {
		header = append(header, c)
	}
	header = append(header, "Tier")

	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return err
	}

	for i, e := range snapshot.Entities {
		row := []interface{}{e.Name, e.Region, e.LastDate, e.Rows}
		for _, c := range columns {
			row = append(row, e.Last[c])
		}
		tier := ""
		if e.Tier != nil {
			tier = e.Tier.Summary
		}
		row = append(row, tier)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeFrameSheet(f *excelize.File, fr *frame.Frame) error {
	name := sheetName(fr.Name())
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	columns := fr.Schema().Names()
	header := []interface{}{"", fr.Schema().DateColumn}
	for _, c := range columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}

	for i, date := range fr.Dates() {
		row := []interface{}{i + 1, date}
		for _, c := range columns {
			v, ok := fr.Value(date, c)
			if !ok {
				return fmt.Errorf("missing %s on %s", c, date)
			}
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
