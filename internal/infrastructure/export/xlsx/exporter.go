// Package xlsx renders quizzes as spreadsheets.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/eduassist/internal/core/domain"
)

const (
	SheetName   = "Quiz"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []string{"Pregunta", "Opción A", "Opción B", "Opción C", "Opción D", "Respuesta"}

type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) ContentType() string {
	return ContentType
}

// Export writes one row per item; options keep their shuffled order.
func (e *Exporter) Export(quiz domain.Quiz, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for col, title := range header {
		if err := setCell(f, col+1, 1, title); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "F1", bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "A", 80); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", "F", 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	for i, item := range quiz.Items {
		row := i + 2
		if err := setCell(f, 1, row, item.Question); err != nil {
			return err
		}
		for j := 0; j < domain.QuizOptionCount; j++ {
			value := ""
			if j < len(item.Options) {
				value = item.Options[j]
			}
			if err := setCell(f, j+2, row, value); err != nil {
				return err
			}
		}
		if err := setCell(f, domain.QuizOptionCount+2, row, item.Answer); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}
