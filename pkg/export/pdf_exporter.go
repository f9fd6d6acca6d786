package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a basic tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			value := row[header]
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// SeatingGrid describes one room's seat occupancy for grid rendering.
// Occupants is keyed by 1-based "row:column" and holds the label printed
// in that cell, typically the student number.
type SeatingGrid struct {
	RoomCode  string
	RoomName  string
	Width     int
	Depth     int
	Occupants map[string]string
}

// SeatKey builds the occupant map key for a 1-based row and column.
func SeatKey(row, column int) string {
	return fmt.Sprintf("%d:%d", row, column)
}

// RenderSeatingGrids creates a PDF with one landscape page per room,
// drawing the physical seat layout with occupied cells filled in.
func (e *PDFExporter) RenderSeatingGrids(title string, grids []SeatingGrid) ([]byte, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("pdf requires at least one room grid")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)

	for _, grid := range grids {
		if grid.Width <= 0 || grid.Depth <= 0 {
			return nil, fmt.Errorf("room %s has no usable layout", grid.RoomCode)
		}
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 14)
		heading := grid.RoomCode
		if grid.RoomName != "" {
			heading = fmt.Sprintf("%s - %s", grid.RoomCode, grid.RoomName)
		}
		if title != "" {
			heading = fmt.Sprintf("%s / %s", strings.ToUpper(title), heading)
		}
		pdf.CellFormat(0, 10, heading, "", 1, "C", false, 0, "")
		pdf.Ln(3)

		cellW := 277.0 / float64(grid.Width)
		if cellW > 30 {
			cellW = 30
		}
		cellH := 160.0 / float64(grid.Depth)
		if cellH > 14 {
			cellH = 14
		}

		pdf.SetFont("Arial", "", 8)
		for row := 1; row <= grid.Depth; row++ {
			for col := 1; col <= grid.Width; col++ {
				label, occupied := grid.Occupants[SeatKey(row, col)]
				if occupied {
					pdf.SetFillColor(225, 235, 245)
					pdf.CellFormat(cellW, cellH, label, "1", 0, "C", true, 0, "")
				} else {
					pdf.CellFormat(cellW, cellH, "", "1", 0, "C", false, 0, "")
				}
			}
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render seating pdf: %w", err)
	}
	return buf.Bytes(), nil
}
