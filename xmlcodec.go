package gridcalc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
)

// xmlCell is one <cell> record of a saved document.
type xmlCell struct {
	XMLName xml.Name `xml:"cell"`
	Row     string   `xml:"row,attr"`
	Col     string   `xml:"col,attr"`
	Text    string   `xml:"text,omitempty"`
	BGColor string   `xml:"bgColor,omitempty"`
}

type xmlDocument struct {
	XMLName xml.Name  `xml:"spreadsheet"`
	Cells   []xmlCell `xml:"cell"`
}

// cellRecord is the persisted state of one cell, independent of format.
type cellRecord struct {
	ref      CellRef
	text     string
	color    uint32
	hasColor bool
}

// Load replaces the sheet contents with an XML document. Every cell is
// first reset to empty text and the default color; cells absent from the
// document keep that state. The document is fully parsed before the sheet
// is touched, so a malformed document leaves the sheet unchanged.
func (s *Spreadsheet) Load(r io.Reader) error {
	records, err := s.decodeXML(r)
	if err != nil {
		return fmt.Errorf("load spreadsheet: %w", err)
	}
	s.apply(records)
	s.logger.Info("spreadsheet loaded", slog.Int("cells", len(records)))
	return nil
}

func (s *Spreadsheet) decodeXML(r io.Reader) ([]cellRecord, error) {
	dec := xml.NewDecoder(r)
	var records []cellRecord
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read xml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "cell" {
			continue
		}

		var xc xmlCell
		if err := dec.DecodeElement(&xc, &start); err != nil {
			return nil, fmt.Errorf("read cell element: %w", err)
		}
		rec, err := s.recordFromXML(xc)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Spreadsheet) recordFromXML(xc xmlCell) (cellRecord, error) {
	if xc.Row == "" || xc.Col == "" {
		return cellRecord{}, fmt.Errorf("cell has invalid indexing (row=%q col=%q)", xc.Row, xc.Col)
	}
	row, err := strconv.Atoi(xc.Row)
	if err != nil {
		return cellRecord{}, fmt.Errorf("cell has invalid row %q: %w", xc.Row, err)
	}
	col, err := strconv.Atoi(xc.Col)
	if err != nil {
		return cellRecord{}, fmt.Errorf("cell has invalid col %q: %w", xc.Col, err)
	}
	if !s.inBounds(row, col) {
		return cellRecord{}, fmt.Errorf("%w: cell (%d, %d) is outside the %dx%d grid", ErrIndexOutOfRange, row, col, s.rows, s.columns)
	}

	rec := cellRecord{ref: NewCellRef(row, col), text: xc.Text}
	if xc.BGColor != "" {
		color, err := parseColor(xc.BGColor)
		if err != nil {
			return cellRecord{}, fmt.Errorf("cell %s: %w", rec.ref, err)
		}
		rec.color = color
		rec.hasColor = true
	}
	return rec, nil
}

// apply resets the sheet and writes records into it. Malformed formulas are
// kept as text and logged; they show the bad-reference sentinel.
func (s *Spreadsheet) apply(records []cellRecord) {
	s.reset()
	for _, rec := range records {
		if rec.hasColor {
			s.cells[s.index(rec.ref)].setColor(rec.color)
		}
		if rec.text == "" {
			continue
		}
		if err := s.SetText(rec.ref.Row, rec.ref.Col, rec.text); err != nil {
			s.logger.Warn("malformed formula in document",
				slog.String("cell", rec.ref.String()),
				slog.String("error", err.Error()))
		}
	}
}

// Save writes every cell with text or a non-default color as an XML document.
func (s *Spreadsheet) Save(w io.Writer) error {
	doc := xmlDocument{}
	for _, c := range s.nonEmpty() {
		xc := xmlCell{
			Row:  strconv.Itoa(c.ref.Row),
			Col:  strconv.Itoa(c.ref.Col),
			Text: c.text,
		}
		if c.color != DefaultColor {
			xc.BGColor = formatColor(c.color)
		}
		doc.Cells = append(doc.Cells, xc)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}
	s.logger.Info("spreadsheet saved", slog.Int("cells", len(doc.Cells)))
	return nil
}
