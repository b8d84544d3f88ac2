// Package sheetimport turns a spreadsheet of vendors and items into a catalog.
package sheetimport

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrorKind is a machine-readable import failure class
type ErrorKind string

const (
	ErrNoSheet         ErrorKind = "no_sheet"
	ErrEmptyRange      ErrorKind = "empty_range"
	ErrNoValidRows     ErrorKind = "no_valid_rows"
	ErrAllRowsFiltered ErrorKind = "all_rows_filtered"
	ErrNoMapping       ErrorKind = "no_mapping"
)

type ImportError struct {
	Kind   ErrorKind
	Detail string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// DefaultVendor labels items from sheets without a vendor column
const DefaultVendor = "未分類"

const maxQuantity = 999999

// Sheet is the grid of one worksheet, as strings
type Sheet struct {
	Name string
	Rows [][]string
}

// Mapping locates the catalog columns (0-based) and the first data row
type Mapping struct {
	VendorColumn  *int `json:"vendorColumn,omitempty"`
	ItemColumn    int  `json:"itemColumn"`
	QtyColumn     int  `json:"qtyColumn"`
	AttrColumn    *int `json:"attrColumn,omitempty"`
	OptionsColumn *int `json:"optionsColumn,omitempty"`
	HasHeader     bool `json:"hasHeader"`
	StartRow      int  `json:"startRow"`
}

type Item struct {
	Name       string
	Qty        int
	Attributes []string
}

type Vendor struct {
	Name  string
	Items []Item
}

// Catalog keeps vendors and items in sheet order
type Catalog struct {
	Vendors []Vendor
}

// AttributeOption is one named choice group for an item, e.g. 甜度: 正常, 半糖
type AttributeOption struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// ItemOptions maps item name to its option groups
type ItemOptions map[string][]AttributeOption

// Open reads a workbook and returns the named sheet, or the first one when name is empty
func Open(r io.Reader, name string) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if name == "" {
		name = f.GetSheetName(0)
	}
	if name == "" {
		return nil, &ImportError{Kind: ErrNoSheet, Detail: "workbook has no sheets"}
	}
	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, &ImportError{Kind: ErrNoSheet, Detail: fmt.Sprintf("sheet %q not found", name)}
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return &Sheet{Name: name, Rows: rows}, nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func colPtr(i int) *int { return &i }

func parseQty(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// sheets often store whole numbers as "10.0"
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, false
		}
		n = int(f)
	}
	if n < 0 || n > maxQuantity {
		return 0, false
	}
	return n, true
}

func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '，' || r == '、' || r == '/' || r == ';'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ParseToVendorMap reads the mapped range. A blank vendor cell continues the vendor above it.
func ParseToVendorMap(s *Sheet, m *Mapping) (*Catalog, error) {
	if m == nil {
		return nil, &ImportError{Kind: ErrNoMapping, Detail: "no column mapping"}
	}
	if s == nil || m.StartRow >= len(s.Rows) {
		return nil, &ImportError{Kind: ErrEmptyRange, Detail: "no rows after the header"}
	}

	catalog := &Catalog{}
	index := map[string]int{}
	vendor := DefaultVendor
	nonEmpty, accepted := 0, 0

	for _, row := range s.Rows[m.StartRow:] {
		if isBlank(row) {
			continue
		}
		nonEmpty++

		if m.VendorColumn != nil {
			if v := cell(row, *m.VendorColumn); v != "" {
				vendor = v
			}
		}
		name := cell(row, m.ItemColumn)
		qty, ok := parseQty(cell(row, m.QtyColumn))
		if name == "" || !ok || len([]rune(name)) > 100 {
			continue
		}

		item := Item{Name: name, Qty: qty}
		if m.AttrColumn != nil {
			item.Attributes = splitList(cell(row, *m.AttrColumn))
		}

		i, seen := index[vendor]
		if !seen {
			i = len(catalog.Vendors)
			index[vendor] = i
			catalog.Vendors = append(catalog.Vendors, Vendor{Name: vendor})
		}
		catalog.Vendors[i].Items = append(catalog.Vendors[i].Items, item)
		accepted++
	}

	if nonEmpty == 0 {
		return nil, &ImportError{Kind: ErrNoValidRows, Detail: "every row in range is empty"}
	}
	if accepted == 0 {
		return nil, &ImportError{Kind: ErrAllRowsFiltered, Detail: fmt.Sprintf("%d rows had no item name or an invalid quantity", nonEmpty)}
	}
	return catalog, nil
}

// ParseItemOptions reads option groups written as "甜度:正常,半糖; 尺寸:大,中"
func ParseItemOptions(s *Sheet, m *Mapping) (ItemOptions, error) {
	out := ItemOptions{}
	if m == nil {
		return nil, &ImportError{Kind: ErrNoMapping, Detail: "no column mapping"}
	}
	if m.OptionsColumn == nil || s == nil || m.StartRow >= len(s.Rows) {
		return out, nil
	}

	for _, row := range s.Rows[m.StartRow:] {
		name := cell(row, m.ItemColumn)
		raw := cell(row, *m.OptionsColumn)
		if name == "" || raw == "" {
			continue
		}
		for _, group := range strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == '；' || r == '\n' }) {
			label, values, found := cutAny(group, ":", "：")
			if !found {
				continue
			}
			opts := splitList(values)
			label = strings.TrimSpace(label)
			if label == "" || len(opts) == 0 {
				continue
			}
			out[name] = append(out[name], AttributeOption{Name: label, Options: opts})
		}
	}
	return out, nil
}

func cutAny(s string, seps ...string) (string, string, bool) {
	for _, sep := range seps {
		if before, after, ok := strings.Cut(s, sep); ok {
			return before, after, true
		}
	}
	return s, "", false
}

// Preview returns up to maxRows rows padded to a common width
func Preview(s *Sheet, maxRows int) [][]string {
	if s == nil {
		return nil
	}
	rows := s.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		padded := make([]string, width)
		copy(padded, r)
		out[i] = padded
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
