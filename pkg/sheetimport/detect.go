package sheetimport

import (
	"strings"
)

var headerKeywords = map[string][]string{
	"vendor":  {"廠商", "供應商", "店家", "vendor", "supplier"},
	"item":    {"品項", "品名", "商品", "名稱", "item", "name", "product"},
	"qty":     {"數量", "預設數量", "qty", "quantity", "amount"},
	"attr":    {"屬性", "規格", "標籤", "attribute", "attributes", "tags"},
	"options": {"選項", "option", "options"},
}

func matchHeader(cell string) string {
	c := strings.ToLower(strings.TrimSpace(cell))
	if c == "" {
		return ""
	}
	// check longer concepts first so 預設數量 is not read as something else
	for _, kind := range []string{"options", "attr", "qty", "vendor", "item"} {
		for _, kw := range headerKeywords[kind] {
			if c == kw || strings.Contains(c, kw) {
				return kind
			}
		}
	}
	return ""
}

// DetectMapping guesses the catalog columns. A header row is recognised by keywords;
// otherwise the quantity column is the one that is mostly integers and the text
// columns to its left are vendor then item. Returns nil when no item column can be found.
func DetectMapping(s *Sheet) *Mapping {
	if s == nil {
		return nil
	}
	first := -1
	for i, row := range s.Rows {
		if !isBlank(row) {
			first = i
			break
		}
	}
	if first < 0 {
		return nil
	}

	if m := detectFromHeader(s.Rows[first], first); m != nil {
		return m
	}
	return detectFromContent(s.Rows, first)
}

func detectFromHeader(header []string, rowIndex int) *Mapping {
	found := map[string]int{}
	for i, c := range header {
		kind := matchHeader(c)
		if kind == "" {
			continue
		}
		if _, dup := found[kind]; !dup {
			found[kind] = i
		}
	}
	item, ok := found["item"]
	if !ok {
		return nil
	}
	m := &Mapping{ItemColumn: item, QtyColumn: -1, HasHeader: true, StartRow: rowIndex + 1}
	if q, ok := found["qty"]; ok {
		m.QtyColumn = q
	}
	if v, ok := found["vendor"]; ok {
		m.VendorColumn = colPtr(v)
	}
	if a, ok := found["attr"]; ok {
		m.AttrColumn = colPtr(a)
	}
	if o, ok := found["options"]; ok {
		m.OptionsColumn = colPtr(o)
	}
	return m
}

func detectFromContent(rows [][]string, start int) *Mapping {
	width := 0
	for _, r := range rows[start:] {
		if len(r) > width {
			width = len(r)
		}
	}
	numeric := make([]int, width)
	text := make([]int, width)
	for _, r := range rows[start:] {
		for i := 0; i < width; i++ {
			c := cell(r, i)
			if c == "" {
				continue
			}
			if _, ok := parseQty(c); ok {
				numeric[i]++
			} else {
				text[i]++
			}
		}
	}

	qty := -1
	for i := 0; i < width; i++ {
		if numeric[i] > 0 && numeric[i] >= text[i] && (qty < 0 || numeric[i] > numeric[qty]) {
			qty = i
		}
	}

	var textCols []int
	for i := 0; i < width; i++ {
		if i != qty && text[i] > 0 {
			textCols = append(textCols, i)
		}
	}
	if len(textCols) == 0 {
		return nil
	}

	m := &Mapping{ItemColumn: textCols[0], QtyColumn: qty, StartRow: start}
	if len(textCols) >= 2 && (qty < 0 || textCols[1] < qty) {
		m.VendorColumn = colPtr(textCols[0])
		m.ItemColumn = textCols[1]
	}
	return m
}
