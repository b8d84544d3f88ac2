package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CatalogIssueKind classifies why a catalog text block was rejected
type CatalogIssueKind string

const (
	CatalogIssueEmpty         CatalogIssueKind = "empty"
	CatalogIssueMissingVendor CatalogIssueKind = "missing_vendor"
	CatalogIssueMissingItems  CatalogIssueKind = "missing_items"
	CatalogIssueInvalidItem   CatalogIssueKind = "invalid_item"
)

// CatalogIssue is the first problem found in a catalog text block
type CatalogIssue struct {
	Kind   CatalogIssueKind
	Vendor string
	Line   int // 1-based, 0 when not tied to a line
	Text   string
}

func (i *CatalogIssue) Error() string {
	switch i.Kind {
	case CatalogIssueMissingVendor:
		return fmt.Sprintf("line %d: item before any vendor", i.Line)
	case CatalogIssueMissingItems:
		return fmt.Sprintf("vendor %s has no items", i.Vendor)
	case CatalogIssueInvalidItem:
		return fmt.Sprintf("line %d: invalid item %q", i.Line, i.Text)
	default:
		return "catalog is empty"
	}
}

type lineKind int

const (
	lineVendor lineKind = iota
	lineDashItem
	lineQtyItem
)

// splitAttributes strips a trailing "[a, b]" suffix
func splitAttributes(s string) (string, []string, bool) {
	if !strings.HasSuffix(s, "]") {
		return s, nil, false
	}
	open := strings.LastIndex(s, "[")
	if open < 0 {
		return s, nil, false
	}
	inner := s[open+1 : len(s)-1]
	attrs := []string{}
	for _, a := range strings.FieldsFunc(inner, func(r rune) bool { return r == ',' || r == '，' || r == '、' }) {
		if a = strings.TrimSpace(a); a != "" {
			attrs = append(attrs, a)
		}
	}
	return strings.TrimSpace(s[:open]), attrs, true
}

func endsWithInteger(s string) bool {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return false
	}
	_, err := strconv.Atoi(fields[len(fields)-1])
	return err == nil
}

// classify decides the role of a non-blank line. Unindented lines ending in an
// integer are items so a pasted "全聯\n雞蛋 10" works without indentation; a trailing
// colon always marks a vendor.
func classify(raw string) lineKind {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "-") {
		return lineDashItem
	}
	first := []rune(raw)[0]
	if first == ' ' || first == '\t' || first == '　' {
		return lineQtyItem
	}
	if strings.HasSuffix(trimmed, ":") || strings.HasSuffix(trimmed, "：") {
		return lineVendor
	}
	core, _, _ := splitAttributes(trimmed)
	if endsWithInteger(core) {
		return lineQtyItem
	}
	return lineVendor
}

func parseItemLine(kind lineKind, trimmed string) (string, CatalogEntry, bool) {
	body, attrs, detailed := splitAttributes(trimmed)
	var name string
	qty := 0

	if kind == lineDashItem {
		name = strings.TrimSpace(strings.TrimPrefix(body, "-"))
	} else {
		fields := strings.Fields(body)
		if len(fields) < 2 {
			return "", CatalogEntry{}, false
		}
		last := fields[len(fields)-1]
		n, err := strconv.Atoi(last)
		if err != nil || n <= 0 || n > MaxCatalogQuantity {
			return "", CatalogEntry{}, false
		}
		qty = n
		name = strings.TrimSpace(strings.TrimSuffix(body, last))
	}

	if ValidateItemName(name) != nil {
		return "", CatalogEntry{}, false
	}
	if detailed {
		return name, NewDetailedEntry(qty, attrs), true
	}
	return name, NewQuantityEntry(qty), true
}

// ParseVendorMapText reads the line-oriented catalog grammar:
//
//	全聯
//	  雞蛋 10
//	  - 衛生紙
//	飲料店：
//	  奶茶 2 [大杯, 少冰]
//
// It returns nil and the first issue when the block is empty, an item precedes any
// vendor, an item line lacks a quantity in 1..999999, or a vendor ends up with no items.
func ParseVendorMapText(text string) (*VendorMap, *CatalogIssue) {
	vm := &VendorMap{}
	current := -1
	seen := 0

	for i, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		seen++
		lineNo := i + 1

		kind := classify(raw)
		if kind == lineVendor {
			name := strings.TrimSpace(strings.TrimRight(trimmed, ":："))
			if ValidateVendorName(name) != nil {
				return nil, &CatalogIssue{Kind: CatalogIssueInvalidItem, Line: lineNo, Text: trimmed}
			}
			current = vm.vendorIndex(name)
			if current < 0 {
				vm.Vendors = append(vm.Vendors, Vendor{Name: name})
				current = len(vm.Vendors) - 1
			}
			continue
		}

		if current < 0 {
			return nil, &CatalogIssue{Kind: CatalogIssueMissingVendor, Line: lineNo, Text: trimmed}
		}
		name, entry, ok := parseItemLine(kind, trimmed)
		if !ok {
			return nil, &CatalogIssue{Kind: CatalogIssueInvalidItem, Vendor: vm.Vendors[current].Name, Line: lineNo, Text: trimmed}
		}
		_ = vm.put(vm.Vendors[current].Name, name, entry, true)
	}

	if seen == 0 {
		return nil, &CatalogIssue{Kind: CatalogIssueEmpty}
	}
	for _, v := range vm.Vendors {
		if len(v.Items) == 0 {
			return nil, &CatalogIssue{Kind: CatalogIssueMissingItems, Vendor: v.Name}
		}
	}
	return vm, nil
}

// ValidateVendorMapFormat is ParseVendorMapText without the diagnosis
func ValidateVendorMapFormat(text string) *VendorMap {
	vm, _ := ParseVendorMapText(text)
	return vm
}

// RenderVendorMapText writes the grammar ParseVendorMapText reads. Vendor names that
// would otherwise read as item lines get a trailing colon.
func RenderVendorMapText(vm *VendorMap) string {
	if vm == nil {
		return ""
	}
	var b strings.Builder
	for i, v := range vm.Vendors {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(v.Name)
		if classify(v.Name) != lineVendor {
			b.WriteString("：")
		}
		for _, it := range v.Items {
			b.WriteString("\n  ")
			if it.Entry.Quantity() == 0 {
				b.WriteString("- ")
				b.WriteString(it.Name)
			} else {
				b.WriteString(it.Name)
				b.WriteByte(' ')
				b.WriteString(strconv.Itoa(it.Entry.Quantity()))
			}
			if it.Entry.IsDetailed() {
				b.WriteString(" [")
				b.WriteString(strings.Join(it.Entry.Attributes(), ", "))
				b.WriteByte(']')
			}
		}
	}
	return b.String()
}
