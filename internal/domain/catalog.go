package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/worldorder/worldorder/pkg/sheetimport"
)

const (
	// PlaceholderVendor remains after the last item of the last vendor is removed
	PlaceholderVendor = "未分類"
	// OtherVendor groups order items no catalog or fallback entry claims
	OtherVendor = "其他"

	MaxNameRunes       = 100
	MaxCatalogQuantity = 999999
)

// CatalogEntry is either a plain default quantity or a quantity with attribute tags.
// The zero value is a plain quantity of 0.
type CatalogEntry struct {
	qty        int
	attributes []string
	detailed   bool
}

func NewQuantityEntry(qty int) CatalogEntry {
	return CatalogEntry{qty: qty}
}

func NewDetailedEntry(qty int, attributes []string) CatalogEntry {
	attrs := make([]string, len(attributes))
	copy(attrs, attributes)
	return CatalogEntry{qty: qty, attributes: attrs, detailed: true}
}

func (e CatalogEntry) Quantity() int { return e.qty }

func (e CatalogEntry) IsDetailed() bool { return e.detailed }

// Attributes returns a copy; nil for plain entries
func (e CatalogEntry) Attributes() []string {
	if !e.detailed {
		return nil
	}
	out := make([]string, len(e.attributes))
	copy(out, e.attributes)
	return out
}

// WithQuantity keeps the entry's shape and attributes
func (e CatalogEntry) WithQuantity(qty int) CatalogEntry {
	if e.detailed {
		return NewDetailedEntry(qty, e.attributes)
	}
	return NewQuantityEntry(qty)
}

func (e CatalogEntry) MarshalJSON() ([]byte, error) {
	if !e.detailed {
		return json.Marshal(e.qty)
	}
	attrs := e.attributes
	if attrs == nil {
		attrs = []string{}
	}
	return json.Marshal(struct {
		Qty        int      `json:"qty"`
		Attributes []string `json:"attributes"`
	}{e.qty, attrs})
}

func (e *CatalogEntry) UnmarshalJSON(data []byte) error {
	r := gjson.ParseBytes(data)
	switch {
	case r.Type == gjson.Number:
		if r.Num != float64(int(r.Num)) {
			return fmt.Errorf("catalog quantity must be an integer, got %s", r.Raw)
		}
		*e = NewQuantityEntry(int(r.Int()))
	case r.IsObject():
		var attrs []string
		for _, a := range r.Get("attributes").Array() {
			attrs = append(attrs, a.String())
		}
		*e = NewDetailedEntry(int(r.Get("qty").Int()), attrs)
	default:
		return fmt.Errorf("catalog entry must be a number or an object, got %s", r.Raw)
	}
	return nil
}

type CatalogItem struct {
	Name  string
	Entry CatalogEntry
}

type Vendor struct {
	Name  string
	Items []CatalogItem
}

// VendorMap is a world's catalog. Vendor and item order is significant and survives
// JSON encoding.
type VendorMap struct {
	Vendors []Vendor
}

// VendorMapFromImport converts a spreadsheet catalog
func VendorMapFromImport(c *sheetimport.Catalog) *VendorMap {
	vm := &VendorMap{}
	if c == nil {
		return vm
	}
	for _, v := range c.Vendors {
		for _, it := range v.Items {
			entry := NewQuantityEntry(it.Qty)
			if len(it.Attributes) > 0 {
				entry = NewDetailedEntry(it.Qty, it.Attributes)
			}
			_ = vm.put(v.Name, it.Name, entry, true)
		}
	}
	return vm
}

func (vm *VendorMap) Clone() *VendorMap {
	if vm == nil {
		return nil
	}
	out := &VendorMap{Vendors: make([]Vendor, len(vm.Vendors))}
	for i, v := range vm.Vendors {
		items := make([]CatalogItem, len(v.Items))
		for j, it := range v.Items {
			items[j] = CatalogItem{Name: it.Name, Entry: it.Entry.WithQuantity(it.Entry.Quantity())}
		}
		out.Vendors[i] = Vendor{Name: v.Name, Items: items}
	}
	return out
}

// HasItems reports whether any vendor holds at least one item
func (vm *VendorMap) HasItems() bool {
	if vm == nil {
		return false
	}
	for _, v := range vm.Vendors {
		if len(v.Items) > 0 {
			return true
		}
	}
	return false
}

func (vm *VendorMap) ItemCount() int {
	if vm == nil {
		return 0
	}
	n := 0
	for _, v := range vm.Vendors {
		n += len(v.Items)
	}
	return n
}

// Validate is the rule for saving a catalog: no empty catalog, no empty vendor
func (vm *VendorMap) Validate() error {
	if !vm.HasItems() {
		return ErrEmptyCatalog
	}
	for _, v := range vm.Vendors {
		if err := ValidateVendorName(v.Name); err != nil {
			return err
		}
		if len(v.Items) == 0 {
			return NewValidationError(fmt.Sprintf("vendor %s has no items", v.Name))
		}
		for _, it := range v.Items {
			if err := ValidateItemName(it.Name); err != nil {
				return err
			}
			if q := it.Entry.Quantity(); q < 0 || q > MaxCatalogQuantity {
				return NewValidationError(fmt.Sprintf("quantity for %s must be between 0 and %d", it.Name, MaxCatalogQuantity))
			}
		}
	}
	return nil
}

func (vm *VendorMap) vendorIndex(name string) int {
	for i, v := range vm.Vendors {
		if v.Name == name {
			return i
		}
	}
	return -1
}

func itemIndex(v *Vendor, name string) int {
	for i, it := range v.Items {
		if it.Name == name {
			return i
		}
	}
	return -1
}

// Lookup finds an item's entry under a vendor
func (vm *VendorMap) Lookup(vendor, item string) (CatalogEntry, bool) {
	if vm == nil {
		return CatalogEntry{}, false
	}
	vi := vm.vendorIndex(vendor)
	if vi < 0 {
		return CatalogEntry{}, false
	}
	ii := itemIndex(&vm.Vendors[vi], item)
	if ii < 0 {
		return CatalogEntry{}, false
	}
	return vm.Vendors[vi].Items[ii].Entry, true
}

// put inserts or, when overwrite is set, replaces an item, creating the vendor if needed
func (vm *VendorMap) put(vendor, item string, entry CatalogEntry, overwrite bool) error {
	vi := vm.vendorIndex(vendor)
	if vi < 0 {
		vm.Vendors = append(vm.Vendors, Vendor{Name: vendor})
		vi = len(vm.Vendors) - 1
	}
	v := &vm.Vendors[vi]
	if ii := itemIndex(v, item); ii >= 0 {
		if !overwrite {
			return ErrCatalogItemExists
		}
		v.Items[ii].Entry = entry
		return nil
	}
	v.Items = append(v.Items, CatalogItem{Name: item, Entry: entry})
	return nil
}

// AddItem appends an item, creating the vendor when it does not exist yet.
// An empty placeholder vendor is dropped once a real vendor gains an item.
func (vm *VendorMap) AddItem(vendor, item string, entry CatalogEntry) error {
	if err := ValidateVendorName(vendor); err != nil {
		return err
	}
	if err := ValidateItemName(item); err != nil {
		return err
	}
	if err := vm.put(vendor, item, entry, false); err != nil {
		return err
	}
	if vendor != PlaceholderVendor {
		if pi := vm.vendorIndex(PlaceholderVendor); pi >= 0 && len(vm.Vendors[pi].Items) == 0 {
			vm.Vendors = append(vm.Vendors[:pi], vm.Vendors[pi+1:]...)
		}
	}
	return nil
}

// RemoveItem deletes an item. A vendor left without items is removed; when no
// vendor remains a single empty placeholder vendor is kept.
func (vm *VendorMap) RemoveItem(vendor, item string) error {
	vi := vm.vendorIndex(vendor)
	if vi < 0 {
		return ErrCatalogNotFound
	}
	v := &vm.Vendors[vi]
	ii := itemIndex(v, item)
	if ii < 0 {
		return ErrCatalogNotFound
	}
	v.Items = append(v.Items[:ii], v.Items[ii+1:]...)
	if len(v.Items) == 0 {
		vm.Vendors = append(vm.Vendors[:vi], vm.Vendors[vi+1:]...)
	}
	if len(vm.Vendors) == 0 {
		vm.Vendors = []Vendor{{Name: PlaceholderVendor}}
	}
	return nil
}

// UpdateItem renames an item and/or changes its default quantity in place
func (vm *VendorMap) UpdateItem(vendor, item string, newName *string, newQty *int) error {
	vi := vm.vendorIndex(vendor)
	if vi < 0 {
		return ErrCatalogNotFound
	}
	v := &vm.Vendors[vi]
	ii := itemIndex(v, item)
	if ii < 0 {
		return ErrCatalogNotFound
	}
	if newName != nil && *newName != item {
		if err := ValidateItemName(*newName); err != nil {
			return err
		}
		if itemIndex(v, *newName) >= 0 {
			return ErrCatalogItemExists
		}
		v.Items[ii].Name = *newName
	}
	if newQty != nil {
		if *newQty < 0 || *newQty > MaxCatalogQuantity {
			return NewValidationError(fmt.Sprintf("quantity must be between 0 and %d", MaxCatalogQuantity))
		}
		v.Items[ii].Entry = v.Items[ii].Entry.WithQuantity(*newQty)
	}
	return nil
}

// ValidateItemName rejects names the catalog text grammar could not round-trip
func ValidateItemName(name string) error {
	return validateCatalogName("item", name)
}

func ValidateVendorName(name string) error {
	if err := validateCatalogName("vendor", name); err != nil {
		return err
	}
	if strings.HasSuffix(name, ":") || strings.HasSuffix(name, "：") {
		return NewValidationError("vendor name must not end with a colon")
	}
	return nil
}

func validateCatalogName(kind, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return NewValidationError(kind + " name is required")
	case name != strings.TrimSpace(name):
		return NewValidationError(kind + " name must not start or end with spaces")
	case utf8.RuneCountInString(name) > MaxNameRunes:
		return NewValidationError(fmt.Sprintf("%s name must be at most %d characters", kind, MaxNameRunes))
	case strings.ContainsAny(name, "\n\r[]"):
		return NewValidationError(kind + " name must be a single line without brackets")
	case strings.HasPrefix(name, "-"):
		return NewValidationError(kind + " name must not start with '-'")
	}
	return nil
}

// ResolveVendorForItemName picks the vendor whose catalog item is the longest prefix of
// the ordered name ("奶茶 大杯 少冰" matches "奶茶 大杯" before "奶茶"). Ties keep the first
// match in catalog order. Without a match the fallback table is consulted the same way,
// then OtherVendor is returned.
func ResolveVendorForItemName(item string, catalog *VendorMap, fallback map[string]string) string {
	best, bestLen := "", -1
	if catalog != nil {
		for _, v := range catalog.Vendors {
			for _, it := range v.Items {
				if n := prefixMatchLen(item, it.Name); n > bestLen {
					best, bestLen = v.Name, n
				}
			}
		}
	}
	if bestLen >= 0 {
		return best
	}

	names := make([]string, 0, len(fallback))
	for name := range fallback {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if n := prefixMatchLen(item, name); n > bestLen {
			best, bestLen = fallback[name], n
		}
	}
	if bestLen >= 0 {
		return best
	}
	return OtherVendor
}

func prefixMatchLen(item, catalogName string) int {
	if catalogName == "" {
		return -1
	}
	if item == catalogName || strings.HasPrefix(item, catalogName+" ") {
		return utf8.RuneCountInString(catalogName)
	}
	return -1
}

// MarshalJSON writes {"vendor": {"item": entry}} preserving order
func (vm VendorMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range vm.Vendors {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(v.Name)
		buf.Write(key)
		buf.WriteString(":{")
		for j, it := range v.Items {
			if j > 0 {
				buf.WriteByte(',')
			}
			k, _ := json.Marshal(it.Name)
			buf.Write(k)
			buf.WriteByte(':')
			entry, err := it.Entry.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(entry)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form, keeping key order
func (vm *VendorMap) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid catalog json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("catalog must be a json object")
	}

	out := VendorMap{}
	var err error
	root.ForEach(func(vendor, items gjson.Result) bool {
		if !items.IsObject() {
			err = fmt.Errorf("vendor %s must map to an object", vendor.String())
			return false
		}
		v := Vendor{Name: vendor.String()}
		items.ForEach(func(name, value gjson.Result) bool {
			var entry CatalogEntry
			if err = entry.UnmarshalJSON([]byte(value.Raw)); err != nil {
				return false
			}
			v.Items = append(v.Items, CatalogItem{Name: name.String(), Entry: entry})
			return true
		})
		if err != nil {
			return false
		}
		out.Vendors = append(out.Vendors, v)
		return true
	})
	if err != nil {
		return err
	}
	*vm = out
	return nil
}

// Value implements the driver.Valuer interface for JSON columns
func (vm VendorMap) Value() (driver.Value, error) {
	return vm.MarshalJSON()
}

// Scan implements the sql.Scanner interface
func (vm *VendorMap) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*vm = VendorMap{}
		return nil
	case []byte:
		return vm.UnmarshalJSON(bytes.Clone(v))
	case string:
		return vm.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("type assertion to []byte failed")
	}
}
