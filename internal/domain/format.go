package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// OrderFormat constrains order item names. When both rules are set an item must pass both.
type OrderFormat struct {
	RequiredFields []string `json:"requiredFields,omitempty"`
	ItemFormat     string   `json:"itemFormat,omitempty"`

	compiled *regexp.Regexp
}

// ParseOrderFormat reads {"requiredFields": [...], "itemFormat": "regex"}
func ParseOrderFormat(raw string) (*OrderFormat, error) {
	raw = strings.TrimSpace(raw)
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return nil, NewValidationError("order format must be a JSON object")
	}
	doc := gjson.Parse(raw)

	f := &OrderFormat{}
	if rf := doc.Get("requiredFields"); rf.Exists() {
		if !rf.IsArray() {
			return nil, NewValidationError("requiredFields must be an array of strings")
		}
		for _, v := range rf.Array() {
			if v.Type != gjson.String || strings.TrimSpace(v.String()) == "" {
				return nil, NewValidationError("requiredFields must be an array of non-empty strings")
			}
			f.RequiredFields = append(f.RequiredFields, v.String())
		}
	}
	if itf := doc.Get("itemFormat"); itf.Exists() {
		if itf.Type != gjson.String {
			return nil, NewValidationError("itemFormat must be a string")
		}
		f.ItemFormat = itf.String()
	}
	if len(f.RequiredFields) == 0 && f.ItemFormat == "" {
		return nil, NewValidationError("order format needs requiredFields or itemFormat")
	}
	if err := f.compile(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *OrderFormat) compile() error {
	if f.ItemFormat == "" || f.compiled != nil {
		return nil
	}
	re, err := regexp.Compile(f.ItemFormat)
	if err != nil {
		return NewValidationError(fmt.Sprintf("itemFormat is not a valid regular expression: %v", err))
	}
	f.compiled = re
	return nil
}

// CheckItem reports why an item name violates the format, or "" when it complies
func (f *OrderFormat) CheckItem(name string) string {
	if f == nil {
		return ""
	}
	for _, field := range f.RequiredFields {
		if !strings.Contains(name, field) {
			return fmt.Sprintf("缺少「%s」", field)
		}
	}
	if f.ItemFormat != "" {
		if err := f.compile(); err != nil {
			return "格式規則無效"
		}
		if !f.compiled.MatchString(name) {
			return fmt.Sprintf("不符合格式 %s", f.ItemFormat)
		}
	}
	return ""
}

// Equal compares the rules, ignoring the compiled cache
func (f *OrderFormat) Equal(other *OrderFormat) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f.ItemFormat != other.ItemFormat || len(f.RequiredFields) != len(other.RequiredFields) {
		return false
	}
	for i := range f.RequiredFields {
		if f.RequiredFields[i] != other.RequiredFields[i] {
			return false
		}
	}
	return true
}

// Value implements the driver.Valuer interface for JSON columns
func (f OrderFormat) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements the sql.Scanner interface
func (f *OrderFormat) Scan(value interface{}) error {
	return scanJSON(value, f)
}

// DisplayFormat renders aggregated order lines, one template per line
type DisplayFormat struct {
	Template  string `json:"template"`
	ShowUsers *bool  `json:"showUsers,omitempty"`
}

// ParseDisplayFormat reads {"template": "...", "showUsers": bool}
func ParseDisplayFormat(raw string) (*DisplayFormat, error) {
	raw = strings.TrimSpace(raw)
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return nil, NewValidationError("display format must be a JSON object")
	}
	doc := gjson.Parse(raw)
	tpl := doc.Get("template")
	if tpl.Type != gjson.String || strings.TrimSpace(tpl.String()) == "" {
		return nil, NewValidationError("display format needs a non-empty template")
	}
	f := &DisplayFormat{Template: tpl.String()}
	if su := doc.Get("showUsers"); su.Exists() {
		if su.Type != gjson.True && su.Type != gjson.False {
			return nil, NewValidationError("showUsers must be true or false")
		}
		show := su.Bool()
		f.ShowUsers = &show
	}
	return f, nil
}

// showUsers is off unless the format turns it on
func (f *DisplayFormat) showUsers() bool {
	return f.ShowUsers != nil && *f.ShowUsers
}

// DisplayLine is one aggregated (vendor, branch, item) row
type DisplayLine struct {
	Vendor string
	Branch string
	Item   string
	Qty    int
	Users  []string
}

// AggregateDisplayLines sums quantities per (vendor, branch, item) and collects the
// distinct actor labels, sorted by vendor, branch then item.
func AggregateDisplayLines(orders []*Order, vendorOf func(item string) string) []DisplayLine {
	type key struct{ vendor, branch, item string }
	index := map[key]int{}
	users := map[key]map[string]struct{}{}
	var lines []DisplayLine

	for _, o := range orders {
		for _, it := range o.Items {
			k := key{vendorOf(it.ItemName), o.Branch, it.ItemName}
			i, ok := index[k]
			if !ok {
				i = len(lines)
				index[k] = i
				users[k] = map[string]struct{}{}
				lines = append(lines, DisplayLine{Vendor: k.vendor, Branch: k.branch, Item: k.item})
			}
			lines[i].Qty += it.Quantity
			if o.ActorLabel != "" {
				users[k][o.ActorLabel] = struct{}{}
			}
		}
	}

	for k, i := range index {
		for u := range users[k] {
			lines[i].Users = append(lines[i].Users, u)
		}
		sort.Strings(lines[i].Users)
	}
	sort.SliceStable(lines, func(a, b int) bool {
		if lines[a].Vendor != lines[b].Vendor {
			return lines[a].Vendor < lines[b].Vendor
		}
		if lines[a].Branch != lines[b].Branch {
			return lines[a].Branch < lines[b].Branch
		}
		return lines[a].Item < lines[b].Item
	})
	return lines
}

// Render substitutes {vendor} {branch} {item} {qty} {users} per line and expands
// literal \n sequences afterwards.
func (f *DisplayFormat) Render(lines []DisplayLine) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		users := ""
		if f.showUsers() && len(l.Users) > 0 {
			users = "(" + strings.Join(l.Users, ", ") + ")"
		}
		s := strings.NewReplacer(
			"{vendor}", l.Vendor,
			"{branch}", l.Branch,
			"{item}", l.Item,
			"{qty}", strconv.Itoa(l.Qty),
			"{users}", users,
		).Replace(f.Template)
		out = append(out, strings.ReplaceAll(s, `\n`, "\n"))
	}
	return strings.Join(out, "\n")
}

// Value implements the driver.Valuer interface for JSON columns
func (f DisplayFormat) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements the sql.Scanner interface
func (f *DisplayFormat) Scan(value interface{}) error {
	return scanJSON(value, f)
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(bytes.Clone(v), dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("type assertion to []byte failed")
	}
}
