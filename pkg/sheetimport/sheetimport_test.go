package sheetimport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, sheet string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for r, row := range rows {
		for c, v := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, name, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestOpen(t *testing.T) {
	buf := workbook(t, "Sheet1", [][]interface{}{{"廠商", "品項", "數量"}, {"全聯", "雞蛋", 10}})

	s, err := Open(bytes.NewReader(buf.Bytes()), "")
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", s.Name)
	assert.Len(t, s.Rows, 2)

	_, err = Open(bytes.NewReader(buf.Bytes()), "Missing")
	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, ErrNoSheet, importErr.Kind)
}

func TestDetectMapping_Header(t *testing.T) {
	s := &Sheet{Rows: [][]string{
		{},
		{"廠商", "品名", "預設數量", "規格", "選項"},
		{"全聯", "雞蛋", "10"},
	}}

	m := DetectMapping(s)
	require.NotNil(t, m)
	assert.True(t, m.HasHeader)
	assert.Equal(t, 2, m.StartRow)
	require.NotNil(t, m.VendorColumn)
	assert.Equal(t, 0, *m.VendorColumn)
	assert.Equal(t, 1, m.ItemColumn)
	assert.Equal(t, 2, m.QtyColumn)
	require.NotNil(t, m.AttrColumn)
	assert.Equal(t, 3, *m.AttrColumn)
	require.NotNil(t, m.OptionsColumn)
	assert.Equal(t, 4, *m.OptionsColumn)
}

func TestDetectMapping_Content(t *testing.T) {
	s := &Sheet{Rows: [][]string{
		{"全聯", "雞蛋", "10"},
		{"", "牛奶", "5"},
		{"好市多", "吐司", "2"},
	}}

	m := DetectMapping(s)
	require.NotNil(t, m)
	assert.False(t, m.HasHeader)
	require.NotNil(t, m.VendorColumn)
	assert.Equal(t, 0, *m.VendorColumn)
	assert.Equal(t, 1, m.ItemColumn)
	assert.Equal(t, 2, m.QtyColumn)

	assert.Nil(t, DetectMapping(&Sheet{Rows: [][]string{{"1", "2"}}}))
	assert.Nil(t, DetectMapping(&Sheet{}))
}

func TestParseToVendorMap(t *testing.T) {
	s := &Sheet{Rows: [][]string{
		{"廠商", "品項", "數量", "屬性"},
		{"全聯", "雞蛋", "10", ""},
		{"", "牛奶", "5.0", "鮮奶、低脂"},
		{"好市多", "吐司", "", ""},
		{"好市多", "", "3", ""},
		{"好市多", "奶油", "abc", ""},
	}}
	m := DetectMapping(s)
	require.NotNil(t, m)

	catalog, err := ParseToVendorMap(s, m)
	require.NoError(t, err)
	require.Len(t, catalog.Vendors, 2)

	assert.Equal(t, "全聯", catalog.Vendors[0].Name)
	assert.Equal(t, []Item{
		{Name: "雞蛋", Qty: 10, Attributes: []string{}},
		{Name: "牛奶", Qty: 5, Attributes: []string{"鮮奶", "低脂"}},
	}, catalog.Vendors[0].Items)

	assert.Equal(t, "好市多", catalog.Vendors[1].Name)
	require.Len(t, catalog.Vendors[1].Items, 1)
	assert.Equal(t, "吐司", catalog.Vendors[1].Items[0].Name)
	assert.Equal(t, 0, catalog.Vendors[1].Items[0].Qty)
}

func TestParseToVendorMap_Errors(t *testing.T) {
	header := []string{"品項", "數量"}

	cases := []struct {
		name string
		rows [][]string
		kind ErrorKind
	}{
		{"empty range", [][]string{header}, ErrEmptyRange},
		{"no valid rows", [][]string{header, {"", ""}, {" "}}, ErrNoValidRows},
		{"all rows filtered", [][]string{header, {"雞蛋", "-1"}, {"", "3"}}, ErrAllRowsFiltered},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Sheet{Rows: tc.rows}
			_, err := ParseToVendorMap(s, &Mapping{ItemColumn: 0, QtyColumn: 1, HasHeader: true, StartRow: 1})
			var importErr *ImportError
			require.ErrorAs(t, err, &importErr)
			assert.Equal(t, tc.kind, importErr.Kind)
		})
	}

	_, err := ParseToVendorMap(&Sheet{}, nil)
	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, ErrNoMapping, importErr.Kind)
}

func TestParseToVendorMap_DefaultVendor(t *testing.T) {
	s := &Sheet{Rows: [][]string{{"雞蛋", "10"}}}
	catalog, err := ParseToVendorMap(s, &Mapping{ItemColumn: 0, QtyColumn: 1})
	require.NoError(t, err)
	assert.Equal(t, DefaultVendor, catalog.Vendors[0].Name)
}

func TestParseItemOptions(t *testing.T) {
	s := &Sheet{Rows: [][]string{
		{"品項", "數量", "選項"},
		{"紅茶", "1", "甜度:正常,半糖;冰塊：少冰、去冰"},
		{"綠茶", "1", "沒有冒號"},
		{"", "1", "甜度:全糖"},
	}}
	m := DetectMapping(s)
	require.NotNil(t, m)

	opts, err := ParseItemOptions(s, m)
	require.NoError(t, err)
	assert.Equal(t, ItemOptions{
		"紅茶": {
			{Name: "甜度", Options: []string{"正常", "半糖"}},
			{Name: "冰塊", Options: []string{"少冰", "去冰"}},
		},
	}, opts)

	none, err := ParseItemOptions(s, &Mapping{ItemColumn: 0, QtyColumn: 1, StartRow: 1})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPreview(t *testing.T) {
	s := &Sheet{Rows: [][]string{{"a"}, {"b", "c", "d"}, {"e"}}}

	p := Preview(s, 2)
	assert.Equal(t, [][]string{{"a", "", ""}, {"b", "c", "d"}}, p)
	assert.Len(t, Preview(s, 0), 3)
	assert.Nil(t, Preview(nil, 3))
}
