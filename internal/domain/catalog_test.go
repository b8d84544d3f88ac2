package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldorder/worldorder/pkg/sheetimport"
)

func sampleCatalog() *VendorMap {
	return &VendorMap{Vendors: []Vendor{
		{Name: "全聯", Items: []CatalogItem{
			{Name: "雞蛋", Entry: NewQuantityEntry(10)},
			{Name: "衛生紙", Entry: NewQuantityEntry(0)},
		}},
		{Name: "飲料店", Items: []CatalogItem{
			{Name: "奶茶", Entry: NewDetailedEntry(2, []string{"大杯", "少冰"})},
		}},
	}}
}

func TestCatalogEntry(t *testing.T) {
	plain := NewQuantityEntry(3)
	assert.Equal(t, 3, plain.Quantity())
	assert.False(t, plain.IsDetailed())
	assert.Nil(t, plain.Attributes())

	attrs := []string{"大杯"}
	detailed := NewDetailedEntry(1, attrs)
	attrs[0] = "changed"
	assert.Equal(t, []string{"大杯"}, detailed.Attributes())

	bumped := detailed.WithQuantity(7)
	assert.Equal(t, 7, bumped.Quantity())
	assert.True(t, bumped.IsDetailed())
	assert.Equal(t, []string{"大杯"}, bumped.Attributes())
}

func TestCatalogEntry_JSON(t *testing.T) {
	var e CatalogEntry
	require.NoError(t, json.Unmarshal([]byte(`5`), &e))
	assert.Equal(t, NewQuantityEntry(5), e)

	require.NoError(t, json.Unmarshal([]byte(`{"qty":2,"attributes":["熱"]}`), &e))
	assert.True(t, e.IsDetailed())
	assert.Equal(t, 2, e.Quantity())
	assert.Equal(t, []string{"熱"}, e.Attributes())

	assert.Error(t, json.Unmarshal([]byte(`1.5`), &e))
	assert.Error(t, json.Unmarshal([]byte(`"ten"`), &e))

	out, err := json.Marshal(NewDetailedEntry(0, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"qty":0,"attributes":[]}`, string(out))
}

func TestVendorMap_JSONKeepsOrder(t *testing.T) {
	vm := sampleCatalog()
	data, err := json.Marshal(vm)
	require.NoError(t, err)
	assert.Equal(t, `{"全聯":{"雞蛋":10,"衛生紙":0},"飲料店":{"奶茶":{"qty":2,"attributes":["大杯","少冰"]}}}`, string(data))

	var back VendorMap
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *vm, back)

	reordered := `{"b":{"z":1,"a":2},"a":{"y":3}}`
	require.NoError(t, json.Unmarshal([]byte(reordered), &back))
	require.Len(t, back.Vendors, 2)
	assert.Equal(t, "b", back.Vendors[0].Name)
	assert.Equal(t, "z", back.Vendors[0].Items[0].Name)

	assert.Error(t, json.Unmarshal([]byte(`{"a":5}`), &back))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &back))
}

func TestVendorMap_ScanValue(t *testing.T) {
	vm := sampleCatalog()
	v, err := vm.Value()
	require.NoError(t, err)

	var scanned VendorMap
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, *vm, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned.Vendors)
	assert.Error(t, scanned.Scan(42))
}

func TestVendorMap_Validate(t *testing.T) {
	assert.NoError(t, sampleCatalog().Validate())
	assert.ErrorIs(t, (&VendorMap{}).Validate(), ErrEmptyCatalog)
	assert.ErrorIs(t, (&VendorMap{Vendors: []Vendor{{Name: PlaceholderVendor}}}).Validate(), ErrEmptyCatalog)

	withEmptyVendor := sampleCatalog()
	withEmptyVendor.Vendors = append(withEmptyVendor.Vendors, Vendor{Name: "空"})
	var ve ValidationError
	assert.ErrorAs(t, withEmptyVendor.Validate(), &ve)
}

func TestVendorMap_AddItem(t *testing.T) {
	vm := sampleCatalog()
	require.NoError(t, vm.AddItem("全聯", "牛奶", NewQuantityEntry(5)))
	entry, ok := vm.Lookup("全聯", "牛奶")
	require.True(t, ok)
	assert.Equal(t, 5, entry.Quantity())

	assert.ErrorIs(t, vm.AddItem("全聯", "牛奶", NewQuantityEntry(1)), ErrCatalogItemExists)

	require.NoError(t, vm.AddItem("麵包店", "吐司", NewQuantityEntry(0)))
	assert.Equal(t, "麵包店", vm.Vendors[len(vm.Vendors)-1].Name)

	assert.Error(t, vm.AddItem("全聯", "", NewQuantityEntry(1)))
	assert.Error(t, vm.AddItem("全聯：", "x", NewQuantityEntry(1)))
}

func TestVendorMap_AddItemReplacesPlaceholder(t *testing.T) {
	vm := &VendorMap{Vendors: []Vendor{{Name: PlaceholderVendor}}}
	require.NoError(t, vm.AddItem("全聯", "雞蛋", NewQuantityEntry(1)))
	require.Len(t, vm.Vendors, 1)
	assert.Equal(t, "全聯", vm.Vendors[0].Name)
}

func TestVendorMap_RemoveItem(t *testing.T) {
	vm := sampleCatalog()

	assert.ErrorIs(t, vm.RemoveItem("不存在", "雞蛋"), ErrCatalogNotFound)
	assert.ErrorIs(t, vm.RemoveItem("全聯", "不存在"), ErrCatalogNotFound)

	require.NoError(t, vm.RemoveItem("飲料店", "奶茶"))
	require.Len(t, vm.Vendors, 1, "vendor without items is removed")

	require.NoError(t, vm.RemoveItem("全聯", "雞蛋"))
	require.NoError(t, vm.RemoveItem("全聯", "衛生紙"))
	require.Len(t, vm.Vendors, 1)
	assert.Equal(t, PlaceholderVendor, vm.Vendors[0].Name)
	assert.Empty(t, vm.Vendors[0].Items)
}

func TestVendorMap_UpdateItem(t *testing.T) {
	vm := sampleCatalog()
	name := "大杯奶茶"
	qty := 4
	require.NoError(t, vm.UpdateItem("飲料店", "奶茶", &name, &qty))

	entry, ok := vm.Lookup("飲料店", "大杯奶茶")
	require.True(t, ok)
	assert.Equal(t, 4, entry.Quantity())
	assert.Equal(t, []string{"大杯", "少冰"}, entry.Attributes())

	taken := "衛生紙"
	assert.ErrorIs(t, vm.UpdateItem("全聯", "雞蛋", &taken, nil), ErrCatalogItemExists)

	tooMany := MaxCatalogQuantity + 1
	assert.Error(t, vm.UpdateItem("全聯", "雞蛋", nil, &tooMany))
	assert.ErrorIs(t, vm.UpdateItem("全聯", "豆漿", nil, &qty), ErrCatalogNotFound)
}

func TestVendorMap_CloneIsIndependent(t *testing.T) {
	vm := sampleCatalog()
	clone := vm.Clone()
	require.NoError(t, clone.RemoveItem("飲料店", "奶茶"))
	assert.Len(t, vm.Vendors, 2)
	assert.Len(t, clone.Vendors, 1)
	assert.Nil(t, (*VendorMap)(nil).Clone())
}

func TestVendorMapFromImport(t *testing.T) {
	vm := VendorMapFromImport(&sheetimport.Catalog{Vendors: []sheetimport.Vendor{
		{Name: "全聯", Items: []sheetimport.Item{{Name: "雞蛋", Qty: 10}, {Name: "奶茶", Qty: 1, Attributes: []string{"大杯"}}}},
	}})
	require.Len(t, vm.Vendors, 1)
	assert.Equal(t, 2, vm.ItemCount())
	entry, _ := vm.Lookup("全聯", "奶茶")
	assert.True(t, entry.IsDetailed())
	assert.Empty(t, VendorMapFromImport(nil).Vendors)
}

func TestValidateItemName(t *testing.T) {
	long := ""
	for i := 0; i < MaxNameRunes; i++ {
		long += "蛋"
	}
	assert.NoError(t, ValidateItemName(long))
	assert.Error(t, ValidateItemName(long+"蛋"))
	assert.Error(t, ValidateItemName("  "))
	assert.Error(t, ValidateItemName(" 雞蛋"))
	assert.Error(t, ValidateItemName("雞\n蛋"))
	assert.Error(t, ValidateItemName("-雞蛋"))
	assert.Error(t, ValidateItemName("雞蛋[大]"))
}

func TestResolveVendorForItemName(t *testing.T) {
	catalog := &VendorMap{Vendors: []Vendor{
		{Name: "A", Items: []CatalogItem{{Name: "奶茶", Entry: NewQuantityEntry(1)}}},
		{Name: "B", Items: []CatalogItem{{Name: "奶茶 大杯", Entry: NewQuantityEntry(1)}}},
		{Name: "C", Items: []CatalogItem{{Name: "奶茶", Entry: NewQuantityEntry(1)}}},
	}}
	fallback := map[string]string{"雞蛋": "全聯", "豆漿": "早餐店"}

	tests := []struct {
		item string
		want string
	}{
		{"奶茶 大杯 少冰", "B"},
		{"奶茶 大杯", "B"},
		{"奶茶", "A"},
		{"奶茶 少冰", "A"},
		{"奶茶大杯", OtherVendor},
		{"雞蛋 2盒", "全聯"},
		{"豆漿", "早餐店"},
		{"咖啡", OtherVendor},
	}
	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveVendorForItemName(tt.item, catalog, fallback))
		})
	}

	assert.Equal(t, "全聯", ResolveVendorForItemName("雞蛋", nil, fallback))
	assert.Equal(t, OtherVendor, ResolveVendorForItemName("雞蛋", nil, nil))
}
