package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderFormat(t *testing.T) {
	f, err := ParseOrderFormat(`{"requiredFields":["杯"],"itemFormat":"^奶茶"}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"杯"}, f.RequiredFields)
	assert.Equal(t, "^奶茶", f.ItemFormat)

	invalid := []string{
		`not json`,
		`[1,2]`,
		`{}`,
		`{"requiredFields":"杯"}`,
		`{"requiredFields":[""]}`,
		`{"requiredFields":[1]}`,
		`{"itemFormat":5}`,
		`{"itemFormat":"("}`,
	}
	for _, raw := range invalid {
		_, err := ParseOrderFormat(raw)
		var ve ValidationError
		assert.ErrorAs(t, err, &ve, raw)
	}
}

func TestOrderFormat_CheckItem(t *testing.T) {
	both, err := ParseOrderFormat(`{"requiredFields":["杯"],"itemFormat":"^奶茶"}`)
	require.NoError(t, err)

	assert.Empty(t, both.CheckItem("奶茶 大杯"))
	assert.Contains(t, both.CheckItem("奶茶"), "杯")
	assert.Contains(t, both.CheckItem("紅茶 大杯"), "^奶茶")

	var none *OrderFormat
	assert.Empty(t, none.CheckItem("anything"))

	// decoded from storage: the regex is compiled lazily
	var stored OrderFormat
	require.NoError(t, stored.Scan([]byte(`{"itemFormat":"\\d+$"}`)))
	assert.Empty(t, stored.CheckItem("雞蛋 10"))
	assert.NotEmpty(t, stored.CheckItem("雞蛋"))
}

func TestOrderFormat_Equal(t *testing.T) {
	a, _ := ParseOrderFormat(`{"requiredFields":["a","b"]}`)
	b, _ := ParseOrderFormat(`{"requiredFields":["a","b"]}`)
	c, _ := ParseOrderFormat(`{"requiredFields":["a"],"itemFormat":"x"}`)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*OrderFormat)(nil).Equal(nil))
}

func TestParseDisplayFormat(t *testing.T) {
	f, err := ParseDisplayFormat(`{"template":"{vendor} {item} {qty}"}`)
	require.NoError(t, err)
	assert.Nil(t, f.ShowUsers)

	f, err = ParseDisplayFormat(`{"template":"{item}","showUsers":false}`)
	require.NoError(t, err)
	require.NotNil(t, f.ShowUsers)
	assert.False(t, *f.ShowUsers)

	for _, raw := range []string{`{}`, `{"template":""}`, `{"template":3}`, `{"template":"x","showUsers":"no"}`, `nope`} {
		_, err := ParseDisplayFormat(raw)
		assert.Error(t, err, raw)
	}
}

func TestAggregateAndRender(t *testing.T) {
	orders := []*Order{
		{Branch: "台北", ActorLabel: "小明", Items: []OrderLine{{ItemName: "雞蛋", Quantity: 10}, {ItemName: "奶茶 大杯", Quantity: 1}}},
		{Branch: "台北", ActorLabel: "阿華", Items: []OrderLine{{ItemName: "雞蛋", Quantity: 5}}},
		{Branch: "台中", ActorLabel: "小明", Items: []OrderLine{{ItemName: "雞蛋", Quantity: 2}}},
		{Branch: "台北", ActorLabel: "小明", Items: []OrderLine{{ItemName: "雞蛋", Quantity: 1}}},
	}
	vendorOf := func(item string) string {
		return ResolveVendorForItemName(item, sampleCatalog(), nil)
	}

	lines := AggregateDisplayLines(orders, vendorOf)
	require.Len(t, lines, 3)
	assert.Equal(t, DisplayLine{Vendor: "全聯", Branch: "台中", Item: "雞蛋", Qty: 2, Users: []string{"小明"}}, lines[0])
	assert.Equal(t, DisplayLine{Vendor: "全聯", Branch: "台北", Item: "雞蛋", Qty: 16, Users: []string{"小明", "阿華"}}, lines[1])
	assert.Equal(t, "飲料店", lines[2].Vendor)

	show := true
	f := &DisplayFormat{Template: `{vendor}/{branch}: {item} x{qty} {users}\n--`, ShowUsers: &show}
	assert.Equal(t,
		"全聯/台中: 雞蛋 x2 (小明)\n--\n全聯/台北: 雞蛋 x16 (小明, 阿華)\n--\n飲料店/台北: 奶茶 大杯 x1 (小明)\n--",
		f.Render(lines))

	hide := false
	f.ShowUsers = &hide
	assert.Equal(t, "全聯/台中: 雞蛋 x2 \n--", f.Render(lines[:1]))
}

func TestDisplayFormatUsersOffUnlessEnabled(t *testing.T) {
	lines := []DisplayLine{{Vendor: "全聯", Branch: "台北", Item: "雞蛋", Qty: 3, Users: []string{"小明"}}}

	f, err := ParseDisplayFormat(`{"template":"{item} x{qty} {users}"}`)
	require.NoError(t, err)
	assert.Equal(t, "雞蛋 x3 ", f.Render(lines))

	f, err = ParseDisplayFormat(`{"template":"{item} x{qty} {users}","showUsers":true}`)
	require.NoError(t, err)
	assert.Equal(t, "雞蛋 x3 (小明)", f.Render(lines))
}
