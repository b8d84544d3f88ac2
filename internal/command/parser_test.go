package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldorder/worldorder/internal/domain"
)

func newTestParser() *Parser {
	return NewParser(DefaultKeywords())
}

func TestNewInput(t *testing.T) {
	in := NewInput("  設定菜單\r\n全聯\n  雞蛋 10\n\n")
	assert.Equal(t, "設定菜單\n全聯\n  雞蛋 10", in.Text)
	assert.Equal(t, []string{"設定菜單", "全聯", "雞蛋 10"}, in.Lines)
	assert.Equal(t, "全聯\n  雞蛋 10\n\n", in.RawAfterFirstLine())
	assert.Equal(t, "", in.Line(5))
	assert.Equal(t, "", NewInput("單行").RawAfterFirstLine())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "place_order", KindPlaceOrder.String())
	assert.Equal(t, "none", KindNone.String())
	assert.Equal(t, "unknown", Kind(999).String())
}

func TestParser_Binding(t *testing.T) {
	p := newTestParser()
	tests := []struct {
		text string
		kind Kind
		ref  domain.WorldRef
	}{
		{"重來", KindRestart, domain.WorldRef{}},
		{"1", KindJoinPrompt, domain.WorldRef{}},
		{"1️⃣", KindJoinPrompt, domain.WorldRef{}},
		{"我要加入", KindJoinPrompt, domain.WorldRef{}},
		{"2", KindCreateWorld, domain.WorldRef{}},
		{"2️⃣", KindCreateWorld, domain.WorldRef{}},
		{"建立新世界", KindCreateWorld, domain.WorldRef{}},
		{"#12", KindLookupWorld, domain.WorldRef{ID: 12}},
		{"15", KindLookupWorld, domain.WorldRef{ID: 15}},
		{"abcd1234", KindLookupWorld, domain.WorldRef{Code: "ABCD1234"}},
		{"加入世界 ABCD1234", KindJoinWorld, domain.WorldRef{Code: "ABCD1234"}},
		{"加入世界\n#5", KindJoinWorld, domain.WorldRef{ID: 5}},
		{"加入世界", KindJoinPrompt, domain.WorldRef{}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			it := p.Binding(NewInput(tt.text))
			require.NotNil(t, it)
			assert.Equal(t, tt.kind, it.Kind)
			assert.Equal(t, tt.ref, it.World)
		})
	}

	for _, text := range []string{"", "你好", "雞蛋 10", "#abc"} {
		assert.Nil(t, p.Binding(NewInput(text)), text)
	}

	invalid := p.Binding(NewInput("加入世界 ???"))
	require.NotNil(t, invalid)
	assert.True(t, invalid.Invalid)
}

func TestParser_ExplicitBinding(t *testing.T) {
	p := newTestParser()
	assert.Equal(t, KindRestart, p.ExplicitBinding(NewInput("重來")).Kind)
	assert.Equal(t, KindCreateWorld, p.ExplicitBinding(NewInput("建立世界")).Kind)
	assert.Equal(t, KindJoinWorld, p.ExplicitBinding(NewInput("加入世界 3")).Kind)

	for _, text := range []string{"1", "2", "12", "ABCD1234", "我要加入", "建立"} {
		assert.Nil(t, p.ExplicitBinding(NewInput(text)), text)
	}
}

func TestParser_WorldManagement(t *testing.T) {
	p := newTestParser()
	tests := []struct {
		text string
		kind Kind
		ref  domain.WorldRef
	}{
		{"切換世界", KindSwitchPrompt, domain.WorldRef{}},
		{"切換世界 12", KindSwitchWorld, domain.WorldRef{ID: 12}},
		{"切換世界 abcd1234", KindSwitchWorld, domain.WorldRef{Code: "ABCD1234"}},
		{"切換世界 ???", KindSwitchPrompt, domain.WorldRef{}},
		{"我的世界", KindListWorlds, domain.WorldRef{}},
		{"世界列表", KindListWorlds, domain.WorldRef{}},
		{"目前世界", KindViewWorld, domain.WorldRef{}},
		{"查看世界", KindViewWorld, domain.WorldRef{}},
		{"退出世界", KindLeavePrompt, domain.WorldRef{}},
		{"刪除世界", KindLeavePrompt, domain.WorldRef{}},
		{"退出世界 #3", KindLeaveWorld, domain.WorldRef{ID: 3}},
		{"確認刪除 ZZZZ9999", KindConfirmDelete, domain.WorldRef{Code: "ZZZZ9999"}},
		{"確認刪除", KindLeavePrompt, domain.WorldRef{}},
		{"7", KindSwitchWorld, domain.WorldRef{ID: 7}},
		{"12345678", KindSwitchWorld, domain.WorldRef{Code: "12345678"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			it := p.WorldManagement(NewInput(tt.text))
			require.NotNil(t, it)
			assert.Equal(t, tt.kind, it.Kind)
			assert.Equal(t, tt.ref, it.World)
		})
	}

	for _, text := range []string{"雞蛋 10", "菜單", "切換世界\n12", "說明"} {
		assert.Nil(t, p.WorldManagement(NewInput(text)), text)
	}
}

func TestParser_HelpAndMenu(t *testing.T) {
	p := newTestParser()
	assert.Equal(t, KindHelp, p.Help(NewInput("HELP")).Kind)
	assert.Equal(t, KindHelp, p.Help(NewInput("說明")).Kind)
	assert.Nil(t, p.Help(NewInput("菜單說明")))
	assert.Equal(t, KindMenuHelp, p.MenuHelp(NewInput("菜單說明")).Kind)

	assert.Equal(t, KindViewMenu, p.Menu(NewInput("菜單")).Kind)
	assert.Equal(t, KindViewMenu, p.Menu(NewInput("查看菜單")).Kind)

	set := p.Menu(NewInput("設定菜單\n全聯\n  雞蛋 10"))
	require.NotNil(t, set)
	assert.Equal(t, KindSetMenu, set.Kind)
	assert.Equal(t, "全聯\n  雞蛋 10", set.CatalogText)
	assert.False(t, set.Incomplete)

	empty := p.Menu(NewInput("設定菜單"))
	require.NotNil(t, empty)
	assert.True(t, empty.Incomplete)

	assert.Nil(t, p.Menu(NewInput("設定菜單圖片\nhttps://x.test/a.png")))
}

func TestParser_MenuMutation(t *testing.T) {
	p := newTestParser()

	add := p.MenuMutation(NewInput("新增品項\n全聯\n雞蛋 10"))
	require.NotNil(t, add)
	assert.Equal(t, KindAddItem, add.Kind)
	assert.Equal(t, "全聯", add.Vendor)
	assert.Equal(t, "雞蛋", add.Item)
	require.NotNil(t, add.Quantity)
	assert.Equal(t, 10, *add.Quantity)

	noQty := p.MenuMutation(NewInput("新增品項\n全聯\n衛生紙"))
	require.NotNil(t, noQty)
	assert.Equal(t, "衛生紙", noQty.Item)
	assert.Nil(t, noQty.Quantity)
	assert.False(t, noQty.Invalid)

	zero := p.MenuMutation(NewInput("新增品項\n全聯\n衛生紙 0"))
	require.NotNil(t, zero.Quantity)
	assert.Equal(t, 0, *zero.Quantity)

	for _, bad := range []string{"新增品項\n全聯\n雞蛋 -1", "新增品項\n全聯\n雞蛋 1000000", "新增品項\n全聯\n雞蛋 1.5"} {
		it := p.MenuMutation(NewInput(bad))
		require.NotNil(t, it, bad)
		assert.True(t, it.Invalid, bad)
	}

	incomplete := p.MenuMutation(NewInput("新增品項\n全聯"))
	require.NotNil(t, incomplete)
	assert.True(t, incomplete.Incomplete)

	remove := p.MenuMutation(NewInput("刪除品項\n全聯\n雞蛋"))
	require.NotNil(t, remove)
	assert.Equal(t, KindRemoveItem, remove.Kind)
	assert.Equal(t, "雞蛋", remove.Item)

	rename := p.MenuMutation(NewInput("修改品項\n全聯\n雞蛋\n土雞蛋 12"))
	require.NotNil(t, rename)
	assert.Equal(t, KindUpdateItem, rename.Kind)
	require.NotNil(t, rename.NewName)
	assert.Equal(t, "土雞蛋", *rename.NewName)
	require.NotNil(t, rename.NewQuantity)
	assert.Equal(t, 12, *rename.NewQuantity)

	qtyOnly := p.MenuMutation(NewInput("修改品項\n全聯\n雞蛋\n3"))
	require.NotNil(t, qtyOnly)
	assert.Nil(t, qtyOnly.NewName)
	assert.Equal(t, 3, *qtyOnly.NewQuantity)

	nameOnly := p.MenuMutation(NewInput("修改品項\n全聯\n雞蛋\n土雞蛋"))
	require.NotNil(t, nameOnly)
	assert.Equal(t, "土雞蛋", *nameOnly.NewName)
	assert.Nil(t, nameOnly.NewQuantity)

	assert.True(t, p.MenuMutation(NewInput("修改品項\n全聯\n雞蛋")).Incomplete)
	assert.Nil(t, p.MenuMutation(NewInput("雞蛋 10")))
}

func TestParser_MenuImage(t *testing.T) {
	p := newTestParser()

	it := p.MenuImage(NewInput("設定菜單圖片\nhttps://cdn.example.com/menu.jpg"))
	require.NotNil(t, it)
	assert.Equal(t, KindSetMenuImage, it.Kind)
	assert.Equal(t, "https://cdn.example.com/menu.jpg", it.URL)
	assert.False(t, it.Invalid)

	for _, bad := range []string{"設定菜單圖片\nnot a url", "設定菜單圖片\nhttp://cdn.example.com/menu.jpg"} {
		it := p.MenuImage(NewInput(bad))
		require.NotNil(t, it, bad)
		assert.True(t, it.Invalid, bad)
	}

	missing := p.MenuImage(NewInput("設定菜單圖片"))
	require.NotNil(t, missing)
	assert.True(t, missing.Incomplete)

	assert.Equal(t, KindClearMenuImage, p.MenuImage(NewInput("清除菜單圖片")).Kind)
	assert.Nil(t, p.MenuImage(NewInput("菜單")))
}

func TestParser_Members(t *testing.T) {
	p := newTestParser()
	assert.Equal(t, KindViewMembers, p.Members(NewInput("成員列表")).Kind)

	rm := p.Members(NewInput("移除成員\nU123"))
	require.NotNil(t, rm)
	assert.Equal(t, KindRemoveMember, rm.Kind)
	assert.Equal(t, "U123", rm.TargetUserID)

	inline := p.Members(NewInput("移除成員 U456"))
	assert.Equal(t, "U456", inline.TargetUserID)

	prompt := p.Members(NewInput("移除成員"))
	assert.True(t, prompt.Incomplete)
}

func TestParser_Format(t *testing.T) {
	p := newTestParser()

	it := p.Format(NewInput("設定訂單格式"))
	require.NotNil(t, it)
	assert.Equal(t, KindSetOrderFormat, it.Kind)
	assert.Empty(t, it.Payload)

	inline := p.Format(NewInput("訂單格式\n{\"requiredFields\":[\"杯\"]}"))
	require.NotNil(t, inline)
	assert.Equal(t, KindSetOrderFormat, inline.Kind)
	assert.Equal(t, `{"requiredFields":["杯"]}`, inline.Payload)

	assert.Equal(t, KindSetDisplayFormat, p.Format(NewInput("顯示格式")).Kind)
	assert.Equal(t, KindSetDisplayFormat, p.Format(NewInput("設定顯示格式")).Kind)
	assert.Equal(t, KindClearOrderFormat, p.Format(NewInput("清除訂單格式")).Kind)
	assert.Equal(t, KindClearDisplayFormat, p.Format(NewInput("清除顯示格式")).Kind)
	assert.Nil(t, p.Format(NewInput("清除訂單")))

	payload := p.FormatPayload(NewInput(`{"template":"{item} {qty}"}`))
	require.NotNil(t, payload)
	assert.Equal(t, KindFormatPayload, payload.Kind)
	assert.Nil(t, p.FormatPayload(NewInput(`[1]`)))
	assert.Nil(t, p.FormatPayload(NewInput(`{broken`)))
}

func TestParser_ClearOrders(t *testing.T) {
	p := newTestParser()
	for _, text := range []string{"清除訂單", "清空訂單", "刪除所有訂單"} {
		it := p.ClearOrders(NewInput(text))
		require.NotNil(t, it, text)
		assert.Equal(t, KindClearOrders, it.Kind)
	}
	assert.Nil(t, p.ClearOrders(NewInput("清除訂單格式")))
}

func TestParser_CustomKeywords(t *testing.T) {
	kw := DefaultKeywords()
	kw.Help = []string{"?"}
	p := NewParser(kw)
	assert.NotNil(t, p.Help(NewInput("?")))
	assert.Nil(t, p.Help(NewInput("說明")))
}
