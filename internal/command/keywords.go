package command

// Keywords are the trigger words the parser matches. Exact lists match the whole
// first line; Contains lists match anywhere in the message.
type Keywords struct {
	Restart        []string
	JoinChoice     []string
	JoinContains   []string
	CreateChoice   []string
	CreateContains []string
	JoinWorld      []string
	CreateWorld    []string

	SwitchWorld   []string
	ListWorlds    []string
	ViewWorld     []string
	LeaveWorld    []string
	DeleteWorld   []string
	ConfirmDelete []string

	Help     []string
	MenuHelp []string

	ViewMenu       []string
	SetMenu        []string
	AddItem        []string
	RemoveItem     []string
	UpdateItem     []string
	SetMenuImage   []string
	ClearMenuImage []string

	ViewMembers  []string
	RemoveMember []string

	SetOrderFormat     []string
	SetDisplayFormat   []string
	ClearOrderFormat   []string
	ClearDisplayFormat []string

	ClearOrders []string

	Modify     []string
	OwnerQuery []string
	Query      []string
	Today      []string
}

// DefaultKeywords is the production vocabulary
func DefaultKeywords() Keywords {
	return Keywords{
		Restart:        []string{"重來"},
		JoinChoice:     []string{"1", "1️⃣"},
		JoinContains:   []string{"加入"},
		CreateChoice:   []string{"2", "2️⃣"},
		CreateContains: []string{"建立"},
		JoinWorld:      []string{"加入世界"},
		CreateWorld:    []string{"建立世界"},

		SwitchWorld:   []string{"切換世界"},
		ListWorlds:    []string{"我的世界", "世界列表"},
		ViewWorld:     []string{"目前世界", "查看世界"},
		LeaveWorld:    []string{"退出世界"},
		DeleteWorld:   []string{"刪除世界"},
		ConfirmDelete: []string{"確認刪除"},

		Help:     []string{"說明", "幫助", "help", "指令"},
		MenuHelp: []string{"菜單說明", "菜單指令"},

		ViewMenu:       []string{"菜單", "查看菜單"},
		SetMenu:        []string{"設定菜單"},
		AddItem:        []string{"新增品項"},
		RemoveItem:     []string{"刪除品項"},
		UpdateItem:     []string{"修改品項"},
		SetMenuImage:   []string{"設定菜單圖片"},
		ClearMenuImage: []string{"清除菜單圖片"},

		ViewMembers:  []string{"成員列表", "查看成員"},
		RemoveMember: []string{"移除成員"},

		SetOrderFormat:     []string{"設定訂單格式", "訂單格式"},
		SetDisplayFormat:   []string{"設定顯示格式", "顯示格式"},
		ClearOrderFormat:   []string{"清除訂單格式"},
		ClearDisplayFormat: []string{"清除顯示格式"},

		ClearOrders: []string{"清除訂單", "清空訂單", "刪除所有訂單"},

		Modify:     []string{"修改", "改"},
		OwnerQuery: []string{"老闆查詢", "老闆查"},
		Query:      []string{"查詢"},
		Today:      []string{"今天", "today"},
	}
}
