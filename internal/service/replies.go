package service

import (
	"fmt"

	"github.com/osteele/liquid"

	"github.com/worldorder/worldorder/internal/domain"
)

const (
	msgTryLater         = "系統忙碌中，請稍後再試。"
	msgTooFast          = "訊息太頻繁了，請稍等一下再傳。"
	msgFallback         = "看不懂這則訊息 🤔\n輸入「說明」查看可用指令。"
	msgOwnerOnly        = "只有世界擁有者可以執行這個操作。"
	msgJoinPrompt       = "請輸入要加入的世界代碼或編號，例如：\n加入世界 AB12CD34"
	msgInvalidWorldRef  = "世界代碼為 8 碼英數字，編號為數字，例如：\n加入世界 AB12CD34\n加入世界 #12"
	msgAlreadyOwner     = "你已經擁有一個世界了，每人只能建立一個世界。"
	msgNameInvalid      = "世界名稱不可空白，且最多 100 個字。請重新輸入名稱："
	msgSwitchPrompt     = "請輸入：切換世界 <編號或代碼>"
	msgLeavePrompt      = "退出世界：退出世界 <編號或代碼>\n刪除世界（擁有者）：確認刪除 <編號或代碼>"
	msgOwnerCannotLeave = "擁有者無法退出自己的世界。\n如要刪除世界，請輸入：確認刪除 <編號或代碼>"
	msgActiveRestart    = "你目前在世界「%s」。\n加入其他世界：加入世界 <代碼>\n建立新世界：建立世界"
	msgNotReady         = "世界「%s」還在設定中，暫時無法下單。請等待擁有者完成設定。"
	msgMenuEmpty        = "目前還沒有菜單。"
	msgImageIncomplete  = "請在第二行貼上圖片網址，例如：\n設定菜單圖片\nhttps://example.com/menu.jpg"
	msgImageInvalid     = "圖片網址必須是 https 開頭的有效網址。"
	msgImageSet         = "菜單圖片已設定 🖼"
	msgImageCleared     = "菜單圖片已清除。"
	msgMemberIncomplete = "請提供要移除的成員 ID，例如：\n移除成員 U1234567890"
	msgRemoveSelf       = "無法移除擁有者自己。"
	msgFormatInvalid    = "格式設定無效：%s"
	msgModifyUsage      = "修改訂單請用：\n修改\n雞蛋\n+5\n（+N 增加、-N 減少、=N 設定數量）"
)

const catalogExample = "全聯\n  雞蛋 10\n  牛奶 5\n飲料店\n  - 奶茶 [大杯, 少冰]"

const (
	welcomeTemplate = `歡迎使用訂單小幫手 👋
{% if name != "" %}{{ name }}，{% endif %}請選擇：
1️⃣ 加入世界（輸入世界代碼或編號）
2️⃣ 建立世界`

	setupGuideTemplate = `🌏 已建立世界 #{{ id }}
分享代碼：{{ code }}

接下來請輸入菜單，一行廠商，下面縮排列出品項：
{{ example }}

輸入「重來」可以取消設定。`

	onboardingTemplate = `🎉 世界「{{ name }}」已啟用！
員工輸入「加入世界 {{ code }}」即可加入。

下單範例：
台北店
雞蛋 10
牛奶 5

輸入「說明」查看所有指令。`

	ownerNotificationTemplate = `🛒 {{ actor }} 在「{{ world }}」下了新訂單{% if branch != "" %}（{{ branch }}）{% endif %}
{% for item in items %}{{ item.name }} {{ item.qty }}
{% endfor %}訂單編號：{{ order_id }}`

	worldCardTemplate = `🌏 {{ name }}
編號：#{{ id }}
代碼：{{ code }}
身分：{% if owner %}擁有者{% else %}員工{% endif %}
狀態：{{ status }}
品項數：{{ items }}{% if image %}
已設定菜單圖片{% endif %}`

	helpTemplate = `📖 指令說明
下單：
[分店]
品項 數量
修改：修改 / 品項 / +N、-N、=N
查詢：查詢 [日期] [分店]
菜單：菜單、菜單說明
世界：我的世界、目前世界、切換世界 <編號>、退出世界 <編號>、加入世界 <代碼>{% if owner %}

擁有者指令：
老闆查詢 [日期]
成員列表、移除成員 <ID>
設定菜單、新增品項、刪除品項、修改品項
設定菜單圖片、清除菜單圖片
設定訂單格式、設定顯示格式、清除訂單格式、清除顯示格式
清除訂單
確認刪除 <編號>{% endif %}`

	menuHelpTemplate = `📋 菜單指令
查看：菜單
整份替換：
設定菜單
{{ example }}

新增品項 / 廠商 / 品項 [數量]
刪除品項 / 廠商 / 品項
修改品項 / 廠商 / 品項 / 新名稱 [數量] 或 數量
設定菜單圖片 / https 網址
清除菜單圖片`
)

// replyTemplates holds the parsed liquid templates for the longer replies
type replyTemplates struct {
	welcome           *liquid.Template
	setupGuide        *liquid.Template
	onboarding        *liquid.Template
	ownerNotification *liquid.Template
	worldCard         *liquid.Template
	help              *liquid.Template
	menuHelp          *liquid.Template
}

func mustParse(engine *liquid.Engine, src string) *liquid.Template {
	tpl, err := engine.ParseString(src)
	if err != nil {
		panic(fmt.Sprintf("invalid reply template: %v", err))
	}
	return tpl
}

func newReplyTemplates() *replyTemplates {
	engine := liquid.NewEngine()
	return &replyTemplates{
		welcome:           mustParse(engine, welcomeTemplate),
		setupGuide:        mustParse(engine, setupGuideTemplate),
		onboarding:        mustParse(engine, onboardingTemplate),
		ownerNotification: mustParse(engine, ownerNotificationTemplate),
		worldCard:         mustParse(engine, worldCardTemplate),
		help:              mustParse(engine, helpTemplate),
		menuHelp:          mustParse(engine, menuHelpTemplate),
	}
}

func render(tpl *liquid.Template, bindings map[string]interface{}) (string, error) {
	out, err := tpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("failed to render reply: %w", err)
	}
	return out, nil
}

func statusLabel(s domain.WorldStatus) string {
	switch s {
	case domain.WorldStatusVendorMapSetup:
		return "菜單設定中"
	case domain.WorldStatusFailed:
		return "菜單設定失敗"
	case domain.WorldStatusNaming:
		return "命名中"
	case domain.WorldStatusActive:
		return "啟用中"
	default:
		return string(s)
	}
}

func roleLabel(r domain.Role) string {
	if r == domain.RoleOwner {
		return "擁有者"
	}
	return "員工"
}

// catalogDiagnostic explains why a catalog text block was rejected
func catalogDiagnostic(issue *domain.CatalogIssue) string {
	var reason string
	switch issue.Kind {
	case domain.CatalogIssueMissingVendor:
		reason = fmt.Sprintf("第 %d 行「%s」前面沒有廠商名稱，請先寫廠商再縮排寫品項。", issue.Line, issue.Text)
	case domain.CatalogIssueMissingItems:
		reason = fmt.Sprintf("廠商「%s」底下沒有任何品項。", issue.Vendor)
	case domain.CatalogIssueInvalidItem:
		reason = fmt.Sprintf("第 %d 行「%s」格式不正確，品項要寫成「名稱 數量」或「- 名稱」。", issue.Line, issue.Text)
	default:
		reason = "菜單內容是空的。"
	}
	return fmt.Sprintf("❌ 菜單格式有誤\n%s\n\n範例：\n%s", reason, catalogExample)
}
