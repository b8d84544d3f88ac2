package command

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/tidwall/gjson"

	"github.com/worldorder/worldorder/internal/domain"
)

// Parser maps a message to an Intent. Each method recognises one family and returns
// nil when the message does not belong to it; callers try families in precedence order.
type Parser struct {
	kw Keywords
}

func NewParser(kw Keywords) *Parser {
	return &Parser{kw: kw}
}

func equalsAny(s string, list []string) bool {
	for _, k := range list {
		if strings.EqualFold(s, k) {
			return true
		}
	}
	return false
}

func containsAny(s string, list []string) bool {
	for _, k := range list {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// commandArgs matches "<keyword>" or "<keyword> <args>" on a single line
func commandArgs(line string, list []string) (string, bool) {
	for _, k := range list {
		if line == k {
			return "", true
		}
		if strings.HasPrefix(line, k) {
			rest := line[len(k):]
			if trimmed := strings.TrimSpace(rest); trimmed != rest && trimmed != "" {
				return trimmed, true
			}
		}
	}
	return "", false
}

// Restart recognises only the restart keyword
func (p *Parser) Restart(in Input) *Intent {
	if equalsAny(in.Text, p.kw.Restart) {
		return &Intent{Kind: KindRestart}
	}
	return nil
}

// Binding is the pre-binding grammar: restart, join or create choices, or a bare world
// id or code.
func (p *Parser) Binding(in Input) *Intent {
	if in.Text == "" {
		return nil
	}
	if it := p.Restart(in); it != nil {
		return it
	}
	if it := p.explicitJoin(in); it != nil {
		return it
	}
	if equalsAny(in.Text, p.kw.JoinChoice) || containsAny(in.Text, p.kw.JoinContains) {
		return &Intent{Kind: KindJoinPrompt}
	}
	if equalsAny(in.Text, p.kw.CreateChoice) || containsAny(in.Text, p.kw.CreateContains) {
		return &Intent{Kind: KindCreateWorld}
	}
	if len(in.Lines) == 1 {
		if ref, ok := domain.ParseWorldRef(in.Text); ok {
			return &Intent{Kind: KindLookupWorld, World: ref, HasWorld: true}
		}
	}
	return nil
}

// ExplicitBinding is the binding grammar available to members of an active world:
// keyword forms only, so bare ids reach world management as switch requests.
func (p *Parser) ExplicitBinding(in Input) *Intent {
	if it := p.Restart(in); it != nil {
		return it
	}
	if it := p.explicitJoin(in); it != nil {
		return it
	}
	if equalsAny(in.Text, p.kw.CreateWorld) {
		return &Intent{Kind: KindCreateWorld}
	}
	return nil
}

func (p *Parser) explicitJoin(in Input) *Intent {
	if len(in.Lines) == 0 {
		return nil
	}
	args, ok := commandArgs(in.Lines[0], p.kw.JoinWorld)
	if !ok {
		return nil
	}
	if args == "" {
		args = in.Line(1)
	}
	if args == "" {
		return &Intent{Kind: KindJoinPrompt}
	}
	ref, valid := domain.ParseWorldRef(args)
	if !valid {
		return &Intent{Kind: KindJoinWorld, Invalid: true}
	}
	return &Intent{Kind: KindJoinWorld, World: ref, HasWorld: true}
}

// WorldManagement covers listing, viewing, switching, leaving and deleting worlds
func (p *Parser) WorldManagement(in Input) *Intent {
	if len(in.Lines) != 1 {
		return nil
	}
	line := in.Lines[0]

	switch {
	case equalsAny(line, p.kw.ListWorlds):
		return &Intent{Kind: KindListWorlds}
	case equalsAny(line, p.kw.ViewWorld):
		return &Intent{Kind: KindViewWorld}
	}

	if args, ok := commandArgs(line, p.kw.ConfirmDelete); ok {
		if ref, valid := domain.ParseWorldRef(args); valid {
			return &Intent{Kind: KindConfirmDelete, World: ref, HasWorld: true}
		}
		return &Intent{Kind: KindLeavePrompt}
	}
	if _, ok := commandArgs(line, p.kw.DeleteWorld); ok {
		return &Intent{Kind: KindLeavePrompt}
	}
	if args, ok := commandArgs(line, p.kw.LeaveWorld); ok {
		if ref, valid := domain.ParseWorldRef(args); valid {
			return &Intent{Kind: KindLeaveWorld, World: ref, HasWorld: true}
		}
		return &Intent{Kind: KindLeavePrompt}
	}
	if args, ok := commandArgs(line, p.kw.SwitchWorld); ok {
		if ref, valid := domain.ParseWorldRef(args); valid {
			return &Intent{Kind: KindSwitchWorld, World: ref, HasWorld: true}
		}
		return &Intent{Kind: KindSwitchPrompt}
	}
	if ref, ok := domain.ParseWorldRef(line); ok {
		return &Intent{Kind: KindSwitchWorld, World: ref, HasWorld: true}
	}
	return nil
}

func (p *Parser) Help(in Input) *Intent {
	if equalsAny(in.Text, p.kw.Help) {
		return &Intent{Kind: KindHelp}
	}
	return nil
}

func (p *Parser) MenuHelp(in Input) *Intent {
	if equalsAny(in.Text, p.kw.MenuHelp) {
		return &Intent{Kind: KindMenuHelp}
	}
	return nil
}

// Menu recognises viewing the menu and replacing it with a catalog block on the
// following lines
func (p *Parser) Menu(in Input) *Intent {
	if equalsAny(in.Text, p.kw.ViewMenu) {
		return &Intent{Kind: KindViewMenu}
	}
	if len(in.Lines) > 0 && equalsAny(in.Lines[0], p.kw.SetMenu) {
		body := in.RawAfterFirstLine()
		return &Intent{Kind: KindSetMenu, CatalogText: body, Incomplete: strings.TrimSpace(body) == ""}
	}
	return nil
}

// MenuMutation parses add, remove and update item commands:
//
//	新增品項        刪除品項        修改品項
//	<vendor>        <vendor>        <vendor>
//	<item> [qty]    <item>          <item>
//	                                <new name> [qty] | <qty>
func (p *Parser) MenuMutation(in Input) *Intent {
	if len(in.Lines) == 0 {
		return nil
	}
	var it *Intent
	switch {
	case equalsAny(in.Lines[0], p.kw.AddItem):
		it = &Intent{Kind: KindAddItem}
	case equalsAny(in.Lines[0], p.kw.RemoveItem):
		it = &Intent{Kind: KindRemoveItem}
	case equalsAny(in.Lines[0], p.kw.UpdateItem):
		it = &Intent{Kind: KindUpdateItem}
	default:
		return nil
	}

	need := 3
	if it.Kind == KindUpdateItem {
		need = 4
	}
	if len(in.Lines) < need {
		it.Incomplete = true
		return it
	}

	it.Vendor = in.Lines[1]
	switch it.Kind {
	case KindAddItem:
		name, qty, ok := splitCatalogQuantity(in.Lines[2])
		it.Item, it.Quantity, it.Invalid = name, qty, !ok
	case KindRemoveItem:
		it.Item = in.Lines[2]
	case KindUpdateItem:
		it.Item = in.Lines[2]
		if n, err := strconv.Atoi(in.Lines[3]); err == nil {
			if n < 0 || n > domain.MaxCatalogQuantity {
				it.Invalid = true
			}
			it.NewQuantity = &n
			return it
		}
		name, qty, ok := splitCatalogQuantity(in.Lines[3])
		it.NewName, it.NewQuantity, it.Invalid = &name, qty, !ok
	}
	return it
}

// splitCatalogQuantity reads "<name> [qty]". A trailing numeric token that is not an
// integer in 0..999999 makes the line invalid.
func splitCatalogQuantity(line string) (string, *int, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || !looksNumeric(fields[len(fields)-1]) {
		return line, nil, true
	}
	last := fields[len(fields)-1]
	name := strings.TrimSpace(strings.TrimSuffix(line, last))
	n, err := strconv.Atoi(last)
	if err != nil || n < 0 || n > domain.MaxCatalogQuantity {
		return name, nil, false
	}
	return name, &n, true
}

// MenuImage parses setting (URL on line 2) and clearing the menu image. Only https
// URLs are accepted since the platform rejects others.
func (p *Parser) MenuImage(in Input) *Intent {
	if len(in.Lines) == 0 {
		return nil
	}
	if equalsAny(in.Text, p.kw.ClearMenuImage) {
		return &Intent{Kind: KindClearMenuImage}
	}
	args, ok := commandArgs(in.Lines[0], p.kw.SetMenuImage)
	if !ok {
		return nil
	}
	raw := in.Line(1)
	if args != "" {
		raw = args
	}
	it := &Intent{Kind: KindSetMenuImage, URL: raw}
	if raw == "" {
		it.Incomplete = true
		return it
	}
	it.Invalid = !validImageURL(raw)
	return it
}

// validImageURL also requires https: the messaging platform rejects image messages
// whose content URL is plain http.
func validImageURL(raw string) bool {
	if !govalidator.IsURL(raw) {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.Scheme == "https" && u.Host != ""
}

// Members parses viewing members and removing one by user id
func (p *Parser) Members(in Input) *Intent {
	if len(in.Lines) == 0 {
		return nil
	}
	if equalsAny(in.Text, p.kw.ViewMembers) {
		return &Intent{Kind: KindViewMembers}
	}
	args, ok := commandArgs(in.Lines[0], p.kw.RemoveMember)
	if !ok {
		return nil
	}
	if args == "" {
		args = in.Line(1)
	}
	return &Intent{Kind: KindRemoveMember, TargetUserID: args, Incomplete: args == ""}
}

// Format recognises the format triggers by exact or prefix match. A JSON object
// following the keyword, on the same line or below, is carried as the payload.
func (p *Parser) Format(in Input) *Intent {
	if in.Text == "" {
		return nil
	}
	if equalsAny(in.Text, p.kw.ClearOrderFormat) {
		return &Intent{Kind: KindClearOrderFormat}
	}
	if equalsAny(in.Text, p.kw.ClearDisplayFormat) {
		return &Intent{Kind: KindClearDisplayFormat}
	}
	if rest, ok := stripPrefix(in.Text, p.kw.SetOrderFormat); ok {
		return &Intent{Kind: KindSetOrderFormat, Payload: rest}
	}
	if rest, ok := stripPrefix(in.Text, p.kw.SetDisplayFormat); ok {
		return &Intent{Kind: KindSetDisplayFormat, Payload: rest}
	}
	return nil
}

func stripPrefix(text string, list []string) (string, bool) {
	for _, k := range list {
		if strings.HasPrefix(text, k) {
			return strings.TrimSpace(text[len(k):]), true
		}
	}
	return "", false
}

// FormatPayload recognises a bare JSON object, which may be the body of a pending
// format edit
func (p *Parser) FormatPayload(in Input) *Intent {
	if !IsJSONObject(in.Text) {
		return nil
	}
	return &Intent{Kind: KindFormatPayload, Payload: in.Text}
}

// IsJSONObject reports whether s is a JSON object
func IsJSONObject(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") && gjson.Valid(s) && gjson.Parse(s).IsObject()
}

func (p *Parser) ClearOrders(in Input) *Intent {
	if equalsAny(in.Text, p.kw.ClearOrders) {
		return &Intent{Kind: KindClearOrders}
	}
	return nil
}
