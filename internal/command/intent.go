package command

import (
	"strings"

	"github.com/worldorder/worldorder/internal/domain"
)

// Kind is the closed set of intents the parser can produce
type Kind int

const (
	KindNone Kind = iota

	// binding
	KindRestart
	KindJoinPrompt
	KindJoinWorld
	KindCreateWorld
	KindLookupWorld

	// world management
	KindSwitchPrompt
	KindListWorlds
	KindViewWorld
	KindLeavePrompt
	KindConfirmDelete
	KindSwitchWorld
	KindLeaveWorld

	KindHelp
	KindMenuHelp

	// catalog
	KindViewMenu
	KindSetMenu
	KindAddItem
	KindRemoveItem
	KindUpdateItem
	KindSetMenuImage
	KindClearMenuImage

	KindViewMembers
	KindRemoveMember

	// formats
	KindSetOrderFormat
	KindSetDisplayFormat
	KindClearOrderFormat
	KindClearDisplayFormat
	KindFormatPayload

	KindClearOrders

	// orders
	KindPlaceOrder
	KindModifyOrder
	KindQueryOrders
	KindOwnerQuery
)

var kindNames = map[Kind]string{
	KindNone:               "none",
	KindRestart:            "restart",
	KindJoinPrompt:         "join_prompt",
	KindJoinWorld:          "join_world",
	KindCreateWorld:        "create_world",
	KindLookupWorld:        "lookup_world",
	KindSwitchPrompt:       "switch_prompt",
	KindListWorlds:         "list_worlds",
	KindViewWorld:          "view_world",
	KindLeavePrompt:        "leave_prompt",
	KindConfirmDelete:      "confirm_delete",
	KindSwitchWorld:        "switch_world",
	KindLeaveWorld:         "leave_world",
	KindHelp:               "help",
	KindMenuHelp:           "menu_help",
	KindViewMenu:           "view_menu",
	KindSetMenu:            "set_menu",
	KindAddItem:            "add_item",
	KindRemoveItem:         "remove_item",
	KindUpdateItem:         "update_item",
	KindSetMenuImage:       "set_menu_image",
	KindClearMenuImage:     "clear_menu_image",
	KindViewMembers:        "view_members",
	KindRemoveMember:       "remove_member",
	KindSetOrderFormat:     "set_order_format",
	KindSetDisplayFormat:   "set_display_format",
	KindClearOrderFormat:   "clear_order_format",
	KindClearDisplayFormat: "clear_display_format",
	KindFormatPayload:      "format_payload",
	KindClearOrders:        "clear_orders",
	KindPlaceOrder:         "place_order",
	KindModifyOrder:        "modify_order",
	KindQueryOrders:        "query_orders",
	KindOwnerQuery:         "owner_query",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Intent is the parsed meaning of one message. Only the fields relevant to Kind are set.
type Intent struct {
	Kind Kind

	// World is set for join, lookup, switch, leave and delete when a reference was given
	World    domain.WorldRef
	HasWorld bool

	// catalog mutations
	Vendor      string
	Item        string
	Quantity    *int
	NewName     *string
	NewQuantity *int
	CatalogText string

	URL          string
	TargetUserID string

	// Payload is a JSON object for format intents, possibly empty
	Payload string

	// orders
	Branch   string
	Date     string
	Items    []domain.OrderLine
	Value    int
	Absolute bool

	// Incomplete marks a recognised command missing required lines
	Incomplete bool
	// Invalid marks a recognised command with a malformed argument
	Invalid bool
}

// Input is one message in the shapes the parsers need
type Input struct {
	// Raw keeps indentation, which the catalog grammar depends on
	Raw   string
	Text  string
	Lines []string
}

// NewInput trims the message and splits it into non-empty trimmed lines
func NewInput(raw string) Input {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	in := Input{Raw: raw, Text: strings.TrimSpace(raw)}
	for _, l := range strings.Split(raw, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			in.Lines = append(in.Lines, l)
		}
	}
	return in
}

// Line returns the i-th non-empty line, or "" when there are fewer lines
func (in Input) Line(i int) string {
	if i < len(in.Lines) {
		return in.Lines[i]
	}
	return ""
}

// RawAfterFirstLine is the raw text following the first non-blank line
func (in Input) RawAfterFirstLine() string {
	rest := strings.TrimLeft(in.Raw, " \t\n")
	if i := strings.Index(rest, "\n"); i >= 0 {
		return rest[i+1:]
	}
	return ""
}
