package command

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/worldorder/worldorder/internal/domain"
)

var (
	numericToken  = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
	modifyPattern = regexp.MustCompile(`^([+\-=＋－＝])\s*(\d+)$`)
)

func looksNumeric(s string) bool {
	return numericToken.MatchString(s)
}

// itemShaped reports whether a line reads "<name><whitespace><number>", whatever the
// number's value
func itemShaped(line string) bool {
	fields := strings.Fields(line)
	return len(fields) >= 2 && looksNumeric(fields[len(fields)-1])
}

// parseOrderLine reads "<name> <qty>" with qty an integer in 1..999999
func parseOrderLine(line string) (domain.OrderLine, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return domain.OrderLine{}, false
	}
	last := fields[len(fields)-1]
	qty, err := strconv.Atoi(last)
	if err != nil || !domain.ValidOrderQuantity(qty) {
		return domain.OrderLine{}, false
	}
	name := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), last))
	if name == "" || utf8.RuneCountInString(name) > domain.MaxNameRunes {
		return domain.OrderLine{}, false
	}
	return domain.OrderLine{ItemName: name, Quantity: qty}, true
}

// Order parses the order family: modify, owner query, query, or an order message
//
//	台北店        <- optional branch
//	雞蛋 10
//	牛奶 5
//	2024-03-05    <- optional date annotation
//
// An item-shaped line with an out-of-range quantity rejects the whole message.
func (p *Parser) Order(in Input) *Intent {
	if len(in.Lines) == 0 {
		return nil
	}
	first := in.Lines[0]

	if args, ok := commandArgs(first, p.kw.Modify); ok {
		return p.modify(in, args)
	}
	if args, ok := commandArgs(first, p.kw.OwnerQuery); ok {
		date := args
		if date == "" {
			date = in.Line(1)
		}
		return &Intent{Kind: KindOwnerQuery, Date: p.normalizeDate(date)}
	}
	if args, ok := commandArgs(first, p.kw.Query); ok {
		rest := in.Lines[1:]
		if args != "" {
			rest = append(strings.Fields(args), rest...)
		}
		it := &Intent{Kind: KindQueryOrders}
		if len(rest) > 0 {
			it.Date = p.normalizeDate(rest[0])
		}
		if len(rest) > 1 {
			it.Branch = rest[1]
		}
		if it.Date == "" {
			it.Date = "today"
		}
		return it
	}
	return p.placeOrder(in)
}

func (p *Parser) normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || equalsAny(s, p.kw.Today) {
		return "today"
	}
	return s
}

func (p *Parser) modify(in Input, inline string) *Intent {
	it := &Intent{Kind: KindModifyOrder}
	rest := in.Lines[1:]
	if inline != "" {
		rest = append([]string{inline}, rest...)
	}
	if len(rest) == 0 {
		it.Incomplete = true
		return it
	}

	name, op := rest[0], ""
	if len(rest) > 1 {
		op = rest[1]
	} else if fields := strings.Fields(name); len(fields) >= 2 && modifyPattern.MatchString(fields[len(fields)-1]) {
		op = fields[len(fields)-1]
		name = strings.TrimSpace(strings.TrimSuffix(name, op))
	}
	it.Item = name
	if op == "" {
		it.Incomplete = true
		return it
	}

	m := modifyPattern.FindStringSubmatch(strings.ReplaceAll(op, " ", ""))
	if m == nil || name == "" || utf8.RuneCountInString(name) > domain.MaxNameRunes {
		it.Invalid = true
		return it
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n > domain.MaxOrderQuantity {
		it.Invalid = true
		return it
	}
	switch m[1] {
	case "+", "＋":
		it.Value = n
	case "-", "－":
		it.Value = -n
	default:
		it.Value = n
		it.Absolute = true
	}
	return it
}

func (p *Parser) placeOrder(in Input) *Intent {
	lines := in.Lines
	it := &Intent{Kind: KindPlaceOrder}

	if len(lines) > 1 && !itemShaped(lines[0]) {
		it.Branch = lines[0]
		lines = lines[1:]
	}

	for i, line := range lines {
		if !itemShaped(line) {
			if i == len(lines)-1 && len(it.Items) > 0 && domain.IsDateToken(line) {
				it.Date = line
				break
			}
			return nil
		}
		// an item line with a bad quantity voids the message rather than being dropped
		item, ok := parseOrderLine(line)
		if !ok {
			return nil
		}
		it.Items = append(it.Items, item)
	}
	if len(it.Items) == 0 {
		return nil
	}
	return it
}

// OrderShaped reports whether the message would parse as an order, used to tell
// members of an unfinished world that ordering is not open yet
func (p *Parser) OrderShaped(in Input) bool {
	it := p.Order(in)
	return it != nil && it.Kind == KindPlaceOrder
}
