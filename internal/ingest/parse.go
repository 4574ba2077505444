package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"smartbook/internal/book"
	"smartbook/internal/common"
)

// L2Snapshot is a fully parsed L2 snapshot line: two ordered lists of
// price/quantity pairs, bids then asks, in the order they appeared.
type L2Snapshot struct {
	Bids []book.L2PriceLevel
	Asks []book.L2PriceLevel
}

// L3Update is a fully parsed L3 per-order update line. Price and Size are
// zero for CANCEL, whose format only guarantees the id.
type L3Update struct {
	Action common.Action
	Order  common.OrderID
	Side   common.Side
	Price  common.Price
	Size   common.Quantity
}

// TradePrint is a fully parsed trade line.
type TradePrint struct {
	Price    common.Price
	Quantity common.Quantity
}

// ParseL2Snapshot parses `BID <p> <q> … ASK <p> <q> …`. Either side's
// list may be empty.
func ParseL2Snapshot(data string) (L2Snapshot, error) {
	fields := strings.Fields(data)
	if len(fields) == 0 || fields[0] != "BID" {
		return L2Snapshot{}, fmt.Errorf("l2 snapshot: expected leading BID, got %q", data)
	}
	fields = fields[1:]

	var snap L2Snapshot
	i := 0
	for i < len(fields) && fields[i] != "ASK" {
		price, qty, n, err := parsePriceQty(fields[i:])
		if err != nil {
			return L2Snapshot{}, fmt.Errorf("l2 snapshot bid level: %w", err)
		}
		snap.Bids = append(snap.Bids, book.L2PriceLevel{Price: price, Quantity: qty})
		i += n
	}
	if i >= len(fields) || fields[i] != "ASK" {
		return L2Snapshot{}, fmt.Errorf("l2 snapshot: expected ASK, got %q", data)
	}
	i++

	for i < len(fields) {
		price, qty, n, err := parsePriceQty(fields[i:])
		if err != nil {
			return L2Snapshot{}, fmt.Errorf("l2 snapshot ask level: %w", err)
		}
		snap.Asks = append(snap.Asks, book.L2PriceLevel{Price: price, Quantity: qty})
		i += n
	}
	return snap, nil
}

func parsePriceQty(fields []string) (common.Price, common.Quantity, int, error) {
	if len(fields) < 2 {
		return common.Price{}, 0, 0, fmt.Errorf("expected <price> <qty>, got %v", fields)
	}
	price, err := decimal.NewFromString(fields[0])
	if err != nil {
		return common.Price{}, 0, 0, fmt.Errorf("bad price %q: %w", fields[0], err)
	}
	qty, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return common.Price{}, 0, 0, fmt.Errorf("bad quantity %q: %w", fields[1], err)
	}
	return price, common.Quantity(qty), 2, nil
}

// ParseL3Update parses `ADD|MODIFY <id> <BUY|SELL> <price> <size>` or
// `CANCEL <id> …` (trailing fields beyond id are ignored for CANCEL).
func ParseL3Update(data string) (L3Update, error) {
	fields := strings.Fields(data)
	if len(fields) < 2 {
		return L3Update{}, fmt.Errorf("l3 update: too few fields in %q", data)
	}

	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return L3Update{}, fmt.Errorf("bad order id %q: %w", fields[1], err)
	}

	switch fields[0] {
	case "ADD":
		return parseAddOrModify(common.ActionAdd, common.OrderID(id), fields[2:])
	case "MODIFY":
		return parseAddOrModify(common.ActionModify, common.OrderID(id), fields[2:])
	case "CANCEL":
		return L3Update{Action: common.ActionCancel, Order: common.OrderID(id)}, nil
	default:
		return L3Update{}, fmt.Errorf("l3 update: unknown action %q", fields[0])
	}
}

func parseAddOrModify(action common.Action, id common.OrderID, rest []string) (L3Update, error) {
	if len(rest) < 3 {
		return L3Update{}, fmt.Errorf("expected <side> <price> <size>, got %v", rest)
	}
	side, err := common.ParseSide(rest[0])
	if err != nil {
		return L3Update{}, err
	}
	price, err := decimal.NewFromString(rest[1])
	if err != nil {
		return L3Update{}, fmt.Errorf("bad price %q: %w", rest[1], err)
	}
	size, err := strconv.ParseInt(rest[2], 10, 64)
	if err != nil {
		return L3Update{}, fmt.Errorf("bad size %q: %w", rest[2], err)
	}
	return L3Update{Action: action, Order: id, Side: side, Price: price, Size: common.Quantity(size)}, nil
}

// ParseTrade parses `<price> <qty>`.
func ParseTrade(data string) (TradePrint, error) {
	fields := strings.Fields(data)
	if len(fields) < 2 {
		return TradePrint{}, fmt.Errorf("trade: expected <price> <qty>, got %q", data)
	}
	price, err := decimal.NewFromString(fields[0])
	if err != nil {
		return TradePrint{}, fmt.Errorf("bad price %q: %w", fields[0], err)
	}
	qty, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return TradePrint{}, fmt.Errorf("bad quantity %q: %w", fields[1], err)
	}
	return TradePrint{Price: price, Quantity: common.Quantity(qty)}, nil
}
