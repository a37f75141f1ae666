package cart

import (
	"github.com/shopspring/decimal"
)

// LineKey identifies a cart line. Two lines never share a key.
type LineKey struct {
	ProductID int    `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// Line is one product/size/color entry. Price is the snapshot taken when the line was first added.
type Line struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
}

func (l Line) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

// Subtotal is price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals are derived from the lines and never stored.
type Totals struct {
	ItemCount  int             `json:"item_count"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func computeTotals(lines []Line) Totals {
	totals := Totals{TotalPrice: decimal.Zero}
	for _, line := range lines {
		totals.ItemCount += line.Quantity
		totals.TotalPrice = totals.TotalPrice.Add(line.Subtotal())
	}
	return totals
}

// normalizeLines drops non-positive quantities and merges lines that share a key,
// keeping the first line's snapshot. It reports whether anything changed.
func normalizeLines(lines []Line) ([]Line, bool) {
	out := make([]Line, 0, len(lines))
	index := make(map[LineKey]int, len(lines))
	changed := false
	for _, line := range lines {
		if line.Quantity <= 0 || line.ProductID <= 0 {
			changed = true
			continue
		}
		if i, ok := index[line.Key()]; ok {
			out[i].Quantity += line.Quantity
			changed = true
			continue
		}
		index[line.Key()] = len(out)
		out = append(out, line)
	}
	return out, changed
}
