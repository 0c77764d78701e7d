package stock

// Turnover totals a movement ledger over its window.
type Turnover struct {
	Periods        int `json:"periods"`
	OpeningBalance int `json:"openingBalance"`
	Produced       int `json:"totalProduced"`
	Sold           int `json:"totalSold"`
	NetChange      int `json:"netChange"`
	ClosingBalance int `json:"closingBalance"`
}

// Totals sums produced and sold quantities. OpeningBalance is 0 by
// construction and ClosingBalance equals the last bucket's ClosingStock.
func Totals(movements []Movement) Turnover {
	t := Turnover{Periods: len(movements)}
	for _, m := range movements {
		t.Produced += m.Produced
		t.Sold += m.Sold
	}
	t.NetChange = t.Produced - t.Sold
	t.ClosingBalance = t.OpeningBalance + t.NetChange
	return t
}
