package forecast

import (
	"sort"

	"github.com/warely/stockcast/internal/domain"
)

// rankingSize caps both ranking views at the top 5 items.
const rankingSize = 5

// BestSellers aggregates outgoing quantity and revenue per item over the full
// (unwindowed) history, joined against current stock, sorted by total units
// sold descending. Items that never sold are excluded rather than padding
// the list. Independent of the sufficiency gate.
func BestSellers(items []domain.InventoryItem, txns []domain.InventoryTransaction) []domain.RankedItem {
	all := aggregateSales(items, txns)

	ranked := make([]domain.RankedItem, 0, len(all))
	for _, r := range all {
		if r.TotalSold > 0 {
			ranked = append(ranked, r)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalSold > ranked[j].TotalSold
	})

	return capRanking(ranked)
}

// SlowMovers ranks in-stock items by sales velocity (units sold per unit of
// stock) ascending. Ties break toward the larger stock so the worst
// over-stock surfaces first.
func SlowMovers(items []domain.InventoryItem, txns []domain.InventoryTransaction) []domain.RankedItem {
	all := aggregateSales(items, txns)

	ranked := make([]domain.RankedItem, 0, len(all))
	for _, r := range all {
		if r.CurrentStock <= 0 {
			continue
		}
		r.Velocity = r.TotalSold / float64(r.CurrentStock)
		ranked = append(ranked, r)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Velocity != ranked[j].Velocity {
			return ranked[i].Velocity < ranked[j].Velocity
		}
		return ranked[i].CurrentStock > ranked[j].CurrentStock
	})

	return capRanking(ranked)
}

func aggregateSales(items []domain.InventoryItem, txns []domain.InventoryTransaction) []domain.RankedItem {
	type tally struct {
		sold    float64
		revenue float64
	}

	byItem := make(map[string]*tally, len(items))
	for _, tx := range txns {
		if tx.Direction != domain.DirectionOutgoing {
			continue
		}
		t := byItem[tx.ItemID]
		if t == nil {
			t = &tally{}
			byItem[tx.ItemID] = t
		}
		t.sold += tx.Quantity
		t.revenue += tx.Quantity * tx.UnitPrice
	}

	ranked := make([]domain.RankedItem, 0, len(items))
	for _, item := range items {
		r := domain.RankedItem{
			ItemID:       item.ID,
			Name:         item.Name,
			SKU:          item.SKU,
			CurrentStock: item.CurrentStock,
		}
		if t := byItem[item.ID]; t != nil {
			r.TotalSold = t.sold
			r.Revenue = t.revenue
		}
		ranked = append(ranked, r)
	}
	return ranked
}

func capRanking(ranked []domain.RankedItem) []domain.RankedItem {
	if len(ranked) > rankingSize {
		return ranked[:rankingSize]
	}
	return ranked
}
