// Package stats computes the dashboard aggregates and chart projections
// from the current card list. Everything is recomputed from the full list;
// the only state is an LRU memo keyed on the collection revision.
package stats

import (
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/codyseavey/card-stash/backend/internal/format"
	"github.com/codyseavey/card-stash/backend/internal/models"
)

// Summary is the aggregate dashboard view of the collection.
type Summary struct {
	TotalCards     int     `json:"totalCards"`
	TotalInvested  float64 `json:"totalInvested"`
	PortfolioValue float64 `json:"portfolioValue"`
	RealizedProfit float64 `json:"realizedProfit"`
	SoldCount      int     `json:"soldCount"`
	ActiveCount    int     `json:"activeCount"`
}

// CategoryCount is one bucket of the category distribution chart. Entries
// keep first-seen order so the renderer can assign palette colors by index.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MonthlyProfit is one bucket of the realized-profit trend chart.
type MonthlyProfit struct {
	Month  string  `json:"month"` // YYYY-MM key
	Label  string  `json:"label"` // display label, e.g. "Mar 24"
	Profit float64 `json:"profit"`
}

// Summarize makes a single pass over the cards. portfolioValue is the
// unsold cost basis: no market-price source exists, so value equals cost
// until a card is sold.
func Summarize(cards []models.Card) Summary {
	var s Summary
	s.TotalCards = len(cards)
	for _, c := range cards {
		if c.IsSold {
			s.SoldCount++
			s.RealizedProfit += c.Profit()
		} else {
			s.TotalInvested += c.PurchasePrice
		}
	}
	s.PortfolioValue = s.TotalInvested
	s.ActiveCount = s.TotalCards - s.SoldCount
	return s
}

// Distribution buckets the unsold cards by primary tag, "Uncategorized"
// when a card has none. Buckets appear in first-seen collection order.
func Distribution(cards []models.Card) []CategoryCount {
	index := map[string]int{}
	out := []CategoryCount{}
	for _, c := range cards {
		if c.IsSold {
			continue
		}
		label := c.PrimaryTag()
		if i, ok := index[label]; ok {
			out[i].Count++
			continue
		}
		index[label] = len(out)
		out = append(out, CategoryCount{Label: label, Count: 1})
	}
	return out
}

// MonthlyRealizedProfit buckets sold cards by the YYYY-MM prefix of their
// sale date and sums profit per bucket, ascending by month key. A zero-padded
// ISO key sorts correctly as a plain string. Cards whose soldDate has fewer
// than two dash-separated components are skipped, not errored.
func MonthlyRealizedProfit(cards []models.Card) []MonthlyProfit {
	grouped := map[string]float64{}
	for _, c := range cards {
		if !c.IsSold || c.SoldDate == "" {
			continue
		}
		parts := strings.Split(c.SoldDate, "-")
		if len(parts) < 2 {
			continue
		}
		key := parts[0] + "-" + parts[1]
		grouped[key] += c.Profit()
	}

	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]MonthlyProfit, 0, len(keys))
	for _, k := range keys {
		out = append(out, MonthlyProfit{
			Month:  k,
			Label:  format.MonthLabel(k),
			Profit: grouped[k],
		})
	}
	return out
}

// Source is the card list an Engine derives from, with a revision that
// bumps on every mutation.
type Source interface {
	Cards() []models.Card
	Revision() uint64
}

// memoSize bounds how many revisions each memo keeps around. Queries hit
// the latest revision almost exclusively; older entries age out.
const memoSize = 8

// Engine memoizes the three projections per collection revision.
type Engine struct {
	src Source

	summaries     *lru.Cache[uint64, Summary]
	distributions *lru.Cache[uint64, []CategoryCount]
	trends        *lru.Cache[uint64, []MonthlyProfit]
}

// NewEngine builds an engine over the given source.
func NewEngine(src Source) *Engine {
	summaries, _ := lru.New[uint64, Summary](memoSize)
	distributions, _ := lru.New[uint64, []CategoryCount](memoSize)
	trends, _ := lru.New[uint64, []MonthlyProfit](memoSize)
	return &Engine{
		src:           src,
		summaries:     summaries,
		distributions: distributions,
		trends:        trends,
	}
}

// Summary returns the memoized aggregate view for the current revision.
func (e *Engine) Summary() Summary {
	rev := e.src.Revision()
	if s, ok := e.summaries.Get(rev); ok {
		return s
	}
	s := Summarize(e.src.Cards())
	e.summaries.Add(rev, s)
	return s
}

// Distribution returns the memoized category distribution.
func (e *Engine) Distribution() []CategoryCount {
	rev := e.src.Revision()
	if d, ok := e.distributions.Get(rev); ok {
		return d
	}
	d := Distribution(e.src.Cards())
	e.distributions.Add(rev, d)
	return d
}

// MonthlyRealizedProfit returns the memoized profit trend.
func (e *Engine) MonthlyRealizedProfit() []MonthlyProfit {
	rev := e.src.Revision()
	if t, ok := e.trends.Get(rev); ok {
		return t
	}
	t := MonthlyRealizedProfit(e.src.Cards())
	e.trends.Add(rev, t)
	return t
}
