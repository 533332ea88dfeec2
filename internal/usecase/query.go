package usecase

import (
	"errors"
	"sort"
	"strings"
	"time"

	"Moonlander/internal/domain/models"
	"Moonlander/pkg/config"
)

var (
	// ErrNoBatch means no batch has been published yet.
	ErrNoBatch = errors.New("no published batch")
	// ErrUnknownSymbol means the symbol is not in the asset catalog.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrDegradedSymbol means the symbol is in the catalog but missing
	// from the current batch.
	ErrDegradedSymbol = errors.New("symbol degraded this cycle")
)

// Query serves read requests over the published batch. All reads are
// lock-free; the batch pointer is immutable once published.
type Query struct {
	store   *PublishedStore
	catalog map[string]config.Asset
}

func NewQuery(store *PublishedStore, assets []config.Asset) *Query {
	catalog := make(map[string]config.Asset, len(assets))
	for _, a := range assets {
		catalog[strings.ToUpper(a.Symbol)] = a
	}
	return &Query{store: store, catalog: catalog}
}

// Signals returns the filtered, sorted view described by req.
func (q *Query) Signals(req *models.SignalsRequest) (*models.SignalsResponse, error) {
	batch := q.store.Current()
	if batch == nil {
		return nil, ErrNoBatch
	}

	filtered := make([]models.SignalRecord, 0, len(batch.Assets))
	for _, r := range batch.Assets {
		if req.Category != "" && !strings.EqualFold(r.Category, req.Category) {
			continue
		}
		if req.MinScore != nil && r.Score < *req.MinScore {
			continue
		}
		if req.MaxScore != nil && r.Score > *req.MaxScore {
			continue
		}
		filtered = append(filtered, r)
	}

	sortRecords(filtered, req.SortBy, req.SortDir)

	if req.Limit > 0 && len(filtered) > req.Limit {
		filtered = filtered[:req.Limit]
	}

	return &models.SignalsResponse{
		GeneratedAt:  batch.GeneratedAt.Format(time.RFC3339),
		TotalResults: len(filtered),
		Filters:      *req,
		Assets:       filtered,
	}, nil
}

// Symbol returns one asset's record. A catalog asset missing from the
// batch reports ErrDegradedSymbol; a symbol outside the catalog reports
// ErrUnknownSymbol.
func (q *Query) Symbol(symbol string) (*models.SignalRecord, error) {
	upper := strings.ToUpper(symbol)
	if _, ok := q.catalog[upper]; !ok {
		return nil, ErrUnknownSymbol
	}

	batch := q.store.Current()
	if batch == nil {
		return nil, ErrNoBatch
	}

	if r := batch.Find(upper); r != nil {
		return r, nil
	}
	return nil, ErrDegradedSymbol
}

// Summary returns the published batch summary.
func (q *Query) Summary() (*models.Batch, error) {
	batch := q.store.Current()
	if batch == nil {
		return nil, ErrNoBatch
	}
	return batch, nil
}

// Categories breaks the published batch down per asset category.
func (q *Query) Categories() (map[string]models.CategoryBreakdown, error) {
	batch := q.store.Current()
	if batch == nil {
		return nil, ErrNoBatch
	}

	out := make(map[string]models.CategoryBreakdown)
	for _, r := range batch.Assets {
		b := out[r.Category]
		b.Count++
		switch {
		case r.Score > 0:
			b.Bullish++
		case r.Score < 0:
			b.Bearish++
		default:
			b.Neutral++
		}
		out[r.Category] = b
	}
	return out, nil
}

func sortRecords(records []models.SignalRecord, by, dir string) {
	cmp := func(a, b *models.SignalRecord) int {
		switch by {
		case "symbol":
			return strings.Compare(a.Symbol, b.Symbol)
		case "price":
			return compareFloat(a.Price, b.Price)
		case "change_24h":
			return compareFloat(a.Change24h, b.Change24h)
		default: // score, with composite as tiebreaker
			if a.Score != b.Score {
				return a.Score - b.Score
			}
			return compareFloat(a.CompositeScore, b.CompositeScore)
		}
	}

	asc := dir == "asc"
	sort.SliceStable(records, func(i, j int) bool {
		c := cmp(&records[i], &records[j])
		if asc {
			return c < 0
		}
		return c > 0
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
