package market

import (
	"math"
	"sort"
	"time"
)

// Dataset is the merged, time-indexed view of all historical inputs for one
// backtest: a price matrix pivoted on (timestamp, symbol) with forward-fill,
// plus the whale and sentiment streams sorted by time.
//
// A Dataset is built once and never mutated afterwards, so it is safe to share
// across concurrently running backtests.
type Dataset struct {
	Symbols   []string
	Times     []time.Time
	Whales    []WhaleTx
	Sentiment []SentimentRecord

	// prices[symbol][i] is the forward-filled close at Times[i].
	// NaN marks bars before the symbol's first print; forward-fill never
	// fabricates a zero price.
	prices  map[string][]float64
	volumes map[string][]float64
	first   map[string]int // index of the symbol's first real print
}

// NewDataset pivots bars into a per-symbol price matrix over the union of all
// timestamps, forward-filling gaps. Bars may arrive in any order; duplicate
// (symbol, timestamp) pairs keep the last value seen.
func NewDataset(bars []Bar) *Dataset {
	type cell struct {
		close, volume float64
	}

	seen := make(map[time.Time]struct{})
	symbols := make(map[string]map[time.Time]cell)

	for _, b := range bars {
		seen[b.Time] = struct{}{}
		m, ok := symbols[b.Symbol]
		if !ok {
			m = make(map[time.Time]cell)
			symbols[b.Symbol] = m
		}
		m[b.Time] = cell{close: b.Close, volume: b.Volume}
	}

	ds := &Dataset{
		prices:  make(map[string][]float64, len(symbols)),
		volumes: make(map[string][]float64, len(symbols)),
		first:   make(map[string]int, len(symbols)),
	}

	ds.Times = make([]time.Time, 0, len(seen))
	for t := range seen {
		ds.Times = append(ds.Times, t)
	}
	sort.Slice(ds.Times, func(i, j int) bool { return ds.Times[i].Before(ds.Times[j]) })

	ds.Symbols = make([]string, 0, len(symbols))
	for s := range symbols {
		ds.Symbols = append(ds.Symbols, s)
	}
	sort.Strings(ds.Symbols)

	for _, sym := range ds.Symbols {
		cells := symbols[sym]
		prices := make([]float64, len(ds.Times))
		volumes := make([]float64, len(ds.Times))

		last := math.NaN()
		lastVol := math.NaN()
		firstIdx := -1

		for i, t := range ds.Times {
			if c, ok := cells[t]; ok {
				last = c.close
				lastVol = c.volume
				if firstIdx < 0 {
					firstIdx = i
				}
			}
			prices[i] = last
			volumes[i] = lastVol
		}

		ds.prices[sym] = prices
		ds.volumes[sym] = volumes
		ds.first[sym] = firstIdx
	}

	return ds
}

// SetWhales attaches the whale transaction stream, sorted by time.
func (ds *Dataset) SetWhales(txs []WhaleTx) {
	sorted := make([]WhaleTx, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })
	ds.Whales = sorted
}

// SetSentiment attaches the news sentiment stream, sorted by time.
func (ds *Dataset) SetSentiment(recs []SentimentRecord) {
	sorted := make([]SentimentRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })
	ds.Sentiment = sorted
}

// Len returns the number of simulation steps (distinct timestamps).
func (ds *Dataset) Len() int { return len(ds.Times) }

// Price returns the forward-filled close for symbol at step i. ok is false
// before the symbol's first print or for an unknown symbol.
func (ds *Dataset) Price(symbol string, i int) (float64, bool) {
	p, ok := ds.prices[symbol]
	if !ok || i < 0 || i >= len(p) || math.IsNaN(p[i]) {
		return 0, false
	}
	return p[i], true
}

// PricesAt returns the price snapshot for every symbol with a known price at
// step i. Symbols without a print yet are absent from the map.
func (ds *Dataset) PricesAt(i int) map[string]float64 {
	out := make(map[string]float64, len(ds.Symbols))
	for _, sym := range ds.Symbols {
		if p, ok := ds.Price(sym, i); ok {
			out[sym] = p
		}
	}
	return out
}

// History returns the symbol's forward-filled closes up to and including step
// i, oldest first. The returned slice aliases internal storage and must not be
// modified.
func (ds *Dataset) History(symbol string, i int) []float64 {
	p, ok := ds.prices[symbol]
	if !ok || i < 0 {
		return nil
	}
	firstIdx := ds.first[symbol]
	if firstIdx < 0 || i < firstIdx {
		return nil
	}
	if i >= len(p) {
		i = len(p) - 1
	}
	return p[firstIdx : i+1]
}

// VolumeHistory returns the symbol's forward-filled volumes up to and
// including step i, oldest first, under the same aliasing rules as History.
func (ds *Dataset) VolumeHistory(symbol string, i int) []float64 {
	v, ok := ds.volumes[symbol]
	if !ok || i < 0 {
		return nil
	}
	firstIdx := ds.first[symbol]
	if firstIdx < 0 || i < firstIdx {
		return nil
	}
	if i >= len(v) {
		i = len(v) - 1
	}
	return v[firstIdx : i+1]
}

// WhalesBetween returns whale transactions with from < Time <= to.
func (ds *Dataset) WhalesBetween(from, to time.Time) []WhaleTx {
	lo := sort.Search(len(ds.Whales), func(i int) bool { return ds.Whales[i].Time.After(from) })
	hi := sort.Search(len(ds.Whales), func(i int) bool { return ds.Whales[i].Time.After(to) })
	return ds.Whales[lo:hi]
}

// SentimentAt returns the most recent sentiment record for symbol at or
// before t, if any.
func (ds *Dataset) SentimentAt(symbol string, t time.Time) (SentimentRecord, bool) {
	hi := sort.Search(len(ds.Sentiment), func(i int) bool { return ds.Sentiment[i].Time.After(t) })
	for i := hi - 1; i >= 0; i-- {
		if ds.Sentiment[i].Symbol == symbol {
			return ds.Sentiment[i], true
		}
	}
	return SentimentRecord{}, false
}

// Slice returns a new Dataset restricted to steps [from, to) with the whale
// and sentiment streams trimmed to the same time window. Used by walk-forward
// validation to build per-fold datasets.
func (ds *Dataset) Slice(from, to int) *Dataset {
	if from < 0 {
		from = 0
	}
	if to > ds.Len() {
		to = ds.Len()
	}
	if from >= to {
		return &Dataset{
			prices:  map[string][]float64{},
			volumes: map[string][]float64{},
			first:   map[string]int{},
		}
	}

	out := &Dataset{
		Symbols: ds.Symbols,
		Times:   ds.Times[from:to],
		prices:  make(map[string][]float64, len(ds.Symbols)),
		volumes: make(map[string][]float64, len(ds.Symbols)),
		first:   make(map[string]int, len(ds.Symbols)),
	}

	for _, sym := range ds.Symbols {
		out.prices[sym] = ds.prices[sym][from:to]
		out.volumes[sym] = ds.volumes[sym][from:to]

		firstIdx := -1
		for i, p := range out.prices[sym] {
			if !math.IsNaN(p) {
				firstIdx = i
				break
			}
		}
		out.first[sym] = firstIdx
	}

	start := out.Times[0]
	end := out.Times[len(out.Times)-1]
	out.Whales = ds.WhalesBetween(start.Add(-time.Nanosecond), end)
	if len(ds.Sentiment) > 0 {
		lo := sort.Search(len(ds.Sentiment), func(i int) bool { return !ds.Sentiment[i].Time.Before(start) })
		hi := sort.Search(len(ds.Sentiment), func(i int) bool { return ds.Sentiment[i].Time.After(end) })
		out.Sentiment = ds.Sentiment[lo:hi]
	}

	return out
}
