// Package portfolio is the authoritative ledger of one backtest run: cash,
// open positions, closed trades and the equity curve. It is the only
// component allowed to mutate position or cash state.
package portfolio

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Side of a position.
type Side string

const (
	Long  Side = "LONG"
	Short Side = "SHORT"
)

// Action requested on the ledger.
type Action string

const (
	ActionBuy   Action = "BUY"   // open a long
	ActionShort Action = "SHORT" // open a short
	ActionClose Action = "CLOSE" // close whatever is open for the symbol
)

// DefaultFeeRate is the simulated taker fee charged on both legs.
const DefaultFeeRate = 0.001

// Position is the mutable state of one open holding. At most one position
// exists per symbol.
type Position struct {
	Symbol     string
	Side       Side
	Quantity   float64
	EntryPrice float64
	Margin     float64 // reserved cash, shorts only
	OpenedAt   time.Time
}

// Trade is the immutable record of a closed position.
type Trade struct {
	Symbol     string
	Side       Side
	Quantity   float64
	EntryPrice float64
	ExitPrice  float64
	PnL        float64
	OpenedAt   time.Time
	ClosedAt   time.Time
	Reason     string
}

// EquityPoint is one equity-curve sample: total portfolio value at one
// simulation step.
type EquityPoint struct {
	Time  time.Time
	Value float64
}

// Portfolio tracks cash, positions and history for a single run. It is not
// safe for concurrent use; each run owns exactly one Portfolio.
type Portfolio struct {
	InitialCapital float64
	Cash           float64
	SlippageBps    float64
	FeeRate        float64

	positions map[string]*Position
	trades    []Trade
	equity    []EquityPoint
	peaks     map[string]float64 // trailing high-water marks, longs only
}

// New creates a portfolio with the given starting cash and slippage in basis
// points, charging DefaultFeeRate per fill.
func New(initialCapital, slippageBps float64) *Portfolio {
	return &Portfolio{
		InitialCapital: initialCapital,
		Cash:           initialCapital,
		SlippageBps:    slippageBps,
		FeeRate:        DefaultFeeRate,
		positions:      make(map[string]*Position),
		peaks:          make(map[string]float64),
	}
}

// applySlippage worsens the fill: buyers (and closing shorts) pay more,
// sellers (and closing longs) receive less.
func (p *Portfolio) applySlippage(price float64, buying bool) float64 {
	slip := price * p.SlippageBps / 10000
	if buying {
		return price + slip
	}
	return price - slip
}

// Position returns a copy of the open position for symbol, if any.
func (p *Portfolio) Position(symbol string) (Position, bool) {
	pos, ok := p.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// OpenPositions returns the number of currently open positions.
func (p *Portfolio) OpenPositions() int { return len(p.positions) }

// OpenSymbols returns the symbols with an open position, in no particular
// order.
func (p *Portfolio) OpenSymbols() []string {
	out := make([]string, 0, len(p.positions))
	for sym := range p.positions {
		out = append(out, sym)
	}
	return out
}

// TradeHistory returns the closed trades in close order. The slice must not
// be modified.
func (p *Portfolio) TradeHistory() []Trade { return p.trades }

// EquityCurve returns the recorded equity samples in time order. The slice
// must not be modified.
func (p *Portfolio) EquityCurve() []EquityPoint { return p.equity }

// TotalValue marks every open position to the given prices and returns
// cash plus position value. A symbol missing from prices is marked at its
// entry price.
func (p *Portfolio) TotalValue(prices map[string]float64) float64 {
	total := p.Cash
	for sym, pos := range p.positions {
		mark, ok := prices[sym]
		if !ok {
			mark = pos.EntryPrice
		}
		switch pos.Side {
		case Long:
			total += pos.Quantity * mark
		case Short:
			total += pos.Margin + (pos.EntryPrice-mark)*pos.Quantity
		}
	}
	return total
}

// RecordEquity appends one equity-curve sample. The driver calls it exactly
// once per simulation step, before any same-bar order execution, so the curve
// always reflects pre-trade state.
func (p *Portfolio) RecordEquity(t time.Time, prices map[string]float64) {
	p.equity = append(p.equity, EquityPoint{Time: t, Value: p.TotalValue(prices)})
}

// PlaceOrder executes a simulated fill. Entries that cannot be honored
// (insufficient cash, duplicate position) and exits without a matching
// position are skipped with a debug log; a backtest must always run to
// completion. It reports whether the order executed.
func (p *Portfolio) PlaceOrder(symbol string, action Action, quantity, price float64, t time.Time) bool {
	switch action {
	case ActionBuy:
		return p.open(symbol, Long, quantity, price, t)
	case ActionShort:
		return p.open(symbol, Short, quantity, price, t)
	case ActionClose:
		return p.ClosePosition(symbol, price, t, "Signal")
	default:
		log.Debug().Str("symbol", symbol).Str("action", string(action)).Msg("unknown order action skipped")
		return false
	}
}

func (p *Portfolio) open(symbol string, side Side, quantity, price float64, t time.Time) bool {
	if quantity <= 0 || price <= 0 {
		log.Debug().Str("symbol", symbol).Float64("qty", quantity).Float64("price", price).
			Msg("rejected entry: non-positive quantity or price")
		return false
	}
	if _, exists := p.positions[symbol]; exists {
		log.Debug().Str("symbol", symbol).Msg("rejected entry: position already open")
		return false
	}

	buying := side == Long
	fill := p.applySlippage(price, buying)
	cost := quantity * fill
	fee := cost * p.FeeRate

	if p.Cash < cost+fee {
		log.Debug().Str("symbol", symbol).Float64("cost", cost+fee).Float64("cash", p.Cash).
			Msg("rejected entry: insufficient cash")
		return false
	}

	p.Cash -= cost + fee
	pos := &Position{
		Symbol:     symbol,
		Side:       side,
		Quantity:   quantity,
		EntryPrice: fill,
		OpenedAt:   t,
	}
	if side == Short {
		pos.Margin = cost
	}
	p.positions[symbol] = pos

	if side == Long {
		p.peaks[symbol] = fill
	}

	log.Debug().Str("symbol", symbol).Str("side", string(side)).
		Float64("qty", quantity).Float64("fill", fill).Msg("opened position")
	return true
}

// ClosePosition closes the open position for symbol at the given decision
// price, applying slippage and fees, crediting cash and appending a Trade.
// Closing a symbol with no position is a logged no-op.
func (p *Portfolio) ClosePosition(symbol string, price float64, t time.Time, reason string) bool {
	pos, ok := p.positions[symbol]
	if !ok {
		log.Debug().Str("symbol", symbol).Msg("rejected close: no open position")
		return false
	}

	buying := pos.Side == Short // closing a short buys back
	fill := p.applySlippage(price, buying)
	fee := pos.Quantity * fill * p.FeeRate

	var pnl float64
	switch pos.Side {
	case Long:
		pnl = (fill-pos.EntryPrice)*pos.Quantity - fee
		p.Cash += pos.Quantity*fill - fee
	case Short:
		pnl = (pos.EntryPrice-fill)*pos.Quantity - fee
		p.Cash += pos.Margin + pnl
	}

	delete(p.positions, symbol)
	delete(p.peaks, symbol)

	p.trades = append(p.trades, Trade{
		Symbol:     symbol,
		Side:       pos.Side,
		Quantity:   pos.Quantity,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  fill,
		PnL:        pnl,
		OpenedAt:   pos.OpenedAt,
		ClosedAt:   t,
		Reason:     reason,
	})

	log.Debug().Str("symbol", symbol).Str("side", string(pos.Side)).
		Float64("pnl", pnl).Str("reason", reason).Msg("closed position")
	return true
}

// UpdateTrailingPeak raises (never lowers) the high-water mark for an open
// long and returns it. Symbols without a tracked peak adopt the current
// price.
func (p *Portfolio) UpdateTrailingPeak(symbol string, price float64) float64 {
	peak, ok := p.peaks[symbol]
	if !ok || price > peak {
		peak = price
		p.peaks[symbol] = peak
	}
	return peak
}
