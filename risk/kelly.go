package risk

// KellyMinTrades is how many closed trades must exist before Kelly sizing
// activates; below this the fixed risk fraction is used.
const KellyMinTrades = 10

// kellyCap bounds the half-Kelly fraction; full Kelly on noisy trade
// statistics over-bets badly.
const kellyCap = 0.25

// TradeStats is a running tally of closed-trade outcomes, updated by the
// strategy driver after every close.
type TradeStats struct {
	Trades       int
	Wins         int
	TotalWinPnL  float64
	TotalLossPnL float64 // accumulated as a negative number
}

// Record folds one closed trade's PnL into the tally.
func (s *TradeStats) Record(pnl float64) {
	s.Trades++
	if pnl > 0 {
		s.Wins++
		s.TotalWinPnL += pnl
	} else {
		s.TotalLossPnL += pnl
	}
}

// HalfKelly derives a conservative bankroll fraction from the tally:
// kelly = W - (1-W)/(avgWin/avgLoss), halved and clamped to [0, kellyCap].
// It returns ok=false when the statistics cannot support an estimate (too few
// trades, no wins, no loss history, or a non-positive Kelly value), in which
// case the caller keeps its fixed fraction.
func (s *TradeStats) HalfKelly() (float64, bool) {
	if s.Trades < KellyMinTrades || s.Wins == 0 {
		return 0, false
	}

	lossCount := s.Trades - s.Wins
	if lossCount == 0 {
		return 0, false
	}

	avgWin := s.TotalWinPnL / float64(s.Wins)
	avgLoss := -s.TotalLossPnL / float64(lossCount)
	if avgLoss <= 0 {
		return 0, false
	}

	winRate := float64(s.Wins) / float64(s.Trades)
	kelly := winRate - (1-winRate)/(avgWin/avgLoss)

	half := kelly * 0.5
	if half > kellyCap {
		half = kellyCap
	}
	if half <= 0 {
		return 0, false
	}
	return half, true
}
