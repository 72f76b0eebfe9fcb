package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite journals runs into a SQLite database, creating the schema on open.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the journal database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, dataset, initial_capital, final_value, total_pnl,
		 total_trades, win_rate, max_drawdown_pct, sharpe_ratio, profit_factor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Dataset, r.InitialCapital, r.FinalValue, r.TotalPnL,
		r.TotalTrades, r.WinRate, r.MaxDrawdownPct, r.SharpeRatio, r.ProfitFactor,
	)
	return err
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	if t.TradeID == "" {
		t.TradeID = NewTradeID()
	}
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, symbol, side, quantity, entry_price, exit_price, pnl, opened_at, closed_at, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Symbol, t.Side, t.Quantity, t.EntryPrice,
		t.ExitPrice, t.PnL, t.OpenedAt, t.ClosedAt, t.Reason,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (run_id, time, value) VALUES (?, ?, ?)`,
		e.RunID, e.Time, e.Value,
	)
	return err
}

// GetRun returns one run's summary row.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var r RunRecord
	row := j.db.QueryRow(`
		SELECT run_id, created, dataset, initial_capital, final_value, total_pnl,
		       total_trades, win_rate, max_drawdown_pct, sharpe_ratio, profit_factor
		FROM runs WHERE run_id = ?`, runID)

	err := row.Scan(&r.RunID, &r.Created, &r.Dataset, &r.InitialCapital, &r.FinalValue,
		&r.TotalPnL, &r.TotalTrades, &r.WinRate, &r.MaxDrawdownPct, &r.SharpeRatio, &r.ProfitFactor)
	if err == sql.ErrNoRows {
		return RunRecord{}, fmt.Errorf("run %q not found", runID)
	}
	if err != nil {
		return RunRecord{}, err
	}
	return r, nil
}

// ListRuns returns all run summaries, newest first.
func (j *SQLite) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, dataset, initial_capital, final_value, total_pnl,
		       total_trades, win_rate, max_drawdown_pct, sharpe_ratio, profit_factor
		FROM runs ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.Created, &r.Dataset, &r.InitialCapital, &r.FinalValue,
			&r.TotalPnL, &r.TotalTrades, &r.WinRate, &r.MaxDrawdownPct, &r.SharpeRatio, &r.ProfitFactor); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetTrade returns one journaled trade by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	var t TradeRecord
	row := j.db.QueryRow(`
		SELECT trade_id, run_id, symbol, side, quantity, entry_price, exit_price, pnl, opened_at, closed_at, reason
		FROM trades WHERE trade_id = ?`, tradeID)

	err := row.Scan(&t.TradeID, &t.RunID, &t.Symbol, &t.Side, &t.Quantity, &t.EntryPrice,
		&t.ExitPrice, &t.PnL, &t.OpenedAt, &t.ClosedAt, &t.Reason)
	if err == sql.ErrNoRows {
		return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
	}
	if err != nil {
		return TradeRecord{}, err
	}
	return t, nil
}

// ListTradesByRun returns a run's trades in close order.
func (j *SQLite) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, symbol, side, quantity, entry_price, exit_price, pnl, opened_at, closed_at, reason
		FROM trades WHERE run_id = ? ORDER BY closed_at ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(&t.TradeID, &t.RunID, &t.Symbol, &t.Side, &t.Quantity, &t.EntryPrice,
			&t.ExitPrice, &t.PnL, &t.OpenedAt, &t.ClosedAt, &t.Reason); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListEquityByRun returns a run's equity curve in time order.
func (j *SQLite) ListEquityByRun(runID string) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, value FROM equity WHERE run_id = ? ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.RunID, &e.Time, &e.Value); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
