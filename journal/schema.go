package journal

const Schema = `
CREATE TABLE IF NOT EXISTS signals (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	time DATETIME NOT NULL,
	regime TEXT NOT NULL,
	action TEXT NOT NULL,
	price REAL NOT NULL,
	qty REAL NOT NULL,
	score REAL NOT NULL,
	profit REAL NOT NULL,
	conditions TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS fills (
	order_id TEXT PRIMARY KEY,
	signal_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	qty REAL NOT NULL,
	fill_price REAL NOT NULL,
	submitted_at DATETIME NOT NULL,
	filled_at DATETIME NOT NULL,
	status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_signals_symbol_time ON signals(symbol, time);
CREATE INDEX IF NOT EXISTS idx_fills_symbol ON fills(symbol);
`
