package store

// schemaVersion1 is the current schema.
const schemaVersion1 = 1

var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	scenario       TEXT NOT NULL,
	number_of_runs INTEGER NOT NULL,
	warm_up        REAL NOT NULL,
	collection     REAL NOT NULL,
	params_yaml    TEXT NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS occupancy_rows (
	run_id     INTEGER NOT NULL REFERENCES runs(id),
	unit       TEXT NOT NULL,
	beds       INTEGER NOT NULL,
	freq       INTEGER NOT NULL,
	pct        REAL NOT NULL,
	c_pct      REAL NOT NULL,
	prob_delay REAL NOT NULL,
	PRIMARY KEY (run_id, unit, beds)
);

CREATE TABLE IF NOT EXISTS unit_summaries (
	run_id         INTEGER NOT NULL REFERENCES runs(id),
	unit           TEXT NOT NULL,
	mean_occupancy REAL NOT NULL,
	sd_occupancy   REAL NOT NULL,
	ci_low         REAL NOT NULL,
	ci_high        REAL NOT NULL,
	mean_admitted  REAL NOT NULL,
	PRIMARY KEY (run_id, unit)
);
`
