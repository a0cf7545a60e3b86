package journal

// Orders are reloaded in seq order so list order survives a restart.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS resources (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	status   TEXT NOT NULL,
	position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS production_orders (
	seq         BIGSERIAL,
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	status      TEXT NOT NULL,
	resource_id TEXT REFERENCES resources(id),
	start_time  TIMESTAMPTZ,
	end_time    TIMESTAMPTZ,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_production_orders_seq ON production_orders (seq);
`

// SQLite keeps times as RFC3339Nano text; rowid preserves insertion order.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS resources (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	status   TEXT NOT NULL,
	position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS production_orders (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	status      TEXT NOT NULL,
	resource_id TEXT REFERENCES resources(id),
	start_time  TEXT,
	end_time    TEXT,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
`
