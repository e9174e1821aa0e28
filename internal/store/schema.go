package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS incomes (
    id                   TEXT PRIMARY KEY,
    date                 TEXT NOT NULL,
    time                 TEXT NOT NULL DEFAULT '',
    amount               REAL NOT NULL,
    kind                 TEXT NOT NULL DEFAULT 'normal',
    was_planned          INTEGER NOT NULL DEFAULT 0,
    user_id              TEXT NOT NULL DEFAULT '',
    source               TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS expenses (
    id                   TEXT PRIMARY KEY,
    date                 TEXT NOT NULL,
    time                 TEXT NOT NULL DEFAULT '',
    amount               REAL NOT NULL,
    quantity             REAL NOT NULL DEFAULT 1,
    kind                 TEXT NOT NULL DEFAULT 'normal',
    was_planned          INTEGER NOT NULL DEFAULT 0,
    user_id              TEXT NOT NULL DEFAULT '',
    category             TEXT NOT NULL DEFAULT '',
    description          TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS savings_goals (
    id                     TEXT PRIMARY KEY,
    name                   TEXT NOT NULL,
    description            TEXT NOT NULL DEFAULT '',
    icon                   TEXT NOT NULL DEFAULT '',
    target_amount          REAL NOT NULL,
    current_amount         REAL NOT NULL DEFAULT 0,
    target_date            TEXT NOT NULL DEFAULT '',
    priority               INTEGER NOT NULL DEFAULT 2,
    status                 TEXT NOT NULL DEFAULT 'active',
    last_suggestion_date   TEXT NOT NULL DEFAULT '',
    last_suggestion_amount REAL NOT NULL DEFAULT 0,
    suggestion_status      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS daily_envelopes (
    date                 TEXT PRIMARY KEY,
    base_amount          REAL NOT NULL,
    set_at               TEXT NOT NULL,
    today_extra          REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS import_files (
    path                 TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    imported_rows        INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_incomes_date ON incomes(date);
CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date);
CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category);
`
