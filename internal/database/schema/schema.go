package schema

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Wagering Schema

-- 1. Events
CREATE TABLE IF NOT EXISTS wager_events (
    event_id UUID PRIMARY KEY,
    creator_id UUID NOT NULL,
    title VARCHAR(200) NOT NULL,
    kind VARCHAR(10) NOT NULL CHECK (kind IN ('Wager', 'Poll')),
    category VARCHAR(50) NOT NULL DEFAULT '',
    status VARCHAR(12) NOT NULL DEFAULT 'Pending'
        CHECK (status IN ('Pending', 'Active', 'Finished', 'Cancelled')),
    start_time TIMESTAMPTZ NOT NULL,
    end_time TIMESTAMPTZ NOT NULL,
    min_wager_amount BIGINT NOT NULL DEFAULT 0 CHECK (min_wager_amount >= 0),
    total_pool BIGINT NOT NULL DEFAULT 0 CHECK (total_pool >= 0),
    total_wager_count INTEGER NOT NULL DEFAULT 0,
    total_participants INTEGER NOT NULL DEFAULT 0,
    winner_option_id INTEGER,
    settled_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_wager_events_status ON wager_events(status);
CREATE INDEX IF NOT EXISTS idx_wager_events_category ON wager_events(category);

-- 2. Options
CREATE TABLE IF NOT EXISTS wager_options (
    option_id SERIAL PRIMARY KEY,
    event_id UUID NOT NULL REFERENCES wager_events(event_id) ON DELETE CASCADE,
    option_name VARCHAR(100) NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0,
    total_amount BIGINT NOT NULL DEFAULT 0 CHECK (total_amount >= 0),
    total_votes INTEGER NOT NULL DEFAULT 0,
    current_odds DOUBLE PRECISION NOT NULL DEFAULT 2.0,
    is_winner BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (event_id, option_name)
);

CREATE INDEX IF NOT EXISTS idx_wager_options_event ON wager_options(event_id);

-- 3. Records
-- The (user_id, event_id) uniqueness is the race-safety net behind the
-- application-level duplicate check.
CREATE TABLE IF NOT EXISTS wager_records (
    record_id UUID PRIMARY KEY,
    user_id UUID NOT NULL,
    event_id UUID NOT NULL REFERENCES wager_events(event_id) ON DELETE CASCADE,
    option_id INTEGER NOT NULL REFERENCES wager_options(option_id) ON DELETE CASCADE,
    wager_amount BIGINT NOT NULL DEFAULT 0 CHECK (wager_amount >= 0),
    odds_at_wager DOUBLE PRECISION NOT NULL,
    status VARCHAR(10) NOT NULL DEFAULT 'Pending'
        CHECK (status IN ('Pending', 'Won', 'Lost', 'Refunded')),
    win_amount BIGINT NOT NULL DEFAULT 0,
    settled_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT uq_wager_records_user_event UNIQUE (user_id, event_id)
);

CREATE INDEX IF NOT EXISTS idx_wager_records_event_status ON wager_records(event_id, status);

-- 4. Balances & Ledger Audit Trail
CREATE TABLE IF NOT EXISTS user_balances (
    user_id UUID PRIMARY KEY,
    balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ledger_entries (
    entry_id BIGSERIAL PRIMARY KEY,
    user_id UUID NOT NULL,
    amount BIGINT NOT NULL,
    reason VARCHAR(50) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_user ON ledger_entries(user_id);
`
