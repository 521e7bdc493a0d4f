package schema

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Users

CREATE TABLE IF NOT EXISTS users (
    user_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    username VARCHAR(50) UNIQUE NOT NULL,
    currency INTEGER NOT NULL DEFAULT 0 CHECK (currency >= 0),
    level INTEGER NOT NULL DEFAULT 1,
    xp INTEGER NOT NULL DEFAULT 0,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Gacha Pools

CREATE TABLE IF NOT EXISTS gacha_pools (
    pool_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(100) NOT NULL,
    description TEXT,
    pool_type VARCHAR(20) NOT NULL DEFAULT 'STANDARD',
    cost INTEGER NOT NULL CHECK (cost > 0),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    is_admin_only BOOLEAN NOT NULL DEFAULT FALSE,
    search_tags VARCHAR(200) NOT NULL DEFAULT '',
    enable_local BOOLEAN NOT NULL DEFAULT TRUE,
    enable_cloudinary BOOLEAN NOT NULL DEFAULT FALSE,
    enable_wallhaven BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Per-pool rarity weights; probability is denormalized from the weights

CREATE TABLE IF NOT EXISTS pool_rarity_configs (
    pool_id UUID NOT NULL REFERENCES gacha_pools(pool_id) ON DELETE CASCADE,
    rarity VARCHAR(20) NOT NULL,
    weight INTEGER NOT NULL CHECK (weight > 0),
    probability DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (pool_id, rarity)
);

-- Pull log; item display data is snapshotted at pull time

CREATE TABLE IF NOT EXISTS gacha_pulls (
    pull_id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    pool_id UUID NOT NULL,
    item_id VARCHAR(255) NOT NULL,
    item_name VARCHAR(255) NOT NULL,
    image_url TEXT NOT NULL DEFAULT '',
    rarity VARCHAR(20) NOT NULL,
    cost INTEGER NOT NULL,
    pulled_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_gacha_pulls_user ON gacha_pulls (user_id, pulled_at DESC);

-- Collection; pull_count increments on repeat pulls

CREATE TABLE IF NOT EXISTS user_collections (
    user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    item_id VARCHAR(255) NOT NULL,
    pull_count INTEGER NOT NULL DEFAULT 1,
    obtained_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, item_id)
);

-- Append-only currency ledger

CREATE TABLE IF NOT EXISTS currency_transactions (
    transaction_id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    amount INTEGER NOT NULL,
    tx_type VARCHAR(30) NOT NULL,
    description TEXT,
    balance_before INTEGER NOT NULL,
    balance_after INTEGER NOT NULL,
    metadata JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_currency_tx_user ON currency_transactions (user_id, created_at DESC);
`
