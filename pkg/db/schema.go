package db

const (
	// SchemaV1 creates every table of the journaldb component.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS eunoia_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    email VARCHAR(320) NOT NULL UNIQUE,
    password_hash TEXT NOT NULL DEFAULT '',
    display_name VARCHAR(256) NOT NULL DEFAULT '',
    avatar_url TEXT NOT NULL DEFAULT '',
    bio TEXT NOT NULL DEFAULT '',
    timezone VARCHAR(64) NOT NULL DEFAULT '',
    plan VARCHAR(32) NOT NULL DEFAULT 'free',
    plan_status VARCHAR(32) NOT NULL DEFAULT 'active',
    plan_renews_at TIMESTAMP,
    mfa_enabled BOOLEAN NOT NULL DEFAULT FALSE,
    sso_provider VARCHAR(32) NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
    id UUID PRIMARY KEY,
    title VARCHAR(256) NOT NULL,
    content TEXT NOT NULL,
    content_type VARCHAR(64) DEFAULT 'text/html',
    sentiment REAL NOT NULL DEFAULT 0 CHECK (sentiment BETWEEN -1 AND 1),
    topics TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS entries_created_at ON entries (created_at);

CREATE TABLE IF NOT EXISTS tags (
    tag VARCHAR(256) PRIMARY KEY,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS entry_tags (
    entry_id UUID NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
    tag VARCHAR(256) NOT NULL REFERENCES tags(tag) ON DELETE CASCADE,
    position INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (entry_id, tag)
);

CREATE TABLE IF NOT EXISTS reminders (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL,
    time_of_day VARCHAR(5) NOT NULL,
    days TEXT NOT NULL DEFAULT '["everyday"]',
    message TEXT NOT NULL DEFAULT '',
    enabled BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS reminders_user_id ON reminders (user_id);

CREATE TABLE IF NOT EXISTS preferences (
    user_id UUID PRIMARY KEY,
    settings TEXT NOT NULL,
    updated_at REAL DEFAULT (unixepoch())
);
`
)
