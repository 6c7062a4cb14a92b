package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS conversations (
    conversation_id      TEXT PRIMARY KEY,
    archive_path         TEXT NOT NULL,
    position             INTEGER NOT NULL,
    title                TEXT NOT NULL,
    create_time          REAL,
    is_archived          INTEGER NOT NULL DEFAULT 0,
    user_messages        INTEGER,
    assistant_messages   INTEGER,
    tool_messages        INTEGER,
    tools_used           TEXT,
    dominant_model       TEXT,
    input_tokens         INTEGER,
    output_tokens        INTEGER,
    total_cost           REAL,
    messages_json        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS archive_tracker (
    archive_path         TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    processed_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversations_archive ON conversations(archive_path);
CREATE INDEX IF NOT EXISTS idx_conversations_create ON conversations(create_time);
`
