package state

const schemaSQL = `
CREATE TABLE IF NOT EXISTS conversations (
  identity TEXT PRIMARY KEY,
  display_name TEXT,
  profile TEXT,
  phase TEXT,
  history TEXT,
  routine TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS message_log (
  id TEXT PRIMARY KEY,
  identity TEXT NOT NULL,
  role TEXT NOT NULL,
  content TEXT NOT NULL,
  media_url TEXT,
  created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_message_log_identity_created ON message_log(identity, created_at);

CREATE TABLE IF NOT EXISTS events (
  id TEXT PRIMARY KEY,
  identity TEXT NOT NULL,
  kind TEXT NOT NULL,
  body TEXT NOT NULL,
  metadata TEXT,
  created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_identity_created ON events(identity, created_at);
`
