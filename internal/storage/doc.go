// Package storage persists the client dataset in a small key-value store.
//
// The whole dataset lives under one key (KeyClients) as a JSON array using
// the persisted Portuguese field names; the theme preference lives under
// KeyTheme as a bare string. Three drivers back the KV interface:
//
//   - file: one file per key under a data directory (default)
//   - sqlite: a single kv table in a SQLite database
//   - memory: process memory, nothing survives exit
//
// Gateway adapts a KV to clients.Gateway. A missing or undecodable blob
// loads as an empty dataset; a failed read is an error.
package storage
