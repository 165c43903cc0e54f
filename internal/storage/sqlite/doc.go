// Package sqlite provides the key-value persistence backend backed by SQLite.
//
// Every setting, the completed cycle count and the serialized task list live
// in a single kv_entries table.
package sqlite
