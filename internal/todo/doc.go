// Package todo manages the pending and completed task lists and their
// persisted form.
//
// A List owns two ordered sequences of Task. Every task id lives in exactly
// one of them. Add appends to pending, Complete moves a task from pending to
// completed, and Reopen moves it back. Order is insertion order; nothing is
// ever re-sorted and nothing is deleted.
//
// # Persisted Format
//
// State is kept in a storage.Store under two keys, each holding a JSON array:
//
//	todos:     [{"id": "5f0c...", "text": "Pay rent", "dueDate": "2026-10-19T09:00:00+02:00"}]
//	completed: [{"id": "9a1e...", "text": "Buy milk"}]
//
// dueDate is RFC 3339 and omitted when the task has no deadline.
//
// # Validation
//
// Stored values are checked against an embedded JSON Schema (draft 2020-12)
// before they are trusted, followed by a minimal structural check (non-empty
// id, parseable dueDate). A key that is missing, not JSON, or the wrong shape
// loads as an empty list. Duplicate ids keep their first occurrence, with
// "todos" read before "completed".
//
// # Saving
//
// Every mutation writes both keys. A non-empty list is stored; an empty list
// has its key deleted, so emptying a list survives a restart.
package todo
