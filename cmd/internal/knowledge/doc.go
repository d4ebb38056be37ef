// Package knowledge implements MindRemember's knowledge-tree persistence:
// folders, themes, records, and the spaced-repetition knowledge queue.
//
// Entities form a shallow ownership hierarchy (user → folder → theme →
// record, and user → knowledge queue) and are append-only: the API creates
// and lists rows, never updates or deletes them.
package knowledge
