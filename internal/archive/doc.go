// Package archive stores compressed documents in SQLite.
//
// Each document row keeps the zstd-packed wire form of a compressed tree
// together with the options it was compressed with and the content hash
// of the stored content. Rows are append-only apart from explicit deletes.
//
// # Identity
//
//   - id is a UUIDv7 assigned on first insert
//   - (name, encoding_hash) is unique: storing the same encoding (value
//     list, root and options) under the same name again returns the
//     existing document
//   - content_hash ignores key order and special numbers; documents that
//     differ only in those share it but keep separate rows
//   - listing is ordered by seq, the insertion counter
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
package archive
