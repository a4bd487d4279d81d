// Package tasks runs long catalog operations with real-time progress reporting.
//
// # Bulk Export
//
// [Exporter.BulkExport] writes every page of a query to disk:
//   - Pages are dispatched to a worker pool, paced by an optional rate limit
//   - Each worker runs the query pipeline for its page and writes it with the formatter package
//   - A failed page is recorded and does not stop the others
//   - An export_manifest.json summarizing every page is written last
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on an optional channel. Sends never block;
// updates are dropped when the channel is full.
package tasks
