// Package httputil provides bounded HTTP helpers for fetching remote
// banner assets: retry with exponential backoff for transient failures,
// and a byte fetcher with a hard per-request deadline so a slow image host
// can never hang an export.
package httputil
