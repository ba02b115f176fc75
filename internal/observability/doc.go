// Package observability provides diagnostic logging, shift metrics and
// alerting for jegere. Metrics and alerts are derived on demand from the
// reconstructed shift archive; nothing is persisted.
package observability
