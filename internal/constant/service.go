package constant

import "time"

const (
	// MatchIngestStream is the JetStream stream raw match tasks flow through.
	MatchIngestStream = "match-ingest"

	// MatchIngestSubject is the subject matches are published under,
	// suffixed with the region, e.g. MATCH.NA.
	MatchIngestSubject = "MATCH"

	// MatchIngestQueue is the queue group name for ingest consumers.
	MatchIngestQueue = "match-ingest-workers"
)

const (
	ContextKeyRequestID = "requestid"

	RequestIDHeader = "X-Comps-Request-ID"

	AdminKeyHeader = "X-Comps-Admin-Key"
)

const (
	// AggregateCacheExpire bounds staleness of stored aggregates in case the
	// periodic worker stalls.
	AggregateCacheExpire = 24 * time.Hour
)
