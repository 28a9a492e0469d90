package constant

const CacheSep = "|"

// Aggregate store types: the blob cache is keyed by (type, region).
const (
	AggregateTypeStats = "stats"
)
