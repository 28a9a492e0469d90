package appconfig

import (
	"time"

	"compstats.gg/backend/internal/app/appcontext"
)

type ConfigSpec struct {
	// ServiceAddress is the listen address would listen on for serving normal service requests.
	ServiceAddress string `required:"true" split_words:"true" default:"localhost:9040"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// DevMode to indicate development mode. When true, the program would spin up utilities for debugging and
	// provide a more contextual message when encountered a panic.
	DevMode bool `split_words:"true"`

	// infrastructure components connection instructions

	// PostgresDSN is the data source name for the PostgreSQL database. See
	// https://bun.uptrace.dev/postgres/#pgdriver for more details on how to construct a PostgreSQL DSN.
	PostgresDSN string `required:"true" split_words:"true"`

	PostgresMaxOpenConns    int           `split_words:"true" default:"10"`
	PostgresMaxIdleConns    int           `split_words:"true" default:"2"`
	PostgresConnMaxLifeTime time.Duration `split_words:"true" default:"5m"`
	PostgresConnMaxIdleTime time.Duration `split_words:"true" default:"5m"`

	BunDebugVerbose bool `split_words:"true"`

	// NatsURL is the URL of the NATS server. See https://pkg.go.dev/github.com/nats-io/nats.go#Connect
	// for more information on how to construct a NATS URL.
	NatsURL string `required:"true" split_words:"true" default:"nats://127.0.0.1:4222"`

	// RedisURL is the URL of the Redis server, and by default uses redis db 1, to avoid potential collision
	// with a previous running instance. See https://pkg.go.dev/github.com/redis/go-redis/v9#ParseURL
	// for more information on how to construct a Redis URL.
	RedisURL string `required:"true" split_words:"true" default:"redis://127.0.0.1:6379/1"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// HTTPServerShutdownTimeout is the timeout for the HTTP server to shut down gracefully.
	HTTPServerShutdownTimeout time.Duration `required:"true" split_words:"true" default:"60s"`

	// WorkerInterval describes the interval in-between different batches
	WorkerInterval time.Duration `required:"true" split_words:"true" default:"10m"`

	// WorkerSeparation describes the separation time in-between different microtasks
	WorkerSeparation time.Duration `required:"true" split_words:"true" default:"3s"`

	// WorkerTimeout describes the timeout for a single batch to run
	WorkerTimeout time.Duration `required:"true" split_words:"true" default:"10m"`

	// WorkerMatchWindow bounds how far back raw matches are read for one
	// aggregation batch.
	WorkerMatchWindow time.Duration `split_words:"true" default:"168h"`

	// WorkerEnabled is a flag to indicate whether to enable the worker.
	WorkerEnabled bool `split_words:"true"`

	// AdminKey is the key used to authenticate the admin API.
	AdminKey string `split_words:"true"`

	// Realism filter thresholds (see the composition verifiers). These are
	// heuristic outlier guards; whether they should instead derive from the
	// observed distribution is an open question, so they stay configurable.

	// RealismMaxCostUnitCap is the most units at the maximum cost tier a
	// plausible composition may field.
	RealismMaxCostUnitCap int `split_words:"true" default:"3"`

	// RealismTopTierTraitCap caps traits at the top activation tier.
	RealismTopTierTraitCap int `split_words:"true" default:"1"`

	// RealismSecondTierTraitCap caps traits at the second-highest tier.
	RealismSecondTierTraitCap int `split_words:"true" default:"3"`

	// RealismMinUnits and RealismMaxUnits bound the total unit count.
	RealismMinUnits int `split_words:"true" default:"5"`
	RealismMaxUnits int `split_words:"true" default:"10"`

	// RealismMaxMeanUnitCost caps the mean unit cost of the board.
	RealismMaxMeanUnitCost float64 `split_words:"true" default:"4"`

	// RealismMaxFullItemRatio caps the share of fully itemized units.
	RealismMaxFullItemRatio float64 `split_words:"true" default:"0.7"`

	// Aggregation tunables.

	// AggregationMinGroupCount is the minimum weighted occurrences a
	// composition group needs to be retained as a named composition.
	AggregationMinGroupCount float64 `split_words:"true" default:"2"`

	// ComboMinOccurrences is the minimum occurrences an item combination
	// needs to be reported.
	ComboMinOccurrences float64 `split_words:"true" default:"2"`

	// ComboMaxPerItem caps the reported combos per item.
	ComboMaxPerItem int `split_words:"true" default:"5"`

	// TopItemsPerUnit caps the best-performing items attached to a unit.
	TopItemsPerUnit int `split_words:"true" default:"3"`

	// Highlight tunables.

	// HighlightTopN is the length of each ranked highlight list.
	HighlightTopN int `split_words:"true" default:"5"`

	// HighlightPocketWinRate is the win-rate floor for pocket picks.
	HighlightPocketWinRate float64 `split_words:"true" default:"52"`

	// HighlightPocketPlayRateCeil is the play-rate ceiling for pocket picks,
	// as a percentage of games in the dataset.
	HighlightPocketPlayRateCeil float64 `split_words:"true" default:"5"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}
