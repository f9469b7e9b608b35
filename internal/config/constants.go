package config

// Default configuration values
const (
	DefaultPort           = 8080
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultEnvironment    = "dev"
	DefaultDBName         = "wagerhall"
	DefaultDeadLetterPath = "events.deadletter.jsonl"

	// DefaultFeeRate is the platform cut taken from the pool at settlement
	DefaultFeeRate = 0.05

	// DefaultSettleChunkSize bounds the records settled per transaction so
	// one huge event cannot hold locks for the whole settlement run
	DefaultSettleChunkSize = 100
)
