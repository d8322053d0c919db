package types

import "time"

// HTTPConfig holds shared HTTP settings used by backends that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no client timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "rag-compare/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// BackendKind selects the adapter used to reach a generation backend.
type BackendKind string

const (
	KindHTTP   BackendKind = "http"
	KindOpenAI BackendKind = "openai"
)

// BackendConfig describes how to reach one generation backend.
type BackendConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Kind selects the adapter: http or openai.
	Kind BackendKind `json:"kind" yaml:"kind" mapstructure:"kind"`

	// URL is the service endpoint. For openai it overrides the API base URL.
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// Model is the model identifier sent to the service, if it takes one.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates with the service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// QueryConfig holds settings for the query stage.
type QueryConfig struct {
	RAG     BackendConfig `json:"rag" yaml:"rag" mapstructure:"rag"`
	Seq2Seq BackendConfig `json:"seq2seq" yaml:"seq2seq" mapstructure:"seq2seq"`

	// Parallel runs the two backend calls concurrently.
	Parallel bool `json:"parallel" yaml:"parallel" mapstructure:"parallel"`
}

// TransformConfig holds settings for the transform stage.
type TransformConfig struct {
	// Limit stops after this many sources are written. Zero means no limit.
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`
}

// DatasetConfig holds settings for locating the raw dataset snapshot.
type DatasetConfig struct {
	// ID is the dataset identifier in owner/name form (e.g. "Cornell-University/arxiv").
	ID string `json:"id" yaml:"id" mapstructure:"id"`

	// CacheDir is the downloader cache root (contains datasets/).
	CacheDir string `json:"cache_dir" yaml:"cache_dir" mapstructure:"cache_dir"`

	// SnapshotFile is the metadata file name inside the dataset directory.
	SnapshotFile string `json:"snapshot_file" yaml:"snapshot_file" mapstructure:"snapshot_file"`
}

// StoreConfig holds settings for the run log.
type StoreConfig struct {
	// Dir is the directory holding runs.db and exports.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is console or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}
