package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/khianvictorycalderon/profilesync/internal/flagx"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. The timeout is
// given in whole seconds; zero or absent values leave the runtime Config
// untouched.
type jsonConfig struct {
	IdentityEndpoint string `json:"identity_endpoint"`
	IdentityAPIKey   string `json:"identity_api_key"`
	DocumentDSN      string `json:"document_dsn"`
	CacheDSN         string `json:"cache_dsn"`
	BlobRegion       string `json:"blob_region"`
	BlobEndpoint     string `json:"blob_endpoint"`
	BlobBucket       string `json:"blob_bucket"`
	BlobAccessKey    string `json:"blob_access_key"`
	BlobSecretKey    string `json:"blob_secret_key"`
	OpTimeoutSeconds int    `json:"op_timeout_seconds"`
}

// parseJSON overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. No file requested means no changes. Read and unmarshal
// errors panic; the caller decides whether to recover.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc jsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.IdentityEndpoint != "" {
		cfg.IdentityEndpoint = jc.IdentityEndpoint
	}
	if jc.IdentityAPIKey != "" {
		cfg.IdentityAPIKey = jc.IdentityAPIKey
	}
	if jc.DocumentDSN != "" {
		cfg.DocumentDSN = jc.DocumentDSN
	}
	if jc.CacheDSN != "" {
		cfg.CacheDSN = jc.CacheDSN
	}
	if jc.BlobRegion != "" {
		cfg.BlobRegion = jc.BlobRegion
	}
	if jc.BlobEndpoint != "" {
		cfg.BlobEndpoint = jc.BlobEndpoint
	}
	if jc.BlobBucket != "" {
		cfg.BlobBucket = jc.BlobBucket
	}
	if jc.BlobAccessKey != "" {
		cfg.BlobAccessKey = jc.BlobAccessKey
	}
	if jc.BlobSecretKey != "" {
		cfg.BlobSecretKey = jc.BlobSecretKey
	}
	if jc.OpTimeoutSeconds > 0 {
		cfg.OpTimeout = time.Duration(jc.OpTimeoutSeconds) * time.Second
	}
}
