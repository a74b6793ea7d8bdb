package config

import (
	"flag"
	"os"
	"time"

	"github.com/khianvictorycalderon/profilesync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-e string      identity backend endpoint URL
//	-k string      identity backend API key
//	-d string      postgres DSN of the document store (empty: in-memory)
//	-cache string  sqlite DSN of the offline field cache (empty: disabled)
//	-t int         operation timeout in seconds
//
// Only these flags are parsed; os.Args is filtered first so flags owned by
// other components pass through untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-k", "-d", "-cache", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.IdentityEndpoint, "e", cfg.IdentityEndpoint, "identity backend endpoint")
	fs.StringVar(&cfg.IdentityAPIKey, "k", cfg.IdentityAPIKey, "identity backend API key")
	fs.StringVar(&cfg.DocumentDSN, "d", cfg.DocumentDSN, "document store DSN")
	fs.StringVar(&cfg.CacheDSN, "cache", cfg.CacheDSN, "offline cache DSN")
	opTimeout := fs.Int("t", int(cfg.OpTimeout.Seconds()), "operation timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OpTimeout = time.Duration(*opTimeout) * time.Second
}
