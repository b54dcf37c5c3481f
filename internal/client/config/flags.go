package config

import (
	"flag"
	"os"
	"time"

	"github.com/codetrack-app/codetrack/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   base URL of the CodeTrack API (default from Config)
//	-l string   host:port for the loopback OAuth callback server
//	-t int      request timeout in seconds (default from Config)
//	-f string   path to the credential cache file
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-l", "-t", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BackendURL, "b", cfg.BackendURL, "base URL of the CodeTrack API")
	fs.StringVar(&cfg.CallbackAddr, "l", cfg.CallbackAddr, "listen address for the OAuth callback server")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.CacheDSN, "f", cfg.CacheDSN, "path to the credential cache file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
