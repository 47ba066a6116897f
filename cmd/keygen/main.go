// Command keygen creates API keys for the ApiKey configuration section.
//
// The plaintext key is handed to the client; the printed argon2id hash goes
// into API_KEY_VALID_KEYS so the server never stores the plaintext. Several
// entries in API_KEY_VALID_KEYS are separated with ";".
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/auth"
)

type output struct {
	KeyID string `json:"key_id"`
	Key   string `json:"key,omitempty"`
	Hash  string `json:"hash"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		env      = fs.String("env", auth.EnvLive, "Key environment: live or test")
		existing = fs.String("hash", "", "Hash this existing key instead of generating one")
		format   = fs.String("format", "plain", "Output format: plain, json or env")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var out output
	if key := strings.TrimSpace(*existing); key != "" {
		if !auth.ValidateKeyFormat(key) {
			fmt.Fprintln(stderr, "key to hash must look like lx_live_<32 hex> or lx_test_<32 hex>")
			return 2
		}
		hash, err := auth.HashKey(key)
		if err != nil {
			fmt.Fprintln(stderr, "hash key:", err)
			return 1
		}
		out = output{KeyID: auth.KeyID(key), Hash: hash}
	} else {
		if *env != auth.EnvLive && *env != auth.EnvTest {
			fmt.Fprintln(stderr, "invalid env; use live or test")
			return 2
		}
		generated, err := auth.GenerateKey(*env)
		if err != nil {
			fmt.Fprintln(stderr, "generate api key:", err)
			return 1
		}
		out = output{KeyID: generated.KeyID, Key: generated.Plaintext, Hash: generated.Hash}
	}

	switch strings.ToLower(*format) {
	case "plain":
		if out.Key != "" {
			fmt.Fprintln(stdout, "key:    ", out.Key)
		}
		fmt.Fprintln(stdout, "key_id: ", out.KeyID)
		fmt.Fprintln(stdout, "hash:   ", out.Hash)
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	case "env":
		fmt.Fprintf(stdout, "API_KEY_VALID_KEYS=%s\n", out.Hash)
	default:
		fmt.Fprintln(stderr, "invalid format; use plain, json or env")
		return 2
	}
	return 0
}
