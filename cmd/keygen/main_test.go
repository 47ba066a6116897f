package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/auth"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/config"
)

func TestRun_GenerateJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-env", "test", "-format", "json"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr %s", code, stderr.String())
	}

	var out output
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if env, err := auth.KeyEnv(out.Key); err != nil || env != auth.EnvTest {
		t.Errorf("KeyEnv(%q) = %q, %v", out.Key, env, err)
	}
	if out.KeyID != auth.KeyID(out.Key) {
		t.Errorf("KeyID = %q, want %q", out.KeyID, auth.KeyID(out.Key))
	}

	// The printed hash must be accepted by the server configuration.
	matcher := auth.NewKeyMatcher(config.NewAPIKeyOptions(out.Hash))
	if !matcher.Match(out.Key) {
		t.Error("generated key does not match its own hash")
	}
}

const existingKey = "lx_live_0123456789abcdef0123456789abcdef"

func TestRun_HashExistingEnvFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-hash", existingKey, "-format", "env"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr %s", code, stderr.String())
	}

	line := strings.TrimSpace(stdout.String())
	hash, ok := strings.CutPrefix(line, "API_KEY_VALID_KEYS=")
	if !ok {
		t.Fatalf("unexpected output %q", line)
	}
	if ok, err := auth.VerifyKey(existingKey, hash); err != nil || !ok {
		t.Errorf("VerifyKey() = %v, %v", ok, err)
	}
}

func TestRun_EnvOutputAuthenticatesThroughConfig(t *testing.T) {
	var generated, stderr bytes.Buffer
	if code := run([]string{"-env", "live", "-format", "json"}, &generated, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr %s", code, stderr.String())
	}
	var out output
	if err := json.Unmarshal(generated.Bytes(), &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}

	var envLine bytes.Buffer
	if code := run([]string{"-hash", out.Key, "-format", "env"}, &envLine, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr %s", code, stderr.String())
	}
	value, ok := strings.CutPrefix(strings.TrimSpace(envLine.String()), "API_KEY_VALID_KEYS=")
	if !ok {
		t.Fatalf("unexpected output %q", envLine.String())
	}

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("API_KEY_VALID_KEYS", value+";"+out.Hash)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() failed: %v", err)
	}
	matcher := auth.NewKeyMatcher(cfg.APIKey)
	if matcher.Len() != 2 {
		t.Fatalf("matcher holds %d keys, want 2 (entries %v)", matcher.Len(), cfg.APIKey.ValidKeys)
	}
	if !matcher.Match(out.Key) {
		t.Error("generated key was rejected after a round trip through the environment")
	}
	for _, fragment := range []string{"t=3", "p=4", "m=65536"} {
		if matcher.Match(fragment) {
			t.Errorf("hash fragment %q must not authenticate", fragment)
		}
	}
}

func TestRun_InvalidFlags(t *testing.T) {
	for _, args := range [][]string{
		{"-env", "staging"},
		{"-hash", "my-secret"},
		{"-format", "yaml"},
		{"-unknown"},
	} {
		var stdout, stderr bytes.Buffer
		if code := run(args, &stdout, &stderr); code != 2 {
			t.Errorf("run(%v) = %d, want 2", args, code)
		}
	}
}
