package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFixtureTranscript(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestRun_BuildsIndexAndShutsDownOnCancel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	sessionsDir := t.TempDir()
	indexDir := t.TempDir()
	writeFixtureTranscript(t, sessionsDir, "A.jsonl",
		`{"type":"user","timestamp":"2026-07-29T09:00:00Z","message":{"role":"user","content":"discussing memsearchd startup"}}`+"\n")

	// config files are only read from ~/.config/memsearch or /etc/memsearch,
	// so point HOME at a throwaway directory and drop the file there.
	home := t.TempDir()
	confDir := filepath.Join(home, ".config", "memsearch")
	if err := os.MkdirAll(confDir, 0o700); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(confDir, "config.yaml")
	body := "index_dir: " + indexDir + "\n" +
		"sessions_dir: " + sessionsDir + "\n" +
		"debounce_interval: 10ms\n" +
		"cooldown_interval: 1ms\n"
	if err := os.WriteFile(configPath, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", home)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx, configPath, true)
	}()

	deadline := time.Now().Add(time.Second)
	for {
		if _, err := os.Stat(filepath.Join(indexDir, "inverted-index.json")); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("index file was never written")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("run() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("memsearchd did not shut down in time")
	}
}
