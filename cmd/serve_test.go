package cmd

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"roadboard/config"
	"roadboard/internal/log"
	"roadboard/loader"
)

func testSession(t *testing.T, sourcePath string) *session {
	t.Helper()

	cfg := &config.Config{
		Source:    config.SourceConfig{Path: sourcePath},
		Dashboard: config.DashboardConfig{TimelineBy: "person"},
	}
	return &session{
		cfg:    cfg,
		logger: log.Discard(),
		source: loader.NewCached(sourceFromConfig(cfg.Source), nil),
	}
}

func TestRunServer_FailsBeforeListeningOnMissingSource(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.xlsx")
	err = runServer(context.Background(), testSession(t, missing), listener, false)
	if !errors.Is(err, loader.ErrSourceNotFound) {
		t.Fatalf("expected source not found error, got %v", err)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Fatalf("expected error to name %s, got %v", missing, err)
	}
}

func TestRunServer_ServesUntilCancelled(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "roadmap.csv")
	content := "Department,Person,Time\nA,Ann,2\nB,Bob,3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, testSession(t, path), listener, false)
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/api/dashboard?department=A")
	if err != nil {
		cancel()
		t.Fatalf("request dashboard: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"count":1`) {
		cancel()
		t.Fatalf("unexpected response %d: %s", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
