package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"CallbackNotifier/internal/schedule"
)

func TestResolveWindow(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().Int("future-min", 15, "")
	cmd.Flags().Int("lookback-hrs", 24, "")
	if err := cmd.Flags().Parse([]string{"--lookback-hrs", "6"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	got := resolveWindow(cmd, schedule.Window{FutureMin: 20, LookbackHrs: 24})
	if got.FutureMin != 20 || got.LookbackHrs != 6 {
		t.Fatalf("unexpected window: %+v", got)
	}
}

func TestRunCommandSendsAlert(t *testing.T) {
	due := time.Now().In(schedule.Location).Add(5 * time.Minute)
	remarks := "Call At " + due.Format("January 2 2006, 3:04 PM")

	mis := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") == "" {
			fmt.Fprint(w, `<form><select name="status"><option value="r">Recall</option></select></form><table></table>`)
			return
		}
		fmt.Fprintf(w, `<table><tbody><tr><td>P-7</td><td>%s</td></tr></tbody></table>`, remarks)
	}))
	defer mis.Close()

	var (
		mu       sync.Mutex
		messages []string
	)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		mu.Lock()
		messages = append(messages, payload["content"])
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	cfg := fmt.Sprintf(`{
  "master_switch": true,
  "cooldown_minutes": 30,
  "systems": {
    "Visit": {"url": %q, "prop_id_col": 0, "remarks_col": 1, "filter_label": "Recall", "icon": "🟦"}
  },
  "notifications": {"discord": {"webhook_url": %q}},
  "marker": {"driver": "file", "path": %q}
}`, mis.URL, hook.URL, filepath.Join(dir, "last_sent.txt"))
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DISCORD_WEBHOOK", "")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run", "--config", cfgPath, "--future-min", "15"})
	if err := Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !strings.Contains(out.String(), "Notification sent.") {
		t.Fatalf("unexpected output: %q", out.String())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(messages) != 1 || !strings.Contains(messages[0], "`P-7`") || !strings.Contains(messages[0], "1 due in 15 min") {
		t.Fatalf("unexpected webhook messages: %q", messages)
	}
	if _, err := os.Stat(filepath.Join(dir, "last_sent.txt")); err != nil {
		t.Fatalf("expected cooldown marker to be written: %v", err)
	}
}
