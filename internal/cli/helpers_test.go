package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aidanlsb/socialscope/internal/config"
	"github.com/aidanlsb/socialscope/internal/testutil"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w

	outputCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		_, copyErr := io.Copy(&buf, r)
		_ = r.Close()
		if copyErr != nil {
			errCh <- copyErr
			return
		}
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	select {
	case err := <-errCh:
		t.Fatalf("io.Copy: %v", err)
		return ""
	case output := <-outputCh:
		return output
	}
}

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

// setupDataDir creates a data directory with three datasets and points the
// CLI globals at it. Catalog order is drivingsg, elections, misc.
func setupDataDir(t *testing.T) *testutil.DataDir {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := testutil.NewDataDir(t).
		WithDataset("reddit", "drivingsg_20250318_155441.json", `[{"id":1},{"id":2}]`, base.Add(3*time.Hour)).
		WithDataset("twitter", "elections_1742189872.csv", "id,text\n1,a\n2,b\n3,c\n", base.Add(2*time.Hour)).
		WithDataset("reddit", "misc.json", `{"data":[{"id":1}]}`, base.Add(time.Hour)).
		Build()

	useConfig(t, &config.Config{DataDir: d.Path, Timezone: "UTC"})
	return d
}

// useConfig installs c and a fixed clock for the duration of the test, and
// restores JSON mode afterwards.
func useConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prevCfg, prevNow, prevJSON := cfg, nowFunc, jsonOutput
	t.Cleanup(func() {
		cfg, nowFunc, jsonOutput = prevCfg, prevNow, prevJSON
	})
	c.SetDefaults()
	cfg = c
	nowFunc = func() time.Time { return testNow }
	jsonOutput = true
}

type testResponse struct {
	OK       bool            `json:"ok"`
	Data     json.RawMessage `json:"data"`
	Error    *ErrorInfo      `json:"error"`
	Warnings []Warning       `json:"warnings"`
	Meta     *Meta           `json:"meta"`
}

// runJSON runs fn, which must not fail, and decodes its JSON envelope.
func runJSON(t *testing.T, fn func() error) testResponse {
	t.Helper()
	out := captureStdout(t, func() {
		if err := fn(); err != nil {
			t.Fatalf("command returned error: %v", err)
		}
	})
	var resp testResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("expected JSON output, got parse error: %v; out=%s", err, out)
	}
	return resp
}

func decodeData(t *testing.T, resp testResponse, v any) {
	t.Helper()
	if !resp.OK {
		t.Fatalf("expected ok=true, got error %+v", resp.Error)
	}
	if err := json.Unmarshal(resp.Data, v); err != nil {
		t.Fatalf("decode data: %v; data=%s", err, resp.Data)
	}
}
