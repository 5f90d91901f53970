package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"seat-reserve-cli/config"
	"seat-reserve-cli/service"
	"seat-reserve-cli/store"
)

const testDataset = `{
  "message": "OK",
  "statusCode": 200,
  "result": [
    {"id": "a", "rowPosition": 1, "columnPosition": 1, "seatNumber": "A1", "reservableType": "RESERVABLE", "sectionId": "left"},
    {"id": "b", "rowPosition": 1, "columnPosition": 2, "seatNumber": "A2", "reservableType": "NOT_RESERVABLE", "sectionId": "left"},
    {"id": "c", "rowPosition": 2, "columnPosition": 2, "seatNumber": "B2", "reservableType": "RESERVABLE", "sectionId": "right", "qrCode": "QR-B2"},
    {"id": "d", "rowPosition": 2, "columnPosition": 2, "seatNumber": "B2-dup", "reservableType": "RESERVABLE"}
  ]
}`

func setTestDirs(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("XDG_CACHE_HOME", root)
}

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hall.json")
	if err := os.WriteFile(path, []byte(testDataset), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestListCommand(t *testing.T) {
	setTestDirs(t)
	path := writeDataset(t)

	out, errOut, err := runRoot(t, "list", "--dataset", path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	// go-pretty upper-cases headers and footers.
	for _, want := range []string{"a1", "a2", "b2", "not reservable", "3 seats", "2x2 grid"} {
		if !strings.Contains(strings.ToLower(out), want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "B2-dup") {
		t.Fatalf("duplicate seat must be skipped:\n%s", out)
	}
	if !strings.Contains(errOut, "duplicate position") {
		t.Fatalf("expected skip report, got %q", errOut)
	}
}

func TestInspectCommand_ByNumber(t *testing.T) {
	setTestDirs(t)
	path := writeDataset(t)

	out, _, err := runRoot(t, "inspect", "--dataset", path, "b2")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "QR-B2") || !strings.Contains(out, "right") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, _, err := runRoot(t, "inspect", "--dataset", path, "Z9"); err == nil {
		t.Fatal("expected error for unknown seat")
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runRoot(t, "version")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.HasPrefix(out, appName+" ") {
		t.Fatalf("unexpected version output: %q", out)
	}
}

func TestSeatSearcher(t *testing.T) {
	seats, err := service.Decode([]byte(testDataset), "test")
	if err != nil {
		t.Fatal(err)
	}
	search := seatSearcher(seats)
	if !search("", 0) {
		t.Fatal("empty input must match")
	}
	if !search("not res", 1) || search("not res", 0) {
		t.Fatal("expected status search")
	}
	if !search("b2", 2) {
		t.Fatal("expected case-insensitive number search")
	}
}

func TestLoader_FetchesAndCaches(t *testing.T) {
	setTestDirs(t)
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(testDataset))
	}))
	defer server.Close()

	ld := newLoader(config.Config{URL: server.URL}, service.NewClient(server.Client()))
	for i := 0; i < 2; i++ {
		seats, err := ld.Load(context.Background())
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if len(seats) != 4 {
			t.Fatalf("expected 4 records, got %d", len(seats))
		}
	}
	if hits != 1 {
		t.Fatalf("expected second load from cache, got %d requests", hits)
	}

	recent, err := store.LoadRecentSources()
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].Source != server.URL {
		t.Fatalf("unexpected recent sources: %+v", recent)
	}
}

func TestLoader_StaleCacheOnFailure(t *testing.T) {
	setTestDirs(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	seats, err := service.Decode([]byte(testDataset), "test")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSeatCache(server.URL, seats[:1]); err != nil {
		t.Fatal(err)
	}

	ld := newLoader(config.Config{URL: server.URL, NoCache: true}, service.NewClient(server.Client()))
	got, err := ld.Load(context.Background())
	if err != nil {
		t.Fatalf("expected stale cache, got %v", err)
	}
	if len(got) != 1 || got[0].Id != "a" {
		t.Fatalf("unexpected seats: %+v", got)
	}
}

func TestLoader_Bundled(t *testing.T) {
	setTestDirs(t)
	ld := newLoader(config.Config{}, service.NewClient(nil))
	if ld.source() != service.BundledSource {
		t.Fatalf("unexpected source %q", ld.source())
	}
	seats, err := ld.Load(context.Background())
	if err != nil || len(seats) == 0 {
		t.Fatalf("expected bundled seats, got %d, %v", len(seats), err)
	}
}

type quitModel struct{}

func (quitModel) Init() tea.Cmd                         { return tea.Quit }
func (m quitModel) Update(tea.Msg) (tea.Model, tea.Cmd) { return m, nil }
func (quitModel) View() string                          { return "" }

func runProgram(t *testing.T, cfg config.Config) string {
	t.Helper()
	var out bytes.Buffer
	opts := append(programOptions(cfg), tea.WithInput(nil), tea.WithOutput(&out), tea.WithoutSignalHandler())
	if _, err := tea.NewProgram(quitModel{}, opts...).Run(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return out.String()
}

func TestProgramOptions_ReportFocus(t *testing.T) {
	out := runProgram(t, config.Config{Mouse: true})
	if !strings.Contains(out, "\x1b[?1004h") {
		t.Fatalf("expected focus reporting to be enabled, got %q", out)
	}
	if !strings.Contains(out, "\x1b[?1002h") {
		t.Fatalf("expected mouse cell motion to be enabled, got %q", out)
	}

	out = runProgram(t, config.Config{Mouse: false})
	if !strings.Contains(out, "\x1b[?1004h") {
		t.Fatalf("expected focus reporting without mouse, got %q", out)
	}
	if strings.Contains(out, "\x1b[?1002h") {
		t.Fatalf("expected mouse disabled, got %q", out)
	}
}
