package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/homework/core"
	"github.com/trezcool/homework/core/homework"
	testutil "github.com/trezcool/homework/tests"
)

var (
	future = time.Now().AddDate(0, 1, 0).UTC().Truncate(time.Second)
	past   = time.Now().AddDate(0, -1, 0).UTC().Truncate(time.Second)
)

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    []string
}

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	return &commandLine{
		conf: &core.Config{
			Env:      "TEST",
			TestMode: true,
			AppName:  "Homework",
			Canvas:   core.CanvasConfig{Timeout: time.Second, PerPage: 10},
			Loader:   core.LoaderConfig{Location: "UTC"},
		},
		logger: &testutil.LoggerMock{},
		stdout: &stdout,
	}, &stdout
}

func writeJSON(t *testing.T, dir, name string, v interface{}) {
	t.Helper()
	fp := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		t.Fatalf("writeJSON() failed: %v", err)
	}
	if err := os.WriteFile(fp, testutil.MustJSON(t, v), 0o644); err != nil {
		t.Fatalf("writeJSON() failed: %v", err)
	}
}

func checkRun(t *testing.T, cli *commandLine, stdout *bytes.Buffer, tt cliTest) {
	t.Helper()
	stdout.Reset()
	err := cli.run(append([]string{"render"}, tt.args...))
	switch {
	case tt.wantErr != nil:
		if err != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err == nil || !strings.Contains(err.Error(), tt.wantErrStr) {
			t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
		}
	case err != nil:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
	for _, want := range tt.wantOut {
		assert.Contains(t, stdout.String(), want)
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, stdout := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: []string{"Usage:", "  render render -source URL"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp, wantOut: []string{"Usage:", "  render render -source URL"}},
		{name: "no source", args: []string{"render"}, wantErr: errHelp},
		{name: "several sources", args: []string{"render", "-dir", ".", "-canvas"}, wantErr: errHelp},
		{name: "missing dir", args: []string{"render", "-dir", "./nope"}, wantErrStr: "opening source dir"},
		{name: "relative url", args: []string{"render", "-source", "dash"}, wantErrStr: "not absolute"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkRun(t, cli, stdout, tt)
		})
	}
}

func Test_commandLine_render(t *testing.T) {
	cli, stdout := setup(t)

	dir := t.TempDir()
	writeJSON(t, dir, "courses.json", []homework.Course{{ID: 1, Name: "Math"}})
	writeJSON(t, dir, "courses/1/assignments.json", []homework.Assignment{
		{ID: 10, Name: "Essay", DueAt: future},
		{ID: 11, Name: "Late essay", DueAt: past},
	})
	writeJSON(t, dir, "courses/1/today.json", []homework.ScheduleEvent{{Title: "Lab", StartAt: future}})
	writeJSON(t, dir, "overdue.json", []homework.OverdueItem{{ID: 11, Name: "Late essay", DueAt: past}})

	srv, _ := testutil.NewJSONServer(t, map[string]interface{}{
		"/courses.json":               []homework.Course{{ID: 2, Name: "History"}},
		"/courses/2/assignments.json": []homework.Assignment{},
		"/courses/2/today.json":       []homework.ScheduleEvent{},
		"/overdue.json":               []homework.OverdueItem{},
	})

	out := filepath.Join(t.TempDir(), "index.html")

	tests := []cliTest{
		{
			name: "from a directory", args: []string{"render", "-dir", dir},
			wantOut: []string{"Math", "Essay", "Due: " + homework.FormatDate(future), "Lab", "Late essay"},
		},
		{name: "from a URL", args: []string{"render", "-source", srv.URL}, wantOut: []string{"History"}},
		{name: "to a file", args: []string{"render", "-dir", dir, "-out", out}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkRun(t, cli, stdout, tt)
		})
	}

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), `data-course-id="1"`)
}

func Test_commandLine_canvas(t *testing.T) {
	var mu sync.Mutex
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		mu.Unlock()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	origReadPassword := readPasswordFunc
	defer func() { readPasswordFunc = origReadPassword }()
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("s3cr3t"), nil }

	t.Run("prompts for the token", func(t *testing.T) {
		cli, stdout := setup(t)
		cli.conf.Canvas.BaseURL = srv.URL
		checkRun(t, cli, stdout, cliTest{args: []string{"render", "-canvas"}, wantOut: []string{"<title>Homework</title>"}})
		mu.Lock()
		defer mu.Unlock()
		require.NotEmpty(t, gotAuth)
		for _, auth := range gotAuth {
			assert.Equal(t, "Bearer s3cr3t", auth)
		}
	})

	t.Run("empty token", func(t *testing.T) {
		readPasswordFunc = func(fd int) ([]byte, error) { return nil, nil }
		cli, stdout := setup(t)
		cli.conf.Canvas.BaseURL = srv.URL
		checkRun(t, cli, stdout, cliTest{args: []string{"render", "-canvas"}, wantErr: errHelp})
	})

	t.Run("prompt errors", func(t *testing.T) {
		errTTY := errors.New("not a terminal")
		readPasswordFunc = func(fd int) ([]byte, error) { return nil, errTTY }
		cli, stdout := setup(t)
		cli.conf.Canvas.BaseURL = srv.URL
		checkRun(t, cli, stdout, cliTest{args: []string{"render", "-canvas"}, wantErr: errTTY})
	})
}
