package testutil

import (
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"github.com/trezcool/homework/assets"
	"github.com/trezcool/homework/core"
	"github.com/trezcool/homework/core/homework"
	"github.com/trezcool/homework/core/view"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoggerMock records every message it is given, prefixed with its level.
type LoggerMock struct {
	mu       sync.Mutex
	messages []string
}

var _ core.Logger = (*LoggerMock)(nil)

func (l *LoggerMock) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("%s: %s", level, msg))
}

// Messages returns the logged messages, e.g. "ERROR: loading overdue-items: ...".
func (l *LoggerMock) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.messages...)
}

// Contains reports whether a logged message contains substr.
func (l *LoggerMock) Contains(substr string) bool {
	for _, msg := range l.Messages() {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func (l *LoggerMock) Debug(msg string, _ ...interface{}) { l.log("DEBUG", msg) }
func (l *LoggerMock) Info(msg string, _ ...interface{})  { l.log("INFO", msg) }
func (l *LoggerMock) Warn(msg string, _ ...interface{})  { l.log("WARN", msg) }
func (l *LoggerMock) Error(msg string, _ ...interface{}) { l.log("ERROR", msg) }
func (l *LoggerMock) Fatal(msg string, _ ...interface{}) { l.log("FATAL", msg) }

// NewRegistry loads the embedded dashboard templates in strict mode.
func NewRegistry(t *testing.T) *view.Registry {
	t.Helper()
	reg, err := view.LoadFS(assets.FS, assets.TemplatesDir, view.Options{
		Funcs:  template.FuncMap{"formatDate": homework.FormatDate},
		Strict: true,
	})
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}
	return reg
}

// MustJSON encodes v, failing the test on error.
func MustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("MustJSON() failed: %v", err)
	}
	return data
}

// NewJSONServer serves the given JSON bodies by URL path; any other path is a 404.
// Each handled request path is sent to the returned channel when it is not full.
func NewJSONServer(t *testing.T, bodies map[string]interface{}) (*httptest.Server, <-chan string) {
	t.Helper()
	hits := make(chan string, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case hits <- r.URL.Path:
		default:
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		data, err := json.Marshal(body)
		if err != nil {
			t.Errorf("encoding %s: %v", r.URL.Path, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv, hits
}
