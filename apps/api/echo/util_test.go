package echoapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/homework/core"
	"github.com/trezcool/homework/core/homework"
	"github.com/trezcool/homework/core/pageloader"
	testutil "github.com/trezcool/homework/tests"
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	wantCode int
	wantData []byte
}

func newTestConfig() *core.Config {
	return &core.Config{
		Env:      "TEST",
		TestMode: true,
		AppName:  "Homework",
		Build:    "test",
		Server: core.ServerConfig{
			Address:            ":0",
			DisableRequestLogs: true,
		},
	}
}

func setup(t *testing.T, repo homework.Repository) (*Server, *testutil.LoggerMock) {
	t.Helper()
	conf := newTestConfig()
	logger := &testutil.LoggerMock{}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	svc := homework.NewService(repo)
	loader := pageloader.New(svc, testutil.NewRegistry(t), logger, pageloader.Options{Title: conf.AppName})

	s := NewServer(ServerDeps{
		Conf:        conf,
		Logger:      logger,
		HomeworkSvc: svc,
		Loader:      loader,
		Validate:    validate,
		Translator:  translator,
	})
	t.Cleanup(func() { _ = s.Close() })
	return s, logger
}

func newRequest(method, path string) (*http.Request, *httptest.ResponseRecorder) {
	if method == "" {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(bytes.TrimSpace(rec.Body.Bytes()), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
