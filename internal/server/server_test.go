package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/querygraph/internal/testutil"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/all"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toyotaRequest = `
tables:
  - table: carcompany
    filters:
      - { column: name, op: eq, value: TOYOTA }
  - table: marque
    exclude: [fk_carcompany]
limit: 10
`

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	data, err := os.ReadFile("testdata/cars.yaml")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "cars.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	s, err := New(Config{SchemaPath: path, Dialect: "postgres", MaxRequestBytes: 4096, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	return s, path
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestCompile(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec, out := do(t, h, http.MethodPost, "/compile", toyotaRequest)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "postgres", out["dialect"])
	sql := out["sql"].(string)
	assert.Contains(t, sql, "FROM carcompany\nINNER JOIN marque ON carcompany.uid = marque.fk_carcompany")
	assert.Contains(t, sql, "AND (carcompany.name = 'TOYOTA')")
	assert.Len(t, out["aliases"], 4)
	assert.Equal(t, []any{"carcompany", "marque"}, out["tables"])

	rec, out = do(t, h, http.MethodPost, "/compile?dialect=sqlserver&count=true", toyotaRequest)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "sqlserver", out["dialect"])
	assert.True(t, strings.HasPrefix(out["sql"].(string), "SELECT COUNT(*)"))
}

func TestCompileErrors(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	tests := []struct {
		name   string
		target string
		body   string
		status int
		kind   string
	}{
		{"unknown dialect", "/compile?dialect=bigquery", toyotaRequest, http.StatusBadRequest, "request"},
		{"bad yaml", "/compile", "tables: [", http.StatusBadRequest, "request"},
		{"no tables", "/compile", "limit: 1\n", http.StatusUnprocessableEntity, "configuration"},
		{"schema named", "/compile", "schema: /etc/passwd\n" + toyotaRequest, http.StatusBadRequest, "request"},
		{"blank query", "/compile", "tables:\n  - table: carcompany\n", http.StatusUnprocessableEntity, "configuration"},
		{"cartesian", "/compile", "tables:\n  - table: carcompany\n    filters: [{column: name, value: A}]\n  - table: factory_location\n", http.StatusUnprocessableEntity, "graph"},
		{"unknown table", "/compile", "tables:\n  - table: nope\n", http.StatusUnprocessableEntity, "configuration"},
		{"too large", "/compile", strings.Repeat(" ", 5000), http.StatusRequestEntityTooLarge, "request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := do(t, h, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.kind, out["kind"])
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestExplain(t *testing.T) {
	s, _ := newTestServer(t)

	rec, out := do(t, s.Handler(), http.MethodPost, "/explain", toyotaRequest)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "carcompany", out["start"])
	assert.Equal(t, []any{"carcompany", "marque"}, out["order"])
	assert.Equal(t, false, out["cartesian"])
	assert.Equal(t, []any{[]any{"carcompany", "marque"}}, out["edges"])
}

func TestListings(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec, out := do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])

	rec, _ = do(t, h, http.MethodGet, "/tables", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tables []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tables))
	assert.Equal(t, []string{"carcompany", "marque", "factory_location"}, tables)

	rec, _ = do(t, h, http.MethodGet, "/dialects", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dialects []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dialects))
	assert.Contains(t, dialects, "oracle")
	assert.Contains(t, dialects, "sqlite")

	rec, _ = do(t, h, http.MethodGet, "/compile", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReloadKeepsCatalogOnError(t *testing.T) {
	s, path := newTestServer(t)

	require.NoError(t, os.WriteFile(path, []byte("tables:\n  - name: only\n    columns: [{name: id, type: int}]\n"), 0o600))
	require.NoError(t, s.reload())
	assert.Equal(t, []string{"only"}, s.catalog().Names())

	require.NoError(t, os.WriteFile(path, []byte("tables: ["), 0o600))
	assert.Error(t, s.reload())
	assert.Equal(t, []string{"only"}, s.catalog().Names())
}

func TestNewFailsOnMissingSchema(t *testing.T) {
	_, err := New(Config{SchemaPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestServeListenerShutsDown(t *testing.T) {
	s, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", ln.Addr()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ok")

	cancel()
	assert.NoError(t, <-done)
}
