package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KaramelBytes/sheetloom/internal/charts"
	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

func newTestServer(t *testing.T) (*Server, *workbook.Cache) {
	t.Helper()
	cache := workbook.NewCache(zap.NewNop())
	s := New(Config{Schema: workbook.English, Charts: charts.DefaultOptions(), PreviewRows: 5, MaxUploadBytes: 1 << 20}, cache, zap.NewNop())
	return s, cache
}

func multipartBody(t *testing.T, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func sampleXLSX(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, workbook.WriteXLSX(workbook.Sample(workbook.English), &buf))
	return buf.Bytes()
}

func TestDashboardServesSample(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?theme=light&palette=Set2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	body := rec.Body.String()
	assert.Contains(t, body, `<body class="light">`)
	assert.Contains(t, body, `value="Set2" selected`)
	assert.Equal(t, 6, strings.Count(body, `<div class="panel" id="panel-`))
}

func TestDashboardRejectsBadParams(t *testing.T) {
	s, _ := newTestServer(t)
	for target, want := range map[string]int{
		"/?theme=neon":       http.StatusBadRequest,
		"/?palette=rainbow":  http.StatusBadRequest,
		"/?wb=deadbeef":      http.StatusNotFound,
		"/api/metrics?wb=00": http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, want, rec.Code, target)
	}
}

func TestUploadRedirectsAndCaches(t *testing.T) {
	s, cache := newTestServer(t)
	data := sampleXLSX(t)

	upload := func() *httptest.ResponseRecorder {
		body, ctype := multipartBody(t, "sales.xlsx", data, map[string]string{"theme": "light"})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ctype)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		return rec
	}
	rec := upload()
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	key := loc.Query().Get("wb")
	assert.Equal(t, workbook.Key("sales.xlsx", data), key)
	assert.Equal(t, "light", loc.Query().Get("theme"))

	again := upload()
	require.Equal(t, http.StatusSeeOther, again.Code)
	assert.Equal(t, 1, cache.Parses(), "identical uploads must not be parsed twice")
	assert.Equal(t, 1, cache.Len())

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, loc.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sales.xlsx")
	assert.Contains(t, rec.Body.String(), `name="wb" value="`+key+`"`)
}

func TestUploadCorruptFileIs422(t *testing.T) {
	s, cache := newTestServer(t)
	body, ctype := multipartBody(t, "broken.xlsx", []byte("definitely not a zip"), nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot read workbook broken.xlsx")
	assert.NotContains(t, rec.Body.String(), `class="kpi"`)
	assert.Equal(t, 0, cache.Len())
}

func TestUploadErrorPageKeepsFormTheme(t *testing.T) {
	s, _ := newTestServer(t)
	post := func(fields map[string]string) *httptest.ResponseRecorder {
		body, ctype := multipartBody(t, "broken.xlsx", []byte("definitely not a zip"), fields)
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ctype)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		return rec
	}

	rec := post(map[string]string{"theme": "light", "palette": "set2"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `<body class="light">`)

	rec = post(map[string]string{"theme": "neon"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `<body class="dark">`)
	assert.Contains(t, rec.Body.String(), "cannot read workbook broken.xlsx")
}

func TestUploadLimits(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("plain"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body, ctype := multipartBody(t, "huge.csv", bytes.Repeat([]byte("a,b\n"), 1<<19), nil)
	req = httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ctype)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.GreaterOrEqual(t, rec.Code, 400)
	assert.NotEqual(t, http.StatusSeeOther, rec.Code)
}

func TestChartEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/pareto.svg", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/radar.svg", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChartEndpointSkippedPanel(t *testing.T) {
	s, cache := newTestServer(t)
	csv := []byte("department,revenue\nSales,10\nHR,4\n")
	_, key, err := cache.Load("pareto.csv", csv)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/bar.svg?wb="+key, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsAndHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got metricsJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Sample)
	require.Len(t, got.KPIs, 4)
	assert.Equal(t, "12,927", got.KPIs[0].Value)
	require.Len(t, got.Panels, 6)
	for _, p := range got.Panels {
		assert.Equal(t, "ready", p.Status, p.Kind)
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","workbooks":0}`, rec.Body.String())
}

func TestRequestIDPropagates(t *testing.T) {
	s, _ := newTestServer(t)
	id := "3f1c9b1e-8f77-4a3c-9a0e-3c1d5b2f6a10"
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln, time.Second) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
