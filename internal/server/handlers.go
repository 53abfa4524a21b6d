package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/KaramelBytes/sheetloom/internal/charts"
	"github.com/KaramelBytes/sheetloom/internal/dashboard"
	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

var errUnknownWorkbook = errors.New("unknown workbook")

// pageOptions resolves the display parameters from the query or a posted form.
// Absent values fall back to the configured defaults; unknown ones are rejected.
func (s *Server) pageOptions(r *http.Request) (dashboard.Options, error) {
	opt := s.baseOptions(r)
	if v := r.FormValue("theme"); v != "" {
		t, err := charts.ParseTheme(v)
		if err != nil {
			return dashboard.Options{}, err
		}
		opt.Charts.Theme = t
	}
	if v := r.FormValue("palette"); v != "" {
		p, err := charts.ParsePalette(v)
		if err != nil {
			return dashboard.Options{}, err
		}
		opt.Charts.Palette = p
	}
	return opt, nil
}

// baseOptions are the server defaults with no per-request overrides.
func (s *Server) baseOptions(r *http.Request) dashboard.Options {
	return dashboard.Options{
		Schema:      s.cfg.Schema,
		Charts:      s.cfg.Charts,
		PreviewRows: s.cfg.PreviewRows,
		Key:         r.URL.Query().Get("wb"),
		Log:         s.requestLogger(r),
	}
}

// workbook resolves the wb query parameter; empty means the sample.
func (s *Server) workbook(r *http.Request) (*workbook.Workbook, error) {
	key := r.URL.Query().Get("wb")
	if key == "" {
		return s.sample, nil
	}
	wb, ok := s.cache.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownWorkbook, key)
	}
	return wb, nil
}

// page is the common front half of the page-derived handlers. It writes the
// error response itself and returns nil in that case.
func (s *Server) page(w http.ResponseWriter, r *http.Request) *dashboard.Page {
	opt, err := s.pageOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	wb, err := s.workbook(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil
	}
	return dashboard.Build(wb, opt)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p := s.page(w, r)
	if p == nil {
		return
	}
	s.writePage(w, r, p, http.StatusOK)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, p *dashboard.Page, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := p.Render(w); err != nil {
		s.requestLogger(r).Error("render page", zap.Error(err))
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := s.requestLogger(r)
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, fmt.Sprintf("file too large (limit %d bytes)", tooBig.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing form field \"file\"", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	_, key, err := s.cache.Load(header.Filename, data)
	if err != nil {
		var le *workbook.LoadError
		if !errors.As(err, &le) {
			log.Error("load upload", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		log.Warn("upload rejected", zap.String("file", header.Filename), zap.Error(err))
		opt, err := s.pageOptions(r)
		if err != nil {
			opt = s.baseOptions(r)
		}
		s.writePage(w, r, dashboard.ErrorPage(le.Error(), opt), http.StatusUnprocessableEntity)
		return
	}
	log.Info("upload accepted", zap.String("file", header.Filename), zap.Int("bytes", len(data)), zap.String("key", key))

	q := url.Values{"wb": {key}}
	for _, k := range []string{"theme", "palette"} {
		if v := r.FormValue(k); v != "" {
			q.Set(k, v)
		}
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind := charts.Kind(chi.URLParam(r, "kind"))
	p := s.page(w, r)
	if p == nil {
		return
	}
	pn, ok := p.Panel(kind)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown chart %q", kind), http.StatusNotFound)
		return
	}
	switch pn.Status {
	case dashboard.Skipped:
		http.Error(w, fmt.Sprintf("chart %q has no data in this workbook", kind), http.StatusNotFound)
		return
	case dashboard.Failed:
		http.Error(w, pn.Err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
	if _, err := pn.Chart.WriteTo(w); err != nil {
		s.requestLogger(r).Debug("write chart", zap.Error(err))
	}
}

type kpiJSON struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Detail string `json:"detail,omitempty"`
}

type panelJSON struct {
	Kind    string   `json:"kind"`
	Status  string   `json:"status"`
	Missing []string `json:"missing,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type metricsJSON struct {
	Workbook string      `json:"workbook"`
	Sample   bool        `json:"sample"`
	KPIs     []kpiJSON   `json:"kpis"`
	Panels   []panelJSON `json:"panels"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	p := s.page(w, r)
	if p == nil {
		return
	}
	out := metricsJSON{Workbook: p.Source, Sample: p.Sample, KPIs: []kpiJSON{}}
	for _, k := range p.KPIs {
		out.KPIs = append(out.KPIs, kpiJSON{Label: k.Label, Value: k.Value, Detail: k.Detail})
	}
	for _, pn := range p.Panels {
		out.Panels = append(out.Panels, panelJSON{Kind: string(pn.Kind), Status: pn.Status.String(), Missing: pn.Missing, Error: pn.Err})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "workbooks": s.cache.Len()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
