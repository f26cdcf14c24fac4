package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"cron-editor/internal/domain"
	"cron-editor/internal/logging"
	"cron-editor/internal/usecase"
)

// Server is a primary adapter that exposes the editor over HTTP.
// It depends on the use case (primary port).
type Server struct {
	usecase  usecase.EditorUseCase
	renderer domain.Renderer
	server   *http.Server
}

// NewServer creates the HTTP server bound to addr.
func NewServer(uc usecase.EditorUseCase, addr string) *Server {
	srv := &Server{usecase: uc, renderer: domain.HTMLRenderer{}}
	srv.server = &http.Server{
		Addr:    addr,
		Handler: loggingMiddleware(srv.routes()),
	}
	return srv
}

// Handler returns the routed handler, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /editors/{key}", s.handlePage)
	mux.HandleFunc("POST /api/editors", s.handleCreate)
	mux.HandleFunc("GET /api/editors/{key}", s.handleOpen)
	mux.HandleFunc("DELETE /api/editors/{key}", s.handleClose)
	mux.HandleFunc("PUT /api/editors/{key}/fields/{index}", s.handleSetField)
	mux.HandleFunc("POST /api/editors/{key}/focus/{index}", s.handleFocus)
	mux.HandleFunc("POST /api/editors/{key}/blur", s.handleBlur)
	mux.HandleFunc("GET /api/editors/{key}/validate", s.handleValidate)
	mux.HandleFunc("GET /api/editors/{key}/next", s.handleNext)
	return mux
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/editors/default", http.StatusFound)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, map[string]string{"Key": r.PathValue("key")}); err != nil {
		logging.Errorf("render page: %v", err)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	key := uuid.NewString()
	snap, err := s.usecase.Open(key)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.view(snap))
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	snap, err := s.usecase.Open(r.PathValue("key"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.view(snap))
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	if err := s.usecase.Close(r.PathValue("key")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type fieldPayload struct {
	Value *string `json:"value"`
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid field index", http.StatusBadRequest)
		return
	}
	var req fieldPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	snap, err := s.usecase.SetField(r.PathValue("key"), index, *req.Value)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.view(snap))
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid field index", http.StatusBadRequest)
		return
	}
	snap, err := s.usecase.Focus(r.PathValue("key"), index)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.view(snap))
}

func (s *Server) handleBlur(w http.ResponseWriter, r *http.Request) {
	snap, err := s.usecase.Blur(r.PathValue("key"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.view(snap))
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	ok, err := s.usecase.Validate(r.PathValue("key"))
	if err != nil {
		respondError(w, err)
		return
	}
	body := map[string]any{"valid": ok}
	if !ok {
		body["message"] = domain.InvalidExpressionMessage
	}
	respondJSON(w, http.StatusOK, body)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	count := 5
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "count must be a positive integer", http.StatusBadRequest)
			return
		}
		count = n
	}
	runs, err := s.usecase.NextRuns(r.PathValue("key"), count)
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]string, len(runs))
	for i, t := range runs {
		out[i] = t.Format(time.RFC3339)
	}
	respondJSON(w, http.StatusOK, map[string]any{"runs": out})
}

type fieldView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Valid bool   `json:"valid"`
}

type editorView struct {
	Key         string      `json:"key"`
	Value       string      `json:"value"`
	Valid       bool        `json:"valid"`
	Fields      []fieldView `json:"fields"`
	SummaryHTML string      `json:"summaryHtml"`
	Summary     string      `json:"summary,omitempty"`
	Error       string      `json:"error,omitempty"`
	Highlight   *int        `json:"highlight"`
}

func (s *Server) view(snap usecase.Snapshot) editorView {
	v := editorView{
		Key:         snap.Key,
		Value:       snap.Value,
		Valid:       snap.Valid,
		Fields:      make([]fieldView, 0, domain.FieldCount),
		SummaryHTML: snap.Render(s.renderer),
	}
	for i, f := range snap.Fields {
		v.Fields = append(v.Fields, fieldView{Name: domain.Kind(i).String(), Value: f.Raw, Valid: f.Valid})
	}
	if snap.Valid {
		v.Summary = snap.Summary.String()
	} else {
		v.Error = domain.InvalidExpressionMessage
	}
	if snap.Highlight != domain.NoHighlight {
		h := snap.Highlight
		v.Highlight = &h
	}
	return v
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownInstance):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrFieldIndex), errors.Is(err, domain.ErrEmptyKey):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidExpression):
		status = http.StatusUnprocessableEntity
	default:
		logging.Errorf("request failed: %v", err)
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Errorf("encode JSON: %v", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.Infof("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Cron Editor</title>
    <style>
        body { font-family: sans-serif; max-width: 720px; margin: 50px auto; padding: 20px; }
        .cron-editor-summary { background: #f0f0f0; padding: 15px; border-radius: 5px; margin: 20px 0; min-height: 1.2em; }
        .cron-editor-highlight { background: #ffe08a; }
        .cron-editor-error { color: #c00; }
        .cron-editor-row { display: flex; gap: 10px; }
        .cron-editor-group { display: flex; flex-direction: column; align-items: center; }
        .cron-editor-field { width: 90px; padding: 8px; text-align: center; }
        .cron-editor-field.invalid { border: 2px solid #c00; }
        .cron-editor-label.invalid { color: #c00; }
        code { background: #eee; padding: 2px 4px; }
    </style>
</head>
<body>
    <h1>Cron Editor</h1>
    <input type="hidden" id="value" name="value">
    <div class="cron-editor-summary" id="summary">Loading...</div>
    <div class="cron-editor-row" id="fields"></div>
    <p>Value: <code id="serialized"></code></p>
    <p>Supported formats: <code>*</code> any value, <code>5</code> specific value,
       <code>1-5</code> range, <code>1,3,5</code> list, <code>*/2</code> step values</p>
    <script>
        const key = {{.Key}};
        const base = '/api/editors/' + encodeURIComponent(key);
        const labels = ['minute', 'hour', 'day (month)', 'month', 'day (week)'];
        const inputs = [];

        function render(view) {
            document.getElementById('summary').innerHTML = view.summaryHtml;
            document.getElementById('value').value = view.value;
            document.getElementById('serialized').textContent = view.value;
            view.fields.forEach((f, i) => {
                inputs[i].input.classList.toggle('invalid', !f.valid);
                inputs[i].label.classList.toggle('invalid', !f.valid);
            });
        }

        // Requests run one at a time in event order so the stored value and
        // the rendered summary always follow the latest edit.
        let queue = Promise.resolve();

        function call(method, path, body) {
            queue = queue.then(async () => {
                const res = await fetch(base + path, {
                    method: method,
                    headers: {'Content-Type': 'application/json'},
                    body: body ? JSON.stringify(body) : undefined
                });
                if (res.ok) {
                    render(await res.json());
                }
            }).catch((err) => console.error(err));
            return queue;
        }

        async function init() {
            const res = await fetch(base);
            const view = await res.json();
            const row = document.getElementById('fields');
            view.fields.forEach((f, i) => {
                const group = document.createElement('div');
                group.className = 'cron-editor-group';
                const input = document.createElement('input');
                input.className = 'cron-editor-field';
                input.maxLength = 50;
                input.value = f.value;
                const label = document.createElement('label');
                label.className = 'cron-editor-label';
                label.textContent = labels[i];
                label.onclick = () => input.focus();
                input.addEventListener('input', () => call('PUT', '/fields/' + i, {value: input.value}));
                input.addEventListener('focus', () => call('POST', '/focus/' + i));
                input.addEventListener('blur', () => call('POST', '/blur'));
                group.appendChild(input);
                group.appendChild(label);
                row.appendChild(group);
                inputs.push({input: input, label: label});
            });
            render(view);
        }

        init();
    </script>
</body>
</html>`))
