package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cron-editor/internal/adapter/secondary/repository"
	"cron-editor/internal/adapter/secondary/schedule"
	"cron-editor/internal/usecase"
)

func newTestServer(t *testing.T, seed map[string]string) (http.Handler, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	for k, v := range seed {
		require.NoError(t, repo.Save(k, v))
	}
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	uc, err := usecase.NewEditorUseCase(repo, schedule.NewCronPreviewer(time.UTC),
		usecase.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	return NewServer(uc, "127.0.0.1:0").Handler(), repo
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestServer_OpenAndEdit(t *testing.T) {
	t.Parallel()

	h, repo := newTestServer(t, map[string]string{"backup": "30 14 1 1 *"})

	rec, body := do(t, h, http.MethodGet, "/api/editors/backup", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "30 14 1 1 *", body["value"])
	assert.Equal(t, "At 14:30 on day-of-month 1 in January.", body["summary"])
	assert.Nil(t, body["highlight"])

	rec, body = do(t, h, http.MethodPut, "/api/editors/backup/fields/1", `{"value":"24"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, "30 24 1 1 *", body["value"])
	assert.Contains(t, body["summaryHtml"], "cron-editor-error")

	value, err := repo.Load("backup")
	require.NoError(t, err)
	assert.Equal(t, "30 24 1 1 *", value)

	rec, body = do(t, h, http.MethodGet, "/api/editors/backup/validate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["valid"])
	assert.NotEmpty(t, body["message"])
}

func TestServer_FocusBlur(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, map[string]string{"k": "30 14 * * *"})
	do(t, h, http.MethodGet, "/api/editors/k", "")

	rec, body := do(t, h, http.MethodPost, "/api/editors/k/focus/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `At <span class="cron-editor-highlight">14</span>:30.`, body["summaryHtml"])
	assert.Equal(t, float64(1), body["highlight"])

	rec, body = do(t, h, http.MethodPost, "/api/editors/k/blur", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "At 14:30.", body["summaryHtml"])

	rec, _ = do(t, h, http.MethodPost, "/api/editors/k/focus/9", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = do(t, h, http.MethodPost, "/api/editors/k/focus/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Next(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, map[string]string{"k": "0 0 * * *"})
	do(t, h, http.MethodGet, "/api/editors/k", "")

	rec, body := do(t, h, http.MethodGet, "/api/editors/k/next?count=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"2026-01-16T00:00:00Z", "2026-01-17T00:00:00Z"}, body["runs"])

	rec, _ = do(t, h, http.MethodGet, "/api/editors/k/next?count=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	do(t, h, http.MethodPut, "/api/editors/k/fields/3", `{"value":"13"}`)
	rec, _ = do(t, h, http.MethodGet, "/api/editors/k/next", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServer_CreateAndClose(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, nil)

	rec, body := do(t, h, http.MethodPost, "/api/editors", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	key, ok := body["key"].(string)
	require.True(t, ok)
	assert.Len(t, key, 36)
	assert.Equal(t, "* * * * *", body["value"])

	rec, _ = do(t, h, http.MethodDelete, "/api/editors/"+key, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/api/editors/"+key, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/api/editors/"+key+"/blur", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_BadPayload(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, nil)
	do(t, h, http.MethodGet, "/api/editors/k", "")

	rec, _ := do(t, h, http.MethodPut, "/api/editors/k/fields/0", `{"nope":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = do(t, h, http.MethodPut, "/api/editors/k/fields/0", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Page(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, nil)

	rec, _ := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/editors/default", rec.Header().Get("Location"))

	rec, _ = do(t, h, http.MethodGet, "/editors/nightly", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `const key = "nightly";`)
	assert.Contains(t, rec.Body.String(), "cron-editor-summary")
	// Edits are sent through one promise chain, never concurrently.
	assert.Contains(t, rec.Body.String(), "queue = queue.then(")
}

func TestServer_LastEditWins(t *testing.T) {
	t.Parallel()

	h, repo := newTestServer(t, map[string]string{"k": "0 0 * * *"})
	do(t, h, http.MethodGet, "/api/editors/k", "")

	for _, v := range []string{"1", "15"} {
		rec, _ := do(t, h, http.MethodPut, "/api/editors/k/fields/2", `{"value":"`+v+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, body := do(t, h, http.MethodGet, "/api/editors/k", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0 0 15 * *", body["value"])

	value, err := repo.Load("k")
	require.NoError(t, err)
	assert.Equal(t, "0 0 15 * *", value)
}
