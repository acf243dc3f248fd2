package hadith

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(newTestEngine(newProvider(), nil))
	r := gin.New()
	NewHandler(reg).RegisterRoutes(r)
	return r, reg
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_LoadSearchPage(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	base := "/sessions/" + created.ID

	w = do(r, http.MethodPost, base+"/load", gin.H{"collection": "bukhari", "language": "french"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var loaded struct {
		Load LoadResult `json:"load"`
		Page View       `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.Equal(t, 120, loaded.Load.Count)
	assert.NotEmpty(t, loaded.Page.Notice)
	assert.Len(t, loaded.Page.Entries, 50)

	w = do(r, http.MethodGet, base+"/search?q=charity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 24, view.Total)

	w = do(r, http.MethodPut, base+"/sort", gin.H{"key": "length"})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodPut, base+"/sort", gin.H{"key": "stars"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, base+"/search?q=", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodPost, base+"/more", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var more struct {
		Advanced bool `json:"advanced"`
		Page     View `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &more))
	assert.True(t, more.Advanced)
	assert.Equal(t, 75, more.Page.Cursor.DisplayedCount)

	w = do(r, http.MethodPost, base+"/query", gin.H{"q": "pray"})
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = do(r, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(r, http.MethodGet, base+"/page", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_LoadErrors(t *testing.T) {
	r, reg := newTestRouter(t)
	s := reg.Create()
	base := "/sessions/" + s.ID

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, base+"/load", gin.H{"collection": "nothing-like-it"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, base+"/load", gin.H{"collection": "bukhari", "language": "xx"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, base+"/load", gin.H{}).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/sessions/missing/load", gin.H{"collection": "bukhari"}).Code)
}

func TestHandler_Collections(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/collections", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Items []struct {
			ID        string   `json:"id"`
			Code      int      `json:"code"`
			Languages []string `json:"languages"`
		} `json:"items"`
		Curated []string `json:"curated"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Items, 10)
	assert.Equal(t, []string{"bukhari", "muslim", "nawawi", "qudsi"}, body.Curated)
	assert.Equal(t, "bukhari", body.Items[0].ID)
	assert.NotContains(t, body.Items[0].Languages, "french")
}
