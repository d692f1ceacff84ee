package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomsilver/streamspec/internal/compiler"
	"github.com/tomsilver/streamspec/pkg/adapters/memory"
	"github.com/tomsilver/streamspec/pkg/domain"
	"github.com/tomsilver/streamspec/pkg/registry"
)

const testStreamFile = `
(define (stream pick-and-place)
  (:stream sample-pose
    :inputs (?b ?r)
    :domain (Stackable ?b ?r)
    :outputs (?p)
    :certified (and (Pose ?b ?p) (Supported ?b ?p ?r))
  )
  (:stream plan-motion
    :inputs (?q1 ?q2)
    :domain (and (Conf ?q1) (Conf ?q2))
    :outputs (?t)
    :certified (Motion ?q1 ?t ?q2)
  )
)
`

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	def, err := compiler.NewParser().Parse([]byte(testStreamFile))
	require.NoError(t, err)

	reg := registry.New()
	reg.Register("sample-pose", registry.FromList())

	return NewHandler(&Server{
		Definition: def,
		Generators: reg,
		Version:    "test",
	})
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestGetHealth(t *testing.T) {
	rr := get(t, testHandler(t), "/healthz")

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetInfo(t *testing.T) {
	rr := get(t, testHandler(t), "/info")

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "streamspec-http", resp["app"])
	assert.Equal(t, "pick-and-place", resp["definition"])
}

func TestGetStreams(t *testing.T) {
	rr := get(t, testHandler(t), "/streams")

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 2)

	assert.Equal(t, "sample-pose", resp[0]["name"])
	assert.Equal(t, true, resp[0]["generator_registered"])
	assert.Equal(t, "plan-motion", resp[1]["name"])
	assert.Equal(t, false, resp[1]["generator_registered"])
}

func TestGetStream(t *testing.T) {
	rr := get(t, testHandler(t), "/streams/sample-pose")
	assert.Equal(t, http.StatusOK, rr.Code)

	var stream domain.StreamDecl
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stream))
	assert.Equal(t, []domain.Param{"?b", "?r"}, stream.Inputs)

	rr = get(t, testHandler(t), "/streams/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetGraph(t *testing.T) {
	rr := get(t, testHandler(t), "/graph")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "graph TD")
	assert.Contains(t, rr.Body.String(), "sample-pose")
}

func TestPostValidate(t *testing.T) {
	handler := testHandler(t)

	// A definition with an output shadowing an input.
	bad := `(define (stream s)
	  (:stream x :inputs (?a) :domain (P ?a) :outputs (?a) :certified (Q ?a)))`

	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(bad))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Valid  bool `json:"valid"`
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Msg, "also declared as an input")
}

func TestPostValidate_SyntaxError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader("(define (stream"))
	rr := httptest.NewRecorder()
	testHandler(t).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestFactsDisabledWithoutStore(t *testing.T) {
	rr := get(t, testHandler(t), "/facts")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFactsLifecycle(t *testing.T) {
	def, err := compiler.NewParser().Parse([]byte(testStreamFile))
	require.NoError(t, err)

	store := memory.NewStore()
	handler := NewHandler(&Server{
		Definition: def,
		Version:    "test",
		Facts:      store,
	})

	// Empty store.
	rr := get(t, handler, "/facts")
	assert.Equal(t, http.StatusOK, rr.Code)

	var facts []domain.Fact
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &facts))
	assert.Empty(t, facts)

	// Assert a fact.
	body := `{"predicate": "Stackable", "args": [{"name": "b1"}, {"name": "table"}]}`
	req := httptest.NewRequest(http.MethodPost, "/facts", strings.NewReader(body))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "(stackable b1 table)", created["fact"])

	rr = get(t, handler, "/facts")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &facts))
	require.Len(t, facts, 1)
	assert.Equal(t, "stackable", facts[0].Predicate)

	// Clear.
	req = httptest.NewRequest(http.MethodDelete, "/facts", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = get(t, handler, "/facts")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &facts))
	assert.Empty(t, facts)
}

func TestAssertRejectsEmptyPredicate(t *testing.T) {
	def, err := compiler.NewParser().Parse([]byte(testStreamFile))
	require.NoError(t, err)

	handler := NewHandler(&Server{
		Definition: def,
		Facts:      memory.NewStore(),
	})

	req := httptest.NewRequest(http.MethodPost, "/facts", strings.NewReader(`{"args": []}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/streams", nil)
	rr := httptest.NewRecorder()
	testHandler(t).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
