package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/mxp-gateway/repository"
	"github.com/tieubaoca/mxp-gateway/service"
	"github.com/tieubaoca/mxp-gateway/types"
)

func newDispatchRouter(t *testing.T, stub *mxpStub) *gin.Engine {
	t.Helper()
	repo := repository.NewFileKnowledgeRepo(filepath.Join(t.TempDir(), "knowledge_base.json"))
	svc, err := service.NewKnowledgeService(repo)
	require.NoError(t, err)

	h := NewDispatchHandler(stub, svc)
	router := gin.New()
	router.POST("/mcp", h.HandleDispatch)
	return router
}

func dispatch(router *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decodeDispatch(t *testing.T, w *httptest.ResponseRecorder) types.DispatchResponse {
	t.Helper()
	var resp types.DispatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestDispatchExampleTool(t *testing.T) {
	router := newDispatchRouter(t, &mxpStub{})

	w := dispatch(router, types.DispatchRequest{
		Action:     "example_tool",
		Parameters: map[string]interface{}{"message": "hello"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeDispatch(t, w)
	result := resp.Result.(map[string]interface{})
	assert.Equal(t, "hello", result["echo"])
	assert.NotEmpty(t, result["timestamp"])
}

func TestDispatchExampleToolDefaultMessage(t *testing.T) {
	router := newDispatchRouter(t, &mxpStub{})

	w := dispatch(router, types.DispatchRequest{Action: "example_tool"})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeDispatch(t, w)
	result := resp.Result.(map[string]interface{})
	assert.Equal(t, "No message provided", result["echo"])
}

func TestDispatchKnowledgeToolSearch(t *testing.T) {
	router := newDispatchRouter(t, &mxpStub{})

	w := dispatch(router, types.DispatchRequest{
		Action: "knowledge_tool",
		Parameters: map[string]interface{}{
			"operation": "search",
			"tags":      []interface{}{"docker"},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeDispatch(t, w)
	result := resp.Result.(map[string]interface{})
	assert.Equal(t, true, result["success"])
	assert.Equal(t, float64(1), result["results_count"])
}

func TestDispatchListResources(t *testing.T) {
	router := newDispatchRouter(t, &mxpStub{})

	w := dispatch(router, types.DispatchRequest{Action: "list_resources"})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeDispatch(t, w)
	resources := resp.Result.([]interface{})
	assert.Len(t, resources, 10)
	assert.Contains(t, resources, "account")
	assert.Contains(t, resources, "person_invoice")
}

func TestDispatchReadResourceAccount(t *testing.T) {
	stub := &mxpStub{payload: map[string]interface{}{"status": "active"}}
	router := newDispatchRouter(t, stub)

	w := dispatch(router, types.DispatchRequest{
		Action: "read_resource",
		Parameters: map[string]interface{}{
			"resource_type": "account",
			"charge_id":     float64(10000004),
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GetAccount", stub.lastMethod)
	assert.Equal(t, []interface{}{10000004}, stub.lastArgs)
}

func TestDispatchReadResourceStringID(t *testing.T) {
	stub := &mxpStub{payload: map[string]interface{}{}}
	router := newDispatchRouter(t, stub)

	w := dispatch(router, types.DispatchRequest{
		Action: "read_resource",
		Parameters: map[string]interface{}{
			"resource_type": "person_image",
			"id":            "321",
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{321}, stub.lastArgs)
}

func TestDispatchReadResourceMissingParam(t *testing.T) {
	router := newDispatchRouter(t, &mxpStub{})

	w := dispatch(router, types.DispatchRequest{
		Action:     "read_resource",
		Parameters: map[string]interface{}{"resource_type": "folio"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeDispatch(t, w)
	assert.Contains(t, resp.Error, "charge_id")
	assert.Contains(t, resp.Error, "folio")
}

func TestDispatchReadResourceUnknownType(t *testing.T) {
	router := newDispatchRouter(t, &mxpStub{})

	w := dispatch(router, types.DispatchRequest{
		Action:     "read_resource",
		Parameters: map[string]interface{}{"resource_type": "submarine"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeDispatch(t, w)
	assert.Contains(t, resp.Error, "submarine")
	assert.NotNil(t, resp.Metadata["available_resources"])
}

func TestDispatchUnknownAction(t *testing.T) {
	router := newDispatchRouter(t, &mxpStub{})

	w := dispatch(router, types.DispatchRequest{Action: "explode"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeDispatch(t, w)
	assert.Contains(t, resp.Error, "explode")
	assert.NotNil(t, resp.Metadata["available_actions"])
}

func TestDispatchMissingAction(t *testing.T) {
	router := newDispatchRouter(t, &mxpStub{})

	w := dispatch(router, map[string]interface{}{"parameters": map[string]interface{}{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
