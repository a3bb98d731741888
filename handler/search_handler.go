package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/mxp-gateway/database"
	"github.com/tieubaoca/mxp-gateway/types"
)

// SearchHandler exposes semantic search over the ship document store.
type SearchHandler interface {
	HandleSearch(c *gin.Context)
}

type searchHandler struct {
	documentStore database.DocumentStore
}

func NewSearchHandler(documentStore database.DocumentStore) SearchHandler {
	return &searchHandler{
		documentStore: documentStore,
	}
}

func (h *searchHandler) HandleSearch(c *gin.Context) {
	var req types.SearchDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	if req.Limit == 0 {
		req.Limit = 5
	}

	docs, _, err := h.documentStore.SearchSimilar(c.Request.Context(), req.Queries, req.Tags, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Search failed: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   types.SearchDocumentsResponse{Documents: docs},
	})
}
