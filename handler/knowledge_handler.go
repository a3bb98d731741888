package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/mxp-gateway/service"
	"github.com/tieubaoca/mxp-gateway/types"
)

// KnowledgeHandler exposes the knowledge base CRUD over REST.
type KnowledgeHandler interface {
	HandleSearch(c *gin.Context)
	HandleGet(c *gin.Context)
	HandleAdd(c *gin.Context)
	HandleDelete(c *gin.Context)
}

type knowledgeHandler struct {
	knowledgeService *service.KnowledgeService
}

func NewKnowledgeHandler(knowledgeService *service.KnowledgeService) KnowledgeHandler {
	return &knowledgeHandler{
		knowledgeService: knowledgeService,
	}
}

func (h *knowledgeHandler) HandleSearch(c *gin.Context) {
	var tags []string
	if raw := c.Query("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	result, err := h.knowledgeService.Search(c.Query("q"), tags)
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   result,
	})
}

func (h *knowledgeHandler) HandleGet(c *gin.Context) {
	entry, err := h.knowledgeService.Get(c.Param("id"))
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   entry,
	})
}

func (h *knowledgeHandler) HandleAdd(c *gin.Context) {
	var req types.AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}

	result, err := h.knowledgeService.Add(req)
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.DataResponse{
		Status:  "success",
		Message: "Entry added successfully",
		Data:    result,
	})
}

func (h *knowledgeHandler) HandleDelete(c *gin.Context) {
	id := c.Param("id")
	result, err := h.knowledgeService.Delete(id)
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Entry " + id + " deleted successfully",
		Data:    result,
	})
}

// sendError maps store error kinds onto HTTP status codes.
func (h *knowledgeHandler) sendError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case service.IsValidation(err):
		status = http.StatusBadRequest
	case service.IsNotFound(err):
		status = http.StatusNotFound
	}
	c.JSON(status, types.DataResponse{
		Status:  "error",
		Message: err.Error(),
	})
}
