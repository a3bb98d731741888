package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/mxp-gateway/service"
	"github.com/tieubaoca/mxp-gateway/types"
)

// mxpResourceTypes lists the resource types read_resource can fetch.
var mxpResourceTypes = []string{
	"account",
	"crew",
	"folio",
	"document",
	"icafe",
	"person_image",
	"quick_code",
	"sailor_manifest",
	"receipt_image",
	"person_invoice",
}

var dispatchActions = []string{"example_tool", "knowledge_tool", "list_resources", "read_resource"}

// DispatchHandler implements the generic tool-dispatch endpoint: a single
// POST accepting an action envelope, plus SSE heartbeat streams.
type DispatchHandler interface {
	HandleDispatch(c *gin.Context)
	HandleSSE(c *gin.Context)
}

type dispatchHandler struct {
	mxpService       service.MXPService
	knowledgeService *service.KnowledgeService
}

func NewDispatchHandler(mxpService service.MXPService, knowledgeService *service.KnowledgeService) DispatchHandler {
	return &dispatchHandler{
		mxpService:       mxpService,
		knowledgeService: knowledgeService,
	}
}

func (h *dispatchHandler) HandleDispatch(c *gin.Context) {
	var req types.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DispatchResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}
	log.Printf("Received action: %s", req.Action)

	params := req.Parameters
	if params == nil {
		params = map[string]interface{}{}
	}

	switch req.Action {
	case "example_tool":
		message, _ := params["message"].(string)
		if message == "" {
			message = "No message provided"
		}
		c.JSON(http.StatusOK, types.DispatchResponse{
			Result: map[string]interface{}{
				"echo":      message,
				"timestamp": time.Now().Format(time.RFC3339),
			},
		})
	case "knowledge_tool":
		c.JSON(http.StatusOK, types.DispatchResponse{
			Result: h.knowledgeService.Execute(params),
		})
	case "list_resources":
		c.JSON(http.StatusOK, types.DispatchResponse{Result: mxpResourceTypes})
	case "read_resource":
		h.readResource(c, params)
	default:
		c.JSON(http.StatusBadRequest, types.DispatchResponse{
			Error:    fmt.Sprintf("Unknown action: %s", req.Action),
			Metadata: map[string]interface{}{"available_actions": dispatchActions},
		})
	}
}

// readResource dispatches to the MXP client based on resource_type.
func (h *dispatchHandler) readResource(c *gin.Context, params map[string]interface{}) {
	resourceType, _ := params["resource_type"].(string)
	if resourceType == "" {
		c.JSON(http.StatusBadRequest, types.DispatchResponse{
			Error: "Missing resource_type parameter",
		})
		return
	}
	ctx := c.Request.Context()

	var result map[string]interface{}
	var err error

	switch resourceType {
	case "account":
		chargeID, ok := intValue(params["charge_id"])
		if !ok {
			h.missingParam(c, "charge_id", resourceType)
			return
		}
		result, err = h.mxpService.GetAccount(ctx, chargeID)
	case "crew":
		var pin *int
		if n, ok := intValue(params["pin"]); ok {
			pin = &n
		}
		result, err = h.mxpService.GetCrew(ctx, pin)
	case "folio":
		chargeID, ok := intValue(params["charge_id"])
		if !ok {
			h.missingParam(c, "charge_id", resourceType)
			return
		}
		dateFrom, _ := params["date_from"].(string)
		dateTo, _ := params["date_to"].(string)
		result, err = h.mxpService.GetFolio(ctx, chargeID, dateFrom, dateTo)
	case "document":
		id, _ := params["id"].(string)
		if id == "" {
			h.missingParam(c, "id", resourceType)
			return
		}
		result, err = h.mxpService.GetDocument(ctx, id)
	case "icafe":
		icafeParams := service.ICafeParams{}
		icafeParams.RoomNr, _ = params["room_nr"].(string)
		icafeParams.DateOfBirth, _ = params["date_of_birth"].(string)
		icafeParams.LastName, _ = params["last_name"].(string)
		if n, ok := intValue(params["pin"]); ok {
			icafeParams.PIN = &n
		}
		result, err = h.mxpService.GetICafe(ctx, icafeParams)
	case "person_image":
		id, ok := intValue(params["id"])
		if !ok {
			h.missingParam(c, "id", resourceType)
			return
		}
		result, err = h.mxpService.GetPersonImageByID(ctx, id)
	case "quick_code":
		result, err = h.mxpService.GetQuickCode(ctx)
	case "sailor_manifest":
		installationCode, _ := params["installation_code"].(string)
		embark, _ := params["voyage_embark_date"].(string)
		debark, _ := params["voyage_debark_date"].(string)
		if installationCode == "" || embark == "" || debark == "" {
			h.missingParam(c, "installation_code, voyage_embark_date and voyage_debark_date", resourceType)
			return
		}
		result, err = h.mxpService.GetSailorManifest(ctx, installationCode, embark, debark)
	case "receipt_image":
		checkNumber, ok := intValue(params["check_number"])
		if !ok {
			h.missingParam(c, "check_number", resourceType)
			return
		}
		buID, ok := intValue(params["bu_id"])
		if !ok {
			h.missingParam(c, "bu_id", resourceType)
			return
		}
		result, err = h.mxpService.GetReceiptImage(ctx, checkNumber, buID)
	case "person_invoice":
		chargeID, ok := intValue(params["charge_id"])
		if !ok {
			h.missingParam(c, "charge_id", resourceType)
			return
		}
		result, err = h.mxpService.GetPersonInvoice(ctx, chargeID)
	default:
		c.JSON(http.StatusBadRequest, types.DispatchResponse{
			Error:    fmt.Sprintf("Unknown resource type: %s", resourceType),
			Metadata: map[string]interface{}{"available_resources": mxpResourceTypes},
		})
		return
	}

	if err != nil {
		log.Printf("Error reading resource %s: %v", resourceType, err)
		c.JSON(http.StatusInternalServerError, types.DispatchResponse{
			Error: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DispatchResponse{Result: result})
}

func (h *dispatchHandler) missingParam(c *gin.Context, param, resourceType string) {
	c.JSON(http.StatusBadRequest, types.DispatchResponse{
		Error: fmt.Sprintf("Missing %s for %s", param, resourceType),
	})
}

// HandleSSE streams heartbeat events every two seconds until the client
// disconnects.
func (h *dispatchHandler) HandleSSE(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	fmt.Fprint(c.Writer, "data: {\"message\": \"heartbeat\"}\n\n")
	c.Writer.Flush()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(c.Writer, "data: {\"message\": \"heartbeat\"}\n\n")
			c.Writer.Flush()
		}
	}
}

// intValue accepts JSON numbers and numeric strings for id parameters,
// matching what LLM front-ends actually send.
func intValue(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		var parsed int
		if _, err := fmt.Sscanf(n, "%d", &parsed); err == nil {
			return parsed, true
		}
	}
	return 0, false
}
