package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/mxp-gateway/service"
	"github.com/tieubaoca/mxp-gateway/types"
)

// MXPHandler exposes the MXP lookups as conventional REST endpoints.
// Each handler parses transport-level parameters, forwards one upstream
// call and returns the upstream payload untouched.
type MXPHandler interface {
	HandleAccount(c *gin.Context)
	HandleCrew(c *gin.Context)
	HandleFolio(c *gin.Context)
	HandleDocument(c *gin.Context)
	HandleICafe(c *gin.Context)
	HandlePersonImage(c *gin.Context)
	HandleQuickCode(c *gin.Context)
	HandleSailorManifest(c *gin.Context)
	HandleReceiptImage(c *gin.Context)
	HandlePersonInvoice(c *gin.Context)
}

type mxpHandler struct {
	mxpService service.MXPService
}

func NewMXPHandler(mxpService service.MXPService) MXPHandler {
	return &mxpHandler{
		mxpService: mxpService,
	}
}

func (h *mxpHandler) HandleAccount(c *gin.Context) {
	chargeID, ok := intParam(c, c.Param("charge_id"), "charge_id")
	if !ok {
		return
	}
	result, err := h.mxpService.GetAccount(c.Request.Context(), chargeID)
	h.respond(c, "account", result, err)
}

func (h *mxpHandler) HandleCrew(c *gin.Context) {
	var pin *int
	if v := c.Query("pin"); v != "" {
		n, ok := intParam(c, v, "pin")
		if !ok {
			return
		}
		pin = &n
	}
	result, err := h.mxpService.GetCrew(c.Request.Context(), pin)
	h.respond(c, "crew", result, err)
}

func (h *mxpHandler) HandleFolio(c *gin.Context) {
	chargeID, ok := intParam(c, c.Param("charge_id"), "charge_id")
	if !ok {
		return
	}
	result, err := h.mxpService.GetFolio(c.Request.Context(), chargeID, c.Query("date_from"), c.Query("date_to"))
	h.respond(c, "folio", result, err)
}

func (h *mxpHandler) HandleDocument(c *gin.Context) {
	result, err := h.mxpService.GetDocument(c.Request.Context(), c.Param("id"))
	h.respond(c, "document", result, err)
}

func (h *mxpHandler) HandleICafe(c *gin.Context) {
	params := service.ICafeParams{
		RoomNr:      c.Query("room_nr"),
		DateOfBirth: c.Query("date_of_birth"),
		LastName:    c.Query("last_name"),
	}
	if v := c.Query("pin"); v != "" {
		n, ok := intParam(c, v, "pin")
		if !ok {
			return
		}
		params.PIN = &n
	}
	result, err := h.mxpService.GetICafe(c.Request.Context(), params)
	h.respond(c, "iCafe", result, err)
}

func (h *mxpHandler) HandlePersonImage(c *gin.Context) {
	id, ok := intParam(c, c.Param("id"), "id")
	if !ok {
		return
	}
	result, err := h.mxpService.GetPersonImageByID(c.Request.Context(), id)
	h.respond(c, "person image", result, err)
}

func (h *mxpHandler) HandleQuickCode(c *gin.Context) {
	result, err := h.mxpService.GetQuickCode(c.Request.Context())
	h.respond(c, "quick code", result, err)
}

func (h *mxpHandler) HandleSailorManifest(c *gin.Context) {
	installationCode := c.Query("installation_code")
	embark := c.Query("voyage_embark_date")
	debark := c.Query("voyage_debark_date")
	if installationCode == "" || embark == "" || debark == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "installation_code, voyage_embark_date and voyage_debark_date are required",
		})
		return
	}
	result, err := h.mxpService.GetSailorManifest(c.Request.Context(), installationCode, embark, debark)
	h.respond(c, "sailor manifest", result, err)
}

func (h *mxpHandler) HandleReceiptImage(c *gin.Context) {
	checkNumber, ok := intParam(c, c.Query("check_number"), "check_number")
	if !ok {
		return
	}
	buID, ok := intParam(c, c.Query("bu_id"), "bu_id")
	if !ok {
		return
	}
	result, err := h.mxpService.GetReceiptImage(c.Request.Context(), checkNumber, buID)
	h.respond(c, "receipt image", result, err)
}

func (h *mxpHandler) HandlePersonInvoice(c *gin.Context) {
	chargeID, ok := intParam(c, c.Param("charge_id"), "charge_id")
	if !ok {
		return
	}
	result, err := h.mxpService.GetPersonInvoice(c.Request.Context(), chargeID)
	h.respond(c, "person invoice", result, err)
}

// respond forwards the upstream payload as-is, or maps an upstream
// failure onto a 500 with the error message (matching the historical
// REST behavior).
func (h *mxpHandler) respond(c *gin.Context, what string, result map[string]interface{}, err error) {
	if err != nil {
		log.Printf("Error getting %s: %v", what, err)
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// intParam parses a required integer parameter, answering 400 on failure.
func intParam(c *gin.Context, value, name string) (int, bool) {
	n, err := strconv.Atoi(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "invalid " + name,
		})
		return 0, false
	}
	return n, true
}
