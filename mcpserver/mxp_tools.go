package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tieubaoca/mxp-gateway/service"
)

// MXPTools exposes the MXP lookup endpoints as MCP tools. Each tool maps
// to one upstream GET call and returns the upstream payload as JSON text.
type MXPTools struct {
	mxp service.MXPService
}

// NewMXPTools creates the MXP tool set.
func NewMXPTools(mxp service.MXPService) *MXPTools {
	return &MXPTools{mxp: mxp}
}

// Register adds all MXP tools to the server.
func (t *MXPTools) Register(s *server.MCPServer) {
	s.AddTool(t.accountDefinition(), t.handleAccount)
	s.AddTool(t.crewDefinition(), t.handleCrew)
	s.AddTool(t.folioDefinition(), t.handleFolio)
	s.AddTool(t.documentDefinition(), t.handleDocument)
	s.AddTool(t.icafeDefinition(), t.handleICafe)
	s.AddTool(t.personImageDefinition(), t.handlePersonImage)
	s.AddTool(t.quickCodeDefinition(), t.handleQuickCode)
	s.AddTool(t.manifestDefinition(), t.handleManifest)
	s.AddTool(t.receiptImageDefinition(), t.handleReceiptImage)
	s.AddTool(t.personInvoiceDefinition(), t.handlePersonInvoice)
}

func (t *MXPTools) accountDefinition() mcp.Tool {
	return mcp.NewTool("get_account_info",
		mcp.WithDescription("Get account information by charge ID from the MXP system, including balance, transactions, and details."),
		mcp.WithNumber("charge_id",
			mcp.Required(),
			mcp.Description("The charge ID to look up (e.g. 10000004)"),
		),
	)
}

func (t *MXPTools) handleAccount(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chargeID, ok := intArg(req, "charge_id")
	if !ok {
		return mcp.NewToolResultError("'charge_id' is required and must be a number"), nil
	}
	result, err := t.mxp.GetAccount(ctx, chargeID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("account lookup failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *MXPTools) crewDefinition() mcp.Tool {
	return mcp.NewTool("get_crew_info",
		mcp.WithDescription("Get crew information from the MXP system, optionally filtered by PIN. Returns names, roles, and assignments."),
		mcp.WithNumber("pin",
			mcp.Description("Optional PIN to filter by specific crew member"),
		),
	)
}

func (t *MXPTools) handleCrew(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var pin *int
	if n, ok := intArg(req, "pin"); ok {
		pin = &n
	}
	result, err := t.mxp.GetCrew(ctx, pin)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("crew lookup failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *MXPTools) folioDefinition() mcp.Tool {
	return mcp.NewTool("get_folio_info",
		mcp.WithDescription("Get folio information by charge ID from the MXP system, including charges, payments, and balance."),
		mcp.WithNumber("charge_id",
			mcp.Required(),
			mcp.Description("The charge ID to look up"),
		),
		mcp.WithString("date_from",
			mcp.Description("Optional start date (ISO 8601 format: YYYY-MM-DD)"),
		),
		mcp.WithString("date_to",
			mcp.Description("Optional end date (ISO 8601 format: YYYY-MM-DD)"),
		),
	)
}

func (t *MXPTools) handleFolio(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chargeID, ok := intArg(req, "charge_id")
	if !ok {
		return mcp.NewToolResultError("'charge_id' is required and must be a number"), nil
	}
	dateFrom := req.GetString("date_from", "")
	dateTo := req.GetString("date_to", "")
	result, err := t.mxp.GetFolio(ctx, chargeID, dateFrom, dateTo)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("folio lookup failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *MXPTools) documentDefinition() mcp.Tool {
	return mcp.NewTool("get_document_info",
		mcp.WithDescription("Get document information by document ID (GUID) from the MXP system, including type, status, and content."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The document GUID to look up"),
		),
	)
}

func (t *MXPTools) handleDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	result, err := t.mxp.GetDocument(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("document lookup failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *MXPTools) icafeDefinition() mcp.Tool {
	return mcp.NewTool("get_icafe_info",
		mcp.WithDescription("Get iCafe package information from the MXP system. For guests, use room_nr and date_of_birth. For crew, use pin and last_name."),
		mcp.WithString("room_nr",
			mcp.Description("Room number (for guests)"),
		),
		mcp.WithString("date_of_birth",
			mcp.Description("Date of birth in ISO 8601 format (for guests)"),
		),
		mcp.WithString("last_name",
			mcp.Description("Last name (for crew)"),
		),
		mcp.WithNumber("pin",
			mcp.Description("Person ID (for crew)"),
		),
	)
}

func (t *MXPTools) handleICafe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := service.ICafeParams{
		RoomNr:      req.GetString("room_nr", ""),
		DateOfBirth: req.GetString("date_of_birth", ""),
		LastName:    req.GetString("last_name", ""),
	}
	if n, ok := intArg(req, "pin"); ok {
		params.PIN = &n
	}
	result, err := t.mxp.GetICafe(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("iCafe lookup failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *MXPTools) personImageDefinition() mcp.Tool {
	return mcp.NewTool("get_person_image",
		mcp.WithDescription("Get person image information by person ID from the MXP system, including URL and metadata."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("The MXP internal person identifier"),
		),
	)
}

func (t *MXPTools) handlePersonImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := intArg(req, "id")
	if !ok {
		return mcp.NewToolResultError("'id' is required and must be a number"), nil
	}
	result, err := t.mxp.GetPersonImageByID(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("person image lookup failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *MXPTools) quickCodeDefinition() mcp.Tool {
	return mcp.NewTool("get_quick_code_info",
		mcp.WithDescription("Get quick code configuration and active codes from the MXP system."),
	)
}

func (t *MXPTools) handleQuickCode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.mxp.GetQuickCode(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("quick code lookup failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *MXPTools) manifestDefinition() mcp.Tool {
	return mcp.NewTool("get_manifest_info",
		mcp.WithDescription("Get sailor manifest information from the MXP system, including passenger lists and cabin assignments."),
		mcp.WithString("installation_code",
			mcp.Required(),
			mcp.Description("Ship/installation code"),
		),
		mcp.WithString("voyage_embark_date",
			mcp.Required(),
			mcp.Description("Voyage embark date (ISO 8601 format: YYYY-MM-DD)"),
		),
		mcp.WithString("voyage_debark_date",
			mcp.Required(),
			mcp.Description("Voyage debark date (ISO 8601 format: YYYY-MM-DD)"),
		),
	)
}

func (t *MXPTools) handleManifest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	installationCode := req.GetString("installation_code", "")
	embarkDate := req.GetString("voyage_embark_date", "")
	debarkDate := req.GetString("voyage_debark_date", "")
	if installationCode == "" || embarkDate == "" || debarkDate == "" {
		return mcp.NewToolResultError("'installation_code', 'voyage_embark_date', and 'voyage_debark_date' are required"), nil
	}
	result, err := t.mxp.GetSailorManifest(ctx, installationCode, embarkDate, debarkDate)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("manifest lookup failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *MXPTools) receiptImageDefinition() mcp.Tool {
	return mcp.NewTool("get_receipt_image_info",
		mcp.WithDescription("Get receipt image information by check number and business unit ID from the MXP system."),
		mcp.WithNumber("check_number",
			mcp.Required(),
			mcp.Description("The check number to look up"),
		),
		mcp.WithNumber("bu_id",
			mcp.Required(),
			mcp.Description("Business unit identifier"),
		),
	)
}

func (t *MXPTools) handleReceiptImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	checkNumber, ok := intArg(req, "check_number")
	if !ok {
		return mcp.NewToolResultError("'check_number' is required and must be a number"), nil
	}
	buID, ok := intArg(req, "bu_id")
	if !ok {
		return mcp.NewToolResultError("'bu_id' is required and must be a number"), nil
	}
	result, err := t.mxp.GetReceiptImage(ctx, checkNumber, buID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("receipt image lookup failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *MXPTools) personInvoiceDefinition() mcp.Tool {
	return mcp.NewTool("get_person_invoice_info",
		mcp.WithDescription("Get person invoice information by charge ID from the MXP system, including charges, payments, and balance."),
		mcp.WithNumber("charge_id",
			mcp.Required(),
			mcp.Description("The charge ID to look up"),
		),
	)
}

func (t *MXPTools) handlePersonInvoice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chargeID, ok := intArg(req, "charge_id")
	if !ok {
		return mcp.NewToolResultError("'charge_id' is required and must be a number"), nil
	}
	result, err := t.mxp.GetPersonInvoice(ctx, chargeID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("person invoice lookup failed: %v", err)), nil
	}
	return jsonResult(result)
}
