package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(s *server.MCPServer) {
	s.AddResource(mcp.NewResource(
		"mxp://config/info",
		"MXP System Configuration",
		mcp.WithResourceDescription("MXP system configuration and available tool overview"),
		mcp.WithMIMEType("text/plain"),
	), handleConfigInfo)

	s.AddResource(mcp.NewResource(
		"mxp://help/tools",
		"MXP Tool Usage Guide",
		mcp.WithResourceDescription("Usage guide and examples for the MXP tools"),
		mcp.WithMIMEType("text/plain"),
	), handleToolHelp)
}

func handleConfigInfo(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return textResource(req.Params.URI, `MXP System Configuration

Available Tools:
- get_account_info: Retrieve account information by charge ID
- get_crew_info: Get crew member information
- get_folio_info: Access folio details
- get_document_info: Retrieve document information
- get_icafe_info: Get iCafe session data
- get_person_image: Access person images
- get_quick_code_info: Get quick codes
- get_manifest_info: Access sailor manifest
- get_receipt_image_info: Get receipt images
- get_person_invoice_info: Access person invoices

System Status: Active
`), nil
}

func handleToolHelp(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return textResource(req.Params.URI, `MXP Tool Usage Guide

Account Information:
- Use get_account_info(charge_id) to retrieve account details
- Example: get_account_info(10000004)

Folio Information:
- Use get_folio_info(charge_id, date_from, date_to) to access folio data
- Folios contain charge and payment information
- Example: get_folio_info(10000004, "2024-01-01", "2024-01-31")

Document Access:
- Use get_document_info(id) to retrieve documents by GUID
- Documents include receipts, confirmations, etc.
- Example: get_document_info("82056F48-D00B-40AB-9D18-029E1FA67EFF")

Personnel Information:
- get_crew_info(pin) for crew member data (optional PIN filter)
- get_person_image(id) for person photos by person ID
- get_person_invoice_info(charge_id) for invoices by charge ID

Passenger Services:
- get_icafe_info(room_nr, date_of_birth, last_name, pin) for internet cafe packages
  * For guests: use room_nr and date_of_birth
  * For crew: use pin and last_name
- get_manifest_info(installation_code, voyage_embark_date, voyage_debark_date)
  for passenger manifests
- get_quick_code_info() for quick access codes
- get_receipt_image_info(check_number, bu_id) for receipt images
`), nil
}

func textResource(uri, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     text,
		},
	}
}
