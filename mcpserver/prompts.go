package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerPrompts(s *server.MCPServer) {
	s.AddPrompt(mcp.NewPrompt("analyze_account",
		mcp.WithPromptDescription("Analyze an account by charge ID: status, balance, transaction patterns, and recommendations."),
		mcp.WithArgument("charge_id",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("The charge ID of the account to analyze"),
		),
	), handleAnalyzeAccount)

	s.AddPrompt(mcp.NewPrompt("review_folio",
		mcp.WithPromptDescription("Review a folio by charge ID: charges breakdown, payments, balance, and noteworthy items."),
		mcp.WithArgument("charge_id",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("The charge ID of the folio to review"),
		),
	), handleReviewFolio)

	s.AddPrompt(mcp.NewPrompt("crew_report",
		mcp.WithPromptDescription("Generate a comprehensive crew report from current crew data."),
	), handleCrewReport)
}

func handleAnalyzeAccount(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	chargeID := req.Params.Arguments["charge_id"]
	if chargeID == "" {
		return nil, fmt.Errorf("'charge_id' argument is required")
	}
	return &mcp.GetPromptResult{
		Description: "Account Analysis",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please analyze the account with charge ID %s.\n\n"+
						"Use the get_account_info tool to retrieve the account details, then provide:\n"+
						"1. Account status summary\n"+
						"2. Outstanding balance (if any)\n"+
						"3. Recent transaction patterns\n"+
						"4. Any potential issues or concerns\n"+
						"5. Recommendations for account management",
					chargeID,
				)),
			},
		},
	}, nil
}

func handleReviewFolio(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	chargeID := req.Params.Arguments["charge_id"]
	if chargeID == "" {
		return nil, fmt.Errorf("'charge_id' argument is required")
	}
	return &mcp.GetPromptResult{
		Description: "Folio Review",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please review the folio for charge ID %s.\n\n"+
						"Use the get_folio_info tool to retrieve the folio details, then provide:\n"+
						"1. Total charges breakdown\n"+
						"2. Payment history\n"+
						"3. Current balance\n"+
						"4. Unusual or noteworthy items\n"+
						"5. Suggestions for the guest",
					chargeID,
				)),
			},
		},
	}, nil
}

func handleCrewReport(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Crew Report",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please generate a comprehensive crew report.\n\n" +
						"Use the get_crew_info tool to retrieve crew data, then provide:\n" +
						"1. Total crew count by department\n" +
						"2. Role distribution\n" +
						"3. Any staffing gaps or concerns\n" +
						"4. Crew performance highlights\n" +
						"5. Recommendations for crew management",
				),
			},
		},
	}, nil
}
