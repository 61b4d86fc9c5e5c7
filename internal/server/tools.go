package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bhecquet/seleniumRobot-sub010/internal/actions"
	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
	"github.com/bhecquet/seleniumRobot-sub010/internal/store"
)

const categoryHelp = "Failure category: unknown, assertion, application, infrastructure or grid_node_unavailable"

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("result_get",
			mcp.WithDescription("Get a recorded test result with the error causes found for it"),
			mcp.WithString("id", mcp.Description("Result ID"), mcp.Required()),
		),
		s.handleResultGet,
	)

	s.mcp.AddTool(
		mcp.NewTool("result_list",
			mcp.WithDescription("List recorded test results, newest first"),
			mcp.WithString("suite", mcp.Description("Filter by suite")),
			mcp.WithString("class", mcp.Description("Filter by test class")),
			mcp.WithString("method", mcp.Description("Filter by test method")),
			mcp.WithString("status", mcp.Description("Filter by status: passed, failed or skipped")),
			mcp.WithNumber("limit", mcp.Description("Max results (default 50)")),
		),
		s.handleResultList,
	)

	s.mcp.AddTool(
		mcp.NewTool("retry_decide",
			mcp.WithDescription("Decide whether a failed test result is run again and store the retry state"),
			mcp.WithString("id", mcp.Description("Result ID"), mcp.Required()),
			mcp.WithString("category", mcp.Description(categoryHelp)),
		),
		s.handleRetryDecide,
	)

	s.mcp.AddTool(
		mcp.NewTool("retry_peek",
			mcp.WithDescription("Tell what retry_decide would answer without storing anything"),
			mcp.WithString("id", mcp.Description("Result ID"), mcp.Required()),
			mcp.WithString("category", mcp.Description(categoryHelp)),
		),
		s.handleRetryPeek,
	)

	s.mcp.AddTool(
		mcp.NewTool("retry_status",
			mcp.WithDescription("Show whether a test result still has a retry slot"),
			mcp.WithString("id", mcp.Description("Result ID"), mcp.Required()),
		),
		s.handleRetryStatus,
	)

	s.mcp.AddTool(
		mcp.NewTool("analyze_result",
			mcp.WithDescription("Search the causes of a failed test result: error messages on the end screenshots, "+
				"fields in error, and differences with the reference screenshot of the failed step"),
			mcp.WithString("id", mcp.Description("Failed result ID"), mcp.Required()),
		),
		s.handleAnalyzeResult,
	)

	s.mcp.AddTool(
		mcp.NewTool("analyze_snapshots",
			mcp.WithDescription("Look for error messages and fields in error on screenshots matching a glob (** allowed)"),
			mcp.WithString("pattern", mcp.Description("Screenshot glob"), mcp.Required()),
		),
		s.handleAnalyzeSnapshots,
	)

	s.mcp.AddTool(
		mcp.NewTool("detect_image",
			mcp.WithDescription("Run the image field detector on one screenshot"),
			mcp.WithString("image", mcp.Description("Screenshot path"), mcp.Required()),
			mcp.WithBoolean("errors", mcp.Description("Detect error messages and fields in error instead of all form fields")),
			mcp.WithNumber("resize", mcp.Description("Scale factor applied before upload")),
		),
		s.handleDetectImage,
	)

	s.mcp.AddTool(
		mcp.NewTool("reference_add",
			mcp.WithDescription("Record the reference screenshot of a step result"),
			mcp.WithNumber("step_result_id", mcp.Description("Step result ID"), mcp.Required()),
			mcp.WithString("path", mcp.Description("Reference screenshot path"), mcp.Required()),
		),
		s.handleReferenceAdd,
	)

	s.mcp.AddTool(
		mcp.NewTool("reference_get",
			mcp.WithDescription("Show the reference screenshot of a step result"),
			mcp.WithNumber("step_result_id", mcp.Description("Step result ID"), mcp.Required()),
		),
		s.handleReferenceGet,
	)

	s.mcp.AddTool(
		mcp.NewTool("doctor",
			mcp.WithDescription("Check database content and detector connectivity"),
		),
		s.handleDoctor,
	)
}

func (s *Server) handleResultGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(actions.ResultGet(ctx, s.db, id))
}

func (s *Server) handleResultList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := store.ResultFilter{
		Suite:     request.GetString("suite", ""),
		ClassName: request.GetString("class", ""),
		Method:    request.GetString("method", ""),
		Status:    models.ResultStatus(request.GetString("status", "")),
		Limit:     request.GetInt("limit", 50),
	}
	return textResult(actions.ResultList(ctx, s.db, filter))
}

func (s *Server) handleRetryDecide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(actions.RetryDecide(ctx, s.db, s.analyzer, id, request.GetString("category", "")))
}

func (s *Server) handleRetryPeek(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(actions.RetryPeek(ctx, s.db, s.analyzer, id, request.GetString("category", "")))
}

func (s *Server) handleRetryStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(actions.RetryStatus(ctx, s.db, s.analyzer, id))
}

func (s *Server) handleAnalyzeResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detector, err := s.detectorFor(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(actions.AnalyzeResult(ctx, s.db, actions.NewFinder(s.db, detector, s.settings), id))
}

func (s *Server) handleAnalyzeSnapshots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern, err := request.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	paths, err := actions.ExpandSnapshots(pattern)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detector, err := s.detectorFor(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(actions.AnalyzeSnapshots(ctx, actions.NewFinder(nil, detector, s.settings), paths))
}

func (s *Server) handleDetectImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	image, err := request.RequireString("image")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detector, err := s.detectorFor(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resize := request.GetFloat("resize", s.settings.ResizeFactor)
	return textResult(actions.DetectImage(ctx, detector, image, request.GetBool("errors", false), resize))
}

func (s *Server) handleReferenceAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireInt("step_result_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(actions.ReferenceAdd(ctx, s.db, id, path))
}

func (s *Server) handleReferenceGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireInt("step_result_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(actions.ReferenceGet(ctx, s.db, id))
}

func (s *Server) handleDoctor(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(actions.Doctor(ctx, s.db, s.settings))
}
