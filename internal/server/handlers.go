package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/qaforge/qaforge/models"
)

// RAGService is the slice of the pipeline the HTTP layer needs.
type RAGService interface {
	Answer(ctx context.Context, query string) models.QueryResult
	GenerateTestCase(ctx context.Context, description string) models.TestCaseResult
	Ingest(ctx context.Context, filePath string) error
	ListDocuments(ctx context.Context) ([]models.DocumentInfo, error)
	DeleteDocument(ctx context.Context, filename string) (bool, error)
}

// ScriptRunner executes generated test scripts.
type ScriptRunner interface {
	Execute(ctx context.Context, script, name string) models.ExecutionResult
}

// Handler exposes the RAG backend API.
type Handler struct {
	Pipeline      RAGService
	Runner        ScriptRunner
	DocumentsPath string
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.root)
	e.POST("/chat", h.chat)
	e.POST("/upload-document", h.uploadDocument)
	e.GET("/documents", h.listDocuments)
	e.DELETE("/documents/:filename", h.deleteDocument)
	e.POST("/generate-test-case", h.generateTestCase)
	e.POST("/execute-test", h.executeTest)
}

type chatRequest struct {
	Message string `json:"message"`
	// Context is accepted for API compatibility; retrieval works from the
	// message alone.
	Context string `json:"context,omitempty"`
}

type chatResponse struct {
	Response    string   `json:"response"`
	Sources     []string `json:"sources"`
	ContextUsed bool     `json:"context_used"`
	Accuracy    float64  `json:"accuracy_percentage"`
}

type uploadResponse struct {
	Message   string `json:"message"`
	Filename  string `json:"filename"`
	Processed bool   `json:"processed"`
}

type executionRequest struct {
	ScriptContent string `json:"script_content"`
	TestName      string `json:"test_name"`
}

func (h *Handler) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "QAForge RAG API is running"})
}

func (h *Handler) chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	result := h.Pipeline.Answer(c.Request().Context(), req.Message)
	return c.JSON(http.StatusOK, chatResponse{
		Response:    result.Answer,
		Sources:     result.Sources,
		ContextUsed: result.ContextUsed,
		Accuracy:    result.Accuracy,
	})
}

func (h *Handler) uploadDocument(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	filename := filepath.Base(fileHeader.Filename)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filename")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	path := filepath.Join(h.DocumentsPath, filename)
	dst, err := os.Create(path)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := dst.Close(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.Pipeline.Ingest(c.Request().Context(), path); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Failed to process document: %v", err))
	}

	return c.JSON(http.StatusOK, uploadResponse{
		Message:   fmt.Sprintf("Document %s uploaded and processed successfully", filename),
		Filename:  filename,
		Processed: true,
	})
}

func (h *Handler) listDocuments(c echo.Context) error {
	docs, err := h.Pipeline.ListDocuments(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, docs)
}

func (h *Handler) deleteDocument(c echo.Context) error {
	filename := filepath.Base(c.Param("filename"))
	if filename == "" || filename == "." {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filename")
	}

	// Always delegate: the pipeline purges stale index entries even when the
	// file is already gone from disk.
	found, err := h.Pipeline.DeleteDocument(c.Request().Context(), filename)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Document %s deleted successfully", filename),
	})
}

func (h *Handler) generateTestCase(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	result := h.Pipeline.GenerateTestCase(c.Request().Context(), req.Message)
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) executeTest(c echo.Context) error {
	var req executionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ScriptContent == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "script_content is required")
	}

	result := h.Runner.Execute(c.Request().Context(), req.ScriptContent, req.TestName)
	return c.JSON(http.StatusOK, result)
}
