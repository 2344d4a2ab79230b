package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drpaneas/gitinsight/internal/apperr"
	"github.com/drpaneas/gitinsight/internal/export"
	"github.com/drpaneas/gitinsight/internal/model"
)

type handler struct {
	analyzer Analyzer
	version  string
}

type analyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

func (h *handler) analyzeRepository(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.InvalidInput, "request body must be {\"url\": \"...\"}", err))
		return
	}
	res, err := h.analyzer.AnalyzeRepository(c.Request.Context(), req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) analyzeProfile(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.InvalidInput, "request body must be {\"url\": \"...\"}", err))
		return
	}
	res, err := h.analyzer.AnalyzeProfile(c.Request.Context(), req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// exportMarkdown renders the items of a previously returned AnalysisResult.
func (h *handler) exportMarkdown(c *gin.Context) {
	var res model.AnalysisResult
	if err := c.ShouldBindJSON(&res); err != nil {
		writeError(c, apperr.New(apperr.InvalidInput, "request body must be an analysis result", err))
		return
	}
	md, err := export.ItemsMarkdown(res.Items)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

func writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	if kind == "" {
		kind = "internal"
	}
	c.JSON(status, errorBody{Error: apperr.UserMessage(err), Kind: string(kind)})
}
