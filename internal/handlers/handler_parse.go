package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/tallybeam/tallybeam/internal/dto"
	"github.com/tallybeam/tallybeam/internal/middleware"
)

type parseHandler struct {
	parser portssvc.ParseSvc
}

// RegisterParseRoutes registers the free-text invoice parser.
func RegisterParseRoutes(rg *gin.RouterGroup, parser portssvc.ParseSvc, mw RouteMiddleware) {
	h := &parseHandler{parser: parser}
	rg.POST("/parse", chain(mw.RateLimit, mw.OptionalAuth, h.parseInvoiceText)...)
}

// parseInvoiceText godoc
// @Summary Extract invoice fields from free text
// @Description Returns parsedData null when the text does not describe a usable invoice
// @Tags parse
// @Accept  json
// @Produce  json
// @Param   request body dto.ParseRequest true "Free text"
// @Success 200 {object} dto.ParseResponse
// @Failure 400 {object} map[string]string "Input text is required"
// @Failure 500 {object} map[string]string "AI parsing failed"
// @Router /parse [post]
func (h *parseHandler) parseInvoiceText(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid parse input", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Input text is required"})
		return
	}

	parsed, err := h.parser.ParseInvoiceText(c.Request.Context(), req.Input)
	if err != nil {
		respondError(c, logger, err, "AI parsing failed")
		return
	}
	if parsed == nil {
		logger.Info("No usable invoice data extracted")
	}
	c.JSON(http.StatusOK, dto.ParseResponse{ParsedData: parsed})
}
