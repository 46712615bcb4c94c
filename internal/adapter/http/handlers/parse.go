package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskflow/internal/adapter/http/dto"
	"taskflow/internal/adapter/http/mapper"
	"taskflow/internal/adapter/http/middleware"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
	"taskflow/pkg/apierrors"
)

type ParseHandler struct {
	parser        ports.TaskParser
	now           func() time.Time
	exposeDetails bool
}

// NewParseHandler builds the parsing endpoints. When exposeDetails is set,
// failure responses carry the underlying error text.
func NewParseHandler(parser ports.TaskParser, exposeDetails bool) *ParseHandler {
	return &ParseHandler{parser: parser, now: time.Now, exposeDetails: exposeDetails}
}

// WithClock replaces the clock that supplies the reference instant.
func (h *ParseHandler) WithClock(now func() time.Time) *ParseHandler {
	h.now = now
	return h
}

func (h *ParseHandler) ParseTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.ParseTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Input) == "" {
		respondError(c, http.StatusBadRequest, apierrors.MsgInputRequired, lang)
		return
	}

	reference := h.now()
	if req.ReferenceTime != nil {
		parsed, err := time.Parse(time.RFC3339, *req.ReferenceTime)
		if err != nil {
			respondError(c, http.StatusBadRequest, apierrors.MsgInvalidReference, lang)
			return
		}
		reference = parsed
	}

	candidate, err := h.parser.ParseOne(c.Request.Context(), req.Input, reference)
	if err != nil {
		h.respondParseError(c, apierrors.MsgFailParseTask, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskCandidate(candidate))
}

func (h *ParseHandler) ParseTranscript(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.ParseTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Transcript) == "" {
		respondError(c, http.StatusBadRequest, apierrors.MsgTranscriptRequired, lang)
		return
	}

	candidates, err := h.parser.ParseMany(c.Request.Context(), req.Transcript)
	if err != nil {
		h.respondParseError(c, apierrors.MsgFailTranscript, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskCandidates(candidates))
}

func (h *ParseHandler) respondParseError(c *gin.Context, msgKey string, err error) {
	kind := domain.KindOf(err)
	zap.L().Warn("parsing request failed",
		zap.String("kind", string(kind)),
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err),
	)

	details := ""
	if h.exposeDetails {
		details = err.Error()
	}

	c.JSON(
		http.StatusInternalServerError,
		apierrors.CreateError(http.StatusInternalServerError, msgKey, middleware.GetLang(c)).WithKind(string(kind), details),
	)
}
