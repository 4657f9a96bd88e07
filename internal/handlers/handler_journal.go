package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// RegisterJournalRoutes registers journal routes. Mutating routes also run
// the given middleware.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade, mutating ...gin.HandlerFunc) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.GET("", h.listJournals)
		journals.GET("/lookup", h.lookupJournal)
		journals.GET("/:journalID", h.getJournal)
	}
	writes := journals.Group("", mutating...)
	{
		writes.POST("", h.submitEntry)
		writes.POST("/:journalID/reverse", h.reverseEntry)
	}
}

// submitEntry godoc
// @Summary Submit a journal entry
// @Description Validates the entry as a whole and commits it atomically. Every currency bucket must net to zero.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   entry body dto.SubmitEntryRequest true "Candidate entry"
// @Success 201 {object} dto.SubmitEntryResponse
// @Failure 400 {object} map[string]string "Invalid entry"
// @Failure 404 {object} map[string]string "Unknown account"
// @Failure 409 {object} map[string]string "Reference already committed"
// @Failure 422 {object} map[string]string "Entry does not balance"
// @Router /journals [post]
func (h *journalHandler) submitEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger = logger.With(
		slog.String("actor", actor),
		slog.String("source", req.Source),
		slog.String("external_reference", req.ExternalReference),
	)
	logger.Info("Received request to submit journal entry", slog.Int("postings", len(req.Postings)), slog.Int("legs", len(req.Legs)))

	entry, err := h.journalService.SubmitEntry(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to commit journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitEntryResponse{
		EntryID:     entry.EntryID,
		Sequence:    entry.Sequence,
		CommittedAt: entry.CommittedAt,
	})
}

// reverseEntry godoc
// @Summary Reverse a committed journal entry
// @Description Commits a new entry with every leg of the original swapped. An entry can be reversed once.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journalID path string true "Entry ID"
// @Param   reversal body dto.ReverseEntryRequest true "Reason"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid input, or the entry is itself a reversal"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already reversed"
// @Router /journals/{journalID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	entryID := c.Param("journalID")
	logger = logger.With(slog.String("actor", actor), slog.String("entry_id", entryID))
	logger.Info("Received request to reverse journal entry")

	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), entryID, req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}

// getJournal godoc
// @Summary Get a committed journal entry
// @Tags journals
// @Produce  json
// @Param   journalID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /journals/{journalID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", c.Param("journalID")))

	entry, err := h.journalService.GetEntry(c.Request.Context(), c.Param("journalID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// lookupJournal godoc
// @Summary Find an entry by its external reference
// @Description Lets a collaborator whose submission timed out learn whether it was committed.
// @Tags journals
// @Produce  json
// @Param   source query string true "Source"
// @Param   reference query string true "External reference"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Missing source or reference"
// @Failure 404 {object} map[string]string "No entry under that reference"
// @Router /journals/lookup [get]
func (h *journalHandler) lookupJournal(c *gin.Context) {
	source, reference := c.Query("source"), c.Query("reference")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("source", source),
		slog.String("external_reference", reference),
	)

	entry, err := h.journalService.FindEntryByReference(c.Request.Context(), source, reference)
	if err != nil {
		respondError(c, logger, err, "Failed to look up journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listJournals godoc
// @Summary List committed entries in sequence order
// @Tags journals
// @Produce  json
// @Param   source query string false "Only entries from this source"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} map[string]string "Invalid paging parameters"
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters", err)
		return
	}

	page, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, page)
}
