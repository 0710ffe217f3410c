package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/dto"
	"github.com/SscSPs/waqf_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for journal entries.
type journalHandler struct {
	ledger portssvc.LedgerSvcFacade
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerSvcFacade) {
	h := &journalHandler{ledger: ledger}

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.postEntry)
		entries.POST("/drafts", h.createDraft)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.POST("/:id/post", h.postDraft)
		entries.POST("/:id/reverse", h.reverseEntry)
	}
}

// postEntry godoc
// @Summary Post a manual journal entry
// @Description Validates and posts a balanced entry in one step
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Entry with at least two lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 409 {object} errorResponse "Fiscal year closed or missing"
// @Failure 422 {object} errorResponse "Entry is not balanced or references an unknown account"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "PostEntry")
		return
	}

	entry, err := h.ledger.PostEntry(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "PostEntry")
		return
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// createDraft godoc
// @Summary Store a draft journal entry
// @Description Drafts are validated only when posted
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Draft entry"
// @Success 201 {object} dto.JournalEntryResponse
// @Security BearerAuth
// @Router /journal-entries/drafts [post]
func (h *journalHandler) createDraft(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateDraftEntry")
		return
	}

	entry, err := h.ledger.CreateDraftEntry(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "CreateDraftEntry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// postDraft godoc
// @Summary Post a stored draft
// @Tags journal
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 409 {object} errorResponse "Entry is no longer a draft or period closed"
// @Failure 422 {object} errorResponse "Draft fails validation"
// @Security BearerAuth
// @Router /journal-entries/{id}/post [post]
func (h *journalHandler) postDraft(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	entry, err := h.ledger.PostDraftEntry(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "PostDraftEntry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted entry
// @Description Posts a new entry with every line's sides swapped
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   body body dto.ReverseJournalEntryRequest true "Reason"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 409 {object} errorResponse "Already reversed or period closed"
// @Security BearerAuth
// @Router /journal-entries/{id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.ReverseJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "ReverseEntry")
		return
	}

	reversal, err := h.ledger.ReverseEntry(c.Request.Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err, "ReverseEntry")
		return
	}

	logger.Info("Journal entry reversed", slog.String("original_id", c.Param("id")), slog.String("reversal_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Tags journal
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} errorResponse "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.ledger.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "GetEntry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries of a fiscal year
// @Tags journal
// @Produce  json
// @Param   fiscalYearID query string true "Fiscal year ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "ListEntries")
		return
	}

	entries, next, err := h.ledger.ListEntries(c.Request.Context(), params.FiscalYearID, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "ListEntries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListJournalEntriesResponse(entries, next))
}
