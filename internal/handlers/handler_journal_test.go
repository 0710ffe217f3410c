package handlers_test

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

const balancedEntryJSON = `{
	"entryDate": "2025-02-01T00:00:00Z",
	"description": "February rent",
	"lines": [
		{"accountID": "acc-1-1-1", "debitAmount": "1500", "creditAmount": "0"},
		{"accountID": "acc-4-1", "debitAmount": "0", "creditAmount": "1500"}
	]
}`

func entryRequestMatches(description string) any {
	return mock.MatchedBy(func(req dto.CreateJournalEntryRequest) bool {
		return req.Description == description && len(req.Lines) == 2 &&
			req.Lines[0].DebitAmount.Equal(decimal.NewFromInt(1500)) &&
			req.EntryDate.Equal(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	})
}

func (s *HandlerTestSuite) TestPostEntry_Success() {
	posted := time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC)
	s.ledger.On("PostEntry", mock.Anything, accountant, entryRequestMatches("February rent")).Return(&domain.JournalEntry{
		EntryID:      "je-1",
		EntryNumber:  "JE-2025-000001",
		EntryDate:    time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Description:  "February rent",
		Status:       domain.EntryPosted,
		FiscalYearID: "fy-2025",
		PostedAt:     &posted,
		Lines: []domain.JournalLine{
			domain.Debit("acc-1-1-1", decimal.NewFromInt(1500), ""),
			domain.Credit("acc-4-1", decimal.NewFromInt(1500), ""),
		},
	}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/journal-entries", balancedEntryJSON, accountant)

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.JournalEntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("JE-2025-000001", resp.EntryNumber)
	s.Equal(domain.EntryPosted, resp.Status)
	s.Len(resp.Lines, 2)
}

func (s *HandlerTestSuite) TestPostEntry_SingleLineRejectedByBinding() {
	body := `{"entryDate": "2025-02-01T00:00:00Z", "description": "x", "lines": [{"accountID": "a", "debitAmount": "1"}]}`

	w := s.do(http.MethodPost, "/api/v1/journal-entries", body, accountant)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestPostEntry_Imbalanced() {
	s.ledger.On("PostEntry", mock.Anything, accountant, mock.Anything).Return(nil, &apperrors.ImbalancedEntryError{
		TotalDebits:  decimal.NewFromInt(1500),
		TotalCredits: decimal.NewFromInt(1400),
	}).Once()

	w := s.do(http.MethodPost, "/api/v1/journal-entries", balancedEntryJSON, accountant)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	body := s.decodeError(w)
	s.Equal("IMBALANCED_ENTRY", body["code"])
	details := body["details"].(map[string]any)
	s.Equal("1500", details["totalDebits"])
	s.Equal("1400", details["totalCredits"])
}

func (s *HandlerTestSuite) TestPostEntry_ClosedPeriod() {
	s.ledger.On("PostEntry", mock.Anything, accountant, mock.Anything).Return(nil, &apperrors.ClosedPeriodError{
		FiscalYearID: "fy-2024",
		Date:         time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
	}).Once()

	w := s.do(http.MethodPost, "/api/v1/journal-entries", balancedEntryJSON, accountant)

	s.Equal(http.StatusConflict, w.Code)
	s.Equal("CLOSED_PERIOD", s.decodeError(w)["code"])
}

func (s *HandlerTestSuite) TestPostEntry_UnknownAccount() {
	s.ledger.On("PostEntry", mock.Anything, accountant, mock.Anything).
		Return(nil, &apperrors.UnknownAccountError{AccountID: "acc-9", Inactive: true}).Once()

	w := s.do(http.MethodPost, "/api/v1/journal-entries", balancedEntryJSON, accountant)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	body := s.decodeError(w)
	s.Equal("UNKNOWN_ACCOUNT", body["code"])
	s.Equal(true, body["details"].(map[string]any)["inactive"])
}

func (s *HandlerTestSuite) TestDraftThenPost() {
	s.ledger.On("CreateDraftEntry", mock.Anything, accountant, entryRequestMatches("February rent")).
		Return(&domain.JournalEntry{EntryID: "je-draft", Status: domain.EntryDraft}, nil).Once()
	s.ledger.On("PostDraftEntry", mock.Anything, accountant, "je-draft").
		Return(&domain.JournalEntry{EntryID: "je-draft", Status: domain.EntryPosted}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/journal-entries/drafts", balancedEntryJSON, accountant)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/journal-entries/je-draft/post", nil, accountant)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.JournalEntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(domain.EntryPosted, resp.Status)
}

func (s *HandlerTestSuite) TestPostDraft_AlreadyPosted() {
	s.ledger.On("PostDraftEntry", mock.Anything, accountant, "je-1").
		Return(nil, &apperrors.StaleStateError{Resource: "journal entry", ID: "je-1", Expected: "draft", Actual: "posted"}).Once()

	w := s.do(http.MethodPost, "/api/v1/journal-entries/je-1/post", nil, accountant)

	s.Equal(http.StatusConflict, w.Code)
	s.Equal("STALE_STATE", s.decodeError(w)["code"])
}

func (s *HandlerTestSuite) TestReverseEntry() {
	reverses := "je-1"
	s.ledger.On("ReverseEntry", mock.Anything, accountant, "je-1", "duplicate receipt").
		Return(&domain.JournalEntry{EntryID: "je-2", Status: domain.EntryPosted, ReversesEntryID: &reverses}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/journal-entries/je-1/reverse", dto.ReverseJournalEntryRequest{Reason: "duplicate receipt"}, accountant)

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.JournalEntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().NotNil(resp.ReversesEntryID)
	s.Equal("je-1", *resp.ReversesEntryID)
}

func (s *HandlerTestSuite) TestReverseEntry_RequiresReason() {
	w := s.do(http.MethodPost, "/api/v1/journal-entries/je-1/reverse", `{}`, accountant)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestListEntries_RequiresFiscalYear() {
	w := s.do(http.MethodGet, "/api/v1/journal-entries", nil, accountant)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestListEntries_Paginates() {
	next := "tok-2"
	s.ledger.On("ListEntries", mock.Anything, "fy-2025", 2, mock.MatchedBy(func(tok *string) bool {
		return tok != nil && *tok == "tok-1"
	})).Return([]domain.JournalEntry{{EntryID: "je-3"}, {EntryID: "je-4"}}, &next, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/journal-entries?fiscalYearID=fy-2025&limit=2&nextToken=tok-1", nil, accountant)

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListJournalEntriesResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp.Entries, 2)
	s.Require().NotNil(resp.NextToken)
	s.Equal("tok-2", *resp.NextToken)
}

func (s *HandlerTestSuite) TestGetEntry_InternalErrorIsOpaque() {
	s.ledger.On("GetEntry", mock.Anything, "je-1").Return(nil, errUnexpected).Once()

	w := s.do(http.MethodGet, "/api/v1/journal-entries/je-1", nil, accountant)

	s.Equal(http.StatusInternalServerError, w.Code)
	body := s.decodeError(w)
	s.Equal("INTERNAL_ERROR", body["code"])
	s.NotContains(body["error"], "connection reset")
}
