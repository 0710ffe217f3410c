package notify_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/middleware"
	"github.com/SscSPs/waqf_ledger/internal/notify"
	"github.com/SscSPs/waqf_ledger/internal/utils"
)

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(distinctID string, event string, properties map[string]any) error {
	args := m.Called(distinctID, event, properties)
	return args.Error(0)
}

func rejectedEvent() domain.DomainEvent {
	return domain.DomainEvent{
		Type:           domain.EventDistributionRejected,
		DistributionID: "d-1",
		ActorID:        "u-nazer",
		RecipientID:    "u-accountant",
		Reason:         "figures disputed",
		Amount:         decimal.RequireFromString("76950"),
		OccurredAt:     time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestPosthogPublisher_KeysByRecipient(t *testing.T) {
	client := new(MockEnqueuer)
	client.On("Enqueue", "u-accountant", "DistributionRejected", mock.MatchedBy(func(p map[string]any) bool {
		return p["reason"] == "figures disputed" && p["distribution_id"] == "d-1" && p["amount"] == "76950.00"
	})).Return(nil).Once()

	err := notify.NewPosthogPublisher(client).Publish(context.Background(), rejectedEvent())

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestPosthogPublisher_FallsBackToActor(t *testing.T) {
	client := new(MockEnqueuer)
	client.On("Enqueue", "u-admin", "FiscalYearClosed", mock.Anything).Return(nil).Once()

	err := notify.NewPosthogPublisher(client).Publish(context.Background(), domain.DomainEvent{
		Type:         domain.EventFiscalYearClosed,
		FiscalYearID: "fy-1",
		ActorID:      "u-admin",
	})

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestLogPublisher_WritesToRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := middleware.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, notify.LogPublisher{}.Publish(ctx, rejectedEvent()))

	assert.Contains(t, buf.String(), `"event":"DistributionRejected"`)
	assert.Contains(t, buf.String(), `"reason":"figures disputed"`)
}

func TestMulti_JoinsErrorsAndKeepsGoing(t *testing.T) {
	failing := new(MockEnqueuer)
	failing.On("Enqueue", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("boom")).Once()
	working := new(MockEnqueuer)
	working.On("Enqueue", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	m := notify.Multi{notify.NewPosthogPublisher(failing), notify.NewPosthogPublisher(working)}
	err := m.Publish(context.Background(), rejectedEvent())

	assert.EqualError(t, err, "boom")
	failing.AssertExpectations(t)
	working.AssertExpectations(t)
}

func TestNew_LogOnlyWithoutPosthog(t *testing.T) {
	assert.IsType(t, notify.LogPublisher{}, notify.New(nil))
	assert.IsType(t, notify.LogPublisher{}, notify.New(&utils.PosthogClientWrapper{}))
}
