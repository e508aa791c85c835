package bookings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	commonerrors "plana-backend/internal/common/errors"
	"plana-backend/internal/common/logger"
	"plana-backend/internal/email"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendTransactionalEmail(ctx context.Context, req email.SendRequest) email.SendResult {
	args := m.Called(ctx, req)
	return args.Get(0).(email.SendResult)
}

func newTestNotifier(t *testing.T, lookup Lookup, mailer Mailer) *Notifier {
	t.Helper()
	r, err := NewRenderer("es")
	require.NoError(t, err)
	return NewNotifier(lookup, r, mailer, logger.NewTestLogger(t))
}

func TestNotifier_SendConfirmationByID(t *testing.T) {
	lookup := &mockLookup{}
	lookup.On("GetBookingDetails", mock.Anything, "bk-1").Return(sampleBooking(), nil)

	mailer := &mockMailer{}
	want := email.SendResult{Success: true, ID: "email_1", Provider: email.ProviderSDK, Attempts: 1}
	mailer.On("SendTransactionalEmail", mock.Anything, mock.MatchedBy(func(req email.SendRequest) bool {
		return req.To == "ana@example.com" &&
			req.Subject == "Reserva confirmada: Trekking Cerro Catedral" &&
			req.HTML != "" && req.Text != ""
	})).Return(want)

	got, err := newTestNotifier(t, lookup, mailer).SendConfirmation(context.Background(), ConfirmationRequest{BookingID: "bk-1"})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	mailer.AssertExpectations(t)
	lookup.AssertExpectations(t)
}

func TestNotifier_InlineDetailsSkipLookup(t *testing.T) {
	lookup := &mockLookup{}
	mailer := &mockMailer{}
	mailer.On("SendTransactionalEmail", mock.Anything, mock.Anything).
		Return(email.SendResult{Success: true, Provider: email.ProviderSimulation, ID: "sim_1_abc"})

	_, err := newTestNotifier(t, lookup, mailer).SendConfirmation(context.Background(), ConfirmationRequest{
		BookingID: "ignored",
		Booking:   sampleBooking(),
	})
	require.NoError(t, err)
	lookup.AssertNotCalled(t, "GetBookingDetails", mock.Anything, mock.Anything)
}

func TestNotifier_FailedSendIsNotAnError(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("SendTransactionalEmail", mock.Anything, mock.Anything).
		Return(email.SendResult{Success: false, Provider: email.ProviderHTTP, Error: "API key is invalid"})

	got, err := newTestNotifier(t, nil, mailer).SendConfirmation(context.Background(), ConfirmationRequest{Booking: sampleBooking()})
	require.NoError(t, err)
	assert.False(t, got.Success)
}

func TestNotifier_Errors(t *testing.T) {
	tests := []struct {
		name     string
		lookup   func() Lookup
		req      ConfirmationRequest
		wantCode commonerrors.ErrorCode
	}{
		{
			name:     "empty request",
			lookup:   func() Lookup { return nil },
			req:      ConfirmationRequest{},
			wantCode: commonerrors.ErrCodeValidationFailed,
		},
		{
			name:     "lookups disabled",
			lookup:   func() Lookup { return nil },
			req:      ConfirmationRequest{BookingID: "bk-1"},
			wantCode: commonerrors.ErrCodeValidationFailed,
		},
		{
			name: "not found",
			lookup: func() Lookup {
				m := &mockLookup{}
				m.On("GetBookingDetails", mock.Anything, "bk-x").Return(nil, ErrBookingNotFound)
				return m
			},
			req:      ConfirmationRequest{BookingID: "bk-x"},
			wantCode: commonerrors.ErrCodeBookingNotFound,
		},
		{
			name: "lookup failure",
			lookup: func() Lookup {
				m := &mockLookup{}
				m.On("GetBookingDetails", mock.Anything, "bk-1").Return(nil, errors.New("timeout"))
				return m
			},
			req:      ConfirmationRequest{BookingID: "bk-1"},
			wantCode: commonerrors.ErrCodeBookingLookupFailed,
		},
		{
			name:   "invalid inline details",
			lookup: func() Lookup { return nil },
			req: ConfirmationRequest{Booking: &BookingDetails{
				CustomerName:  "Ana",
				CustomerEmail: "not-an-email",
				ActivityTitle: "Kayak",
				Participants:  0,
			}},
			wantCode: commonerrors.ErrCodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &mockMailer{}
			_, err := newTestNotifier(t, tt.lookup(), mailer).SendConfirmation(context.Background(), tt.req)
			require.Error(t, err)

			var stdErr *commonerrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, tt.wantCode, stdErr.Code)
			mailer.AssertNotCalled(t, "SendTransactionalEmail", mock.Anything, mock.Anything)
		})
	}
}
