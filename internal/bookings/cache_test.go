package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"plana-backend/internal/common/logger"
)

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) GetBookingDetails(ctx context.Context, bookingID string) (*BookingDetails, error) {
	args := m.Called(ctx, bookingID)
	if d, ok := args.Get(0).(*BookingDetails); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func sampleBooking() *BookingDetails {
	return &BookingDetails{
		BookingID:     "bk-1",
		CustomerName:  "Ana Pérez",
		CustomerEmail: "ana@example.com",
		ActivityTitle: "Trekking Cerro Catedral",
		GuideName:     "Martín",
		ActivityDate:  time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC),
		Participants:  2,
		TotalPrice:    85000,
		Currency:      "ARS",
		MeetingPoint:  "Base Cerro Catedral",
		Language:      "es",
	}
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCachedRepository_MissThenHit(t *testing.T) {
	mr, rdb := newMiniredis(t)
	lookup := &mockLookup{}
	lookup.On("GetBookingDetails", mock.Anything, "bk-1").Return(sampleBooking(), nil).Once()

	repo := NewCachedRepository(lookup, rdb, time.Minute, logger.NewTestLogger(t))

	first, err := repo.GetBookingDetails(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", first.CustomerEmail)
	assert.True(t, mr.Exists("booking:bk-1"))
	assert.Equal(t, time.Minute, mr.TTL("booking:bk-1"))

	second, err := repo.GetBookingDetails(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, first.ActivityTitle, second.ActivityTitle)
	assert.True(t, first.ActivityDate.Equal(second.ActivityDate))

	lookup.AssertExpectations(t)
}

func TestCachedRepository_DefaultTTL(t *testing.T) {
	mr, rdb := newMiniredis(t)
	lookup := &mockLookup{}
	lookup.On("GetBookingDetails", mock.Anything, "bk-1").Return(sampleBooking(), nil)

	_, err := NewCachedRepository(lookup, rdb, 0, logger.NewNoOpLogger()).GetBookingDetails(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultCacheTTL, mr.TTL("booking:bk-1"))
}

func TestCachedRepository_CorruptEntryRefetched(t *testing.T) {
	mr, rdb := newMiniredis(t)
	require.NoError(t, mr.Set("booking:bk-1", "{not json"))
	lookup := &mockLookup{}
	lookup.On("GetBookingDetails", mock.Anything, "bk-1").Return(sampleBooking(), nil).Once()

	d, err := NewCachedRepository(lookup, rdb, time.Minute, logger.NewNoOpLogger()).GetBookingDetails(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "bk-1", d.BookingID)

	cached, err := mr.Get("booking:bk-1")
	require.NoError(t, err)
	var round BookingDetails
	require.NoError(t, json.Unmarshal([]byte(cached), &round))
	assert.Equal(t, "bk-1", round.BookingID)
}

func TestCachedRepository_NotFoundNotCached(t *testing.T) {
	mr, rdb := newMiniredis(t)
	lookup := &mockLookup{}
	lookup.On("GetBookingDetails", mock.Anything, "missing").Return(nil, ErrBookingNotFound)

	_, err := NewCachedRepository(lookup, rdb, time.Minute, logger.NewNoOpLogger()).GetBookingDetails(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.False(t, mr.Exists("booking:missing"))
}

func TestCachedRepository_RedisErrorsBypassed(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet("booking:bk-1").SetErr(errors.New("redis down"))
	redisMock.CustomMatch(func(expected, actual []interface{}) error {
		return nil
	}).ExpectSet("booking:bk-1", nil, time.Minute).SetErr(errors.New("redis down"))

	lookup := &mockLookup{}
	lookup.On("GetBookingDetails", mock.Anything, "bk-1").Return(sampleBooking(), nil).Once()

	d, err := NewCachedRepository(lookup, rdb, time.Minute, logger.NewTestLogger(t)).GetBookingDetails(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "bk-1", d.BookingID)
	lookup.AssertExpectations(t)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
