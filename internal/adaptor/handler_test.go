package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bus-booking/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriteDomainErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation error",
			err:        &entity.ValidationError{Fields: map[string]string{"seat_numbers": "required"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid seats",
			err:        &entity.InvalidSeatError{Seats: []string{"99"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "passenger mismatch",
			err:        &entity.PassengerMismatchError{Reason: "2 passengers for 3 seats"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "seats unavailable",
			err:        &entity.SeatsUnavailableError{Seats: []string{"2", "4"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "already cancelled",
			err:        fmt.Errorf("booking x: %w", entity.ErrAlreadyCancelled),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "payment for cancelled booking",
			err:        fmt.Errorf("order x: %w", entity.ErrBookingAlreadyCancelled),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "order already open",
			err:        fmt.Errorf("booking x: %w", entity.ErrOrderAlreadyOpen),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid signature",
			err:        fmt.Errorf("order x: %w", entity.ErrSignatureInvalid),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not authorized",
			err:        fmt.Errorf("booking x: %w", entity.ErrNotAuthorized),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "not found",
			err:        fmt.Errorf("booking x: %w", entity.ErrNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "concurrent modification",
			err:        fmt.Errorf("booking x: %w", entity.ErrConcurrentModification),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unexpected error",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDomainError(rec, zap.NewNop(), tt.err, "test operation")

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["status"])
		})
	}
}

func TestWriteDomainErrorCarriesOffendingSeats(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, zap.NewNop(), &entity.SeatsUnavailableError{Seats: []string{"2", "4"}}, "create booking")

	var body struct {
		Errors struct {
			Seats []string `json:"seats"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"2", "4"}, body.Errors.Seats)
}
