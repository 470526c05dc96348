package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantCode   string
	}{
		{"customer missing", ErrCustomerNotFound, http.StatusNotFound, "Customer not found", KindNotFound},
		{"wrapped product missing", fmt.Errorf("update: %w", ErrProductNotFound), http.StatusNotFound, "Product not found", KindNotFound},
		{"stock", ErrInsufficientStock, http.StatusConflict, "Insufficient stock", KindConflict},
		{"product ordered", fmt.Errorf("delete product: %w", ErrProductHasOrders), http.StatusConflict, "Product has orders", KindConflict},
		{"email taken", ErrEmailTaken, http.StatusConflict, "Email address already in use", KindConflict},
		{"quantity", ErrInvalidQuantity, http.StatusBadRequest, ErrInvalidQuantity.Error(), KindValidation},
		{"unknown", errors.New("dial tcp 10.0.0.1:3306: i/o timeout"), http.StatusInternalServerError, MsgInternal, KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestErrorResponse_JSONShape(t *testing.T) {
	body, err := json.Marshal(NewHTTPError(http.StatusUnauthorized, MsgUnauthorized, KindAuthentication).ToErrorResponse())
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, string(body))

	body, err = json.Marshal(ErrorResponse{Error: "All fields are required", Missing: map[string]bool{"password": true}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"All fields are required","missing":{"password":true}}`, string(body))
}
