package storeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestListCart(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cart/42", r.URL.Path)
		json.NewEncoder(w).Encode([]CartRow{
			{ID: 1, UserID: 42, SolutionID: 7, Amount: 2},
		})
	}))

	rows, err := client.ListCart(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].SolutionID)
	assert.Equal(t, 2, rows[0].Amount)
}

func TestCreateCartItem(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cart", r.URL.Path)

		var req CreateCartItemRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(7), req.SolutionID)
		assert.Equal(t, 1, req.Amount)

		json.NewEncoder(w).Encode(CartRow{
			ID:         101,
			UserID:     req.UserID,
			SolutionID: req.SolutionID,
			Amount:     req.Amount,
		})
	}))

	row, err := client.CreateCartItem(context.Background(), CreateCartItemRequest{
		UserID:     42,
		SolutionID: 7,
		Amount:     1,
		Status:     true,
		Delivery:   "pending",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(101), row.ID)
}

func TestUpdateCartItemAmount(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/cart/101", r.URL.Path)

		var req UpdateCartItemRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 3, req.Amount)

		json.NewEncoder(w).Encode(CartRow{ID: 101, Amount: req.Amount})
	}))

	row, err := client.UpdateCartItemAmount(context.Background(), 101, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, row.Amount)
}

func TestGetSolution_DecodesPriceAsNumber(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/solution/7", r.URL.Path)
		w.Write([]byte(`{"id":7,"title":"X","price":10.5,"inventory":3}`))
	}))

	solution, err := client.GetSolution(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, solution.Price.Equal(decimal.RequireFromString("10.5")))
}

func TestMe(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/meauth", r.URL.Path)
		json.NewEncoder(w).Encode(User{ID: 42, Name: "Maria"})
	}))

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"bad request", http.StatusBadRequest, ErrInvalidRequest},
		{"server error", http.StatusInternalServerError, ErrRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]string{"message": "upstream says no"})
			}))

			_, err := client.Me(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, err := NewClient(Config{BaseURL: server.URL, Timeout: time.Second})
	require.NoError(t, err)
	server.Close()

	_, err = client.Me(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestWithToken_AttachesBearer(t *testing.T) {
	var got string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(User{ID: 42})
	}))

	_, err := client.WithToken("abc").Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", got)
}

func TestContextToken_TakesPrecedence(t *testing.T) {
	var got string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(User{ID: 42})
	}))

	ctx := ContextWithToken(context.Background(), "from-context")
	_, err := client.WithToken("bound").Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer from-context", got)
}

func TestAnonymousClient_SendsNoAuthorization(t *testing.T) {
	var hadHeader bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadHeader = r.Header["Authorization"]
		json.NewEncoder(w).Encode([]Category{})
	}))

	_, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	assert.False(t, hadHeader)
}
