package api

import (
	"context"
	"net/http"
	"testing"

	"ledger-service-go/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_DecimalBoundsAreExact(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name   string
		amount string
		valid  bool
	}{
		{"one", "1", true},
		{"just above one", "1.00000000000000000001", true},
		{"just below one", "0.99999999999999999999", false},
		{"zero", "0", false},
		{"negative", "-5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := models.TransactionRequest{Receiver: "alice", Amount: decimal.RequireFromString(tt.amount)}
			err := v.Struct(req)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var invalid validator.ValidationErrors
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, "amount", invalid[0].Field())
			assert.Equal(t, "dmin", invalid[0].Tag())
		})
	}
}

func TestValidator_OpeningBalanceMayBeZero(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.Struct(models.CreateAccountRequest{Name: "alice", Balance: decimal.Zero}))
	assert.Error(t, v.Struct(models.CreateAccountRequest{Name: "alice", Balance: decimal.RequireFromString("-0.00000000000000000001")}))
}

func TestAmountBelowOneRejected(t *testing.T) {
	h, mem := newTestAPI(t, map[string]int64{"alice": 10, "bob": 0})

	paths := []struct {
		path string
		body string
	}{
		{"/transaction/deposit", `{"receiver":"alice","amount":0.99999999999999999999}`},
		{"/transaction/withdraw", `{"receiver":"alice","amount":0.99999999999999999999}`},
		{"/transaction/transfer", `{"giver":"alice","receiver":"bob","amount":0.99999999999999999999}`},
	}

	for _, p := range paths {
		t.Run(p.path, func(t *testing.T) {
			env := decodeEnvelope(t, do(t, h, http.MethodPost, p.path, p.body))
			assert.Equal(t, models.StatusValidationFailed, env.Status.Code)
			assert.Contains(t, env.Status.Detail, `"amount"`)
			assert.Contains(t, env.Status.Detail, "dmin=1")
		})
	}

	alice, err := mem.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, alice.Balance.Equal(decimal.NewFromInt(10)))
	bob, err := mem.Get(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, bob.Balance.IsZero())
}
