package cart

import (
	"testing"

	"github.com/saascom/storefront-gateway/config"
	"github.com/stretchr/testify/assert"
)

func TestPolicyFromConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.CartConfig
		want Policy
	}{
		{
			"defaults",
			config.CartConfig{},
			Policy{IncrementViaAdd: ScopeCartView, OnMutationFailure: StrategyRefetch},
		},
		{
			"always and rollback",
			config.CartConfig{IncrementViaAdd: "always", OnMutationFailure: "rollback"},
			Policy{IncrementViaAdd: ScopeAlways, OnMutationFailure: StrategyRollback},
		},
		{
			"unknown values fall back to defaults",
			config.CartConfig{IncrementViaAdd: "sometimes", OnMutationFailure: "panic"},
			Policy{IncrementViaAdd: ScopeCartView, OnMutationFailure: StrategyRefetch},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PolicyFromConfig(tt.cfg))
		})
	}
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "cart_view", ScopeCartView.String())
	assert.Equal(t, "always", ScopeAlways.String())
	assert.Equal(t, "refetch", StrategyRefetch.String())
	assert.Equal(t, "rollback", StrategyRollback.String())
}
