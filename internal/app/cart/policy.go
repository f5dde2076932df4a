package cart

import "github.com/saascom/storefront-gateway/config"

// IncrementScope controls where an AddItem for a product already in the cart
// is allowed to act as an increment. The two historical storefront
// implementations disagreed on this, so it is an explicit switch.
type IncrementScope int

const (
	// ScopeCartView only increments through add when the request originates
	// from the cart view.
	ScopeCartView IncrementScope = iota
	// ScopeAlways increments through add from anywhere.
	ScopeAlways
)

func (s IncrementScope) String() string {
	if s == ScopeAlways {
		return "always"
	}
	return "cart_view"
}

// FailureStrategy picks how the mirror is reconciled after a remote mutation
// fails with the optimistic local mutation already applied.
type FailureStrategy int

const (
	// StrategyRefetch triggers a reconciling reload from the backend.
	StrategyRefetch FailureStrategy = iota
	// StrategyRollback restores the pre-mutation snapshot.
	StrategyRollback
)

func (s FailureStrategy) String() string {
	if s == StrategyRollback {
		return "rollback"
	}
	return "refetch"
}

// Policy bundles the synchronizer behavior switches.
type Policy struct {
	IncrementViaAdd   IncrementScope
	OnMutationFailure FailureStrategy
}

// PolicyFromConfig maps the config strings onto a Policy, falling back to the
// defaults (cart-view scope, refetch) for unknown values.
func PolicyFromConfig(cfg config.CartConfig) Policy {
	policy := Policy{}
	if cfg.IncrementViaAdd == "always" {
		policy.IncrementViaAdd = ScopeAlways
	}
	if cfg.OnMutationFailure == "rollback" {
		policy.OnMutationFailure = StrategyRollback
	}
	return policy
}
