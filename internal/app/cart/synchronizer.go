package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/saascom/storefront-gateway/internal/app/model"
	"github.com/saascom/storefront-gateway/pkg/logger"
	"github.com/saascom/storefront-gateway/pkg/storeapi"
)

var (
	ErrLineNotFound = errors.New("cart line not found")

	// ErrIncrementOutsideCartView is returned under the cart-view policy when
	// an add for a product already in the cart arrives from another view.
	ErrIncrementOutsideCartView = errors.New("increment through add is restricted to the cart view")
)

// Synchronizer keeps one user's in-memory cart mirror consistent with the
// remote cart service. Every user intent mutates the mirror first and then
// propagates to the backend; completions of overlapping remote calls are
// applied against the latest state, never against the snapshot captured at
// invocation time.
type Synchronizer struct {
	userID int64
	policy Policy

	mu       sync.Mutex
	api      CartAPI
	joiner   *Joiner
	lines    []model.CartLine
	loading  bool
	loadSeq  uint64
	touched  map[int64]struct{} // productIDs mutated since the current load began
	creating map[int64]struct{} // productIDs with a create request in flight
	lastUsed time.Time
}

// NewSynchronizer creates an empty mirror for the given user
func NewSynchronizer(userID int64, api CartAPI, joiner *Joiner, policy Policy) *Synchronizer {
	return &Synchronizer{
		userID:   userID,
		policy:   policy,
		api:      api,
		joiner:   joiner,
		touched:  make(map[int64]struct{}),
		creating: make(map[int64]struct{}),
		lastUsed: time.Now(),
	}
}

// Bind refreshes the upstream bindings with the caller's current credentials
func (s *Synchronizer) Bind(api CartAPI, joiner *Joiner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = api
	s.joiner = joiner
}

// Snapshot returns a copy of the current cart state
func (s *Synchronizer) Snapshot() model.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()

	lines := make([]model.CartLine, len(s.lines))
	copy(lines, s.lines)
	return model.CartState{
		Lines:      lines,
		GrandTotal: model.GrandTotal(lines),
		IsLoading:  s.loading,
	}
}

// LastUsed reports when the mirror was last read or mutated
func (s *Synchronizer) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Load fetches the user's remote cart rows, joins them with catalog data and
// replaces the mirror. A Load started while another is in flight supersedes
// it: the older result is discarded on arrival. Lines mutated while the load
// was in flight keep their local state. On failure the mirror is left as it
// was, beyond clearing the loading flag.
func (s *Synchronizer) Load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.loadSeq++
	seq := s.loadSeq
	s.touched = make(map[int64]struct{})
	api, joiner := s.api, s.joiner
	s.mu.Unlock()

	rows, err := api.ListCart(ctx, s.userID)
	if err != nil {
		logger.Error("Failed to load remote cart", err, map[string]interface{}{
			"user_id": s.userID,
		})
		s.mu.Lock()
		if seq == s.loadSeq {
			s.loading = false
		}
		s.mu.Unlock()
		return
	}

	lines := joiner.Join(ctx, rows)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.loadSeq {
		// Superseded by a newer load or an authoritative replace.
		return
	}
	s.loading = false

	// A line is shielded from the fetched snapshot when it moved while the
	// load was in flight, or when its create request has not settled yet;
	// the settle step owns convergence for those.
	shielded := func(productID int64) bool {
		if _, dirty := s.touched[productID]; dirty {
			return true
		}
		_, inFlight := s.creating[productID]
		return inFlight
	}

	merged := make([]model.CartLine, 0, len(lines))
	for _, line := range lines {
		if shielded(line.ProductID) {
			// The local state is newer than the fetched row. A locally
			// removed line stays removed.
			if idx := indexOfProduct(s.lines, line.ProductID); idx >= 0 {
				merged = append(merged, s.lines[idx])
			}
			continue
		}
		merged = append(merged, line)
	}
	// Lines added locally while the load was in flight.
	for _, current := range s.lines {
		if !shielded(current.ProductID) {
			continue
		}
		if indexOfProduct(merged, current.ProductID) < 0 {
			merged = append(merged, current)
		}
	}
	s.lines = merged
	s.touched = make(map[int64]struct{})

	logger.Info("Cart loaded", map[string]interface{}{
		"user_id": s.userID,
		"lines":   len(merged),
	})
}

// AddItem puts a product in the cart. If a line for the product already
// exists the call increments it, subject to the increment-via-add policy.
// Otherwise a provisional line with quantity 1 is inserted and a create
// request is issued; the server-assigned id is patched in when it resolves.
// A duplicate add racing an unresolved create merges into the provisional
// line instead of issuing a second create.
func (s *Synchronizer) AddItem(ctx context.Context, product model.Product, fromCartView bool) error {
	s.mu.Lock()
	s.lastUsed = time.Now()

	if idx := indexOfProduct(s.lines, product.ID); idx >= 0 {
		if s.policy.IncrementViaAdd == ScopeCartView && !fromCartView {
			s.mu.Unlock()
			return ErrIncrementOutsideCartView
		}

		prevLine := s.lines[idx]
		s.lines[idx].Quantity++
		s.lines[idx].Recompute()
		s.touched[product.ID] = struct{}{}

		if _, inFlight := s.creating[product.ID]; inFlight {
			// The create for this product has not resolved yet; its settle
			// step pushes the merged quantity once the server id is known.
			s.mu.Unlock()
			return nil
		}
		s.mu.Unlock()
		return s.pushQuantity(ctx, product.ID, &prevLine)
	}

	line := model.CartLine{
		ProductID:   product.ID,
		Title:       product.Title,
		Description: product.Description,
		CoverURL:    product.Cover,
		UnitPrice:   product.Price,
		Quantity:    1,
	}
	line.Recompute()
	s.lines = append(s.lines, line)
	s.touched[product.ID] = struct{}{}
	s.creating[product.ID] = struct{}{}
	api := s.api
	s.mu.Unlock()

	row, err := api.CreateCartItem(ctx, storeapi.CreateCartItemRequest{
		UserID:     s.userID,
		SolutionID: product.ID,
		Amount:     1,
		Status:     true,
		Delivery:   "pending",
	})

	s.mu.Lock()
	delete(s.creating, product.ID)
	if err != nil {
		s.mu.Unlock()
		// The line did not exist before this add; rollback removes it.
		return s.reconcile(product.ID, nil, err)
	}

	idx := indexOfProduct(s.lines, product.ID)
	if idx < 0 {
		// Removed locally before the create resolved; converge by deleting
		// the row the server just made.
		s.mu.Unlock()
		if delErr := api.DeleteCartItem(ctx, row.ID); delErr != nil {
			logger.Error("Failed to delete orphaned cart row", delErr, map[string]interface{}{
				"user_id":     s.userID,
				"cart_row_id": row.ID,
			})
		}
		return nil
	}

	s.lines[idx].LineID = row.ID
	settled := s.lines[idx].Quantity
	// The server row holds quantity 1 until the merged quantity is pushed.
	settledLine := s.lines[idx]
	settledLine.Quantity = 1
	settledLine.Recompute()
	s.mu.Unlock()

	if settled > 1 {
		// Duplicate adds merged while the create was in flight.
		return s.pushQuantity(ctx, product.ID, &settledLine)
	}
	return nil
}

// IncrementItem raises a line's quantity by one and mirrors it remotely
func (s *Synchronizer) IncrementItem(ctx context.Context, productID int64) error {
	s.mu.Lock()
	s.lastUsed = time.Now()
	idx := indexOfProduct(s.lines, productID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrLineNotFound
	}
	prevLine := s.lines[idx]
	s.lines[idx].Quantity++
	s.lines[idx].Recompute()
	s.touched[productID] = struct{}{}
	s.mu.Unlock()

	return s.pushQuantity(ctx, productID, &prevLine)
}

// DecrementItem lowers a line's quantity by one. At quantity 1 the line is
// removed outright and a delete is issued instead of an update with zero.
func (s *Synchronizer) DecrementItem(ctx context.Context, productID int64) error {
	s.mu.Lock()
	s.lastUsed = time.Now()
	idx := indexOfProduct(s.lines, productID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrLineNotFound
	}
	prevLine := s.lines[idx]

	if s.lines[idx].Quantity > 1 {
		s.lines[idx].Quantity--
		s.lines[idx].Recompute()
		s.touched[productID] = struct{}{}
		s.mu.Unlock()
		return s.pushQuantity(ctx, productID, &prevLine)
	}

	lineID := s.lines[idx].LineID
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	s.touched[productID] = struct{}{}
	api := s.api
	s.mu.Unlock()

	if lineID == 0 {
		// Create still in flight; its settle step deletes the server row.
		return nil
	}
	if err := api.DeleteCartItem(ctx, lineID); err != nil {
		return s.reconcile(productID, &prevLine, err)
	}
	return nil
}

// RemoveItem deletes a line unconditionally. Interactive confirmation is
// owned by the caller; by the time this runs the decision has been made.
func (s *Synchronizer) RemoveItem(ctx context.Context, lineID int64) error {
	s.mu.Lock()
	s.lastUsed = time.Now()
	idx := -1
	for i := range s.lines {
		if s.lines[i].LineID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrLineNotFound
	}
	prevLine := s.lines[idx]
	s.touched[prevLine.ProductID] = struct{}{}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	api := s.api
	s.mu.Unlock()

	if err := api.DeleteCartItem(ctx, lineID); err != nil {
		return s.reconcile(prevLine.ProductID, &prevLine, err)
	}
	return nil
}

// ReplaceAll swaps in an authoritative set of lines pushed back by the
// presentation layer after a bespoke remote update. Any load in flight is
// invalidated.
func (s *Synchronizer) ReplaceAll(lines []model.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()

	replaced := make([]model.CartLine, len(lines))
	copy(replaced, lines)
	for i := range replaced {
		replaced[i].Recompute()
	}
	s.lines = replaced
	s.loadSeq++
	s.loading = false
	s.touched = make(map[int64]struct{})
}

// Clear empties the mirror. Called when the session identity is lost.
func (s *Synchronizer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.loadSeq++
	s.loading = false
	s.touched = make(map[int64]struct{})
	s.creating = make(map[int64]struct{})
}

// pushQuantity mirrors a line's quantity to the backend. The amount is read
// from the latest state at push time, not from the state the triggering
// mutation saw.
func (s *Synchronizer) pushQuantity(ctx context.Context, productID int64, prevLine *model.CartLine) error {
	s.mu.Lock()
	idx := indexOfProduct(s.lines, productID)
	if idx < 0 {
		// Removed before the push fired; the removal path owns convergence.
		s.mu.Unlock()
		return nil
	}
	lineID := s.lines[idx].LineID
	amount := s.lines[idx].Quantity
	api := s.api
	s.mu.Unlock()

	if lineID == 0 {
		// Provisional line; the create settle pushes the final quantity.
		return nil
	}
	if _, err := api.UpdateCartItemAmount(ctx, lineID, amount); err != nil {
		return s.reconcile(productID, prevLine, err)
	}
	return nil
}

// reconcile applies the configured mutation-failure strategy and surfaces the
// remote error to the caller. Rollback is scoped to the affected line:
// prevLine is its pre-mutation state, nil when the line did not exist, so
// concurrent mutations on other lines are left alone.
func (s *Synchronizer) reconcile(productID int64, prevLine *model.CartLine, cause error) error {
	logger.Warn("Remote cart mutation failed, reconciling", map[string]interface{}{
		"user_id":    s.userID,
		"product_id": productID,
		"strategy":   s.policy.OnMutationFailure.String(),
		"error":      cause.Error(),
	})

	switch s.policy.OnMutationFailure {
	case StrategyRollback:
		s.mu.Lock()
		idx := indexOfProduct(s.lines, productID)
		switch {
		case prevLine == nil:
			if idx >= 0 {
				s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
			}
		case idx >= 0:
			s.lines[idx] = *prevLine
		default:
			s.lines = append(s.lines, *prevLine)
		}
		s.touched[productID] = struct{}{}
		s.mu.Unlock()
	case StrategyRefetch:
		go s.Load(context.Background())
	}
	return cause
}

func indexOfProduct(lines []model.CartLine, productID int64) int {
	for i := range lines {
		if lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
