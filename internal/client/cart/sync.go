package cart

import (
	"context"
	"log"

	cartdom "flipmart/internal/domain/cart"
	"flipmart/internal/platform/token"
)

// Remote is the server cart surface consumed by the sync adapter.
type Remote interface {
	// FetchCart returns the stored cart for the credential's identity.
	FetchCart(ctx context.Context, credential string) ([]cartdom.Line, error)
	// AddLine adds qty (a delta) to the stored line.
	AddLine(ctx context.Context, credential, productID string, qty int) error
	// SetLine overwrites the stored line with an absolute quantity.
	SetLine(ctx context.Context, credential, productID string, qty int) error
	// RemoveLine deletes the stored line.
	RemoveLine(ctx context.Context, credential, productID string) error
	// ClearCart empties the stored cart for subjectID.
	ClearCart(ctx context.Context, credential, subjectID string) error
}

// Session is the read side of the session manager the syncer needs.
type Session interface {
	Credential() (string, bool)
	Identity() (token.Identity, bool)
}

// Syncer is the best-effort translator from cache mutations into remote
// calls, scoped to the current identity. Every call is fire-and-forget:
// at-most-once, no retry, no rollback; failures go to the log only.
// While anonymous it issues nothing; mutations accumulate locally until
// a future login.
type Syncer struct {
	remote  Remote
	session Session
	cache   *Cache
	logf    func(format string, args ...any)
}

// NewSyncer wires the syncer into the cache's mutation hook. The caller
// additionally registers OnIdentityChange with the session manager so
// reconciliation runs on login.
func NewSyncer(remote Remote, session Session, cache *Cache) *Syncer {
	s := &Syncer{
		remote:  remote,
		session: session,
		cache:   cache,
		logf:    log.Printf,
	}
	cache.OnMutation(s.handleMutation)
	return s
}

// OnIdentityChange is the session subscriber. A transition from
// anonymous to authenticated triggers the one-time reconciliation merge.
func (s *Syncer) OnIdentityChange(prev, cur *token.Identity) {
	if prev == nil && cur != nil {
		s.Reconcile()
	}
}

// Reconcile fetches the remote cart and merges it into the local cache:
// shared product ids sum, remote-only lines are adopted, local-only
// lines are preserved. The merged result is persisted locally but NOT
// pushed back to the server here; that happens through the normal
// mutation path, or via an explicit Flush.
func (s *Syncer) Reconcile() {
	credential, ok := s.session.Credential()
	if !ok {
		return
	}

	remote, err := s.remote.FetchCart(context.Background(), credential)
	if err != nil {
		s.logf("[cart_sync] reconcile fetch failed: %v", err)
		return
	}
	s.cache.Merge(remote)
}

// Flush pushes the full local cart to the server as absolute quantities.
// Never invoked automatically; offered for callers that want the merged
// state persisted remotely without waiting for the next user mutation.
func (s *Syncer) Flush() {
	credential, ok := s.session.Credential()
	if !ok {
		return
	}
	for _, l := range s.cache.Lines() {
		if err := s.remote.SetLine(context.Background(), credential, l.ProductID, l.Quantity); err != nil {
			s.logf("[cart_sync] flush %s failed: %v", l.ProductID, err)
		}
	}
}

// handleMutation issues exactly one remote call per cache mutation when
// an identity is present. It already runs on the cache's async dispatch,
// so remote latency never blocks the mutating caller.
func (s *Syncer) handleMutation(m Mutation) {
	credential, ok := s.session.Credential()
	if !ok {
		return
	}

	ctx := context.Background()
	var err error
	switch m.Op {
	case OpAdd:
		err = s.remote.AddLine(ctx, credential, m.ProductID, m.Quantity)
	case OpSet:
		err = s.remote.SetLine(ctx, credential, m.ProductID, m.Quantity)
	case OpRemove:
		err = s.remote.RemoveLine(ctx, credential, m.ProductID)
	case OpClear:
		ident, ok := s.session.Identity()
		if !ok {
			return
		}
		err = s.remote.ClearCart(ctx, credential, ident.SubjectID)
	}
	if err != nil {
		s.logf("[cart_sync] %s sync failed: %v (local state kept)", m.ProductID, err)
	}
}
