// Package reconciler keeps a local snapshot cache in step with the ledger
// server. Changes made while the server is unreachable are applied to the
// cache and pushed later as one whole snapshot; the last successful push wins.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/you-humble/stockledger/internal/ledger"
	"github.com/you-humble/stockledger/internal/metrics"
	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/platform/logger"
)

type State string

const (
	StateUnsynced State = "unsynced"
	StateSyncing  State = "syncing"
	StateSynced   State = "synced"
	StateDegraded State = "degraded"
)

var (
	ErrCacheMiss   = errors.New("sync cache miss")
	ErrNotLoggedIn = fmt.Errorf("%w: sync client is not logged in", model.ErrUnauthorized)
)

// Entry is what the cache persists per owner.
type Entry struct {
	Snapshot   model.Snapshot `json:"snapshot"`
	Pending    bool           `json:"pending"`
	LastSync   *time.Time     `json:"lastSync"`
	LastTempID int64          `json:"lastTempId"`
}

type Cache interface {
	// Load returns ErrCacheMiss when nothing is stored for the owner.
	Load(ctx context.Context, ownerID int64) (*Entry, error)
	Save(ctx context.Context, ownerID int64, e Entry) error
}

// Locker serializes flushes of several processes sharing one cache.
type Locker interface {
	TryLock(ctx context.Context, ownerID int64) (release func(context.Context) error, ok bool, err error)
}

type Remote interface {
	Ping(ctx context.Context) error
	Pull(ctx context.Context) (*model.Snapshot, error)
	Push(ctx context.Context, s model.Snapshot) error

	CreateProduct(ctx context.Context, p model.CreateProductParams) (*model.ProductSummary, error)
	UpdateProduct(ctx context.Context, p model.UpdateProductParams) (*model.ProductSummary, error)
	DeleteProduct(ctx context.Context, id int64) error
	CreateOperation(ctx context.Context, p model.CreateOperationParams) (*model.OperationView, error)
	DeleteOperation(ctx context.Context, id int64) error
	UpdateReservation(ctx context.Context, p model.UpdateReservationParams) (*model.ReservationView, error)
	CreateReminder(ctx context.Context, p model.CreateReminderParams) (*model.Reminder, error)
	UpdateReminder(ctx context.Context, p model.UpdateReminderParams) (*model.Reminder, error)
}

type Status struct {
	State    State      `json:"state"`
	OwnerID  int64      `json:"ownerId"`
	Pending  bool       `json:"pending"`
	LastSync *time.Time `json:"lastSync"`
}

type Reconciler struct {
	remote   Remote
	cache    Cache
	locker   Locker
	timeout  time.Duration
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	state   State
	ownerID int64
	entry   Entry
	// version changes with every write to entry.Snapshot.
	version uint64

	flushing atomic.Bool
}

type Option func(*Reconciler)

func WithLocker(l Locker) Option {
	return func(r *Reconciler) { r.locker = l }
}

func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// New builds a reconciler. timeout bounds every remote call and interval is
// the period of the background flush.
func New(remote Remote, cache Cache, timeout, interval time.Duration, opts ...Option) *Reconciler {
	r := &Reconciler{
		remote:   remote,
		cache:    cache,
		timeout:  timeout,
		interval: interval,
		now:      time.Now,
		state:    StateUnsynced,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Login binds the reconciler to ownerID and pulls the server snapshot. When
// the server cannot be reached the cached snapshot is used instead and the
// reconciler is left Degraded; only a rejected credential fails the login.
func (r *Reconciler) Login(ctx context.Context, ownerID int64) error {
	const op string = "reconciler.Login"

	log := logger.With(logger.Int64("owner_id", ownerID))

	cached, err := r.cache.Load(ctx, ownerID)
	switch {
	case errors.Is(err, ErrCacheMiss):
		cached = &Entry{Snapshot: emptySnapshot()}
	case err != nil:
		log.Error(ctx, "load sync cache", logger.ErrorF(err))
		cached = &Entry{Snapshot: emptySnapshot()}
	}

	r.mu.Lock()
	r.ownerID = ownerID
	r.state = StateSyncing
	r.mu.Unlock()

	snap, err := r.pull(ctx)
	if err != nil {
		if errors.Is(err, model.ErrUnauthorized) {
			r.setState(StateUnsynced)
			return fmt.Errorf("%s: %w", op, err)
		}

		log.Warn(ctx, "server unreachable, working from cache",
			logger.Bool("pending", cached.Pending),
			logger.ErrorF(err),
		)

		r.mu.Lock()
		r.entry = *cached
		r.version++
		r.state = StateDegraded
		r.mu.Unlock()
		return nil
	}

	if cached.Pending {
		log.Warn(ctx, "discarding unsynced local changes in favour of the server snapshot")
	}

	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entry = Entry{Snapshot: *snap, LastSync: &now, LastTempID: cached.LastTempID}
	r.version++
	r.state = StateSynced
	r.save(ctx)

	log.Info(ctx, "snapshot pulled",
		logger.Int("products", len(snap.Products)),
		logger.Int("operations", len(snap.Operations)),
	)
	return nil
}

// Resume reopens a cache left pending by an earlier session without pulling,
// so those changes are pushed rather than replaced. With nothing pending it
// is the same as Login.
func (r *Reconciler) Resume(ctx context.Context, ownerID int64) error {
	cached, err := r.cache.Load(ctx, ownerID)
	if err != nil || !cached.Pending {
		return r.Login(ctx, ownerID)
	}

	r.mu.Lock()
	r.ownerID = ownerID
	r.entry = *cached
	r.version++
	r.state = StateDegraded
	r.mu.Unlock()

	logger.Info(ctx, "resuming unsynced local changes", logger.Int64("owner_id", ownerID))
	return nil
}

// Refresh replaces the cache with the server snapshot. It is skipped while
// local changes wait to be pushed.
func (r *Reconciler) Refresh(ctx context.Context) error {
	const op string = "reconciler.Refresh"

	r.mu.Lock()
	if r.state == StateUnsynced {
		r.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrNotLoggedIn)
	}
	if r.entry.Pending {
		r.mu.Unlock()
		return nil
	}
	version := r.version
	r.mu.Unlock()

	snap, err := r.pull(ctx)
	if err != nil {
		r.degrade(ctx, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = StateSynced
	if r.version != version {
		// A local change landed during the pull; it will be pushed instead.
		return nil
	}
	r.entry.Snapshot = *snap
	r.entry.LastSync = &now
	r.version++
	r.save(ctx)

	return nil
}

// Flush pushes the pending snapshot. A call made while another flush is
// running returns nil at once.
func (r *Reconciler) Flush(ctx context.Context) error {
	const op string = "reconciler.Flush"

	if !r.flushing.CompareAndSwap(false, true) {
		return nil
	}
	defer r.flushing.Store(false)

	r.mu.Lock()
	if r.state == StateUnsynced || !r.entry.Pending {
		r.mu.Unlock()
		return nil
	}
	snap := r.entry.Snapshot
	version := r.version
	ownerID := r.ownerID
	r.state = StateSyncing
	r.mu.Unlock()

	if r.locker != nil {
		release, ok, err := r.locker.TryLock(ctx, ownerID)
		if err != nil {
			r.degrade(ctx, err)
			return fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			logger.Debug(ctx, "flush held by another process", logger.Int64("owner_id", ownerID))
			r.setState(StateDegraded)
			return nil
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn(ctx, "release flush lock", logger.ErrorF(err))
			}
		}()
	}

	pctx, cancel := context.WithTimeout(ctx, r.timeout)
	err := r.remote.Push(pctx, snap)
	cancel()
	if err != nil {
		metrics.SyncFlushes.WithLabelValues("failed").Inc()
		r.degrade(ctx, err)
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.SyncFlushes.WithLabelValues("ok").Inc()

	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.version == version {
		r.entry.Pending = false
	}
	r.entry.LastSync = &now
	r.state = StateSynced
	r.save(ctx)

	logger.Info(ctx, "snapshot pushed",
		logger.Int64("owner_id", ownerID),
		logger.Bool("still_pending", r.entry.Pending),
	)
	return nil
}

// Run flushes pending changes every interval and, when nothing is pending,
// retries the server while degraded. It returns when ctx is done.
func (r *Reconciler) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Reconciler) tick(ctx context.Context) {
	st := r.Status()
	switch {
	case st.State == StateUnsynced:
	case st.Pending:
		if err := r.Flush(ctx); err != nil {
			logger.Warn(ctx, "background flush", logger.ErrorF(err))
		}
	case st.State == StateDegraded:
		if err := r.Refresh(ctx); err != nil {
			logger.Debug(ctx, "background refresh", logger.ErrorF(err))
		}
	}
}

func (r *Reconciler) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Status{
		State:    r.state,
		OwnerID:  r.ownerID,
		Pending:  r.entry.Pending,
		LastSync: r.entry.LastSync,
	}
}

// Snapshot returns a copy of the cached snapshot with reservation expiry
// projected at the current time.
func (r *Reconciler) Snapshot() model.Snapshot {
	r.mu.Lock()
	s := clone(r.entry.Snapshot)
	r.mu.Unlock()

	now := r.now()
	for i := range s.Reservations {
		s.Reservations[i].EffectiveStatus = s.Reservations[i].Reservation.EffectiveStatus(now)
	}
	for i := range s.Operations {
		if rv := s.Operations[i].Reservation; rv != nil {
			projected := *rv
			projected.EffectiveStatus = rv.Reservation.EffectiveStatus(now)
			s.Operations[i].Reservation = &projected
		}
	}
	return s
}

func (r *Reconciler) Products() []model.ProductSummary {
	return r.Snapshot().Products
}

func (r *Reconciler) Operations() []model.OperationView {
	return r.Snapshot().Operations
}

func (r *Reconciler) Reservations() []model.ReservationView {
	return r.Snapshot().Reservations
}

func (r *Reconciler) Bundles() []model.Bundle {
	return r.Snapshot().Bundles
}

// Reminders are ordered open first, then by due date.
func (r *Reconciler) Reminders() []model.Reminder {
	out := r.Snapshot().Reminders
	slices.SortStableFunc(out, func(a, b model.Reminder) int {
		if a.Done != b.Done {
			if a.Done {
				return 1
			}
			return -1
		}
		return a.DueAt.Compare(b.DueAt)
	})
	return out
}

func (r *Reconciler) Dashboard() model.Dashboard {
	s := r.Snapshot()
	return ledger.BuildDashboard(s.Products, operationsOf(s.Operations))
}

func (r *Reconciler) pull(ctx context.Context) (*model.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	snap, err := r.remote.Pull(ctx)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *Reconciler) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Reconciler) degrade(ctx context.Context, cause error) {
	r.mu.Lock()
	r.state = StateDegraded
	ownerID := r.ownerID
	r.mu.Unlock()

	logger.Warn(ctx, "sync degraded", logger.Int64("owner_id", ownerID), logger.ErrorF(cause))
}

// save persists the entry. Callers hold r.mu. The in-memory entry stays
// authoritative when the cache write fails.
func (r *Reconciler) save(ctx context.Context) {
	if err := r.cache.Save(ctx, r.ownerID, r.entry); err != nil {
		logger.Error(ctx, "save sync cache", logger.Int64("owner_id", r.ownerID), logger.ErrorF(err))
	}
}

// nextTempID hands out negative ids for rows created offline. Callers hold r.mu.
func (r *Reconciler) nextTempID() int64 {
	id := r.now().UnixMilli()
	if id <= r.entry.LastTempID {
		id = r.entry.LastTempID + 1
	}
	r.entry.LastTempID = id
	return -id
}
