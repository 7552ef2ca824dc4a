package ticket

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaantopcuw/NightFlow/internal/pkg/session"
	"github.com/kaantopcuw/NightFlow/pkg/applogger"
	"github.com/kaantopcuw/NightFlow/pkg/errors"
	"github.com/kaantopcuw/NightFlow/pkg/status"
)

// fakeStore backs the fake repositories with an in-memory table set. Each
// transaction token is an opaque *sql.Tx; FindByIDForUpdate takes the
// category's mutex the same way the real repository takes the row lock, and
// CommitTx/Rollback release whatever the transaction holds.
type fakeStore struct {
	mu           sync.Mutex
	categories   map[int64]Category
	tickets      map[int64]Ticket
	nextTicketID int64

	lockMu    sync.Mutex
	catLocks  map[int64]*sync.Mutex
	heldLocks map[*sql.Tx][]*sync.Mutex
}

func newFakeStore(categories ...Category) *fakeStore {
	s := &fakeStore{
		categories: make(map[int64]Category),
		tickets:    make(map[int64]Ticket),
		catLocks:   make(map[int64]*sync.Mutex),
		heldLocks:  make(map[*sql.Tx][]*sync.Mutex),
	}

	for _, c := range categories {
		s.categories[c.ID] = c
	}

	return s
}

func (s *fakeStore) beginTx() *sql.Tx {
	tx := new(sql.Tx)

	s.lockMu.Lock()
	s.heldLocks[tx] = nil
	s.lockMu.Unlock()

	return tx
}

func (s *fakeStore) lockCategory(tx *sql.Tx, categoryID int64) {
	s.lockMu.Lock()
	l, ok := s.catLocks[categoryID]
	if !ok {
		l = &sync.Mutex{}
		s.catLocks[categoryID] = l
	}
	s.lockMu.Unlock()

	l.Lock()

	s.lockMu.Lock()
	s.heldLocks[tx] = append(s.heldLocks[tx], l)
	s.lockMu.Unlock()
}

func (s *fakeStore) endTx(tx *sql.Tx) {
	s.lockMu.Lock()
	held := s.heldLocks[tx]
	delete(s.heldLocks, tx)
	s.lockMu.Unlock()

	for i := len(held) - 1; i >= 0; i-- {
		held[i].Unlock()
	}
}

func internalErr() error {
	return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "storage failure")
}

type fakeCategoryRepo struct {
	store *fakeStore

	mu sync.Mutex
	// remaining UpdateQuantities failures per category, -1 fails forever
	failUpdate map[int64]int
}

func newFakeCategoryRepo(store *fakeStore) *fakeCategoryRepo {
	return &fakeCategoryRepo{store: store, failUpdate: make(map[int64]int)}
}

func (r *fakeCategoryRepo) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.store.beginTx(), nil
}

func (r *fakeCategoryRepo) CommitTx(ctx context.Context, tx *sql.Tx) error {
	r.store.endTx(tx)
	return nil
}

func (r *fakeCategoryRepo) Rollback(ctx context.Context, tx *sql.Tx) error {
	r.store.endTx(tx)
	return nil
}

func (r *fakeCategoryRepo) FindByID(ctx context.Context, ID int64, tx *sql.Tx) (Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.categories[ID]
	if !ok {
		return Category{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "ticket category is not found")
	}

	return c, nil
}

func (r *fakeCategoryRepo) FindByIDForUpdate(ctx context.Context, ID int64, tx *sql.Tx) (Category, error) {
	r.store.lockCategory(tx, ID)
	return r.FindByID(ctx, ID, tx)
}

func (r *fakeCategoryRepo) UpdateQuantities(ctx context.Context, ID int64, c Category, tx *sql.Tx) error {
	r.mu.Lock()
	remaining, ok := r.failUpdate[ID]
	if ok && remaining != 0 {
		if remaining > 0 {
			r.failUpdate[ID] = remaining - 1
		}
		r.mu.Unlock()
		return internalErr()
	}
	r.mu.Unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := r.store.categories[ID]
	stored.SoldQuantity = c.SoldQuantity
	stored.ReservedQuantity = c.ReservedQuantity
	stored.UpdatedAt = c.UpdatedAt
	r.store.categories[ID] = stored

	return nil
}

type fakeTicketRepo struct {
	store *fakeStore

	mu sync.Mutex
	// fires once after a session lookup that runs outside a transaction,
	// before any row lock is held
	afterSessionLookup func()
}

func (r *fakeTicketRepo) SaveMany(ctx context.Context, tickets []Ticket, tx *sql.Tx) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, t := range tickets {
		r.store.nextTicketID++
		t.ID = r.store.nextTicketID
		r.store.tickets[t.ID] = t
	}

	return nil
}

func (r *fakeTicketRepo) FindManyBySessionIDAndStatus(ctx context.Context, sessionID string, ticketStatus TicketStatus, tx *sql.Tx) ([]Ticket, error) {
	r.store.mu.Lock()
	out := make([]Ticket, 0)
	for _, t := range r.store.tickets {
		if t.SessionID != nil && *t.SessionID == sessionID && t.Status == ticketStatus {
			out = append(out, t)
		}
	}
	r.store.mu.Unlock()

	if tx == nil {
		r.mu.Lock()
		hook := r.afterSessionLookup
		r.afterSessionLookup = nil
		r.mu.Unlock()

		if hook != nil {
			hook()
		}
	}

	return out, nil
}

func (r *fakeTicketRepo) FindManyExpiredReservations(ctx context.Context, cutoff time.Time, tx *sql.Tx) ([]Ticket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]Ticket, 0)
	for _, t := range r.store.tickets {
		if t.Status == StatusReserved && t.ReservedAt != nil && t.ReservedAt.Before(cutoff) {
			out = append(out, t)
		}
	}

	return out, nil
}

func (r *fakeTicketRepo) FindManyByUserID(ctx context.Context, userID int64, tx *sql.Tx) ([]Ticket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]Ticket, 0)
	for _, t := range r.store.tickets {
		if t.UserID != nil && *t.UserID == userID {
			out = append(out, t)
		}
	}

	return out, nil
}

func (r *fakeTicketRepo) UpdateManySold(ctx context.Context, IDs []int64, orderID, userID int64, soldAt time.Time, tx *sql.Tx) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range IDs {
		t, ok := r.store.tickets[id]
		if !ok || t.Status != StatusReserved {
			continue
		}

		t.Status = StatusSold
		t.OrderID = &orderID
		t.UserID = &userID
		at := soldAt
		t.SoldAt = &at
		t.SessionID = nil
		r.store.tickets[id] = t
	}

	return nil
}

func (r *fakeTicketRepo) DeleteManyReserved(ctx context.Context, IDs []int64, tx *sql.Tx) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var deleted int64
	for _, id := range IDs {
		t, ok := r.store.tickets[id]
		if !ok || t.Status != StatusReserved {
			continue
		}

		delete(r.store.tickets, id)
		deleted++
	}

	return deleted, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{messages: make(map[string][][]byte)}
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, key string, headers map[string]string, message []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages[topic] = append(p.messages[topic], message)
}

func (p *fakePublisher) Close() {}

func (p *fakePublisher) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages[topic])
}

type fixture struct {
	store        *fakeStore
	categoryRepo *fakeCategoryRepo
	ticketRepo   *fakeTicketRepo
	publisher    *fakePublisher
	useCase      TicketUseCase
}

func newFixture(ttl time.Duration, categories ...Category) *fixture {
	store := newFakeStore(categories...)
	categoryRepo := newFakeCategoryRepo(store)
	ticketRepo := &fakeTicketRepo{store: store}
	publisher := newFakePublisher()

	useCase := NewTicketUseCase(TicketUseCaseProperty{
		Logger:             applogger.GetLogrus(),
		Timeout:            5 * time.Second,
		ReservationTTL:     ttl,
		CategoryRepository: categoryRepo,
		TicketRepository:   ticketRepo,
		Publisher:          publisher,
	})

	return &fixture{
		store:        store,
		categoryRepo: categoryRepo,
		ticketRepo:   ticketRepo,
		publisher:    publisher,
		useCase:      useCase,
	}
}

func (f *fixture) category(t *testing.T, ID int64) Category {
	t.Helper()
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	c, ok := f.store.categories[ID]
	require.True(t, ok)
	return c
}

func (f *fixture) ticketCount() int {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return len(f.store.tickets)
}

func TestReserveTickets(t *testing.T) {
	ttl := 15 * time.Minute

	t.Run("reserves and issues ticket codes", func(t *testing.T) {
		f := newFixture(ttl, Category{ID: 1, EventID: "event-1", TotalQuantity: 10})

		resp, err := f.useCase.ReserveTickets(context.Background(), ReserveTicketsRequest{
			CategoryID: 1,
			Quantity:   3,
			SessionID:  "session-1",
		})
		require.NoError(t, err)

		assert.Equal(t, "session-1", resp.SessionID)
		assert.Equal(t, int64(3), resp.Quantity)
		assert.Len(t, resp.TicketCodes, 3)
		assert.WithinDuration(t, resp.ReservedAt.Add(ttl), resp.ExpiresAt, time.Second)

		c := f.category(t, 1)
		assert.Equal(t, int64(3), c.ReservedQuantity)
		assert.Equal(t, int64(0), c.SoldQuantity)
		assert.Equal(t, 3, f.ticketCount())
	})

	t.Run("rejects when capacity is insufficient", func(t *testing.T) {
		f := newFixture(ttl, Category{ID: 1, TotalQuantity: 2, SoldQuantity: 1})

		_, err := f.useCase.ReserveTickets(context.Background(), ReserveTicketsRequest{
			CategoryID: 1,
			Quantity:   2,
			SessionID:  "session-1",
		})
		require.Error(t, err)

		ae := errors.Destruct(err)
		assert.Equal(t, http.StatusConflict, ae.HTTPStatusCode)

		c := f.category(t, 1)
		assert.Equal(t, int64(0), c.ReservedQuantity)
		assert.Equal(t, 0, f.ticketCount())
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newFixture(ttl)

		_, err := f.useCase.ReserveTickets(context.Background(), ReserveTicketsRequest{
			CategoryID: 99,
			Quantity:   1,
			SessionID:  "session-1",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, errors.Destruct(err).HTTPStatusCode)
	})

	t.Run("retries once on a storage failure", func(t *testing.T) {
		f := newFixture(ttl, Category{ID: 1, TotalQuantity: 5})
		f.categoryRepo.failUpdate[1] = 1

		resp, err := f.useCase.ReserveTickets(context.Background(), ReserveTicketsRequest{
			CategoryID: 1,
			Quantity:   2,
			SessionID:  "session-1",
		})
		require.NoError(t, err)
		assert.Len(t, resp.TicketCodes, 2)

		c := f.category(t, 1)
		assert.Equal(t, int64(2), c.ReservedQuantity)
	})
}

func TestConfirmSale(t *testing.T) {
	ttl := 15 * time.Minute

	t.Run("settles the reservation", func(t *testing.T) {
		f := newFixture(ttl, Category{ID: 1, TotalQuantity: 2})

		_, err := f.useCase.ReserveTickets(context.Background(), ReserveTicketsRequest{
			CategoryID: 1,
			Quantity:   2,
			SessionID:  "session-1",
		})
		require.NoError(t, err)

		resp, err := f.useCase.ConfirmSale(context.Background(), ConfirmSaleRequest{
			SessionID: "session-1",
			OrderID:   501,
			UserID:    42,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Tickets, 2)
		for _, tr := range resp.Tickets {
			assert.Equal(t, string(StatusSold), tr.Status)
		}

		c := f.category(t, 1)
		assert.Equal(t, int64(2), c.SoldQuantity)
		assert.Equal(t, int64(0), c.ReservedQuantity)
		assert.Equal(t, int64(0), c.AvailableQuantity())

		assert.Equal(t, 1, f.publisher.count("ticket-sold"))
	})

	t.Run("unknown or expired session", func(t *testing.T) {
		f := newFixture(ttl, Category{ID: 1, TotalQuantity: 2})

		_, err := f.useCase.ConfirmSale(context.Background(), ConfirmSaleRequest{
			SessionID: "session-ghost",
			OrderID:   501,
			UserID:    42,
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, errors.Destruct(err).HTTPStatusCode)
	})

	t.Run("confirming twice fails the second time", func(t *testing.T) {
		f := newFixture(ttl, Category{ID: 1, TotalQuantity: 2})

		_, err := f.useCase.ReserveTickets(context.Background(), ReserveTicketsRequest{
			CategoryID: 1,
			Quantity:   1,
			SessionID:  "session-1",
		})
		require.NoError(t, err)

		_, err = f.useCase.ConfirmSale(context.Background(), ConfirmSaleRequest{SessionID: "session-1", OrderID: 501, UserID: 42})
		require.NoError(t, err)

		_, err = f.useCase.ConfirmSale(context.Background(), ConfirmSaleRequest{SessionID: "session-1", OrderID: 501, UserID: 42})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, errors.Destruct(err).HTTPStatusCode)
	})

	t.Run("one failing category does not abort the others", func(t *testing.T) {
		f := newFixture(ttl,
			Category{ID: 1, TotalQuantity: 5},
			Category{ID: 2, TotalQuantity: 5},
		)

		for _, categoryID := range []int64{1, 2} {
			_, err := f.useCase.ReserveTickets(context.Background(), ReserveTicketsRequest{
				CategoryID: categoryID,
				Quantity:   2,
				SessionID:  "session-1",
			})
			require.NoError(t, err)
		}

		f.categoryRepo.failUpdate[1] = -1

		resp, err := f.useCase.ConfirmSale(context.Background(), ConfirmSaleRequest{
			SessionID: "session-1",
			OrderID:   501,
			UserID:    42,
		})
		require.NoError(t, err)

		require.Len(t, resp.Tickets, 2)
		for _, tr := range resp.Tickets {
			assert.Equal(t, int64(2), tr.CategoryID)
		}

		// the failed category keeps its reservation
		c := f.category(t, 1)
		assert.Equal(t, int64(0), c.SoldQuantity)
		assert.Equal(t, int64(2), c.ReservedQuantity)

		c = f.category(t, 2)
		assert.Equal(t, int64(2), c.SoldQuantity)
		assert.Equal(t, int64(0), c.ReservedQuantity)
	})

	t.Run("cancel winning the race before the lock yields not found", func(t *testing.T) {
		f := newFixture(ttl, Category{ID: 1, TotalQuantity: 2})

		_, err := f.useCase.ReserveTickets(context.Background(), ReserveTicketsRequest{
			CategoryID: 1,
			Quantity:   2,
			SessionID:  "session-1",
		})
		require.NoError(t, err)

		// a cancel sneaks in after confirm's session lookup but before the
		// category row lock is taken
		f.ticketRepo.afterSessionLookup = func() {
			_, err := f.useCase.CancelReservation(context.Background(), "session-1")
			require.NoError(t, err)
		}

		_, err = f.useCase.ConfirmSale(context.Background(), ConfirmSaleRequest{
			SessionID: "session-1",
			OrderID:   501,
			UserID:    42,
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, errors.Destruct(err).HTTPStatusCode)

		c := f.category(t, 1)
		assert.Equal(t, int64(0), c.SoldQuantity)
		assert.Equal(t, int64(0), c.ReservedQuantity)
		assert.Equal(t, int64(2), c.AvailableQuantity())
		assert.Equal(t, 0, f.ticketCount())
		assert.Equal(t, 0, f.publisher.count("ticket-sold"))
	})

	t.Run("all categories failing is an internal error", func(t *testing.T) {
		f := newFixture(ttl, Category{ID: 1, TotalQuantity: 5})

		_, err := f.useCase.ReserveTickets(context.Background(), ReserveTicketsRequest{
			CategoryID: 1,
			Quantity:   2,
			SessionID:  "session-1",
		})
		require.NoError(t, err)

		f.categoryRepo.failUpdate[1] = -1

		_, err = f.useCase.ConfirmSale(context.Background(), ConfirmSaleRequest{
			SessionID: "session-1",
			OrderID:   501,
			UserID:    42,
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, errors.Destruct(err).HTTPStatusCode)
	})
}

func TestCancelReservation(t *testing.T) {
	ttl := 15 * time.Minute

	t.Run("returns the held units to the pool", func(t *testing.T) {
		f := newFixture(ttl, Category{ID: 1, TotalQuantity: 4})

		_, err := f.useCase.ReserveTickets(context.Background(), ReserveTicketsRequest{
			CategoryID: 1,
			Quantity:   3,
			SessionID:  "session-1",
		})
		require.NoError(t, err)

		resp, err := f.useCase.CancelReservation(context.Background(), "session-1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Released)

		c := f.category(t, 1)
		assert.Equal(t, int64(0), c.ReservedQuantity)
		assert.Equal(t, int64(4), c.AvailableQuantity())
		assert.Equal(t, 0, f.ticketCount())
	})

	t.Run("cancelling an unknown session is a no-op", func(t *testing.T) {
		f := newFixture(ttl, Category{ID: 1, TotalQuantity: 4})

		resp, err := f.useCase.CancelReservation(context.Background(), "session-ghost")
		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.Released)
	})

	t.Run("cancelling after confirm releases nothing", func(t *testing.T) {
		f := newFixture(ttl, Category{ID: 1, TotalQuantity: 4})

		_, err := f.useCase.ReserveTickets(context.Background(), ReserveTicketsRequest{
			CategoryID: 1,
			Quantity:   2,
			SessionID:  "session-1",
		})
		require.NoError(t, err)

		_, err = f.useCase.ConfirmSale(context.Background(), ConfirmSaleRequest{SessionID: "session-1", OrderID: 501, UserID: 42})
		require.NoError(t, err)

		resp, err := f.useCase.CancelReservation(context.Background(), "session-1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.Released)

		c := f.category(t, 1)
		assert.Equal(t, int64(2), c.SoldQuantity)
	})
}

func TestReleaseExpiredReservations(t *testing.T) {
	ttl := 15 * time.Minute

	t.Run("reclaims only reservations past the deadline", func(t *testing.T) {
		f := newFixture(ttl, Category{ID: 1, TotalQuantity: 10, ReservedQuantity: 3})

		old := time.Now().Add(-20 * time.Minute)
		fresh := time.Now().Add(-1 * time.Minute)
		staleSession := "session-stale"
		freshSession := "session-fresh"

		f.store.tickets[1] = Ticket{ID: 1, TicketCode: "code-1", CategoryID: 1, Status: StatusReserved, SessionID: &staleSession, ReservedAt: &old}
		f.store.tickets[2] = Ticket{ID: 2, TicketCode: "code-2", CategoryID: 1, Status: StatusReserved, SessionID: &staleSession, ReservedAt: &old}
		f.store.tickets[3] = Ticket{ID: 3, TicketCode: "code-3", CategoryID: 1, Status: StatusReserved, SessionID: &freshSession, ReservedAt: &fresh}
		f.store.nextTicketID = 3

		require.NoError(t, f.useCase.ReleaseExpiredReservations(context.Background()))

		c := f.category(t, 1)
		assert.Equal(t, int64(1), c.ReservedQuantity)
		assert.Equal(t, 1, f.ticketCount())
		assert.Equal(t, 1, f.publisher.count("ticket-reservation-expired"))
	})

	t.Run("confirm after the sweep reclaimed the hold is not found", func(t *testing.T) {
		f := newFixture(ttl, Category{ID: 1, TotalQuantity: 4})

		_, err := f.useCase.ReserveTickets(context.Background(), ReserveTicketsRequest{
			CategoryID: 1,
			Quantity:   2,
			SessionID:  "session-1",
		})
		require.NoError(t, err)

		// age the reservation past the TTL
		stale := time.Now().Add(-ttl - time.Minute)
		f.store.mu.Lock()
		for id, tk := range f.store.tickets {
			at := stale
			tk.ReservedAt = &at
			f.store.tickets[id] = tk
		}
		f.store.mu.Unlock()

		require.NoError(t, f.useCase.ReleaseExpiredReservations(context.Background()))

		_, err = f.useCase.ConfirmSale(context.Background(), ConfirmSaleRequest{
			SessionID: "session-1",
			OrderID:   501,
			UserID:    42,
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, errors.Destruct(err).HTTPStatusCode)

		c := f.category(t, 1)
		assert.Equal(t, int64(0), c.SoldQuantity)
		assert.Equal(t, int64(0), c.ReservedQuantity)
		assert.Equal(t, int64(4), c.AvailableQuantity())
	})

	t.Run("nothing expired publishes nothing", func(t *testing.T) {
		f := newFixture(ttl, Category{ID: 1, TotalQuantity: 10})

		require.NoError(t, f.useCase.ReleaseExpiredReservations(context.Background()))
		assert.Equal(t, 0, f.publisher.count("ticket-reservation-expired"))
	})
}

func TestGetAvailability(t *testing.T) {
	f := newFixture(15*time.Minute, Category{ID: 1, TotalQuantity: 10, SoldQuantity: 4, ReservedQuantity: 2})

	resp, err := f.useCase.GetAvailability(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.Total)
	assert.Equal(t, int64(4), resp.Sold)
	assert.Equal(t, int64(2), resp.Reserved)
	assert.Equal(t, int64(4), resp.Available)

	_, err = f.useCase.GetAvailability(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errors.Destruct(err).HTTPStatusCode)
}

func TestGetMyTickets(t *testing.T) {
	f := newFixture(15*time.Minute, Category{ID: 1, TotalQuantity: 10})

	_, err := f.useCase.ReserveTickets(context.Background(), ReserveTicketsRequest{
		CategoryID: 1,
		Quantity:   2,
		SessionID:  "session-1",
	})
	require.NoError(t, err)

	_, err = f.useCase.ConfirmSale(context.Background(), ConfirmSaleRequest{SessionID: "session-1", OrderID: 501, UserID: 42})
	require.NoError(t, err)

	ctx := session.SetAccountToCtx(context.Background(), session.Account{ID: 42, Role: "CUSTOMER"})

	resp, err := f.useCase.GetMyTickets(ctx)
	require.NoError(t, err)
	assert.Len(t, resp.Tickets, 2)

	_, err = f.useCase.GetMyTickets(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, errors.Destruct(err).HTTPStatusCode)
}

func TestConcurrentReserveDoesNotOversell(t *testing.T) {
	f := newFixture(15*time.Minute, Category{ID: 1, TotalQuantity: 10})

	const attempts = 20

	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.useCase.ReserveTickets(context.Background(), ReserveTicketsRequest{
				CategoryID: 1,
				Quantity:   1,
				SessionID:  fmt.Sprintf("session-%d", i),
			})
			results[i] = err
		}(i)
	}

	wg.Wait()

	var succeeded int
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, http.StatusConflict, errors.Destruct(err).HTTPStatusCode)
		}
	}

	assert.Equal(t, 10, succeeded)

	c := f.category(t, 1)
	assert.Equal(t, int64(10), c.ReservedQuantity)
	assert.Equal(t, int64(0), c.AvailableQuantity())
	assert.Equal(t, 10, f.ticketCount())
}
