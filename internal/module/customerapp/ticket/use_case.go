package ticket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kaantopcuw/NightFlow/internal/pkg/session"
	"github.com/kaantopcuw/NightFlow/internal/pkg/util"
	"github.com/kaantopcuw/NightFlow/pkg/errors"
	"github.com/kaantopcuw/NightFlow/pkg/pubsub"
	"github.com/kaantopcuw/NightFlow/pkg/status"
)

type TicketUseCase interface {
	ReserveTickets(ctx context.Context, req ReserveTicketsRequest) (ReserveTicketsResponse, error)
	ConfirmSale(ctx context.Context, req ConfirmSaleRequest) (ConfirmSaleResponse, error)
	CancelReservation(ctx context.Context, sessionID string) (CancelReservationResponse, error)
	GetAvailability(ctx context.Context, categoryID int64) (AvailabilityResponse, error)
	GetMyTickets(ctx context.Context) (GetMyTicketsResponse, error)
	ReleaseExpiredReservations(ctx context.Context) error
}

type ticketUseCase struct {
	logger             *logrus.Logger
	timeout            time.Duration
	reservationTTL     time.Duration
	categoryRepository CategoryRepository
	ticketRepository   TicketRepository
	publisher          pubsub.Publisher
}

type TicketUseCaseProperty struct {
	Logger             *logrus.Logger
	Timeout            time.Duration
	ReservationTTL     time.Duration
	CategoryRepository CategoryRepository
	TicketRepository   TicketRepository
	Publisher          pubsub.Publisher
}

func NewTicketUseCase(props TicketUseCaseProperty) TicketUseCase {
	return &ticketUseCase{
		logger:             props.Logger,
		timeout:            props.Timeout,
		reservationTTL:     props.ReservationTTL,
		categoryRepository: props.CategoryRepository,
		ticketRepository:   props.TicketRepository,
		publisher:          props.Publisher,
	}
}

// retryOnce re-runs fn a single time when the first attempt failed on an
// internal (storage/lock) error. Domain outcomes are never retried.
func retryOnce[T any](fn func() (T, error)) (T, error) {
	out, err := fn()
	if err != nil && errors.IsInternal(err) {
		return fn()
	}

	return out, err
}

// ReserveTickets implements TicketUseCase.
func (u *ticketUseCase) ReserveTickets(ctx context.Context, req ReserveTicketsRequest) (ReserveTicketsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	return retryOnce(func() (ReserveTicketsResponse, error) {
		return u.reserveTickets(ctx, req)
	})
}

func (u *ticketUseCase) reserveTickets(ctx context.Context, req ReserveTicketsRequest) (ReserveTicketsResponse, error) {
	tx, err := u.categoryRepository.BeginTx(ctx)
	if err != nil {
		return ReserveTicketsResponse{}, err
	}

	category, err := u.categoryRepository.FindByIDForUpdate(ctx, req.CategoryID, tx)
	if err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return ReserveTicketsResponse{}, err
	}

	now := time.Now()

	if !category.TryReserve(req.Quantity) {
		u.categoryRepository.Rollback(ctx, tx)
		return ReserveTicketsResponse{}, errors.New(http.StatusConflict, status.CONFLICT,
			fmt.Sprintf("insufficient capacity. available: %d", category.AvailableQuantity()))
	}

	category.UpdatedAt = now
	if err := u.categoryRepository.UpdateQuantities(ctx, category.ID, category, tx); err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return ReserveTicketsResponse{}, err
	}

	sessionID := req.SessionID
	tickets := make([]Ticket, 0, req.Quantity)
	for i := int64(0); i < req.Quantity; i++ {
		tickets = append(tickets, Ticket{
			TicketCode: util.GenerateTicketCode(),
			CategoryID: category.ID,
			Status:     StatusReserved,
			SessionID:  &sessionID,
			ReservedAt: &now,
			CreatedAt:  now,
		})
	}

	if err := u.ticketRepository.SaveMany(ctx, tickets, tx); err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return ReserveTicketsResponse{}, err
	}

	if err := u.categoryRepository.CommitTx(ctx, tx); err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return ReserveTicketsResponse{}, err
	}

	codes := make([]string, 0, len(tickets))
	for _, t := range tickets {
		codes = append(codes, t.TicketCode)
	}

	return ReserveTicketsResponse{
		SessionID:   req.SessionID,
		CategoryID:  category.ID,
		Quantity:    req.Quantity,
		TicketCodes: codes,
		ReservedAt:  now,
		ExpiresAt:   now.Add(u.reservationTTL),
	}, nil
}

// ConfirmSale implements TicketUseCase. Each category settles in its own
// transaction; one category's failure never aborts the others. The response
// lists exactly the tickets that were settled so the caller can detect a
// partial settlement and compensate.
func (u *ticketUseCase) ConfirmSale(ctx context.Context, req ConfirmSaleRequest) (ConfirmSaleResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	reserved, err := u.ticketRepository.FindManyBySessionIDAndStatus(ctx, req.SessionID, StatusReserved, nil)
	if err != nil {
		return ConfirmSaleResponse{}, err
	}

	if len(reserved) == 0 {
		return ConfirmSaleResponse{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "reservation is not found or has expired")
	}

	now := time.Now()
	settled := make([]Ticket, 0, len(reserved))
	var failures int

	for _, categoryID := range sortedCategoryIDs(reserved) {
		sold, err := retryOnce(func() ([]Ticket, error) {
			return u.settleCategory(ctx, categoryID, req.SessionID, req.OrderID, req.UserID, now)
		})
		if err != nil {
			u.logger.WithContext(ctx).WithError(err).WithField("category_id", categoryID).Error("failed to settle category's reserved tickets")
			failures++
			continue
		}

		settled = append(settled, sold...)
	}

	if len(settled) == 0 {
		if failures > 0 {
			return ConfirmSaleResponse{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while confirming the sale")
		}

		// A concurrent cancel or sweep drained the hold between the lookup
		// and the row locks.
		return ConfirmSaleResponse{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "reservation is not found or has expired")
	}

	event := TicketSoldEvent{
		SessionID: req.SessionID,
		OrderID:   req.OrderID,
		UserID:    req.UserID,
		SoldAt:    now,
	}
	for _, t := range settled {
		event.Tickets = append(event.Tickets, SoldTicket{
			TicketCode: t.TicketCode,
			CategoryID: t.CategoryID,
		})
	}
	eventBuff, _ := json.Marshal(event)
	u.publisher.Publish(ctx, "ticket-sold", req.SessionID, nil, eventBuff)

	resp := ConfirmSaleResponse{}
	resp.PopulateFromEntities(settled)

	return resp, nil
}

func (u *ticketUseCase) settleCategory(ctx context.Context, categoryID int64, sessionID string, orderID, userID int64, now time.Time) ([]Ticket, error) {
	tx, err := u.categoryRepository.BeginTx(ctx)
	if err != nil {
		return nil, err
	}

	category, err := u.categoryRepository.FindByIDForUpdate(ctx, categoryID, tx)
	if err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return nil, err
	}

	// The pre-lock lookup is only a routing hint; a concurrent cancel or sweep
	// may have drained the hold before the row lock was taken. Only rows still
	// RESERVED under the lock settle, so the ledger never counts a ticket
	// whose row is gone.
	held, err := u.ticketRepository.FindManyBySessionIDAndStatus(ctx, sessionID, StatusReserved, tx)
	if err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return nil, err
	}

	group := ticketsOfCategory(held, categoryID)
	if len(group) == 0 {
		u.categoryRepository.Rollback(ctx, tx)
		return nil, nil
	}

	qty := int64(len(group))
	if !category.CommitSale(qty) {
		u.logger.WithContext(ctx).WithFields(logrus.Fields{
			"category_id": categoryID,
			"quantity":    qty,
		}).Warn("reserved quantity inconsistency detected while committing sale, clamped to zero")
	}

	category.UpdatedAt = now
	if err := u.categoryRepository.UpdateQuantities(ctx, category.ID, category, tx); err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return nil, err
	}

	ids := make([]int64, 0, len(group))
	for _, t := range group {
		ids = append(ids, t.ID)
	}

	if err := u.ticketRepository.UpdateManySold(ctx, ids, orderID, userID, now, tx); err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return nil, err
	}

	if err := u.categoryRepository.CommitTx(ctx, tx); err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return nil, err
	}

	sold := make([]Ticket, 0, len(group))
	for _, t := range group {
		t.Status = StatusSold
		t.OrderID = &orderID
		t.UserID = &userID
		soldAt := now
		t.SoldAt = &soldAt
		t.SessionID = nil
		sold = append(sold, t)
	}

	return sold, nil
}

// CancelReservation implements TicketUseCase. Cancelling a session that holds
// nothing is not an error; the caller simply gets a released count of zero.
func (u *ticketUseCase) CancelReservation(ctx context.Context, sessionID string) (CancelReservationResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	reserved, err := u.ticketRepository.FindManyBySessionIDAndStatus(ctx, sessionID, StatusReserved, nil)
	if err != nil {
		return CancelReservationResponse{}, err
	}

	if len(reserved) == 0 {
		return CancelReservationResponse{SessionID: sessionID, Released: 0}, nil
	}

	var released int64
	for _, categoryID := range sortedCategoryIDs(reserved) {
		group := ticketsOfCategory(reserved, categoryID)

		count, err := retryOnce(func() (int64, error) {
			return u.releaseCategory(ctx, categoryID, group)
		})
		if err != nil {
			u.logger.WithContext(ctx).WithError(err).WithField("category_id", categoryID).Error("failed to release category's reserved tickets")
			continue
		}

		released += count
	}

	return CancelReservationResponse{SessionID: sessionID, Released: released}, nil
}

func (u *ticketUseCase) releaseCategory(ctx context.Context, categoryID int64, group []Ticket) (int64, error) {
	tx, err := u.categoryRepository.BeginTx(ctx)
	if err != nil {
		return 0, err
	}

	category, err := u.categoryRepository.FindByIDForUpdate(ctx, categoryID, tx)
	if err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return 0, err
	}

	ids := make([]int64, 0, len(group))
	for _, t := range group {
		ids = append(ids, t.ID)
	}

	// The status guard makes the delete skip tickets a concurrent confirm or
	// cancel already resolved; only what was actually deleted goes back to
	// the pool.
	deleted, err := u.ticketRepository.DeleteManyReserved(ctx, ids, tx)
	if err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return 0, err
	}

	if !category.ReleaseHold(deleted) {
		u.logger.WithContext(ctx).WithFields(logrus.Fields{
			"category_id": categoryID,
			"quantity":    deleted,
		}).Warn("reserved quantity inconsistency detected while releasing hold, clamped to zero")
	}

	category.UpdatedAt = time.Now()
	if err := u.categoryRepository.UpdateQuantities(ctx, category.ID, category, tx); err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return 0, err
	}

	if err := u.categoryRepository.CommitTx(ctx, tx); err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return 0, err
	}

	return deleted, nil
}

// ReleaseExpiredReservations implements TicketUseCase. It reclaims every
// reservation older than the TTL regardless of session; each category is an
// independent batch so one category's failure never blocks the rest of the
// sweep.
func (u *ticketUseCase) ReleaseExpiredReservations(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	cutoff := time.Now().Add(-u.reservationTTL)

	expired, err := u.ticketRepository.FindManyExpiredReservations(ctx, cutoff, nil)
	if err != nil {
		return err
	}

	if len(expired) == 0 {
		return nil
	}

	u.logger.WithContext(ctx).WithField("count", len(expired)).Info("releasing expired reservations")

	sessionIDs := make(map[string]struct{})
	var released int64

	for _, categoryID := range sortedCategoryIDs(expired) {
		group := ticketsOfCategory(expired, categoryID)

		count, err := retryOnce(func() (int64, error) {
			return u.releaseCategory(ctx, categoryID, group)
		})
		if err != nil {
			u.logger.WithContext(ctx).WithError(err).WithField("category_id", categoryID).Error("failed to release category's expired reservations")
			continue
		}

		released += count
		for _, t := range group {
			if t.SessionID != nil {
				sessionIDs[*t.SessionID] = struct{}{}
			}
		}
	}

	if released == 0 {
		return nil
	}

	event := ReservationExpiredEvent{
		Released:   released,
		OccurredAt: time.Now(),
	}
	for sessionID := range sessionIDs {
		event.SessionIDs = append(event.SessionIDs, sessionID)
	}
	sort.Strings(event.SessionIDs)

	eventBuff, _ := json.Marshal(event)
	u.publisher.Publish(ctx, "ticket-reservation-expired", "", nil, eventBuff)

	return nil
}

// GetAvailability implements TicketUseCase.
func (u *ticketUseCase) GetAvailability(ctx context.Context, categoryID int64) (AvailabilityResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	category, err := u.categoryRepository.FindByID(ctx, categoryID, nil)
	if err != nil {
		return AvailabilityResponse{}, err
	}

	return AvailabilityResponse{
		CategoryID: category.ID,
		Total:      category.TotalQuantity,
		Sold:       category.SoldQuantity,
		Reserved:   category.ReservedQuantity,
		Available:  category.AvailableQuantity(),
	}, nil
}

// GetMyTickets implements TicketUseCase.
func (u *ticketUseCase) GetMyTickets(ctx context.Context) (GetMyTicketsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	acc, err := session.GetAccountFromCtx(ctx)
	if err != nil {
		return GetMyTicketsResponse{}, err
	}

	tickets, err := u.ticketRepository.FindManyByUserID(ctx, acc.ID, nil)
	if err != nil {
		return GetMyTicketsResponse{}, err
	}

	resp := GetMyTicketsResponse{}
	resp.PopulateFromEntities(tickets)

	return resp, nil
}

func sortedCategoryIDs(tickets []Ticket) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, t := range tickets {
		if _, ok := seen[t.CategoryID]; ok {
			continue
		}
		seen[t.CategoryID] = struct{}{}
		ids = append(ids, t.CategoryID)
	}

	// Ascending category order keeps lock acquisition deterministic when one
	// call touches several categories.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func ticketsOfCategory(tickets []Ticket, categoryID int64) []Ticket {
	group := make([]Ticket, 0)
	for _, t := range tickets {
		if t.CategoryID == categoryID {
			group = append(group, t)
		}
	}

	return group
}
