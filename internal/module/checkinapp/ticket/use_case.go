package ticket

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kaantopcuw/NightFlow/pkg/errors"
	"github.com/kaantopcuw/NightFlow/pkg/status"
)

type TicketUseCase interface {
	GetTicketByCode(ctx context.Context, ticketCode string) (TicketResponse, error)
	CheckIn(ctx context.Context, ticketCode string) (TicketResponse, error)
	GetManySoldTicketsByEvent(ctx context.Context, eventID string) (GetManyTicketsResponse, error)
}

type ticketUseCase struct {
	logger           *logrus.Logger
	timeout          time.Duration
	ticketRepository TicketRepository
}

type TicketUseCaseProperty struct {
	Logger           *logrus.Logger
	Timeout          time.Duration
	TicketRepository TicketRepository
}

func NewTicketUseCase(props TicketUseCaseProperty) TicketUseCase {
	return &ticketUseCase{
		logger:           props.Logger,
		timeout:          props.Timeout,
		ticketRepository: props.TicketRepository,
	}
}

// GetTicketByCode implements TicketUseCase.
func (u *ticketUseCase) GetTicketByCode(ctx context.Context, ticketCode string) (TicketResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	t, err := u.ticketRepository.FindByCode(ctx, ticketCode, nil)
	if err != nil {
		return TicketResponse{}, err
	}

	resp := TicketResponse{}
	resp.PopulateFromEntity(t)

	return resp, nil
}

// CheckIn implements TicketUseCase. The row lock serializes concurrent scans
// of the same code so a ticket can be used at most once.
func (u *ticketUseCase) CheckIn(ctx context.Context, ticketCode string) (TicketResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	tx, err := u.ticketRepository.BeginTx(ctx)
	if err != nil {
		return TicketResponse{}, err
	}

	t, err := u.ticketRepository.FindByCodeForUpdate(ctx, ticketCode, tx)
	if err != nil {
		u.ticketRepository.Rollback(ctx, tx)
		return TicketResponse{}, err
	}

	switch t.Status {
	case StatusUsed:
		u.ticketRepository.Rollback(ctx, tx)
		return TicketResponse{}, errors.New(http.StatusConflict, status.CONFLICT, "ticket has already been used")
	case StatusReserved:
		u.ticketRepository.Rollback(ctx, tx)
		return TicketResponse{}, errors.New(http.StatusUnprocessableEntity, status.UNPROCESSABLE_ENTITY, "ticket is not sold yet")
	}

	now := time.Now()
	if err := u.ticketRepository.UpdateUsed(ctx, t.ID, now, tx); err != nil {
		u.ticketRepository.Rollback(ctx, tx)
		return TicketResponse{}, err
	}

	if err := u.ticketRepository.CommitTx(ctx, tx); err != nil {
		u.ticketRepository.Rollback(ctx, tx)
		return TicketResponse{}, err
	}

	u.logger.WithContext(ctx).WithField("ticket_code", ticketCode).Info("ticket checked in")

	t.Status = StatusUsed
	t.UsedAt = &now

	resp := TicketResponse{}
	resp.PopulateFromEntity(t)

	return resp, nil
}

// GetManySoldTicketsByEvent implements TicketUseCase.
func (u *ticketUseCase) GetManySoldTicketsByEvent(ctx context.Context, eventID string) (GetManyTicketsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	tickets, err := u.ticketRepository.FindManySoldByEventID(ctx, eventID, nil)
	if err != nil {
		return GetManyTicketsResponse{}, err
	}

	resp := GetManyTicketsResponse{}
	resp.PopulateFromEntities(tickets)

	return resp, nil
}
