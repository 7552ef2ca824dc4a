package ticket

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kaantopcuw/NightFlow/pkg/errors"
	"github.com/kaantopcuw/NightFlow/pkg/status"
)

type TicketRepository interface {
	SaveMany(ctx context.Context, tickets []Ticket, tx *sql.Tx) error
	FindManyBySessionIDAndStatus(ctx context.Context, sessionID string, ticketStatus TicketStatus, tx *sql.Tx) ([]Ticket, error)
	FindManyExpiredReservations(ctx context.Context, cutoff time.Time, tx *sql.Tx) ([]Ticket, error)
	FindManyByUserID(ctx context.Context, userID int64, tx *sql.Tx) ([]Ticket, error)
	UpdateManySold(ctx context.Context, IDs []int64, orderID, userID int64, soldAt time.Time, tx *sql.Tx) error
	DeleteManyReserved(ctx context.Context, IDs []int64, tx *sql.Tx) (int64, error)
}

type ticketRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewTicketRepository(logger *logrus.Logger, db *sql.DB) TicketRepository {
	return &ticketRepository{
		logger: logger,
		db:     db,
	}
}

const ticketColumns = `id, ticket_code, category_id, order_id, user_id, seat_info, status, session_id, reserved_at, sold_at, used_at, created_at`

// SaveMany implements TicketRepository.
func (r *ticketRepository) SaveMany(ctx context.Context, tickets []Ticket, tx *sql.Tx) error {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		INSERT INTO ticket
		(
			ticket_code, category_id, order_id, user_id, seat_info, status, session_id, reserved_at, sold_at, used_at, created_at
		)
		VALUES
		(
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving ticket's properties")
	}
	defer stmt.Close()

	for _, t := range tickets {
		_, err = stmt.ExecContext(ctx,
			t.TicketCode, t.CategoryID, t.OrderID, t.UserID, t.SeatInfo, t.Status, t.SessionID,
			t.ReservedAt, t.SoldAt, t.UsedAt, t.CreatedAt,
		)
		if err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving ticket's properties")
		}
	}

	return nil
}

// FindManyBySessionIDAndStatus implements TicketRepository.
func (r *ticketRepository) FindManyBySessionIDAndStatus(ctx context.Context, sessionID string, ticketStatus TicketStatus, tx *sql.Tx) ([]Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM ticket
		WHERE
			session_id = $1 AND status = $2
		ORDER BY id
	`

	return r.findMany(ctx, tx, query, sessionID, ticketStatus)
}

// FindManyExpiredReservations implements TicketRepository.
func (r *ticketRepository) FindManyExpiredReservations(ctx context.Context, cutoff time.Time, tx *sql.Tx) ([]Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM ticket
		WHERE
			status = $1 AND reserved_at < $2
		ORDER BY id
	`

	return r.findMany(ctx, tx, query, StatusReserved, cutoff)
}

// FindManyByUserID implements TicketRepository.
func (r *ticketRepository) FindManyByUserID(ctx context.Context, userID int64, tx *sql.Tx) ([]Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM ticket
		WHERE
			user_id = $1
		ORDER BY id
	`

	return r.findMany(ctx, tx, query, userID)
}

func (r *ticketRepository) findMany(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) ([]Ticket, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket's properties")
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket's properties")
	}

	defer rows.Close()

	var data = make([]Ticket, 0)
	for rows.Next() {
		var t Ticket
		err := rows.Scan(
			&t.ID, &t.TicketCode, &t.CategoryID, &t.OrderID, &t.UserID, &t.SeatInfo, &t.Status,
			&t.SessionID, &t.ReservedAt, &t.SoldAt, &t.UsedAt, &t.CreatedAt,
		)
		if err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket's properties")
		}

		data = append(data, t)
	}

	return data, nil
}

// UpdateManySold flips reserved tickets to sold, binding them to the buyer and
// order and clearing the session id so the hold cannot be settled twice.
func (r *ticketRepository) UpdateManySold(ctx context.Context, IDs []int64, orderID, userID int64, soldAt time.Time, tx *sql.Tx) error {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		UPDATE ticket
		SET
			status = $1,
			order_id = $2,
			user_id = $3,
			sold_at = $4,
			session_id = NULL
		WHERE
			id = ANY($5) AND status = $6
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating ticket's properties")
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, StatusSold, orderID, userID, soldAt, IDs, StatusReserved)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating ticket's properties")
	}

	return nil
}

// DeleteManyReserved removes reserved ticket rows, returning how many were
// actually deleted. Rows already settled or removed by a concurrent caller are
// skipped by the status guard.
func (r *ticketRepository) DeleteManyReserved(ctx context.Context, IDs []int64, tx *sql.Tx) (int64, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		DELETE FROM ticket
		WHERE
			id = ANY($1) AND status = $2
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while deleting ticket's properties")
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, IDs, StatusReserved)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while deleting ticket's properties")
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while deleting ticket's properties")
	}

	return deleted, nil
}
