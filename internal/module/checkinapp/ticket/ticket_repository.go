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
	BeginTx(ctx context.Context) (*sql.Tx, error)
	CommitTx(ctx context.Context, tx *sql.Tx) error
	Rollback(ctx context.Context, tx *sql.Tx) error

	FindByCode(ctx context.Context, ticketCode string, tx *sql.Tx) (Ticket, error)
	FindByCodeForUpdate(ctx context.Context, ticketCode string, tx *sql.Tx) (Ticket, error)
	UpdateUsed(ctx context.Context, ID int64, usedAt time.Time, tx *sql.Tx) error
	FindManySoldByEventID(ctx context.Context, eventID string, tx *sql.Tx) ([]Ticket, error)
}

type sqlCommand interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
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

// BeginTx implements TicketRepository.
func (r *ticketRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred trying to begin transaction")
	}

	return tx, nil
}

// CommitTx implements TicketRepository.
func (r *ticketRepository) CommitTx(ctx context.Context, tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred trying to commit transaction")
	}

	return nil
}

// Rollback implements TicketRepository.
func (r *ticketRepository) Rollback(ctx context.Context, tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred trying to rollback transaction")
	}

	return nil
}

// FindByCode implements TicketRepository.
func (r *ticketRepository) FindByCode(ctx context.Context, ticketCode string, tx *sql.Tx) (Ticket, error) {
	return r.findByCode(ctx, ticketCode, tx, false)
}

// FindByCodeForUpdate locks the ticket row so concurrent check-ins of the
// same code serialize.
func (r *ticketRepository) FindByCodeForUpdate(ctx context.Context, ticketCode string, tx *sql.Tx) (Ticket, error) {
	return r.findByCode(ctx, ticketCode, tx, true)
}

func (r *ticketRepository) findByCode(ctx context.Context, ticketCode string, tx *sql.Tx, forUpdate bool) (Ticket, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT
			t.id, t.ticket_code, t.category_id, tc.name, tc.event_id, t.order_id, t.user_id,
			t.seat_info, t.status, t.reserved_at, t.sold_at, t.used_at
		FROM ticket t
		JOIN ticket_category tc ON tc.id = t.category_id
		WHERE
			t.ticket_code = $1
	`
	if forUpdate {
		query += ` FOR UPDATE OF t`
	}

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Ticket{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting ticket's properties")
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, ticketCode)

	var data Ticket
	err = row.Scan(
		&data.ID, &data.TicketCode, &data.CategoryID, &data.CategoryName, &data.EventID, &data.OrderID,
		&data.UserID, &data.SeatInfo, &data.Status, &data.ReservedAt, &data.SoldAt, &data.UsedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return Ticket{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "ticket is not found")
		}

		r.logger.WithContext(ctx).WithError(err).Error()
		return Ticket{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting ticket's properties")
	}

	return data, nil
}

// UpdateUsed implements TicketRepository.
func (r *ticketRepository) UpdateUsed(ctx context.Context, ID int64, usedAt time.Time, tx *sql.Tx) error {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		UPDATE ticket
		SET
			status = $1,
			used_at = $2
		WHERE
			id = $3
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating ticket's properties")
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, StatusUsed, usedAt, ID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating ticket's properties")
	}

	return nil
}

// FindManySoldByEventID implements TicketRepository.
func (r *ticketRepository) FindManySoldByEventID(ctx context.Context, eventID string, tx *sql.Tx) ([]Ticket, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT
			t.id, t.ticket_code, t.category_id, tc.name, tc.event_id, t.order_id, t.user_id,
			t.seat_info, t.status, t.reserved_at, t.sold_at, t.used_at
		FROM ticket t
		JOIN ticket_category tc ON tc.id = t.category_id
		WHERE
			tc.event_id = $1 AND t.status = $2
		ORDER BY t.id
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket's properties")
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, eventID, StatusSold)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket's properties")
	}

	defer rows.Close()

	var data = make([]Ticket, 0)
	for rows.Next() {
		var t Ticket
		err := rows.Scan(
			&t.ID, &t.TicketCode, &t.CategoryID, &t.CategoryName, &t.EventID, &t.OrderID,
			&t.UserID, &t.SeatInfo, &t.Status, &t.ReservedAt, &t.SoldAt, &t.UsedAt,
		)
		if err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket's properties")
		}

		data = append(data, t)
	}

	return data, nil
}
