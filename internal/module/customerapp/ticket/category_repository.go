package ticket

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/kaantopcuw/NightFlow/pkg/errors"
	"github.com/kaantopcuw/NightFlow/pkg/status"
)

type CategoryRepository interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
	CommitTx(ctx context.Context, tx *sql.Tx) error
	Rollback(ctx context.Context, tx *sql.Tx) error

	FindByID(ctx context.Context, ID int64, tx *sql.Tx) (Category, error)
	FindByIDForUpdate(ctx context.Context, ID int64, tx *sql.Tx) (Category, error)
	UpdateQuantities(ctx context.Context, ID int64, c Category, tx *sql.Tx) error
}

type sqlCommand interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type categoryRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewCategoryRepository(logger *logrus.Logger, db *sql.DB) CategoryRepository {
	return &categoryRepository{
		logger: logger,
		db:     db,
	}
}

// BeginTx implements CategoryRepository.
func (r *categoryRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred trying to begin transaction")
	}

	return tx, nil
}

// CommitTx implements CategoryRepository.
func (r *categoryRepository) CommitTx(ctx context.Context, tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred trying to commit transaction")
	}

	return nil
}

// Rollback implements CategoryRepository.
func (r *categoryRepository) Rollback(ctx context.Context, tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred trying to rollback transaction")
	}

	return nil
}

// FindByID implements CategoryRepository.
func (r *categoryRepository) FindByID(ctx context.Context, ID int64, tx *sql.Tx) (Category, error) {
	return r.findByID(ctx, ID, tx, false)
}

// FindByIDForUpdate acquires the category's exclusive row lock for the
// lifetime of the surrounding transaction. Every mutation of the stock
// counters and of this category's ticket rows must go through it.
func (r *categoryRepository) FindByIDForUpdate(ctx context.Context, ID int64, tx *sql.Tx) (Category, error) {
	return r.findByID(ctx, ID, tx, true)
}

func (r *categoryRepository) findByID(ctx context.Context, ID int64, tx *sql.Tx, forUpdate bool) (Category, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT
			id, event_id, name, price, total_quantity, sold_quantity, reserved_quantity, status, created_at, updated_at
		FROM ticket_category
		WHERE
			id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Category{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting ticket category's properties")
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, ID)

	var data Category
	err = row.Scan(
		&data.ID, &data.EventID, &data.Name, &data.Price, &data.TotalQuantity, &data.SoldQuantity,
		&data.ReservedQuantity, &data.Status, &data.CreatedAt, &data.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return Category{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "ticket category is not found")
		}

		r.logger.WithContext(ctx).WithError(err).Error()
		return Category{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting ticket category's properties")
	}

	return data, nil
}

// UpdateQuantities implements CategoryRepository.
func (r *categoryRepository) UpdateQuantities(ctx context.Context, ID int64, c Category, tx *sql.Tx) error {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		UPDATE ticket_category
		SET
			sold_quantity = $1,
			reserved_quantity = $2,
			updated_at = $3
		WHERE
			id = $4
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating ticket category's quantities")
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, c.SoldQuantity, c.ReservedQuantity, c.UpdatedAt, ID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating ticket category's quantities")
	}

	return nil
}
