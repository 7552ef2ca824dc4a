package category

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

	Save(ctx context.Context, c Category, tx *sql.Tx) (int64, error)
	FindByID(ctx context.Context, ID int64, tx *sql.Tx) (Category, error)
	FindByIDForUpdate(ctx context.Context, ID int64, tx *sql.Tx) (Category, error)
	FindManyByEventID(ctx context.Context, eventID string, tx *sql.Tx) ([]Category, error)
	Update(ctx context.Context, c Category, tx *sql.Tx) error
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

const categoryColumns = `id, event_id, name, description, price, total_quantity, sold_quantity, reserved_quantity, status, sales_start_at, sales_end_at, created_at, updated_at`

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

// Save implements CategoryRepository.
func (r *categoryRepository) Save(ctx context.Context, c Category, tx *sql.Tx) (int64, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		INSERT INTO ticket_category
		(
			event_id, name, description, price, total_quantity, sold_quantity,
			reserved_quantity, status, sales_start_at, sales_end_at, created_at, updated_at
		)
		VALUES
		($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving ticket category's properties")
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx,
		c.EventID, c.Name, c.Description, c.Price, c.TotalQuantity, c.SoldQuantity,
		c.ReservedQuantity, c.Status, c.SalesStartAt, c.SalesEndAt, c.CreatedAt, c.UpdatedAt,
	)

	var ID int64
	if err := row.Scan(&ID); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving ticket category's properties")
	}

	return ID, nil
}

// FindByID implements CategoryRepository.
func (r *categoryRepository) FindByID(ctx context.Context, ID int64, tx *sql.Tx) (Category, error) {
	return r.findByID(ctx, ID, tx, false)
}

// FindByIDForUpdate implements CategoryRepository.
func (r *categoryRepository) FindByIDForUpdate(ctx context.Context, ID int64, tx *sql.Tx) (Category, error) {
	return r.findByID(ctx, ID, tx, true)
}

func (r *categoryRepository) findByID(ctx context.Context, ID int64, tx *sql.Tx, forUpdate bool) (Category, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT ` + categoryColumns + `
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
		&data.ID, &data.EventID, &data.Name, &data.Description, &data.Price, &data.TotalQuantity,
		&data.SoldQuantity, &data.ReservedQuantity, &data.Status, &data.SalesStartAt, &data.SalesEndAt,
		&data.CreatedAt, &data.UpdatedAt,
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

// FindManyByEventID implements CategoryRepository.
func (r *categoryRepository) FindManyByEventID(ctx context.Context, eventID string, tx *sql.Tx) ([]Category, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM ticket_category
		WHERE
			event_id = $1
		ORDER BY id
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket category's properties")
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, eventID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket category's properties")
	}

	defer rows.Close()

	var data = make([]Category, 0)
	for rows.Next() {
		var c Category
		err := rows.Scan(
			&c.ID, &c.EventID, &c.Name, &c.Description, &c.Price, &c.TotalQuantity,
			&c.SoldQuantity, &c.ReservedQuantity, &c.Status, &c.SalesStartAt, &c.SalesEndAt,
			&c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket category's properties")
		}

		data = append(data, c)
	}

	return data, nil
}

// Update implements CategoryRepository.
func (r *categoryRepository) Update(ctx context.Context, c Category, tx *sql.Tx) error {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		UPDATE ticket_category
		SET
			name = $1,
			description = $2,
			price = $3,
			total_quantity = $4,
			status = $5,
			sales_start_at = $6,
			sales_end_at = $7,
			updated_at = $8
		WHERE
			id = $9
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating ticket category's properties")
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		c.Name, c.Description, c.Price, c.TotalQuantity, c.Status,
		c.SalesStartAt, c.SalesEndAt, c.UpdatedAt, c.ID,
	)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating ticket category's properties")
	}

	return nil
}
