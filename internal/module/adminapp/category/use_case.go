package category

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kaantopcuw/NightFlow/internal/module/adminapp/eventcatalog"
	"github.com/kaantopcuw/NightFlow/internal/pkg/session"
	"github.com/kaantopcuw/NightFlow/pkg/errors"
	"github.com/kaantopcuw/NightFlow/pkg/status"
)

type CategoryUseCase interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (CategoryResponse, error)
	UpdateCategory(ctx context.Context, categoryID int64, req UpdateCategoryRequest) (CategoryResponse, error)
	GetCategory(ctx context.Context, categoryID int64) (CategoryResponse, error)
	GetManyCategoryByEventID(ctx context.Context, eventID string) (GetManyCategoryResponse, error)
}

type categoryUseCase struct {
	logger                 *logrus.Logger
	timeout                time.Duration
	categoryRepository     CategoryRepository
	categoryCache          CategoryCacheRepository
	eventCatalogRepository eventcatalog.EventCatalogRepository
}

type CategoryUseCaseProperty struct {
	Logger                 *logrus.Logger
	Timeout                time.Duration
	CategoryRepository     CategoryRepository
	CategoryCache          CategoryCacheRepository
	EventCatalogRepository eventcatalog.EventCatalogRepository
}

func NewCategoryUseCase(props CategoryUseCaseProperty) CategoryUseCase {
	return &categoryUseCase{
		logger:                 props.Logger,
		timeout:                props.Timeout,
		categoryRepository:     props.CategoryRepository,
		categoryCache:          props.CategoryCache,
		eventCatalogRepository: props.EventCatalogRepository,
	}
}

func (u *categoryUseCase) verifyEventOwnership(ctx context.Context, eventID string, acc session.Account) error {
	e, err := u.eventCatalogRepository.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if e.OrganizerID != acc.ID {
		return errors.New(http.StatusForbidden, status.FORBIDDEN, "event does not belong to this organizer")
	}

	return nil
}

// CreateCategory implements CategoryUseCase.
func (u *categoryUseCase) CreateCategory(ctx context.Context, req CreateCategoryRequest) (CategoryResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	acc, err := session.GetAccountFromCtx(ctx)
	if err != nil {
		return CategoryResponse{}, err
	}

	if err := u.verifyEventOwnership(ctx, req.EventID, acc); err != nil {
		return CategoryResponse{}, err
	}

	now := time.Now()
	c := Category{
		EventID:       req.EventID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		TotalQuantity: req.TotalQuantity,
		Status:        StatusAvailable,
		SalesStartAt:  req.SalesStartAt,
		SalesEndAt:    req.SalesEndAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ID, err := u.categoryRepository.Save(ctx, c, nil)
	if err != nil {
		return CategoryResponse{}, err
	}

	c.ID = ID

	u.categoryCache.DeleteByEventID(ctx, c.EventID)

	u.logger.WithContext(ctx).WithFields(logrus.Fields{
		"category_id": c.ID,
		"event_id":    c.EventID,
	}).Info("ticket category is created")

	resp := CategoryResponse{}
	resp.PopulateFromEntity(c)

	return resp, nil
}

// UpdateCategory implements CategoryUseCase. The update runs under the
// category's row lock so the capacity floor is checked against counters that
// cannot move concurrently. Total quantity may never drop below the units
// already sold or reserved.
func (u *categoryUseCase) UpdateCategory(ctx context.Context, categoryID int64, req UpdateCategoryRequest) (CategoryResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	acc, err := session.GetAccountFromCtx(ctx)
	if err != nil {
		return CategoryResponse{}, err
	}

	tx, err := u.categoryRepository.BeginTx(ctx)
	if err != nil {
		return CategoryResponse{}, err
	}

	c, err := u.categoryRepository.FindByIDForUpdate(ctx, categoryID, tx)
	if err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return CategoryResponse{}, err
	}

	if err := u.verifyEventOwnership(ctx, c.EventID, acc); err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return CategoryResponse{}, err
	}

	if req.TotalQuantity < c.SoldQuantity+c.ReservedQuantity {
		u.categoryRepository.Rollback(ctx, tx)
		return CategoryResponse{}, errors.New(http.StatusUnprocessableEntity, status.UNPROCESSABLE_ENTITY, "total quantity can not be lower than the sold and reserved quantity")
	}

	c.Name = req.Name
	c.Description = req.Description
	c.Price = req.Price
	c.TotalQuantity = req.TotalQuantity
	c.SalesStartAt = req.SalesStartAt
	c.SalesEndAt = req.SalesEndAt
	c.UpdatedAt = time.Now()

	if req.Status != nil {
		c.Status = CategoryStatus(*req.Status)
	}

	if err := u.categoryRepository.Update(ctx, c, tx); err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return CategoryResponse{}, err
	}

	if err := u.categoryRepository.CommitTx(ctx, tx); err != nil {
		u.categoryRepository.Rollback(ctx, tx)
		return CategoryResponse{}, err
	}

	u.categoryCache.DeleteByEventID(ctx, c.EventID)

	resp := CategoryResponse{}
	resp.PopulateFromEntity(c)

	return resp, nil
}

// GetCategory implements CategoryUseCase.
func (u *categoryUseCase) GetCategory(ctx context.Context, categoryID int64) (CategoryResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	c, err := u.categoryRepository.FindByID(ctx, categoryID, nil)
	if err != nil {
		return CategoryResponse{}, err
	}

	resp := CategoryResponse{}
	resp.PopulateFromEntity(c)

	return resp, nil
}

// GetManyCategoryByEventID implements CategoryUseCase.
func (u *categoryUseCase) GetManyCategoryByEventID(ctx context.Context, eventID string) (GetManyCategoryResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	if categories, ok := u.categoryCache.GetManyByEventID(ctx, eventID); ok {
		resp := GetManyCategoryResponse{}
		resp.PopulateFromEntities(categories)
		return resp, nil
	}

	categories, err := u.categoryRepository.FindManyByEventID(ctx, eventID, nil)
	if err != nil {
		return GetManyCategoryResponse{}, err
	}

	u.categoryCache.SetManyByEventID(ctx, eventID, categories)

	resp := GetManyCategoryResponse{}
	resp.PopulateFromEntities(categories)

	return resp, nil
}
