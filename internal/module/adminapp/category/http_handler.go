package category

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	internalMiddleware "github.com/kaantopcuw/NightFlow/internal/pkg/middleware"
	"github.com/kaantopcuw/NightFlow/pkg/errors"
	publicMiddleware "github.com/kaantopcuw/NightFlow/pkg/middleware"
	"github.com/kaantopcuw/NightFlow/pkg/response"
	"github.com/kaantopcuw/NightFlow/pkg/status"
)

type HTTPHandler struct {
	SessionMiddleware *internalMiddleware.UserSession
	Validate          *validator.Validate
	CategoryUseCase   CategoryUseCase
}

func InitHTTPHandler(router *mux.Router, userSession *internalMiddleware.UserSession, validate *validator.Validate, categoryUseCase CategoryUseCase) {
	handler := &HTTPHandler{
		SessionMiddleware: userSession,
		Validate:          validate,
		CategoryUseCase:   categoryUseCase,
	}

	router.HandleFunc("/nf-ticket/v1/adminapp/ticket-categories", publicMiddleware.SetRouteChain(handler.CreateCategory, userSession.VerifyOrganizer)).Methods(http.MethodPost)
	router.HandleFunc("/nf-ticket/v1/adminapp/ticket-categories/{categoryId}", publicMiddleware.SetRouteChain(handler.UpdateCategory, userSession.VerifyOrganizer)).Methods(http.MethodPut)
	router.HandleFunc("/nf-ticket/v1/adminapp/ticket-categories/{categoryId}", publicMiddleware.SetRouteChain(handler.GetCategory)).Methods(http.MethodGet)
	router.HandleFunc("/nf-ticket/v1/adminapp/ticket-categories/event/{eventId}", publicMiddleware.SetRouteChain(handler.GetManyCategoryByEventID)).Methods(http.MethodGet)
}

func (handler HTTPHandler) validate(ctx context.Context, payload interface{}) error {
	err := handler.Validate.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	errorFields := err.(validator.ValidationErrors)

	errMessages := make([]string, len(errorFields))

	for k, errorField := range errorFields {
		errMessages[k] = fmt.Sprintf("invalid '%s' with value '%v'", errorField.Field(), errorField.Value())
	}

	return fmt.Errorf("%s", strings.Join(errMessages, ", "))
}

func (handler HTTPHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := CreateCategoryRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusUnprocessableEntity, response.RESTEnvelope{
			Status:  status.UNPROCESSABLE_ENTITY,
			Message: err.Error(),
		})

		return
	}

	if err := handler.validate(ctx, req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: err.Error(),
		})

		return
	}

	resp, err := handler.CategoryUseCase.CreateCategory(ctx, req)
	if err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	response.JSON(w, http.StatusCreated, response.RESTEnvelope{
		Status:  status.CREATED,
		Message: "ticket category is created",
		Data:    resp,
	})
}

func (handler HTTPHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, err := strconv.ParseInt(mux.Vars(r)["categoryId"], 10, 64)
	if err != nil {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: fmt.Sprintf("invalid 'categoryId' with value '%s'", mux.Vars(r)["categoryId"]),
		})

		return
	}

	req := UpdateCategoryRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusUnprocessableEntity, response.RESTEnvelope{
			Status:  status.UNPROCESSABLE_ENTITY,
			Message: err.Error(),
		})

		return
	}

	if err := handler.validate(ctx, req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: err.Error(),
		})

		return
	}

	resp, err := handler.CategoryUseCase.UpdateCategory(ctx, categoryID, req)
	if err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "ticket category is updated",
		Data:    resp,
	})
}

func (handler HTTPHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, err := strconv.ParseInt(mux.Vars(r)["categoryId"], 10, 64)
	if err != nil {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: fmt.Sprintf("invalid 'categoryId' with value '%s'", mux.Vars(r)["categoryId"]),
		})

		return
	}

	resp, err := handler.CategoryUseCase.GetCategory(ctx, categoryID)
	if err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "ticket category's properties",
		Data:    resp,
	})
}

func (handler HTTPHandler) GetManyCategoryByEventID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.CategoryUseCase.GetManyCategoryByEventID(ctx, mux.Vars(r)["eventId"])
	if err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "list of event's ticket categories",
		Data:    resp,
	})
}
