package ticket

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
	TicketUseCase     TicketUseCase
}

func InitHTTPHandler(router *mux.Router, userSession *internalMiddleware.UserSession, validate *validator.Validate, ticketUseCase TicketUseCase) {
	handler := &HTTPHandler{
		SessionMiddleware: userSession,
		Validate:          validate,
		TicketUseCase:     ticketUseCase,
	}

	router.HandleFunc("/nf-ticket/v1/customerapp/tickets/reserve", publicMiddleware.SetRouteChain(handler.ReserveTickets)).Methods(http.MethodPost)
	router.HandleFunc("/nf-ticket/v1/customerapp/tickets/confirm-sale", publicMiddleware.SetRouteChain(handler.ConfirmSale)).Methods(http.MethodPost)
	router.HandleFunc("/nf-ticket/v1/customerapp/tickets/reserve/{sessionId}", publicMiddleware.SetRouteChain(handler.CancelReservation)).Methods(http.MethodDelete)
	router.HandleFunc("/nf-ticket/v1/customerapp/tickets/availability/{categoryId}", publicMiddleware.SetRouteChain(handler.GetAvailability)).Methods(http.MethodGet)
	router.HandleFunc("/nf-ticket/v1/customerapp/tickets/my-tickets", publicMiddleware.SetRouteChain(handler.GetMyTickets, userSession.Verify)).Methods(http.MethodGet)
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

func (handler HTTPHandler) ReserveTickets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := ReserveTicketsRequest{}
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

	resp, err := handler.TicketUseCase.ReserveTickets(ctx, req)
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
		Message: "tickets are reserved temporarily",
		Data:    resp,
	})
}

func (handler HTTPHandler) ConfirmSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := ConfirmSaleRequest{}
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

	resp, err := handler.TicketUseCase.ConfirmSale(ctx, req)
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
		Message: "tickets are sold",
		Data:    resp,
	})
}

func (handler HTTPHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: "invalid 'sessionId' with empty value",
		})

		return
	}

	resp, err := handler.TicketUseCase.CancelReservation(ctx, sessionID)
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
		Message: "reservation is cancelled",
		Data:    resp,
	})
}

func (handler HTTPHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, err := strconv.ParseInt(mux.Vars(r)["categoryId"], 10, 64)
	if err != nil {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: fmt.Sprintf("invalid 'categoryId' with value '%s'", mux.Vars(r)["categoryId"]),
		})

		return
	}

	resp, err := handler.TicketUseCase.GetAvailability(ctx, categoryID)
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
		Message: "ticket category's availability",
		Data:    resp,
	})
}

func (handler HTTPHandler) GetMyTickets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.TicketUseCase.GetMyTickets(ctx)
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
		Message: "list of account's tickets",
		Data:    resp,
	})
}
