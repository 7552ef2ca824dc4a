package ticket

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kaantopcuw/NightFlow/pkg/errors"
	publicMiddleware "github.com/kaantopcuw/NightFlow/pkg/middleware"
	"github.com/kaantopcuw/NightFlow/pkg/response"
	"github.com/kaantopcuw/NightFlow/pkg/status"
)

type HTTPHandler struct {
	TicketUseCase TicketUseCase
}

func InitHTTPHandler(router *mux.Router, ticketUseCase TicketUseCase) {
	handler := &HTTPHandler{
		TicketUseCase: ticketUseCase,
	}

	router.HandleFunc("/nf-ticket/v1/checkinapp/tickets/event/{eventId}", publicMiddleware.SetRouteChain(handler.GetManySoldTicketsByEvent)).Methods(http.MethodGet)
	router.HandleFunc("/nf-ticket/v1/checkinapp/tickets/{ticketCode}", publicMiddleware.SetRouteChain(handler.GetTicketByCode)).Methods(http.MethodGet)
	router.HandleFunc("/nf-ticket/v1/checkinapp/tickets/{ticketCode}/checkin", publicMiddleware.SetRouteChain(handler.CheckIn)).Methods(http.MethodPatch)
}

func (handler HTTPHandler) GetTicketByCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.TicketUseCase.GetTicketByCode(ctx, mux.Vars(r)["ticketCode"])
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
		Message: "ticket's properties",
		Data:    resp,
	})
}

func (handler HTTPHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.TicketUseCase.CheckIn(ctx, mux.Vars(r)["ticketCode"])
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
		Message: "ticket is checked in",
		Data:    resp,
	})
}

func (handler HTTPHandler) GetManySoldTicketsByEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.TicketUseCase.GetManySoldTicketsByEvent(ctx, mux.Vars(r)["eventId"])
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
		Message: "list of event's sold tickets",
		Data:    resp,
	})
}
