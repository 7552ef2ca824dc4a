package eventcatalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/kaantopcuw/NightFlow/pkg/errors"
	"github.com/kaantopcuw/NightFlow/pkg/status"
)

type EventCatalogRepository interface {
	GetEvent(ctx context.Context, eventID string) (Event, error)
}

type eventCatalogRepository struct {
	baseURL string
	logger  *logrus.Logger
	hc      *http.Client
}

func NewEventCatalogRepository(baseURL string, logger *logrus.Logger, hc *http.Client) EventCatalogRepository {
	return &eventCatalogRepository{
		baseURL: baseURL,
		logger:  logger,
		hc:      hc,
	}
}

type getEventEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    Event  `json:"data"`
}

// GetEvent implements EventCatalogRepository.
func (r *eventCatalogRepository) GetEvent(ctx context.Context, eventID string) (Event, error) {
	url := fmt.Sprintf("%s/nf-event/v1/events/%s", r.baseURL, eventID)

	hr, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Event{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting event's properties from event catalog")
	}

	hr.Header.Add("Accept", "application/json")

	hresp, err := r.hc.Do(hr)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Event{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting event's properties from event catalog")
	}

	defer hresp.Body.Close()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Event{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting event's properties from event catalog")
	}

	if hresp.StatusCode == http.StatusNotFound {
		return Event{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "event is not found")
	}

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		err := fmt.Errorf("event catalog responded with status %d: %s", hresp.StatusCode, string(respBody))
		r.logger.WithContext(ctx).WithError(err).Error()
		return Event{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting event's properties from event catalog")
	}

	var envelope getEventEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Event{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting event's properties from event catalog")
	}

	return envelope.Data, nil
}
