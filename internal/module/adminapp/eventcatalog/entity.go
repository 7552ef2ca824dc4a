package eventcatalog

type Event struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OrganizerID int64  `json:"organizer_id"`
	Status      string `json:"status"`
}
