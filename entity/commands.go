package entity

// SendAttendeeMessage asks the messaging worker to broadcast a promoter
// message to every customer with an order on the concert.
type SendAttendeeMessage struct {
	Header    EventHeader `json:"header"`
	ConcertID string      `json:"concert_id"`
	Subject   string      `json:"subject"`
	Message   string      `json:"message"`
}
