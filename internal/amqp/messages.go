package amqp

import (
	"encoding/json"
	"time"
)

// Event actions carried by transaction change messages.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// TransactionEventMessage tells the aggregate worker that a user's
// transactions changed. It carries only identifiers, the worker refetches
// the full set from the database.
type TransactionEventMessage struct {
	Email         string    `json:"email"`
	TransactionID string    `json:"transaction_id"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEventMessage(email, transactionID, action string) *TransactionEventMessage {
	return &TransactionEventMessage{
		Email:         email,
		TransactionID: transactionID,
		Action:        action,
		Timestamp:     time.Now(),
	}
}

func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
