package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OperationEventType identifies the lifecycle stage of a table operation.
type OperationEventType string

const (
	TableReadStart    OperationEventType = "table:read:start"
	TableReadSuccess  OperationEventType = "table:read:success"
	TableReadFailed   OperationEventType = "table:read:failed"
	TableWriteStart   OperationEventType = "table:write:start"
	TableWriteSuccess OperationEventType = "table:write:success"
	TableWriteFailed  OperationEventType = "table:write:failed"
	TableAlterStart   OperationEventType = "table:alter:start"
	TableAlterSuccess OperationEventType = "table:alter:success"
	TableAlterFailed  OperationEventType = "table:alter:failed"
)

// OperationEvent is emitted around every table operation for observability.
type OperationEvent struct {
	Type      OperationEventType `json:"type"`
	Operation string             `json:"operation"` // e.g. "read", "insert", "batch_update".
	Table     string             `json:"table,omitempty"`
	Timestamp int64              `json:"timestamp"` // Unix milliseconds.
	Input     any                `json:"input,omitempty"`
	Error     *string            `json:"error,omitempty"`
	RowCount  *int64             `json:"rowCount,omitempty"`
	Duration  *int64             `json:"duration,omitempty"` // Milliseconds.
}

// EventCallback is invoked for every event of the subscribed type.
type EventCallback func(ctx context.Context, event OperationEvent) error

// SubscriptionInfo describes a registered event subscription.
type SubscriptionInfo struct {
	ID          string
	Event       OperationEventType
	Label       *string
	Description *string
	Unsubscribe func()
}

// RegisterSubscriptionOptions defines options for registering a subscription.
type RegisterSubscriptionOptions struct {
	Event       OperationEventType
	Callback    EventCallback
	Label       *string
	Description *string
}

// RegisterSubscription registers a callback for a specific operation event.
// It returns a unique ID that can be used to unregister the subscription.
func (c *Client) RegisterSubscription(options RegisterSubscriptionOptions) string {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	unsubscribe := c.bus.Subscribe(string(options.Event), options.Callback)
	id := uuid.New().String()

	c.subscriptions[id] = &SubscriptionInfo{
		ID:          id,
		Event:       options.Event,
		Label:       options.Label,
		Description: options.Description,
		Unsubscribe: unsubscribe,
	}
	return id
}

// UnregisterSubscription removes a subscription by its ID.
func (c *Client) UnregisterSubscription(id string) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	if info, ok := c.subscriptions[id]; ok {
		info.Unsubscribe()
		delete(c.subscriptions, id)
	}
}

// Subscriptions returns all currently active subscriptions.
func (c *Client) Subscriptions() []SubscriptionInfo {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	subs := make([]SubscriptionInfo, 0, len(c.subscriptions))
	for _, sub := range c.subscriptions {
		subs = append(subs, *sub)
	}
	return subs
}

func (c *Client) emit(event OperationEvent) {
	if c.bus != nil {
		c.bus.Emit(string(event.Type), event)
	}
}

// observe wraps an operation with start, success and failure events. The
// returned function is called with the operation's outcome.
func (c *Client) observe(
	operation, table string,
	input any,
	start OperationEventType,
	success OperationEventType,
	failed OperationEventType,
) func(rowCount int64, err error) {
	startTime := time.Now()
	c.emit(OperationEvent{
		Type:      start,
		Operation: operation,
		Table:     table,
		Timestamp: startTime.UnixMilli(),
		Input:     input,
	})

	return func(rowCount int64, err error) {
		duration := time.Since(startTime).Milliseconds()
		event := OperationEvent{
			Operation: operation,
			Table:     table,
			Timestamp: time.Now().UnixMilli(),
			Input:     input,
			Duration:  &duration,
		}
		if err != nil {
			event.Type = failed
			errStr := err.Error()
			event.Error = &errStr
		} else {
			event.Type = success
			event.RowCount = &rowCount
		}
		c.emit(event)
	}
}
