package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
)

// Transport sends a rendered notification over one delivery channel.
// Push, SMS and email providers implement this.
type Transport interface {
	Send(recipientID, title, message string) error
}

// LogTransport is a stand-in transport that only logs deliveries.
type LogTransport struct {
	Channel models.Channel
}

// Send logs the delivery.
func (t LogTransport) Send(recipientID, title, message string) error {
	log.Printf("[%s] to %s: %s - %s", t.Channel, recipientID, title, message)
	return nil
}

// DeliveryWorker drains delivery queues into channel transports. Failures
// are returned to the consumer so the message is nacked and redelivered;
// they never reach the lifecycle transition that enqueued them.
type DeliveryWorker struct {
	transports map[models.Channel]Transport
}

// NewDeliveryWorker creates a new DeliveryWorker.
func NewDeliveryWorker(transports map[models.Channel]Transport) *DeliveryWorker {
	return &DeliveryWorker{
		transports: transports,
	}
}

// Handler returns an AMQP message handler for one channel's queue.
func (w *DeliveryWorker) Handler(channel models.Channel) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var task DeliveryTask
		if err := json.Unmarshal(msg.Body, &task); err != nil {
			return fmt.Errorf("malformed delivery task: %w", err)
		}
		transport, ok := w.transports[channel]
		if !ok {
			return fmt.Errorf("no transport configured for channel %s", channel)
		}
		if err := transport.Send(task.RecipientID, task.Title, task.Message); err != nil {
			return fmt.Errorf("failed to deliver notification %s via %s: %w", task.NotificationID, channel, err)
		}
		return nil
	}
}
