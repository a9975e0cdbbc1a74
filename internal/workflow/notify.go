package workflow

import (
	"github.com/kode4food/caravan"
	"github.com/kode4food/caravan/message"
	"github.com/kode4food/caravan/topic"

	"github.com/kode4food/docket/pkg/api"
)

// Hub fans notices out to interested consumers. The WebSocket layer opens
// one consumer per connected shell; the executor publishes success, error,
// refresh, and cleared notices as transitions resolve
type Hub struct {
	notices topic.Topic[*api.Notice]
	prod    topic.Producer[*api.Notice]
}

// NewHub creates a notice hub
func NewHub() *Hub {
	notices := caravan.NewTopic[*api.Notice]()
	return &Hub{
		notices: notices,
		prod:    notices.NewProducer(),
	}
}

// Publish delivers a notice to all current consumers
func (h *Hub) Publish(n *api.Notice) {
	message.Send(h.prod, n)
}

// NewConsumer opens a consumer on the notice feed. The caller owns closing
// it
func (h *Hub) NewConsumer() topic.Consumer[*api.Notice] {
	return h.notices.NewConsumer()
}

// Close shuts down the hub's producer side
func (h *Hub) Close() {
	h.prod.Close()
}
