package bus

// MessageBus is the in-process bus between the transport and the router.
//
// The transport pushes InboundMessages; the router consumes them, handles,
// and pushes OutboundMessages back for the transport to deliver. Both
// directions use buffered channels so senders do not block on a slow
// consumer.
type MessageBus struct {
	inbound  chan InboundMessage
	outbound chan OutboundMessage
}

// NewMessageBus creates a MessageBus with the given buffer size per
// direction.
func NewMessageBus(bufSize int) *MessageBus {
	return &MessageBus{
		inbound:  make(chan InboundMessage, bufSize),
		outbound: make(chan OutboundMessage, bufSize),
	}
}

// PublishInbound delivers a message from the transport to the router.
func (b *MessageBus) PublishInbound(msg InboundMessage) {
	b.inbound <- msg
}

// PublishOutbound delivers a reply from the router to the transport.
func (b *MessageBus) PublishOutbound(msg OutboundMessage) {
	b.outbound <- msg
}

// Inbound returns a receive-only view of the inbound channel.
func (b *MessageBus) Inbound() <-chan InboundMessage {
	return b.inbound
}

// Outbound returns a receive-only view of the outbound channel.
func (b *MessageBus) Outbound() <-chan OutboundMessage {
	return b.outbound
}
