package service

// EventPublisher pushes live feed events. The ws hub implements it.
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
