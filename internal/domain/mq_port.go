package domain

type Message struct {
	Key   []byte
	Value []byte
}

type EventPublisher interface {
	Publish(topic string, msgs ...Message) error
}
