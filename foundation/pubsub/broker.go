package pubsub

import (
	"errors"
	"fmt"
	"sync"
)

var ErrNoTopic = errors.New("topic has no subscribers")

type Broker struct {
	topics map[string][]*Subscriber
	sync.RWMutex
}

func NewBroker() *Broker {
	return &Broker{
		topics: make(map[string][]*Subscriber, 0),
	}
}

// Publish hands data to every subscriber of topic without blocking. It
// returns the number of subscribers that accepted the data.
func (b *Broker) Publish(topic string, data any) (int, error) {
	b.RLock()
	defer b.RUnlock()
	{
		subs, exists := b.topics[topic]
		if !exists || len(subs) == 0 {
			return 0, fmt.Errorf("topic[%s]: %w", topic, ErrNoTopic)
		}

		var delivered int
		for _, sub := range subs {
			if sub.Signal(data) {
				delivered++
			}
		}
		return delivered, nil
	}
}

func (b *Broker) Subscribe(topic string, s *Subscriber) {
	b.Lock()
	defer b.Unlock()
	{
		_, exists := b.topics[topic]
		if !exists {
			b.topics[topic] = make([]*Subscriber, 0)
		}

		b.topics[topic] = append(b.topics[topic], s)
	}
}

func (b *Broker) UnSubscribe(topic string, s *Subscriber) error {
	b.Lock()
	defer b.Unlock()
	{
		subs, exists := b.topics[topic]
		if !exists {
			return fmt.Errorf("topic[%s] does not exists", topic)
		}

		b.topics[topic] = removeFromSlice(subs, s)
		s.CloseChannel()
	}

	return nil
}

// Subscribers returns the number of subscribers on topic.
func (b *Broker) Subscribers(topic string) int {
	b.RLock()
	defer b.RUnlock()
	return len(b.topics[topic])
}

// =================================================================================================================

func removeFromSlice[T comparable](s []T, d T) []T {
	for i := range s {
		if s[i] == d {
			s[i] = s[len(s)-1]
			return s[:len(s)-1]
		}
	}
	return s
}
