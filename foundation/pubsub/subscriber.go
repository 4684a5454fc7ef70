package pubsub

import "sync/atomic"

type Subscriber struct {
	payload chan any
	dropped atomic.Int64
}

func NewSubscriber(channelCapacity int) *Subscriber {
	if channelCapacity > 0 {
		return &Subscriber{
			payload: make(chan any, channelCapacity),
		}
	}
	return &Subscriber{
		payload: make(chan any),
	}
}

// Signal offers data to the subscriber and drops it when the subscriber is
// not keeping up.
func (s *Subscriber) Signal(data any) bool {
	select {
	case s.payload <- data:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

func (s *Subscriber) GetChannel() <-chan any {
	return s.payload
}

func (s *Subscriber) CloseChannel() {
	close(s.payload)
}

// Dropped returns how many payloads were discarded.
func (s *Subscriber) Dropped() int64 {
	return s.dropped.Load()
}
