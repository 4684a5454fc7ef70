package state

import "sync"

type Service int

const (
	Redis Service = iota
	Feed
	GRPC
)

func (s Service) String() string {
	switch s {
	case Redis:
		return "redis"
	case Feed:
		return "feed"
	case GRPC:
		return "grpc"
	}
	return "unknown"
}

type State struct {
	sync.RWMutex

	Redis bool
	Feed  bool
	GRPC  bool
}

func NewState() *State {
	return &State{
		Redis: true,
		Feed:  true,
		GRPC:  true,
	}
}

func (s *State) Get(svc Service) bool {
	s.RLock()
	defer s.RUnlock()
	{
		switch svc {
		case Redis:
			return s.Redis

		case Feed:
			return s.Feed

		case GRPC:
			return s.GRPC
		}
	}
	return false
}

func (s *State) Set(svc Service, state bool) {
	s.Lock()
	defer s.Unlock()
	{
		switch svc {
		case Redis:
			s.Redis = state

		case Feed:
			s.Feed = state

		case GRPC:
			s.GRPC = state
		}
	}
}

// Snapshot returns every service flag keyed by name.
func (s *State) Snapshot() map[string]bool {
	s.RLock()
	defer s.RUnlock()
	return map[string]bool{
		Redis.String(): s.Redis,
		Feed.String():  s.Feed,
		GRPC.String():  s.GRPC,
	}
}
