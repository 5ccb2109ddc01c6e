package playback

// Event names a fade boundary.
type Event string

const (
	EventFadeInBegin  Event = "fadeinbegin"
	EventFadeInEnd    Event = "fadeinend"
	EventFadeOutBegin Event = "fadeoutbegin"
	EventFadeOutEnd   Event = "fadeoutend"
)

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for fade events and returns a function that removes
// it again.
func (s *Sample) Subscribe(fn func(Event)) func() {
	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (s *Sample) emit(evt Event) {
	for _, sub := range append([]subscriber(nil), s.subscribers...) {
		sub.fn(evt)
	}
}
