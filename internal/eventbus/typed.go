package eventbus

import "reflect"

func sameType(a, b Event) bool {
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}

// SubscribeTo subscribes to the events of type T only.
func SubscribeTo[T any](b EventBus, opts ...Option) <-chan Event {
	opts = append(opts, WithFilter(func(e Event) bool {
		_, ok := e.(T)
		return ok
	}))
	return b.Subscribe(opts...)
}

// Handle calls fn for every event of type T received on ch until ch is
// closed. Other events are skipped.
func Handle[T any](ch <-chan Event, fn func(T)) {
	for e := range ch {
		if v, ok := e.(T); ok {
			fn(v)
		}
	}
}
