// Package broker provides the in-process change-notification fan-out that
// backs the server's live queries. Writers publish a topic after every
// mutation; each SSE stream holds one subscription and re-queries the full
// result set when its topic fires. Signals are coalesced per subscriber, so
// a burst of writes produces at most one pending wake-up.
package broker

import "sync"

// Topic names a stream of change signals, e.g. "app|testCases" or
// "app|myProjects|u-1".
type Topic string

type subscriber struct {
	ch chan struct{}
}

// Broker fans change signals out to subscribers. The zero value is not
// usable; call New.
type Broker struct {
	mu     sync.Mutex
	nextID int
	topics map[Topic]map[int]*subscriber
}

func New() *Broker {
	return &Broker{topics: make(map[Topic]map[int]*subscriber)}
}

// Subscribe registers for signals on topic. The returned channel has a
// buffer of one; the cancel func removes the subscription and is safe to
// call more than once.
func (b *Broker) Subscribe(topic Topic) (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscriber{ch: make(chan struct{}, 1)}
	id := b.nextID
	b.nextID++

	if b.topics[topic] == nil {
		b.topics[topic] = make(map[int]*subscriber)
	}
	b.topics[topic][id] = sub

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if subs, ok := b.topics[topic]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(b.topics, topic)
			}
		}
	}
	return sub.ch, cancel
}

// Publish signals every subscriber of topic. Subscribers with a pending
// signal are skipped; they will re-query anyway.
func (b *Broker) Publish(topic Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.topics[topic] {
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of active subscriptions on topic.
func (b *Broker) Subscribers(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}
