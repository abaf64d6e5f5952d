package services

import (
	"sync"

	"github.com/terraincognita07/ketchup/internal/models"
)

type DoseListener func(events []models.DoseEvent)

// DoseFeed fans out full dose lists to per-user listeners.
type DoseFeed struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[uint]map[uint64]DoseListener
}

func NewDoseFeed() *DoseFeed {
	return &DoseFeed{listeners: make(map[uint]map[uint64]DoseListener)}
}

// Subscribe registers listener for userID. The returned func may be called more than once.
func (feed *DoseFeed) Subscribe(userID uint, listener DoseListener) func() {
	feed.mu.Lock()
	feed.nextID++
	id := feed.nextID
	if feed.listeners[userID] == nil {
		feed.listeners[userID] = make(map[uint64]DoseListener)
	}
	feed.listeners[userID][id] = listener
	feed.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			feed.mu.Lock()
			defer feed.mu.Unlock()
			delete(feed.listeners[userID], id)
			if len(feed.listeners[userID]) == 0 {
				delete(feed.listeners, userID)
			}
		})
	}
}

func (feed *DoseFeed) Publish(userID uint, events []models.DoseEvent) {
	feed.mu.Lock()
	targets := make([]DoseListener, 0, len(feed.listeners[userID]))
	for _, listener := range feed.listeners[userID] {
		targets = append(targets, listener)
	}
	feed.mu.Unlock()

	for _, listener := range targets {
		snapshot := make([]models.DoseEvent, len(events))
		copy(snapshot, events)
		listener(snapshot)
	}
}

func (feed *DoseFeed) SubscriberCount(userID uint) int {
	feed.mu.Lock()
	defer feed.mu.Unlock()
	return len(feed.listeners[userID])
}
