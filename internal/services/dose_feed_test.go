package services

import (
	"sync"
	"testing"

	"github.com/terraincognita07/ketchup/internal/models"
	"go.uber.org/goleak"
)

func TestDoseFeedDeliversFullListPerUser(t *testing.T) {
	feed := NewDoseFeed()

	var received [][]models.DoseEvent
	unsubscribe := feed.Subscribe(1, func(events []models.DoseEvent) {
		received = append(received, events)
	})
	otherCalls := 0
	feed.Subscribe(2, func([]models.DoseEvent) { otherCalls++ })

	events := []models.DoseEvent{{ID: 2}, {ID: 1}}
	feed.Publish(1, events)

	if len(received) != 1 || len(received[0]) != 2 {
		t.Fatalf("expected one full snapshot, got %+v", received)
	}
	if otherCalls != 0 {
		t.Fatalf("expected other user's listener untouched, got %d calls", otherCalls)
	}

	events[0].ID = 99
	if received[0][0].ID != 2 {
		t.Fatal("expected listener to receive a copy of the list")
	}

	unsubscribe()
	unsubscribe()
	feed.Publish(1, events)
	if len(received) != 1 {
		t.Fatalf("expected no delivery after unsubscribe, got %d", len(received))
	}
	if feed.SubscriberCount(1) != 0 {
		t.Fatalf("expected zero subscribers, got %d", feed.SubscriberCount(1))
	}
}

func TestDoseFeedConcurrentSubscribeAndPublish(t *testing.T) {
	defer goleak.VerifyNone(t)

	feed := NewDoseFeed()
	var wg sync.WaitGroup
	var mu sync.Mutex
	deliveries := 0

	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsubscribe := feed.Subscribe(1, func([]models.DoseEvent) {
				mu.Lock()
				deliveries++
				mu.Unlock()
			})
			for round := 0; round < 20; round++ {
				feed.Publish(1, []models.DoseEvent{{ID: uint(round)}})
			}
			unsubscribe()
		}()
	}
	wg.Wait()

	if feed.SubscriberCount(1) != 0 {
		t.Fatalf("expected all listeners removed, got %d", feed.SubscriberCount(1))
	}
	mu.Lock()
	defer mu.Unlock()
	if deliveries < 20 {
		t.Fatalf("expected each worker to at least see its own publishes, got %d deliveries", deliveries)
	}
}
