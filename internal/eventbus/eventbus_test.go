package eventbus

import (
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	b := New[int]()
	sub := b.Subscribe()
	b.Publish(42)
	select {
	case v := <-sub:
		if v != 42 {
			t.Fatalf("got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := New[int]()
	b.Subscribe() // never drained
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on slow subscriber")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	b := New[string]()
	sub := b.Subscribe()
	b.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatal("channel should be closed")
	}
	b.Publish("after") // must not panic
}

func TestBus_Close(t *testing.T) {
	b := New[string]()
	sub := b.Subscribe()
	b.Close()
	if _, ok := <-sub; ok {
		t.Fatal("channel should be closed")
	}
	b.Publish("after close") // must not panic
	if ch := b.Subscribe(); ch == nil {
		t.Fatal("subscribe after close should return a closed channel")
	}
}
