package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/iliyamo/room-booking/internal/model"
	"github.com/iliyamo/room-booking/internal/repository"
)

func newFreeRoomFixture() (*FreeRoomService, *BookingService, *memStore) {
	store := newMemStore()
	return NewFreeRoomService(store), NewBookingService(store, nil, zap.NewNop()), store
}

func roomNames(rooms []*model.Room) []string {
	out := make([]string, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Name)
	}
	return out
}

func TestFindFreeExcludesBusyRooms(t *testing.T) {
	free, bookings, store := newFreeRoomFixture()
	a := store.addRoom("Aurora", 4, 1)
	store.addRoom("Borealis", 8, 1)
	store.addRoom("Cirrus", 6, 2)

	if _, err := bookings.Create(context.Background(), alice, a.ID, "2026-09-01", "10:00", "11:00"); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	got, err := free.FindFree(context.Background(), "2026-09-01", "10:30", "11:30", repository.RoomFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := roomNames(got)
	if len(names) != 2 || names[0] != "Borealis" || names[1] != "Cirrus" {
		t.Errorf("free rooms = %v, want [Borealis Cirrus]", names)
	}
}

func TestFindFreeOrdering(t *testing.T) {
	free, _, store := newFreeRoomFixture()
	store.addRoom("Zelkova", 4, 1)
	store.addRoom("Acacia", 4, 2)
	store.addRoom("Maple", 4, 1)

	got, err := free.FindFree(context.Background(), "2026-09-01", "10:00", "11:00", repository.RoomFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := roomNames(got)
	want := []string{"Maple", "Zelkova", "Acacia"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("free rooms = %v, want %v (floor asc, name asc)", names, want)
		}
	}
}

func TestFindFreeTouchingSlotIsFree(t *testing.T) {
	free, bookings, store := newFreeRoomFixture()
	a := store.addRoom("Aurora", 4, 1)

	if _, err := bookings.Create(context.Background(), alice, a.ID, "2026-09-01", "10:00", "11:00"); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	got, err := free.FindFree(context.Background(), "2026-09-01", "11:00", "12:00", repository.RoomFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("room busy for a touching window, want free")
	}
}

func TestFindFreeAfterCancellation(t *testing.T) {
	free, bookings, store := newFreeRoomFixture()
	a := store.addRoom("Aurora", 4, 1)

	b, err := bookings.Create(context.Background(), alice, a.ID, "2026-09-01", "10:00", "11:00")
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	got, _ := free.FindFree(context.Background(), "2026-09-01", "10:00", "11:00", repository.RoomFilter{})
	if len(got) != 0 {
		t.Fatalf("expected no free rooms while booked, got %v", roomNames(got))
	}

	if err := bookings.Delete(context.Background(), alice, b.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	got, _ = free.FindFree(context.Background(), "2026-09-01", "10:00", "11:00", repository.RoomFilter{})
	if len(got) != 1 {
		t.Errorf("room still busy after cancellation")
	}
}

func TestFindFreeAppliesFilter(t *testing.T) {
	free, _, store := newFreeRoomFixture()
	store.addRoom("Small", 2, 1)
	store.addRoom("Large", 12, 1)

	minCap := uint32(10)
	got, err := free.FindFree(context.Background(), "2026-09-01", "10:00", "11:00", repository.RoomFilter{MinCapacity: &minCap})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names := roomNames(got); len(names) != 1 || names[0] != "Large" {
		t.Errorf("filtered free rooms = %v, want [Large]", names)
	}
}

func TestFindFreeInvalidWindow(t *testing.T) {
	free, _, store := newFreeRoomFixture()
	store.addRoom("Aurora", 4, 1)

	if _, err := free.FindFree(context.Background(), "2026-09-01", "11:00", "10:00", repository.RoomFilter{}); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("inverted window error = %v, want ErrInvalidInterval", err)
	}
	if _, err := free.FindFree(context.Background(), "not-a-date", "10:00", "11:00", repository.RoomFilter{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad date error = %v, want ErrInvalidInput", err)
	}
}
