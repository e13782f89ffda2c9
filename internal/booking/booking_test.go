package booking_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fernside/pawbase/internal/apperr"
	"github.com/fernside/pawbase/internal/booking"
	"github.com/fernside/pawbase/internal/testutil"
)

func testService(t *testing.T) *booking.Service {
	t.Helper()
	return booking.NewService(testutil.TestDB(t))
}

func TestBookAndListSlots(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	slot, err := svc.AddSlot(ctx, "Saturday morning", time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC), 3)
	if err != nil {
		t.Fatalf("AddSlot: %v", err)
	}

	b, err := svc.Book(ctx, slot.ID, "Ada Barker", "ada@pawbase.test")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if b.SlotID != slot.ID || b.Email != "ada@pawbase.test" {
		t.Errorf("booking = %+v", b)
	}

	slots, err := svc.ListSlots(ctx)
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("len(slots) = %d, want 1", len(slots))
	}
	if slots[0].PlacesLeft != 2 {
		t.Errorf("places_left = %d, want 2", slots[0].PlacesLeft)
	}
}

func TestBookDuplicateEmail(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	slot, err := svc.AddSlot(ctx, "slot", time.Now().Add(24*time.Hour), 5)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Book(ctx, slot.ID, "Ada", "ada@pawbase.test"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Book(ctx, slot.ID, "Ada Again", "ada@pawbase.test"); !errors.Is(err, apperr.ErrAlreadyBooked) {
		t.Errorf("duplicate booking err = %v, want ErrAlreadyBooked", err)
	}

	slots, err := svc.ListSlots(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if slots[0].PlacesLeft != 4 {
		t.Errorf("places_left = %d after rejected duplicate, want 4", slots[0].PlacesLeft)
	}
}

func TestBookSlotFull(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	slot, err := svc.AddSlot(ctx, "tiny", time.Now().Add(24*time.Hour), 2)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.Book(ctx, slot.ID, "Guest", fmt.Sprintf("g%d@pawbase.test", i)); err != nil {
			t.Fatalf("booking %d: %v", i, err)
		}
	}
	if _, err := svc.Book(ctx, slot.ID, "Late", "late@pawbase.test"); !errors.Is(err, apperr.ErrSlotFull) {
		t.Errorf("over-capacity err = %v, want ErrSlotFull", err)
	}
}

func TestBookUnknownSlot(t *testing.T) {
	svc := testService(t)
	if _, err := svc.Book(context.Background(), "no-such-slot", "A", "a@pawbase.test"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBookValidation(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	cases := []struct{ slot, name, email string }{
		{"", "A", "a@x"},
		{"s", "", "a@x"},
		{"s", "A", ""},
	}
	for i, tc := range cases {
		if _, err := svc.Book(ctx, tc.slot, tc.name, tc.email); !apperr.IsValidation(err) {
			t.Errorf("case %d: err = %v, want ValidationError", i, err)
		}
	}
}

func TestListSlotsOrderedByStart(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	base := time.Date(2026, 9, 5, 9, 0, 0, 0, time.UTC)

	if _, err := svc.AddSlot(ctx, "late", base.Add(4*time.Hour), 3); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddSlot(ctx, "early", base, 3); err != nil {
		t.Fatal(err)
	}

	slots, err := svc.ListSlots(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 2 || slots[0].Label != "early" || slots[1].Label != "late" {
		t.Errorf("slots out of order: %+v", slots)
	}
}
