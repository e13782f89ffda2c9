// Package booking manages open-day slots and their capacity-limited
// bookings: one booking per email per slot, enforced by a unique
// constraint with the capacity check run in the same transaction.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fernside/pawbase/internal/apperr"
	"github.com/fernside/pawbase/internal/store"
)

// Slot is an open-day time slot with its remaining capacity.
type Slot struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	StartsAt   time.Time `json:"starts_at"`
	Capacity   int       `json:"capacity"`
	PlacesLeft int       `json:"places_left"`
}

// Booking is a confirmed reservation for a slot.
type Booking struct {
	ID        string    `json:"id"`
	SlotID    string    `json:"slot_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Service runs slot and booking queries against the store.
type Service struct {
	db *store.DB
}

// NewService creates a booking service.
func NewService(db *store.DB) *Service {
	return &Service{db: db}
}

// AddSlot registers an open-day slot. Used by seeding and tests.
func (s *Service) AddSlot(ctx context.Context, label string, startsAt time.Time, capacity int) (*Slot, error) {
	slot := &Slot{
		ID:         uuid.NewString(),
		Label:      label,
		StartsAt:   startsAt,
		Capacity:   capacity,
		PlacesLeft: capacity,
	}
	_, err := s.db.Conn().ExecContext(ctx,
		"INSERT INTO open_day_slots (id, label, starts_at, capacity) VALUES (?, ?, ?, ?)",
		slot.ID, slot.Label, slot.StartsAt.UTC().Format(time.RFC3339Nano), slot.Capacity)
	if err != nil {
		return nil, fmt.Errorf("booking: add slot: %w", err)
	}
	return slot, nil
}

// ListSlots returns all slots ordered by start time, with places_left
// computed from the current booking count.
func (s *Service) ListSlots(ctx context.Context) ([]Slot, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT s.id, s.label, s.starts_at, s.capacity,
		       s.capacity - COUNT(b.id)
		FROM open_day_slots s
		LEFT JOIN open_day_bookings b ON b.slot_id = s.id
		GROUP BY s.id
		ORDER BY s.starts_at
	`)
	if err != nil {
		return nil, fmt.Errorf("booking: list slots: %w", err)
	}
	defer rows.Close()

	slots := make([]Slot, 0)
	for rows.Next() {
		var sl Slot
		var startsAt string
		if err := rows.Scan(&sl.ID, &sl.Label, &startsAt, &sl.Capacity, &sl.PlacesLeft); err != nil {
			return nil, fmt.Errorf("booking: scan slot: %w", err)
		}
		sl.StartsAt, _ = time.Parse(time.RFC3339Nano, startsAt)
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}

// Book reserves a place in a slot. The capacity check and the insert run
// in one transaction; the UNIQUE(slot_id, email) constraint is the
// authoritative duplicate signal.
func (s *Service) Book(ctx context.Context, slotID, fullName, email string) (*Booking, error) {
	if slotID == "" {
		return nil, apperr.Validation("slot_id")
	}
	if fullName == "" {
		return nil, apperr.Validation("full_name")
	}
	if email == "" {
		return nil, apperr.Validation("email")
	}

	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("booking: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var capacity, taken int
	err = tx.QueryRowContext(ctx, `
		SELECT s.capacity, COUNT(b.id)
		FROM open_day_slots s
		LEFT JOIN open_day_bookings b ON b.slot_id = s.id
		WHERE s.id = ?
		GROUP BY s.id
	`, slotID).Scan(&capacity, &taken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("booking: check availability: %w", err)
	}
	if taken >= capacity {
		return nil, apperr.ErrSlotFull
	}

	b := &Booking{
		ID:        uuid.NewString(),
		SlotID:    slotID,
		FullName:  fullName,
		Email:     email,
		CreatedAt: time.Now(),
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO open_day_bookings (id, slot_id, full_name, email, created_at) VALUES (?, ?, ?, ?, ?)",
		b.ID, b.SlotID, b.FullName, b.Email, b.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, apperr.ErrAlreadyBooked
		}
		return nil, fmt.Errorf("booking: insert booking: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("booking: commit: %w", err)
	}
	return b, nil
}
