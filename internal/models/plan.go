package models

import (
	"sort"
	"time"
)

// Slot is a single scheduled screening or session on a screen. It is the leaf
// of the plan tree and the only entity with a cross-sibling invariant: no two
// slots on the same screen may overlap in [startTime, endTime).
type Slot struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime,omitempty"`
	Director    string    `json:"director,omitempty"`
	Moderator   string    `json:"moderator,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Screen is a venue screen within a festival day.
type Screen struct {
	ID         string    `json:"id"`
	ScreenName string    `json:"screenName"`
	Slots      []Slot    `json:"slots"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Day is one festival day within a plan.
type Day struct {
	ID        string    `json:"id"`
	DayNumber int       `json:"dayNumber"`
	Date      string    `json:"date"`
	PDFURL    string    `json:"pdfUrl,omitempty"`
	Screens   []Screen  `json:"screens"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Plan is one festival edition's full schedule. It is the aggregate root and
// the unit of persistence: days, screens and slots are embedded and have no
// independent existence. Version backs optimistic concurrency on save.
type Plan struct {
	ID           string    `json:"id"`
	Year         int       `json:"year"`
	FestivalName string    `json:"festivalName"`
	IsVisible    bool      `json:"isVisible"`
	PDFURL       string    `json:"pdfUrl,omitempty"`
	Days         []Day     `json:"days"`
	Version      int       `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FindDay returns the embedded day with the given id, or nil.
func (p *Plan) FindDay(dayID string) *Day {
	for i := range p.Days {
		if p.Days[i].ID == dayID {
			return &p.Days[i]
		}
	}
	return nil
}

// RemoveDay filters the day out of the plan, cascading to its screens and
// slots. Returns false when no day matched.
func (p *Plan) RemoveDay(dayID string) bool {
	for i := range p.Days {
		if p.Days[i].ID == dayID {
			p.Days = append(p.Days[:i], p.Days[i+1:]...)
			return true
		}
	}
	return false
}

// SortedDays returns the days ordered by dayNumber ascending.
func (p *Plan) SortedDays() []Day {
	days := make([]Day, len(p.Days))
	copy(days, p.Days)
	sort.SliceStable(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })
	return days
}

// FindScreen returns the embedded screen with the given id, or nil.
func (d *Day) FindScreen(screenID string) *Screen {
	for i := range d.Screens {
		if d.Screens[i].ID == screenID {
			return &d.Screens[i]
		}
	}
	return nil
}

// RemoveScreen filters the screen out of the day, cascading to its slots.
func (d *Day) RemoveScreen(screenID string) bool {
	for i := range d.Screens {
		if d.Screens[i].ID == screenID {
			d.Screens = append(d.Screens[:i], d.Screens[i+1:]...)
			return true
		}
	}
	return false
}

// FindSlot returns the embedded slot with the given id, or nil.
func (s *Screen) FindSlot(slotID string) *Slot {
	for i := range s.Slots {
		if s.Slots[i].ID == slotID {
			return &s.Slots[i]
		}
	}
	return nil
}

// RemoveSlot filters the slot out of the screen.
func (s *Screen) RemoveSlot(slotID string) bool {
	for i := range s.Slots {
		if s.Slots[i].ID == slotID {
			s.Slots = append(s.Slots[:i], s.Slots[i+1:]...)
			return true
		}
	}
	return false
}

// SortedSlots returns the slots ordered by display order ascending.
func (s *Screen) SortedSlots() []Slot {
	slots := make([]Slot, len(s.Slots))
	copy(slots, s.Slots)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Order < slots[j].Order })
	return slots
}
