package light

import (
	"errors"
	"testing"
)

func kitchen() Entity {
	return Entity{
		Name:       "Kitchen RGB",
		EntityID:   "light.kitchen_rgb",
		Kind:       KindColorCCT,
		IsOn:       true,
		Brightness: 255,
		Color:      RGB{R: 255, G: 100, B: 50},
		ColorTemp:  4000,
	}
}

func TestStore_AddDuplicate(t *testing.T) {
	s := NewStore()

	id, err := s.Add(kitchen())
	if err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	if id != "light.kitchen_rgb" {
		t.Errorf("Add() id = %q, want %q", id, "light.kitchen_rgb")
	}

	dup := kitchen()
	dup.Name = "Other"
	if _, err := s.Add(dup); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("second Add() error = %v, want ErrDuplicateKey", err)
	}

	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	got, _ := s.Get("light.kitchen_rgb")
	if got.Name != "Kitchen RGB" {
		t.Errorf("stored name = %q, duplicate insert must not overwrite", got.Name)
	}
}

func TestStore_AddInvalid(t *testing.T) {
	tests := []struct {
		name   string
		entity Entity
	}{
		{"empty_id", Entity{Name: "x", Kind: KindSwitch}},
		{"empty_name", Entity{EntityID: "light.x", Kind: KindSwitch}},
		{"unknown_kind", Entity{Name: "x", EntityID: "light.x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			if _, err := s.Add(tt.entity); !errors.Is(err, ErrInvalidEntity) {
				t.Errorf("Add() error = %v, want ErrInvalidEntity", err)
			}
			if s.Len() != 0 {
				t.Errorf("Len() = %d, want 0", s.Len())
			}
		})
	}
}

func TestStore_GetNotFound(t *testing.T) {
	s := NewStore()
	if _, err := s.Get("light.nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add(kitchen())

	got, _ := s.Get("light.kitchen_rgb")
	got.Brightness = 1

	again, _ := s.Get("light.kitchen_rgb")
	if again.Brightness != 255 {
		t.Errorf("mutating a copy changed the store: brightness = %d", again.Brightness)
	}
}

func TestStore_Replace(t *testing.T) {
	s := NewStore()
	s.Add(kitchen())

	next := kitchen()
	next.IsOn = false
	next.ColorTemp = 9000
	next.Name = "Kitchen"
	if err := s.Replace(next.EntityID, next); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	got, _ := s.Get(next.EntityID)
	if got != next {
		t.Errorf("Get() after Replace = %+v, want %+v", got, next)
	}
}

func TestStore_ReplaceErrors(t *testing.T) {
	s := NewStore()
	s.Add(kitchen())

	if err := s.Replace("light.nope", kitchen()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replace(unknown) error = %v, want ErrNotFound", err)
	}

	other := kitchen()
	other.EntityID = "light.other"
	if err := s.Replace("light.kitchen_rgb", other); !errors.Is(err, ErrIdentityMismatch) {
		t.Errorf("Replace(mismatch) error = %v, want ErrIdentityMismatch", err)
	}
}

func TestStore_ReplaceInvalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(e *Entity)
	}{
		{"empty_name", func(e *Entity) { e.Name = "" }},
		{"unknown_kind", func(e *Entity) { e.Kind = KindUnknown }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.Add(kitchen())

			next := kitchen()
			tt.modify(&next)
			if err := s.Replace(next.EntityID, next); !errors.Is(err, ErrInvalidEntity) {
				t.Errorf("Replace() error = %v, want ErrInvalidEntity", err)
			}
			if got, _ := s.Get(next.EntityID); got != kitchen() {
				t.Errorf("rejected Replace changed the entity: %+v", got)
			}
		})
	}
}

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	s.Add(kitchen())
	other := kitchen()
	other.EntityID = "light.other"
	s.Add(other)

	if err := s.Remove("light.kitchen_rgb"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if s.Has("light.kitchen_rgb") || s.Len() != 1 || s.IDs()[0] != "light.other" {
		t.Errorf("after Remove: ids = %v", s.IDs())
	}
	if err := s.Remove("light.kitchen_rgb"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove() error = %v, want ErrNotFound", err)
	}
	if _, err := s.Add(kitchen()); err != nil {
		t.Errorf("Add() after Remove error = %v", err)
	}
}

func TestStore_UpdateKeepsOtherFields(t *testing.T) {
	s := NewStore()
	s.Add(kitchen())

	err := s.Update("light.kitchen_rgb", func(e *Entity) {
		e.Brightness = 10
		e.EntityID = "light.renamed"
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	want := kitchen()
	want.Brightness = 10
	got, _ := s.Get("light.kitchen_rgb")
	if got != want {
		t.Errorf("Update() result = %+v, want %+v", got, want)
	}
}

func TestStore_Order(t *testing.T) {
	s := NewStore()
	for _, e := range Samples() {
		if _, err := s.Add(e); err != nil {
			t.Fatalf("Add(%s) error = %v", e.EntityID, err)
		}
	}

	ids := s.IDs()
	want := []string{"light.living_room", "light.bedroom", "light.kitchen_rgb", "light.office_color"}
	if len(ids) != len(want) {
		t.Fatalf("IDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("IDs()[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}
