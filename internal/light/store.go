package light

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey is returned when adding an entity whose id is already stored.
	ErrDuplicateKey = errors.New("duplicate entity id")
	// ErrNotFound is returned for operations on an unknown entity id.
	ErrNotFound = errors.New("entity not found")
	// ErrIdentityMismatch is returned when a replacement carries a different id.
	ErrIdentityMismatch = errors.New("entity id does not match key")
)

// Store is an ordered collection of light entities keyed by entity id.
//
// Store does no locking: it is confined to the UI loop, which is the only
// goroutine that reads or mutates entities.
type Store struct {
	order    []string
	entities map[string]*Entity
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entities: make(map[string]*Entity),
	}
}

// Add inserts a copy of e and returns its id.
func (s *Store) Add(e Entity) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	if _, ok := s.entities[e.EntityID]; ok {
		return "", fmt.Errorf("%w: %s", ErrDuplicateKey, e.EntityID)
	}

	stored := e
	s.entities[e.EntityID] = &stored
	s.order = append(s.order, e.EntityID)
	return e.EntityID, nil
}

// Get returns a copy of the entity stored under id.
func (s *Store) Get(id string) (Entity, error) {
	e, ok := s.entities[id]
	if !ok {
		return Entity{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *e, nil
}

// Replace overwrites the entity stored under id. Last write wins; there is
// no field-level merge.
func (s *Store) Replace(id string, e Entity) error {
	current, ok := s.entities[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if e.EntityID != id {
		return fmt.Errorf("%w: key %s, entity %s", ErrIdentityMismatch, id, e.EntityID)
	}
	if err := e.Validate(); err != nil {
		return err
	}
	*current = e
	return nil
}

// Remove deletes the entity stored under id.
func (s *Store) Remove(id string) error {
	if _, ok := s.entities[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.entities, id)
	for i, x := range s.order {
		if x == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Update applies modify to the stored entity in place.
// The entity id cannot be changed through modify.
func (s *Store) Update(id string, modify func(e *Entity)) error {
	current, ok := s.entities[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	modify(current)
	current.EntityID = id
	return nil
}

// Has reports whether id is stored.
func (s *Store) Has(id string) bool {
	_, ok := s.entities[id]
	return ok
}

// IDs returns entity ids in insertion order.
func (s *Store) IDs() []string {
	return append([]string(nil), s.order...)
}

// All returns copies of all entities in insertion order.
func (s *Store) All() []Entity {
	out := make([]Entity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.entities[id])
	}
	return out
}

// Len returns the number of stored entities.
func (s *Store) Len() int {
	return len(s.order)
}
