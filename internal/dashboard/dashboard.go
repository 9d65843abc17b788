// Package dashboard renders one card per light and refreshes existing cards
// from new snapshots.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/lightdash/internal/card"
	"github.com/dokzlo13/lightdash/internal/light"
	"github.com/dokzlo13/lightdash/internal/ui"
)

// ErrAlreadyBound is reported when Render meets an entity that already has a card.
var ErrAlreadyBound = errors.New("entity already has a card")

// RenderReport summarizes one Render call.
type RenderReport struct {
	Succeeded int
	Failed    int
	Warnings  []error
}

// RefreshReport summarizes one RefreshAll call.
type RefreshReport struct {
	Applied int
	Skipped int
	Failed  int
}

// Dashboard owns every card binding. Cards are kept in an arena keyed by
// card id; byEntity indexes the same cards by entity id.
type Dashboard struct {
	tk     ui.Toolkit
	store  *light.Store
	router *card.Router

	cards    map[uuid.UUID]*card.Binding
	byEntity map[string]uuid.UUID
	order    []uuid.UUID
}

// New creates an empty dashboard.
func New(tk ui.Toolkit, store *light.Store, router *card.Router) *Dashboard {
	return &Dashboard{
		tk:       tk,
		store:    store,
		router:   router,
		cards:    make(map[uuid.UUID]*card.Binding),
		byEntity: make(map[string]uuid.UUID),
	}
}

// Render adds each entity to the store and builds its card inside container.
// A failing entity is logged and skipped; it never stops the rest.
func (d *Dashboard) Render(container ui.Handle, entities []*light.Entity) RenderReport {
	var report RenderReport

	for i, e := range entities {
		id, err := d.renderOne(container, e)
		if err != nil {
			report.Failed++
			report.Warnings = append(report.Warnings, err)
			log.Warn().
				Err(err).
				Int("index", i).
				Msg("Skipping light card")
			continue
		}
		report.Succeeded++
		log.Debug().
			Str("card_id", id.String()).
			Str("entity_id", e.EntityID).
			Str("kind", e.Kind.String()).
			Msg("Card rendered")
	}

	log.Info().
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("Dashboard rendered")
	return report
}

func (d *Dashboard) renderOne(container ui.Handle, e *light.Entity) (uuid.UUID, error) {
	if e == nil {
		return uuid.Nil, &card.ConstructionError{Err: fmt.Errorf("%w: nil entity", light.ErrInvalidEntity)}
	}
	if err := e.Validate(); err != nil {
		return uuid.Nil, &card.ConstructionError{EntityID: e.EntityID, Err: err}
	}
	if _, bound := d.byEntity[e.EntityID]; bound {
		return uuid.Nil, &card.ConstructionError{EntityID: e.EntityID, Err: ErrAlreadyBound}
	}

	if _, err := d.store.Add(*e); err != nil {
		return uuid.Nil, &card.ConstructionError{EntityID: e.EntityID, Err: err}
	}

	b, err := card.New(d.tk, container, d.store, d.router, e.EntityID)
	if err != nil {
		d.unstore(e.EntityID)
		return uuid.Nil, err
	}

	// The card lives exactly as long as its container.
	id := uuid.New()
	if err := d.tk.OnDestroy(b.Controls().Container, func() { d.forget(id) }); err != nil {
		_ = b.Destroy()
		d.unstore(e.EntityID)
		return uuid.Nil, &card.ConstructionError{EntityID: e.EntityID, Err: err}
	}

	d.cards[id] = b
	d.byEntity[e.EntityID] = id
	d.order = append(d.order, id)
	return id, nil
}

// unstore drops an entity added for a card that was never built, so a later
// Render can retry it.
func (d *Dashboard) unstore(entityID string) {
	if err := d.store.Remove(entityID); err != nil {
		log.Warn().Err(err).Str("entity_id", entityID).Msg("Failed to drop entity of unbuilt card")
	}
}

// forget removes a card whose controls are gone. The entity stays in the store.
func (d *Dashboard) forget(id uuid.UUID) {
	b, ok := d.cards[id]
	if !ok {
		return
	}
	delete(d.cards, id)
	delete(d.byEntity, b.EntityID())

	order := make([]uuid.UUID, 0, len(d.order))
	for _, x := range d.order {
		if x != id {
			order = append(order, x)
		}
	}
	d.order = order

	log.Debug().
		Str("card_id", id.String()).
		Str("entity_id", b.EntityID()).
		Msg("Card destroyed with its container")
}

// RefreshAll applies each snapshot to the card bound to its entity id.
// Snapshots without a card are ignored; no card is created on refresh.
func (d *Dashboard) RefreshAll(entities []light.Entity) RefreshReport {
	var report RefreshReport

	for _, e := range entities {
		b := d.CardFor(e.EntityID)
		if b == nil {
			report.Skipped++
			log.Debug().Str("entity_id", e.EntityID).Msg("No card for refreshed light, ignoring")
			continue
		}
		if err := b.Apply(e); err != nil {
			report.Failed++
			log.Warn().Err(err).Str("entity_id", e.EntityID).Msg("Failed to refresh card")
			continue
		}
		report.Applied++
	}

	log.Debug().
		Int("applied", report.Applied).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("Dashboard refreshed")
	return report
}

// Card returns the binding with the given card id, or nil.
func (d *Dashboard) Card(id uuid.UUID) *card.Binding {
	return d.cards[id]
}

// CardFor returns the binding for an entity id, or nil.
func (d *Dashboard) CardFor(entityID string) *card.Binding {
	id, ok := d.byEntity[entityID]
	if !ok {
		return nil
	}
	return d.cards[id]
}

// Cards returns the bindings in render order.
func (d *Dashboard) Cards() []*card.Binding {
	out := make([]*card.Binding, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.cards[id])
	}
	return out
}

// BoundIDs returns the entity ids that have a card, in render order.
func (d *Dashboard) BoundIDs() []string {
	out := make([]string, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.cards[id].EntityID())
	}
	return out
}

// Len returns the number of cards.
func (d *Dashboard) Len() int {
	return len(d.order)
}

// Close destroys every card. Entities stay in the store.
func (d *Dashboard) Close() {
	// Destroying a card removes it from d.order.
	for _, id := range append([]uuid.UUID(nil), d.order...) {
		if err := d.cards[id].Destroy(); err != nil {
			log.Warn().Err(err).Str("card_id", id.String()).Msg("Failed to destroy card")
		}
	}
	d.cards = make(map[uuid.UUID]*card.Binding)
	d.byEntity = make(map[string]uuid.UUID)
	d.order = nil
}
