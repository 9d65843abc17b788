package card

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/lightdash/internal/gateway"
	"github.com/dokzlo13/lightdash/internal/light"
)

// Router turns control interactions into an entity mutation followed by
// exactly one outbound command.
//
// Local state is optimistic: the mutation stays applied whatever happens to
// the command, and nothing is rolled back or retried.
type Router struct {
	store *light.Store
	sink  gateway.Sink
}

// NewRouter creates a router that mutates store and submits commands to sink.
func NewRouter(store *light.Store, sink gateway.Sink) *Router {
	return &Router{store: store, sink: sink}
}

func (r *Router) power(b *Binding, on bool) {
	if !r.mutate(b, func(e *light.Entity) { e.IsOn = on }) {
		return
	}
	if err := b.showPower(on); err != nil {
		log.Warn().Err(err).Str("entity_id", b.entityID).Msg("Failed to update status label")
	}
	r.submit(gateway.Power(b.entityID, on))
}

func (r *Router) brightness(b *Binding, value int) {
	bri := light.ClampBrightness(value)
	if !r.mutate(b, func(e *light.Entity) { e.Brightness = bri }) {
		return
	}
	if err := b.showBrightness(bri); err != nil {
		log.Warn().Err(err).Str("entity_id", b.entityID).Msg("Failed to update brightness label")
	}
	r.submit(gateway.Brightness(b.entityID, bri))
}

func (r *Router) color(b *Binding, c colorful.Color) {
	rgb := fromColorful(c)
	if !r.mutate(b, func(e *light.Entity) { e.Color = rgb }) {
		return
	}
	r.submit(gateway.Color(b.entityID, rgb))
}

func (r *Router) colorTemp(b *Binding, kelvin int) {
	if !r.mutate(b, func(e *light.Entity) { e.ColorTemp = kelvin }) {
		return
	}
	r.submit(gateway.ColorTemp(b.entityID, kelvin))
}

func (r *Router) mutate(b *Binding, modify func(e *light.Entity)) bool {
	if err := r.store.Update(b.entityID, modify); err != nil {
		log.Error().Err(err).Str("entity_id", b.entityID).Msg("Bound entity missing from store")
		return false
	}
	return true
}

func (r *Router) submit(cmd gateway.Command) {
	// Sinks log their own failures.
	_ = r.sink.Submit(cmd)
}
