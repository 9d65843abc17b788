package app

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/lightdash/internal/card"
	"github.com/dokzlo13/lightdash/internal/config"
	"github.com/dokzlo13/lightdash/internal/dashboard"
	"github.com/dokzlo13/lightdash/internal/gateway"
	"github.com/dokzlo13/lightdash/internal/light"
	"github.com/dokzlo13/lightdash/internal/loop"
	"github.com/dokzlo13/lightdash/internal/ui/headless"
)

// UIService owns the UI loop and everything confined to it: the widget
// tree, the entity store and the dashboard.
type UIService struct {
	cfg *config.Config

	Loop      *loop.Loop
	Toolkit   *headless.Toolkit
	Store     *light.Store
	Dashboard *dashboard.Dashboard

	// Loop-confined
	report   dashboard.RenderReport
	commands CommandStats
}

// CommandStats counts outbound command outcomes.
type CommandStats struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// NewUIService creates the UI side. Nothing runs until Start.
func NewUIService(cfg *config.Config, sink gateway.Sink) *UIService {
	tk := headless.New()
	store := light.NewStore()

	return &UIService{
		cfg:       cfg,
		Loop:      loop.New(),
		Toolkit:   tk,
		Store:     store,
		Dashboard: dashboard.New(tk, store, card.NewRouter(store, sink)),
	}
}

// Start runs the loop and renders the configured lights on it.
func (s *UIService) Start(ctx context.Context) error {
	go s.Loop.Run(ctx)

	entities, errs := s.cfg.Entities()
	for _, err := range errs {
		log.Warn().Err(err).Msg("Invalid light in configuration")
	}

	return s.Loop.DoSyncWithResult(ctx, func(context.Context) error {
		root, err := s.Toolkit.CreateContainer(0)
		if err != nil {
			return err
		}
		if _, err := s.Toolkit.CreateLabel(root, s.cfg.Dashboard.Title); err != nil {
			return err
		}
		s.report = s.Dashboard.Render(root, entities)
		return nil
	})
}

// OnCommandResult records a dispatcher result. It is called from dispatcher
// workers and hops onto the loop.
func (s *UIService) OnCommandResult(r gateway.Result) {
	s.Loop.Do(context.Background(), func(context.Context) {
		if r.Err != nil {
			s.commands.Failed++
			return
		}
		s.commands.Succeeded++
	})
}

// Refresh applies snapshots on the loop.
func (s *UIService) Refresh(ctx context.Context, snapshots []light.Entity) error {
	return s.Loop.DoSyncWithResult(ctx, func(context.Context) error {
		s.Dashboard.RefreshAll(snapshots)
		return nil
	})
}

// BoundIDs returns the entity ids that have cards.
func (s *UIService) BoundIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.Loop.DoSyncWithResult(ctx, func(context.Context) error {
		ids = s.Dashboard.BoundIDs()
		return nil
	})
	return ids, err
}

// CardStatus is the externally visible state of one card.
type CardStatus struct {
	EntityID   string `json:"entity_id"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	On         bool   `json:"on"`
	Brightness int    `json:"brightness_percent"`
	Color      string `json:"color,omitempty"`
	ColorTemp  int    `json:"color_temp,omitempty"`
}

// Snapshot is the dashboard summary served by the health endpoint.
type Snapshot struct {
	Mode     string       `json:"mode"`
	Title    string       `json:"title"`
	Rendered int          `json:"rendered"`
	Failed   int          `json:"failed"`
	Commands CommandStats `json:"commands"`
	Cards    []CardStatus `json:"cards"`
}

// Snapshot collects the dashboard summary on the loop. Mode is left for
// the caller.
func (s *UIService) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.Loop.DoSyncWithResult(ctx, func(context.Context) error {
		snap = Snapshot{
			Title:    s.cfg.Dashboard.Title,
			Rendered: s.report.Succeeded,
			Failed:   s.report.Failed,
			Commands: s.commands,
			Cards:    make([]CardStatus, 0, s.Dashboard.Len()),
		}
		for _, b := range s.Dashboard.Cards() {
			e, err := b.Entity()
			if err != nil {
				return err
			}
			status := CardStatus{
				EntityID:   e.EntityID,
				Name:       e.Name,
				Kind:       e.Kind.String(),
				On:         e.IsOn,
				Brightness: light.BrightnessPercent(e.Brightness),
			}
			if e.Kind.HasColor() {
				status.Color = e.Color.Hex()
				status.ColorTemp = e.ColorTemp
			}
			snap.Cards = append(snap.Cards, status)
		}
		return nil
	})
	return snap, err
}

// Dump writes the widget tree to w from the loop.
func (s *UIService) Dump(ctx context.Context, w io.Writer) error {
	return s.Loop.DoSyncWithResult(ctx, func(context.Context) error {
		return s.Toolkit.Dump(w)
	})
}

// Report returns the render report. Call only after Start has returned.
func (s *UIService) Report(ctx context.Context) (dashboard.RenderReport, error) {
	var report dashboard.RenderReport
	err := s.Loop.DoSyncWithResult(ctx, func(context.Context) error {
		report = s.report
		return nil
	})
	return report, err
}

// Close stops the loop after it drains and waits for it to exit.
func (s *UIService) Close(ctx context.Context) {
	s.Loop.Close()
	select {
	case <-s.Loop.Done():
	case <-ctx.Done():
		log.Warn().Msg("UI loop shutdown timed out")
	}
}
