package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dokzlo13/lightdash/internal/config"
	"github.com/dokzlo13/lightdash/internal/gateway"
	"github.com/dokzlo13/lightdash/internal/gateway/gatewaytest"
	"github.com/dokzlo13/lightdash/internal/light"
)

func testConfig(t *testing.T, script string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Gateway.URL = "http://ha.local:8123"
	cfg.Gateway.Token = "token"
	if script != "" {
		cfg.Script = filepath.Join(t.TempDir(), "test.lua")
		if err := os.WriteFile(cfg.Script, []byte(script), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return cfg
}

func startCore(t *testing.T, s *Services) {
	t.Helper()
	t.Cleanup(s.Close)
	if err := s.StartCore(context.Background()); err != nil {
		t.Fatalf("StartCore() error = %v", err)
	}
}

func TestOnce_DumpsSampleDashboard(t *testing.T) {
	cfg := testConfig(t, "")
	a := New(cfg)
	t.Cleanup(func() { a.Stop() })

	var out bytes.Buffer
	if err := a.Once(context.Background(), &out); err != nil {
		t.Fatalf("Once() error = %v", err)
	}

	dump := out.String()
	for _, want := range []string{
		`"Home Assistant Light Dashboard"`,
		`"Living Room"`,
		`"Office Color"`,
		`"100%"`,
		`(range 4000 in [2000,6500])`,
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump lacks %s:\n%s", want, dump)
		}
	}
	if mode := a.services.Gateway.Mode(); mode != "online" {
		t.Errorf("mode = %s, want online", mode)
	}
}

func TestStartCore_DisplayOnlyWhenInitFails(t *testing.T) {
	cfg := testConfig(t, `require("panel").toggle("light.bedroom", false)`)
	rec := gatewaytest.New()
	rec.InitErr = gateway.ErrAuth
	s := newServicesWithGateway(cfg, rec)
	startCore(t, s)

	if mode := s.Gateway.Mode(); mode != "display-only" {
		t.Fatalf("mode = %s, want display-only", mode)
	}

	snap, err := s.UI.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Rendered != 4 || snap.Failed != 0 {
		t.Errorf("rendered %d, failed %d; want 4 and 0", snap.Rendered, snap.Failed)
	}
	if snap.Commands.Failed != 1 || snap.Commands.Succeeded != 0 {
		t.Errorf("commands = %+v, want one failure", snap.Commands)
	}
	if len(rec.Commands()) != 0 {
		t.Error("offline command reached the gateway")
	}

	bedroom, _ := s.UI.Store.Get("light.bedroom")
	if bedroom.IsOn {
		t.Error("display-only mode rolled back the local change")
	}
}

func TestStartCore_ScriptCommandsReachGateway(t *testing.T) {
	cfg := testConfig(t, `
		local panel = require("panel")
		panel.brightness("light.kitchen_rgb", 64)
		panel.color("light.kitchen_rgb", 0, 0, 255)
	`)
	rec := gatewaytest.New()
	s := newServicesWithGateway(cfg, rec)
	startCore(t, s)

	// Draining the dispatcher delivers every result onto the loop
	s.Gateway.Close()

	cmds := rec.Commands()
	if len(cmds) != 2 {
		t.Fatalf("gateway saw %d commands, want 2: %+v", len(cmds), cmds)
	}
	ops := map[gateway.Op]bool{cmds[0].Op: true, cmds[1].Op: true}
	if !ops[gateway.OpSetBrightness] || !ops[gateway.OpSetColor] {
		t.Errorf("ops = %v", ops)
	}

	snap, err := s.UI.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Commands.Succeeded != 2 {
		t.Errorf("commands = %+v, want 2 succeeded", snap.Commands)
	}
}

func TestStartCore_ScriptErrorIsReturned(t *testing.T) {
	cfg := testConfig(t, `error("boom")`)
	s := newServicesWithGateway(cfg, gatewaytest.New())
	t.Cleanup(s.Close)

	if err := s.StartCore(context.Background()); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("StartCore() error = %v, want script failure", err)
	}
}

func TestStartCore_MissingScript(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Script = filepath.Join(t.TempDir(), "nope.lua")
	s := newServicesWithGateway(cfg, gatewaytest.New())
	t.Cleanup(s.Close)

	if err := s.StartCore(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("StartCore() error = %v, want ErrNotExist", err)
	}
}

func TestRefreshOnce(t *testing.T) {
	cfg := testConfig(t, "")
	rec := gatewaytest.New()
	remote := light.Samples()[1]
	remote.IsOn = false
	remote.Brightness = 20
	rec.SetRemote(remote)

	s := newServicesWithGateway(cfg, rec)
	startCore(t, s)

	if err := s.Refresh.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("RefreshOnce() error = %v", err)
	}

	snap, err := s.UI.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var bedroom CardStatus
	for _, c := range snap.Cards {
		if c.EntityID == "light.bedroom" {
			bedroom = c
		}
	}
	if bedroom.On || bedroom.Brightness != 7 {
		t.Errorf("bedroom card = %+v, want off at 7%%", bedroom)
	}
	if len(rec.Commands()) != 0 {
		t.Error("refresh issued commands")
	}
}

func TestHealthHandler(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Lights = []config.LightConfig{
		{Name: "Desk", EntityID: "light.desk", Kind: "color_cct", On: true, Brightness: 255, Color: []int{255, 100, 50}, ColorTemp: 4000},
		{Name: "Broken", EntityID: "light.broken", Kind: "lava"},
	}
	s := newServicesWithGateway(cfg, gatewaytest.New())
	startCore(t, s)

	srv := httptest.NewServer(s.Health.Handler())
	defer srv.Close()

	for _, path := range []string{"/health", "/ready"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d", path, resp.StatusCode)
		}
	}

	resp, err := http.Get(srv.URL + "/cards")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode /cards: %v", err)
	}
	if snap.Mode != "online" || snap.Rendered != 1 || snap.Failed != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Cards) != 1 || snap.Cards[0].Color != "#ff6432" || snap.Cards[0].Brightness != 100 {
		t.Errorf("cards = %+v", snap.Cards)
	}
}
