package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ServiceCall is the Home Assistant service invocation a command maps to.
type ServiceCall struct {
	Domain  string
	Service string
	Data    map[string]any
}

// Path returns the REST path of the service, relative to the base URL.
func (s ServiceCall) Path() string {
	return fmt.Sprintf("/api/services/%s/%s", s.Domain, s.Service)
}

// Body returns the JSON request body.
func (s ServiceCall) Body() ([]byte, error) {
	body, err := json.Marshal(s.Data)
	if err != nil {
		return nil, fmt.Errorf("marshaling service data: %w", err)
	}
	return body, nil
}

// StatePath returns the REST path that reads an entity's state.
func StatePath(entityID string) string {
	return "/api/states/" + entityID
}

// ServiceFor maps a command onto the service call that would carry it.
// Calls go to the entity's own domain. Only the light domain takes
// brightness and colour attributes.
func ServiceFor(cmd Command) (ServiceCall, error) {
	data := map[string]any{"entity_id": cmd.EntityID}

	// Determine entity domain from entity_id (e.g., "switch.porch" -> "switch")
	entityDomain := "light"
	if parts := strings.SplitN(cmd.EntityID, ".", 2); len(parts) == 2 && parts[0] != "" {
		entityDomain = parts[0]
	}
	attributes := entityDomain == "light"

	switch cmd.Op {
	case OpSetPower:
		if cmd.On {
			return ServiceCall{Domain: entityDomain, Service: "turn_on", Data: data}, nil
		}
		return ServiceCall{Domain: entityDomain, Service: "turn_off", Data: data}, nil

	case OpSetBrightness, OpSetColor, OpSetColorTemp:
		if !attributes {
			return ServiceCall{}, fmt.Errorf("%w: %s on %s", ErrUnsupported, cmd.Op, cmd.EntityID)
		}
		switch cmd.Op {
		case OpSetBrightness:
			data["brightness"] = int(cmd.Brightness)
		case OpSetColor:
			data["rgb_color"] = []int{int(cmd.Color.R), int(cmd.Color.G), int(cmd.Color.B)}
		case OpSetColorTemp:
			data["kelvin"] = cmd.Kelvin
		}
		return ServiceCall{Domain: entityDomain, Service: "turn_on", Data: data}, nil

	case OpSetState:
		if !cmd.State.IsOn {
			return ServiceCall{Domain: entityDomain, Service: "turn_off", Data: data}, nil
		}
		if attributes {
			data["brightness"] = int(cmd.State.Brightness)
			// turn_on accepts one colour mode per call; rgb wins over kelvin.
			if cmd.State.Kind.HasColor() {
				c := cmd.State.Color
				data["rgb_color"] = []int{int(c.R), int(c.G), int(c.B)}
			}
		}
		return ServiceCall{Domain: entityDomain, Service: "turn_on", Data: data}, nil

	default:
		return ServiceCall{}, fmt.Errorf("unknown command op %q", cmd.Op)
	}
}
