package light

// Samples returns the demonstration lights shown when nothing is configured.
func Samples() []Entity {
	return []Entity{
		{
			Name:       "Living Room",
			EntityID:   "light.living_room",
			Kind:       KindSwitch,
			Brightness: 128,
		},
		{
			Name:       "Bedroom",
			EntityID:   "light.bedroom",
			Kind:       KindSwitch,
			IsOn:       true,
			Brightness: 200,
		},
		{
			Name:       "Kitchen RGB",
			EntityID:   "light.kitchen_rgb",
			Kind:       KindColorCCT,
			IsOn:       true,
			Brightness: 255,
			Color:      RGB{R: 255, G: 100, B: 50},
			ColorTemp:  4000,
		},
		{
			Name:       "Office Color",
			EntityID:   "light.office_color",
			Kind:       KindColorCCT,
			Brightness: 150,
			Color:      RGB{R: 50, G: 150, B: 255},
			ColorTemp:  5000,
		},
	}
}
