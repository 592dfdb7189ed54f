package config

// Presets are named flick strengths, tuned so each settles with a visibly
// different character on the live wheel.
var Presets = map[string]*Config{
	"nudge": {
		Label: "nudge", Velocity: 0.5,
	},
	"flick": {
		Label: "flick", Velocity: 12.0,
	},
	"spin": {
		Label: "spin", Velocity: 40.0,
	},
	"rip": {
		Label: "rip", Velocity: 120.0,
	},
	"backspin": {
		Label: "backspin", Velocity: -12.0,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
