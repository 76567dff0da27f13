package config

import "sort"

func preset(scene string, edit func(c *Config)) *Config {
	c := DefaultConfig()
	c.Scene = scene
	edit(c)
	return c
}

var Presets = map[string]map[string]*Config{
	"rain": {
		"light": preset("rain", func(c *Config) {
			c.Spawn.Count = 8
		}),
		"heavy": preset("rain", func(c *Config) {
			c.Spawn.Count = 40
			c.Spawn.MinRadius, c.Spawn.MaxRadius = 8, 20
			c.Duration = 20
		}),
		"vacuum": preset("rain", func(c *Config) {
			c.Physics.AirDensity = 0
			c.Spawn.Count = 15
		}),
	},
	"collide": {
		"head_on": preset("collide", func(c *Config) {
			c.Physics.Gravity = 0
			c.Physics.AirDensity = 0
			c.Spawn.Count = 0
			c.Bodies = []BodyConfig{
				{X: 200, Y: 300, Radius: 30, Mass: 2, VX: 300},
				{X: 600, Y: 300, Radius: 30, Mass: 2, VX: -300},
			}
		}),
		"glancing": preset("collide", func(c *Config) {
			c.Physics.Gravity = 0
			c.Physics.AirDensity = 0
			c.Spawn.Count = 0
			c.Bodies = []BodyConfig{
				{X: 200, Y: 280, Radius: 30, Mass: 2, VX: 300, Spin: 5},
				{X: 600, Y: 320, Radius: 20, Mass: 1, VX: -300},
			}
		}),
		"heavy_light": preset("collide", func(c *Config) {
			c.Physics.Gravity = 0
			c.Physics.AirDensity = 0
			c.Spawn.Count = 0
			c.Bodies = []BodyConfig{
				{X: 200, Y: 300, Radius: 40, Mass: 10, VX: 150},
				{X: 600, Y: 300, Radius: 15, Mass: 0.5},
			}
		}),
	},
	"spinners": {
		"magnus": preset("spinners", func(c *Config) {
			c.Physics.AirDensity = 0.02
			c.Spawn.Count = 6
			c.Spawn.MaxSpin = 60
		}),
		"calm": preset("spinners", func(c *Config) {
			c.Spawn.Count = 6
			c.Spawn.MaxSpin = 2
		}),
	},
	"pile": {
		"settle": preset("pile", func(c *Config) {
			c.Spawn.Count = 30
			c.Spawn.MaxSpeed = 0
			c.Duration = 30
		}),
		"moon": preset("pile", func(c *Config) {
			c.Physics.Gravity = 1.62
			c.Spawn.Count = 20
			c.Duration = 30
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scene, name string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListScenes() []string {
	scenes := make([]string, 0, len(Presets))
	for scene := range Presets {
		scenes = append(scenes, scene)
	}
	sort.Strings(scenes)
	return scenes
}
