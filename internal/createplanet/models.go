package createplanet

import "spaceapp/internal/resource"

// CreatePlanet holds the generation parameters of a custom planet built in
// the front-end editor.
type CreatePlanet struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Seed           float64 `json:"seed"`
	PlanetSize     float64 `json:"planet_size"`
	OrbitRadius    float64 `json:"orbit_radius"`
	AxialTilt      float64 `json:"axial_tilt"`
	OrbitSpeed     float64 `json:"orbit_speed"`
	WaterThreshold float64 `json:"water_threshold"`
	ShowRings      float64 `json:"show_rings"` // numeric flag, 1 or 0
	ColorMode      string  `json:"color_mode"`
	GasType        string  `json:"gas_type"`
}

var Schema = resource.NewSchema("create_planet", "create_planets",
	func(c *CreatePlanet) *int64 { return &c.ID },
	resource.StringField("name", 100, func(c *CreatePlanet) *string { return &c.Name }),
	resource.FloatField("seed", func(c *CreatePlanet) *float64 { return &c.Seed }),
	resource.FloatField("planet_size", func(c *CreatePlanet) *float64 { return &c.PlanetSize }),
	resource.FloatField("orbit_radius", func(c *CreatePlanet) *float64 { return &c.OrbitRadius }),
	resource.FloatField("axial_tilt", func(c *CreatePlanet) *float64 { return &c.AxialTilt }),
	resource.FloatField("orbit_speed", func(c *CreatePlanet) *float64 { return &c.OrbitSpeed }),
	resource.FloatField("water_threshold", func(c *CreatePlanet) *float64 { return &c.WaterThreshold }),
	resource.FloatField("show_rings", func(c *CreatePlanet) *float64 { return &c.ShowRings }),
	resource.StringField("color_mode", 100, func(c *CreatePlanet) *string { return &c.ColorMode }),
	resource.StringField("gas_type", 100, func(c *CreatePlanet) *string { return &c.GasType }),
)
