package planet

import "spaceapp/internal/resource"

type Planet struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Diameter           float64 `json:"diameter"`
	Mass               float64 `json:"mass"`
	Gravity            float64 `json:"gravity"`
	OrbitalPeriod      float64 `json:"orbital_period"`
	AverageTemperature float64 `json:"average_temperature"`
	Distance           float64 `json:"distance"`
}

// Schema is the wire and storage contract of the planets table.
var Schema = resource.NewSchema("planet", "planets",
	func(p *Planet) *int64 { return &p.ID },
	resource.StringField("name", 100, func(p *Planet) *string { return &p.Name }),
	resource.FloatField("diameter", func(p *Planet) *float64 { return &p.Diameter }),
	resource.FloatField("mass", func(p *Planet) *float64 { return &p.Mass }),
	resource.FloatField("gravity", func(p *Planet) *float64 { return &p.Gravity }),
	resource.FloatField("orbital_period", func(p *Planet) *float64 { return &p.OrbitalPeriod }),
	resource.FloatField("average_temperature", func(p *Planet) *float64 { return &p.AverageTemperature }),
	resource.FloatField("distance", func(p *Planet) *float64 { return &p.Distance }),
)
