package resource_test

import (
	"encoding/json"
	"strings"
	"testing"

	"spaceapp/internal/createplanet"
	"spaceapp/internal/planet"
	"spaceapp/internal/resource"
	"spaceapp/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marsJSON = `{"name":"Mars","diameter":6779,"mass":6.4e23,"gravity":3.71,"orbital_period":687,"average_temperature":-63,"distance":227900000}`

func TestDecode_ValidPlanet(t *testing.T) {
	var p planet.Planet
	require.NoError(t, planet.Schema.Decode([]byte(marsJSON), &p, false))

	assert.Equal(t, planet.Planet{
		Name:               "Mars",
		Diameter:           6779,
		Mass:               6.4e23,
		Gravity:            3.71,
		OrbitalPeriod:      687,
		AverageTemperature: -63,
		Distance:           227900000,
	}, p)
}

func TestDecode_MissingFieldsAreRequired(t *testing.T) {
	var p planet.Planet
	err := planet.Schema.Decode([]byte(`{"diameter":1}`), &p, false)

	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	fields := errors.GetFields(err)
	assert.Equal(t, []string{resource.MsgRequired}, fields["name"])
	assert.Equal(t, []string{resource.MsgRequired}, fields["distance"])
	assert.NotContains(t, fields, "diameter")
}

func TestDecode_EmptyBodyIsEmptyObject(t *testing.T) {
	var p planet.Planet
	err := planet.Schema.Decode(nil, &p, false)

	assert.Len(t, errors.GetFields(err), len(planet.Schema.Fields))
}

func TestDecode_FieldMessages(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
		message string
	}{
		{"null float", `{"diameter":null}`, "diameter", resource.MsgNull},
		{"object as float", `{"diameter":{}}`, "diameter", resource.MsgNumber},
		{"text as float", `{"diameter":"wide"}`, "diameter", resource.MsgNumber},
		{"non-finite string", `{"diameter":"NaN"}`, "diameter", resource.MsgNumber},
		{"overflow", `{"diameter":1e400}`, "diameter", resource.MsgNumber},
		{"blank name", `{"name":"   "}`, "name", resource.MsgBlank},
		{"null name", `{"name":null}`, "name", resource.MsgNull},
		{"bool name", `{"name":true}`, "name", resource.MsgNotString},
		{"list name", `{"name":["Mars"]}`, "name", resource.MsgNotString},
		{"long name", `{"name":"` + strings.Repeat("x", 101) + `"}`, "name", "Ensure this field has no more than 100 characters."},
		{"nul in name", `{"name":"Ma\u0000rs"}`, "name", resource.MsgNullChars},
		{"trailing nul", `{"name":"Mars\u0000"}`, "name", resource.MsgNullChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p planet.Planet
			err := planet.Schema.Decode([]byte(tt.payload), &p, true)

			require.Error(t, err)
			assert.Equal(t, []string{tt.message}, errors.GetFields(err)[tt.field])
		})
	}
}

func TestDecode_Coercions(t *testing.T) {
	var c createplanet.CreatePlanet
	payload := `{"name":"  Aqua  ","seed":"42","planet_size":1.5,"orbit_radius":"10",
		"axial_tilt":23.4,"orbit_speed":0.5,"water_threshold":0.4,"show_rings":true,
		"color_mode":"terrain","gas_type":"methane"}`

	require.NoError(t, createplanet.Schema.Decode([]byte(payload), &c, false))

	assert.Equal(t, "Aqua", c.Name)
	assert.Equal(t, 42.0, c.Seed)
	assert.Equal(t, 10.0, c.OrbitRadius)
	assert.Equal(t, 1.0, c.ShowRings)

	require.NoError(t, createplanet.Schema.Decode([]byte(`{"show_rings":false,"name":7}`), &c, true))
	assert.Equal(t, 0.0, c.ShowRings)
	assert.Equal(t, "7", c.Name)
}

func TestDecode_NumberInStringField(t *testing.T) {
	tests := map[string]string{
		`7`:      "7",
		`-0`:     "0",
		`6.0e2`:  "600.0",
		`1.5`:    "1.5",
		`-2.50`:  "-2.5",
		`0e0`:    "0.0",
		`0.0001`: "0.0001",
		`1e-5`:   "1e-05",
		`1e16`:   "1e+16",
		`1e400`:  "inf",
	}

	for literal, want := range tests {
		var c createplanet.CreatePlanet
		require.NoError(t, createplanet.Schema.Decode([]byte(`{"gas_type":`+literal+`}`), &c, true), literal)
		assert.Equal(t, want, c.GasType, literal)
	}
}

func TestDecode_PartialKeepsExistingValues(t *testing.T) {
	p := planet.Planet{ID: 9, Name: "Mars", Diameter: 6779, Distance: 1}

	require.NoError(t, planet.Schema.Decode([]byte(`{"distance":227900000,"id":500,"moons":2}`), &p, true))

	assert.Equal(t, int64(9), p.ID)
	assert.Equal(t, "Mars", p.Name)
	assert.Equal(t, 6779.0, p.Diameter)
	assert.Equal(t, 227900000.0, p.Distance)
}

func TestDecode_NonObjectPayload(t *testing.T) {
	tests := map[string]string{
		`[1,2]`:  "list",
		`"Mars"`: "str",
		`12`:     "number",
		`null`:   "null",
	}

	for payload, kind := range tests {
		var p planet.Planet
		err := planet.Schema.Decode([]byte(payload), &p, false)

		require.Error(t, err, payload)
		assert.Equal(t,
			[]string{"Invalid data. Expected a dictionary, but got " + kind + "."},
			errors.GetFields(err)[resource.NonFieldErrors], payload)
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	for _, payload := range []string{`{"name":`, `{"name":"Mars"} {}`, `not json`} {
		var p planet.Planet
		err := planet.Schema.Decode([]byte(payload), &p, false)

		require.Error(t, err, payload)
		assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
		assert.Contains(t, err.Error(), "JSON parse error")
	}
}

func TestEncode_ExposesEveryFieldInOrder(t *testing.T) {
	p := planet.Planet{ID: 3, Name: "Mars", Diameter: 6779, Mass: 6.4e23, Gravity: 3.71, OrbitalPeriod: 687, AverageTemperature: -63, Distance: 227900000}

	rec := planet.Schema.Encode(&p)

	assert.Equal(t,
		[]string{"id", "name", "diameter", "mass", "gravity", "orbital_period", "average_temperature", "distance"},
		rec.Names())

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"id":3,"name":"Mars","diameter":6779,`), string(data))

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(marsJSON), &expected))
	expected["id"] = float64(3)
	assert.Equal(t, expected, wire)

	name, ok := rec.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "Mars", name)
	_, ok = rec.Get("size")
	assert.False(t, ok)
}

func TestEncodeDecode_CreatePlanetWireFields(t *testing.T) {
	c := createplanet.CreatePlanet{ID: 1, Name: "Gassy", ColorMode: "gaseous", GasType: "ammonia", ShowRings: 1}

	assert.Equal(t,
		[]string{"id", "name", "seed", "planet_size", "orbit_radius", "axial_tilt", "orbit_speed", "water_threshold", "show_rings", "color_mode", "gas_type"},
		createplanet.Schema.Encode(&c).Names())
}
