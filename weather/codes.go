package weather

// DefaultCondition describes any condition code missing from the table.
const DefaultCondition = "variable conditions"

var conditions = map[int]string{
	0:  "clear skies",
	1:  "mostly clear",
	2:  "partly cloudy",
	3:  "overcast",
	45: "foggy conditions",
	48: "foggy conditions with frost",
	51: "light drizzle",
	61: "light rain",
	63: "moderate rain",
	65: "heavy rain",
	71: "light snow",
	73: "moderate snow",
	75: "heavy snow",
	77: "snow grains",
	80: "light rain showers",
	81: "moderate rain showers",
	82: "violent rain showers",
	85: "light snow showers",
	86: "heavy snow showers",
	95: "thunderstorm conditions",
	96: "thunderstorm with light hail",
	99: "thunderstorm with heavy hail",
}

// Describe maps a WMO weather condition code to a phrase.
func Describe(code int) string {
	if d, ok := conditions[code]; ok {
		return d
	}
	return DefaultCondition
}
