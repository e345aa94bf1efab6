package appconf

import "time"

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// EnvFlagToEnvironment maps the -env flag onto an Environment. Unknown values
// fall back to Development.
func EnvFlagToEnvironment(env string) Environment {
	switch env {
	case "test":
		return Test
	case "production":
		return Production
	default:
		return Development
	}
}

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// Config holds the process level settings for the Application.
type Config struct {
	Port      int
	Env       Environment
	LogLevel  string
	RateLimit int // requests per second per client
	DBPath    string
	Voice     bool

	// Backends
	Geocoder         string // nominatim|google
	NominatimURL     string
	Router           string // osrm|google
	OSRMURL          string
	GoogleMapsAPIKey string

	// Search tuning
	SearchDebounce time.Duration
	SearchTimeout  time.Duration
	SearchLimit    int

	// Sequencer radii in meters
	AnnounceRadius float64
	ReminderRadius float64

	XMPP XMPPConfig
}

// XMPPConfig configures the chat relay used to mirror voice output.
type XMPPConfig struct {
	Host     string
	Jid      string
	Password string
	To       string
}

// Enabled reports whether enough settings are present to open a client.
func (c XMPPConfig) Enabled() bool {
	return c.Jid != "" && c.Password != "" && c.To != ""
}
