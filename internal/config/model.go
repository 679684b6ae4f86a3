// internal/config/model.go
//
// Typed configuration model for the storefront.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   - optional `.env`                              – dotenv values,
//   - `conf/global.yaml`                           – primary static file,
//   - `STOREFRONT_`-prefixed environment overrides – highest precedence.
//
// Secret fields may hold a `vault:<path>#<key>` reference instead of a
// plain value.  `ResolveSecrets` swaps those for the real secret after
// unmarshal, so nothing downstream ever sees a Vault URI.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   - The `Paths` block is filled at runtime; YAML must not try to set it.
//   - Durations accept Go syntax ("10s", "1m").
package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"  validate:"gte=0"`
}

//
// Prismic section
//

// Prismic points at the content repository.  AccessToken is optional when
// the master ref is public.
type Prismic struct {
	Endpoint    string        `koanf:"endpoint"     validate:"required,url"`
	AccessToken string        `koanf:"access_token"`
	Timeout     time.Duration `koanf:"timeout"      validate:"gte=0"`
}

//
// Snipcart section
//

// Snipcart holds the public storefront API key embedded in every page.
type Snipcart struct {
	Key string `koanf:"key" validate:"required"`
}

//
// Theme section
//

// Theme selects the template set under BaseDir.
type Theme struct {
	Name    string `koanf:"name"     validate:"required"`
	BaseDir string `koanf:"base_dir" validate:"required"`
}

//
// Observability sections
//

// Log configures the rotating file logger.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Dir   string `koanf:"dir"`
	Tee   bool   `koanf:"tee"`
}

// Geo points at an optional GeoLite2-City database.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

// Tracing toggles the OpenTelemetry stdout exporter.
type Tracing struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name" validate:"required_if=Enabled true"`
}

// Vault enables `vault:` secret references.  Address and token come from
// the standard VAULT_ADDR and VAULT_TOKEN variables.
type Vault struct {
	Enabled bool `koanf:"enabled"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // STOREFRONT_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load().
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Prismic  Prismic  `koanf:"prismic"`
	Snipcart Snipcart `koanf:"snipcart"`
	Theme    Theme    `koanf:"theme"`
	Log      Log      `koanf:"log"`
	Geo      Geo      `koanf:"geo"`
	Tracing  Tracing  `koanf:"tracing"`
	Vault    Vault    `koanf:"vault"`
	Paths    Paths    `koanf:"-"`
}
