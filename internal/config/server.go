package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "PULSE_SERVER_HOST"
	EnvServerPort              = "PULSE_SERVER_PORT"
	EnvServerReadTimeout       = "PULSE_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "PULSE_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "PULSE_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "PULSE_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "PULSE_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds the HTTP listener address and its timeouts. Timeouts are
// duration strings so TOML and environment values share one format.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// ServerTimeouts is the parsed form of the ServerConfig timeout strings.
type ServerTimeouts struct {
	Read       time.Duration
	ReadHeader time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
}

type timeoutField struct {
	name    string
	env     string
	value   *string
	def     string
	applyTo func(*ServerTimeouts, time.Duration)
}

func (c *ServerConfig) timeoutFields() []timeoutField {
	return []timeoutField{
		{"read_timeout", EnvServerReadTimeout, &c.ReadTimeout, "30s",
			func(t *ServerTimeouts, d time.Duration) { t.Read = d }},
		{"read_header_timeout", EnvServerReadHeaderTimeout, &c.ReadHeaderTimeout, "5s",
			func(t *ServerTimeouts, d time.Duration) { t.ReadHeader = d }},
		{"write_timeout", EnvServerWriteTimeout, &c.WriteTimeout, "2m",
			func(t *ServerTimeouts, d time.Duration) { t.Write = d }},
		{"idle_timeout", EnvServerIdleTimeout, &c.IdleTimeout, "2m",
			func(t *ServerTimeouts, d time.Duration) { t.Idle = d }},
		{"shutdown_timeout", EnvServerShutdownTimeout, &c.ShutdownTimeout, "30s",
			func(t *ServerTimeouts, d time.Duration) { t.Shutdown = d }},
	}
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeouts parses every timeout. Values are checked by Finalize, so an
// unparseable entry only appears on an unfinalized config and reads as zero.
func (c *ServerConfig) Timeouts() ServerTimeouts {
	var t ServerTimeouts
	for _, f := range c.timeoutFields() {
		d, _ := time.ParseDuration(*f.value)
		f.applyTo(&t, d)
	}
	return t
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	theirs := overlay.timeoutFields()
	for i, f := range c.timeoutFields() {
		if v := *theirs[i].value; v != "" {
			*f.value = v
		}
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, f := range c.timeoutFields() {
		if *f.value == "" {
			*f.value = f.def
		}
	}
}

func (c *ServerConfig) loadEnv() error {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a port number", EnvServerPort, v)
		}
		c.Port = port
	}
	for _, f := range c.timeoutFields() {
		if v := os.Getenv(f.env); v != "" {
			*f.value = v
		}
	}
	return nil
}

func (c *ServerConfig) validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	for _, f := range c.timeoutFields() {
		d, err := time.ParseDuration(*f.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", f.name, err))
			continue
		}
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", f.name))
		}
	}
	return errors.Join(errs...)
}
