package entity

import (
	"strings"
	"time"
)

const (
	DefaultBaseURL           = "https://demo.realworld.io/"
	DefaultTimeout           = 10 * time.Second
	DefaultNavigationTimeout = 30 * time.Second
	DefaultExpectTimeout     = 5 * time.Second
)

// Configuration is built once per factory and never mutated afterwards.
type Configuration struct {
	BaseURL           string
	DefaultTimeout    time.Duration
	NavigationTimeout time.Duration
	ExpectTimeout     time.Duration
}

func DefaultConfiguration() Configuration {
	return Configuration{
		BaseURL:           DefaultBaseURL,
		DefaultTimeout:    DefaultTimeout,
		NavigationTimeout: DefaultNavigationTimeout,
		ExpectTimeout:     DefaultExpectTimeout,
	}
}

// WithDefaults fills zero fields from DefaultConfiguration.
func (c Configuration) WithDefaults() Configuration {
	d := DefaultConfiguration()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = d.DefaultTimeout
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = d.NavigationTimeout
	}
	if c.ExpectTimeout <= 0 {
		c.ExpectTimeout = d.ExpectTimeout
	}
	return c
}

// URL resolves a hash route such as "#/login" against BaseURL.
func (c Configuration) URL(route string) string {
	base := strings.TrimRight(c.BaseURL, "/") + "/"
	return base + strings.TrimLeft(route, "/")
}
