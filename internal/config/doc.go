// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// The API_URL environment variable, when set, overrides api.base_url. An empty
// path loads defaults only.
package config
