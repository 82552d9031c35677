// Package config loads devstack settings from defaults, an optional YAML file
// and DEVSTACK_* environment variables, and validates the result. It defines
// the service table, probe tuning, launcher and stop settings.
package config
