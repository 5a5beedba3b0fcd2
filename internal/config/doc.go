// Package config provides configuration structures and utilities for pagescrape.
// It defines request settings, per-site overrides loaded from a YAML file,
// environment overrides, and report output preferences.
package config
