// Package config defines updater settings and provides helpers to load,
// validate and save them in YAML format.
//
// The Config type holds the release feed endpoint, the product name and the
// fixed timing knobs (retry budget, termination poll bounds). A missing
// settings file falls back to defaults describing the canonical Thorium feed.
package config
