// Package configs provides the embedded configuration template for siteindex.
//
// The template is embedded at build time with go:embed so it ships in
// every distribution. `siteindex init` writes it as a starter
// siteindex.yaml next to the site being indexed.
package configs

import _ "embed"

// ConfigTemplate is the starter project configuration.
// Created by: `siteindex init` at siteindex.yaml in the site root.
//
//go:embed siteindex.example.yaml
var ConfigTemplate string
