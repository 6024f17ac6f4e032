// Package config provides configuration loading, merging, and validation for
// the sync client and the reference server.
//
// Configuration is assembled from several sources. For every field the first
// source holding a non-zero value wins:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The entry points are [GetClientConfig] and [GetServerConfig], which take the
// flag values collected by [RegisterFlags].
package config
