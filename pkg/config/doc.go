// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Each configuration type is parsed once per process and cached; repeated
// loads of the same type are cheap and return identical values.
package config
