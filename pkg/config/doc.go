// Package config loads typed configuration structs from environment
// variables (with optional .env file support for local development). Each
// struct type is parsed once and cached for the process lifetime; required
// variables that are missing fail at startup before any partial operation.
package config
