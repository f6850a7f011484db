// Package config handles configuration loading, parsing, and validation
// from environment variables (prefix STUDYGRAPH_) and an optional YAML
// file. It provides type-safe access to server, ledger storage, layout,
// and study settings while keeping configuration details separate from
// the compiler and session logic.
package config
