// Package config provides layered configuration for the CBCT header
// extraction tool.
//
// Configuration is resolved in order of increasing precedence: built-in
// defaults, an optional YAML file (config.yaml or configs/config.yaml),
// CBCT_* environment variables, and finally command-line flags applied by
// the caller. Validate must be called after the final layer.
//
// Example usage:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	cfg.Extract.InputDir = *dirFlag
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
