package config

import "os"

// ExpandEnv expands ${VAR} and $VAR references in YAML content using the
// standard shell-style syntax, matching pkg/config/envexpand.go. Missing
// variables expand to the empty string; Validate catches required fields
// left empty by that expansion.
func ExpandEnv(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}
