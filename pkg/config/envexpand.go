package config

import "os"

// ExpandEnv expands ${VAR}/$VAR references in YAML content using the
// standard library, matching the teacher's config-loading convention.
// Missing variables expand to the empty string; validation is expected to
// catch required fields left empty by that.
func ExpandEnv(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}
