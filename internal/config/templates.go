package config

import (
	"fmt"
	"os"
)

// WriteTemplate writes a starter ListenerConfig TOML file to path, refusing
// to clobber an existing file unless overwrite is set.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(listenerTemplate), 0o600)
}

const listenerTemplate = `name = "qimsgd"
addr = ":7000"
admin_addr = ":7001"
max_payload_bytes = 16777216
cors_origins = ["http://localhost:3000"]

[[capabilities]]
name = "DirectMessageDispatch"
bool = true

[[capabilities]]
name = "ObjectPtrUID"
bool = true
`
