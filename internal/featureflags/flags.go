package featureflags

import (
	"os"
	"strings"
)

// VerifyPasswords turns on bcrypt verification at login. Off by
// default: the original marketplace never checked the credential, and
// seeded demo accounts carry no hash.
const VerifyPasswords = "verify_passwords"

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes (case-insensitive)
func Enabled(name string) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
