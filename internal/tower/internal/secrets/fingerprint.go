package secrets

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/hirewire/control-tower/pkg/errors"
)

// MaxSecretLength guards against accidental paste of unrelated content.
const MaxSecretLength = 512

const fingerprintScheme = "sha256:"

// Fingerprint derives a one-way identifier for a raw secret. The raw value is
// never stored, logged or recoverable from the result.
func Fingerprint(secret string) (string, *errors.ServiceError) {
	if len(secret) == 0 {
		return "", errors.InvalidSecret("secret value is empty")
	}
	if len(secret) > MaxSecretLength {
		return "", errors.InvalidSecret("secret value exceeds the maximum length of %d bytes", MaxSecretLength)
	}
	sum := sha256.Sum256([]byte(secret))
	return fingerprintScheme + hex.EncodeToString(sum[:]), nil
}

// DisplayPrefix returns the short recognition prefix shown to operators.
func DisplayPrefix(fingerprint string) string {
	p := strings.TrimPrefix(fingerprint, fingerprintScheme)
	if len(p) > 8 {
		p = p[:8]
	}
	return p
}
