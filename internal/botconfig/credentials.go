package botconfig

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Credentials are the API-server secrets injected into every generated
// config.
type Credentials struct {
	JWTSecret string
	WSToken   string
}

// credentialKey is the fixed application key for derivation. The point is
// not secrecy of the key but that credentials are deterministic, distinct
// per container name, and not guessable from the name alone the way a
// plain "<prefix>-<name>" string would be.
const credentialKey = "freqctl-api-credentials-v1"

// DeriveCredentials derives the API-server credentials for a container.
// Derivation is HMAC-SHA256 over the container name with a distinct label
// per token, so the same name always yields the same pair and the JWT
// secret never equals the WS token. Uniqueness across bots holds exactly
// as long as container names are unique, which the registry's conflict
// check enforces at add time.
func DeriveCredentials(containerName string) Credentials {
	return Credentials{
		JWTSecret: deriveToken("jwt-secret", containerName),
		WSToken:   deriveToken("ws-token", containerName),
	}
}

func deriveToken(label, containerName string) string {
	mac := hmac.New(sha256.New, []byte(credentialKey))
	mac.Write([]byte(label))
	mac.Write([]byte{0})
	mac.Write([]byte(containerName))
	return hex.EncodeToString(mac.Sum(nil))
}
