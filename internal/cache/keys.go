package cache

import "strings"

const GlobalKeyPrefix = "mcqportal"

// GenerateCacheKey namespaces a key as prefix:service:object:id.
func GenerateCacheKey(serviceName, objectType, identifier string) string {
	return strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
}

// SessionKey is where an upload session's state lives.
func SessionKey(sessionID string) string {
	return GenerateCacheKey("session", "state", sessionID)
}
