package models

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a prefixed identifier like "msg_3f2a9c1d04be".
func NewID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + hex[:12]
}

// NewToken returns a long-form token like "sess_<32 hex chars>".
func NewToken(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
