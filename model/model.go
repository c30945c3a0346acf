package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUIDWithSuffix generates a UUID with a given module name as a suffix.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}

// NormalizeCounterparty turns the free text counterparty of a new entry into
// a principal. Empty or whitespace input means a self note.
func NormalizeCounterparty(text string) (Principal, error) {
	if strings.TrimSpace(text) == "" {
		return AnonymousPrincipal, nil
	}
	return ParsePrincipal(text)
}
