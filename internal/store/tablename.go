package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	tableNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	prefixPattern    = regexp.MustCompile(`^[A-Z0-9]{4}$`)
)

// ValidateTableName enforces a lowercase snake_case identifier that is safe to embed in SQL.
func ValidateTableName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("table name is required")
	}
	if len(name) > 63 {
		return fmt.Errorf("invalid table name %q: longer than 63 bytes", name)
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q: must match ^[a-z][a-z0-9_]*$", name)
	}
	return nil
}

// ValidatePrefix enforces four uppercase letters or digits.
func ValidatePrefix(prefix string) error {
	if !prefixPattern.MatchString(prefix) {
		return fmt.Errorf("invalid prefix %q: must match ^[A-Z0-9]{4}$", prefix)
	}
	return nil
}
