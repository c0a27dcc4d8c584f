package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// String length limits
const (
	MaxPathLength    = 4096
	MaxMACLength     = 128
	MaxProjectLength = 2048
)

// MACPattern matches hex-encoded signatures
var MACPattern = regexp.MustCompile(`^[a-f0-9]+$`)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	// Null bytes would truncate paths at the OS boundary
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateResourceQuery checks the shape of an inbound file/mac pair.
// It never consults the filesystem.
func ValidateResourceQuery(file, mac string) error {
	if err := ValidateString(file, "file", 1, MaxPathLength, true); err != nil {
		return err
	}
	if err := ValidateString(mac, "mac", 1, MaxMACLength, true); err != nil {
		return err
	}
	if !MACPattern.MatchString(mac) {
		return fmt.Errorf("mac must be lowercase hex")
	}
	return nil
}

// ValidateProject checks the optional projectUrl/projectName parameters
func ValidateProject(projectURL, projectName string) error {
	if err := ValidateString(projectURL, "projectUrl", 0, MaxProjectLength, false); err != nil {
		return err
	}
	return ValidateString(projectName, "projectName", 0, MaxProjectLength, false)
}
