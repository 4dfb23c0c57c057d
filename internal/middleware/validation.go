package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Huudle/flow-fusion/pkg/ytid"
)

// Field length limits matching database schema constraints.
const (
	MaxHandleLen    = 64 // channels.handle VARCHAR(64)
	MaxProfileIDLen = 64 // profile_channels.profile_id VARCHAR(64)
)

var (
	// handleRe matches YouTube handles: alphanumeric, dot, dash, underscore,
	// optionally prefixed with "@".
	handleRe = regexp.MustCompile(`^@?[A-Za-z0-9._-]+$`)
	// profileIDRe matches profile IDs: UUIDs or hex hashes.
	profileIDRe = regexp.MustCompile(`^[0-9a-f-]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateHandle checks that a channel handle is well-formed.
func ValidateHandle(handle string) (string, string) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", "channelName is required"
	}
	if len(handle) > MaxHandleLen {
		return "", "channelName must be at most 64 characters"
	}
	if !handleRe.MatchString(handle) {
		return "", "channelName contains invalid characters"
	}
	return handle, ""
}

// ValidateChannelID checks that a channel ID matches the stable ID pattern.
func ValidateChannelID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "channelId is required"
	}
	if !ytid.Valid(id) {
		return "", "channelId is not a valid channel ID"
	}
	return id, ""
}

// ValidateProfileID checks that a profile ID is a valid UUID or hex hash.
func ValidateProfileID(id string) (string, string) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" {
		return "", "profileId is required"
	}
	if len(id) > MaxProfileIDLen {
		return "", "profileId must be at most 64 characters"
	}
	if !profileIDRe.MatchString(id) {
		return "", "profileId contains invalid characters"
	}
	return id, ""
}
