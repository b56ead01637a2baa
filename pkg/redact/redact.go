// Package redact masks sensitive values before they reach log output or
// error messages. Nothing in this package ever sees a password on the happy
// path; it exists for the failure paths where driver errors may echo input.
package redact

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

const mask = "[REDACTED]"

// sensitiveKeys are matched case-insensitively against log field names and
// key=value / key: value substrings inside free-text messages.
var sensitiveKeys = []string{
	"password",
	"passwd",
	"token",
	"secret",
	"authorization",
	"api_key",
	"apikey",
}

var kvPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(sensitiveKeys, "|") + `)(["']?\s*[:=]\s*)("[^"]*"|'[^']*'|\S+)`)

// Message masks key=value and key: value shaped substrings for sensitive
// keywords inside a free-text message.
func Message(s string) string {
	return kvPattern.ReplaceAllString(s, "${1}${2}"+mask)
}

// Fields returns a copy of the given logrus fields with sensitive values
// masked. The input map is not modified.
func Fields(fields logrus.Fields) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for k, v := range fields {
		if isSensitiveKey(k) {
			out[k] = mask
			continue
		}
		if s, ok := v.(string); ok {
			out[k] = Message(s)
			continue
		}
		out[k] = v
	}
	return out
}

// Email masks the local part of an email address, keeping enough to
// correlate log lines without exposing the full address.
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}
	local, domain := parts[0], parts[1]
	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}
	return local + "@" + domain
}

// Token replaces a raw token value entirely.
func Token() string { return mask }

func isSensitiveKey(k string) bool {
	lk := strings.ToLower(k)
	for _, s := range sensitiveKeys {
		if strings.Contains(lk, s) {
			return true
		}
	}
	return false
}
