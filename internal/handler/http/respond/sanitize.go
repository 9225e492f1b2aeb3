package respond

import (
	"regexp"
)

var (
	// Credentials embedded in connection strings (redis://, postgres://,
	// mongodb://) show up verbatim in driver errors.
	dsnPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)

	// Webhook URLs carry their token in the path.
	webhookTokenPattern = regexp.MustCompile(`(https?://[^/\s]+/[^\s?]*hooks?/)[a-zA-Z0-9/_-]+`)

	// Bearer tokens from upstream API error bodies.
	bearerTokenPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._~+/-]+=*`)
)

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = dsnPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = webhookTokenPattern.ReplaceAllString(msg, "$1****")
	msg = bearerTokenPattern.ReplaceAllString(msg, "Bearer ****")
	return msg
}
