package session

import "strings"

const redactedPassword = "****"

// RedactURI masks the password in a MongoDB connection string.
// Strings that are not URIs are returned unchanged.
func RedactURI(uri string) string {
	schemeEnd := strings.Index(uri, "://")
	if schemeEnd < 0 {
		return uri
	}
	authorityStart := schemeEnd + len("://")

	// The userinfo ends at the last '@' before the path or query.
	rest := uri[authorityStart:]
	if end := strings.IndexAny(rest, "/?"); end >= 0 {
		rest = rest[:end]
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return uri
	}

	userinfo := rest[:at]
	colon := strings.Index(userinfo, ":")
	if colon < 0 {
		return uri
	}

	return uri[:authorityStart] + userinfo[:colon+1] + redactedPassword + uri[authorityStart+at:]
}
