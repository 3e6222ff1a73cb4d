package nuget

import (
	"encoding/base64"
	"net/http"
	"net/url"
)

const (
	clientIDHeader = "X-NuGet-Client-Version"
	clientID       = "nugo/1.0.0"
)

// buildHeaders constructs the header set for a request to the given source,
// including credential headers per the source's auth configuration.
// Incomplete credentials are omitted rather than sent partially.
func buildHeaders(source Source) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("User-Agent", clientID)
	h.Set(clientIDHeader, clientID)

	auth := source.Auth
	if auth == nil {
		return h
	}

	switch auth.Type {
	case AuthBasic:
		if auth.Username != "" && auth.Secret != "" {
			cred := base64.StdEncoding.EncodeToString([]byte(auth.Username + ":" + auth.Secret))
			h.Set("Authorization", "Basic "+cred)
		}
	case AuthBearer:
		if auth.Secret != "" {
			h.Set("Authorization", "Bearer "+auth.Secret)
		}
	case AuthAPIKey:
		if name := apiKeyHeaderName(source); name != "" && auth.Secret != "" {
			h.Set(name, auth.Secret)
		}
	}

	return h
}

// apiKeyHeaderName returns the header carrying an api-key credential.
// Sources of the default provider kind fall back to the conventional
// registry header; other kinds must name the header explicitly.
func apiKeyHeaderName(source Source) string {
	if source.Auth != nil && source.Auth.HeaderName != "" {
		return source.Auth.HeaderName
	}
	if source.Kind == "" || source.Kind == "nuget" {
		return "X-NuGet-ApiKey"
	}
	return ""
}

// headersFor builds the headers for a request to targetURL on behalf of
// source, stripping credentials when the target lives on a different
// origin than the source's index URL. A service index may point at
// third-party hosts; credentials must never follow it there.
func headersFor(source Source, targetURL string) http.Header {
	h := buildHeaders(source)
	if sameOrigin(source.IndexURL, targetURL) {
		return h
	}

	h.Del("Authorization")
	if name := apiKeyHeaderName(source); name != "" {
		h.Del(name)
	}
	return h
}

// sameOrigin reports whether two URLs share scheme, host and port.
// Unparseable URLs never match.
func sameOrigin(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil || ua.Scheme == "" || ua.Host == "" {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil || ub.Scheme == "" || ub.Host == "" {
		return false
	}
	return ua.Scheme == ub.Scheme && ua.Host == ub.Host
}
