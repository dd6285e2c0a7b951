package session

import (
	"time"

	"github.com/mitchellh/mapstructure"
)

// Recognized configuration keys (spec §4.5/§6). Per-repository override
// takes precedence via RepoConfig[repoID][key] or Config[key+"."+repoID].
const (
	KeyConnectTimeout     = "connect-timeout"
	KeyRequestTimeout     = "request-timeout"
	KeyUserAgent          = "user-agent"
	KeyHTTPHeaders        = "http-headers"
	KeyCredentialEncoding = "credential-encoding"
	KeyRetryHandlerCount  = "retry-handler-count"
	KeyCipherSuites       = "https.cipherSuites"
	KeyProtocols          = "https.protocols"
	KeyWebDAVEnabled      = "webdav-enabled"
	KeyPreemptiveAuth     = "preemptive-auth"
)

// lookup resolves key for repoID, preferring a per-repository override
// (RepoConfig[repoID][key] first, then Config[key+"."+repoID]) over the
// global value (spec §6 "per-repository override takes precedence
// via key + "." + repoId").
func (s *Session) lookup(key, repoID string) (interface{}, bool) {
	if repoID != "" {
		if overrides, ok := s.RepoConfig[repoID]; ok {
			if v, ok := overrides[key]; ok {
				return v, true
			}
		}
		if v, ok := s.Config[key+"."+repoID]; ok {
			return v, true
		}
	}
	v, ok := s.Config[key]
	return v, ok
}

// ConfigString returns the string configuration value for key/repoID.
func (s *Session) ConfigString(key, repoID, fallback string) string {
	v, ok := s.lookup(key, repoID)
	if !ok {
		return fallback
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fallback
}

// ConfigBool returns the bool configuration value for key/repoID.
func (s *Session) ConfigBool(key, repoID string, fallback bool) bool {
	v, ok := s.lookup(key, repoID)
	if !ok {
		return fallback
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

// ConfigInt returns the int configuration value for key/repoID.
func (s *Session) ConfigInt(key, repoID string, fallback int) int {
	v, ok := s.lookup(key, repoID)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return fallback
}

// ConfigDuration returns a millisecond-valued configuration key (e.g.
// connect-timeout, request-timeout) as a time.Duration.
func (s *Session) ConfigDuration(key, repoID string, fallback time.Duration) time.Duration {
	ms := s.ConfigInt(key, repoID, -1)
	if ms < 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// ConfigHeaders decodes the http-headers configuration key (a
// map[string]interface{} as read from a config source) into a
// map[string]string via mitchellh/mapstructure, matching the "string values
// set the header; non-string values remove it" rule of spec §4.4 -- the
// non-string sentinel survives decoding as an empty string so the caller
// can tell "remove" apart from "not configured".
func (s *Session) ConfigHeaders(repoID string) map[string]string {
	v, ok := s.lookup(KeyHTTPHeaders, repoID)
	if !ok {
		return nil
	}

	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}

	headers := map[string]string{}
	for k, val := range raw {
		var decoded string
		if str, ok := val.(string); ok {
			decoded = str
		} else if val != nil {
			_ = mapstructure.Decode(val, &decoded)
		}
		headers[k] = decoded
	}
	return headers
}
