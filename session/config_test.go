package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigStringFallsBackWhenAbsent(t *testing.T) {
	s := New(nil)
	assert.Equal(t, "fallback", s.ConfigString(KeyUserAgent, "", "fallback"))

	s.Config[KeyUserAgent] = "resolver/1.0"
	assert.Equal(t, "resolver/1.0", s.ConfigString(KeyUserAgent, "", "fallback"))
}

func TestConfigStringPerRepoOverrideTakesPrecedence(t *testing.T) {
	s := New(nil)
	s.Config[KeyUserAgent] = "global-agent"
	s.RepoConfig["central"] = map[string]interface{}{KeyUserAgent: "central-agent"}

	assert.Equal(t, "central-agent", s.ConfigString(KeyUserAgent, "central", ""))
	assert.Equal(t, "global-agent", s.ConfigString(KeyUserAgent, "other", ""))
}

func TestConfigBool(t *testing.T) {
	s := New(nil)
	assert.False(t, s.ConfigBool(KeyWebDAVEnabled, "", false))

	s.Config[KeyWebDAVEnabled] = true
	assert.True(t, s.ConfigBool(KeyWebDAVEnabled, "", false))
}

func TestConfigIntAcceptsNumericKinds(t *testing.T) {
	s := New(nil)
	s.Config["a"] = 5
	s.Config["b"] = int64(6)
	s.Config["c"] = float64(7)

	assert.Equal(t, 5, s.ConfigInt("a", "", -1))
	assert.Equal(t, 6, s.ConfigInt("b", "", -1))
	assert.Equal(t, 7, s.ConfigInt("c", "", -1))
	assert.Equal(t, -1, s.ConfigInt("missing", "", -1))
}

func TestConfigDuration(t *testing.T) {
	s := New(nil)
	s.Config[KeyConnectTimeout] = 1500
	assert.Equal(t, 1500*time.Millisecond, s.ConfigDuration(KeyConnectTimeout, "", 0))
	assert.Equal(t, 2*time.Second, s.ConfigDuration(KeyRequestTimeout, "", 2*time.Second))
}

func TestConfigHeadersStringSetsNonStringRemoves(t *testing.T) {
	s := New(nil)
	s.Config[KeyHTTPHeaders] = map[string]interface{}{
		"X-Set":    "value",
		"X-Remove": nil,
	}

	headers := s.ConfigHeaders("")
	assert.Equal(t, "value", headers["X-Set"])
	assert.Equal(t, "", headers["X-Remove"])
}

func TestConfigHeadersAbsentReturnsNil(t *testing.T) {
	s := New(nil)
	assert.Nil(t, s.ConfigHeaders(""))
}
