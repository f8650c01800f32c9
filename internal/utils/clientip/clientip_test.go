package clientip_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/utils/clientip"
)

func TestFromRequestPrecedence(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.9:4431"

	assert.Equal(t, "10.0.0.9", clientip.FromRequest(r))

	r.Header.Set("X-Real-IP", "172.16.0.3")
	assert.Equal(t, "172.16.0.3", clientip.FromRequest(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 172.16.0.3")
	assert.Equal(t, "203.0.113.7", clientip.FromRequest(r))
}

func TestFromRequestUnknown(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = ""
	assert.Equal(t, clientip.Unknown, clientip.FromRequest(r))
}

func TestHashIsTruncatedAndStable(t *testing.T) {
	h1 := clientip.Hash("192.168.1.42")
	h2 := clientip.Hash("192.168.1.42")
	require.Len(t, h1, 16)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, clientip.Hash("192.168.1.43"))
}

func TestPartial(t *testing.T) {
	p := clientip.Partial("192.168.1.42")
	require.NotNil(t, p)
	assert.Equal(t, "192.168.1.xxx", *p)

	assert.Nil(t, clientip.Partial("2001:db8::1"))
	assert.Nil(t, clientip.Partial("unknown"))
}
