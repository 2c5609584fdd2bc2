// file: utils/sanitize_test.go
package utils

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashIP(t *testing.T) {
	h1 := HashIP("192.168.1.1")
	h2 := HashIP("192.168.1.1")
	h3 := HashIP("192.168.1.2")

	assert.Len(t, h1, 16)
	assert.Equal(t, h1, h2, "same IP must hash to same value")
	assert.NotEqual(t, h1, h3)
	assert.NotContains(t, h1, "192.168")
	assert.Empty(t, HashIP(""))
}

func TestGeneralizeClientSignature(t *testing.T) {
	cases := []struct {
		sig  string
		want string
	}{
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/119.0.0.0 Safari/537.36", "Chrome on Windows"},
		{"Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0", "Firefox on Linux"},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 Safari/605.1.15", "Safari on macOS"},
		{"Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 Chrome/119.0 Safari/537.36 Edg/119.0", "Edge on Windows"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Safari/604.1", "Safari on iOS"},
		{"", "Unknown"},
		{"curl/8.4.0", "Unknown Browser on Unknown OS"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GeneralizeClientSignature(tc.sig), "sig=%q", tc.sig)
	}
}

func TestSanitizeEvidence(t *testing.T) {
	raw := map[string]interface{}{
		"ip":                "10.0.0.7",
		"ip_1":              "10.0.0.8",
		"client_signature_1": "Mozilla/5.0 (Windows NT 10.0) Chrome/119.0",
		"submission_1_text": "flag{super_secret}",
		"time_delta_seconds": 1.5,
		"submission_1_id":   uint64(42),
	}

	sanitized := SanitizeEvidence(raw)

	// 原始 PII 键被替换
	assert.NotContains(t, sanitized, "ip")
	assert.NotContains(t, sanitized, "ip_1")
	assert.NotContains(t, sanitized, "client_signature_1")
	assert.Equal(t, HashIP("10.0.0.7"), sanitized["ip_hash"])
	assert.Equal(t, HashIP("10.0.0.8"), sanitized["ip_1_hash"])
	assert.Equal(t, "Chrome on Windows", sanitized["client_profile_1"])
	assert.Equal(t, RedactedMarker, sanitized["submission_1_text"])

	// 非敏感字段原样保留
	assert.Equal(t, 1.5, sanitized["time_delta_seconds"])
	assert.Equal(t, uint64(42), sanitized["submission_1_id"])

	// 序列化后的整体不包含任何原始敏感值
	blob, err := json.Marshal(sanitized)
	require.NoError(t, err)
	s := string(blob)
	assert.False(t, strings.Contains(s, "10.0.0.7"))
	assert.False(t, strings.Contains(s, "10.0.0.8"))
	assert.False(t, strings.Contains(s, "Mozilla"))
	assert.False(t, strings.Contains(s, "flag{super_secret}"))
}

func TestLevenshteinRatio(t *testing.T) {
	assert.Equal(t, 1.0, LevenshteinRatio("same-string", "same-string"))
	assert.Equal(t, 1.0, LevenshteinRatio("CaseOnly", "caseonly"), "comparison is case-insensitive")
	assert.Equal(t, 0.0, LevenshteinRatio("", "anything"))

	// 一个字符差异的长串相似度应很高
	a := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/119.0.0.0"
	b := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/119.0.0.1"
	ratio := LevenshteinRatio(a, b)
	assert.Greater(t, ratio, 0.95)
	assert.Less(t, ratio, 1.0)

	// 完全不同的串相似度应很低
	assert.Less(t, LevenshteinRatio("abcdefgh", "12345678"), 0.2)
}
