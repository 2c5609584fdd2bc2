// file: utils/sanitize.go
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// 证据脱敏：嫌疑记录落库前由这里统一清洗。
// 约定按键名驱动——含 ip 的键做单向哈希、客户端标识做泛化、
// 提交文本做定值遮蔽，保证任何原始 PII 都无法穿透到存储层。

const RedactedMarker = "[REDACTED]"

// HashIP IP 地址单向哈希，取 SHA-256 前 16 位十六进制。
// 同 IP 同哈希，仍可用于重复来源比对，但无法还原。
func HashIP(ip string) string {
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])[:16]
}

// GeneralizeClientSignature 把完整客户端标识压缩为"浏览器族 on 系统族"。
// 保留分析价值的同时去掉版本号等可指纹化信息。
func GeneralizeClientSignature(sig string) string {
	if sig == "" {
		return "Unknown"
	}
	lower := strings.ToLower(sig)

	var browser string
	switch {
	case strings.Contains(lower, "edg"):
		browser = "Edge"
	case strings.Contains(lower, "opera") || strings.Contains(lower, "opr"):
		browser = "Opera"
	case strings.Contains(lower, "chrome"):
		browser = "Chrome"
	case strings.Contains(lower, "firefox"):
		browser = "Firefox"
	case strings.Contains(lower, "safari"):
		browser = "Safari"
	case strings.Contains(lower, "msie") || strings.Contains(lower, "trident"):
		browser = "Internet Explorer"
	default:
		browser = "Unknown Browser"
	}

	var osFamily string
	switch {
	case strings.Contains(lower, "windows"):
		osFamily = "Windows"
	case strings.Contains(lower, "android"):
		osFamily = "Android"
	case strings.Contains(lower, "iphone") || strings.Contains(lower, "ipad"):
		osFamily = "iOS"
	case strings.Contains(lower, "mac"):
		osFamily = "macOS"
	case strings.Contains(lower, "linux"):
		osFamily = "Linux"
	default:
		osFamily = "Unknown OS"
	}

	return browser + " on " + osFamily
}

// SanitizeEvidence 清洗原始证据字典。
// 键名规则：
//   - 含 "ip" 且非哈希键 → 改名为 <key>_hash，值为 HashIP 结果
//   - 含 "client_signature" → 改名为 client_profile，值为泛化结果
//   - 含 "submission" 且含 "text" → 定值遮蔽
//   - 其余（ID、时间差、相似度等）原样保留
func SanitizeEvidence(evidence map[string]interface{}) map[string]interface{} {
	sanitized := make(map[string]interface{}, len(evidence))

	for key, value := range evidence {
		lower := strings.ToLower(key)
		str, isStr := value.(string)

		switch {
		case strings.Contains(lower, "ip") && !strings.HasSuffix(lower, "_hash") && isStr:
			sanitized[key+"_hash"] = HashIP(str)
		case strings.Contains(lower, "client_signature") && isStr:
			sanitized[strings.Replace(key, "client_signature", "client_profile", 1)] = GeneralizeClientSignature(str)
		case strings.Contains(lower, "submission") && strings.Contains(lower, "text"):
			sanitized[key] = RedactedMarker
		default:
			sanitized[key] = value
		}
	}

	return sanitized
}

// LevenshteinRatio 两字符串的编辑距离相似度，1.0 为完全一致。
// 大小写不敏感，用于客户端标识比对。
func LevenshteinRatio(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0.0
	}
	a, b := []rune(strings.ToLower(s1)), []rune(strings.ToLower(s2))
	if string(a) == string(b) {
		return 1.0
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(b); i++ {
		curr[0] = i
		for j := 1; j <= len(a); j++ {
			cost := 0
			if a[j-1] != b[i-1] {
				cost = 1
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	distance := prev[len(a)]
	maxLen := len(b)
	return 1.0 - float64(distance)/float64(maxLen)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
