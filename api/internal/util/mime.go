package util

import (
	"net/http"
	"strings"
)

func SniffMimeHTTP(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8 {
		return "image/jpeg"
	}
	if len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A {
		return "image/png"
	}
	if ct := http.DetectContentType(b); strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "image/jpeg"
}

func MakeDataURL(mime, b64 string) string {
	return "data:" + mime + ";base64," + b64
}

// PickMIME prefers an explicit image/* type (e.g. the multipart part header), otherwise sniffs the bytes.
func PickMIME(explicit string, data []byte) string {
	exp := strings.ToLower(strings.TrimSpace(explicit))
	if i := strings.IndexByte(exp, ';'); i >= 0 {
		exp = strings.TrimSpace(exp[:i])
	}
	if strings.HasPrefix(exp, "image/") {
		return exp
	}
	return SniffMimeHTTP(data)
}
