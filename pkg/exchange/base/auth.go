package base

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"hash"
)

func HMAC(h func() hash.Hash, payload, secret []byte) []byte {
	mac := hmac.New(h, secret)
	mac.Write(payload)
	return mac.Sum(nil)
}

func HMACSHA256Hex(payload, secret string) string {
	return hex.EncodeToString(HMAC(sha256.New, []byte(payload), []byte(secret)))
}

func HMACSHA256Base64(payload, secret string) string {
	return base64.StdEncoding.EncodeToString(HMAC(sha256.New, []byte(payload), []byte(secret)))
}

func HMACSHA512Hex(payload, secret string) string {
	return hex.EncodeToString(HMAC(sha512.New, []byte(payload), []byte(secret)))
}

func MD5Hex(payload []byte) string {
	sum := md5.Sum(payload)
	return hex.EncodeToString(sum[:])
}

// BasicAuth returns the Authorization header value for user:password.
func BasicAuth(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}
