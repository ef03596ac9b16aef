// Package clientip extracts the real client IP address from HTTP requests.
//
// Proxy headers are checked in priority order: CF-Connecting-IP (Cloudflare),
// DO-Connecting-IP (DigitalOcean), X-Forwarded-For (leftmost entry),
// X-Real-IP, and finally the connection's RemoteAddr. Every candidate is
// parsed and normalized; malformed values are skipped.
//
//	ip := clientip.GetIP(r)
//
// GetIP never panics and always returns a string. When no header yields a
// valid address, the raw RemoteAddr is returned as-is.
package clientip
