// Package crm holds the company/contact linking rules: domain normalization,
// the free-mail denylist and the auto-link policy applied on contact upsert.
package crm

import "strings"

// freeEmailDomains never trigger company auto-linking.
var freeEmailDomains = map[string]struct{}{
	"gmail.com":      {},
	"yahoo.com":      {},
	"outlook.com":    {},
	"hotmail.com":    {},
	"icloud.com":     {},
	"aol.com":        {},
	"protonmail.com": {},
	"mail.com":       {},
	"zoho.com":       {},
	"yandex.com":     {},
	"gmx.com":        {},
	"inbox.com":      {},
	"live.com":       {},
	"msn.com":        {},
	"me.com":         {},
}

// NormalizeDomain reduces a free-text domain or URL to its canonical
// lowercase host: scheme, leading www., trailing slash and any path are
// stripped.
func NormalizeDomain(domain string) string {
	normalized := strings.ToLower(strings.TrimSpace(domain))
	normalized = strings.TrimPrefix(normalized, "http://")
	normalized = strings.TrimPrefix(normalized, "https://")
	normalized = strings.TrimPrefix(normalized, "www.")
	normalized = strings.TrimSuffix(normalized, "/")
	if idx := strings.Index(normalized, "/"); idx >= 0 {
		normalized = normalized[:idx]
	}
	return normalized
}

// EmailDomain extracts the lowercase domain of an email address, or "" when
// the address has no @.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// IsFreeEmailDomain reports whether the domain belongs to a consumer email
// provider.
func IsFreeEmailDomain(domain string) bool {
	_, ok := freeEmailDomains[strings.ToLower(domain)]
	return ok
}

// CompanyNameFromDomain derives a fallback display name from a domain:
// the first label before the first dot ("acme" for "acme.io").
func CompanyNameFromDomain(domain string) string {
	if idx := strings.Index(domain, "."); idx > 0 {
		return domain[:idx]
	}
	return domain
}
