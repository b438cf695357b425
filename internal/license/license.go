// Package license normalizes license URLs into the canonical short-name /
// typed-name / disclaimer shape stored on material records.
package license

import (
	"regexp"
	"strings"

	internalErrors "github.com/oerhub/discovery/internal/errors"
	"github.com/oerhub/discovery/model"
)

const (
	// NoLicenseDisclaimer is used as the short name when a material carries
	// no license URL at all.
	NoLicenseDisclaimer = "Materials that do not have a license are considered copyrighted and all rights are reserved to the author."

	// DefaultDisclaimer is attached to every normalized license, with or
	// without a URL.
	DefaultDisclaimer = "The use of the material is solely the responsibility of the user. Please consult the source of the material for detailed licensing terms."
)

// shortNamePattern extracts the path segment between /licenses/ (or the
// British /licences/) and the next slash, e.g. "by-nc-sa" out of
// https://creativecommons.org/licenses/by-nc-sa/4.0/.
var shortNamePattern = regexp.MustCompile(`/licen[sc]es/([^/]+)/?`)

// Parse extracts the canonical license representation from a license URL.
// An empty URL yields the no-license shape. A non-empty URL that does not
// match the expected path shape returns ErrLicensePattern; Parse never
// recovers partial matches.
func Parse(url string) (model.License, error) {
	if url == "" {
		return model.License{
			ShortName:  NoLicenseDisclaimer,
			Disclaimer: DefaultDisclaimer,
		}, nil
	}

	match := shortNamePattern.FindStringSubmatch(url)
	if match == nil {
		return model.License{}, internalErrors.ErrLicensePattern
	}

	shortName := match[1]
	return model.License{
		ShortName:  shortName,
		TypedName:  strings.Split(shortName, "-"),
		Disclaimer: DefaultDisclaimer,
		URL:        url,
	}, nil
}

// ParseOrFallback is the lenient variant used on the record-normalization
// write path: a malformed URL degrades to the no-license shape instead of
// failing the whole record. The boolean reports whether the fallback was
// taken so callers can log it.
func ParseOrFallback(url string) (model.License, bool) {
	lic, err := Parse(url)
	if err != nil {
		fallback, _ := Parse("")
		return fallback, true
	}
	return lic, false
}

// FromShortName builds the normalized license shape from a short code the
// upstream already provides (the image provider reports "by-nc" style codes
// directly instead of URLs).
func FromShortName(shortName, url string) model.License {
	if shortName == "" {
		lic, _ := Parse("")
		return lic
	}
	return model.License{
		ShortName:  shortName,
		TypedName:  strings.Split(shortName, "-"),
		Disclaimer: DefaultDisclaimer,
		URL:        url,
	}
}
