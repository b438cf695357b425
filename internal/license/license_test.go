package license

import (
	"errors"
	"reflect"
	"testing"

	internalErrors "github.com/oerhub/discovery/internal/errors"
)

func TestParse(t *testing.T) {
	t.Run("creative commons URL", func(t *testing.T) {
		lic, err := Parse("https://creativecommons.org/licenses/by-nc-sa/4.0/")
		if err != nil {
			t.Fatalf("Parse() error = %v, want nil", err)
		}
		if lic.ShortName != "by-nc-sa" {
			t.Errorf("ShortName = %q, want %q", lic.ShortName, "by-nc-sa")
		}
		if want := []string{"by", "nc", "sa"}; !reflect.DeepEqual(lic.TypedName, want) {
			t.Errorf("TypedName = %v, want %v", lic.TypedName, want)
		}
		if lic.Disclaimer != DefaultDisclaimer {
			t.Errorf("Disclaimer = %q, want default disclaimer", lic.Disclaimer)
		}
		if lic.URL == "" {
			t.Error("URL should be preserved")
		}
	})

	t.Run("british spelling", func(t *testing.T) {
		lic, err := Parse("https://example.org/licences/by/2.0/")
		if err != nil {
			t.Fatalf("Parse() error = %v, want nil", err)
		}
		if lic.ShortName != "by" {
			t.Errorf("ShortName = %q, want %q", lic.ShortName, "by")
		}
		if want := []string{"by"}; !reflect.DeepEqual(lic.TypedName, want) {
			t.Errorf("TypedName = %v, want %v", lic.TypedName, want)
		}
	})

	t.Run("no trailing segment", func(t *testing.T) {
		lic, err := Parse("https://creativecommons.org/licenses/by-sa/")
		if err != nil {
			t.Fatalf("Parse() error = %v, want nil", err)
		}
		if lic.ShortName != "by-sa" {
			t.Errorf("ShortName = %q, want %q", lic.ShortName, "by-sa")
		}
	})

	t.Run("absent URL yields no-license shape", func(t *testing.T) {
		lic, err := Parse("")
		if err != nil {
			t.Fatalf("Parse() error = %v, want nil", err)
		}
		if lic.ShortName != NoLicenseDisclaimer {
			t.Errorf("ShortName = %q, want no-license disclaimer", lic.ShortName)
		}
		if lic.TypedName != nil {
			t.Errorf("TypedName = %v, want unset", lic.TypedName)
		}
		if lic.URL != "" {
			t.Errorf("URL = %q, want empty", lic.URL)
		}
	})

	t.Run("malformed URL is a hard error", func(t *testing.T) {
		_, err := Parse("https://example.org/terms-of-use")
		if !errors.Is(err, internalErrors.ErrLicensePattern) {
			t.Errorf("Parse() error = %v, want ErrLicensePattern", err)
		}
	})
}

func TestParseOrFallback(t *testing.T) {
	lic, fellBack := ParseOrFallback("https://example.org/not-a-license")
	if !fellBack {
		t.Error("expected fallback for malformed URL")
	}
	if lic.ShortName != NoLicenseDisclaimer {
		t.Errorf("ShortName = %q, want no-license disclaimer", lic.ShortName)
	}

	lic, fellBack = ParseOrFallback("https://creativecommons.org/licenses/by/4.0/")
	if fellBack {
		t.Error("unexpected fallback for valid URL")
	}
	if lic.ShortName != "by" {
		t.Errorf("ShortName = %q, want %q", lic.ShortName, "by")
	}
}

func TestFromShortName(t *testing.T) {
	lic := FromShortName("by-nc", "https://creativecommons.org/licenses/by-nc/2.0/")
	if want := []string{"by", "nc"}; !reflect.DeepEqual(lic.TypedName, want) {
		t.Errorf("TypedName = %v, want %v", lic.TypedName, want)
	}

	lic = FromShortName("", "")
	if lic.ShortName != NoLicenseDisclaimer {
		t.Errorf("ShortName = %q, want no-license disclaimer", lic.ShortName)
	}
}
