package speedtest

import (
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// lookupHostCountry resolves a test server host ("hostname:port") and returns
// the ISO country code of its first address, if a local GeoIP database can
// answer. Returns ok=false when resolution or every lookup fails; callers
// treat that as "no annotation", never as an error.
func lookupHostCountry(host string) (string, bool) {
	h := host
	if i := strings.LastIndex(h, ":"); i >= 0 {
		h = h[:i]
	}
	if h == "" {
		return "", false
	}
	ips, err := net.LookupIP(h)
	if err != nil || len(ips) == 0 {
		return "", false
	}
	for _, ip := range ips {
		if cc, ok := lookupGeoIP2Country(ip); ok {
			return cc, true
		}
		if cc, ok := lookupLegacyCountry(ip.String()); ok {
			return cc, true
		}
	}
	return "", false
}

// lookupGeoIP2Country attempts common GeoLite2 country database locations and
// returns the ISO country code for the provided IP. Returns ok=false if no
// database is found or the lookup fails.
func lookupGeoIP2Country(ip net.IP) (string, bool) {
	if ip == nil {
		return "", false
	}
	paths := []string{
		"/usr/share/GeoIP/GeoLite2-Country.mmdb",
		"/usr/local/share/GeoIP/GeoLite2-Country.mmdb",
	}
	for _, p := range paths {
		if db, err := geoip2.Open(p); err == nil {
			rec, err2 := db.Country(ip)
			db.Close()
			if err2 == nil && rec != nil && rec.Country.IsoCode != "" {
				return rec.Country.IsoCode, true
			}
		}
	}
	return "", false
}

// lookupLegacyCountry is implemented in geoip_linux.go (legacy GeoIP.dat) and
// geoip_other.go (stub for non-Linux).
