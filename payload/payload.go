// Package payload builds the canonical text of structured QR payloads:
// contact cards, Wi-Fi credentials and sms, mailto and geo URIs.
//
// The builders are plain string templates. Only free-text URI fields are
// escaped; nothing is validated.
package payload

import (
	"strconv"
	"strings"
)

// VCard is a minimal vCard 3.0 contact.
type VCard struct {
	Name         string
	Organization string
	Phone        string
	Email        string
	Website      string
}

func (c VCard) String() string {
	var sb strings.Builder
	sb.WriteString("BEGIN:VCARD\nVERSION:3.0\n")
	sb.WriteString("FN:" + c.Name + "\n")
	sb.WriteString("ORG:" + c.Organization + "\n")
	sb.WriteString("TEL:" + c.Phone + "\n")
	sb.WriteString("EMAIL:" + c.Email + "\n")
	sb.WriteString("URL:" + c.Website + "\n")
	sb.WriteString("END:VCARD")
	return sb.String()
}

// DefaultSecurity is the Wi-Fi authentication type used when none is given.
const DefaultSecurity = "WPA"

// WiFi returns a Wi-Fi network configuration string.
func WiFi(ssid, password, security string) string {
	if security == "" {
		security = DefaultSecurity
	}
	return "WIFI:T:" + security + ";S:" + ssid + ";P:" + password + ";;"
}

// SMS returns an sms URI with a prefilled message body.
func SMS(phone, body string) string {
	return "sms:" + phone + "?body=" + EscapeComponent(body)
}

// Mailto returns a mailto URI with subject and body.
func Mailto(email, subject, body string) string {
	return "mailto:" + email + "?subject=" + EscapeComponent(subject) + "&body=" + EscapeComponent(body)
}

// Geo returns a geo URI that also labels the point.
func Geo(lat, lng float64, label string) string {
	ll := formatCoord(lat) + "," + formatCoord(lng)
	return "geo:" + ll + "?q=" + ll + "(" + EscapeComponent(label) + ")"
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

const upperhex = "0123456789ABCDEF"

// EscapeComponent percent-encodes s as a URI component. Letters, digits and
// -_.!~*'() are kept; every other byte of the UTF-8 encoding is escaped, so a
// space becomes %20.
func EscapeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}
	out := make([]byte, 0, len(s)+2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			out = append(out, c)
			continue
		}
		out = append(out, '%', upperhex[c>>4], upperhex[c&15])
	}
	return string(out)
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
