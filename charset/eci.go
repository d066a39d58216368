// Package charset maps character set names to QR Extended Channel
// Interpretation (ECI) assignments and converts text into those character
// sets.
package charset

import (
	"errors"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrUnsupportedCharset is returned for character set names without an
	// ECI assignment.
	ErrUnsupportedCharset = errors.New("charset: unsupported character set")

	// ErrUnmappable is returned when text contains runes the character set
	// cannot represent.
	ErrUnmappable = errors.New("charset: text not representable")
)

// ECI is a character set with its ECI assignment value.
type ECI struct {
	Value   int
	Name    string
	Aliases []string

	// enc is nil for UTF-8 and US-ASCII, which need no transcoding.
	enc encoding.Encoding
}

// Pre-defined ECIs.
var (
	Cp437      = &ECI{2, "Cp437", []string{"IBM437"}, charmap.CodePage437}
	ISO8859_1  = &ECI{3, "ISO-8859-1", []string{"ISO8859_1", "latin1"}, charmap.ISO8859_1}
	ISO8859_2  = &ECI{4, "ISO-8859-2", []string{"ISO8859_2"}, charmap.ISO8859_2}
	ISO8859_3  = &ECI{5, "ISO-8859-3", []string{"ISO8859_3"}, charmap.ISO8859_3}
	ISO8859_4  = &ECI{6, "ISO-8859-4", []string{"ISO8859_4"}, charmap.ISO8859_4}
	ISO8859_5  = &ECI{7, "ISO-8859-5", []string{"ISO8859_5"}, charmap.ISO8859_5}
	ISO8859_6  = &ECI{8, "ISO-8859-6", []string{"ISO8859_6"}, charmap.ISO8859_6}
	ISO8859_7  = &ECI{9, "ISO-8859-7", []string{"ISO8859_7"}, charmap.ISO8859_7}
	ISO8859_8  = &ECI{10, "ISO-8859-8", []string{"ISO8859_8"}, charmap.ISO8859_8}
	ISO8859_9  = &ECI{11, "ISO-8859-9", []string{"ISO8859_9"}, charmap.ISO8859_9}
	ISO8859_10 = &ECI{12, "ISO-8859-10", []string{"ISO8859_10"}, charmap.ISO8859_10}
	ISO8859_13 = &ECI{15, "ISO-8859-13", []string{"ISO8859_13"}, charmap.ISO8859_13}
	ISO8859_14 = &ECI{16, "ISO-8859-14", []string{"ISO8859_14"}, charmap.ISO8859_14}
	ISO8859_15 = &ECI{17, "ISO-8859-15", []string{"ISO8859_15"}, charmap.ISO8859_15}
	ISO8859_16 = &ECI{18, "ISO-8859-16", []string{"ISO8859_16"}, charmap.ISO8859_16}
	ShiftJIS   = &ECI{20, "Shift_JIS", []string{"SJIS"}, japanese.ShiftJIS}
	Cp1250     = &ECI{21, "windows-1250", []string{"Cp1250"}, charmap.Windows1250}
	Cp1251     = &ECI{22, "windows-1251", []string{"Cp1251"}, charmap.Windows1251}
	Cp1252     = &ECI{23, "windows-1252", []string{"Cp1252"}, charmap.Windows1252}
	Cp1256     = &ECI{24, "windows-1256", []string{"Cp1256"}, charmap.Windows1256}
	UTF16BE    = &ECI{25, "UTF-16BE", []string{"UnicodeBig"}, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}
	UTF8       = &ECI{26, "UTF-8", []string{"UTF8"}, nil}
	ASCII      = &ECI{27, "US-ASCII", []string{"ASCII"}, nil}
	Big5       = &ECI{28, "Big5", nil, traditionalchinese.Big5}
	GB18030    = &ECI{29, "GB18030", []string{"GB2312", "GBK", "EUC_CN"}, simplifiedchinese.GB18030}
	EUCKR      = &ECI{30, "EUC-KR", []string{"EUC_KR"}, korean.EUCKR}
)

var byName = map[string]*ECI{}

func init() {
	for _, eci := range []*ECI{
		Cp437, ISO8859_1, ISO8859_2, ISO8859_3, ISO8859_4, ISO8859_5,
		ISO8859_6, ISO8859_7, ISO8859_8, ISO8859_9, ISO8859_10, ISO8859_13,
		ISO8859_14, ISO8859_15, ISO8859_16, ShiftJIS, Cp1250, Cp1251,
		Cp1252, Cp1256, UTF16BE, UTF8, ASCII, Big5, GB18030, EUCKR,
	} {
		byName[strings.ToLower(eci.Name)] = eci
		for _, alias := range eci.Aliases {
			byName[strings.ToLower(alias)] = eci
		}
	}
}

// Lookup returns the ECI registered under name, matched case-insensitively.
// An empty name means UTF-8.
func Lookup(name string) (*ECI, error) {
	if name == "" {
		return UTF8, nil
	}
	eci, ok := byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrUnsupportedCharset
	}
	return eci, nil
}

func (e *ECI) String() string {
	return e.Name
}
