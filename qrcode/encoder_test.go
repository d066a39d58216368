package qrcode

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivan-nizamov/qrfolio"
	"github.com/ivan-nizamov/qrfolio/bitutil"
	"github.com/ivan-nizamov/qrfolio/charset"
)

func TestChooseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"0123456789", ModeNumeric},
		{"HELLO WORLD", ModeAlphanumeric},
		{"HTTPS://EXAMPLE.COM/$%*+-./:", ModeAlphanumeric},
		{"hello", ModeByte},
		{"héllo", ModeByte},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, chooseMode([]byte(tt.in)), tt.in)
	}
}

func TestHelloWorldCodewords(t *testing.T) {
	s, err := prepare([]byte("HELLO WORLD"), M, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.version.Number())
	assert.Equal(t, ModeAlphanumeric, s.mode)

	want := []byte{32, 91, 11, 120, 209, 114, 220, 77, 67, 64, 236, 17, 236, 17, 236, 17}
	assert.Equal(t, want, s.bits().Bytes())

	cw, err := s.codewords()
	require.NoError(t, err)
	wantEC := []byte{196, 35, 39, 119, 235, 215, 231, 226, 93, 23}
	assert.Equal(t, append(want, wantEC...), cw)
}

func TestNumericPacking(t *testing.T) {
	s, err := prepare([]byte("01234567"), M, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ModeNumeric, s.mode)
	// 0001 0000001000 0000001100 0101011001 1000011, then terminator.
	bits := s.bits().String()
	assert.True(t, strings.HasPrefix(bits, " ...X.... ..X..... ....XX.. .X.X.XX. .XX....X X"), bits)
}

func TestUTF8PayloadGetsECI(t *testing.T) {
	s, err := prepare([]byte("héllo"), L, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, charset.UTF8, s.eci)
	// 0111 00011010 0100
	assert.True(t, strings.HasPrefix(s.bits().String(), " .XXX...X X.X..X.."))

	s, err = prepare([]byte{0xff, 0xfe, 0x00}, L, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, s.eci, "binary data carries no ECI")

	s, err = prepare([]byte("hello"), L, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, s.eci, "ASCII carries no ECI")
}

func TestSegmentHeaderFields(t *testing.T) {
	s, err := prepare([]byte("HELLO WORLD"), M, nil, nil)
	require.NoError(t, err)
	r := bitutil.NewBitReader(s.bits().Bytes())

	mode, err := r.ReadBits(4)
	require.NoError(t, err)
	assert.Equal(t, ModeAlphanumeric.Bits(), mode)
	count, err := r.ReadBits(ModeAlphanumeric.CharacterCountBits(1))
	require.NoError(t, err)
	assert.Equal(t, uint32(11), count)
	pair, err := r.ReadBits(11)
	require.NoError(t, err)
	assert.Equal(t, uint32(17*45+14), pair, "HE")

	s, err = prepare([]byte{'G', 0xfc}, M, nil, charset.ISO8859_1)
	require.NoError(t, err)
	r = bitutil.NewBitReader(s.bits().Bytes())
	for _, want := range []struct {
		n int
		v uint32
	}{
		{4, ModeECI.Bits()},
		{8, 3},
		{4, ModeByte.Bits()},
		{8, 2},
		{8, 'G'},
		{8, 0xfc},
	} {
		v, err := r.ReadBits(want.n)
		require.NoError(t, err)
		assert.Equal(t, want.v, v)
	}
}

func TestTerminatePadding(t *testing.T) {
	s, err := prepare([]byte("1"), H, nil, nil)
	require.NoError(t, err)
	b := s.bits().Bytes()
	require.Len(t, b, 9)
	assert.Equal(t, []byte{0xec, 0x11, 0xec, 0x11, 0xec, 0x11}, b[3:])
}

func TestEncodeDeterministic(t *testing.T) {
	payloads := []string{"HELLO", "https://ivan-nizamov.github.io/resume", strings.Repeat("x", 500)}
	for _, p := range payloads {
		for _, level := range []Level{L, M, Q, H} {
			a, err := Encode([]byte(p), level, nil)
			require.NoError(t, err)
			b, err := Encode([]byte(p), level, nil)
			require.NoError(t, err)
			assert.True(t, a.Equal(b), "%q at %s", p, level)
		}
	}
}

func TestVersionMonotonicInLevel(t *testing.T) {
	payloads := []string{"1", "HELLO WORLD", "https://example.com/some/long/path?with=query", strings.Repeat("Portfolio ", 60)}
	for _, p := range payloads {
		prev := 0
		for _, level := range []Level{L, M, Q, H} {
			m, err := Encode([]byte(p), level, nil)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, m.Version(), prev, "%q at %s", p, level)
			prev = m.Version()
		}
	}
}

func TestMaskOptimality(t *testing.T) {
	payloads := []string{"HELLO", "https://ivan-nizamov.github.io/", "0123456789012345678901234567890123456789", strings.Repeat("ab", 120)}
	for _, p := range payloads {
		for _, level := range []Level{L, M, Q, H} {
			scores, err := MaskPenalties([]byte(p), level, nil)
			require.NoError(t, err)
			m, err := Encode([]byte(p), level, nil)
			require.NoError(t, err)

			chosen := scores[m.Mask()]
			for i, s := range scores {
				assert.LessOrEqual(t, chosen, s, "mask %d for %q at %s", i, p, level)
				if i < m.Mask() {
					assert.Greater(t, s, chosen, "lower index %d ties for %q at %s", i, p, level)
				}
			}
			assert.Equal(t, chosen, penalty(m.modules))
		}
	}
}

func TestForcedMask(t *testing.T) {
	scores, err := MaskPenalties([]byte("HELLO"), Q, nil)
	require.NoError(t, err)
	for mask := 0; mask < 8; mask++ {
		m, err := Encode([]byte("HELLO"), Q, &Options{Mask: ForceMask(mask)})
		require.NoError(t, err)
		assert.Equal(t, mask, m.Mask())
		assert.Equal(t, scores[mask], penalty(m.modules))
	}
}

func TestForcedVersion(t *testing.T) {
	m, err := Encode([]byte("HELLO"), M, &Options{Version: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, m.Version())
	assert.Equal(t, 57, m.Size())

	_, err = Encode(bytes.Repeat([]byte("a"), 100), H, &Options{Version: 2})
	assert.ErrorIs(t, err, qrfolio.ErrCapacityExceeded)
}

func TestForcedMode(t *testing.T) {
	m, err := Encode([]byte("12345"), M, &Options{Mode: ModeByte})
	require.NoError(t, err)
	assert.Equal(t, ModeByte, m.Mode())

	_, err = Encode([]byte("hello"), M, &Options{Mode: ModeAlphanumeric})
	assert.ErrorIs(t, err, qrfolio.ErrInvalidPayload)

	_, err = Encode([]byte("12A"), M, &Options{Mode: ModeNumeric})
	assert.ErrorIs(t, err, qrfolio.ErrInvalidPayload)
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		level   Level
		opts    *Options
		want    error
	}{
		{"empty", nil, M, nil, qrfolio.ErrInvalidPayload},
		{"bad level", []byte("x"), Level(9), nil, qrfolio.ErrInvalidOptions},
		{"version too high", []byte("x"), M, &Options{Version: 41}, qrfolio.ErrInvalidOptions},
		{"negative version", []byte("x"), M, &Options{Version: -1}, qrfolio.ErrInvalidOptions},
		{"mask too high", []byte("x"), M, &Options{Mask: ForceMask(8)}, qrfolio.ErrInvalidOptions},
		{"eci mode", []byte("x"), M, &Options{Mode: ModeECI}, qrfolio.ErrInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.payload, tt.level, tt.opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(M, nil))
	assert.NoError(t, Validate(H, &Options{Version: 40, Mask: ForceMask(0), Mode: ModeByte}))
	assert.ErrorIs(t, Validate(Level(4), nil), qrfolio.ErrInvalidOptions)
	assert.ErrorIs(t, Validate(M, &Options{Version: 256}), qrfolio.ErrInvalidOptions)
	assert.ErrorIs(t, Validate(M, &Options{Mask: ForceMask(255)}), qrfolio.ErrInvalidOptions)
}

func TestCapacityBoundary(t *testing.T) {
	tests := []struct {
		level Level
		mode  Mode
		unit  byte
		max   int
	}{
		{L, ModeNumeric, '7', 7089},
		{L, ModeAlphanumeric, 'Q', 4296},
		{L, ModeByte, 'q', 2953},
		{H, ModeByte, 'q', 1273},
		{Q, ModeNumeric, '3', 3993},
	}
	for _, tt := range tests {
		t.Run(tt.level.String()+"-"+tt.mode.String(), func(t *testing.T) {
			require.Equal(t, tt.max, Capacity(tt.level, tt.mode, 40))

			m, err := Encode(bytes.Repeat([]byte{tt.unit}, tt.max), tt.level, nil)
			require.NoError(t, err)
			assert.Equal(t, 40, m.Version())
			assert.Equal(t, tt.mode, m.Mode())

			_, err = Encode(bytes.Repeat([]byte{tt.unit}, tt.max+1), tt.level, nil)
			require.ErrorIs(t, err, qrfolio.ErrCapacityExceeded)

			var capErr *qrfolio.CapacityError
			require.True(t, errors.As(err, &capErr))
			assert.Equal(t, 40, capErr.Version)
			assert.Equal(t, tt.level.String(), capErr.Level)
			assert.Greater(t, capErr.BitsRequired, capErr.BitsAvailable)
		})
	}
}

func TestCapacitySmallVersions(t *testing.T) {
	assert.Equal(t, 41, Capacity(L, ModeNumeric, 1))
	assert.Equal(t, 20, Capacity(M, ModeAlphanumeric, 1))
	assert.Equal(t, 7, Capacity(H, ModeByte, 1))
	assert.Equal(t, 0, Capacity(L, ModeByte, 0))
	assert.Equal(t, 0, Capacity(L, ModeECI, 5))

	for v := 1; v <= 40; v++ {
		for _, level := range []Level{L, M, Q, H} {
			n := Capacity(level, ModeByte, v)
			m, err := Encode(bytes.Repeat([]byte("z"), n), level, nil)
			require.NoError(t, err)
			assert.Equal(t, v, m.Version(), "%d bytes at %s", n, level)
		}
	}
}

func TestEncodeVerify(t *testing.T) {
	m, err := Encode([]byte(strings.Repeat("verify me ", 40)), Q, &Options{Verify: true})
	require.NoError(t, err)
	assert.Greater(t, m.Version(), 6)
}

func TestEncodeText(t *testing.T) {
	m, err := EncodeText("café", M, &Options{CharacterSet: "ISO-8859-1"})
	require.NoError(t, err)
	assert.Equal(t, ModeByte, m.Mode())

	_, err = EncodeText("日本", M, &Options{CharacterSet: "ISO-8859-1"})
	assert.ErrorIs(t, err, qrfolio.ErrInvalidPayload)

	_, err = EncodeText("x", M, &Options{CharacterSet: "klingon"})
	assert.ErrorIs(t, err, qrfolio.ErrInvalidOptions)

	a, err := EncodeText("HELLO", M, nil)
	require.NoError(t, err)
	b, err := Encode([]byte("HELLO"), M, nil)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}
