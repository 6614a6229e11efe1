package telemetry

import "strings"

// Display glyph substitutions.
const (
	glyphUpDown = '↕'
	glyphDegree = '°'
)

// DecodeUserInterfaceText decodes length bytes of buf from offset as display
// text. 0x01 becomes an up/down arrow, 0x02 an asterisk and 0x5E a degree sign;
// other ASCII bytes pass through and non-ASCII bytes become '?'. Ranges past
// the end of buf are truncated.
func DecodeUserInterfaceText(buf []byte, offset, length int) string {
	if offset < 0 || offset >= len(buf) || length <= 0 {
		return ""
	}
	end := offset + length
	if end > len(buf) {
		end = len(buf)
	}
	var sb strings.Builder
	sb.Grow(end - offset)
	for _, c := range buf[offset:end] {
		switch c {
		case 0x01:
			sb.WriteRune(glyphUpDown)
		case 0x02:
			sb.WriteByte('*')
		case 0x5E:
			sb.WriteRune(glyphDegree)
		default:
			if c > 0x7F {
				c = '?'
			}
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
