package textutil

// ScanEscape returns the escape sequence at the start of s, which must begin
// with ESC, and whether it is an SGR (ESC [ ... m). CSI runs through its final
// byte, string controls (OSC, DCS, APC, PM, SOS) through BEL or ST, and other
// escapes through their intermediate and final bytes. A malformed sequence
// ends before the offending byte; a truncated one consumes the rest of s.
func ScanEscape(s string) (string, bool) {
	if len(s) < 2 {
		return s, false
	}
	switch c := s[1]; {
	case c == '[':
		j := 2
		for j < len(s) && s[j] >= 0x30 && s[j] <= 0x3f {
			j++
		}
		for j < len(s) && s[j] >= 0x20 && s[j] <= 0x2f {
			j++
		}
		if j == len(s) {
			return s, false
		}
		if s[j] >= 0x40 && s[j] <= 0x7e {
			return s[:j+1], s[j] == 'm' && isSGRParams(s[2:j])
		}
		return s[:j], false
	case c == ']' || c == 'P' || c == 'X' || c == '^' || c == '_':
		for j := 2; j < len(s); j++ {
			if s[j] == 0x07 {
				return s[:j+1], false
			}
			if s[j] == 0x1b && j+1 < len(s) && s[j+1] == '\\' {
				return s[:j+2], false
			}
		}
		return s, false
	case c >= 0x20 && c <= 0x2f:
		j := 2
		for j < len(s) && s[j] >= 0x20 && s[j] <= 0x2f {
			j++
		}
		if j == len(s) {
			return s, false
		}
		if s[j] >= 0x30 && s[j] <= 0x7e {
			return s[:j+1], false
		}
		return s[:j], false
	default:
		return s[:2], false
	}
}

func isSGRParams(p string) bool {
	for i := 0; i < len(p); i++ {
		if (p[i] < '0' || p[i] > '9') && p[i] != ';' && p[i] != ':' {
			return false
		}
	}
	return true
}
