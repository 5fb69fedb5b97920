package definition

import "strings"

// ParseDependencies decodes the semicolon-separated dependency list used in
// the argument vector positional form.
func ParseDependencies(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FormatDependencies encodes a dependency list back into its
// semicolon-separated positional form.
func FormatDependencies(deps []string) string {
	return strings.Join(deps, ";")
}

// EncodeServiceControlMultiString encodes a dependency list into the OS
// convention described in spec.md §6: NUL-separated entries terminated by
// a double NUL, the form the Windows Service Control Manager expects for
// a service's dependency list.
func EncodeServiceControlMultiString(deps []string) []uint16 {
	var out []uint16
	for _, d := range deps {
		for _, r := range d {
			out = append(out, uint16(r))
		}
		out = append(out, 0)
	}
	out = append(out, 0)
	return out
}

// DecodeServiceControlMultiString parses the NUL-separated,
// double-NUL-terminated wire form back into individual dependency names.
func DecodeServiceControlMultiString(buf []uint16) []string {
	var out []string
	var cur []rune
	for _, u := range buf {
		if u == 0 {
			if len(cur) == 0 {
				break
			}
			out = append(out, string(cur))
			cur = nil
			continue
		}
		cur = append(cur, rune(u))
	}
	return out
}
