package upload

import "strings"

// Form holds the text fields of an accepted multipart request.
type Form map[string][]string

// Get returns the first value of name with surrounding space removed.
func (f Form) Get(name string) string {
	if vs := f[name]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

// Has reports whether name carries a non-blank value.
func (f Form) Has(name string) bool {
	return f.Get(name) != ""
}

// List collects every value of name, splitting comma-separated entries and
// dropping blanks, so both `a,b` and repeated fields are accepted.
func (f Form) List(name string) []string {
	var out []string
	for _, v := range f[name] {
		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
