package service

import "strings"

// CleanBaseName strips size and colour wording from a display name.
// Best effort: "Hi-Vis Vest - Size: S" gives "Hi-Vis Vest", a name made only
// of variant tokens gives "".
func (d *Detector) CleanBaseName(name string) string {
	out := name
	for _, re := range d.c.cleaners {
		out = re.ReplaceAllString(out, "")
	}
	out = strings.Join(strings.Fields(out), " ")
	return strings.TrimSpace(strings.TrimRight(out, " -,/"))
}
