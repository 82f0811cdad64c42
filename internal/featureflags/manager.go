// Package featureflags evaluates the FEATURE_FLAGS setting.
package featureflags

import (
	"sort"
	"strings"
)

// AdminOnlyRegistration closes /register to everyone but admins.
const AdminOnlyRegistration = "admin_only_registration"

// Manager holds the flags parsed from a list like
// "admin_only_registration,new_editor=off". A bare name means on. Entries
// with an unrecognised value are ignored, so a typo never takes the site down.
type Manager struct {
	flags map[string]bool
}

func NewManager(raw string) *Manager {
	m := &Manager{flags: map[string]bool{}}
	for _, pair := range strings.Split(raw, ",") {
		key, value, hasValue := strings.Cut(pair, "=")
		key = normalize(key)
		if key == "" {
			continue
		}
		if !hasValue {
			m.flags[key] = true
			continue
		}
		switch normalize(value) {
		case "on", "true", "1":
			m.flags[key] = true
		case "off", "false", "0":
			m.flags[key] = false
		}
	}
	return m
}

// On reports whether name is switched on. Unknown flags are off.
func (m *Manager) On(name string) bool {
	if m == nil {
		return false
	}
	return m.flags[normalize(name)]
}

// String lists the configured flags in a stable order for startup logs.
func (m *Manager) String() string {
	names := make([]string, 0, len(m.flags))
	for name, on := range m.flags {
		v := "off"
		if on {
			v = "on"
		}
		names = append(names, name+"="+v)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
