package systemd

// WithEnvironment replaces the process environment lookups of s.
func (s *Systemd) WithEnvironment(getenv func(string) string, uid int, home string) *Systemd {
	s.getenv = getenv
	s.uid = func() int { return uid }
	s.homeDir = func() (string, error) { return home, nil }
	return s
}
