package sidecar

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadProtected reads the deny list of intent ids excluded from selection
// and mutation. Blank lines and #-prefixed comments are ignored. A missing
// file means nothing is protected.
func (s *Store) LoadProtected() (map[string]bool, error) {
	f, err := os.Open(s.ProtectedPath())
	if os.IsNotExist(err) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open protected list: %w", err)
	}
	defer func() {
		_ = f.Close() //nolint:errcheck // read-only, errors non-critical
	}()

	protected := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		protected[line] = true
	}
	return protected, scanner.Err()
}

// IsProtected reports whether an intent id is on the deny list.
func (s *Store) IsProtected(id string) (bool, error) {
	protected, err := s.LoadProtected()
	if err != nil {
		return false, err
	}
	return protected[id], nil
}
