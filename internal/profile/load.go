package profile

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a profile from a JSON file
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}

	p, err := Decode(data)
	if err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Decode parses a JSON profile and rejects unknown grades
func Decode(data []byte) (Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := p.ValidateGrades(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// ValidateGrades rejects grades outside A, B, C, S, F. Missing grades are allowed.
func (p Profile) ValidateGrades() error {
	for i, g := range p.Grades {
		if g != GradeNone && !g.Valid() {
			return fmt.Errorf("subject %d: unknown grade %q", i+1, g)
		}
	}
	return nil
}
