package config

import (
	"fmt"
	"os"
	"runtime"
	"sort"

	"gopkg.in/ini.v1"
)

// PoolProfile is a named pool-sizing preset (e.g. "bulk-import" vs
// "interactive") loaded from an ini file. Profiles are listed by
// `dynapool list profiles`; no command applies a profile to a pool.
type PoolProfile struct {
	Name       string
	MinThreads int
	MaxThreads int
	CPUCheck   bool
}

// profilesFile is where LoadPoolProfiles looks by default: one ini section
// per profile name, fields min_threads/max_threads/cpu_check.
const profilesFile = "profiles.ini"

// LoadPoolProfiles reads named pool-sizing profiles from path. A missing
// file yields an empty, non-error result.
func LoadPoolProfiles(path string) ([]PoolProfile, error) {
	if path == "" {
		path = profilesFile
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat profiles file: %w", err)
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles file: %w", err)
	}

	var profiles []PoolProfile
	for _, section := range f.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}

		profiles = append(profiles, PoolProfile{
			Name:       section.Name(),
			MinThreads: section.Key("min_threads").MustInt(0),
			MaxThreads: section.Key("max_threads").MustInt(runtime.NumCPU() * 8),
			CPUCheck:   section.Key("cpu_check").MustBool(true),
		})
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}
