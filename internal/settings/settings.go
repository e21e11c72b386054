// Package settings owns the application's single settings file: the password
// hash, the font size preference, and the school year used by the NEIS
// export. The store is an explicit dependency handed to whatever needs it;
// nothing here touches a shared path implicitly.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

const (
	keyPasswordHash = "security.password_hash"
	keyFontSize     = "ui.font_size"
	keySchoolYear   = "school.year"
)

const (
	defaultFontSize   = 10
	defaultSchoolYear = 2025
)

// Store reads and writes the settings file.
type Store struct {
	path string
	v    *viper.Viper
}

// Open loads the settings file, tolerating a missing one on first run.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("settings path is required")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault(keyFontSize, defaultFontSize)
	v.SetDefault(keySchoolYear, defaultSchoolYear)

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read settings file: %w", err)
		}
	}

	return &Store{path: path, v: v}, nil
}

// FontSize returns the preferred UI font size.
func (s *Store) FontSize() int {
	return s.v.GetInt(keyFontSize)
}

// SetFontSize persists the preferred UI font size.
func (s *Store) SetFontSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("font size must be positive")
	}
	s.v.Set(keyFontSize, size)
	return s.save()
}

// SchoolYear returns the school year stamped into NEIS exports.
func (s *Store) SchoolYear() int {
	return s.v.GetInt(keySchoolYear)
}

// SetSchoolYear persists the school year.
func (s *Store) SetSchoolYear(year int) error {
	if year <= 0 {
		return fmt.Errorf("school year must be positive")
	}
	s.v.Set(keySchoolYear, year)
	return s.save()
}

func (s *Store) passwordHash() string {
	return s.v.GetString(keyPasswordHash)
}

func (s *Store) setPasswordHash(hash string) error {
	s.v.Set(keyPasswordHash, hash)
	return s.save()
}

func (s *Store) save() error {
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}
