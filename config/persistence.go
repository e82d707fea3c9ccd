package config

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/quasilyte/gdata"
)

const profileKey = "profile"

// Profile is the client state kept between runs.
type Profile struct {
	UserID     int    `json:"userId"`
	LastServer string `json:"lastServer"`
}

// ItemStore is the subset of gdata.Manager used for the profile.
type ItemStore interface {
	LoadItem(itemKey string) ([]byte, error)
	SaveItem(itemKey string, data []byte) error
}

// OpenStore opens the per-user gdata storage for appName.
func OpenStore(appName string) (*gdata.Manager, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open profile storage: %w", err)
	}
	return m, nil
}

// LoadProfile returns the saved profile, or nil when none was saved yet.
func LoadProfile(store ItemStore) (*Profile, error) {
	if store == nil {
		return nil, nil
	}
	data, err := store.LoadItem(profileKey)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

// SaveProfile writes p to the store.
func SaveProfile(store ItemStore, p Profile) error {
	if store == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("serialize profile: %w", err)
	}
	if err := store.SaveItem(profileKey, data); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// ResolveUserID picks the login identifier: an explicit value first, then
// the saved profile, then a fresh random id in [0, 10000).
func ResolveUserID(explicit int, hasExplicit bool, saved *Profile, rng *rand.Rand) int {
	if hasExplicit {
		return explicit
	}
	if saved != nil {
		return saved.UserID
	}
	if rng == nil {
		return rand.Intn(10000)
	}
	return rng.Intn(10000)
}
