package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"mudra/internal/track"
)

// Setting keys for typed values.
const (
	settingTrackerConfig = "tracker_config"
	settingCalibration   = "calibration"
)

// SettingsRepository provides key-value settings storage.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get retrieves a setting value by key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores a setting value, replacing any existing value for the key.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// SaveTrackerConfig persists the tracker tuning.
func (r *SettingsRepository) SaveTrackerConfig(cfg track.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode tracker config: %w", err)
	}
	return r.Set(settingTrackerConfig, string(data))
}

// LoadTrackerConfig returns the persisted tracker tuning, or ErrNotFound if
// none has been saved.
func (r *SettingsRepository) LoadTrackerConfig() (track.Config, error) {
	var cfg track.Config

	value, err := r.Get(settingTrackerConfig)
	if err != nil {
		return cfg, err
	}

	if err := json.Unmarshal([]byte(value), &cfg); err != nil {
		return cfg, fmt.Errorf("decode tracker config: %w", err)
	}
	return cfg, nil
}

// SaveCalibration persists a calibration offset so the physical setup
// survives restarts.
func (r *SettingsRepository) SaveCalibration(c track.Calibration) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode calibration: %w", err)
	}
	return r.Set(settingCalibration, string(data))
}

// LoadCalibration returns the persisted calibration, or ErrNotFound if none
// has been saved.
func (r *SettingsRepository) LoadCalibration() (track.Calibration, error) {
	var c track.Calibration

	value, err := r.Get(settingCalibration)
	if err != nil {
		return c, err
	}

	if err := json.Unmarshal([]byte(value), &c); err != nil {
		return c, fmt.Errorf("decode calibration: %w", err)
	}
	return c, nil
}
