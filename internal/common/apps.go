/**
 * Copyright 2025-present The TRTL Apps Go Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/zoidbergZA/trtl-apps-go/internal/models"
)

var ErrProfileNotFound = errors.New("app profile not found")

func LoadAppProfiles(appsFile string) ([]models.AppProfile, error) {
	var appsPath string
	if filepath.IsAbs(appsFile) {
		appsPath = appsFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		appsPath = filepath.Join(wd, appsFile)
	}

	data, err := os.ReadFile(appsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", appsFile, err)
	}

	return ParseAppProfiles(data)
}

// ParseAppProfiles decodes and validates the contents of an apps.yaml file.
func ParseAppProfiles(data []byte) ([]models.AppProfile, error) {
	var file models.AppsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse apps file: %w", err)
	}

	seen := make(map[string]bool, len(file.Apps))
	for i, app := range file.Apps {
		if app.Name == "" {
			return nil, fmt.Errorf("app at index %d missing name", i)
		}
		if app.AppID == "" || app.AppSecret == "" {
			return nil, fmt.Errorf("app %q missing app_id or app_secret", app.Name)
		}
		if seen[app.Name] {
			return nil, fmt.Errorf("duplicate app profile %q", app.Name)
		}
		seen[app.Name] = true
	}

	return file.Apps, nil
}

func FindProfile(profiles []models.AppProfile, name string) (*models.AppProfile, error) {
	for i := range profiles {
		if profiles[i].Name == name {
			return &profiles[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// ApplyProfile overrides the client credentials with the selected apps.yaml
// profile. Nothing happens when no profile is selected.
func ApplyProfile(cfg *models.Config) error {
	if cfg.Client.Profile == "" {
		return nil
	}

	profiles, err := LoadAppProfiles(cfg.Client.AppsFile)
	if err != nil {
		return err
	}
	profile, err := FindProfile(profiles, cfg.Client.Profile)
	if err != nil {
		return err
	}

	cfg.Client.AppID = profile.AppID
	cfg.Client.AppSecret = profile.AppSecret
	if profile.APIBase != "" {
		cfg.Client.APIBase = profile.APIBase
	}
	return nil
}
