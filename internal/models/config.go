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

package models

import "time"

// Config holds every setting the CLIs and the listener read at startup.
type Config struct {
	Client   ClientConfig
	Database DatabaseConfig
	Ledger   LedgerConfig
	Listener ListenerConfig
}

// ClientConfig holds the TRTL Apps credentials and transport settings
type ClientConfig struct {
	AppID       string        `env:"TRTL_APP_ID"`
	AppSecret   string        `env:"TRTL_APP_SECRET"`
	APIBase     string        `env:"TRTL_API_BASE" envDefault:"https://trtlapps.io/api"`
	HTTPTimeout time.Duration `env:"TRTL_HTTP_TIMEOUT" envDefault:"60s"`
	Profile     string        `env:"TRTL_APP_PROFILE"`
	AppsFile    string        `env:"APPS_FILE" envDefault:"apps.yaml"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string        `env:"DATABASE_PATH" envDefault:"trtl-apps.db"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"30s"`
	PingTimeout     time.Duration `env:"DB_PING_TIMEOUT" envDefault:"5s"`
}

// Ledger backends
const (
	LedgerBackendSQLite   = "sqlite"
	LedgerBackendFormance = "formance"
)

// LedgerConfig selects where account movements are journaled
type LedgerConfig struct {
	Backend      string `env:"LEDGER_BACKEND" envDefault:"sqlite"`
	StackURL     string `env:"FORMANCE_STACK_URL"`
	ClientID     string `env:"FORMANCE_CLIENT_ID"`
	ClientSecret string `env:"FORMANCE_CLIENT_SECRET"`
	LedgerName   string `env:"FORMANCE_LEDGER" envDefault:"trtl-apps"`
}

// ListenerConfig holds webhook listener and poller settings
type ListenerConfig struct {
	Address          string        `env:"LISTENER_ADDRESS" envDefault:":8080"`
	PollingInterval  time.Duration `env:"LISTENER_POLLING_INTERVAL" envDefault:"30s"`
	VerifySignatures bool          `env:"LISTENER_VERIFY_SIGNATURES" envDefault:"true"`
}

// AppProfile is one entry of the apps.yaml file
type AppProfile struct {
	Name      string `yaml:"name"`
	AppID     string `yaml:"app_id"`
	AppSecret string `yaml:"app_secret"`
	APIBase   string `yaml:"api_base"`
}

// AppsFile is the top level structure of apps.yaml
type AppsFile struct {
	Apps []AppProfile `yaml:"apps"`
}
