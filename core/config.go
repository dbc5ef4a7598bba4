package core

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Config is loaded from an ini file, with sane defaults for a local
// sqlite-backed instance. Flags in main may override ListenAddr and DBURL.
type Config struct {
	ListenAddr string
	Base       string // strip off this prefix from every HTTP request
	DBURL      string
	Allowlists Allowlists
}

func DefaultConfig() Config {
	return Config{
		ListenAddr: "127.0.0.1:8080",
		DBURL:      "sqlite3:agencydesk.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared",
	}
}

// LoadConfig reads an ini file. A missing path returns the defaults.
func LoadConfig(path string) (Config, error) {
	var cfg = DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("loading config %s: %w", path, err)
	}

	server := file.Section("server")
	if v := server.Key("listen").String(); v != "" {
		cfg.ListenAddr = v
	}
	cfg.Base = server.Key("base").String()

	if v := file.Section("database").Key("url").String(); v != "" {
		cfg.DBURL = v
	}

	auth := file.Section("auth")
	cfg.Allowlists = Allowlists{
		CompanyDomain: auth.Key("company_domain").String(),
		Admins:        auth.Key("admins").Strings(","),
		Marketing:     auth.Key("marketing").Strings(","),
		Processing:    auth.Key("processing").Strings(","),
	}

	return cfg, nil
}
