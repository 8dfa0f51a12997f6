package config

type UpstreamCfg struct {
	BaseURL string `json:"baseUrl"`
	Path    string `json:"path"`
}

type FormCfg struct {
	Validation   string `json:"validation"`   // goal|all
	Presentation string `json:"presentation"` // inline|alert
}

type LoggingCfg struct {
	Level  string `json:"level"`
	Format string `json:"format"` // json|console
}

type ViewsCfg struct {
	TTLSec int `json:"ttlSec"`
}

type Config struct {
	Version  int         `json:"version"`
	Listen   string      `json:"listen"`
	Upstream UpstreamCfg `json:"upstream"`
	Form     FormCfg     `json:"form"`
	Logging  LoggingCfg  `json:"logging"`
	Views    ViewsCfg    `json:"views"`
}
