package cfg

import (
	"io"

	"github.com/pelletier/go-toml"
)

const (
	DefWebhookEndpoint = "/webhook/receiver"
	DefLogFormat       = "logfmt"
	DefLogLevel        = "info"
)

type Config struct {
	HTTPListenAddr            string `toml:"http_server_listen_addr"`
	HTTPSListenAddr           string `toml:"https_server_listen_addr"`
	HTTPSCertFile             string `toml:"https_ssl_cert_file"`
	HTTPSKeyFile              string `toml:"https_ssl_key_file"`
	HTTPGithubWebhookEndpoint string `toml:"github_webhook_endpoint"`
	GithubWebHookSecret       string `toml:"github_webhook_secret"`
	DatabaseURI               string `toml:"database_uri"`
	LogFormat                 string `toml:"log_format"`
	LogTimeKey                string `toml:"log_time_key"`
	LogLevel                  string `toml:"log_level"`
}

func Load(reader io.Reader) (*Config, error) {
	var result Config

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	if result.HTTPGithubWebhookEndpoint == "" {
		result.HTTPGithubWebhookEndpoint = DefWebhookEndpoint
	}

	if result.LogFormat == "" {
		result.LogFormat = DefLogFormat
	}

	if result.LogLevel == "" {
		result.LogLevel = DefLogLevel
	}

	return &result, nil
}

func (r *Config) Marshal(writer io.Writer) error {
	return toml.NewEncoder(writer).Encode(r)
}
