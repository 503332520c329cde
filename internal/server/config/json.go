package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/shipshopglobal/backend/internal/flagx"
	"github.com/shipshopglobal/backend/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	AdminAllowedIPs              []string       `json:"admin_allowed_ips"`
	RateTablePath                string         `json:"rate_table_path"`
	VolumetricDivisor            float64        `json:"volumetric_divisor"`
	PayPalBaseURL                string         `json:"paypal_base_url"`
	PayPalClientID               string         `json:"paypal_client_id"`
	PayPalSecret                 string         `json:"paypal_secret"`
	PayPalTimeout                timex.Duration `json:"paypal_timeout"`
	Currency                     string         `json:"currency"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	AMQPURL                      string         `json:"amqp_url"`
	EmailQueue                   string         `json:"email_queue"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path comes from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	config.AdminAllowedIPs = c.AdminAllowedIPs
	config.RateTablePath = c.RateTablePath
	if c.VolumetricDivisor > 0 {
		config.VolumetricDivisor = c.VolumetricDivisor
	}
	config.PayPalBaseURL = c.PayPalBaseURL
	config.PayPalClientID = c.PayPalClientID
	config.PayPalSecret = c.PayPalSecret
	config.PayPalTimeout = time.Duration(c.PayPalTimeout.Duration)
	config.Currency = c.Currency
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.AMQPURL = c.AMQPURL
	config.EmailQueue = c.EmailQueue
}
