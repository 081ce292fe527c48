package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries the settings shared by every service binary. Fields a given
// binary does not use stay at their zero value; each Load* variant validates
// only what its binary needs.
type Config struct {
	Port        string `json:"port"`
	DatabaseURL string `json:"databaseUrl"`
	JWTSecret   string `json:"jwtSecret"`

	TokenExpiryHours int `json:"tokenExpiryHours"`

	ProxyURIAuth     string `json:"proxyUriAuth"`
	ProxyURIArticles string `json:"proxyUriArticles"`
	ProxyURIPosts    string `json:"proxyUriPosts"`
	ProxyURIComments string `json:"proxyUriComments"`

	RoleCheckTimeoutSeconds int      `json:"roleCheckTimeoutSeconds"`
	CORSOrigins             []string `json:"corsOrigins"`

	BucketName           string `json:"bucketName"`
	Region               string `json:"region"`
	AwsAccessKeyID       string `json:"awsAccessKeyId"`
	AwsSecretAccessKey   string `json:"awsSecretAccessKey"`
	UploadURLTimeLimit   int    `json:"uploadUrlTimeLimit"`
	DownloadURLTimeLimit int    `json:"downloadUrlTimeLimit"`

	AppName                 string `json:"appName"`
	MailProviders           string `json:"mailProviders"`
	ResendAPIKey            string `json:"resendApiKey"`
	ResendAPIURL            string `json:"resendApiUrl"`
	SendGridAPIKey          string `json:"sendGridApiKey"`
	SendGridAPIURL          string `json:"sendGridApiUrl"`
	MailFrom                string `json:"mailFrom"`
	NewsletterIntervalHours int    `json:"newsletterIntervalHours"`
}

func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.TokenExpiryHours) * time.Hour
}

func (c *Config) RoleCheckTimeout() time.Duration {
	return time.Duration(c.RoleCheckTimeoutSeconds) * time.Second
}

func (c *Config) NewsletterInterval() time.Duration {
	return time.Duration(c.NewsletterIntervalHours) * time.Hour
}

func intEnv(key string, target *int) {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			*target = parsed
		} else {
			fmt.Fprintf(os.Stderr, "Warning: Invalid %s value '%s', using default\n", key, val)
		}
	}
}

func loadCommon() *Config {
	config := &Config{}

	config.Port = os.Getenv("PORT")
	config.DatabaseURL = os.Getenv("DATABASE_URL")
	config.JWTSecret = os.Getenv("JWT_SECRET")
	intEnv("TOKEN_EXPIRY_HOURS", &config.TokenExpiryHours)

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				config.CORSOrigins = append(config.CORSOrigins, origin)
			}
		}
	}

	if config.TokenExpiryHours == 0 {
		config.TokenExpiryHours = 24
	}

	return config
}

// LoadGateway reads the gateway's settings. The gateway holds no database
// connection; it needs the upstream service addresses and the role check
// timeout against the auth service.
func LoadGateway() (*Config, error) {
	config := loadCommon()

	config.ProxyURIAuth = os.Getenv("PROXY_URI_AUTH")
	config.ProxyURIArticles = os.Getenv("PROXY_URI_ARTICLES")
	config.ProxyURIPosts = os.Getenv("PROXY_URI_POSTS")
	config.ProxyURIComments = os.Getenv("PROXY_URI_COMMENTS")
	intEnv("ROLE_CHECK_TIMEOUT_SECONDS", &config.RoleCheckTimeoutSeconds)

	if config.ProxyURIAuth == "" {
		return nil, fmt.Errorf("PROXY_URI_AUTH must be set")
	}
	if config.ProxyURIArticles == "" {
		return nil, fmt.Errorf("PROXY_URI_ARTICLES must be set")
	}
	if config.ProxyURIPosts == "" {
		return nil, fmt.Errorf("PROXY_URI_POSTS must be set")
	}
	if config.ProxyURIComments == "" {
		return nil, fmt.Errorf("PROXY_URI_COMMENTS must be set")
	}

	if config.RoleCheckTimeoutSeconds == 0 {
		config.RoleCheckTimeoutSeconds = 3
	}
	if config.Port == "" {
		config.Port = "8080"
	}

	return config, nil
}

// LoadAuth reads the auth service's settings, including the mail providers
// used for the welcome email and the newsletter.
func LoadAuth() (*Config, error) {
	config := loadCommon()

	config.AppName = os.Getenv("APP_NAME")
	config.MailProviders = os.Getenv("MAIL_PROVIDERS")
	config.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	config.ResendAPIURL = os.Getenv("RESEND_API_URL")
	config.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	config.SendGridAPIURL = os.Getenv("SENDGRID_API_URL")
	config.MailFrom = os.Getenv("MAIL_FROM")
	intEnv("NEWSLETTER_INTERVAL_HOURS", &config.NewsletterIntervalHours)

	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	if config.AppName == "" {
		config.AppName = "Blog Platform"
	}
	if config.NewsletterIntervalHours == 0 {
		config.NewsletterIntervalHours = 24 * 7
	}
	if config.Port == "" {
		config.Port = "8081"
	}

	return config, nil
}

// LoadContent reads a content service's settings (articles, posts or
// comments). The AWS settings are required only when the service serves
// presigned media URLs; defaultPort keeps the three binaries from colliding
// in local setups.
func LoadContent(defaultPort string, withMedia bool) (*Config, error) {
	config := loadCommon()

	config.BucketName = os.Getenv("BUCKET_NAME")
	config.Region = os.Getenv("REGION")
	config.AwsAccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	config.AwsSecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	intEnv("UPLOAD_URL_TIME_LIMIT", &config.UploadURLTimeLimit)
	intEnv("DOWNLOAD_URL_TIME_LIMIT", &config.DownloadURLTimeLimit)

	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	if withMedia {
		if config.BucketName == "" {
			return nil, fmt.Errorf("BUCKET_NAME must be set")
		}
		if config.Region == "" {
			return nil, fmt.Errorf("REGION must be set")
		}
		if config.AwsAccessKeyID == "" {
			return nil, fmt.Errorf("AWS_ACCESS_KEY_ID must be set")
		}
		if config.AwsSecretAccessKey == "" {
			return nil, fmt.Errorf("AWS_SECRET_ACCESS_KEY must be set")
		}
	}

	if config.UploadURLTimeLimit == 0 {
		config.UploadURLTimeLimit = 15
	}
	if config.DownloadURLTimeLimit == 0 {
		config.DownloadURLTimeLimit = 15
	}
	if config.Port == "" {
		config.Port = defaultPort
	}

	return config, nil
}
