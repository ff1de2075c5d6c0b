package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mkifle/portfolio-backend/errs"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Settings is the typed view of the configuration map.
type Settings struct {
	Environment string
	Port        string

	Database DatabaseSettings

	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	AcceptedOrigins []string
	StaticDir       string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	LogLevel  string
	LogFormat string

	Notify NotifySettings
	Upload UploadSettings
}

type DatabaseSettings struct {
	Type            string // postgres | sqlite
	DSN             string
	ReplicaDSNs     []string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
	QueryTimeout    time.Duration
}

type NotifySettings struct {
	ResendAPIKey    string
	ResendFromEmail string
	EmailRecipients []string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	SMSRecipients    []string
}

type UploadSettings struct {
	AWSRegion     string
	Bucket        string
	PublicBaseURL string
}

// IsProduction reports whether error details must be hidden from clients.
func (s Settings) IsProduction() bool {
	return s.Environment == EnvProduction
}

func (n NotifySettings) EmailEnabled() bool {
	return n.ResendAPIKey != "" && n.ResendFromEmail != "" && len(n.EmailRecipients) > 0
}

func (n NotifySettings) SMSEnabled() bool {
	return n.TwilioAccountSID != "" && n.TwilioAuthToken != "" && n.TwilioFromNumber != "" && len(n.SMSRecipients) > 0
}

func (u UploadSettings) Enabled() bool {
	return u.Bucket != ""
}

// Load validates the configuration map. JWT_SECRET and the database location
// are required; there are no built-in fallbacks for either.
func Load(c map[string]string) (Settings, error) {
	s := Settings{
		Environment:     GetString(c, "NODE_ENV", GetString(c, "ENVIRONMENT", EnvDevelopment)),
		Port:            GetString(c, "PORT", "8080"),
		JWTSecret:       GetString(c, "JWT_SECRET", ""),
		BcryptCost:      GetInt(c, "BCRYPT_COST", 12),
		AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS"),
		StaticDir:       GetString(c, "STATIC_DIR", ""),
		ReadTimeout:     GetSeconds(c, "READ_TIMEOUT_SECONDS", 30),
		WriteTimeout:    GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 30),
		IdleTimeout:     GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 120),
		LogLevel:        GetString(c, "LOG_LEVEL", "info"),
		LogFormat:       GetString(c, "LOG_FORMAT", "console"),
		Notify: NotifySettings{
			ResendAPIKey:     GetString(c, "RESEND_API_KEY", ""),
			ResendFromEmail:  GetString(c, "RESEND_FROM_EMAIL", ""),
			EmailRecipients:  GetList(c, "CONTACT_NOTIFY_EMAILS"),
			TwilioAccountSID: GetString(c, "TWILIO_ACCOUNT_SID", ""),
			TwilioAuthToken:  GetString(c, "TWILIO_AUTH_TOKEN", ""),
			TwilioFromNumber: GetString(c, "TWILIO_FROM_NUMBER", ""),
			SMSRecipients:    GetList(c, "CONTACT_NOTIFY_SMS"),
		},
		Upload: UploadSettings{
			AWSRegion:     GetString(c, "AWS_REGION", "us-east-1"),
			Bucket:        GetString(c, "S3_BUCKET", ""),
			PublicBaseURL: GetString(c, "S3_PUBLIC_BASE_URL", ""),
		},
	}

	if s.JWTSecret == "" {
		return s, errs.NewConfigMissingError("JWT_SECRET")
	}

	expiry, err := ParseExpiry(GetString(c, "JWT_EXPIRE", "30d"))
	if err != nil {
		return s, errs.NewConfigInvalidError("JWT_EXPIRE", err.Error())
	}
	s.JWTExpiry = expiry

	db, err := loadDatabase(c)
	if err != nil {
		return s, err
	}
	s.Database = db

	return s, nil
}

func loadDatabase(c map[string]string) (DatabaseSettings, error) {
	db := DatabaseSettings{
		Type:            strings.ToLower(GetString(c, "DB_TYPE", "postgres")),
		ReplicaDSNs:     GetList(c, "DATABASE_REPLICA_URLS"),
		SQLitePath:      GetString(c, "SQLITE_PATH", "portfolio.db"),
		MaxOpenConns:    GetInt(c, "DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    GetInt(c, "DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Duration(GetInt(c, "DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute,
		ConnectTimeout:  GetSeconds(c, "DB_CONNECT_TIMEOUT_SECONDS", 5),
		QueryTimeout:    GetSeconds(c, "DB_QUERY_TIMEOUT_SECONDS", 45),
	}

	switch db.Type {
	case "sqlite":
		return db, nil
	case "postgres":
		db.DSN = GetString(c, "DATABASE_URL", "")
		if db.DSN != "" {
			return db, nil
		}
		host := GetString(c, "DB_HOST", "")
		if host == "" {
			return db, errs.NewConfigMissingError("DATABASE_URL or DB_HOST")
		}
		db.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s connect_timeout=%d",
			host,
			GetString(c, "DB_USER", ""),
			GetString(c, "DB_PASSWORD", ""),
			GetString(c, "DB_NAME", ""),
			GetString(c, "DB_PORT", "5432"),
			GetString(c, "DB_SSLMODE", "require"),
			int(db.ConnectTimeout.Seconds()),
		)
		return db, nil
	default:
		return db, errs.NewConfigInvalidError("DB_TYPE", fmt.Sprintf("unsupported database type %q", db.Type))
	}
}

// ParseExpiry accepts Go durations ("720h") and day counts ("30d").
func ParseExpiry(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil || days <= 0 {
			return 0, fmt.Errorf("invalid day count %q", raw)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("expiry must be positive, got %q", raw)
	}
	return d, nil
}
