package postgres

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildDSN renders the space-separated key=value connection string that
// lib/pq-style drivers expect. The password is escaped so values containing
// spaces or quotes cannot break out of their field.
func BuildDSN(opts *Options) string {
	if opts == nil {
		return ""
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		opts.Host,
		opts.Port,
		opts.Username,
		escapePostgresValue(opts.Password),
		opts.Database,
		opts.SSLMode,
	)
}

// BuildURI renders the postgresql:// URI form of the same connection, with
// the password percent-encoded.
func BuildURI(opts *Options) string {
	if opts == nil {
		return ""
	}

	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		opts.Username,
		url.QueryEscape(opts.Password),
		opts.Host,
		opts.Port,
		opts.Database,
		opts.SSLMode,
	)
}

// escapePostgresValue quotes a DSN value when it contains characters that
// would otherwise terminate the field. Single quotes are doubled and
// backslashes escaped, per the libpq quoting rules.
func escapePostgresValue(value string) string {
	if value == "" {
		return "''"
	}

	if !strings.ContainsAny(value, " '\\") {
		return value
	}

	escaped := strings.ReplaceAll(value, "'", "''")
	escaped = strings.ReplaceAll(escaped, "\\", "\\\\")
	return "'" + escaped + "'"
}
