package config

import (
	"net/url"
	"strings"
)

const preparedBinaryOption = "disable_prepared_binary_result"

// PostgresDSN returns raw with disable_prepared_binary_result=yes added when
// requested. Both URL and keyword/value forms are accepted; an explicit value
// already present in raw is left alone.
func PostgresDSN(raw string, disablePreparedBinary bool) string {
	raw = strings.TrimSpace(raw)
	if !disablePreparedBinary || raw == "" {
		return raw
	}

	if parsed, ok := parseDSNURL(raw); ok {
		query := parsed.Query()
		if query.Has(preparedBinaryOption) {
			return raw
		}
		query.Set(preparedBinaryOption, "yes")
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}

	if _, ok := keywordValue(raw, preparedBinaryOption); ok {
		return raw
	}
	return raw + " " + preparedBinaryOption + "=yes"
}

// PostgresDBName extracts the database name from a DSN, or "" when absent.
func PostgresDBName(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if parsed, ok := parseDSNURL(dsn); ok {
		return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	}
	name, _ := keywordValue(dsn, "dbname")
	return name
}

func parseDSNURL(raw string) (*url.URL, bool) {
	if !strings.HasPrefix(raw, "postgres://") && !strings.HasPrefix(raw, "postgresql://") {
		return nil, false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	return parsed, true
}

func keywordValue(dsn, key string) (string, bool) {
	for _, token := range strings.Fields(dsn) {
		k, v, ok := strings.Cut(token, "=")
		if !ok || k != key {
			continue
		}
		return strings.Trim(v, `"'`), true
	}
	return "", false
}
