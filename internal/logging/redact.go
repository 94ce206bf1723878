package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// dsnCredentialsPattern matches the user:password part of a connection URL,
// e.g. postgres://app:secret@db:5432/tasks.
var dsnCredentialsPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.\-]*://[^:/@\s]+:[^@\s]+@`)

// passwordParamPattern matches keyword/value DSNs such as "password=secret".
var passwordParamPattern = regexp.MustCompile(`(?i)password\s*=\s*\S+`)

func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	return masq.New(
		masq.WithFieldName("password"),
		masq.WithFieldName("dsn"),
		masq.WithFieldName("database_url"),
		masq.WithFieldName("url"),
		masq.WithFieldPrefix("secret"),

		masq.WithRegex(dsnCredentialsPattern),
		masq.WithRegex(passwordParamPattern),
	)
}
