package database

import (
	"net/url"
	"regexp"
)

var passwordParam = regexp.MustCompile(`(?i)(password|_auth_pass|pwd)=([^&\s;]*)`)

// RedactDSN masks the password in a connection string so it can be
// logged. URL user info and password=, pwd= and _auth_pass= parameters
// are masked; everything else is returned as is.
func RedactDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
			dsn = u.String()
		}
	}
	return passwordParam.ReplaceAllString(dsn, "${1}=***")
}
