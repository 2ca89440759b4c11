package cookies

import (
	"net/http"
	"time"
)

const (
	Access  = "accessToken"
	Refresh = "refreshToken"
)

func Create(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func Delete(name, path string) *http.Cookie {
	return Create(name, "", path, time.Now().Add(-1*time.Hour))
}
