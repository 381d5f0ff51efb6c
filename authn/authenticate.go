// Copyright 2021 Molecula Corp. All rights reserved.
package authn

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Sjoshi-TYCS/witsml/logger"
	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
)

// User is an authenticated caller.
type User struct {
	Name   string
	Groups []string
}

// Anonymous is the user of requests that carry no credentials.
var Anonymous = User{Name: "anonymous"}

// Auth extracts the caller of an HTTP request from a bearer JWT signed with a
// shared secret, or from basic auth credentials checked against a fixed user
// table.
type Auth struct {
	logger logger.Logger
	secret []byte
	users  map[string]string
}

func NewAuth(logger logger.Logger, secret string, users map[string]string) (*Auth, error) {
	if secret == "" && len(users) == 0 {
		return nil, errors.New("either a token secret or basic auth users must be configured")
	}
	return &Auth{
		logger: logger,
		secret: []byte(secret),
		users:  users,
	}, nil
}

// Authenticate returns the user of r. Requests without an Authorization
// header are Anonymous.
func (a *Auth) Authenticate(r *http.Request) (User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Anonymous, nil
	}

	if strings.HasPrefix(header, "Bearer ") {
		return a.parseToken(strings.TrimPrefix(header, "Bearer "))
	}

	name, password, ok := r.BasicAuth()
	if !ok {
		return User{}, errors.New("unsupported authorization scheme")
	}
	want, ok := a.users[name]
	if !ok || want != password {
		a.logger.Warnf("basic auth failed for user '%s'", name)
		return User{}, errors.New("invalid username or password")
	}
	return User{Name: name}, nil
}

func (a *Auth) parseToken(raw string) (User, error) {
	if len(a.secret) == 0 {
		return User{}, errors.New("bearer tokens are not accepted")
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return User{}, errors.Wrap(err, "parsing jwt")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return User{}, errors.New("invalid token")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return User{}, errors.New("token has no subject")
	}

	user := User{Name: sub}
	if groups, ok := claims["groups"].([]interface{}); ok {
		for _, g := range groups {
			if s, ok := g.(string); ok {
				user.Groups = append(user.Groups, s)
			}
		}
	}
	return user, nil
}

// NewToken issues a signed token for user valid for ttl.
func (a *Auth) NewToken(user User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":    user.Name,
		"groups": user.Groups,
		"exp":    time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return signed, nil
}
