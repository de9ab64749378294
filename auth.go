package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/asdine/storm"
	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"
)

var (
	JWT_HMAC_SECRET []byte        = []byte("x5hPDCBOOYBYh2zpuCpf1eYZ9DnRYUmR5dGkq8M1bo0=")
	JWT_LIFESPAN    time.Duration = time.Hour

	JWTEmpty = errors.New("Bearer token not provided")
)

// Represents a local user allowed to drive the bot over the API
type User struct {
	ID       int    `storm:"increment"` // pk
	Email    string `storm:"unique"`
	Name     string
	Password string
}

// Sets the User.Password to the hashed value for the provided plain text
func (u *User) SetPassword(pass []byte) {
	hash, _ := bcrypt.GenerateFromPassword(pass, bcrypt.DefaultCost)
	u.Password = string(hash)
}

// Compares User.Password with the provided plain text.
// Returns values directly as provided by the bcrypt library for downstream processing.
func (u *User) VerifyPassword(pass []byte) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), pass)
}

// CreateUser stores a new user with a hashed password. Used by the dev
// shell to seed accounts.
func CreateUser(email, name string, pass []byte) (user *User, err error) {
	user = &User{
		Email: email,
		Name:  name,
	}
	user.SetPassword(pass)

	err = ENV.DB.Save(user)
	return
}

// Produce a standard format JWT token
func newJWT(sub string) (ts string, err error) {
	now := time.Now().UTC()
	claims := jwt.StandardClaims{
		Issuer:    ENV.JWT_ISSUER,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(JWT_LIFESPAN).Unix(),
		Subject:   sub,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(JWT_HMAC_SECRET)
}

//---
// Views
//---

// Login looks up a user, verifies password and returns a fresh token
func Login(w http.ResponseWriter, r *http.Request) {
	data := &LoginPayload{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	var user User
	if err := ENV.DB.One("Email", data.Email, &user); err != nil {
		if err == storm.ErrNotFound {
			render.Render(w, r, ErrNotFound)
			return
		}
		panic(err)
	}

	if err := user.VerifyPassword([]byte(data.Password)); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			render.Render(w, r, ErrPermissionDenied(errors.New("Invalid password")))
			return
		}
		render.Render(w, r, ErrRender(err))
		return
	}

	tokenString, err := newJWT(user.Email)
	if err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}

	render.JSON(w, r, JWTPayload{tokenString})
}

// Provides a new token to the client
func JWTRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := ctx.Value("jwt").(*jwt.Token)
	claims := token.Claims.(*jwt.StandardClaims)

	tokenString, err := newJWT(claims.Subject)
	if err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}

	render.JSON(w, r, JWTPayload{tokenString})
}

//---
// Authentication middleware
//---

// ValidateJWT guards a route tree. The token is taken from the query
// string (websocket clients cannot set headers), the Authorization header
// or a cookie, in that order.
func ValidateJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr := r.URL.Query().Get("jwt")

		if tokenStr == "" {
			bearer := r.Header.Get("Authorization")
			if len(bearer) > 7 && strings.ToUpper(bearer[0:6]) == "BEARER" {
				tokenStr = bearer[7:]
			}
		}

		if tokenStr == "" {
			cookie, err := r.Cookie("jwt")
			if err == nil {
				tokenStr = cookie.Value
			}
		}

		if tokenStr == "" {
			render.Render(w, r, ErrUnauthorized(JWTEmpty))
			return
		}

		token, err := jwt.ParseWithClaims(tokenStr,
			&jwt.StandardClaims{},
			func(*jwt.Token) (interface{}, error) { return JWT_HMAC_SECRET, nil })

		if err != nil {
			verr := errors.New("Invalid token")
			if jwterr, ok := err.(*jwt.ValidationError); ok {
				if jwterr.Errors == jwt.ValidationErrorExpired {
					verr = errors.New("Token has expired")
				}
			}

			render.Render(w, r, ErrUnauthorized(verr))
			return
		}

		if !token.Valid {
			render.Render(w, r, ErrUnauthorized(errors.New("Invalid token")))
			return
		}

		ctx = context.WithValue(ctx, "jwt", token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
