package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"guanago/internal/config"
	"guanago/internal/domain"
	"guanago/internal/domain/models"
	"guanago/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "guanago-api"

// Claims is the JWT payload issued on login.
type Claims struct {
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

type AuthService struct {
	Users    UserFinder
	Secret   []byte
	TTL      time.Duration
	PINs     []config.AdminPIN
	Activity ActivityRecorder
	Now      func() time.Time
}

var errBadCredentials = domain.UnauthorizedError{Msg: "email o contraseña incorrectos"}

// Login checks email/password against the bcrypt hash stored in Usuarios_Admins.
func (s AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, domain.ValidationError{Msg: "email y contraseña son requeridos"}
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return Session{}, errBadCredentials
		}
		return Session{}, err
	}
	if user.PasswordHash == "" {
		return Session{}, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, errBadCredentials
	}
	if !user.Active() {
		return Session{}, domain.ForbiddenError{Msg: "cuenta inactiva"}
	}

	sess, err := s.issue(user)
	if err != nil {
		return Session{}, err
	}
	s.record(ctx, user, "login")
	return sess, nil
}

// LoginWithPIN authenticates dashboard operators against the configured PIN table.
func (s AuthService) LoginWithPIN(ctx context.Context, pin string) (Session, error) {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return Session{}, domain.ValidationError{Field: "pin", Msg: "requerido"}
	}
	var match *config.AdminPIN
	for i := range s.PINs {
		// no early exit: every entry is compared
		if subtle.ConstantTimeCompare([]byte(s.PINs[i].PIN), []byte(pin)) == 1 && match == nil {
			match = &s.PINs[i]
		}
	}
	if match == nil {
		return Session{}, domain.UnauthorizedError{Msg: "PIN inválido"}
	}
	name := match.Name
	if name == "" {
		name = strings.ToUpper(match.Role[:1]) + match.Role[1:]
	}
	user := models.User{ID: "pin:" + match.Role + ":" + utils.Fold(name), Name: name, Role: match.Role, Status: "activo"}
	sess, err := s.issue(user)
	if err != nil {
		return Session{}, err
	}
	s.record(ctx, user, "login_pin")
	return sess, nil
}

// IssueToken signs an HS256 token for user.
func (s AuthService) IssueToken(user models.User) (string, time.Time, error) {
	if len(s.Secret) == 0 {
		return "", time.Time{}, domain.InternalError{Msg: "JWT_SECRET no configurado"}
	}
	now := s.now()
	exp := now.Add(s.ttl())
	claims := Claims{
		Role:  user.Role,
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, domain.InternalError{Msg: "no se pudo firmar el token", Err: err}
	}
	return signed, exp, nil
}

// ParseToken verifies signature, issuer and expiry.
func (s AuthService) ParseToken(raw string) (Claims, error) {
	var claims Claims
	keyFunc := func(*jwt.Token) (any, error) { return s.Secret, nil }
	_, err := jwt.ParseWithClaims(raw, &claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, domain.UnauthorizedError{Msg: "token expirado", Err: err}
		}
		return Claims{}, domain.UnauthorizedError{Msg: "token inválido", Err: err}
	}
	return claims, nil
}

func (s AuthService) issue(user models.User) (Session, error) {
	token, exp, err := s.IssueToken(user)
	if err != nil {
		return Session{}, err
	}
	user.PasswordHash = ""
	return Session{Token: token, ExpiresAt: exp, User: user}, nil
}

func (s AuthService) record(ctx context.Context, user models.User, action string) {
	utils.LogEvent(utils.RequestIDFrom(ctx), "auth", action, fmt.Sprintf("user_id=%s role=%s", user.ID, user.Role))
	if s.Activity == nil {
		return
	}
	if err := s.Activity.Record(ctx, models.Activity{
		RequestID: utils.RequestIDFrom(ctx),
		Actor:     user.ID,
		Action:    action,
		Entity:    "user",
		EntityID:  user.ID,
	}); err != nil {
		utils.LogEvent(utils.RequestIDFrom(ctx), "auth", "activity_failed", err.Error())
	}
}

func (s AuthService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 24 * time.Hour
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
