package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"guanago/internal/domain"
	"guanago/internal/domain/models"
	"guanago/internal/utils"
)

// WelcomeBonus is credited by the points scenario on registration.
const WelcomeBonus int64 = 20

// PointsService talks to the GUANA Points Make.com scenario.
type PointsService struct {
	Hooks    Dispatcher
	Activity ActivityRecorder
}

// Register opens a wallet and returns the credited balance.
// A scenario without a JSON response ("Accepted") is taken as registered
// with the welcome bonus.
func (s PointsService) Register(ctx context.Context, email, name string) (models.Wallet, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return models.Wallet{}, err
	}
	resp, err := s.Hooks.Dispatch(ctx, "register", map[string]any{
		"email": email,
		"name":  utils.NormalizeSpace(name),
	})
	if err != nil {
		return models.Wallet{}, err
	}

	w := models.Wallet{Email: email, Action: "registered", Balance: WelcomeBonus}
	if resp.JSON() {
		if a := resp.Get("action").String(); a != "registered" {
			return models.Wallet{}, pointsError(a, resp.Get("message").String())
		}
		if saldo := resp.Get("saldo"); saldo.Exists() {
			w.Balance = saldo.Int()
		}
	}
	s.record(ctx, email, "register", fmt.Sprintf("saldo=%d", w.Balance))
	return w, nil
}

func (s PointsService) Balance(ctx context.Context, email string) (models.Wallet, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return models.Wallet{}, err
	}
	resp, err := s.Hooks.Dispatch(ctx, "balance", map[string]any{"email": email})
	if err != nil {
		return models.Wallet{}, err
	}
	if resp.Get("action").String() == "not_found" {
		return models.Wallet{}, domain.NotFoundError{Resource: "billetera"}
	}
	if !resp.Get("saldo").Exists() {
		return models.Wallet{}, domain.UpstreamError{Service: "make", Status: resp.Status, Msg: "respuesta sin saldo"}
	}
	return models.Wallet{Email: email, Balance: resp.Get("saldo").Int(), Action: resp.Get("action").String()}, nil
}

// Redeem debits amount points and returns the remaining balance.
func (s PointsService) Redeem(ctx context.Context, email string, amount int64, concept string) (models.Wallet, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return models.Wallet{}, err
	}
	if amount <= 0 {
		return models.Wallet{}, domain.ValidationError{Field: "amount", Msg: "debe ser mayor que 0"}
	}
	resp, err := s.Hooks.Dispatch(ctx, "redeem", map[string]any{
		"email":   email,
		"amount":  amount,
		"concept": strings.TrimSpace(concept),
	})
	if err != nil {
		return models.Wallet{}, err
	}
	if !resp.JSON() {
		return models.Wallet{}, domain.UpstreamError{Service: "make", Status: resp.Status, Msg: "respuesta sin saldo"}
	}
	if a := resp.Get("action").String(); a != "redeemed" {
		return models.Wallet{}, pointsError(a, resp.Get("message").String())
	}
	w := models.Wallet{Email: email, Balance: resp.Get("saldo").Int(), Action: "redeemed"}
	s.record(ctx, email, "redeem", fmt.Sprintf("amount=%d saldo=%d", amount, w.Balance))
	return w, nil
}

func (s PointsService) record(ctx context.Context, email, action, detail string) {
	reqID := utils.RequestIDFrom(ctx)
	utils.LogEvent(reqID, "points", action, fmt.Sprintf("email=%s %s", email, detail))
	if s.Activity == nil {
		return
	}
	if err := s.Activity.Record(ctx, models.Activity{
		RequestID: reqID,
		Actor:     email,
		Action:    action,
		Entity:    "wallet",
		EntityID:  email,
		Detail:    detail,
	}); err != nil {
		utils.LogEvent(reqID, "points", "activity_failed", err.Error())
	}
}

func pointsError(action, msg string) error {
	switch action {
	case "insufficient_funds":
		return domain.ConflictError{Resource: "billetera", Msg: "saldo insuficiente"}
	case "already_registered":
		return domain.ConflictError{Resource: "billetera", Msg: "ya registrada"}
	case "not_found":
		return domain.NotFoundError{Resource: "billetera"}
	}
	if msg == "" {
		msg = fmt.Sprintf("acción inesperada %q", action)
	}
	return domain.UpstreamError{Service: "make", Msg: msg}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", domain.ValidationError{Field: "email", Msg: "requerido"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.ValidationError{Field: "email", Msg: "email inválido"}
	}
	return email, nil
}
