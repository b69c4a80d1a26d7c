package services

import (
	"context"
	"log"

	"github.com/diewo77/customer-portal/internal/client"
	"github.com/diewo77/customer-portal/internal/models"
	"github.com/diewo77/customer-portal/validation"
)

// Accounts is the subset of the API client used by the login view.
type Accounts interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, password, email string) error
	ForgotPassword(ctx context.Context, email string) (string, error)
}

const (
	MsgLoginFailed    = "Login failed"
	MsgRegisterFailed = "Registration failed"
	MsgRegistered     = "Registration successful! Please login."
	MsgForgotFailed   = "Failed to process request"
	MsgFieldsRequired = "Please fill in all required fields"
)

type AuthService struct {
	accounts Accounts
}

func NewAuthService(a Accounts) *AuthService {
	return &AuthService{accounts: a}
}

// Login returns nil on success, or the message to show inline.
func (s *AuthService) Login(ctx context.Context, username, password string) *models.Message {
	v := make(validation.Violations)
	validation.Required("username", username, v)
	validation.Required("password", password, v)
	if !v.Empty() {
		return &models.Message{Text: MsgFieldsRequired, Severity: models.SeverityError}
	}
	if err := s.accounts.Login(ctx, username, password); err != nil {
		log.Printf("login %q: %v", username, err)
		return &models.Message{Text: client.MessageOr(err, MsgLoginFailed), Severity: models.SeverityError}
	}
	return nil
}

// Register creates an account. ok reports success; the message is shown either way.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (models.Message, bool) {
	v := make(validation.Violations)
	validation.Required("username", username, v)
	validation.Required("password", password, v)
	validation.Required("email", email, v)
	if !v.Empty() {
		return models.Message{Text: MsgFieldsRequired, Severity: models.SeverityError}, false
	}
	if err := s.accounts.Register(ctx, username, password, email); err != nil {
		log.Printf("register %q: %v", username, err)
		return models.Message{Text: client.MessageOr(err, MsgRegisterFailed), Severity: models.SeverityError}, false
	}
	return models.Message{Text: MsgRegistered, Severity: models.SeveritySuccess}, true
}

// ForgotPassword shows the backend's message verbatim on success and a
// generic message on any failure.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (models.Message, bool) {
	msg, err := s.accounts.ForgotPassword(ctx, email)
	if err != nil {
		log.Printf("forgot password: %v", err)
		return models.Message{Text: MsgForgotFailed, Severity: models.SeverityError}, false
	}
	return models.Message{Text: msg, Severity: models.SeveritySuccess}, true
}
