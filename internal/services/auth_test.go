package services

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/customer-portal/internal/client"
	"github.com/diewo77/customer-portal/internal/client/clienttest"
)

func TestAuthService_Login(t *testing.T) {
	fake := clienttest.New()
	svc := NewAuthService(fake)

	if msg := svc.Login(context.Background(), "", "pw"); msg == nil || msg.Text != MsgFieldsRequired {
		t.Fatalf("expected required-field message, got %v", msg)
	}
	if fake.Count("Login") != 0 {
		t.Fatalf("missing fields must not reach the backend")
	}
	if msg := svc.Login(context.Background(), "bob", "pw"); msg != nil {
		t.Fatalf("expected success, got %v", msg)
	}

	fake.LoginFunc = func(context.Context, string, string) error {
		return &client.APIError{Status: 401, Message: "Invalid username or password"}
	}
	if msg := svc.Login(context.Background(), "bob", "bad"); msg == nil || msg.Text != "Invalid username or password" {
		t.Fatalf("expected server message, got %v", msg)
	}
	fake.LoginFunc = func(context.Context, string, string) error { return errors.New("dial tcp: refused") }
	if msg := svc.Login(context.Background(), "bob", "bad"); msg == nil || msg.Text != MsgLoginFailed {
		t.Fatalf("expected fallback, got %v", msg)
	}
}

func TestAuthService_Register(t *testing.T) {
	fake := clienttest.New()
	svc := NewAuthService(fake)

	msg, ok := svc.Register(context.Background(), "bob", "pw", "b@x.com")
	if !ok || msg.Text != MsgRegistered {
		t.Fatalf("unexpected result %v %v", msg, ok)
	}
	fake.RegisterFunc = func(context.Context, string, string, string) error {
		return &client.APIError{Status: 409, Message: "Username already exists"}
	}
	msg, ok = svc.Register(context.Background(), "bob", "pw", "b@x.com")
	if ok || msg.Text != "Username already exists" {
		t.Fatalf("unexpected result %v %v", msg, ok)
	}
}

func TestAuthService_ForgotPassword(t *testing.T) {
	fake := clienttest.New()
	fake.ForgotPasswordFunc = func(context.Context, string) (string, error) { return "Check your inbox", nil }
	svc := NewAuthService(fake)

	msg, ok := svc.ForgotPassword(context.Background(), "b@x.com")
	if !ok || msg.Text != "Check your inbox" {
		t.Fatalf("unexpected result %v %v", msg, ok)
	}
	fake.ForgotPasswordFunc = func(context.Context, string) (string, error) {
		return "", &client.APIError{Status: 500, Message: "smtp down"}
	}
	msg, ok = svc.ForgotPassword(context.Background(), "b@x.com")
	if ok || msg.Text != MsgForgotFailed {
		t.Fatalf("failure must use the generic message, got %v", msg)
	}
}
