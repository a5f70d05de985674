package commands

import (
	"context"
	"errors"

	"shopqa/domain/entities"
)

const (
	loginForm          = ".login-form"
	loginEmailInput    = `[data-qa="login-email"]`
	loginPasswordInput = `[data-qa="login-password"]`
	loginButton        = `[data-qa="login-button"]`
	logoutLink         = `a[href="/logout"]`
)

// Login signs in through the login form and waits until the browser has left
// the login screen
func Login(ctx context.Context, env *Env, email, password string) error {
	env.logger().WithField("email", email).Info("login")

	doc := env.Doc
	if err := doc.Visit(ctx, env.url("/login")); err != nil {
		return err
	}
	if err := doc.Get(loginEmailInput).Type(ctx, email); err != nil {
		return err
	}
	if err := doc.Get(loginPasswordInput).Type(ctx, password); err != nil {
		return err
	}
	if err := doc.Get(loginButton).Click(ctx); err != nil {
		return err
	}

	err := doc.ShouldURLNotContain(ctx, "/login")
	var ae *entities.AssertionError
	if errors.As(err, &ae) {
		return &entities.AssertionError{
			Selector:  loginForm,
			Condition: "submit and leave the login screen",
			Observed:  ae.Observed,
			Timeout:   ae.Timeout,
			Err:       err,
		}
	}
	return err
}

// Logout follows the logout link back to the login screen
func Logout(ctx context.Context, env *Env) error {
	env.logger().Info("logout")
	if err := env.Doc.Get(logoutLink).Click(ctx); err != nil {
		return err
	}
	return env.Doc.ShouldURLContain(ctx, "/login")
}
