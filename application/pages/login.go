package pages

import (
	"context"

	"shopqa/application/dom"
)

// LoginPage carries both the login form and the new-user signup form
type LoginPage struct {
	page
}

func (l *LoginPage) Path() string { return "/login" }

func (l *LoginPage) LoginForm() dom.Locator          { return l.get(".login-form") }
func (l *LoginPage) SignupForm() dom.Locator         { return l.get(".signup-form") }
func (l *LoginPage) LoginEmailInput() dom.Locator    { return l.get(`[data-qa="login-email"]`) }
func (l *LoginPage) LoginPasswordInput() dom.Locator { return l.get(`[data-qa="login-password"]`) }
func (l *LoginPage) LoginButton() dom.Locator        { return l.get(`[data-qa="login-button"]`) }
func (l *LoginPage) SignupNameInput() dom.Locator    { return l.get(`[data-qa="signup-name"]`) }
func (l *LoginPage) SignupEmailInput() dom.Locator   { return l.get(`[data-qa="signup-email"]`) }
func (l *LoginPage) SignupButton() dom.Locator       { return l.get(`[data-qa="signup-button"]`) }
func (l *LoginPage) LoginErrorMessage() dom.Locator  { return l.get(".login-form p") }
func (l *LoginPage) SignupErrorMessage() dom.Locator { return l.get(".signup-form p") }

func (l *LoginPage) Loaded(ctx context.Context) error {
	return all(ctx, l.LoginForm().ShouldBeVisible, l.SignupForm().ShouldBeVisible)
}

func (l *LoginPage) Visit() *LoginPage {
	l.site.t.Helper()
	l.open(l)
	return l
}

// Login submits the login form. The page does not change on bad credentials,
// so the caller asserts the outcome.
func (l *LoginPage) Login(email, password string) *LoginPage {
	l.site.t.Helper()
	l.typeInto(l.LoginEmailInput(), email)
	l.typeInto(l.LoginPasswordInput(), password)
	l.click(l.LoginButton())
	return l
}

// Signup submits name and email and moves on to the account information form
func (l *LoginPage) Signup(name, email string) *SignupPage {
	l.site.t.Helper()
	l.typeInto(l.SignupNameInput(), name)
	l.typeInto(l.SignupEmailInput(), email)
	l.click(l.SignupButton())
	return l.site.Signup()
}

func (l *LoginPage) ClearLoginForm() *LoginPage {
	l.site.t.Helper()
	l.must(l.LoginEmailInput().Clear(l.ctx()))
	l.must(l.LoginPasswordInput().Clear(l.ctx()))
	return l
}

func (l *LoginPage) ClearSignupForm() *LoginPage {
	l.site.t.Helper()
	l.must(l.SignupNameInput().Clear(l.ctx()))
	l.must(l.SignupEmailInput().Clear(l.ctx()))
	return l
}

func (l *LoginPage) VerifyLoginPageLoaded() *LoginPage {
	l.site.t.Helper()
	l.must(l.Loaded(l.ctx()))
	return l
}

func (l *LoginPage) VerifyLoginError(message string) *LoginPage {
	l.site.t.Helper()
	l.containsText(l.LoginErrorMessage(), message)
	return l
}

func (l *LoginPage) VerifySignupError(message string) *LoginPage {
	l.site.t.Helper()
	l.containsText(l.SignupErrorMessage(), message)
	return l
}

// VerifyStillOnLoginPage checks a rejected login left the form in place
func (l *LoginPage) VerifyStillOnLoginPage() *LoginPage {
	l.site.t.Helper()
	l.urlContains(l.Path())
	l.visible(l.LoginForm())
	return l
}
