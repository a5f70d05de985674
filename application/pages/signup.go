package pages

import (
	"context"
	"strconv"

	"shopqa/application/dom"
	"shopqa/domain/entities"
)

// SignupPage is the account information form reached after LoginPage.Signup
type SignupPage struct {
	page
}

func (s *SignupPage) Path() string { return "/signup" }

func (s *SignupPage) field(name string) dom.Locator {
	return s.get(`[data-qa="` + name + `"]`)
}

func (s *SignupPage) Form() dom.Locator { return s.get(".login-form") }

func (s *SignupPage) Loaded(ctx context.Context) error {
	return s.field("create-account").ShouldBeVisible(ctx)
}

// FillAccountInformation completes every required field from user
func (s *SignupPage) FillAccountInformation(user entities.User) *SignupPage {
	s.site.t.Helper()
	s.must(s.Loaded(s.ctx()))
	s.must(s.field("title").Check(s.ctx()))
	s.typeInto(s.field("password"), user.Password)
	s.typeInto(s.field("first_name"), user.FirstName)
	s.typeInto(s.field("last_name"), user.LastName)
	s.typeInto(s.field("company"), user.Company)
	s.typeInto(s.field("address"), user.Address1)
	s.typeInto(s.field("address2"), user.Address2)
	s.must(s.field("country").Select(s.ctx(), user.Country))
	s.typeInto(s.field("state"), user.State)
	s.typeInto(s.field("city"), user.City)
	s.typeInto(s.field("zipcode"), user.Zipcode)
	s.typeInto(s.field("mobile_number"), user.MobileNumber)
	return s
}

// SelectDateOfBirth picks the birth date from the three dropdowns; month is the English month name
func (s *SignupPage) SelectDateOfBirth(day int, month string, year int) *SignupPage {
	s.site.t.Helper()
	s.must(s.field("days").Select(s.ctx(), strconv.Itoa(day)))
	s.must(s.field("months").Select(s.ctx(), month))
	s.must(s.field("years").Select(s.ctx(), strconv.Itoa(year)))
	return s
}

func (s *SignupPage) CreateAccount() *AccountPage {
	s.site.t.Helper()
	s.click(s.field("create-account"))
	return s.site.Account()
}

// AccountPage shows the outcome of creating or deleting an account
type AccountPage struct {
	page
}

func (a *AccountPage) Created() dom.Locator  { return a.get(`[data-qa="account-created"]`) }
func (a *AccountPage) Deleted() dom.Locator  { return a.get(`[data-qa="account-deleted"]`) }
func (a *AccountPage) Continue() dom.Locator { return a.get(`[data-qa="continue-button"]`) }

func (a *AccountPage) VerifyAccountCreated() *AccountPage {
	a.site.t.Helper()
	a.visible(a.Created())
	return a
}

func (a *AccountPage) VerifyAccountDeleted() *AccountPage {
	a.site.t.Helper()
	a.visible(a.Deleted())
	return a
}

func (a *AccountPage) ClickContinue() *HomePage {
	a.site.t.Helper()
	a.click(a.Continue())
	return a.site.Home()
}
