package pages

import (
	"context"

	"shopqa/application/dom"
)

const subscribedMessage = "You have been successfully subscribed!"

// HomePage is the landing page with navigation, featured items and the newsletter footer
type HomePage struct {
	page
}

func (h *HomePage) Path() string { return "/" }

func (h *HomePage) Header() dom.Locator            { return h.get("header") }
func (h *HomePage) Logo() dom.Locator              { return h.get(".logo img") }
func (h *HomePage) NavigationMenu() dom.Locator    { return h.get(".navbar-nav") }
func (h *HomePage) HomeLink() dom.Locator          { return h.get(`a[href="/"]`) }
func (h *HomePage) ProductsLink() dom.Locator      { return h.get(`a[href="/products"]`) }
func (h *HomePage) CartLink() dom.Locator          { return h.get(`a[href="/view_cart"]`) }
func (h *HomePage) LoginLink() dom.Locator         { return h.get(`a[href="/login"]`) }
func (h *HomePage) LogoutLink() dom.Locator        { return h.get(`a[href="/logout"]`) }
func (h *HomePage) DeleteAccountLink() dom.Locator { return h.get(`a[href="/delete_account"]`) }
func (h *HomePage) ContactLink() dom.Locator       { return h.get(`a[href="/contact_us"]`) }
func (h *HomePage) FeaturedItems() dom.Locator     { return h.get(".features_items") }
func (h *HomePage) CategorySection() dom.Locator   { return h.get(".left-sidebar") }
func (h *HomePage) Footer() dom.Locator            { return h.get("footer") }
func (h *HomePage) SubscriptionInput() dom.Locator { return h.get("#susbscribe_email") }
func (h *HomePage) SubscribeButton() dom.Locator   { return h.get("#subscribe") }
func (h *HomePage) SuccessAlert() dom.Locator      { return h.get(".alert-success") }

// Loaded waits for the logo, the navigation bar and the featured items
func (h *HomePage) Loaded(ctx context.Context) error {
	return all(ctx,
		h.Logo().ShouldBeVisible,
		h.NavigationMenu().ShouldBeVisible,
		h.FeaturedItems().ShouldBeVisible,
	)
}

func (h *HomePage) Visit() *HomePage {
	h.site.t.Helper()
	h.open(h)
	return h
}

func (h *HomePage) ClickProducts() *ProductsPage {
	h.site.t.Helper()
	h.click(h.ProductsLink())
	return h.site.Products()
}

func (h *HomePage) ClickCart() *CartPage {
	h.site.t.Helper()
	h.click(h.CartLink())
	return h.site.Cart()
}

func (h *HomePage) ClickLogin() *LoginPage {
	h.site.t.Helper()
	h.click(h.LoginLink())
	return h.site.Login()
}

func (h *HomePage) ClickContact() *ContactPage {
	h.site.t.Helper()
	h.click(h.ContactLink())
	return h.site.Contact()
}

// Logout follows the logout link and lands on the login page
func (h *HomePage) Logout() *LoginPage {
	h.site.t.Helper()
	h.click(h.LogoutLink())
	h.urlContains("/login")
	return h.site.Login()
}

func (h *HomePage) DeleteAccount() *AccountPage {
	h.site.t.Helper()
	h.click(h.DeleteAccountLink())
	return h.site.Account()
}

func (h *HomePage) SubscribeToNewsletter(email string) *HomePage {
	h.site.t.Helper()
	h.typeInto(h.SubscriptionInput(), email)
	h.click(h.SubscribeButton())
	return h
}

// SelectCategory expands a top-level category in the sidebar
func (h *HomePage) SelectCategory(category string) *HomePage {
	h.site.t.Helper()
	h.click(h.get(".panel-group a").Contains(category))
	return h
}

// SelectSubCategory opens a category listing from an expanded panel
func (h *HomePage) SelectSubCategory(subCategory string) *ProductsPage {
	h.site.t.Helper()
	h.click(h.get(".panel-body a").Contains(subCategory))
	return h.site.Products()
}

func (h *HomePage) VerifyHomePageLoaded() *HomePage {
	h.site.t.Helper()
	h.must(h.Loaded(h.ctx()))
	return h
}

func (h *HomePage) VerifyNavigationMenu() *HomePage {
	h.site.t.Helper()
	h.must(all(h.ctx(),
		h.HomeLink().First().ShouldBeVisible,
		h.ProductsLink().ShouldBeVisible,
		h.CartLink().First().ShouldBeVisible,
		h.LoginLink().ShouldBeVisible,
		h.ContactLink().ShouldBeVisible,
	))
	return h
}

func (h *HomePage) VerifySubscribed() *HomePage {
	h.site.t.Helper()
	h.visible(h.SuccessAlert())
	h.containsText(h.SuccessAlert(), subscribedMessage)
	return h
}

// VerifyLoggedIn checks the header shows the logout link
func (h *HomePage) VerifyLoggedIn() *HomePage {
	h.site.t.Helper()
	h.visible(h.LogoutLink())
	return h
}

// VerifyLoggedInAs checks the header greets name
func (h *HomePage) VerifyLoggedInAs(name string) *HomePage {
	h.site.t.Helper()
	h.containsText(h.NavigationMenu(), "Logged in as "+name)
	return h
}
