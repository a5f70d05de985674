package pages

import (
	"context"

	"shopqa/application/dom"
	"shopqa/domain/entities"
)

// CheckoutPage reviews the addresses and the order before payment
type CheckoutPage struct {
	page
}

func (c *CheckoutPage) Path() string { return "/checkout" }

func (c *CheckoutPage) Information() dom.Locator      { return c.get(".checkout-information") }
func (c *CheckoutPage) DeliveryAddress() dom.Locator  { return c.get("#address_delivery") }
func (c *CheckoutPage) BillingAddress() dom.Locator   { return c.get("#address_invoice") }
func (c *CheckoutPage) CommentInput() dom.Locator     { return c.get(`[data-qa="comment-text"]`) }
func (c *CheckoutPage) PlaceOrderButton() dom.Locator { return c.get(".btn-default.check_out") }

func (c *CheckoutPage) Loaded(ctx context.Context) error {
	return all(ctx,
		func(ctx context.Context) error { return c.site.doc.ShouldURLContain(ctx, c.Path()) },
		c.Information().ShouldBeVisible,
	)
}

func (c *CheckoutPage) VerifyCheckoutPageLoaded() *CheckoutPage {
	c.site.t.Helper()
	c.must(c.Loaded(c.ctx()))
	return c
}

// VerifyDeliveryAddress checks the delivery block shows the user's street and city
func (c *CheckoutPage) VerifyDeliveryAddress(user entities.User) *CheckoutPage {
	c.site.t.Helper()
	c.containsText(c.DeliveryAddress(), user.Address1)
	c.containsText(c.DeliveryAddress(), user.City)
	return c
}

func (c *CheckoutPage) AddComment(comment string) *CheckoutPage {
	c.site.t.Helper()
	c.typeInto(c.CommentInput(), comment)
	return c
}

func (c *CheckoutPage) PlaceOrder() *PaymentPage {
	c.site.t.Helper()
	c.click(c.PlaceOrderButton())
	return c.site.Payment()
}
