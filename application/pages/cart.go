package pages

import (
	"context"
	"strconv"

	"shopqa/application/dom"
	"shopqa/domain/entities"
)

const checkoutLoginPrompt = "Register / Login account to proceed on checkout."

// CartPage lists the cart rows
type CartPage struct {
	page
}

func (c *CartPage) Path() string { return "/view_cart" }

func (c *CartPage) CartTable() dom.Locator               { return c.get("#cart_info_table") }
func (c *CartPage) CartItems() dom.Locator               { return c.get("tbody tr") }
func (c *CartPage) ProceedToCheckoutButton() dom.Locator { return c.get(".check_out") }
func (c *CartPage) EmptyCartMessage() dom.Locator        { return c.get("#empty_cart") }
func (c *CartPage) RemoveButtons() dom.Locator           { return c.get(".cart_quantity_delete") }
func (c *CartPage) QuantityInputs() dom.Locator          { return c.get(".cart_quantity_input") }
func (c *CartPage) CheckoutModal() dom.Locator           { return c.get(".modal-body") }

func (c *CartPage) Loaded(ctx context.Context) error {
	return c.CartTable().ShouldBeVisible(ctx)
}

func (c *CartPage) Visit() *CartPage {
	c.site.t.Helper()
	c.open(c)
	return c
}

func (c *CartPage) RemoveItem(index int) *CartPage {
	c.site.t.Helper()
	c.click(c.RemoveButtons().Eq(index))
	return c
}

func (c *CartPage) UpdateQuantity(index, quantity int) *CartPage {
	c.site.t.Helper()
	input := c.QuantityInputs().Eq(index)
	c.must(input.Clear(c.ctx()))
	c.typeInto(input, strconv.Itoa(quantity))
	return c
}

// ProceedToCheckout leads to checkout for a signed-in user
func (c *CartPage) ProceedToCheckout() *CheckoutPage {
	c.site.t.Helper()
	c.click(c.ProceedToCheckoutButton())
	return c.site.Checkout()
}

// ProceedToCheckoutAsGuest clicks checkout while signed out, which opens a login prompt
func (c *CartPage) ProceedToCheckoutAsGuest() *CartPage {
	c.site.t.Helper()
	c.click(c.ProceedToCheckoutButton())
	return c
}

func (c *CartPage) ContinueOnCart() *CartPage {
	c.site.t.Helper()
	c.click(c.get(".modal-footer .btn-success"))
	return c
}

func (c *CartPage) RegisterOrLogin() *LoginPage {
	c.site.t.Helper()
	c.click(c.CheckoutModal().Find(`a[href="/login"]`))
	return c.site.Login()
}

func (c *CartPage) ItemName(index int) string {
	c.site.t.Helper()
	return c.text(c.CartItems().Eq(index).Find(".cart_description h4"))
}

func (c *CartPage) ItemPrice(index int) string {
	c.site.t.Helper()
	return c.text(c.CartItems().Eq(index).Find(".cart_price p"))
}

func (c *CartPage) ItemQuantity(index int) string {
	c.site.t.Helper()
	return c.text(c.CartItems().Eq(index).Find(".cart_quantity button"))
}

func (c *CartPage) ItemTotal(index int) string {
	c.site.t.Helper()
	return c.text(c.CartItems().Eq(index).Find(".cart_total_price"))
}

// Items reads every row currently in the cart
func (c *CartPage) Items() []entities.CartLine {
	c.site.t.Helper()
	n, err := c.CartItems().Count(c.ctx())
	c.must(err)
	lines := make([]entities.CartLine, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, entities.CartLine{
			Name:     c.ItemName(i),
			Price:    c.ItemPrice(i),
			Quantity: c.ItemQuantity(i),
			Total:    c.ItemTotal(i),
		})
	}
	return lines
}

func (c *CartPage) VerifyCartPageLoaded() *CartPage {
	c.site.t.Helper()
	c.must(c.Loaded(c.ctx()))
	return c
}

func (c *CartPage) VerifyCartNotEmpty() *CartPage {
	c.site.t.Helper()
	c.must(c.CartItems().ShouldHaveLengthGreaterThan(c.ctx(), 0))
	return c
}

func (c *CartPage) VerifyCartEmpty() *CartPage {
	c.site.t.Helper()
	c.visible(c.EmptyCartMessage())
	return c
}

func (c *CartPage) VerifyItemInCart(name string) *CartPage {
	c.site.t.Helper()
	c.containsText(c.CartItems(), name)
	return c
}

func (c *CartPage) VerifyItemCount(want int) *CartPage {
	c.site.t.Helper()
	c.must(c.CartItems().ShouldHaveLength(c.ctx(), want))
	return c
}

// VerifyLoginRequired checks the guest checkout prompt
func (c *CartPage) VerifyLoginRequired() *CartPage {
	c.site.t.Helper()
	c.containsText(c.CheckoutModal(), checkoutLoginPrompt)
	return c
}
