package pages

import (
	"context"

	"shopqa/application/dom"
	"shopqa/domain/entities"
)

// PaymentPage takes card details and confirms the order
type PaymentPage struct {
	page
}

func (p *PaymentPage) Path() string { return "/payment" }

func (p *PaymentPage) field(name string) dom.Locator {
	return p.get(`[data-qa="` + name + `"]`)
}

func (p *PaymentPage) PayButton() dom.Locator      { return p.field("pay-button") }
func (p *PaymentPage) OrderPlaced() dom.Locator    { return p.field("order-placed") }
func (p *PaymentPage) ContinueButton() dom.Locator { return p.field("continue-button") }
func (p *PaymentPage) InvoiceButton() dom.Locator  { return p.get(".btn-default.check_out") }

func (p *PaymentPage) Loaded(ctx context.Context) error {
	return p.PayButton().ShouldBeVisible(ctx)
}

func (p *PaymentPage) FillCard(card entities.PaymentCard) *PaymentPage {
	p.site.t.Helper()
	p.typeInto(p.field("name-on-card"), card.NameOnCard)
	p.typeInto(p.field("card-number"), card.CardNumber)
	p.typeInto(p.field("cvc"), card.CVC)
	p.typeInto(p.field("expiry-month"), card.ExpiryMonthString())
	p.typeInto(p.field("expiry-year"), card.ExpiryYearString())
	return p
}

func (p *PaymentPage) Pay() *PaymentPage {
	p.site.t.Helper()
	p.click(p.PayButton())
	return p
}

func (p *PaymentPage) VerifyOrderPlaced() *PaymentPage {
	p.site.t.Helper()
	p.visible(p.OrderPlaced())
	return p
}

func (p *PaymentPage) DownloadInvoice() *PaymentPage {
	p.site.t.Helper()
	p.click(p.InvoiceButton())
	return p
}

func (p *PaymentPage) ClickContinue() *HomePage {
	p.site.t.Helper()
	p.click(p.ContinueButton())
	return p.site.Home()
}
