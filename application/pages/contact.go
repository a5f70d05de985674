package pages

import (
	"context"

	"shopqa/application/dom"
	"shopqa/domain/entities"
)

const contactSuccess = "Success! Your details have been submitted successfully."

// ContactPage is the contact-us form with an optional attachment
type ContactPage struct {
	page
}

func (c *ContactPage) Path() string { return "/contact_us" }

func (c *ContactPage) field(name string) dom.Locator {
	return c.get(`[data-qa="` + name + `"]`)
}

func (c *ContactPage) UploadInput() dom.Locator  { return c.get(`input[name="upload_file"]`) }
func (c *ContactPage) SubmitButton() dom.Locator { return c.get(`input[name="submit"]`) }
func (c *ContactPage) Status() dom.Locator       { return c.get(".status") }
func (c *ContactPage) HomeButton() dom.Locator   { return c.get("#form-section .btn-success") }

func (c *ContactPage) Loaded(ctx context.Context) error {
	return c.field("name").ShouldBeVisible(ctx)
}

func (c *ContactPage) Visit() *ContactPage {
	c.site.t.Helper()
	c.open(c)
	return c
}

func (c *ContactPage) Fill(msg entities.ContactMessage) *ContactPage {
	c.site.t.Helper()
	c.typeInto(c.field("name"), msg.Name)
	c.typeInto(c.field("email"), msg.Email)
	c.typeInto(c.field("subject"), msg.Subject)
	c.typeInto(c.field("message"), msg.Message)
	return c
}

func (c *ContactPage) AttachFile(path string) *ContactPage {
	c.site.t.Helper()
	c.must(c.UploadInput().Attach(c.ctx(), path))
	return c
}

func (c *ContactPage) Submit() *ContactPage {
	c.site.t.Helper()
	c.click(c.SubmitButton())
	return c
}

func (c *ContactPage) VerifySubmitted() *ContactPage {
	c.site.t.Helper()
	c.containsText(c.Status(), contactSuccess)
	return c
}

func (c *ContactPage) ReturnHome() *HomePage {
	c.site.t.Helper()
	c.click(c.HomeButton())
	c.must(c.site.doc.ShouldURLEqual(c.ctx(), c.site.baseURL+"/"))
	return c.site.Home()
}
