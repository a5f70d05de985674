// Package pages holds one page object per screen of the shop. Page objects are
// test helpers: every action and assertion reports failures through the TB it
// was created with, so a failed step ends the test body and chains stay fluent.
package pages

import (
	"context"
	"strings"
	"time"

	"shopqa/application/dom"
)

// TB is the part of testing.TB page objects need
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Navigable pages live at a fixed path below the base URL
type Navigable interface {
	Path() string
}

// Awaitable pages can tell when their key content has rendered
type Awaitable interface {
	Loaded(ctx context.Context) error
}

// Site creates page objects that share a test, a context and a document
type Site struct {
	t       TB
	ctx     context.Context
	doc     *dom.Document
	baseURL string
}

// NewSite binds page objects to one test
func NewSite(t TB, ctx context.Context, doc *dom.Document, baseURL string) *Site {
	return &Site{t: t, ctx: ctx, doc: doc, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Site) base() page { return page{site: s} }

func (s *Site) Home() *HomePage                     { return &HomePage{page: s.base()} }
func (s *Site) Login() *LoginPage                   { return &LoginPage{page: s.base()} }
func (s *Site) Signup() *SignupPage                 { return &SignupPage{page: s.base()} }
func (s *Site) Products() *ProductsPage             { return &ProductsPage{page: s.base()} }
func (s *Site) ProductDetails() *ProductDetailsPage { return &ProductDetailsPage{page: s.base()} }
func (s *Site) Cart() *CartPage                     { return &CartPage{page: s.base()} }
func (s *Site) Checkout() *CheckoutPage             { return &CheckoutPage{page: s.base()} }
func (s *Site) Payment() *PaymentPage               { return &PaymentPage{page: s.base()} }
func (s *Site) Contact() *ContactPage               { return &ContactPage{page: s.base()} }
func (s *Site) Account() *AccountPage               { return &AccountPage{page: s.base()} }

// Doc exposes the underlying document for ad-hoc queries
func (s *Site) Doc() *dom.Document { return s.doc }

// page is the wait/act helper every page object embeds
type page struct {
	site *Site
}

func (p page) ctx() context.Context { return p.site.ctx }

func (p page) get(selector string) dom.Locator { return p.site.doc.Get(selector) }

// must fails the test with err
func (p page) must(err error) {
	if err != nil {
		p.site.t.Helper()
		p.site.t.Fatalf("%v", err)
	}
}

// open visits nav's path and, for awaitable pages, waits for its content
func (p page) open(nav Navigable) {
	p.site.t.Helper()
	p.must(p.site.doc.Visit(p.ctx(), p.site.baseURL+nav.Path()))
	if a, ok := nav.(Awaitable); ok {
		p.must(a.Loaded(p.ctx()))
	}
}

// all runs checks in order and stops at the first failure
func all(ctx context.Context, checks ...func(context.Context) error) error {
	for _, check := range checks {
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Title returns the document title
func (p page) Title() string {
	p.site.t.Helper()
	title, err := p.site.doc.Title(p.ctx())
	p.must(err)
	return title
}

// URL returns the current location
func (p page) URL() string {
	p.site.t.Helper()
	u, err := p.site.doc.URL(p.ctx())
	p.must(err)
	return u
}

// WaitForPageLoad waits for a visible body
func (p page) WaitForPageLoad() {
	p.site.t.Helper()
	p.must(p.site.doc.WaitForPageLoad(p.ctx()))
}

// ScrollTo scrolls the window to a named position
func (p page) ScrollTo(position string) {
	p.site.t.Helper()
	p.must(p.site.doc.ScrollTo(p.ctx(), position))
}

func (p page) ScrollToElement(selector string) {
	p.site.t.Helper()
	p.must(p.get(selector).ScrollIntoView(p.ctx()))
}

func (p page) TakeScreenshot(path string) {
	p.site.t.Helper()
	p.must(p.site.doc.Screenshot(p.ctx(), path))
}

// WaitForElement waits up to timeout for selector to be visible
func (p page) WaitForElement(selector string, timeout time.Duration) {
	p.site.t.Helper()
	p.must(p.site.doc.WithTimeout(timeout).Get(selector).ShouldBeVisible(p.ctx()))
}

func (p page) text(l dom.Locator) string {
	p.site.t.Helper()
	s, err := l.Text(p.ctx())
	p.must(err)
	return s
}

func (p page) click(l dom.Locator) {
	p.site.t.Helper()
	p.must(l.Click(p.ctx()))
}

func (p page) typeInto(l dom.Locator, text string) {
	p.site.t.Helper()
	p.must(l.Type(p.ctx(), text))
}

func (p page) visible(l dom.Locator) {
	p.site.t.Helper()
	p.must(l.ShouldBeVisible(p.ctx()))
}

func (p page) containsText(l dom.Locator, text string) {
	p.site.t.Helper()
	p.must(l.ShouldContainText(p.ctx(), text))
}

func (p page) urlContains(fragment string) {
	p.site.t.Helper()
	p.must(p.site.doc.ShouldURLContain(p.ctx(), fragment))
}
