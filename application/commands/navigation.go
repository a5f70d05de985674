package commands

import (
	"context"

	"shopqa/domain/entities"
)

var pagePaths = map[string]string{
	"home":     "/",
	"products": "/products",
	"cart":     "/view_cart",
	"login":    "/login",
	"contact":  "/contact_us",
	"signup":   "/login",
}

// NavigateToPage visits a named page, or page itself when it is a path
func NavigateToPage(ctx context.Context, env *Env, page string) error {
	path, ok := pagePaths[page]
	if !ok {
		path = page
	}
	return env.Doc.Visit(ctx, env.url(path))
}

func FillContactForm(ctx context.Context, env *Env, msg entities.ContactMessage) error {
	fields := []struct{ qa, value string }{
		{"name", msg.Name},
		{"email", msg.Email},
		{"subject", msg.Subject},
		{"message", msg.Message},
	}
	for _, f := range fields {
		if err := env.Doc.Get(`[data-qa="` + f.qa + `"]`).Type(ctx, f.value); err != nil {
			return err
		}
	}
	return nil
}

// FillSignupForm submits the new-user form on the login page
func FillSignupForm(ctx context.Context, env *Env, name, email string) error {
	doc := env.Doc
	if err := doc.Get(`[data-qa="signup-name"]`).Type(ctx, name); err != nil {
		return err
	}
	if err := doc.Get(`[data-qa="signup-email"]`).Type(ctx, email); err != nil {
		return err
	}
	return doc.Get(`[data-qa="signup-button"]`).Click(ctx)
}

// AddProductToCart adds the catalog item at index and keeps shopping
func AddProductToCart(ctx context.Context, env *Env, index int) error {
	doc := env.Doc
	if err := doc.Get(".productinfo").Eq(index).Find(".add-to-cart").Click(ctx); err != nil {
		return err
	}
	return doc.Get(".modal-footer .btn-success").Click(ctx)
}

func SearchProduct(ctx context.Context, env *Env, name string) error {
	if err := env.Doc.Get("#search_product").Type(ctx, name); err != nil {
		return err
	}
	return env.Doc.Get("#submit_search").Click(ctx)
}
