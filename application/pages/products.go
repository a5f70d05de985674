package pages

import (
	"context"

	"shopqa/application/dom"
	"shopqa/domain/entities"
)

// ProductsPage is the catalog with search and add-to-cart
type ProductsPage struct {
	page
}

func (p *ProductsPage) Path() string { return "/products" }

func (p *ProductsPage) ProductsContainer() dom.Locator      { return p.get(".features_items") }
func (p *ProductsPage) ProductItems() dom.Locator           { return p.get(".productinfo") }
func (p *ProductsPage) SearchInput() dom.Locator            { return p.get("#search_product") }
func (p *ProductsPage) SearchButton() dom.Locator           { return p.get("#submit_search") }
func (p *ProductsPage) ViewProductLinks() dom.Locator       { return p.get(`.choose a[href*="product_details"]`) }
func (p *ProductsPage) AddToCartButtons() dom.Locator       { return p.get(".add-to-cart") }
func (p *ProductsPage) ContinueShoppingButton() dom.Locator { return p.get(".modal-footer .btn-success") }
func (p *ProductsPage) ViewCartButton() dom.Locator         { return p.get(".modal-footer .btn-block") }
func (p *ProductsPage) Heading() dom.Locator                { return p.get(".features_items h2.title") }

func (p *ProductsPage) Loaded(ctx context.Context) error {
	return all(ctx,
		p.ProductsContainer().ShouldBeVisible,
		func(ctx context.Context) error { return p.ProductItems().ShouldHaveLengthGreaterThan(ctx, 0) },
	)
}

func (p *ProductsPage) Visit() *ProductsPage {
	p.site.t.Helper()
	p.open(p)
	return p
}

func (p *ProductsPage) SearchProduct(name string) *ProductsPage {
	p.site.t.Helper()
	p.typeInto(p.SearchInput(), name)
	p.click(p.SearchButton())
	return p
}

func (p *ProductsPage) ViewProduct(index int) *ProductDetailsPage {
	p.site.t.Helper()
	p.click(p.ViewProductLinks().Eq(index))
	return p.site.ProductDetails()
}

// AddProductToCart adds the item at index and dismisses the confirmation modal
func (p *ProductsPage) AddProductToCart(index int) *ProductsPage {
	p.site.t.Helper()
	p.click(p.ProductItems().Eq(index).Find(".add-to-cart"))
	p.click(p.ContinueShoppingButton())
	return p
}

// AddProductToCartAndView adds the item at index and follows the modal to the cart
func (p *ProductsPage) AddProductToCartAndView(index int) *CartPage {
	p.site.t.Helper()
	p.click(p.ProductItems().Eq(index).Find(".add-to-cart"))
	p.click(p.ViewCartButton())
	return p.site.Cart()
}

func (p *ProductsPage) HoverOnProduct(index int) *ProductsPage {
	p.site.t.Helper()
	p.must(p.ProductItems().Eq(index).Hover(p.ctx()))
	return p
}

func (p *ProductsPage) ProductName(index int) string {
	p.site.t.Helper()
	return p.text(p.ProductItems().Eq(index).Find("p"))
}

func (p *ProductsPage) ProductPrice(index int) string {
	p.site.t.Helper()
	return p.text(p.ProductItems().Eq(index).Find("h2"))
}

// Product reads the name and price shown on the card at index
func (p *ProductsPage) Product(index int) entities.ProductCard {
	p.site.t.Helper()
	return entities.ProductCard{Name: p.ProductName(index), Price: p.ProductPrice(index)}
}

func (p *ProductsPage) VerifyProductsPageLoaded() *ProductsPage {
	p.site.t.Helper()
	p.must(p.Loaded(p.ctx()))
	return p
}

// VerifySearchResults checks every result names term, ignoring case
func (p *ProductsPage) VerifySearchResults(term string) *ProductsPage {
	p.site.t.Helper()
	p.must(p.ProductItems().Find("p").ShouldEachContainText(p.ctx(), term))
	return p
}

func (p *ProductsPage) VerifySearchedProductsTitle() *ProductsPage {
	p.site.t.Helper()
	p.containsText(p.Heading(), "Searched Products")
	return p
}

func (p *ProductsPage) VerifyProductCount(want int) *ProductsPage {
	p.site.t.Helper()
	p.must(p.ProductItems().ShouldHaveLength(p.ctx(), want))
	return p
}
