package pages

import (
	"context"
	"strconv"
	"strings"

	"shopqa/application/dom"
	"shopqa/domain/entities"
)

const reviewThanks = "Thank you for your review."

// ProductDetailsPage shows one product with its quantity picker and review form
type ProductDetailsPage struct {
	page
}

func (d *ProductDetailsPage) Path() string { return "/product_details" }

func (d *ProductDetailsPage) Information() dom.Locator     { return d.get(".product-information") }
func (d *ProductDetailsPage) Name() dom.Locator            { return d.get(".product-information h2") }
func (d *ProductDetailsPage) Price() dom.Locator           { return d.get(".product-information span span") }
func (d *ProductDetailsPage) Details() dom.Locator         { return d.get(".product-information p") }
func (d *ProductDetailsPage) QuantityInput() dom.Locator   { return d.get("#quantity") }
func (d *ProductDetailsPage) AddToCartButton() dom.Locator { return d.get(".product-information button.cart") }
func (d *ProductDetailsPage) ReviewName() dom.Locator      { return d.get("#name") }
func (d *ProductDetailsPage) ReviewEmail() dom.Locator     { return d.get("#email") }
func (d *ProductDetailsPage) ReviewText() dom.Locator      { return d.get("#review") }
func (d *ProductDetailsPage) ReviewButton() dom.Locator    { return d.get("#button-review") }
func (d *ProductDetailsPage) SuccessAlert() dom.Locator    { return d.get(".alert-success") }

func (d *ProductDetailsPage) Loaded(ctx context.Context) error {
	return d.Information().ShouldBeVisible(ctx)
}

// VisitProduct opens the details of the product with id
func (d *ProductDetailsPage) VisitProduct(id int) *ProductDetailsPage {
	d.site.t.Helper()
	d.must(d.site.doc.Visit(d.ctx(), d.site.baseURL+d.Path()+"/"+strconv.Itoa(id)))
	d.must(d.Loaded(d.ctx()))
	return d
}

// Product reads the product information block. Details lines look like "Category: Women > Tops".
func (d *ProductDetailsPage) Product() entities.Product {
	d.site.t.Helper()
	d.must(d.Loaded(d.ctx()))
	product := entities.Product{
		Name:  d.text(d.Name()),
		Price: d.text(d.Price()),
	}
	lines, err := d.Details().Texts(d.ctx())
	d.must(err)
	for _, line := range lines {
		if k, v, ok := strings.Cut(line, ":"); ok && strings.TrimSpace(k) == "Category" {
			product.Category = strings.TrimSpace(v)
		}
	}
	return product
}

func (d *ProductDetailsPage) SetQuantity(quantity int) *ProductDetailsPage {
	d.site.t.Helper()
	d.typeInto(d.QuantityInput(), strconv.Itoa(quantity))
	return d
}

func (d *ProductDetailsPage) AddToCart() *ProductDetailsPage {
	d.site.t.Helper()
	d.click(d.AddToCartButton())
	d.click(d.get(".modal-footer .btn-success"))
	return d
}

func (d *ProductDetailsPage) WriteReview(name, email, review string) *ProductDetailsPage {
	d.site.t.Helper()
	d.typeInto(d.ReviewName(), name)
	d.typeInto(d.ReviewEmail(), email)
	d.typeInto(d.ReviewText(), review)
	d.click(d.ReviewButton())
	return d
}

func (d *ProductDetailsPage) VerifyReviewSubmitted() *ProductDetailsPage {
	d.site.t.Helper()
	d.containsText(d.SuccessAlert(), reviewThanks)
	return d
}
