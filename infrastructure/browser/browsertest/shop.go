package browsertest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"shopqa/domain/entities"
)

// Shop messages mirrored from the live site
const (
	MsgSubscribed   = "You have been successfully subscribed!"
	MsgBadLogin     = "Your email or password is incorrect!"
	MsgEmailExists  = "Email Address already exist!"
	MsgContactSent  = "Success! Your details have been submitted successfully."
	MsgReviewThanks = "Thank you for your review."
	MsgLoginPrompt  = "Register / Login account to proceed on checkout."
)

// Countries offered by the signup form
var Countries = []string{"India", "United States", "Canada", "Australia", "Israel", "New Zealand", "Singapore"}

var months = []string{"January", "February", "March", "April", "May", "June", "July",
	"August", "September", "October", "November", "December"}

// Shop is a miniature storefront served by a fake browser. Its state is
// mutated by click handlers, which run on the goroutine driving the browser.
type Shop struct {
	*Browser

	Catalog    []entities.Product
	Users      map[string]entities.User
	Cart       []int
	Subscribed []string
	Messages   []entities.ContactMessage
	Reviews    []string
	Orders     []entities.PaymentCard

	current *entities.User
	pending entities.User
}

// DefaultUser is the account every new shop knows
var DefaultUser = entities.User{
	FirstName:    "Test",
	LastName:     "User",
	Email:        "test@example.com",
	Password:     "password123",
	Address1:     "123 Test Street",
	City:         "Test City",
	State:        "Test State",
	Zipcode:      "12345",
	Country:      "United States",
	MobileNumber: "1234567890",
}

// NewShop serves the storefront at baseURL
func NewShop(baseURL string) *Shop {
	s := &Shop{
		Browser: New(baseURL),
		Catalog: []entities.Product{
			{Name: "Blue Top", Category: "Women > Tops", Price: "Rs. 500"},
			{Name: "Men Tshirt", Category: "Men > Tshirts", Price: "Rs. 400"},
			{Name: "Sleeveless Dress", Category: "Women > Dress", Price: "Rs. 1000"},
			{Name: "Stylish Dress", Category: "Women > Dress", Price: "Rs. 1500"},
		},
		Users: map[string]entities.User{DefaultUser.Email: DefaultUser},
	}
	s.Route("/", s.home)
	s.Route("/products", s.products)
	s.Route("/view_cart", s.cart)
	s.Route("/login", s.login)
	s.Route("/signup", s.signup)
	s.Route("/account_created", s.accountCreated)
	s.Route("/delete_account", s.deleteAccount)
	s.Route("/checkout", s.checkout)
	s.Route("/payment", s.payment)
	s.Route("/payment_done", s.paymentDone)
	s.Route("/contact_us", s.contact)
	for i := range s.Catalog {
		s.Route("/product_details/"+strconv.Itoa(i+1), s.details(i))
	}
	return s
}

// LoggedIn returns the signed-in user's email, if any
func (s *Shop) LoggedIn() string {
	if s.current == nil {
		return ""
	}
	return s.current.Email
}

func (s *Shop) goTo(b *Browser, path string) {
	_ = b.Goto(context.Background(), path)
}

func (s *Shop) header() *Node {
	nav := El(".navbar-nav", "ul").Append(
		Link("/", "Home"),
		Link("/products", "Products"),
		Link("/view_cart", "Cart"),
	)
	if s.current != nil {
		nav.Append(
			Link("/logout", "Logout").Clicked(func(b *Browser, _ *Node) {
				s.current = nil
				s.goTo(b, "/login")
			}),
			Link("/delete_account", "Delete Account"),
			El("li").WithText("Logged in as "+s.current.FirstName),
		)
	} else {
		nav.Append(Link("/login", "Signup / Login"))
	}
	nav.Append(Link("/contact_us", "Contact us"))
	return El("header").Append(El(".logo").Append(El(".logo img", "img")), nav)
}

func (s *Shop) footer() *Node {
	footer := El("footer")
	input := El("#susbscribe_email", "input")
	button := El("#subscribe", "button").Clicked(func(b *Browser, _ *Node) {
		if input.Value == "" {
			return
		}
		s.Subscribed = append(s.Subscribed, input.Value)
		footer.Append(El(".alert-success").WithText(MsgSubscribed))
	})
	return footer.Append(input, button)
}

// addedModal is the confirmation shown after adding to cart
func addedModal() *Node {
	modal := El(".modal", "#cartModal").Hide()
	modal.Append(
		El(".modal-body").WithText("Your product has been added to cart."),
		El(".modal-footer").Append(
			El(".modal-footer .btn-success", "button").WithText("Continue Shopping").Clicked(func(*Browser, *Node) {
				modal.Hidden = true
			}),
			Link("/view_cart", "View Cart", ".modal-footer .btn-block"),
		),
	)
	return modal
}

func (s *Shop) productCards(indexes []int, modal *Node) []*Node {
	cards := make([]*Node, 0, len(indexes))
	for _, i := range indexes {
		i := i
		p := s.Catalog[i]
		cards = append(cards, El(".product-image-wrapper").Append(
			El(".productinfo").Append(
				El("img"),
				El("h2").WithText(p.Price),
				El("p").WithText(p.Name),
				El(".add-to-cart", "a").WithText("Add to cart").Clicked(func(*Browser, *Node) {
					s.Cart = append(s.Cart, i)
					modal.Hidden = false
				}),
			),
			El(".choose").Append(
				Link("/product_details/"+strconv.Itoa(i+1), "View Product", `.choose a[href*="product_details"]`),
			),
		))
	}
	return cards
}

func (s *Shop) all() []int {
	idx := make([]int, len(s.Catalog))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func (s *Shop) home(b *Browser) *Node {
	modal := addedModal()
	return Page("Automation Exercise",
		s.header(),
		El(".left-sidebar").Append(
			El(".panel-group").Append(
				El(".panel-group a", "a").WithText("Women"),
				El(".panel-body").Append(
					Link("/products", "Dress", ".panel-body a"),
				),
			),
		),
		El(".features_items").Append(El("h2", "h2.title", ".features_items h2.title").WithText("Features Items")).
			Append(s.productCards(s.all(), modal)...),
		modal,
		s.footer(),
	)
}

func (s *Shop) products(b *Browser) *Node {
	raw, _ := b.URL(context.Background())
	term := ""
	if u, err := url.Parse(raw); err == nil {
		term = u.Query().Get("search")
	}
	title := "All Products"
	indexes := s.all()
	if term != "" {
		title = "Searched Products"
		indexes = indexes[:0]
		for i, p := range s.Catalog {
			if strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) {
				indexes = append(indexes, i)
			}
		}
	}
	search := El("#search_product", "input")
	modal := addedModal()
	return Page("Automation Exercise - All Products",
		s.header(),
		search,
		El("#submit_search", "button").Clicked(func(b *Browser, _ *Node) {
			s.goTo(b, "/products?search="+url.QueryEscape(search.Value))
		}),
		El(".features_items").Append(El("h2", "h2.title", ".features_items h2.title").WithText(title)).
			Append(s.productCards(indexes, modal)...),
		modal,
		s.footer(),
	)
}

func (s *Shop) details(i int) Builder {
	return func(b *Browser) *Node {
		p := s.Catalog[i]
		name, email, review := El("#name", "input"), El("#email", "input"), El("#review", "textarea")
		form := El("#review-section")
		form.Append(name, email, review, El("#button-review", "button").Clicked(func(*Browser, *Node) {
			if name.Value == "" || email.Value == "" || review.Value == "" {
				return
			}
			s.Reviews = append(s.Reviews, review.Value)
			form.Append(El(".alert-success").WithText(MsgReviewThanks))
		}))
		qty := El("#quantity", "input")
		qty.Value = "1"
		modal := addedModal()
		return Page("Automation Exercise - Product Details",
			s.header(),
			El(".product-information").Append(
				El("h2", ".product-information h2").WithText(p.Name),
				El("p", ".product-information p").WithText("Category: "+p.Category),
				El("span").Append(El("span", ".product-information span span").WithText(p.Price)),
				qty,
				El("button", ".product-information button.cart").WithText("Add to cart").Clicked(func(*Browser, *Node) {
					n, err := strconv.Atoi(qty.Value)
					if err != nil {
						n = 1
					}
					for j := 0; j < n; j++ {
						s.Cart = append(s.Cart, i)
					}
					modal.Hidden = false
				}),
			),
			modal,
			form,
		)
	}
}

func (s *Shop) cart(b *Browser) *Node {
	body := El("tbody")
	for row, i := range s.Cart {
		row := row
		p := s.Catalog[i]
		body.Append(El("tr", "tbody tr").Append(
			El(".cart_description").Append(El("h4", ".cart_description h4").WithText(p.Name)),
			El(".cart_price").Append(El("p", ".cart_price p").WithText(p.Price)),
			El(".cart_quantity").Append(El("button", ".cart_quantity button").WithText("1")),
			El(".cart_total_price", "p").WithText(p.Price),
			El(".cart_quantity_delete", "a").Clicked(func(b *Browser, _ *Node) {
				s.Cart = append(s.Cart[:row:row], s.Cart[row+1:]...)
				s.goTo(b, "/view_cart")
			}),
		))
	}
	empty := El("#empty_cart").WithText("Cart is empty!")
	if len(s.Cart) > 0 {
		empty.Hide()
	}
	modal := El(".modal", "#checkoutModal").Hide()
	modal.Append(
		El(".modal-body").Append(
			El("p").WithText(MsgLoginPrompt),
			Link("/login", "Register / Login", `a[href="/login"]`),
		),
		El(".modal-footer").Append(
			El(".modal-footer .btn-success", "button").WithText("Continue On Cart").Clicked(func(*Browser, *Node) {
				modal.Hidden = true
			}),
		),
	)
	return Page("Automation Exercise - Checkout",
		s.header(),
		El("#cart_info_table", "table").Append(body),
		empty,
		El(".check_out", "a").WithText("Proceed To Checkout").Clicked(func(b *Browser, _ *Node) {
			if s.current == nil {
				modal.Hidden = false
				return
			}
			s.goTo(b, "/checkout")
		}),
		modal,
	)
}

func field(name, tag string) *Node {
	return El(`[data-qa="`+name+`"]`, tag)
}

func (s *Shop) login(b *Browser) *Node {
	email, password := field("login-email", "input"), field("login-password", "input")
	loginForm := El(".login-form")
	loginForm.Append(El("h2").WithText("Login to your account"), email, password,
		field("login-button", "button").Clicked(func(b *Browser, _ *Node) {
			if email.Value == "" || password.Value == "" {
				return
			}
			u, ok := s.Users[email.Value]
			if !ok || u.Password != password.Value {
				loginForm.Append(El("p", ".login-form p").WithText(MsgBadLogin))
				return
			}
			s.current = &u
			s.goTo(b, "/")
		}))

	name, signupEmail := field("signup-name", "input"), field("signup-email", "input")
	signupForm := El(".signup-form")
	signupForm.Append(El("h2").WithText("New User Signup!"), name, signupEmail,
		field("signup-button", "button").Clicked(func(b *Browser, _ *Node) {
			if name.Value == "" || signupEmail.Value == "" {
				return
			}
			if _, exists := s.Users[signupEmail.Value]; exists {
				signupForm.Append(El("p", ".signup-form p").WithText(MsgEmailExists))
				return
			}
			s.pending = entities.User{FirstName: name.Value, Email: signupEmail.Value}
			s.goTo(b, "/signup")
		}))
	return Page("Automation Exercise - Signup / Login", s.header(), loginForm, signupForm)
}

func (s *Shop) signup(b *Browser) *Node {
	days := make([]string, 31)
	for i := range days {
		days[i] = strconv.Itoa(i + 1)
	}
	years := make([]string, 0, 122)
	for y := 2021; y >= 1900; y-- {
		years = append(years, strconv.Itoa(y))
	}
	inputs := map[string]*Node{}
	for _, n := range []string{"password", "first_name", "last_name", "company", "address", "address2",
		"state", "city", "zipcode", "mobile_number"} {
		inputs[n] = field(n, "input")
	}
	country := field("country", "select").WithOptions(Countries...)
	form := El(".login-form").Append(
		field("title", "input"),
		field("days", "select").WithOptions(days...),
		field("months", "select").WithOptions(months...),
		field("years", "select").WithOptions(years...),
		country,
	)
	for _, n := range []string{"password", "first_name", "last_name", "company", "address", "address2",
		"state", "city", "zipcode", "mobile_number"} {
		form.Append(inputs[n])
	}
	form.Append(field("create-account", "button").Clicked(func(b *Browser, _ *Node) {
		u := s.pending
		u.Password = inputs["password"].Value
		u.FirstName = inputs["first_name"].Value
		u.LastName = inputs["last_name"].Value
		u.Company = inputs["company"].Value
		u.Address1 = inputs["address"].Value
		u.Address2 = inputs["address2"].Value
		u.Country = country.Value
		u.State = inputs["state"].Value
		u.City = inputs["city"].Value
		u.Zipcode = inputs["zipcode"].Value
		u.MobileNumber = inputs["mobile_number"].Value
		if u.Password == "" || u.FirstName == "" || u.Address1 == "" {
			return
		}
		s.Users[u.Email] = u
		s.current = &u
		s.goTo(b, "/account_created")
	}))
	return Page("Automation Exercise - Signup", s.header(), form)
}

func (s *Shop) accountCreated(b *Browser) *Node {
	return Page("Automation Exercise - Account Created",
		s.header(),
		field("account-created", "h2").WithText("Account Created!"),
		Link("/", "Continue", `[data-qa="continue-button"]`),
	)
}

func (s *Shop) deleteAccount(b *Browser) *Node {
	if s.current != nil {
		delete(s.Users, s.current.Email)
		s.current = nil
	}
	return Page("Automation Exercise - Account Deleted",
		s.header(),
		field("account-deleted", "h2").WithText("Account Deleted!"),
		Link("/", "Continue", `[data-qa="continue-button"]`),
	)
}

func (s *Shop) checkout(b *Browser) *Node {
	if s.current == nil {
		return Page("Automation Exercise - Checkout", s.header())
	}
	u := s.current
	return Page("Automation Exercise - Checkout",
		s.header(),
		El(".checkout-information").Append(
			El("#address_delivery").WithText(fmt.Sprintf("%s %s %s %s %s", u.FullName(), u.Address1, u.City, u.State, u.Zipcode)),
			El("#address_invoice").WithText(fmt.Sprintf("%s %s %s", u.FullName(), u.Address1, u.City)),
		),
		field("comment-text", "textarea"),
		Link("/payment", "Place Order", ".btn-default.check_out"),
	)
}

func (s *Shop) payment(b *Browser) *Node {
	inputs := map[string]*Node{}
	form := El("#payment-form", "form")
	for _, n := range []string{"name-on-card", "card-number", "cvc", "expiry-month", "expiry-year"} {
		inputs[n] = field(n, "input")
		form.Append(inputs[n])
	}
	form.Append(field("pay-button", "button").Clicked(func(b *Browser, _ *Node) {
		month, _ := strconv.Atoi(inputs["expiry-month"].Value)
		year, _ := strconv.Atoi(inputs["expiry-year"].Value)
		card := entities.PaymentCard{
			NameOnCard:  inputs["name-on-card"].Value,
			CardNumber:  inputs["card-number"].Value,
			CVC:         inputs["cvc"].Value,
			ExpiryMonth: month,
			ExpiryYear:  year,
		}
		if card.NameOnCard == "" || card.CardNumber == "" {
			return
		}
		s.Orders = append(s.Orders, card)
		s.Cart = nil
		s.goTo(b, "/payment_done")
	}))
	return Page("Automation Exercise - Payment", s.header(), form)
}

func (s *Shop) paymentDone(b *Browser) *Node {
	return Page("Automation Exercise - Order Placed",
		s.header(),
		field("order-placed", "h2").WithText("Order Placed!"),
		El(".btn-default.check_out", "a").WithText("Download Invoice"),
		Link("/", "Continue", `[data-qa="continue-button"]`),
	)
}

func (s *Shop) contact(b *Browser) *Node {
	name, email, subject, message := field("name", "input"), field("email", "input"),
		field("subject", "input"), field("message", "textarea")
	upload := El(`input[name="upload_file"]`, "input")
	section := El("#form-section")
	section.Append(name, email, subject, message, upload,
		El(`input[name="submit"]`, "input").Clicked(func(*Browser, *Node) {
			if name.Value == "" || email.Value == "" || message.Value == "" {
				return
			}
			s.Messages = append(s.Messages, entities.ContactMessage{
				Name: name.Value, Email: email.Value, Subject: subject.Value, Message: message.Value,
			})
			section.Append(
				El(".status").WithText(MsgContactSent),
				Link("/", "Home", "#form-section .btn-success"),
			)
		}))
	return Page("Automation Exercise - Contact Us", s.header(), section)
}
