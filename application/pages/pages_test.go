package pages_test

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"shopqa/application/dom"
	"shopqa/application/pages"
	"shopqa/domain/entities"
	bt "shopqa/infrastructure/browser/browsertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://shop.test"

// recorder stops the calling goroutine on Fatalf like testing.T does
type recorder struct {
	failed bool
	msg    string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.failed = true
	r.msg = fmt.Sprintf(format, args...)
	runtime.Goexit()
}

func capture(fn func(tb pages.TB)) *recorder {
	r := &recorder{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(r)
	}()
	<-done
	return r
}

func newSite(tb pages.TB, shop *bt.Shop) *pages.Site {
	doc := dom.NewDocument(shop, dom.Timeouts{
		Command:  300 * time.Millisecond,
		PageLoad: 300 * time.Millisecond,
		Interval: 10 * time.Millisecond,
	}, nil)
	return pages.NewSite(tb, context.Background(), doc, base)
}

func loginAsDefault(site *pages.Site) *pages.HomePage {
	site.Login().Visit().Login(bt.DefaultUser.Email, bt.DefaultUser.Password)
	return site.Home().VerifyLoggedIn()
}

func TestAddingTwoProductsYieldsTwoCartRows(t *testing.T) {
	shop := bt.NewShop(base)
	site := newSite(t, shop)

	products := site.Products().Visit()
	first, second := products.Product(0), products.Product(1)
	require.NotEqual(t, first.Name, second.Name)

	products.AddProductToCart(0).AddProductToCart(1)
	cart := site.Home().ClickCart().VerifyCartNotEmpty().VerifyItemCount(2)

	items := cart.Items()
	require.Len(t, items, 2)
	for i, want := range []entities.ProductCard{first, second} {
		assert.Equal(t, want.Name, items[i].Name)
		assert.Equal(t, want.Price, items[i].Price)
	}
	cart.VerifyItemInCart(first.Name).VerifyItemInCart(second.Name)
}

func TestVerifyCartNotEmptyHasNoSideEffects(t *testing.T) {
	shop := bt.NewShop(base)
	site := newSite(t, shop)

	site.Products().Visit().AddProductToCart(2)
	cart := site.Cart().Visit()

	before := cart.Items()
	calls := len(shop.Calls())
	cart.VerifyCartNotEmpty().VerifyCartNotEmpty()

	assert.Equal(t, calls, len(shop.Calls()))
	assert.Equal(t, before, cart.Items())
	assert.Equal(t, []int{2}, shop.Cart)
}

func TestOutOfRangeItemFailsAtFirstUse(t *testing.T) {
	shop := bt.NewShop(base)

	r := capture(func(tb pages.TB) {
		products := newSite(tb, shop).Products().Visit()
		products.AddProductToCart(len(shop.Catalog))
		products.AddProductToCart(0)
	})

	require.True(t, r.failed)
	assert.Contains(t, r.msg, ".productinfo.eq(4) .add-to-cart")
	assert.Empty(t, shop.Cart)
}

func TestRemoveAndEmptyCart(t *testing.T) {
	shop := bt.NewShop(base)
	site := newSite(t, shop)

	site.Products().Visit().AddProductToCart(0)
	site.Cart().Visit().VerifyCartPageLoaded().RemoveItem(0).VerifyCartEmpty()
	assert.Empty(t, shop.Cart)
}

func TestLoginAndLogout(t *testing.T) {
	shop := bt.NewShop(base)
	site := newSite(t, shop)

	login := site.Login().Visit().VerifyLoginPageLoaded()
	login.Login(bt.DefaultUser.Email, "wrong").VerifyLoginError(bt.MsgBadLogin).VerifyStillOnLoginPage()

	login.ClearLoginForm().Login(bt.DefaultUser.Email, bt.DefaultUser.Password)
	site.Home().VerifyLoggedInAs(bt.DefaultUser.FirstName).Logout().VerifyLoginPageLoaded()
	assert.Empty(t, shop.LoggedIn())
}

func TestSignupRejectsKnownEmail(t *testing.T) {
	site := newSite(t, bt.NewShop(base))

	login := site.Login().Visit()
	login.Signup("Someone", bt.DefaultUser.Email)
	login.VerifySignupError(bt.MsgEmailExists).ClearSignupForm()
}

func TestRegisterAndDeleteAccount(t *testing.T) {
	shop := bt.NewShop(base)
	site := newSite(t, shop)
	user := entities.User{
		FirstName: "Ann", LastName: "Lee", Email: "ann@example.org", Password: "s3cret-passw0rd",
		Company: "Acme", Address1: "1 Main St", Address2: "Apt 2", City: "Springfield",
		State: "IL", Zipcode: "62701", Country: "Canada", MobileNumber: "5551234567",
	}

	home := site.Login().Visit().
		Signup(user.FirstName, user.Email).
		SelectDateOfBirth(15, "January", 1990).
		FillAccountInformation(user).
		CreateAccount().
		VerifyAccountCreated().
		ClickContinue().
		VerifyLoggedInAs("Ann")

	stored, ok := shop.Users[user.Email]
	require.True(t, ok)
	assert.Equal(t, user, stored)

	home.DeleteAccount().VerifyAccountDeleted().ClickContinue()
	assert.NotContains(t, shop.Users, user.Email)
}

func TestCheckoutAndPay(t *testing.T) {
	shop := bt.NewShop(base)
	site := newSite(t, shop)
	card := entities.PaymentCard{NameOnCard: "Test User", CardNumber: "4111111111111111", CVC: "123", ExpiryMonth: 3, ExpiryYear: 2031}

	loginAsDefault(site).ClickProducts().VerifyProductsPageLoaded().AddProductToCart(0)
	site.Home().ClickCart().
		ProceedToCheckout().
		VerifyCheckoutPageLoaded().
		VerifyDeliveryAddress(bt.DefaultUser).
		AddComment("Test order comment").
		PlaceOrder().
		FillCard(card).
		Pay().
		VerifyOrderPlaced().
		DownloadInvoice().
		ClickContinue()

	require.Len(t, shop.Orders, 1)
	assert.Equal(t, card, shop.Orders[0])
	assert.Empty(t, shop.Cart)
}

func TestGuestCheckoutAsksForLogin(t *testing.T) {
	shop := bt.NewShop(base)
	site := newSite(t, shop)

	site.Home().Visit().VerifyHomePageLoaded().ClickProducts().AddProductToCart(0).AddProductToCart(1)
	site.Home().ClickCart().
		VerifyCartNotEmpty().
		ProceedToCheckoutAsGuest().
		VerifyLoginRequired().
		RegisterOrLogin().
		VerifyLoginPageLoaded().
		Login(bt.DefaultUser.Email, bt.DefaultUser.Password)

	site.Home().ClickCart().VerifyItemCount(2)
}

func TestSearchResults(t *testing.T) {
	site := newSite(t, bt.NewShop(base))

	products := site.Products().Visit().SearchProduct("dress")
	products.VerifySearchedProductsTitle().VerifySearchResults("DRESS").VerifyProductCount(2)
	assert.Equal(t, "Sleeveless Dress", products.ProductName(0))
	assert.Equal(t, "Rs. 1500", products.ProductPrice(1))
}

func TestProductDetailsAndReview(t *testing.T) {
	shop := bt.NewShop(base)
	site := newSite(t, shop)

	details := site.Products().Visit().ViewProduct(0)
	assert.Equal(t, entities.Product{Name: "Blue Top", Category: "Women > Tops", Price: "Rs. 500"}, details.Product())

	details.WriteReview("Test", "test@example.com", "This is a great product!").VerifyReviewSubmitted()
	details.SetQuantity(3).AddToCart()
	assert.Equal(t, []string{"This is a great product!"}, shop.Reviews)
	assert.Equal(t, []int{0, 0, 0}, shop.Cart)

	site.ProductDetails().VisitProduct(4)
	assert.Equal(t, "Stylish Dress", site.ProductDetails().Product().Name)
}

func TestContactForm(t *testing.T) {
	shop := bt.NewShop(base)
	site := newSite(t, shop)
	msg := entities.ContactMessage{Name: "Ann", Email: "ann@example.org", Subject: "Order", Message: "Where is it?"}

	site.Home().Visit().
		ClickContact().
		Fill(msg).
		AttachFile("testdata/sample.txt").
		Submit().
		VerifySubmitted().
		ReturnHome()

	assert.Equal(t, []entities.ContactMessage{msg}, shop.Messages)
	assert.True(t, slicesContainPrefix(shop.Calls(), "files "))
}

func TestNewsletterAndNavigation(t *testing.T) {
	shop := bt.NewShop(base)
	site := newSite(t, shop)

	home := site.Home().Visit().VerifyNavigationMenu()
	home.SubscribeToNewsletter("news@example.org").VerifySubscribed()
	home.ScrollTo("bottom")
	home.ScrollToElement("footer")
	home.WaitForElement("footer", time.Second)
	home.TakeScreenshot("home.png")

	assert.Equal(t, []string{"news@example.org"}, shop.Subscribed)
	assert.Equal(t, "Automation Exercise", home.Title())
	assert.Equal(t, base+"/", home.URL())
	assert.Equal(t, []string{"home.png"}, shop.Screenshots())
}

func TestCategoryNavigation(t *testing.T) {
	site := newSite(t, bt.NewShop(base))

	site.Home().Visit().SelectCategory("Women").SelectSubCategory("Dress").VerifyProductsPageLoaded()
	assert.True(t, strings.HasSuffix(site.Home().URL(), "/products"))
}

func slicesContainPrefix(items []string, prefix string) bool {
	for _, s := range items {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
