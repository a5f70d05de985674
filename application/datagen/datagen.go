// Package datagen produces randomized, format-valid test entities.
package datagen

import (
	"fmt"
	"strings"
	"time"

	"shopqa/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
)

// MinPasswordLength is the shortest password Password will generate
const MinPasswordLength = 12

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Countries accepted by the shop's signup form
var Countries = []string{"India", "United States", "Canada", "Australia", "Israel", "New Zealand", "Singapore"}

// Generator wraps a faker. Generators are safe for concurrent use.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// New returns a generator seeded with seed; equal seeds give equal sequences
func New(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed), now: time.Now}
}

// NewRandom returns a crypto-seeded generator
func NewRandom() *Generator {
	return &Generator{faker: gofakeit.NewCrypto(), now: time.Now}
}

// WithClock returns a copy of g that measures "future" against now
func (g *Generator) WithClock(now func() time.Time) *Generator {
	cp := *g
	cp.now = now
	return &cp
}

func (g *Generator) User() entities.User {
	f := g.faker
	addr := f.Address()
	return entities.User{
		FirstName:    f.FirstName(),
		LastName:     f.LastName(),
		Email:        g.Email(),
		Password:     g.Password(MinPasswordLength),
		Company:      f.Company(),
		Address1:     addr.Street,
		Address2:     fmt.Sprintf("Apt. %d", f.Number(1, 999)),
		City:         addr.City,
		State:        addr.State,
		Zipcode:      addr.Zip,
		Country:      f.RandomString(Countries),
		MobileNumber: f.Phone(),
	}
}

func (g *Generator) Email() string {
	return strings.ToLower(g.faker.Email())
}

// Password returns a letters-and-digits password of at least MinPasswordLength characters
func (g *Generator) Password(length int) string {
	if length < MinPasswordLength {
		length = MinPasswordLength
	}
	return g.faker.Password(true, true, true, false, false, length)
}

func (g *Generator) ContactMessage() entities.ContactMessage {
	f := g.faker
	return entities.ContactMessage{
		Name:    f.Name(),
		Email:   g.Email(),
		Subject: f.Sentence(6),
		Message: f.Paragraph(2, 3, 10, "\n"),
	}
}

// PaymentCard returns a card expiring between one month and five years from now
func (g *Generator) PaymentCard() entities.PaymentCard {
	f := g.faker
	now := g.now()
	expiry := f.DateRange(now.AddDate(0, 1, 0), now.AddDate(5, 0, 0)).In(now.Location())
	return entities.PaymentCard{
		NameOnCard:  f.Name(),
		CardNumber:  f.CreditCardNumber(nil),
		CVC:         f.CreditCardCvv(),
		ExpiryMonth: int(expiry.Month()),
		ExpiryYear:  expiry.Year(),
	}
}

func (g *Generator) Product() entities.Product {
	f := g.faker
	return entities.Product{
		Name:        f.ProductName(),
		Category:    f.ProductCategory(),
		Price:       fmt.Sprintf("%.2f", f.Price(1, 1000)),
		Description: f.ProductDescription(),
	}
}

// String returns length random letters and digits
func (g *Generator) String(length int) string {
	if length <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(length)
	for j := 0; j < length; j++ {
		b.WriteByte(alphanumeric[g.faker.Number(0, len(alphanumeric)-1)])
	}
	return b.String()
}

// Number returns an integer in [min, max]; the bounds may be given in either order
func (g *Generator) Number(min, max int) int {
	if min > max {
		min, max = max, min
	}
	return g.faker.Number(min, max)
}

// FutureDate returns a YYYY-MM-DD date between tomorrow and a year from now
func (g *Generator) FutureDate() string {
	now := g.now()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return g.faker.DateRange(tomorrow, tomorrow.AddDate(1, 0, 0)).In(now.Location()).Format(time.DateOnly)
}

var std = NewRandom()

func User() entities.User                     { return std.User() }
func Email() string                           { return std.Email() }
func Password() string                        { return std.Password(MinPasswordLength) }
func ContactMessage() entities.ContactMessage { return std.ContactMessage() }
func PaymentCard() entities.PaymentCard       { return std.PaymentCard() }
func Product() entities.Product               { return std.Product() }
func String(length int) string                { return std.String(length) }
func Number(min, max int) int                 { return std.Number(min, max) }
func FutureDate() string                      { return std.FutureDate() }
