package datagen_test

import (
	"net/mail"
	"regexp"
	"strings"
	"testing"
	"time"

	"shopqa/application/datagen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	digits     = regexp.MustCompile(`\d`)
)

func TestUsersAreFormatValid(t *testing.T) {
	for j := 0; j < 100; j++ {
		u := datagen.User()

		assert.Regexp(t, emailShape, u.Email)
		_, err := mail.ParseAddress(u.Email)
		assert.NoError(t, err, u.Email)
		assert.GreaterOrEqual(t, len(u.Password), datagen.MinPasswordLength)
		assert.Contains(t, datagen.Countries, u.Country)
		assert.GreaterOrEqual(t, len(digits.FindAllString(u.MobileNumber, -1)), 10, u.MobileNumber)
		for name, v := range map[string]string{
			"first": u.FirstName, "last": u.LastName, "company": u.Company, "address1": u.Address1,
			"address2": u.Address2, "city": u.City, "state": u.State, "zip": u.Zipcode,
		} {
			assert.NotEmpty(t, strings.TrimSpace(v), name)
		}
	}
}

func TestPasswordRespectsMinimumLength(t *testing.T) {
	assert.Len(t, datagen.Password(), datagen.MinPasswordLength)
	g := datagen.NewRandom()
	assert.Len(t, g.Password(4), datagen.MinPasswordLength)
	assert.Len(t, g.Password(20), 20)
}

func TestContactMessageIsComplete(t *testing.T) {
	msg := datagen.ContactMessage()
	assert.NotEmpty(t, msg.Name)
	assert.Regexp(t, emailShape, msg.Email)
	assert.NotEmpty(t, msg.Subject)
	assert.NotContains(t, msg.Subject, "\n")
	assert.Contains(t, msg.Message, "\n")
}

func TestPaymentCardExpiresInTheFuture(t *testing.T) {
	now := time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC)
	g := datagen.New(7).WithClock(func() time.Time { return now })

	for j := 0; j < 50; j++ {
		card := g.PaymentCard()
		require.NotEmpty(t, card.CardNumber)
		require.NotEmpty(t, card.NameOnCard)
		assert.Regexp(t, `^\d{3,4}$`, card.CVC)
		assert.True(t, card.ExpiryYear > now.Year() || (card.ExpiryYear == now.Year() && card.ExpiryMonth > int(now.Month())),
			"%d/%d", card.ExpiryMonth, card.ExpiryYear)
		assert.Len(t, card.ExpiryMonthString(), 2)
	}
}

func TestFutureDateIsAfterToday(t *testing.T) {
	now := time.Date(2026, time.October, 17, 23, 59, 0, 0, time.UTC)
	g := datagen.New(3).WithClock(func() time.Time { return now })
	today := now.Format(time.DateOnly)

	for j := 0; j < 50; j++ {
		d := g.FutureDate()
		_, err := time.Parse(time.DateOnly, d)
		require.NoError(t, err)
		assert.Greater(t, d, today)
	}
	assert.Greater(t, datagen.FutureDate(), time.Now().Format(time.DateOnly))
}

func TestNumberIsInclusive(t *testing.T) {
	seen := map[int]bool{}
	for j := 0; j < 500; j++ {
		n := datagen.Number(1, 3)
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, 3)
		seen[n] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, 5, datagen.Number(5, 5))
	n := datagen.Number(10, 1)
	assert.True(t, n >= 1 && n <= 10)
}

func TestStringIsAlphanumeric(t *testing.T) {
	assert.Regexp(t, `^[A-Za-z0-9]{32}$`, datagen.String(32))
	assert.Empty(t, datagen.String(0))
	assert.NotEqual(t, datagen.String(16), datagen.String(16))
}

func TestProduct(t *testing.T) {
	p := datagen.Product()
	assert.NotEmpty(t, p.Name)
	assert.NotEmpty(t, p.Category)
	assert.Regexp(t, `^\d+\.\d{2}$`, p.Price)
	assert.NotEmpty(t, p.Description)
}

func TestSeededGeneratorsRepeat(t *testing.T) {
	a, b := datagen.New(42), datagen.New(42)
	assert.Equal(t, a.User(), b.User())
	assert.Equal(t, a.String(10), b.String(10))
}
