package entities

import "fmt"

// PaymentCard is a generated card used on the payment screen
type PaymentCard struct {
	NameOnCard  string `json:"nameOnCard"`
	CardNumber  string `json:"cardNumber"`
	CVC         string `json:"cvc"`
	ExpiryMonth int    `json:"expiryMonth"`
	ExpiryYear  int    `json:"expiryYear"`
}

// ExpiryMonthString returns the month zero-padded, as typed into the form
func (c PaymentCard) ExpiryMonthString() string {
	return fmt.Sprintf("%02d", c.ExpiryMonth)
}

// ExpiryYearString returns the four digit year
func (c PaymentCard) ExpiryYearString() string {
	return fmt.Sprintf("%d", c.ExpiryYear)
}
