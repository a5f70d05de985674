package security

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"shopqa/domain/entities"
)

func TestExceptionPolicy_Classify(t *testing.T) {
	p := NewExceptionPolicy([]string{" TypeError ", "", "cart is undefined"}, nil)

	tests := []struct {
		name    string
		message string
		want    entities.Verdict
	}{
		{"default is ignore", "Uncaught ReferenceError: foo is not defined", entities.VerdictIgnore},
		{"fail keyword", "Uncaught TypeError: x is null", entities.VerdictFail},
		{"case insensitive", "CART IS UNDEFINED", entities.VerdictFail},
		{"noise wins over fail", "TypeError in adsbygoogle.js", entities.VerdictIgnore},
		{"resize observer", "ResizeObserver loop limit exceeded", entities.VerdictIgnore},
		{"empty message", "", entities.VerdictIgnore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Classify(context.Background(), entities.PageException{Message: tt.message})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExceptionPolicy_FailOnNormalized(t *testing.T) {
	p := NewExceptionPolicy([]string{"TypeError", "typeerror ", "  "}, nil)
	assert.Equal(t, []string{"typeerror"}, p.FailOn())
}

func TestExceptionPolicy_LogsIgnored(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)

	p := NewExceptionPolicy(nil, logrus.NewEntry(l))
	p.Classify(context.Background(), entities.PageException{Message: "boom", URL: "https://shop.test/"})

	assert.Contains(t, buf.String(), "Ignoring uncaught page exception")
	assert.Contains(t, buf.String(), "component=exception_policy")
}
