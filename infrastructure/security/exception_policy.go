package security

import (
	"context"
	"io"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	"shopqa/domain/entities"
	"shopqa/domain/interfaces"
)

// noise is third-party script chatter the storefront raises on every page.
// It never fails a test, even when a fail_on keyword also matches.
var noise = []string{
	"resizeobserver loop",
	"adsbygoogle",
	"googletag",
	"script error.",
}

// ExceptionPolicy classifies uncaught page exceptions by keyword.
// The default verdict is ignore.
type ExceptionPolicy struct {
	failOn mapset.Set[string]
	ignore mapset.Set[string]
	logger *logrus.Entry
}

// NewExceptionPolicy builds a policy failing on any of the given substrings
func NewExceptionPolicy(failOn []string, logger *logrus.Entry) *ExceptionPolicy {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}

	return &ExceptionPolicy{
		failOn: keywords(failOn),
		ignore: keywords(noise),
		logger: logger.WithField("component", "exception_policy"),
	}
}

// Classify returns the verdict for one exception
func (p *ExceptionPolicy) Classify(ctx context.Context, exc entities.PageException) entities.Verdict {
	msg := strings.ToLower(exc.Message)
	entry := p.logger.WithFields(logrus.Fields{
		"url":     exc.URL,
		"message": exc.Message,
	})

	if keyword, ok := match(p.ignore, msg); ok {
		entry.WithField("keyword", keyword).Debug("Ignoring known page noise")
		return entities.VerdictIgnore
	}
	if keyword, ok := match(p.failOn, msg); ok {
		entry.WithField("keyword", keyword).Error("Page exception fails the test")
		return entities.VerdictFail
	}

	entry.Warn("Ignoring uncaught page exception")
	return entities.VerdictIgnore
}

// FailOn returns the configured keywords
func (p *ExceptionPolicy) FailOn() []string {
	return p.failOn.ToSlice()
}

func keywords(list []string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, k := range list {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			set.Add(k)
		}
	}
	return set
}

func match(set mapset.Set[string], msg string) (string, bool) {
	var found string
	set.Each(func(k string) bool {
		if strings.Contains(msg, k) {
			found = k
			return true
		}
		return false
	})
	return found, found != ""
}

var _ interfaces.ExceptionPolicy = (*ExceptionPolicy)(nil)
