package dom

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopqa/application/wait"
	"shopqa/domain/entities"
)

// Locator is a named, lazily resolved query. It never caches elements: every
// read, action and assertion re-resolves the query against the live page, and
// each is retried until it succeeds or the command timeout elapses.
type Locator struct {
	doc   *Document
	query entities.Query
}

// Query returns the underlying query
func (l Locator) Query() entities.Query { return l.query }

func (l Locator) String() string { return l.query.String() }

// Find narrows to descendants matching selector
func (l Locator) Find(selector string) Locator {
	return l.with(entities.Step{Kind: entities.StepCSS, Value: selector})
}

// Eq selects the element at index; negative indexes count from the end.
// An out-of-range index is not an error until the locator is used.
func (l Locator) Eq(index int) Locator {
	return l.with(entities.Step{Kind: entities.StepNth, Index: index})
}

func (l Locator) First() Locator { return l.Eq(0) }

func (l Locator) Last() Locator {
	return l.with(entities.Step{Kind: entities.StepLast})
}

// Contains keeps only elements whose text contains text, matching case
func (l Locator) Contains(text string) Locator {
	return l.with(entities.Step{Kind: entities.StepHasText, Value: text})
}

// Frame descends into the body of a nested iframe matching selector
func (l Locator) Frame(selector string) Locator {
	return l.with(entities.Step{Kind: entities.StepFrame, Value: selector}).Find("body")
}

func (l Locator) with(step entities.Step) Locator {
	return Locator{doc: l.doc, query: l.query.With(step)}
}

// Click clicks the first match
func (l Locator) Click(ctx context.Context) error {
	return l.act(ctx, "be clickable", func(ctx context.Context) error {
		return l.doc.drv.Click(ctx, l.query)
	})
}

// Type replaces the value of the first matching input with text
func (l Locator) Type(ctx context.Context, text string) error {
	return l.act(ctx, "accept typing", func(ctx context.Context) error {
		return l.doc.drv.Fill(ctx, l.query, text)
	})
}

func (l Locator) Clear(ctx context.Context) error {
	return l.act(ctx, "be cleared", func(ctx context.Context) error {
		return l.doc.drv.Clear(ctx, l.query)
	})
}

// Select picks the option with the given label
func (l Locator) Select(ctx context.Context, label string) error {
	return l.act(ctx, fmt.Sprintf("select %q", label), func(ctx context.Context) error {
		return l.doc.drv.Select(ctx, l.query, label)
	})
}

func (l Locator) Check(ctx context.Context) error {
	return l.act(ctx, "be checked", func(ctx context.Context) error {
		return l.doc.drv.Check(ctx, l.query)
	})
}

func (l Locator) Hover(ctx context.Context) error {
	return l.act(ctx, "be hovered", func(ctx context.Context) error {
		return l.doc.drv.Hover(ctx, l.query)
	})
}

// Attach sets the files of a file input
func (l Locator) Attach(ctx context.Context, paths ...string) error {
	return l.act(ctx, "accept files", func(ctx context.Context) error {
		return l.doc.drv.SetFiles(ctx, l.query, paths)
	})
}

// DragTo drags the first match onto the first match of target
func (l Locator) DragTo(ctx context.Context, target Locator) error {
	return l.act(ctx, "be dragged onto "+target.String(), func(ctx context.Context) error {
		n, err := l.doc.drv.Count(ctx, target.query)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("drop target %s: %w", target, ErrNotFound)
		}
		return l.doc.drv.DragTo(ctx, l.query, target.query)
	})
}

func (l Locator) ScrollIntoView(ctx context.Context) error {
	return l.act(ctx, "scroll into view", func(ctx context.Context) error {
		return l.doc.drv.ScrollIntoView(ctx, l.query)
	})
}

// act retries fn until the query resolves and the runtime accepts the interaction
func (l Locator) act(ctx context.Context, condition string, fn func(ctx context.Context) error) error {
	l.doc.log.WithField("selector", l.String()).Debug(condition)
	err := wait.Until(ctx, l.doc.poll(), func(ctx context.Context) (bool, error) {
		if err := l.present(ctx); err != nil {
			return false, err
		}
		return true, fn(ctx)
	})
	return l.fail(condition, "", err)
}

func (l Locator) present(ctx context.Context) error {
	n, err := l.doc.drv.Count(ctx, l.query)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the current number of matches without waiting
func (l Locator) Count(ctx context.Context) (int, error) {
	return l.doc.drv.Count(ctx, l.query)
}

// Texts returns the text of every current match without waiting
func (l Locator) Texts(ctx context.Context) ([]string, error) {
	return l.doc.drv.Texts(ctx, l.query)
}

// Text waits for a match and returns the trimmed text of the first one
func (l Locator) Text(ctx context.Context) (string, error) {
	text, err := wait.Poll(ctx, l.doc.poll(), func(ctx context.Context) (string, error) {
		texts, err := l.doc.drv.Texts(ctx, l.query)
		if err != nil {
			return "", err
		}
		if len(texts) == 0 {
			return "", ErrNotFound
		}
		return strings.TrimSpace(texts[0]), nil
	})
	return text, l.fail("have text", "", err)
}

// Attr waits for a match and returns one of its attributes
func (l Locator) Attr(ctx context.Context, name string) (string, error) {
	v, err := wait.Poll(ctx, l.doc.poll(), func(ctx context.Context) (string, error) {
		if err := l.present(ctx); err != nil {
			return "", err
		}
		v, ok, err := l.doc.drv.Attribute(ctx, l.query, name)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("attribute %q is missing", name)
		}
		return v, nil
	})
	return v, l.fail(fmt.Sprintf("have attribute %q", name), "", err)
}

// Value waits for a match and returns its form value
func (l Locator) Value(ctx context.Context) (string, error) {
	v, err := wait.Poll(ctx, l.doc.poll(), func(ctx context.Context) (string, error) {
		if err := l.present(ctx); err != nil {
			return "", err
		}
		return l.doc.drv.Value(ctx, l.query)
	})
	return v, l.fail("have a value", "", err)
}

// ShouldExist waits for at least one match
func (l Locator) ShouldExist(ctx context.Context) error {
	return l.expect(ctx, "exist", func(ctx context.Context) (bool, string, error) {
		n, err := l.doc.drv.Count(ctx, l.query)
		return n > 0, "no element matched", err
	})
}

// ShouldNotExist waits until nothing matches
func (l Locator) ShouldNotExist(ctx context.Context) error {
	return l.expect(ctx, "not exist", func(ctx context.Context) (bool, string, error) {
		n, err := l.doc.drv.Count(ctx, l.query)
		return n == 0, fmt.Sprintf("%d elements matched", n), err
	})
}

func (l Locator) ShouldBeVisible(ctx context.Context) error {
	return l.expect(ctx, "be visible", func(ctx context.Context) (bool, string, error) {
		n, err := l.doc.drv.Count(ctx, l.query)
		if err != nil || n == 0 {
			return false, "no element matched", err
		}
		ok, err := l.doc.drv.Visible(ctx, l.query)
		return ok, "it was hidden", err
	})
}

func (l Locator) ShouldHaveLength(ctx context.Context, want int) error {
	return l.expect(ctx, fmt.Sprintf("have length %d", want), func(ctx context.Context) (bool, string, error) {
		n, err := l.doc.drv.Count(ctx, l.query)
		return n == want, fmt.Sprintf("found %d", n), err
	})
}

func (l Locator) ShouldHaveLengthGreaterThan(ctx context.Context, min int) error {
	return l.expect(ctx, fmt.Sprintf("have length greater than %d", min), func(ctx context.Context) (bool, string, error) {
		n, err := l.doc.drv.Count(ctx, l.query)
		return n > min, fmt.Sprintf("found %d", n), err
	})
}

// ShouldContainText waits until the combined text of all matches contains text
func (l Locator) ShouldContainText(ctx context.Context, text string) error {
	return l.expect(ctx, fmt.Sprintf("contain text %q", text), func(ctx context.Context) (bool, string, error) {
		texts, err := l.doc.drv.Texts(ctx, l.query)
		if err != nil || len(texts) == 0 {
			return false, "no element matched", err
		}
		joined := strings.Join(texts, " ")
		return strings.Contains(joined, text), fmt.Sprintf("text was %q", abbreviate(joined)), nil
	})
}

// ShouldEachContainText waits until every match contains text, ignoring case
func (l Locator) ShouldEachContainText(ctx context.Context, text string) error {
	needle := strings.ToLower(text)
	return l.expect(ctx, fmt.Sprintf("each contain text %q", text), func(ctx context.Context) (bool, string, error) {
		texts, err := l.doc.drv.Texts(ctx, l.query)
		if err != nil || len(texts) == 0 {
			return false, "no element matched", err
		}
		for i, t := range texts {
			if !strings.Contains(strings.ToLower(t), needle) {
				return false, fmt.Sprintf("element %d had text %q", i, abbreviate(t)), nil
			}
		}
		return true, "", nil
	})
}

func (l Locator) ShouldHaveAttr(ctx context.Context, name, value string) error {
	return l.expect(ctx, fmt.Sprintf("have attribute %s=%q", name, value), func(ctx context.Context) (bool, string, error) {
		if err := l.present(ctx); err != nil {
			return false, "no element matched", nil
		}
		v, ok, err := l.doc.drv.Attribute(ctx, l.query, name)
		if !ok {
			return false, fmt.Sprintf("attribute %s was missing", name), err
		}
		return v == value, fmt.Sprintf("it was %q", v), err
	})
}

func (l Locator) ShouldHaveValue(ctx context.Context, value string) error {
	return l.expect(ctx, fmt.Sprintf("have value %q", value), func(ctx context.Context) (bool, string, error) {
		if err := l.present(ctx); err != nil {
			return false, "no element matched", nil
		}
		v, err := l.doc.drv.Value(ctx, l.query)
		return v == value, fmt.Sprintf("it was %q", v), err
	})
}

// ShouldNotBeEmpty waits until the first match has child elements or text
func (l Locator) ShouldNotBeEmpty(ctx context.Context) error {
	return l.expect(ctx, "not be empty", func(ctx context.Context) (bool, string, error) {
		if err := l.present(ctx); err != nil {
			return false, "no element matched", nil
		}
		children, err := l.doc.drv.Count(ctx, l.First().Find("*").query)
		if err != nil {
			return false, "", err
		}
		if children > 0 {
			return true, "", nil
		}
		texts, err := l.doc.drv.Texts(ctx, l.First().query)
		if err != nil {
			return false, "", err
		}
		return len(texts) > 0 && strings.TrimSpace(texts[0]) != "", "it was empty", nil
	})
}

// expect polls check, remembering the last observation for the failure message
func (l Locator) expect(ctx context.Context, condition string, check func(ctx context.Context) (bool, string, error)) error {
	var observed string
	err := wait.Until(ctx, l.doc.poll(), func(ctx context.Context) (bool, error) {
		ok, obs, err := check(ctx)
		if err == nil {
			observed = obs
		}
		return ok, err
	})
	return l.fail(condition, observed, err)
}

func (l Locator) fail(condition, observed string, err error) error {
	if err == nil {
		return nil
	}
	if !wait.IsTimeout(err) {
		return fmt.Errorf("%s: %w", l, err)
	}
	if observed == "" {
		var te *wait.TimeoutError
		if errors.As(err, &te) && te.Last != nil {
			observed = te.Last.Error()
		}
	}
	return &entities.AssertionError{
		Selector:  l.String(),
		Condition: condition,
		Observed:  observed,
		Timeout:   l.doc.timeouts.Command,
		Err:       err,
	}
}

func abbreviate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= 120 {
		return s
	}
	return s[:120] + "..."
}
