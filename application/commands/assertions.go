package commands

import (
	"context"
	"time"
)

func ShouldBeVisible(ctx context.Context, env *Env, selector string) error {
	return env.Doc.Get(selector).ShouldBeVisible(ctx)
}

func ShouldContainText(ctx context.Context, env *Env, selector, text string) error {
	return env.Doc.Get(selector).ShouldContainText(ctx, text)
}

func ShouldHaveAttribute(ctx context.Context, env *Env, selector, attr, value string) error {
	return env.Doc.Get(selector).ShouldHaveAttr(ctx, attr, value)
}

// WaitForElement waits up to timeout for selector to become visible
func WaitForElement(ctx context.Context, env *Env, selector string, timeout time.Duration) error {
	return env.Doc.WithTimeout(timeout).Get(selector).ShouldBeVisible(ctx)
}
