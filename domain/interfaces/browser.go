package interfaces

import (
	"context"

	"shopqa/domain/entities"
)

// Driver defines the browser-automation runtime the page layer is built on.
// Every method is a single attempt: the query is resolved against the live page
// on each call, and the context deadline bounds how long the runtime may wait
// for the element to become actionable. Retrying is the caller's job.
type Driver interface {
	// Goto navigates to an absolute URL and waits for the load event
	Goto(ctx context.Context, url string) error

	// URL returns the current location
	URL(ctx context.Context) (string, error)

	// Title returns the document title
	Title(ctx context.Context) (string, error)

	// Count returns how many elements currently match q
	Count(ctx context.Context, q entities.Query) (int, error)

	// Texts returns the rendered text of every element matching q
	Texts(ctx context.Context, q entities.Query) ([]string, error)

	// Visible reports whether the first element matching q is visible
	Visible(ctx context.Context, q entities.Query) (bool, error)

	// Attribute returns an attribute of the first match and whether it was present
	Attribute(ctx context.Context, q entities.Query, name string) (string, bool, error)

	// Value returns the current value of the first matching form control
	Value(ctx context.Context, q entities.Query) (string, error)

	Click(ctx context.Context, q entities.Query) error
	Fill(ctx context.Context, q entities.Query, text string) error
	Clear(ctx context.Context, q entities.Query) error
	Select(ctx context.Context, q entities.Query, label string) error
	Check(ctx context.Context, q entities.Query) error
	Hover(ctx context.Context, q entities.Query) error
	SetFiles(ctx context.Context, q entities.Query, paths []string) error
	DragTo(ctx context.Context, src, dst entities.Query) error
	ScrollIntoView(ctx context.Context, q entities.Query) error

	// ScrollTo scrolls the window to a named position (top, bottom, center, ...)
	ScrollTo(ctx context.Context, position string) error

	// Eval calls a JavaScript function expression with arg in the page and returns
	// its JSON-compatible result
	Eval(ctx context.Context, script string, arg any) (any, error)

	Cookies(ctx context.Context) ([]entities.Cookie, error)
	SetCookie(ctx context.Context, cookie entities.Cookie) error
	ClearCookies(ctx context.Context) error

	// StorageItem reads one localStorage key of the current origin
	StorageItem(ctx context.Context, key string) (string, bool, error)
	SetStorageItem(ctx context.Context, key, value string) error
	// StorageItems returns every localStorage entry of the current origin
	StorageItems(ctx context.Context) (map[string]string, error)

	// ClearStorage empties localStorage and sessionStorage of the current origin
	ClearStorage(ctx context.Context) error

	SetViewport(ctx context.Context, width, height int) error

	// Screenshot writes a PNG of the current page to path
	Screenshot(ctx context.Context, path string) error

	// OnPageError registers a handler for uncaught page exceptions and returns
	// a function that removes it
	OnPageError(handler func(entities.PageException)) (remove func())

	// Close releases the runtime
	Close() error
}
