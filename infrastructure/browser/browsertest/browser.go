// Package browsertest provides an in-memory implementation of interfaces.Driver
// for exercising page objects, commands and the harness without a real browser.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"

	"shopqa/domain/entities"
	"shopqa/domain/interfaces"
)

var (
	// ErrHidden is returned when an interaction targets an element that is not rendered
	ErrHidden = errors.New("element is not visible")
	// ErrClosed is returned by every call after Close
	ErrClosed = errors.New("browser closed")
)

var _ interfaces.Driver = (*Browser)(nil)

// Builder renders the document served for a path
type Builder func(b *Browser) *Node

// Browser is a fake browser serving pages built by registered routes.
// Click handlers run without the browser lock held, so they may navigate or
// mutate the tree freely.
type Browser struct {
	BaseURL string

	// EvalFunc answers Eval; nil evaluates every script to nil
	EvalFunc func(script string, arg any) (any, error)

	mu          sync.Mutex
	routes      map[string]Builder
	url         string
	page        *Node
	cookies     []entities.Cookie
	storage     map[string]string
	viewport    [2]int
	calls       []string
	screenshots []string
	handlers    map[int]func(entities.PageException)
	nextID      int
	closed      bool
}

// New creates an empty browser rooted at baseURL
func New(baseURL string) *Browser {
	return &Browser{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		routes:   map[string]Builder{},
		storage:  map[string]string{},
		handlers: map[int]func(entities.PageException){},
	}
}

// Route serves the document built by build for path
func (b *Browser) Route(path string, build Builder) *Browser {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[path] = build
	return b
}

// Calls returns the interactions performed so far, in order
func (b *Browser) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.calls)
}

// Screenshots returns every path passed to Screenshot
func (b *Browser) Screenshots() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.screenshots)
}

// Viewport returns the last size passed to SetViewport
func (b *Browser) Viewport() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewport[0], b.viewport[1]
}

// Current returns the document currently shown
func (b *Browser) Current() *Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page
}

// Find resolves q against the current document
func (b *Browser) Find(q entities.Query) []*Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	nodes, _ := b.resolve(q)
	return nodes
}

// Emit raises an uncaught page exception
func (b *Browser) Emit(message string) {
	b.mu.Lock()
	exc := entities.PageException{Message: message, URL: b.url}
	handlers := make([]func(entities.PageException), 0, len(b.handlers))
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(exc)
	}
}

func (b *Browser) record(format string, args ...any) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *Browser) absolute(raw string) (*url.URL, error) {
	base, err := url.Parse(b.BaseURL + "/")
	if err != nil {
		return nil, err
	}
	if b.url != "" {
		if cur, err := url.Parse(b.url); err == nil {
			base = cur
		}
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(ref), nil
}

func (b *Browser) Goto(ctx context.Context, raw string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	u, err := b.absolute(raw)
	if err != nil {
		b.mu.Unlock()
		return fmt.Errorf("goto %s: %w", raw, err)
	}
	build, ok := b.routes[u.Path]
	b.url = u.String()
	b.record("goto %s", u.Path)
	b.mu.Unlock()

	var doc *Node
	if ok {
		doc = build(b)
	} else {
		doc = Page("404", El("h1").WithText("Not Found"))
	}

	b.mu.Lock()
	b.page = doc
	b.mu.Unlock()
	return nil
}

func (b *Browser) URL(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.url, nil
}

func (b *Browser) Title(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page == nil {
		return "", nil
	}
	return b.page.Attrs["title"], nil
}

func (b *Browser) resolve(q entities.Query) ([]*Node, error) {
	if b.closed {
		return nil, ErrClosed
	}
	if b.page == nil {
		return nil, nil
	}
	set := []*Node{b.page}
	for _, step := range q.Steps {
		switch step.Kind {
		case entities.StepCSS, entities.StepFrame:
			var out []*Node
			seen := map[*Node]bool{}
			for _, scope := range set {
				scope.descendants(func(n *Node) {
					if seen[n] || !n.matches(step.Value) {
						return
					}
					seen[n] = true
					if step.Kind == entities.StepCSS {
						out = append(out, n)
					} else if n.Frame != nil {
						out = append(out, n.Frame)
					}
				})
			}
			set = out
		case entities.StepNth:
			i, ok := entities.NthIndex(step.Index, len(set))
			if !ok {
				return nil, nil
			}
			set = set[i : i+1]
		case entities.StepLast:
			if len(set) > 0 {
				set = set[len(set)-1:]
			}
		case entities.StepHasText:
			var out []*Node
			for _, n := range set {
				if entities.HasText(n.InnerText(), step.Value) {
					out = append(out, n)
				}
			}
			set = out
		default:
			return nil, fmt.Errorf("unsupported step %q", step.Kind)
		}
	}
	return set, nil
}

func (b *Browser) first(q entities.Query) (*Node, error) {
	nodes, err := b.resolve(q)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s: no element matched", q)
	}
	return nodes[0], nil
}

// actionable returns the first visible match of q
func (b *Browser) actionable(q entities.Query) (*Node, error) {
	n, err := b.first(q)
	if err != nil {
		return nil, err
	}
	if !n.visible() {
		return nil, fmt.Errorf("%s: %w", q, ErrHidden)
	}
	return n, nil
}

func (b *Browser) Count(ctx context.Context, q entities.Query) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	nodes, err := b.resolve(q)
	return len(nodes), err
}

func (b *Browser) Texts(ctx context.Context, q entities.Query) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	nodes, err := b.resolve(q)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(nodes))
	for i, n := range nodes {
		texts[i] = n.InnerText()
	}
	return texts, nil
}

func (b *Browser) Visible(ctx context.Context, q entities.Query) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, err := b.first(q)
	if err != nil {
		return false, err
	}
	return n.visible(), nil
}

func (b *Browser) Attribute(ctx context.Context, q entities.Query, name string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, err := b.first(q)
	if err != nil {
		return "", false, err
	}
	v, ok := n.Attrs[name]
	return v, ok, nil
}

func (b *Browser) Value(ctx context.Context, q entities.Query) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, err := b.first(q)
	if err != nil {
		return "", err
	}
	return n.Value, nil
}

func (b *Browser) Click(ctx context.Context, q entities.Query) error {
	b.mu.Lock()
	n, err := b.actionable(q)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	b.record("click %s", q)
	href := n.Attrs["href"]
	b.mu.Unlock()

	switch {
	case n.OnClick != nil:
		n.OnClick(b, n)
	case href != "" && !strings.HasPrefix(href, "#"):
		return b.Goto(ctx, href)
	}
	return nil
}

func (b *Browser) Fill(ctx context.Context, q entities.Query, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, err := b.actionable(q)
	if err != nil {
		return err
	}
	b.record("fill %s %q", q, text)
	n.Value = text
	return nil
}

func (b *Browser) Clear(ctx context.Context, q entities.Query) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, err := b.actionable(q)
	if err != nil {
		return err
	}
	b.record("clear %s", q)
	n.Value = ""
	return nil
}

func (b *Browser) Select(ctx context.Context, q entities.Query, label string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, err := b.actionable(q)
	if err != nil {
		return err
	}
	if !slices.Contains(n.Options, label) {
		return fmt.Errorf("%s: option %q not found", q, label)
	}
	b.record("select %s %q", q, label)
	n.Value = label
	return nil
}

func (b *Browser) Check(ctx context.Context, q entities.Query) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, err := b.actionable(q)
	if err != nil {
		return err
	}
	b.record("check %s", q)
	n.Checked = true
	n.Attrs["checked"] = "checked"
	return nil
}

func (b *Browser) Hover(ctx context.Context, q entities.Query) error {
	b.mu.Lock()
	n, err := b.actionable(q)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	b.record("hover %s", q)
	b.mu.Unlock()
	if n.OnHover != nil {
		n.OnHover(b, n)
	}
	return nil
}

func (b *Browser) SetFiles(ctx context.Context, q entities.Query, paths []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, err := b.first(q)
	if err != nil {
		return err
	}
	b.record("files %s %s", q, strings.Join(paths, ","))
	n.Files = slices.Clone(paths)
	return nil
}

func (b *Browser) DragTo(ctx context.Context, src, dst entities.Query) error {
	b.mu.Lock()
	from, err := b.actionable(src)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	to, err := b.actionable(dst)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	b.record("drag %s -> %s", src, dst)
	b.mu.Unlock()
	if to.OnDrop != nil {
		to.OnDrop(b, from, to)
	}
	return nil
}

func (b *Browser) ScrollIntoView(ctx context.Context, q entities.Query) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.first(q); err != nil {
		return err
	}
	b.record("scroll %s", q)
	return nil
}

func (b *Browser) ScrollTo(ctx context.Context, position string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("scrollTo %s", position)
	return nil
}

func (b *Browser) Eval(ctx context.Context, script string, arg any) (any, error) {
	if b.EvalFunc == nil {
		return nil, nil
	}
	return b.EvalFunc(script, arg)
}

func (b *Browser) Cookies(ctx context.Context) ([]entities.Cookie, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.cookies), nil
}

func (b *Browser) SetCookie(ctx context.Context, cookie entities.Cookie) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cookies = slices.DeleteFunc(b.cookies, func(c entities.Cookie) bool { return c.Name == cookie.Name })
	b.cookies = append(b.cookies, cookie)
	return nil
}

func (b *Browser) ClearCookies(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("clearCookies")
	b.cookies = nil
	return nil
}

func (b *Browser) StorageItem(ctx context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.storage[key]
	return v, ok, nil
}

func (b *Browser) SetStorageItem(ctx context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.storage[key] = value
	return nil
}

func (b *Browser) StorageItems(ctx context.Context) (map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]string, len(b.storage))
	for k, v := range b.storage {
		out[k] = v
	}
	return out, nil
}

func (b *Browser) ClearStorage(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("clearStorage")
	clear(b.storage)
	return nil
}

func (b *Browser) SetViewport(ctx context.Context, width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("viewport %dx%d", width, height)
	b.viewport = [2]int{width, height}
	return nil
}

func (b *Browser) Screenshot(ctx context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.screenshots = append(b.screenshots, path)
	return nil
}

func (b *Browser) OnPageError(handler func(entities.PageException)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
