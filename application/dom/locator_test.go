package dom_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopqa/application/dom"
	"shopqa/application/wait"
	"shopqa/domain/entities"
	bt "shopqa/infrastructure/browser/browsertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://shop.test"

func fastTimeouts() dom.Timeouts {
	return dom.Timeouts{Command: 200 * time.Millisecond, PageLoad: 300 * time.Millisecond, Interval: 10 * time.Millisecond}
}

func catalog() *bt.Browser {
	b := bt.New(base)
	b.Route("/", func(*bt.Browser) *bt.Node {
		return bt.Page("Home",
			bt.Link("/products", "Products"),
			bt.El(".productinfo").Append(
				bt.El("p").WithText("Blue Top"),
				bt.El("h2").WithText("Rs. 500"),
			),
			bt.El(".productinfo").Append(
				bt.El("p").WithText("Men Tshirt"),
				bt.El("h2").WithText("Rs. 400"),
			),
			bt.El("#search_product", "input").WithAttr("type", "text"),
			bt.El(".empty"),
			bt.El("#hidden").Hide(),
			bt.El("iframe#frame").WithFrame(bt.Page("inner", bt.El("p").WithText("inside"))),
		)
	})
	b.Route("/products", func(*bt.Browser) *bt.Node {
		return bt.Page("Products", bt.El("h2").WithText("All Products"))
	})
	return b
}

func open(t *testing.T, b *bt.Browser) *dom.Document {
	t.Helper()
	doc := dom.NewDocument(b, fastTimeouts(), nil)
	require.NoError(t, doc.Visit(context.Background(), base+"/"))
	return doc
}

func TestLocatorBuildersAreImmutable(t *testing.T) {
	doc := dom.NewDocument(catalog(), fastTimeouts(), nil)

	items := doc.Get(".productinfo")
	second := items.Eq(1).Find("p")
	last := items.Last()

	assert.Equal(t, ".productinfo", items.String())
	assert.Equal(t, ".productinfo.eq(1) p", second.String())
	assert.Equal(t, ".productinfo.last()", last.String())
	assert.Equal(t, `a.contains("Products")`, doc.Contains("a", "Products").String())
}

func TestLocatorReadsReflectLivePage(t *testing.T) {
	ctx := context.Background()
	doc := open(t, catalog())

	name, err := doc.Get(".productinfo").Eq(1).Find("p").Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Men Tshirt", name)

	texts, err := doc.Get(".productinfo").Find("h2").Texts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rs. 500", "Rs. 400"}, texts)

	n, err := doc.Get(".productinfo").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	inside, err := doc.Frame("iframe#frame").Find("p").Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "inside", inside)
}

func TestClickFollowsLinks(t *testing.T) {
	ctx := context.Background()
	doc := open(t, catalog())

	require.NoError(t, doc.Get(`a[href="/products"]`).Click(ctx))
	require.NoError(t, doc.ShouldURLContain(ctx, "/products"))
	require.NoError(t, doc.ShouldURLEqual(ctx, base+"/products"))
	require.NoError(t, doc.Get("h2").ShouldContainText(ctx, "All Products"))

	err := doc.ShouldURLNotContain(ctx, "/products")
	var ae *entities.AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "location", ae.Selector)
	assert.Contains(t, ae.Error(), `not include "/products"`)
}

func TestTypeReplacesValue(t *testing.T) {
	ctx := context.Background()
	doc := open(t, catalog())
	input := doc.Get("#search_product")

	require.NoError(t, input.Type(ctx, "dress"))
	require.NoError(t, input.Type(ctx, "top"))
	require.NoError(t, input.ShouldHaveValue(ctx, "top"))
	require.NoError(t, input.Clear(ctx))
	require.NoError(t, input.ShouldHaveValue(ctx, ""))
	require.NoError(t, input.ShouldHaveAttr(ctx, "type", "text"))
}

func TestOutOfRangeIndexFailsAtUse(t *testing.T) {
	ctx := context.Background()
	doc := open(t, catalog())

	missing := doc.Get(".productinfo").Eq(5)

	start := time.Now()
	err := missing.Click(ctx)
	require.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), fastTimeouts().Command)

	var ae *entities.AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, ".productinfo.eq(5)", ae.Selector)
	assert.True(t, wait.IsTimeout(err))
	assert.ErrorIs(t, err, dom.ErrNotFound)
}

func TestNegativeIndexCountsFromEnd(t *testing.T) {
	ctx := context.Background()
	doc := open(t, catalog())
	items := doc.Get(".productinfo")

	name, err := items.Eq(-1).Find("p").Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Men Tshirt", name)

	name, err = items.Eq(-2).Find("p").Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Blue Top", name)

	assert.Error(t, items.Eq(-3).ShouldExist(ctx))
}

func TestContainsMatchesCase(t *testing.T) {
	ctx := context.Background()
	doc := open(t, catalog())

	require.NoError(t, doc.Get(".productinfo").Contains("Tshirt").ShouldHaveLength(ctx, 1))
	require.NoError(t, doc.Contains("a", "Products").ShouldExist(ctx))

	err := doc.Get(".productinfo").Contains("tshirt").ShouldExist(ctx)
	var ae *entities.AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, `.productinfo.contains("tshirt")`, ae.Selector)
}

func TestAssertionsReportObservedState(t *testing.T) {
	ctx := context.Background()
	doc := open(t, catalog())

	err := doc.Get(".productinfo").ShouldHaveLength(ctx, 3)
	var ae *entities.AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "have length 3", ae.Condition)
	assert.Equal(t, "found 2", ae.Observed)
	assert.Contains(t, err.Error(), "expected .productinfo to have length 3, but found 2")

	err = doc.Get("#hidden").ShouldBeVisible(ctx)
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "it was hidden", ae.Observed)

	assert.Error(t, doc.Get(".empty").ShouldNotBeEmpty(ctx))
	assert.NoError(t, doc.Get(".productinfo").ShouldNotBeEmpty(ctx))
	assert.NoError(t, doc.Get(".productinfo").ShouldHaveLengthGreaterThan(ctx, 1))
	assert.NoError(t, doc.Get(".missing").ShouldNotExist(ctx))
	assert.NoError(t, doc.Get("#hidden").ShouldExist(ctx))
}

func TestEachContainTextIgnoresCase(t *testing.T) {
	ctx := context.Background()
	b := bt.New(base)
	b.Route("/", func(*bt.Browser) *bt.Node {
		return bt.Page("Search",
			bt.El("p").WithText("Sleeveless Dress"),
			bt.El("p").WithText("DRESS for women"),
		)
	})
	doc := open(t, b)

	assert.NoError(t, doc.Get("p").ShouldEachContainText(ctx, "dress"))
	assert.Error(t, doc.Get("p").ShouldContainText(ctx, "dresses"))
	assert.Error(t, doc.Get("p").ShouldEachContainText(ctx, "women"))
}

func TestAssertionsRetryUntilConditionHolds(t *testing.T) {
	ctx := context.Background()
	b := catalog()
	doc := dom.NewDocument(b, dom.Timeouts{Command: 2 * time.Second, Interval: 10 * time.Millisecond}, nil)
	require.NoError(t, doc.Visit(ctx, base+"/"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(50 * time.Millisecond)
		_ = b.Goto(context.Background(), base+"/products")
	}()

	require.NoError(t, doc.Get("h2").ShouldContainText(ctx, "All Products"))
	<-done
}

func TestParentCancellationIsNotAnAssertion(t *testing.T) {
	doc := open(t, catalog())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := doc.Get(".missing").ShouldExist(ctx)
	require.Error(t, err)
	var ae *entities.AssertionError
	assert.False(t, errors.As(err, &ae))
	assert.ErrorIs(t, err, context.Canceled)
}
