package browser

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Scripts shared by both backends. Each is a function expression taking one argument.
const (
	scriptGetItem   = `(key) => window.localStorage.getItem(key)`
	scriptSetItem   = `(kv) => window.localStorage.setItem(kv[0], kv[1])`
	scriptListItems = `() => Object.fromEntries(Object.entries(window.localStorage))`
	scriptClear     = `() => { try { window.localStorage.clear(); window.sessionStorage.clear(); } catch (e) {} }`
	scriptScroll    = `(p) => window.scrollTo(
		(document.documentElement.scrollWidth - window.innerWidth) * p[0],
		(document.documentElement.scrollHeight - window.innerHeight) * p[1])`
	scriptGetAttr = `(el, name) => el.getAttribute(name)`
	scriptDrag    = `(pair) => {
		const [src, dst] = pair;
		const data = new DataTransfer();
		src.dispatchEvent(new DragEvent('dragstart', { bubbles: true, dataTransfer: data }));
		dst.dispatchEvent(new DragEvent('dragenter', { bubbles: true, dataTransfer: data }));
		dst.dispatchEvent(new DragEvent('dragover', { bubbles: true, dataTransfer: data }));
		dst.dispatchEvent(new DragEvent('drop', { bubbles: true, dataTransfer: data }));
		src.dispatchEvent(new DragEvent('dragend', { bubbles: true, dataTransfer: data }));
	}`
)

// scrollPositions maps named window positions to horizontal and vertical fractions
var scrollPositions = map[string][2]float64{
	"topleft":     {0, 0},
	"top":         {0.5, 0},
	"topright":    {1, 0},
	"left":        {0, 0.5},
	"center":      {0.5, 0.5},
	"right":       {1, 0.5},
	"bottomleft":  {0, 1},
	"bottom":      {0.5, 1},
	"bottomright": {1, 1},
}

func scrollFractions(position string) ([2]float64, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(position))
	p, ok := scrollPositions[key]
	if !ok {
		return p, fmt.Errorf("unknown scroll position %q", position)
	}
	return p, nil
}

// budget converts the context deadline into the per-call timeout the runtime expects
func budget(ctx context.Context, fallback time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d > 0 {
			return d
		}
		return time.Millisecond
	}
	return fallback
}

func stringMap(v any) map[string]string {
	out := map[string]string{}
	m, _ := v.(map[string]any)
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}
