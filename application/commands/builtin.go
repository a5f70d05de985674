package commands

import (
	"context"
	"fmt"
	"net/http"

	"shopqa/domain/entities"
)

// Builtin returns a sealed registry holding every built-in command
func Builtin() *Registry {
	r, err := WithBuiltins(nil)
	if err != nil {
		panic(err)
	}
	return r
}

// WithBuiltins returns a sealed registry holding the built-in commands and
// extra. An extra name that collides with a built-in is an error.
func WithBuiltins(extra map[string]Handler) (*Registry, error) {
	r := NewRegistry()
	if err := RegisterBuiltins(r); err != nil {
		return nil, err
	}
	for _, name := range sortedNames(extra) {
		if err := r.Register(name, extra[name]); err != nil {
			return nil, err
		}
	}
	r.Seal()
	return r, nil
}

// RegisterBuiltins adds every built-in command to r. It leaves r unsealed so
// project commands can be registered next to them.
func RegisterBuiltins(r *Registry) error {
	handlers := builtins()
	for _, name := range sortedNames(handlers) {
		if err := r.Register(name, handlers[name]); err != nil {
			return err
		}
	}
	return nil
}

// none adapts a command without a result
func none(err error) (any, error) { return nil, err }

func builtins() map[string]Handler {
	return map[string]Handler{
		"login": func(ctx context.Context, env *Env, a Args) (any, error) {
			email, err := a.String(0)
			if err != nil {
				return nil, err
			}
			password, err := a.String(1)
			if err != nil {
				return nil, err
			}
			return none(Login(ctx, env, email, password))
		},
		"logout": func(ctx context.Context, env *Env, _ Args) (any, error) {
			return none(Logout(ctx, env))
		},
		"navigateToPage": stringCommand(NavigateToPage),
		"fillContactForm": func(ctx context.Context, env *Env, a Args) (any, error) {
			msg, err := contactArg(a, 0)
			if err != nil {
				return nil, err
			}
			return none(FillContactForm(ctx, env, msg))
		},
		"fillSignupForm": func(ctx context.Context, env *Env, a Args) (any, error) {
			name, err := a.String(0)
			if err != nil {
				return nil, err
			}
			email, err := a.String(1)
			if err != nil {
				return nil, err
			}
			return none(FillSignupForm(ctx, env, name, email))
		},
		"addProductToCart": func(ctx context.Context, env *Env, a Args) (any, error) {
			index, err := a.IntOr(0, 0)
			if err != nil {
				return nil, err
			}
			return none(AddProductToCart(ctx, env, index))
		},
		"searchProduct":   stringCommand(SearchProduct),
		"shouldBeVisible": stringCommand(ShouldBeVisible),
		"shouldContainText": func(ctx context.Context, env *Env, a Args) (any, error) {
			s, err := stringArgs(a, 2)
			if err != nil {
				return nil, err
			}
			return none(ShouldContainText(ctx, env, s[0], s[1]))
		},
		"shouldHaveAttribute": func(ctx context.Context, env *Env, a Args) (any, error) {
			s, err := stringArgs(a, 3)
			if err != nil {
				return nil, err
			}
			return none(ShouldHaveAttribute(ctx, env, s[0], s[1], s[2]))
		},
		"waitForElement": func(ctx context.Context, env *Env, a Args) (any, error) {
			selector, err := a.String(0)
			if err != nil {
				return nil, err
			}
			timeout, err := a.DurationOr(1, env.Doc.Timeouts().Command)
			if err != nil {
				return nil, err
			}
			return none(WaitForElement(ctx, env, selector, timeout))
		},

		"apiRequest": func(ctx context.Context, env *Env, a Args) (any, error) {
			method, err := a.String(0)
			if err != nil {
				return nil, err
			}
			path, err := a.String(1)
			if err != nil {
				return nil, err
			}
			headers, err := a.Headers(3)
			if err != nil {
				return nil, err
			}
			return APIRequest(ctx, env, method, path, a.Any(2), headers)
		},
		"apiGet":    apiCommand(http.MethodGet, false),
		"apiPost":   apiCommand(http.MethodPost, true),
		"apiPut":    apiCommand(http.MethodPut, true),
		"apiDelete": apiCommand(http.MethodDelete, false),

		"uploadFile": func(ctx context.Context, env *Env, a Args) (any, error) {
			s, err := stringArgs(a, 2)
			if err != nil {
				return nil, err
			}
			return none(UploadFile(ctx, env, s[0], s[1]))
		},
		"takeScreenshot": func(ctx context.Context, env *Env, a Args) (any, error) {
			name, err := a.StringOr(0, "")
			if err != nil {
				return nil, err
			}
			return TakeScreenshot(ctx, env, name)
		},
		"setLocalStorage": func(ctx context.Context, env *Env, a Args) (any, error) {
			s, err := stringArgs(a, 2)
			if err != nil {
				return nil, err
			}
			return none(SetLocalStorage(ctx, env, s[0], s[1]))
		},
		"getLocalStorage": func(ctx context.Context, env *Env, a Args) (any, error) {
			key, err := a.String(0)
			if err != nil {
				return nil, err
			}
			v, ok, err := GetLocalStorage(ctx, env, key)
			if err != nil || !ok {
				return nil, err
			}
			return v, nil
		},
		"clearLocalStorage": func(ctx context.Context, env *Env, _ Args) (any, error) {
			return none(ClearLocalStorage(ctx, env))
		},
		"setCookie": func(ctx context.Context, env *Env, a Args) (any, error) {
			s, err := stringArgs(a, 2)
			if err != nil {
				return nil, err
			}
			return none(SetCookie(ctx, env, entities.Cookie{Name: s[0], Value: s[1], Path: "/"}))
		},
		"getCookieValue": func(ctx context.Context, env *Env, a Args) (any, error) {
			name, err := a.String(0)
			if err != nil {
				return nil, err
			}
			v, ok, err := GetCookieValue(ctx, env, name)
			if err != nil || !ok {
				return nil, err
			}
			return v, nil
		},
		"clearCookies": func(ctx context.Context, env *Env, _ Args) (any, error) {
			return none(ClearCookies(ctx, env))
		},

		"getTableRow": func(ctx context.Context, env *Env, a Args) (any, error) {
			table, err := a.String(0)
			if err != nil {
				return nil, err
			}
			row, err := a.Int(1)
			if err != nil {
				return nil, err
			}
			return GetTableRow(env, table, row), nil
		},
		"getTableCell": func(ctx context.Context, env *Env, a Args) (any, error) {
			table, err := a.String(0)
			if err != nil {
				return nil, err
			}
			row, err := a.Int(1)
			if err != nil {
				return nil, err
			}
			col, err := a.Int(2)
			if err != nil {
				return nil, err
			}
			return GetTableCell(env, table, row, col), nil
		},
		"getIframeBody": func(ctx context.Context, env *Env, a Args) (any, error) {
			selector, err := a.String(0)
			if err != nil {
				return nil, err
			}
			return GetIframeBody(ctx, env, selector)
		},
		"selectDate": func(ctx context.Context, env *Env, a Args) (any, error) {
			s, err := stringArgs(a, 2)
			if err != nil {
				return nil, err
			}
			return none(SelectDate(ctx, env, s[0], s[1]))
		},
		"dragAndDrop": func(ctx context.Context, env *Env, a Args) (any, error) {
			s, err := stringArgs(a, 2)
			if err != nil {
				return nil, err
			}
			return none(DragAndDrop(ctx, env, s[0], s[1]))
		},

		"saveState": func(ctx context.Context, env *Env, _ Args) (any, error) {
			return SaveState(ctx, env)
		},
		"restoreState": func(ctx context.Context, env *Env, _ Args) (any, error) {
			return RestoreState(ctx, env)
		},
	}
}

func stringCommand(fn func(ctx context.Context, env *Env, s string) error) Handler {
	return func(ctx context.Context, env *Env, a Args) (any, error) {
		s, err := a.String(0)
		if err != nil {
			return nil, err
		}
		return none(fn(ctx, env, s))
	}
}

// apiCommand builds the method wrappers: (path, [body,] headers)
func apiCommand(method string, withBody bool) Handler {
	return func(ctx context.Context, env *Env, a Args) (any, error) {
		path, err := a.String(0)
		if err != nil {
			return nil, err
		}
		var body any
		headersAt := 1
		if withBody {
			body = a.Any(1)
			headersAt = 2
		}
		headers, err := a.Headers(headersAt)
		if err != nil {
			return nil, err
		}
		return APIRequest(ctx, env, method, path, body, headers)
	}
}

// stringArgs reads the first n arguments as strings
func stringArgs(a Args, n int) ([]string, error) {
	out := make([]string, n)
	for i := range out {
		s, err := a.String(i)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func contactArg(a Args, i int) (entities.ContactMessage, error) {
	switch v := a.Any(i).(type) {
	case entities.ContactMessage:
		return v, nil
	case map[string]any:
		msg := entities.ContactMessage{}
		for key, dst := range map[string]*string{"name": &msg.Name, "email": &msg.Email, "subject": &msg.Subject, "message": &msg.Message} {
			s, _ := v[key].(string)
			*dst = s
		}
		return msg, nil
	}
	return entities.ContactMessage{}, fmt.Errorf("%w: argument %d is not a contact message", ErrBadArgs, i)
}
