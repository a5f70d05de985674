package terminal

import (
	"fmt"
	"net/url"
	"strings"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"shopqa/application/apicheck"
	"shopqa/domain/entities"
	"shopqa/infrastructure/api"
	"shopqa/infrastructure/logging"
)

type apiFlags struct {
	data         string
	headers      []string
	form         bool
	expectStatus int
	schema       []string
	extract      []string
}

func (t *TerminalInterface) apiCommand() *cobra.Command {
	var f apiFlags
	cmd := &cobra.Command{
		Use:   "api <METHOD> <path>",
		Short: "Call the shop API and validate the response",
		Example: `  shopqa api GET /productsList --expect-status 200 --schema products:array
  shopqa api POST /verifyLogin --form -d 'email=a@b.c&password=x' --extract responseCode`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(args[0], args[1])
			if err != nil {
				return err
			}
			schema, err := parseSchema(f.schema)
			if err != nil {
				return err
			}

			client, err := api.NewFromConfig(t.cfg, logging.Component(t.logger, "api"))
			if err != nil {
				return err
			}
			resp, err := client.Do(cmd.Context(), req)
			if err != nil {
				return err
			}
			apicheck.LogResponse(logging.Component(t.logger, "apicheck"), resp)

			out := cmd.OutOrStdout()
			if len(f.extract) > 0 {
				for _, path := range f.extract {
					v, ok := apicheck.ExtractFromResponse(resp, path)
					if !ok {
						return fmt.Errorf("%s: %w", path, apicheck.ErrMissingField)
					}
					if err := printJSON(out, v); err != nil {
						return err
					}
				}
			} else if err := printJSON(out, resp); err != nil {
				return err
			}

			if f.expectStatus != 0 {
				if _, err := apicheck.ValidateResponse(resp, f.expectStatus); err != nil {
					return err
				}
			}
			if len(schema) > 0 {
				if _, err := apicheck.ValidateResponseSchema(resp, schema); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.data, "data", "d", "", "request body: JSON, or k=v&k=v with --form")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, "extra header as name:value (repeatable)")
	cmd.Flags().BoolVar(&f.form, "form", false, "send the body form-encoded")
	cmd.Flags().IntVar(&f.expectStatus, "expect-status", 0, "fail unless the HTTP status matches and the body is not empty")
	cmd.Flags().StringArrayVar(&f.schema, "schema", nil, "expected body field as name[:type] (repeatable)")
	cmd.Flags().StringArrayVar(&f.extract, "extract", nil, "print the value at a dotted path instead of the response (repeatable)")
	return cmd
}

func (f apiFlags) request(method, path string) (entities.Request, error) {
	req := entities.Request{
		Method:  strings.ToUpper(method),
		Path:    path,
		Headers: map[string]string{},
	}
	for _, h := range f.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return req, fmt.Errorf("invalid header %q, want name:value", h)
		}
		req.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	if f.data == "" {
		return req, nil
	}
	if f.form {
		values, err := url.ParseQuery(f.data)
		if err != nil {
			return req, fmt.Errorf("invalid form body: %w", err)
		}
		req.Headers["Content-Type"] = "application/x-www-form-urlencoded"
		req.Body = values
		return req, nil
	}

	var body any
	if err := json.UnmarshalFromString(f.data, &body); err != nil {
		// not JSON: send as is
		req.Body = f.data
		return req, nil
	}
	req.Body = body
	return req, nil
}

func parseSchema(fields []string) (apicheck.Schema, error) {
	schema := apicheck.Schema{}
	for _, s := range fields {
		name, typ, _ := strings.Cut(s, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid schema field %q", s)
		}
		typ = strings.ToLower(strings.TrimSpace(typ))
		switch typ {
		case "", apicheck.TypeNumber, apicheck.TypeString, apicheck.TypeBoolean,
			apicheck.TypeObject, apicheck.TypeArray, apicheck.TypeNull:
		default:
			return nil, fmt.Errorf("schema field %s: unknown type %q", name, typ)
		}
		schema[name] = apicheck.Field{Type: typ}
	}
	return schema, nil
}
