package terminal

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopqa/application/apicheck"
	"shopqa/application/harness"
	"shopqa/domain/entities"
	bt "shopqa/infrastructure/browser/browsertest"
	"shopqa/infrastructure/config"
	"shopqa/infrastructure/security"
	"shopqa/infrastructure/storage"
)

// execute runs the command line against a fresh tree and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SHOPQA_ARTIFACTS_STATE_FILE", filepath.Join(t.TempDir(), "state.json"))

	ti := NewTerminalInterface()
	t.Cleanup(func() { _ = ti.Close() })

	var out, errOut bytes.Buffer
	ti.Command().SetOut(&out)
	ti.Command().SetErr(&errOut)
	err := ti.Run(context.Background(), args)
	return out.String(), err
}

func TestGen_SeededUserIsReproducible(t *testing.T) {
	first, err := execute(t, "gen", "user", "--seed", "42")
	require.NoError(t, err)
	second, err := execute(t, "gen", "user", "--seed", "42")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var user entities.User
	require.NoError(t, json.UnmarshalFromString(first, &user))
	assert.Contains(t, user.Email, "@")
	assert.NotEmpty(t, user.FirstName)
}

func TestGen_ScalarsTakeArguments(t *testing.T) {
	out, err := execute(t, "gen", "password", "20", "--seed", "7")
	require.NoError(t, err)
	var password string
	require.NoError(t, json.UnmarshalFromString(out, &password))
	assert.Len(t, password, 20)

	out, err = execute(t, "gen", "number", "5", "5")
	require.NoError(t, err)
	assert.Equal(t, "5", strings.TrimSpace(out))

	_, err = execute(t, "gen", "string", "ten")
	assert.ErrorContains(t, err, `argument "ten" is not a number`)

	_, err = execute(t, "gen", "number", "1", "2", "3")
	assert.ErrorContains(t, err, "at most 2 arguments")
}

func TestGen_UnknownEntity(t *testing.T) {
	_, err := execute(t, "gen", "spaceship")
	assert.ErrorContains(t, err, `unknown entity "spaceship"`)
}

func TestCommands_ListsBuiltins(t *testing.T) {
	out, err := execute(t, "commands")
	require.NoError(t, err)
	names := strings.Fields(out)
	assert.Contains(t, names, "login")
	assert.Contains(t, names, "logout")
}

func TestAPI_ValidatesAndExtracts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/productsList", r.URL.Path)
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`{"responseCode": 200, "products": [{"id": 1, "name": "Blue Top"}]}`))
	}))
	defer srv.Close()
	t.Setenv("SHOPQA_API_BASE_URL", srv.URL+"/api")

	out, err := execute(t, "api", "get", "/productsList",
		"-H", "X-Test: yes",
		"--expect-status", "200",
		"--schema", "products:array",
		"--schema", "responseCode:number",
		"--extract", "products.0.name")
	require.NoError(t, err)
	assert.Equal(t, `"Blue Top"`, strings.TrimSpace(out))
}

func TestAPI_SchemaMismatchFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products": "none"}`))
	}))
	defer srv.Close()
	t.Setenv("SHOPQA_API_BASE_URL", srv.URL)

	_, err := execute(t, "api", "GET", "/productsList", "--schema", "products:array")
	assert.ErrorIs(t, err, apicheck.ErrTypeMismatch)

	_, err = execute(t, "api", "GET", "/productsList", "--expect-status", "201")
	assert.ErrorIs(t, err, apicheck.ErrUnexpectedStatus)

	_, err = execute(t, "api", "GET", "/productsList", "--extract", "brands")
	assert.ErrorIs(t, err, apicheck.ErrMissingField)
}

func TestAPI_FormBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "a@b.c", r.PostForm.Get("email"))
		_, _ = w.Write([]byte(`{"responseCode": 404, "message": "User not found!"}`))
	}))
	defer srv.Close()
	t.Setenv("SHOPQA_API_BASE_URL", srv.URL)

	out, err := execute(t, "api", "post", "/verifyLogin", "--form", "-d", "email=a@b.c&password=x", "--extract", "message")
	require.NoError(t, err)
	assert.Equal(t, `"User not found!"`, strings.TrimSpace(out))
}

func TestAPIFlags_Request(t *testing.T) {
	req, err := apiFlags{data: `{"search_product": "top"}`}.request("post", "/searchProduct")
	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, map[string]any{"search_product": "top"}, req.Body)

	req, err = apiFlags{data: "plain text"}.request("PUT", "/x")
	require.NoError(t, err)
	assert.Equal(t, "plain text", req.Body)

	_, err = apiFlags{headers: []string{"no-colon"}}.request("GET", "/x")
	assert.ErrorContains(t, err, "invalid header")
}

func TestParseSchema(t *testing.T) {
	schema, err := parseSchema([]string{"products:Array", "responseCode"})
	require.NoError(t, err)
	assert.Equal(t, apicheck.Schema{
		"products":     {Type: apicheck.TypeArray},
		"responseCode": {},
	}, schema)

	_, err = parseSchema([]string{"products:list"})
	assert.ErrorContains(t, err, `unknown type "list"`)

	_, err = parseSchema([]string{":string"})
	assert.Error(t, err)
}

func TestHistory_PrintsRecordedResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store, err := storage.NewBrowserState(path)
	require.NoError(t, err)
	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, store.AppendHistory(entities.TestResult{Title: title, Status: entities.TestStatusPassed}))
	}

	ti := NewTerminalInterface()
	var out bytes.Buffer
	ti.Command().SetOut(&out)
	ti.Command().SetErr(&bytes.Buffer{})
	t.Setenv("SHOPQA_ARTIFACTS_STATE_FILE", path)
	require.NoError(t, ti.Run(context.Background(), []string{"history", "-n", "2"}))

	var results []entities.TestResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "second", results[0].Title)
	assert.Equal(t, "third", results[1].Title)
}

func smokeRunner(t *testing.T, shop *bt.Shop) (*harness.Runner, *config.Config) {
	cfg := config.NewDefaultConfig()
	cfg.BaseURL = "https://shop.test"
	cfg.Timeouts.Command = 200 * time.Millisecond
	cfg.Timeouts.PageLoad = 200 * time.Millisecond
	cfg.Timeouts.PollInterval = 10 * time.Millisecond
	cfg.Artifacts.ScreenshotsDir = t.TempDir()
	return harness.NewRunner(cfg, shop, nil, security.NewExceptionPolicy(nil, nil), nil, nil), cfg
}

func TestRunSuite_AgainstFakeShop(t *testing.T) {
	shop := bt.NewShop("https://shop.test")
	runner, cfg := smokeRunner(t, shop)
	cfg.Credentials.Email = bt.DefaultUser.Email
	cfg.Credentials.Password = bt.DefaultUser.Password

	var out bytes.Buffer
	rep := &consoleReporter{out: &out}
	results, err := runSuite(runner, rep, smokeSuite(cfg), nil)
	require.NoError(t, err, out.String())
	require.Len(t, results, 4)
	for _, r := range results {
		assert.Equal(t, entities.TestStatusPassed, r.Status, r.Title)
	}
	assert.Equal(t, bt.DefaultUser.Email, shop.LoggedIn())
	assert.Contains(t, out.String(), "ok    login: passed in 1 attempt(s)")
}

func TestRunSuite_OnlyAndFailures(t *testing.T) {
	shop := bt.NewShop("https://shop.test")
	runner, cfg := smokeRunner(t, shop)
	cfg.Retries.RunMode = 0
	cfg.Credentials = config.CredentialsConfig{}

	rep := &consoleReporter{out: &bytes.Buffer{}}
	suite := smokeSuite(cfg)
	require.Len(t, suite, 3, "login runs only with credentials")

	_, err := runSuite(runner, rep, suite, []string{"checkout"})
	assert.ErrorContains(t, err, `unknown smoke test "checkout"`)

	suite = append(suite, smokeTest{"broken", func(s *harness.Session) {
		if err := s.Doc.Get("#does-not-exist").ShouldExist(s.Context); err != nil {
			s.T.Fatalf("%v", err)
		}
	}})
	results, err := runSuite(runner, rep, suite, []string{"HOME", "broken"})
	assert.EqualError(t, err, "1 of 2 smoke tests failed")
	require.Len(t, results, 2)
	assert.Equal(t, entities.TestStatusPassed, results[0].Status)
	assert.Equal(t, entities.TestStatusFailed, results[1].Status)
}
