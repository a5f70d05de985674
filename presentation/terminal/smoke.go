package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"shopqa/application/harness"
	"shopqa/domain/entities"
	"shopqa/infrastructure/api"
	"shopqa/infrastructure/browser"
	"shopqa/infrastructure/config"
	"shopqa/infrastructure/logging"
	"shopqa/infrastructure/security"
	"shopqa/infrastructure/storage"
)

type smokeTest struct {
	Name string
	Body harness.Body
}

// smokeSuite checks the main storefront pages. The login test only runs when
// credentials are configured.
func smokeSuite(cfg *config.Config) []smokeTest {
	suite := []smokeTest{
		{"home", func(s *harness.Session) {
			s.Pages.Home().Visit().VerifyHomePageLoaded().VerifyNavigationMenu()
		}},
		{"products", func(s *harness.Session) {
			s.Pages.Products().Visit().VerifyProductsPageLoaded()
		}},
		{"login-page", func(s *harness.Session) {
			s.Pages.Login().Visit().VerifyLoginPageLoaded()
		}},
	}
	if cfg.Credentials.Email != "" && cfg.Credentials.Password != "" {
		suite = append(suite, smokeTest{"login", func(s *harness.Session) {
			s.Run("login", cfg.Credentials.Email, cfg.Credentials.Password)
			s.Pages.Home().VerifyLoggedIn()
		}})
	}
	return suite
}

// consoleReporter prints test outcomes and remembers whether any failed
type consoleReporter struct {
	out io.Writer

	mu     sync.Mutex
	failed int
}

func (r *consoleReporter) Helper() {}

func (r *consoleReporter) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
	fmt.Fprintf(r.out, "FAIL  "+format+"\n", args...)
}

func (r *consoleReporter) Logf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "ok    "+format+"\n", args...)
}

// runSuite runs the selected tests in order and returns their results
func runSuite(runner *harness.Runner, rep *consoleReporter, suite []smokeTest, only []string) ([]entities.TestResult, error) {
	selected := suite
	if len(only) > 0 {
		selected = nil
		for _, name := range only {
			found := false
			for _, t := range suite {
				if strings.EqualFold(t.Name, name) {
					selected = append(selected, t)
					found = true
				}
			}
			if !found {
				return nil, fmt.Errorf("unknown smoke test %q", name)
			}
		}
	}

	results := make([]entities.TestResult, 0, len(selected))
	for _, t := range selected {
		results = append(results, runner.Run(rep, t.Name, t.Body))
	}
	if rep.failed > 0 {
		return results, fmt.Errorf("%d of %d smoke tests failed", rep.failed, len(selected))
	}
	return results, nil
}

func (t *TerminalInterface) smokeCommand() *cobra.Command {
	var (
		only     []string
		backend  string
		headless bool
	)
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run the storefront smoke tests in a real browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg := t.cfg
			if cmd.Flags().Changed("backend") {
				cfg.Browser.Backend = strings.ToLower(backend)
			}
			if cmd.Flags().Changed("headless") {
				cfg.Browser.Headless = headless
			}

			log := logging.Component(t.logger, "smoke")
			drv, err := browser.New(browser.OptionsFromConfig(cfg), logging.Component(t.logger, "browser"))
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, drv.Close()) }()

			client, err := api.NewFromConfig(cfg, logging.Component(t.logger, "api"))
			if err != nil {
				return err
			}
			store, err := t.stateStore()
			if err != nil {
				return err
			}

			policy := security.NewExceptionPolicy(cfg.Exceptions.FailOn, logging.Component(t.logger, "security"))
			runner := harness.NewRunner(cfg, drv, client, policy, nil, log)
			runner.Store = store
			runner.History = store

			rep := &consoleReporter{out: cmd.OutOrStdout()}
			results, err := runSuite(runner, rep, smokeSuite(cfg), only)
			log.WithFields(logrus.Fields{
				"tests":   len(results),
				"failed":  rep.failed,
				"history": store.Path(),
			}).Info("Smoke run finished")
			return err
		},
	}
	cmd.Flags().StringSliceVar(&only, "only", nil, "run only the named tests")
	cmd.Flags().StringVar(&backend, "backend", config.BackendPlaywright, "browser backend: playwright or selenium")
	cmd.Flags().BoolVar(&headless, "headless", true, "run the browser without a window")
	return cmd
}

func (t *TerminalInterface) stateStore() (*storage.BrowserState, error) {
	return storage.NewBrowserState(t.cfg.Artifacts.StateFile)
}
