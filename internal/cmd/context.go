package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/avermeer/jobdeck/internal/api"
	"github.com/avermeer/jobdeck/internal/errors"
	"github.com/avermeer/jobdeck/internal/gate"
	"github.com/avermeer/jobdeck/internal/session"
	"github.com/avermeer/jobdeck/internal/ux"
)

// serviceURL resolves the scheduler service base URL: the --api-url
// flag wins, then JOBDECK_API_URL, then the config file, then the
// built-in default.
func serviceURL() string {
	if flagAPIURL != "" {
		return flagAPIURL
	}
	if url := os.Getenv("JOBDECK_API_URL"); url != "" {
		return url
	}
	if cfg, err := loadGlobalConfig(); err == nil && cfg.Service.URL != "" {
		return cfg.Service.URL
	}
	return api.DefaultBaseURL
}

// newClient builds an API client without a session
func newClient() *api.Client {
	return api.NewClient(serviceURL())
}

// newController builds the session controller backed by the persisted
// token file and restores any existing session.
func newController(ctx context.Context) (*session.Controller, error) {
	path, err := session.DefaultStoragePath()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "cannot resolve token path", err)
	}

	controller := session.NewController(newClient(), session.NewStore(), session.NewFileStorage(path), nil, nil)
	if err := controller.Restore(ctx); err != nil {
		return nil, err
	}
	return controller, nil
}

// requireCapabilities gates a command on the restored session. A
// missing session or capability fails fast with a coded error instead
// of a service round trip.
func requireCapabilities(controller *session.Controller, required ...string) error {
	snapshot := controller.Store().Snapshot()
	switch gate.Check(snapshot, required...) {
	case gate.RedirectLogin:
		return errors.NewNotLoggedInError()
	case gate.RedirectUnauthorized:
		return errors.NewAccessDeniedError(gate.Missing(snapshot, required...))
	}
	return nil
}

// parseID parses a numeric id argument
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: expected a number", arg)
	}
	return id, nil
}

// structuredOutput reports whether --output asked for json or yaml
func structuredOutput() bool {
	return flagOutput == "json" || flagOutput == "yaml"
}

// emit writes data in the requested structured format
func emit(data interface{}) error {
	formatter, err := ux.NewFormatter(flagOutput, nil)
	if err != nil {
		return err
	}
	return formatter.Format(data)
}
