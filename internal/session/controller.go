package session

import (
	"context"

	"github.com/avermeer/jobdeck/internal/api"
	"github.com/avermeer/jobdeck/internal/errors"
	"github.com/avermeer/jobdeck/internal/log"
)

// Controller orchestrates the session lifecycle: login, registration,
// logout, and profile refresh. It is the only writer of the Store.
type Controller struct {
	client  *api.Client
	store   *Store
	storage Storage
	nav     Navigator
	logger  *log.Logger
}

// NewController creates a session controller.
// A nil navigator disables navigation; a nil logger uses the default.
func NewController(client *api.Client, store *Store, storage Storage, nav Navigator, logger *log.Logger) *Controller {
	if nav == nil {
		nav = NopNavigator{}
	}
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Controller{
		client:  client,
		store:   store,
		storage: storage,
		nav:     nav,
		logger:  logger,
	}
}

// Store returns the session store this controller writes
func (c *Controller) Store() *Store {
	return c.store
}

// Client returns the API client carrying this session's token
func (c *Controller) Client() *api.Client {
	return c.client
}

// WithNavigator returns a controller sharing this controller's client,
// store and storage but routing navigation to nav. The console uses it
// to capture the target route of a single operation.
func (c *Controller) WithNavigator(nav Navigator) *Controller {
	if nav == nil {
		nav = NopNavigator{}
	}
	clone := *c
	clone.nav = nav
	return &clone
}

// Restore loads a persisted token at startup. The capability set is
// derived immediately; the profile fetch is best-effort and a failure
// leaves the session authenticated without a profile.
func (c *Controller) Restore(ctx context.Context) error {
	raw, err := c.storage.Load()
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}

	c.store.setToken(raw)
	c.client.SetToken(raw)

	if err := c.RefreshProfile(ctx); err != nil {
		c.logger.WithError(err).Warn("profile fetch failed, session restored without profile")
	}
	return nil
}

// Login authenticates against the service, persists the returned token,
// fetches the profile, and navigates to the dashboard. On failure the
// session is left unchanged.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	resp, err := c.client.Login(ctx, username, password)
	if err != nil {
		if api.IsUnauthorized(err) {
			return errors.NewBadCredentialsError(username)
		}
		return errors.Wrap(errors.ErrCodeAuthBadCredentials, "login failed", err)
	}

	c.store.setToken(resp.AccessToken)
	c.client.SetToken(resp.AccessToken)

	if err := c.storage.Save(resp.AccessToken); err != nil {
		return errors.Wrap(errors.ErrCodeAuthTokenPersist, "token obtained but could not be persisted", err)
	}

	if err := c.RefreshProfile(ctx); err != nil {
		// The token is valid; a profile-less session is still usable.
		c.logger.WithError(err).Warn("profile fetch failed after login")
	}

	c.logger.Info("logged in", "username", username)
	c.nav.NavigateTo(RouteDashboard)
	return nil
}

// Register creates a new account and navigates to the login view.
// Registration does not authenticate; the user logs in afterwards.
func (c *Controller) Register(ctx context.Context, username, email, password string) error {
	if _, err := c.client.Register(ctx, username, email, password); err != nil {
		return errors.Wrap(errors.ErrCodeAuthRegisterFailed, "registration failed", err)
	}

	c.logger.Info("registered", "username", username)
	c.nav.NavigateTo(RouteLogin)
	return nil
}

// Logout clears the session and the persisted token, then navigates to
// the login view. Safe to call with no active session.
func (c *Controller) Logout() error {
	c.store.clear()
	c.client.SetToken("")

	if err := c.storage.Clear(); err != nil {
		return err
	}

	c.logger.Info("logged out")
	c.nav.NavigateTo(RouteLogin)
	return nil
}

// RefreshProfile fetches the profile for the current token. On failure
// the profile stays unset but the token is retained; a broken profile
// endpoint must not log the user out.
func (c *Controller) RefreshProfile(ctx context.Context) error {
	if c.store.Snapshot().Token == "" {
		return errors.NewNotLoggedInError()
	}

	profile, err := c.client.Profile(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAuthProfileFetch, "profile fetch failed", err)
	}

	c.store.setProfile(profile)
	return nil
}
