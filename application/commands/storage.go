package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"shopqa/domain/entities"
)

var errNoStore = errors.New("no state store configured")

func SetLocalStorage(ctx context.Context, env *Env, key, value string) error {
	return env.Doc.Driver().SetStorageItem(ctx, key, value)
}

// GetLocalStorage returns the value under key and whether it was set
func GetLocalStorage(ctx context.Context, env *Env, key string) (string, bool, error) {
	return env.Doc.Driver().StorageItem(ctx, key)
}

func ClearLocalStorage(ctx context.Context, env *Env) error {
	return env.Doc.Driver().ClearStorage(ctx)
}

func SetCookie(ctx context.Context, env *Env, cookie entities.Cookie) error {
	return env.Doc.Driver().SetCookie(ctx, cookie)
}

// GetCookieValue returns the value of the named cookie and whether it exists
func GetCookieValue(ctx context.Context, env *Env, name string) (string, bool, error) {
	cookies, err := env.Doc.Driver().Cookies(ctx)
	if err != nil {
		return "", false, err
	}
	for _, c := range cookies {
		if c.Name == name {
			return c.Value, true, nil
		}
	}
	return "", false, nil
}

func ClearCookies(ctx context.Context, env *Env) error {
	return env.Doc.Driver().ClearCookies(ctx)
}

// TakeScreenshot saves a PNG named name (or a timestamped default) and returns its path
func TakeScreenshot(ctx context.Context, env *Env, name string) (string, error) {
	if name == "" {
		name = fmt.Sprintf("screenshot-%d", time.Now().UnixMilli())
	}
	if !strings.HasSuffix(name, ".png") {
		name += ".png"
	}
	path := filepath.Join(env.ScreenshotsDir, name)
	if err := env.Doc.Screenshot(ctx, path); err != nil {
		return "", err
	}
	return path, nil
}

// SaveState captures the current location, cookies and local storage
func SaveState(ctx context.Context, env *Env) (entities.StateSnapshot, error) {
	if env.Store == nil {
		return entities.StateSnapshot{}, errNoStore
	}
	drv := env.Doc.Driver()
	var snap entities.StateSnapshot
	var err error
	if snap.URL, err = drv.URL(ctx); err != nil {
		return snap, err
	}
	if snap.Cookies, err = drv.Cookies(ctx); err != nil {
		return snap, err
	}
	if snap.LocalStorage, err = drv.StorageItems(ctx); err != nil {
		return snap, err
	}
	if err := env.Store.Save(snap); err != nil {
		return snap, fmt.Errorf("save state: %w", err)
	}
	env.logger().WithField("cookies", len(snap.Cookies)).Info("state saved")
	return snap, nil
}

// RestoreState seeds cookies, reopens the saved location and refills local storage
func RestoreState(ctx context.Context, env *Env) (entities.StateSnapshot, error) {
	if env.Store == nil {
		return entities.StateSnapshot{}, errNoStore
	}
	snap, err := env.Store.Load()
	if err != nil {
		return snap, fmt.Errorf("load state: %w", err)
	}
	drv := env.Doc.Driver()
	for _, c := range snap.Cookies {
		if err := drv.SetCookie(ctx, c); err != nil {
			return snap, err
		}
	}
	if snap.URL != "" {
		if err := env.Doc.Visit(ctx, snap.URL); err != nil {
			return snap, err
		}
	}
	for k, v := range snap.LocalStorage {
		if err := drv.SetStorageItem(ctx, k, v); err != nil {
			return snap, err
		}
	}
	return snap, nil
}
