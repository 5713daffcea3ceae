package dashboard

import "context"

// SettingsSink persists a settings record. The dashboard does not interpret
// the outcome beyond reporting it.
type SettingsSink interface {
	Save(ctx context.Context, s Settings) error
}

// SessionSink ends the user's session.
type SessionSink interface {
	LogOut(ctx context.Context) error
}

// ReloadSignal restarts the view. No dashboard state survives it.
type ReloadSignal interface {
	Reload()
}

// SettingsFunc adapts a function to SettingsSink.
type SettingsFunc func(ctx context.Context, s Settings) error

// Save implements SettingsSink.
func (f SettingsFunc) Save(ctx context.Context, s Settings) error { return f(ctx, s) }

// SessionFunc adapts a function to SessionSink.
type SessionFunc func(ctx context.Context) error

// LogOut implements SessionSink.
func (f SessionFunc) LogOut(ctx context.Context) error { return f(ctx) }

// ReloadFunc adapts a function to ReloadSignal.
type ReloadFunc func()

// Reload implements ReloadSignal.
func (f ReloadFunc) Reload() { f() }

type discardSettings struct{}

func (discardSettings) Save(context.Context, Settings) error { return nil }

type noSession struct{}

func (noSession) LogOut(context.Context) error { return nil }

type noReload struct{}

func (noReload) Reload() {}
