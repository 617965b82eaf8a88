package plugin

import "github.com/docugen/docugen/internal/plugin/hook"

// NotificationType identifies a registry state transition.
type NotificationType int

const (
	// NotifyInstalled is emitted when a plugin is installed.
	NotifyInstalled NotificationType = iota
	// NotifyUninstalled is emitted when a plugin is uninstalled.
	NotifyUninstalled
	// NotifyEnabled is emitted when a plugin is enabled.
	NotifyEnabled
	// NotifyDisabled is emitted when a plugin is disabled.
	NotifyDisabled
	// NotifyLoadError is emitted when a bulk-load candidate fails.
	NotifyLoadError
	// NotifyInitError is emitted when an initializer fails.
	NotifyInitError
	// NotifyCleanupError is emitted when a cleanup routine fails.
	NotifyCleanupError
	// NotifyHookExecuted is emitted per successful handler invocation.
	NotifyHookExecuted
	// NotifyHookError is emitted per failed handler invocation.
	NotifyHookError
)

// String returns the notification type name.
func (t NotificationType) String() string {
	switch t {
	case NotifyInstalled:
		return "installed"
	case NotifyUninstalled:
		return "uninstalled"
	case NotifyEnabled:
		return "enabled"
	case NotifyDisabled:
		return "disabled"
	case NotifyLoadError:
		return "load-error"
	case NotifyInitError:
		return "init-error"
	case NotifyCleanupError:
		return "cleanup-error"
	case NotifyHookExecuted:
		return "hook-executed"
	case NotifyHookError:
		return "hook-error"
	default:
		return "unknown"
	}
}

// Notification reports one registry state transition. Exactly one is
// emitted per transition; errors are never swallowed without one.
type Notification struct {
	Type   NotificationType
	Plugin string
	Hook   hook.Event
	Err    error
}

// Observer receives notifications. Observers must be non-blocking and
// must not call back into the Registry. Panics are recovered.
type Observer func(Notification)
