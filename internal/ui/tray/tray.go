package tray

import (
	"fyne.io/fyne/v2"

	"focustimer/internal/core/model"
	"focustimer/internal/core/timekeeper"
	"focustimer/internal/i18n"
)

// App is the part of desktop.App the tray needs.
type App interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnToggleRun   func()
	OnReset       func()
	OnSwitchMode  func(model.Mode)
	OnResetCount  func()
	OnPreferences func()
	OnQuit        func()
}

// Icons are swapped as the timer state changes. Nil entries leave the
// current icon alone.
type Icons struct {
	Idle    fyne.Resource
	Running fyne.Resource
	Break   fyne.Resource
}

// Manager handles system tray state.
type Manager struct {
	app        App
	localizer  *i18n.Localizer
	callbacks  Callbacks
	icons      Icons
	statusItem *fyne.MenuItem
	countItem  *fyne.MenuItem
	toggleItem *fyne.MenuItem
	resetItem  *fyne.MenuItem
	modeItems  map[model.Mode]*fyne.MenuItem
	icon       fyne.Resource
	menu       *fyne.Menu
}

// New creates a tray manager and installs its menu.
func New(app App, localizer *i18n.Localizer, icons Icons, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		localizer: localizer,
		callbacks: callbacks,
		icons:     icons,
		modeItems: map[model.Mode]*fyne.MenuItem{},
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.countItem = fyne.NewMenuItem("", nil)
	manager.countItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem(localizer.T("timer.start"), manager.call(callbacks.OnToggleRun))
	manager.resetItem = fyne.NewMenuItem(localizer.T("timer.reset"), manager.call(callbacks.OnReset))
	for _, mode := range model.Modes {
		mode := mode
		manager.modeItems[mode] = fyne.NewMenuItem(localizer.Mode(mode), func() {
			if manager.callbacks.OnSwitchMode != nil {
				manager.callbacks.OnSwitchMode(mode)
			}
		})
	}

	manager.Update(timekeeper.Snapshot{Mode: model.ModeWork})
	return manager
}

// Menu returns the installed menu.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

// Update mirrors snapshot into the menu and icon. Call it on the fyne thread.
func (manager *Manager) Update(snapshot timekeeper.Snapshot) {
	manager.statusItem.Label = manager.localizer.Status(snapshot.Mode, snapshot.RemainingSeconds, snapshot.Running)
	manager.countItem.Label = manager.localizer.T("timer.completed", snapshot.CompletedWorkCycles)
	if snapshot.Running {
		manager.toggleItem.Label = manager.localizer.T("timer.pause")
	} else {
		manager.toggleItem.Label = manager.localizer.T("timer.start")
	}
	for mode, item := range manager.modeItems {
		item.Checked = mode == snapshot.Mode
	}
	manager.refreshIcon(snapshot)
	manager.refreshMenu()
}

func (manager *Manager) refreshIcon(snapshot timekeeper.Snapshot) {
	icon := manager.icons.Idle
	switch {
	case snapshot.Running && snapshot.Mode.IsBreak():
		icon = manager.icons.Break
	case snapshot.Running:
		icon = manager.icons.Running
	}
	if icon == nil || icon == manager.icon {
		return
	}
	manager.icon = icon
	if manager.app != nil {
		manager.app.SetSystemTrayIcon(icon)
	}
}

func (manager *Manager) refreshMenu() {
	items := []*fyne.MenuItem{
		manager.statusItem,
		manager.countItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.resetItem,
	}
	for _, mode := range model.Modes {
		items = append(items, manager.modeItems[mode])
	}
	quit := fyne.NewMenuItem(manager.localizer.T("tray.quit"), manager.call(manager.callbacks.OnQuit))
	quit.IsQuit = true
	items = append(items,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(manager.localizer.T("timer.reset_count"), manager.call(manager.callbacks.OnResetCount)),
		fyne.NewMenuItem(manager.localizer.T("tray.show"), manager.call(manager.callbacks.OnShow)),
		fyne.NewMenuItem(manager.localizer.T("tray.preferences"), manager.call(manager.callbacks.OnPreferences)),
		fyne.NewMenuItemSeparator(),
		quit,
	)
	manager.menu = fyne.NewMenu(manager.localizer.AppName(), items...)
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}

func (manager *Manager) call(callback func()) func() {
	return func() {
		if callback != nil {
			callback()
		}
	}
}
