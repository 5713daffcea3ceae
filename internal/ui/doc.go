// Package ui is the Bubble Tea front end of the dashboard.
//
// AppModel owns one dashboard session and draws it as a toolbar row, a tab
// bar, the active tab's panel and a status line. Open surfaces (the
// settings dialog, the notification panel, the account menu and the logout
// confirmation) are composited over that base frame. Keys go through the
// leader-key handler first; mouse presses go through the overlay
// coordinator's outside-click dismissal before any control is hit.
package ui
