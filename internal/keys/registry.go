// Package keys maps key sequences to Bubble Tea commands.
//
// Sequences use spacemacs-style notation: "SPC" for space, "SPC s" for SPC
// then s. Single keys are written the way tea.KeyMsg.String reports them:
// "1", "esc", "ctrl+c", "enter", "left".
package keys

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Mode scopes a binding to part of the UI. The zero value is the base
// workspace.
type Mode string

// Registry maps key sequences to commands.
type Registry struct {
	bindings     map[string]tea.Cmd
	descriptions map[string]string
	modeFilter   map[string][]Mode // nil/empty = applies to all modes
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings:     make(map[string]tea.Cmd),
		descriptions: make(map[string]string),
		modeFilter:   make(map[string][]Mode),
	}
}

// Bind registers a key sequence to a command, replacing any existing
// binding.
func (r *Registry) Bind(seq string, cmd tea.Cmd) {
	r.BindWithDesc(seq, cmd, "")
}

// BindWithDesc registers a key sequence with a description for the help
// view. The binding applies to all modes.
func (r *Registry) BindWithDesc(seq string, cmd tea.Cmd, desc string) {
	r.BindForMode(seq, cmd, desc, nil)
}

// BindForMode registers a key sequence that only fires, and only shows a
// hint, in modes. If modes is empty the binding applies to all modes.
func (r *Registry) BindForMode(seq string, cmd tea.Cmd, desc string, modes []Mode) {
	n := normalizeSeq(seq)
	r.bindings[n] = cmd
	delete(r.descriptions, n)
	delete(r.modeFilter, n)
	if desc != "" {
		r.descriptions[n] = desc
	}
	if len(modes) > 0 {
		r.modeFilter[n] = slices.Clone(modes)
	}
}

// Unbind removes a key sequence. Unbinding an unknown sequence is a no-op.
func (r *Registry) Unbind(seq string) {
	n := normalizeSeq(seq)
	delete(r.bindings, n)
	delete(r.descriptions, n)
	delete(r.modeFilter, n)
}

// Lookup returns the command for a key sequence, or nil if not bound.
func (r *Registry) Lookup(seq string) tea.Cmd {
	return r.bindings[normalizeSeq(seq)]
}

// LookupForMode is Lookup restricted to bindings that apply in mode.
func (r *Registry) LookupForMode(seq string, mode Mode) tea.Cmd {
	n := normalizeSeq(seq)
	if !r.appliesToMode(n, mode) {
		return nil
	}
	return r.bindings[n]
}

// HasPrefix reports whether any binding continues past seq.
func (r *Registry) HasPrefix(seq string) bool {
	prefix := normalizeSeq(seq) + " "
	for k := range r.bindings {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// LeaderHints returns the next keys after currentSeq ("" means SPC) with
// their descriptions, filtered by mode. Keys that open a submenu show as
// "key…".
func (r *Registry) LeaderHints(currentSeq string, mode Mode) map[string]string {
	out := make(map[string]string)
	prefix := "SPC "
	if currentSeq != "" {
		prefix = normalizeSeq(currentSeq) + " "
	}
	for seq, cmd := range r.bindings {
		if cmd == nil || !strings.HasPrefix(seq, prefix) {
			continue
		}
		if !r.appliesToMode(seq, mode) {
			continue
		}
		rest := strings.TrimPrefix(seq, prefix)
		key := rest
		if parts := strings.Fields(rest); len(parts) > 0 {
			key = parts[0]
		}
		if r.HasPrefix(prefix + key) {
			out[key] = key + "…"
			continue
		}
		if d, ok := r.descriptions[seq]; ok && d != "" {
			out[key] = d
		} else {
			out[key] = seq
		}
	}
	return out
}

func (r *Registry) appliesToMode(seq string, mode Mode) bool {
	modes, ok := r.modeFilter[seq]
	if !ok || len(modes) == 0 {
		return true
	}
	return slices.Contains(modes, mode)
}

// normalizeSeq converts tea key strings to the canonical format:
// "space" -> "SPC".
func normalizeSeq(seq string) string {
	parts := strings.Fields(seq)
	for i, p := range parts {
		if p == "space" {
			parts[i] = "SPC"
		}
	}
	return strings.Join(parts, " ")
}

// Handler tracks leader key state and dispatches to the registry.
type Handler struct {
	Registry      *Registry
	LeaderKey     string   // tea.KeyMsg.String() format
	LeaderSeq     string   // registry format
	LeaderWaiting bool     // waiting for the key after the leader
	Buffer        []string // sequence typed so far in leader mode
	Mode          Mode     // bindings filtered to other modes do not fire
}

// NewHandler creates a handler with SPC as leader. Bubble Tea reports space
// as " ".
func NewHandler(reg *Registry) *Handler {
	return &Handler{
		Registry:  reg,
		LeaderKey: " ",
		LeaderSeq: "SPC",
	}
}

// Handle processes a KeyMsg. A consumed key must not be passed on to views.
func (h *Handler) Handle(msg tea.KeyMsg) (consumed bool, cmd tea.Cmd) {
	s := msg.String()

	if s == "esc" {
		if h.LeaderWaiting {
			h.Reset()
			return true, nil
		}
		return false, nil
	}

	if s == h.LeaderKey && !h.LeaderWaiting {
		h.LeaderWaiting = true
		h.Buffer = []string{h.LeaderSeq}
		return true, nil
	}

	if h.LeaderWaiting {
		h.Buffer = append(h.Buffer, keyToSeqPart(s))
		seq := strings.Join(h.Buffer, " ")
		if c := h.Registry.LookupForMode(seq, h.Mode); c != nil {
			h.Reset()
			return true, c
		}
		// Stay in leader mode while a longer binding exists.
		if h.Registry.HasPrefix(seq) {
			return true, nil
		}
		h.Reset()
		return true, nil
	}

	if c := h.Registry.LookupForMode(keyToSeqPart(s), h.Mode); c != nil {
		return true, c
	}
	return false, nil
}

// Reset leaves leader mode.
func (h *Handler) Reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}

// CurrentSeq returns the leader sequence typed so far.
func (h *Handler) CurrentSeq() string {
	return strings.Join(h.Buffer, " ")
}

func keyToSeqPart(s string) string {
	if s == " " || s == "space" {
		return "SPC"
	}
	return s
}
