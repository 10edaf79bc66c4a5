package stdactions

import (
	"strings"

	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/registry"
)

// bind registers one default keybinding. seq is space-separated key
// names in the config format ("ctrl+w s"). Default bindings use
// priority 0 so user/extension bindings can shadow them.
func bind(mode keys.Mode, seq, action string) {
	parts := strings.Split(seq, " ")
	registry.RegisterKeybinding(&registry.Keybinding{
		ID:     "keybinding." + string(mode) + "." + strings.ReplaceAll(seq, " ", "_"),
		Mode:   string(mode),
		Keys:   parts,
		Action: action,
	})
}

const esc = "\x1b"

func init() {
	// Basic movement.
	bind(keys.ModeNormal, "h", "char_left")
	bind(keys.ModeNormal, "l", "char_right")
	bind(keys.ModeNormal, "j", "line_down")
	bind(keys.ModeNormal, "k", "line_up")
	bind(keys.ModeNormal, "w", "word_next_start")
	bind(keys.ModeNormal, "b", "word_prev_start")
	bind(keys.ModeNormal, "e", "word_next_end")
	bind(keys.ModeNormal, "0", "line_start")
	bind(keys.ModeNormal, "$", "line_end")
	bind(keys.ModeNormal, "^", "first_non_blank")
	bind(keys.ModeNormal, "{", "paragraph_prev")
	bind(keys.ModeNormal, "}", "paragraph_next")

	// Goto prefix.
	bind(keys.ModeNormal, "g g", "doc_start")
	bind(keys.ModeNormal, "g e", "doc_end")
	bind(keys.ModeNormal, "g h", "line_start")
	bind(keys.ModeNormal, "g l", "line_end")
	bind(keys.ModeNormal, "g s", "first_non_blank")
	bind(keys.ModeNormal, "g n", "buffer_next")
	bind(keys.ModeNormal, "g p", "buffer_prev")

	// Insert-mode entry.
	bind(keys.ModeNormal, "i", "enter_insert")
	bind(keys.ModeNormal, "a", "enter_insert_append")
	bind(keys.ModeNormal, "shift+i", "enter_insert_line_start")
	bind(keys.ModeNormal, "shift+a", "enter_insert_line_end")
	bind(keys.ModeNormal, "o", "open_line_below")
	bind(keys.ModeNormal, "shift+o", "open_line_above")
	bind(keys.ModeInsert, esc, "enter_normal")

	// Editing.
	bind(keys.ModeNormal, "d", "delete_selection")
	bind(keys.ModeNormal, "x", "delete_char_forward")
	bind(keys.ModeNormal, "y", "yank")
	bind(keys.ModeNormal, "p", "paste_after")
	bind(keys.ModeNormal, "shift+p", "paste_before")
	bind(keys.ModeNormal, "shift+j", "join_lines")
	bind(keys.ModeNormal, "~", "toggle_case")
	bind(keys.ModeNormal, ">", "indent")
	bind(keys.ModeNormal, "<", "deindent")
	bind(keys.ModeNormal, ".", "repeat_last_insert")

	// Undo history.
	bind(keys.ModeNormal, "u", "undo")
	bind(keys.ModeNormal, "shift+u", "redo")

	// Find/replace character.
	bind(keys.ModeNormal, "f", "find_char_forward")
	bind(keys.ModeNormal, "t", "find_till_forward")
	bind(keys.ModeNormal, "shift+f", "find_char_backward")
	bind(keys.ModeNormal, "shift+t", "find_till_backward")
	bind(keys.ModeNormal, "r", "replace_char")

	// Selections.
	bind(keys.ModeNormal, "%", "select_all")
	bind(keys.ModeNormal, "alt+s", "split_lines")
	bind(keys.ModeNormal, "alt+shift+c", "duplicate_selections_up")
	bind(keys.ModeNormal, "alt+c", "duplicate_selections_down")
	bind(keys.ModeNormal, "alt+m", "merge_selections")
	bind(keys.ModeNormal, "alt+_", "trim_selections")
	bind(keys.ModeNormal, "&", "align_selections")

	// Text objects.
	bind(keys.ModeNormal, "m i", "select_inner")
	bind(keys.ModeNormal, "m a", "select_around")

	// Window / split management.
	bind(keys.ModeNormal, "ctrl+w s", "split_horizontal")
	bind(keys.ModeNormal, "ctrl+w v", "split_vertical")
	bind(keys.ModeNormal, "ctrl+w shift+s", "split_terminal_horizontal")
	bind(keys.ModeNormal, "ctrl+w shift+v", "split_terminal_vertical")
	bind(keys.ModeNormal, "ctrl+w h", "focus_left")
	bind(keys.ModeNormal, "ctrl+w j", "focus_down")
	bind(keys.ModeNormal, "ctrl+w k", "focus_up")
	bind(keys.ModeNormal, "ctrl+w l", "focus_right")
	bind(keys.ModeNormal, "ctrl+w q", "close_split")

	// Jump list and saved selections.
	bind(keys.ModeNormal, "ctrl+s", "save_jump")
	bind(keys.ModeNormal, "ctrl+o", "jump_backward")
	bind(keys.ModeNormal, "ctrl+i", "jump_forward")
	bind(keys.ModeNormal, "alt+i", "save_selections")
	bind(keys.ModeNormal, "alt+o", "restore_selections")

	// Macros.
	bind(keys.ModeNormal, "q", "record_macro")
	bind(keys.ModeNormal, "@", "play_macro")
}
