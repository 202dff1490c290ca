package terminfo

// Capability index tables, term(5) order. Only the subset this toolkit
// drives (color, cursor movement, clearing, modes, text attributes) is
// mapped; capabilities at unmapped indexes are skipped when parsing.

// boolNames maps boolean capability indexes to short names
var boolNames = map[int]string{
	0:  "bw",   // auto_left_margin
	1:  "am",   // auto_right_margin
	4:  "xenl", // eat_newline_glitch
	8:  "km",   // has_meta_key
	27: "ccc",  // can_change
	28: "bce",  // back_color_erase
}

// numNames maps numeric capability indexes to short names
var numNames = map[int]string{
	0:  "cols",   // columns
	2:  "lines",  // lines
	13: "colors", // max_colors
	14: "pairs",  // max_pairs
}

// strNames maps string capability indexes to short names
var strNames = map[int]string{
	1:   "bel",   // bell
	2:   "cr",    // carriage_return
	5:   "clear", // clear_screen
	6:   "el",    // clr_eol
	7:   "ed",    // clr_eos
	8:   "hpa",   // column_address
	10:  "cup",   // cursor_address
	11:  "cud1",  // cursor_down
	12:  "home",  // cursor_home
	13:  "civis", // cursor_invisible
	14:  "cub1",  // cursor_left
	16:  "cnorm", // cursor_normal
	17:  "cuf1",  // cursor_right
	19:  "cuu1",  // cursor_up
	20:  "cvvis", // cursor_visible
	26:  "blink", // enter_blink_mode
	27:  "bold",  // enter_bold_mode
	28:  "smcup", // enter_ca_mode
	30:  "dim",   // enter_dim_mode
	34:  "rev",   // enter_reverse_mode
	35:  "smso",  // enter_standout_mode
	36:  "smul",  // enter_underline_mode
	39:  "sgr0",  // exit_attribute_mode
	40:  "rmcup", // exit_ca_mode
	43:  "rmso",  // exit_standout_mode
	44:  "rmul",  // exit_underline_mode
	88:  "rmkx",  // keypad_local
	89:  "smkx",  // keypad_xmit
	107: "cud",   // parm_down_cursor
	111: "cub",   // parm_left_cursor
	112: "cuf",   // parm_right_cursor
	114: "cuu",   // parm_up_cursor
	118: "vpa",   // row_address
	297: "op",    // orig_pair
	355: "kmous", // key_mouse
	359: "setaf", // set_a_foreground
	360: "setab", // set_a_background
}
