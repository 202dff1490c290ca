package terminfo

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Compiled terminfo magic numbers
const (
	magicLegacy   = 0o432  // int16 numbers
	magicExtended = 0o1036 // int32 numbers
)

var (
	cacheMu sync.Mutex
	cache   = map[string]*Terminfo{}
)

// Load returns the capability entry for a terminal type, reading the
// compiled database on first use and caching process-wide by name.
// A missing entry (or missing database) reports ErrNotFound.
func Load(term string) (*Terminfo, error) {
	if term == "" {
		return nil, fmt.Errorf("%w: empty terminal name", ErrNotFound)
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if ti, ok := cache[term]; ok {
		return ti, nil
	}

	path, err := findEntry(term)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, term, err)
	}
	ti, err := parse(term, data)
	if err != nil {
		return nil, err
	}

	cache[term] = ti
	return ti, nil
}

// LoadEnv loads the entry for the environment's declared terminal type
func LoadEnv() (*Terminfo, error) {
	return Load(os.Getenv("TERM"))
}

// searchDirs returns the terminfo directory search order: TERMINFO,
// ~/.terminfo, TERMINFO_DIRS entries, then the conventional system paths
func searchDirs() []string {
	var dirs []string
	if d := os.Getenv("TERMINFO"); d != "" {
		dirs = append(dirs, d)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".terminfo"))
	}
	if list := os.Getenv("TERMINFO_DIRS"); list != "" {
		for _, d := range strings.Split(list, ":") {
			if d == "" {
				d = "/usr/share/terminfo"
			}
			dirs = append(dirs, d)
		}
	}
	dirs = append(dirs,
		"/etc/terminfo",
		"/lib/terminfo",
		"/usr/share/terminfo",
		"/usr/lib/terminfo",
		"/usr/local/share/terminfo",
	)
	return dirs
}

// findEntry locates the compiled entry file for a terminal name.
// Entries live under a one-character (or hex, on Darwin) subdirectory.
func findEntry(term string) (string, error) {
	letter := term[:1]
	hexed := fmt.Sprintf("%02x", term[0])

	for _, dir := range searchDirs() {
		for _, sub := range []string{letter, hexed} {
			p := filepath.Join(dir, sub, term)
			if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, term)
}

// parse decodes a compiled terminfo entry (term(5) legacy and extended
// number formats). Only capabilities with a known index mapping are kept.
func parse(term string, data []byte) (*Terminfo, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("terminfo: %s: entry truncated", term)
	}

	rd := binary.LittleEndian
	magic := int(rd.Uint16(data[0:]))

	numSize := 2
	switch magic {
	case magicLegacy:
	case magicExtended:
		numSize = 4
	default:
		return nil, fmt.Errorf("terminfo: %s: bad magic %#o", term, magic)
	}

	nameSize := int(int16(rd.Uint16(data[2:])))
	boolCount := int(int16(rd.Uint16(data[4:])))
	numCount := int(int16(rd.Uint16(data[6:])))
	strCount := int(int16(rd.Uint16(data[8:])))
	tableSize := int(int16(rd.Uint16(data[10:])))

	if nameSize < 0 || boolCount < 0 || numCount < 0 || strCount < 0 || tableSize < 0 {
		return nil, fmt.Errorf("terminfo: %s: negative header field", term)
	}

	pos := 12
	end := pos + nameSize
	if end > len(data) {
		return nil, fmt.Errorf("terminfo: %s: entry truncated", term)
	}
	names := strings.TrimRight(string(data[pos:end]), "\x00")
	pos = end

	ti := &Terminfo{
		Name:    term,
		Aliases: strings.Split(names, "|"),
		flags:   map[string]bool{},
		nums:    map[string]int{},
		strs:    map[string]string{},
	}

	// Booleans: one byte each
	if pos+boolCount > len(data) {
		return nil, fmt.Errorf("terminfo: %s: entry truncated", term)
	}
	for i := 0; i < boolCount; i++ {
		if data[pos+i] == 1 {
			if name, ok := boolNames[i]; ok {
				ti.flags[name] = true
			}
		}
	}
	pos += boolCount

	// Numbers start on an even boundary
	if pos%2 == 1 {
		pos++
	}
	if pos+numCount*numSize > len(data) {
		return nil, fmt.Errorf("terminfo: %s: entry truncated", term)
	}
	for i := 0; i < numCount; i++ {
		var v int
		if numSize == 2 {
			v = int(int16(rd.Uint16(data[pos+i*2:])))
		} else {
			v = int(int32(rd.Uint32(data[pos+i*4:])))
		}
		if v >= 0 {
			if name, ok := numNames[i]; ok {
				ti.nums[name] = v
			}
		}
	}
	pos += numCount * numSize

	// String capabilities: offset table into the string table
	if pos+strCount*2 > len(data) {
		return nil, fmt.Errorf("terminfo: %s: entry truncated", term)
	}
	offsets := data[pos : pos+strCount*2]
	pos += strCount * 2

	if pos+tableSize > len(data) {
		return nil, fmt.Errorf("terminfo: %s: entry truncated", term)
	}
	table := data[pos : pos+tableSize]

	for i := 0; i < strCount; i++ {
		off := int(int16(rd.Uint16(offsets[i*2:])))
		if off < 0 || off >= len(table) {
			continue // absent or cancelled capability
		}
		name, ok := strNames[i]
		if !ok {
			continue
		}
		nul := off
		for nul < len(table) && table[nul] != 0 {
			nul++
		}
		ti.strs[name] = string(table[off:nul])
	}

	return ti, nil
}
