package terminal

// backend abstracts the platform tty: raw mode, size, raw I/O, resize
// notification. The escape-sequence drivers share one implementation.
type backend interface {
	// Init enters raw/no-echo mode
	Init() error
	// Fini restores the saved terminal state; safe to call repeatedly
	Fini()

	Size() (width, height int)

	// Write sends raw bytes to the terminal
	Write(p []byte) error

	// Read blocks until input arrives, the stop channel closes, or an
	// error occurs. A nil, nil return means the read was cancelled or
	// timed out.
	Read(stopCh <-chan struct{}) ([]byte, error)

	// SetResizeHandler registers a callback for terminal resize
	SetResizeHandler(handler func(width, height int))

	// Suspend stops the process (SIGTSTP style); returns false when the
	// platform cannot suspend
	Suspend() bool
}
