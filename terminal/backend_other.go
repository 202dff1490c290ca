//go:build !unix

package terminal

import "fmt"

// Platforms without the unix backend get the tcell or headless drivers;
// the escape drivers refuse to start.
type stubBackend struct{}

func newBackend() backend {
	return stubBackend{}
}

func (stubBackend) Init() error {
	return fmt.Errorf("terminal: no native backend on this platform, use the tcell driver")
}

func (stubBackend) Fini() {}

func (stubBackend) Size() (int, int) { return 80, 24 }

func (stubBackend) Write(p []byte) error { return nil }

func (stubBackend) Read(<-chan struct{}) ([]byte, error) {
	return nil, fmt.Errorf("terminal: no native backend")
}

func (stubBackend) SetResizeHandler(func(int, int)) {}

func (stubBackend) Suspend() bool { return false }
