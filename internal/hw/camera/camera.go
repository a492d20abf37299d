package camera

import (
	"errors"
	"fmt"

	"github.com/cjeanneret/BoothGo/internal/debug"
)

// ErrNotSupported is returned by every camera operation of this build.
var ErrNotSupported = errors.New("USB camera support is removed from this build")

// Camera is the high-level interface used by the rest of the application.
// It represents an abstract "camera", regardless of how it's controlled
// (USB, GPIO, network protocol, etc.).
type Camera interface {
	// Shoot triggers a single photo capture.
	Shoot() error
}

// Descriptor describes one detected camera.
type Descriptor struct {
	Index  int    // index accepted by OpenUSB
	Name   string // human readable name
	Device string // e.g., /dev/video0
}

// Detect lists the cameras available to the photobooth.
// Camera hardware is disabled, so the list is always empty.
func Detect() []Descriptor {
	debug.Info("Camera: detection disabled, USB camera support removed. Returning empty list.")
	return []Descriptor{}
}

// USBCamera is a camera opened by index. It cannot be obtained in this build.
type USBCamera struct{}

// OpenUSB opens the camera at index. It always fails with ErrNotSupported.
func OpenUSB(index int) (*USBCamera, error) {
	return nil, fmt.Errorf("open camera %d: %w", index, ErrNotSupported)
}

// Shoot reports ErrNotSupported.
func (c *USBCamera) Shoot() error {
	return ErrNotSupported
}
