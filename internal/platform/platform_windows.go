//go:build windows

package platform

// ForHost selects the platform handler exactly once at startup.
func ForHost() (Handler, error) {
	return &windowsHandler{}, nil
}
