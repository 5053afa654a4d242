//go:build linux

package platform

// ForHost selects the platform handler exactly once at startup.
func ForHost() (Handler, error) {
	return &linuxHandler{}, nil
}
