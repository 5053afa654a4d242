package installer

import (
	"fmt"
	"os"
	"path/filepath"
)

// desktopEntryMode keeps the manifest world-readable, as menus expect.
const desktopEntryMode os.FileMode = 0o644

// DesktopEntry renders a freedesktop.org desktop-integration manifest for
// the installed browser.
func DesktopEntry(name, comment, execPath string) string {
	return fmt.Sprintf(`[Desktop Entry]
Version=1.0
Name=%s
Comment=%s
Exec=%s %%U
Terminal=false
Type=Application
Categories=Network;WebBrowser;
MimeType=text/html;text/xml;application/xhtml+xml;x-scheme-handler/http;x-scheme-handler/https;
`, name, comment, execPath)
}

// WriteDesktopEntry writes the manifest at path, creating parent directories
// as needed.
func WriteDesktopEntry(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), DefaultBinaryMode); err != nil {
		return err
	}

	return os.WriteFile(filepath.Clean(path), []byte(content), desktopEntryMode)
}
