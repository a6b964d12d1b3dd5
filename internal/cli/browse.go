package cli

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/example/recipebump/internal/wire"
)

// openInBrowser opens url with the configured browser program, falling back
// to the platform opener.
func openInBrowser(url string) error {
	if url == "" {
		return fmt.Errorf("no proposal URL to open")
	}

	browser := wire.Config().Browser
	if browser == "" {
		switch runtime.GOOS {
		case "darwin":
			browser = "open"
		case "windows":
			browser = "explorer"
		default:
			browser = "xdg-open"
		}
	}
	return exec.Command(browser, url).Start()
}
