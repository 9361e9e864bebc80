package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Validate accepts only absolute http and https article links.
func Validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("refusing to open URL without host")
	}
	return nil
}

// command returns the launcher for goos.
func command(goos, rawURL string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{rawURL}
	case "windows":
		// rundll32 avoids cmd's shell interpretation of the URL
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}
	default:
		return "xdg-open", []string{rawURL}
	}
}

// Open launches the system browser on rawURL without waiting for it.
func Open(rawURL string) error {
	if err := Validate(rawURL); err != nil {
		return err
	}
	name, args := command(runtime.GOOS, rawURL)
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("launching %s: %w", name, err)
	}
	return nil
}
