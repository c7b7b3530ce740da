package platform

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
)

// Platform is the OS integration the console needs.
type Platform interface {
	// OpenBrowser opens url in the default browser.
	OpenBrowser(url string) error

	// Info describes the host.
	Info() SystemInfo
}

type SystemInfo struct {
	OS       string
	Arch     string
	Hostname string
}

// launcher starts an external command without waiting for it.
type launcher func(name string, args ...string) error

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Start()
}

// native tries each browser command for the OS in order.
type native struct {
	commands func(target string) [][]string
	launch   launcher
}

func (p *native) OpenBrowser(target string) error {
	if err := checkURL(target); err != nil {
		return err
	}
	var lastErr error
	for _, c := range p.commands(target) {
		if err := p.launch(c[0], c[1:]...); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("no browser found: %w", lastErr)
}

func (p *native) Info() SystemInfo {
	hostname, _ := os.Hostname()
	return SystemInfo{OS: runtime.GOOS, Arch: runtime.GOARCH, Hostname: hostname}
}

// checkURL only lets http(s) URLs through to the shell.
func checkURL(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", target, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open non-http url %q", target)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", target)
	}
	return nil
}
