//go:build linux

package platform

func newPlatform() (Platform, error) {
	return &native{commands: linuxBrowsers, launch: startDetached}, nil
}

func linuxBrowsers(target string) [][]string {
	return [][]string{
		{"xdg-open", target},
		{"x-www-browser", target},
		{"firefox", target},
		{"google-chrome", target},
		{"chromium", target},
	}
}
