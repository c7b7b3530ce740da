//go:build windows

package platform

func newPlatform() (Platform, error) {
	return &native{commands: windowsBrowsers, launch: startDetached}, nil
}

// rundll32 avoids cmd.exe interpreting & in query strings.
func windowsBrowsers(target string) [][]string {
	return [][]string{
		{"rundll32", "url.dll,FileProtocolHandler", target},
		{"cmd", "/c", "start", "", target},
	}
}
