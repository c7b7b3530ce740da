//go:build darwin

package platform

func newPlatform() (Platform, error) {
	return &native{commands: darwinBrowsers, launch: startDetached}, nil
}

func darwinBrowsers(target string) [][]string {
	return [][]string{{"open", target}}
}
