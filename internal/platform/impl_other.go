//go:build !linux && !darwin && !windows

package platform

func newPlatform() (Platform, error) {
	return unsupported()
}
