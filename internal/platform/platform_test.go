package platform

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBrowsers(target string) [][]string {
	return [][]string{{"first", target}, {"second", "--new", target}}
}

func TestOpenBrowser_FallsThroughCommands(t *testing.T) {
	var launched [][]string
	p := &native{
		commands: fakeBrowsers,
		launch: func(name string, args ...string) error {
			launched = append(launched, append([]string{name}, args...))
			if name == "first" {
				return errors.New("not installed")
			}
			return nil
		},
	}

	require.NoError(t, p.OpenBrowser("https://nagster.onrender.com/docs"))
	assert.Equal(t, [][]string{
		{"first", "https://nagster.onrender.com/docs"},
		{"second", "--new", "https://nagster.onrender.com/docs"},
	}, launched)
}

func TestOpenBrowser_AllFail(t *testing.T) {
	p := &native{
		commands: fakeBrowsers,
		launch:   func(string, ...string) error { return errors.New("missing") },
	}
	err := p.OpenBrowser("http://localhost:8000/docs")
	assert.ErrorContains(t, err, "no browser found")
}

func TestOpenBrowser_RejectsUnsafeURLs(t *testing.T) {
	called := false
	p := &native{
		commands: fakeBrowsers,
		launch:   func(string, ...string) error { called = true; return nil },
	}
	for _, u := range []string{"file:///etc/passwd", "javascript:alert(1)", "https://", "::"} {
		assert.Error(t, p.OpenBrowser(u), u)
	}
	assert.False(t, called)
}

func TestNewPlatform(t *testing.T) {
	p, err := NewPlatform()
	switch runtime.GOOS {
	case "linux", "darwin", "windows":
		require.NoError(t, err)
		assert.Equal(t, runtime.GOOS, p.Info().OS)
	default:
		var unsupported *UnsupportedPlatformError
		assert.ErrorAs(t, err, &unsupported)
	}
}
