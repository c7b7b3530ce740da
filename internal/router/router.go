package router

import (
	"strings"
	"sync"

	"Mansoor88-6/nagster-console/internal/auth"

	"go.uber.org/zap"
)

// Page is a top-level screen.
type Page string

const (
	PageHome        Page = "home"
	PageLogin       Page = "login"
	PageSignup      Page = "signup"
	PageDocs        Page = "docs"
	PageDashboard   Page = "dashboard"
	PagePlaceholder Page = "placeholder"
)

// Route paths.
const (
	PathHome      = "/"
	PathLogin     = "/login"
	PathSignup    = "/signup"
	PathDocs      = "/docs"
	PathDashboard = "/dashboard"
)

var routes = map[string]Page{
	PathHome:      PageHome,
	PathLogin:     PageLogin,
	PathSignup:    PageSignup,
	PathDocs:      PageDocs,
	PathDashboard: PageDashboard,
}

// Decision is the outcome of resolving a path. Path is where the user ends
// up, which differs from the request when Redirected is set.
type Decision struct {
	Page       Page
	Path       string
	Redirected bool
}

// Resolve maps a path to a page under the given session state. The
// dashboard renders only when Authenticated; while Restoring it renders a
// placeholder so no protected content flashes.
func Resolve(path string, state auth.State) Decision {
	path = normalize(path)

	page, ok := routes[path]
	if !ok {
		return Decision{Page: PageHome, Path: PathHome, Redirected: true}
	}

	switch page {
	case PageDashboard:
		switch state {
		case auth.Authenticated:
			return Decision{Page: PageDashboard, Path: path}
		case auth.Restoring:
			return Decision{Page: PagePlaceholder, Path: path}
		default:
			return Decision{Page: PageLogin, Path: PathLogin, Redirected: true}
		}
	case PageLogin, PageSignup:
		if state == auth.Authenticated {
			return Decision{Page: PageDashboard, Path: PathDashboard, Redirected: true}
		}
	}
	return Decision{Page: page, Path: path}
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return PathHome
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return strings.ToLower(path)
}

// Navigator tracks the requested path and re-resolves it whenever the
// session changes, so a logout anywhere lands on the login page.
type Navigator struct {
	logger *zap.Logger

	mu        sync.Mutex
	requested string
	state     auth.State
	current   Decision
	history   []string
}

// NewNavigator starts at path and follows session transitions from store.
// The returned func stops following.
func NewNavigator(store *auth.Store, path string, logger *zap.Logger) (*Navigator, func()) {
	n := &Navigator{logger: logger, state: store.State()}
	n.requested = normalize(path)
	n.current = Resolve(n.requested, n.state)
	n.history = []string{n.current.Path}

	unsub := store.Subscribe(n.onSession)
	return n, unsub
}

func (n *Navigator) onSession(snap auth.Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()

	prev := n.state
	n.state = snap.State

	// Entering the session sends the user to the dashboard; losing it sends
	// them to login. Restoring keeps the requested path pending.
	switch {
	case snap.State == auth.Authenticated && prev != auth.Authenticated:
		if n.requested == PathLogin || n.requested == PathSignup || n.requested == PathHome {
			n.requested = PathDashboard
		}
	case snap.State == auth.Unauthenticated && prev != auth.Unauthenticated:
		if n.requested == PathDashboard {
			n.requested = PathLogin
		}
	}
	n.resolveLocked()
}

// Go navigates to path and returns the decision.
func (n *Navigator) Go(path string) Decision {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requested = normalize(path)
	return n.resolveLocked()
}

// Back returns to the previous distinct path, if any.
func (n *Navigator) Back() Decision {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.history) > 1 {
		n.history = n.history[:len(n.history)-1]
		n.requested = n.history[len(n.history)-1]
		n.history = n.history[:len(n.history)-1]
	}
	return n.resolveLocked()
}

func (n *Navigator) Current() Decision {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *Navigator) resolveLocked() Decision {
	d := Resolve(n.requested, n.state)
	if d.Redirected {
		n.logger.Debug("Route redirected",
			zap.String("requested", n.requested),
			zap.String("path", d.Path),
			zap.String("state", n.state.String()),
		)
		n.requested = d.Path
	}
	if len(n.history) == 0 || n.history[len(n.history)-1] != d.Path {
		n.history = append(n.history, d.Path)
	}
	n.current = d
	return d
}
