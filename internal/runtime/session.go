// Package runtime drives extension command sessions: the hook-style state
// cells, the synchronous render loop and action dispatch.
package runtime

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"

	"nova/internal/bridge"
	"nova/internal/component"
)

// RenderFunc builds the command's component tree. It runs once on session
// start and again after every state update.
type RenderFunc func(ctx *Context) component.Component

// HandlerFunc runs when the user triggers the action bound to its token.
// input carries form values or free text when the host supplies them.
type HandlerFunc func(ctx *Context, input json.RawMessage) Result

// Session 是一次命令调用的运行时:状态、导航栈和最近一次渲染结果。
// Session is one command invocation: its state cells, navigation stack and
// the latest rendered tree. All entry points serialize on one mutex, so an
// extension sees a single logical thread.
type Session struct {
	ID          string
	ExtensionID string
	Command     string

	mu          sync.Mutex
	bridge      *bridge.Bridge
	stack       []*page
	dispatching bool
	destroyed   bool
	closeWanted bool
	renderCount int

	lastTree    []byte
	lastActions []component.BoundAction
}

// page is one navigation stack entry with its own state cells and handlers.
type page struct {
	render   RenderFunc
	cells    []any
	handlers map[string]HandlerFunc
}

// NewSession starts a session and performs the initial render.
func NewSession(extensionID, command string, b *bridge.Bridge, root RenderFunc) (*Session, error) {
	s := &Session{
		ID:          uuid.NewString(),
		ExtensionID: extensionID,
		Command:     command,
		bridge:      b,
		stack:       []*page{{render: root}},
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.renderLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

// Context is handed to render functions and handlers. It carries the state
// cursor for the current render pass and the capability bridge.
type Context struct {
	session *Session
	page    *page
	cursor  int
}

// Bridge exposes the gated host API to the extension.
func (c *Context) Bridge() *bridge.Bridge { return c.session.bridge }

// Handle binds an action token to a handler for the lifetime of this render.
// Components reference the token through Action.OnAction.
func (c *Context) Handle(token string, fn HandlerFunc) string {
	c.page.handlers[token] = fn
	return token
}

// Push stacks a new page and renders it. The current page keeps its state
// and is re-rendered when the new page is popped.
func (c *Context) Push(render RenderFunc) {
	s := c.session
	s.stack = append(s.stack, &page{render: render})
}

// Pop leaves the current page. Popping the root page requests window close
// instead of underflowing.
func (c *Context) Pop() {
	s := c.session
	if len(s.stack) <= 1 {
		s.closeWanted = true
		return
	}
	s.stack = s.stack[:len(s.stack)-1]
}

// CloseWindow asks the host to close the launcher window. Requires the
// system permission; a denial leaves the session open.
func (c *Context) CloseWindow() error {
	if err := c.session.bridge.CloseWindow(); err != nil {
		return err
	}
	c.session.closeWanted = true
	return nil
}

// UseState returns the cell at the current call position, creating it with
// initial on first render. The setter re-renders the page synchronously, so
// cells must be requested in the same order on every render.
func UseState[T any](c *Context, initial T) (T, func(T)) {
	p := c.page
	idx := c.cursor
	c.cursor++
	if idx >= len(p.cells) {
		p.cells = append(p.cells, initial)
	}
	value, ok := p.cells[idx].(T)
	if !ok {
		panic(fmt.Sprintf("state cell %d: type changed between renders", idx))
	}
	setter := func(next T) {
		p.cells[idx] = next
		if err := c.session.renderLocked(); err != nil {
			panic(err)
		}
	}
	return value, setter
}

// renderLocked runs the top page's render function, validates and serializes
// the tree, and replaces the previous snapshot wholesale. Caller holds mu.
// A panicking render is contained here; it must never cross the host
// boundary.
func (s *Session) renderLocked() error {
	if s.destroyed {
		return fmt.Errorf("session %s destroyed", s.ID)
	}
	top := s.stack[len(s.stack)-1]
	top.handlers = make(map[string]HandlerFunc)
	ctx := &Context{session: s, page: top}
	tree, err := runRender(top.render, ctx)
	if err != nil {
		return err
	}
	if tree == nil {
		return fmt.Errorf("render returned no component")
	}
	data, err := component.Marshal(tree)
	if err != nil {
		return fmt.Errorf("render %s/%s: %w", s.ExtensionID, s.Command, err)
	}
	s.lastTree = data
	s.lastActions = component.CollectActions(tree)
	s.renderCount++
	return nil
}

func runRender(render RenderFunc, ctx *Context) (tree component.Component, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extension panicked: %v", r)
			debug.PrintStack()
		}
	}()
	return render(ctx), nil
}

// Tree returns the latest serialized component tree.
func (s *Session) Tree() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTree
}

// Actions returns the flat action list of the latest render, in document
// order. Indexes into it are the dispatch currency of the FFI surface.
func (s *Session) Actions() []component.BoundAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]component.BoundAction, len(s.lastActions))
	copy(out, s.lastActions)
	return out
}

// RenderCount reports how many renders have run. The initial render counts.
func (s *Session) RenderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderCount
}

// CloseRequested reports whether the extension asked to close the window.
func (s *Session) CloseRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeWanted
}

// Depth returns the navigation stack depth.
func (s *Session) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stack)
}

// Dispatch runs the handler bound to token from the latest render. A panic
// inside the handler is contained and reported as an error result; the
// session stays usable.
func (s *Session) Dispatch(token string, input json.RawMessage) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return Errorf("session destroyed")
	}
	if s.dispatching {
		return Errorf("dispatch already in progress")
	}
	top := s.stack[len(s.stack)-1]
	fn, ok := top.handlers[token]
	if !ok {
		return Errorf("no action bound to %q", token)
	}

	s.dispatching = true
	defer func() { s.dispatching = false }()

	result := s.runHandler(top, fn, input)

	// 派发后如有导航发生,渲染新的栈顶 / render the new top after navigation
	if s.stackTop() != top && !s.closeWanted {
		if err := s.renderLocked(); err != nil {
			return Errorf("render after navigation: %v", err)
		}
	}
	return result
}

func (s *Session) stackTop() *page { return s.stack[len(s.stack)-1] }

func (s *Session) runHandler(p *page, fn HandlerFunc, input json.RawMessage) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Errorf("extension panicked: %v", r)
			debug.PrintStack()
		}
	}()
	ctx := &Context{session: s, page: p, cursor: 0}
	return fn(ctx, input)
}

// Destroy tears the session down. Further calls fail cleanly.
func (s *Session) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = true
	s.stack = s.stack[:1]
	s.lastActions = nil
}
