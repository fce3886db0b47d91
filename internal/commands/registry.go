package commands

import (
	"context"
	"fmt"
)

// Handler executes one command invocation.
type Handler func(ctx context.Context, inv Invocation, session Session) error

// Registry maps command names to handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a command handler to the registry.
func (r *Registry) Register(name string, handler Handler) {
	r.handlers[name] = handler
}

// Handle dispatches an invocation to the registered handler. Unknown
// commands get a private hint rather than an error.
func (r *Registry) Handle(ctx context.Context, name string, inv Invocation, session Session) error {
	handler, exists := r.handlers[name]
	if !exists {
		return session.ReplyPrivate(ctx, fmt.Sprintf("Unknown command: %s", name))
	}
	return handler(ctx, inv, session)
}

// NewAppRegistry creates a registry wired to the application's commands.
func NewAppRegistry(app *App) *Registry {
	registry := NewRegistry()
	registry.Register("remember", app.HandleRemember)
	registry.Register("chat", app.HandleChat)
	return registry
}

func confirmation(fact string) string {
	return fmt.Sprintf(rememberConfirmation, fact)
}
