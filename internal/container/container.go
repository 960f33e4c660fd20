// Package container wires the klipgrab services using go.uber.org/dig.
package container

import (
	"go.uber.org/dig"

	"github.com/klipgrab/klipgrab/internal/bus"
	"github.com/klipgrab/klipgrab/internal/config"
	"github.com/klipgrab/klipgrab/internal/digest"
	"github.com/klipgrab/klipgrab/internal/dispatch"
	"github.com/klipgrab/klipgrab/internal/handlers"
	"github.com/klipgrab/klipgrab/internal/identity"
	"github.com/klipgrab/klipgrab/internal/menu"
	"github.com/klipgrab/klipgrab/internal/router"
	"github.com/klipgrab/klipgrab/internal/store"
	"github.com/klipgrab/klipgrab/internal/telegram"
)

// Container holds the resolved service singletons. Callers use the typed
// getters and never touch dig directly.
type Container struct {
	msgBus  *bus.MessageBus
	store   *store.Store
	router  *router.Router
	channel *telegram.Channel
	digest  *digest.Service
}

func (c *Container) MessageBus() *bus.MessageBus { return c.msgBus }
func (c *Container) Store() *store.Store         { return c.store }
func (c *Container) Router() *router.Router      { return c.router }
func (c *Container) Channel() *telegram.Channel  { return c.channel }
func (c *Container) Digest() *digest.Service     { return c.digest }

// New builds and wires all services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(newAllowList); err != nil {
		return nil, err
	}
	if err := d.Provide(identity.NewResolver); err != nil {
		return nil, err
	}
	if err := d.Provide(menu.DefaultRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(dispatch.NewGate); err != nil {
		return nil, err
	}
	if err := d.Provide(newMessageBus); err != nil {
		return nil, err
	}
	if err := d.Provide(newStore); err != nil {
		return nil, err
	}
	if err := d.Provide(newHandlers); err != nil {
		return nil, err
	}
	if err := d.Provide(router.New); err != nil {
		return nil, err
	}
	if err := d.Provide(telegram.NewChannel); err != nil {
		return nil, err
	}
	if err := d.Provide(newDigest); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		msgBus *bus.MessageBus,
		st *store.Store,
		r *router.Router,
		ch *telegram.Channel,
		dg *digest.Service,
	) {
		result = &Container{
			msgBus:  msgBus,
			store:   st,
			router:  r,
			channel: ch,
			digest:  dg,
		}
	})
	return result, err
}

func newAllowList(cfg *config.Config) identity.AllowList {
	return cfg.AdminAllowList()
}

func newMessageBus() *bus.MessageBus {
	return bus.NewMessageBus(100)
}

func newStore(cfg *config.Config) (*store.Store, error) {
	return store.Open(cfg.Database.Path)
}

func newHandlers(st *store.Store, resolver *identity.Resolver, msgBus *bus.MessageBus) *handlers.Handlers {
	return handlers.New(st, resolver, msgBus)
}

func newDigest(cfg *config.Config, st *store.Store, msgBus *bus.MessageBus, allow identity.AllowList) *digest.Service {
	return digest.NewService(st, msgBus, allow, cfg.Digest.Schedule)
}
