package modkit

import (
	"net/http"

	"enricher/internal/modkit/httpkit"
	str "enricher/internal/platform/strings"
)

// Built is the resolved option set a module keeps
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// Register attaches extra endpoints after the module's own
	Register func(httpkit.Router)
}

// Build applies Option funcs and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Mount routes own under the prefix with the module middlewares, then runs Register
// an empty prefix mounts in a group on r itself
func (b Built) Mount(r httpkit.Router, own func(httpkit.Router)) {
	body := func(rr httpkit.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		own(rr)
		b.Register(rr)
	}
	if b.Prefix == "" {
		r.Group(body)
		return
	}
	r.Route(str.MustPrefix(b.Prefix), body)
}

// ModuleName returns Name and panics when it is blank
func (b Built) ModuleName() string { return str.MustString(b.Name, "module name") }
