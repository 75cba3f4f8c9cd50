// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache.go keeps compiled page templates in memory. Pages are parsed on
// first use and reused for the life of the process.
package engine

import (
	"html/template"
	"log/slog"
	"sync"
)

// templateCache is a concurrency-safe map of compiled templates keyed by
// page name.
type templateCache struct {
	mu      sync.RWMutex
	entries map[string]*template.Template
}

func newTemplateCache() *templateCache {
	return &templateCache{entries: make(map[string]*template.Template)}
}

// get returns the compiled template for a page, or nil on miss.
func (c *templateCache) get(name string) *template.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[name]
}

// put stores a compiled template.
func (c *templateCache) put(name string, tmpl *template.Template) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = tmpl
	slog.Debug("template cached", "page", name, "size", len(c.entries))
}
