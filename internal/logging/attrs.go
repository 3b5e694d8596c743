package logging

import (
	"log/slog"
	"slices"
)

// handlerState is the level, attributes and open groups shared by the
// package handlers. Its methods return copies so derived handlers never
// alias the parent's slices.
type handlerState struct {
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func (s handlerState) enabled(level slog.Level) bool {
	return level >= s.level.Level()
}

func (s handlerState) withAttrs(attrs []slog.Attr) handlerState {
	// Attributes added inside a group belong to it
	if len(s.groups) > 0 {
		anyAttrs := make([]any, len(attrs))
		for i, a := range attrs {
			anyAttrs[i] = a
		}
		for i := len(s.groups) - 1; i >= 0; i-- {
			attrs = []slog.Attr{slog.Group(s.groups[i], anyAttrs...)}
			anyAttrs = []any{attrs[0]}
		}
	}
	s.attrs = append(slices.Clip(s.attrs), attrs...)
	return s
}

func (s handlerState) withGroup(name string) handlerState {
	if name == "" {
		return s
	}
	s.groups = append(slices.Clip(s.groups), name)
	return s
}

// walk visits every leaf attribute of r, handler attributes first, with the
// group path leading to it. Empty attributes are skipped and record
// attributes are nested under the open groups.
func (s handlerState) walk(r slog.Record, visit func(path []string, a slog.Attr)) {
	for _, a := range s.attrs {
		walkAttr(nil, a, visit)
	}
	r.Attrs(func(a slog.Attr) bool {
		walkAttr(s.groups, a, visit)
		return true
	})
}

func walkAttr(path []string, a slog.Attr, visit func(path []string, a slog.Attr)) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		// Inline groups have no key
		inner := path
		if a.Key != "" {
			inner = append(slices.Clip(path), a.Key)
		}
		for _, ga := range a.Value.Group() {
			walkAttr(inner, ga, visit)
		}
		return
	}
	visit(path, a)
}
