// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package vaa

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/luxfi/vaa/layout"
)

// RawBytes is the built-in literal that leaves the payload undecoded.
const RawBytes = "RawBytes"

const payloadField = "payload"

// DefaultRegistry is the process-wide registry. Packages that define payloads
// register them here from init.
var DefaultRegistry = NewRegistry()

// Shape is a registered payload shape. Exactly one of Layout and Conversion
// describes the payload; Conversion is nil for layout entries.
type Shape struct {
	Literal    string
	Layout     layout.Layout
	Conversion *layout.Conversion

	payload layout.Layout
	body    layout.Layout
	full    layout.Layout
}

// IsLayout reports whether the payload is described by a layout.
func (s Shape) IsLayout() bool {
	return s.Conversion == nil
}

// Body returns the layout of the hashed body: envelope followed by payload.
func (s Shape) Body() layout.Layout {
	return s.body
}

// Full returns the layout of the whole message.
func (s Shape) Full() layout.Layout {
	return s.full
}

func newShape(literal string, l layout.Layout, conv *layout.Conversion) (Shape, error) {
	if literal == "" {
		return Shape{}, fmt.Errorf("%w: empty payload literal", layout.ErrInvalidLayout)
	}
	var item layout.Item
	if conv != nil {
		item = layout.BytesItem{Name: payloadField, Custom: conv}
	} else {
		item = layout.ObjectItem{Name: payloadField, Layout: l}
	}
	s := Shape{Literal: literal, Layout: l, Conversion: conv}

	var err error
	if s.payload, err = layout.New(item); err != nil {
		return Shape{}, fmt.Errorf("payload %q: %w", literal, err)
	}
	if s.body, err = layout.Concat(envelopeLayout, s.payload); err != nil {
		return Shape{}, fmt.Errorf("payload %q: %w", literal, err)
	}
	if s.full, err = layout.Concat(headerLayout, s.body); err != nil {
		return Shape{}, fmt.Errorf("payload %q: %w", literal, err)
	}
	return s, nil
}

// Registry maps payload literals to payload shapes. Entries are write-once.
type Registry struct {
	lock   sync.RWMutex
	shapes map[string]Shape
	log    *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used to report registrations.
func WithRegistryLogger(log *zap.Logger) RegistryOption {
	return func(r *Registry) { r.log = log }
}

// NewRegistry returns a registry holding only the RawBytes entry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		shapes: make(map[string]Shape),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.RegisterConversion(RawBytes, layout.Identity); err != nil {
		panic(err)
	}
	return r
}

// Register adds a payload described by a layout.
func (r *Registry) Register(literal string, l layout.Layout) error {
	s, err := newShape(literal, l, nil)
	if err != nil {
		return err
	}
	return r.add(s)
}

// RegisterConversion adds a payload decoded by a conversion over the whole
// payload span.
func (r *Registry) RegisterConversion(literal string, conv *layout.Conversion) error {
	if conv == nil {
		return fmt.Errorf("payload %q: %w: nil conversion", literal, layout.ErrInvalidLayout)
	}
	s, err := newShape(literal, layout.Layout{}, conv)
	if err != nil {
		return err
	}
	return r.add(s)
}

func (r *Registry) add(s Shape) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.shapes[s.Literal]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, s.Literal)
	}
	r.shapes[s.Literal] = s
	r.log.Debug("registered payload",
		zap.String("literal", s.Literal),
		zap.Bool("layout", s.IsLayout()),
	)
	return nil
}

// Resolve returns the shape registered under literal.
func (r *Registry) Resolve(literal string) (Shape, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	s, ok := r.shapes[literal]
	if !ok {
		return Shape{}, fmt.Errorf("%w: %q", ErrNotRegistered, literal)
	}
	return s, nil
}

// Literals returns the registered literals in lexical order.
func (r *Registry) Literals() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := make([]string, 0, len(r.shapes))
	for literal := range r.shapes {
		out = append(out, literal)
	}
	sort.Strings(out)
	return out
}

// Register adds a layout payload to DefaultRegistry.
func Register(literal string, l layout.Layout) error {
	return DefaultRegistry.Register(literal, l)
}

// RegisterConversion adds a conversion payload to DefaultRegistry.
func RegisterConversion(literal string, conv *layout.Conversion) error {
	return DefaultRegistry.RegisterConversion(literal, conv)
}

// MustRegister is like Register but panics on failure. It is meant for init
// functions.
func MustRegister(literal string, l layout.Layout) {
	if err := Register(literal, l); err != nil {
		panic(err)
	}
}
