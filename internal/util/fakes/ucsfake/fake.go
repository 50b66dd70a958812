/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package ucsfake provides an in-memory UCS manager store.
package ucsfake

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexandremahdhaoui/ucsbind/internal/adapter"
	"github.com/alexandremahdhaoui/ucsbind/internal/types"
)

var errAlreadyExists = errors.New("managed object already exists")

// Write is a change received by the fake.
type Write struct {
	Binding       types.Binding
	ModifyPresent bool
}

// Store is an in-memory adapter.Store. Staged bindings only become visible after Commit.
type Store struct {
	mu sync.Mutex

	objects map[string]types.ManagedObject
	pending []Write

	// Writes lists every submitted binding, committed or not.
	Writes []Write
	// Commits counts the calls to Commit.
	Commits int
	// ResolveErr, when set, is returned by Resolve for the given dn.
	ResolveErr map[string]error
}

var _ adapter.Store = &Store{}

// New returns an empty Store.
func New() *Store {
	return &Store{
		objects:    make(map[string]types.ManagedObject),
		ResolveErr: make(map[string]error),
	}
}

// WithServiceProfile adds an "lsServer" managed object.
func (s *Store) WithServiceProfile(dn string, state types.AssocState, pnDN string) *Store {
	return s.With(types.NewManagedObject(types.ServiceProfileClass, dn).
		WithAttr(types.AttrAssocState, string(state)).
		WithAttr(types.AttrPnDN, pnDN))
}

// WithBlade adds a "computeBlade" managed object.
func (s *Store) WithBlade(dn string) *Store {
	return s.With(types.NewManagedObject(types.BladeClass, dn))
}

// WithBinding adds an "lsBinding" managed object.
func (s *Store) WithBinding(binding types.Binding) *Store {
	return s.With(binding.ManagedObject())
}

// With adds a managed object.
func (s *Store) With(mo types.ManagedObject) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[mo.DN()] = mo

	return s
}

// Resolve implements adapter.Store.
func (s *Store) Resolve(_ context.Context, dn string) (types.ManagedObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ResolveErr[dn]; err != nil {
		return types.ManagedObject{}, err
	}

	mo, ok := s.objects[dn]
	if !ok {
		return types.ManagedObject{}, errors.Join(fmt.Errorf("dn %q", dn), adapter.ErrManagedObjectNotFound)
	}

	return mo, nil
}

// SubmitBinding implements adapter.Store.
func (s *Store) SubmitBinding(_ context.Context, binding types.Binding, modifyPresent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := Write{Binding: binding, ModifyPresent: modifyPresent}
	s.pending = append(s.pending, w)
	s.Writes = append(s.Writes, w)

	return nil
}

// Commit implements adapter.Store. It applies every staged binding or none of them.
func (s *Store) Commit(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Commits++
	pending := s.pending
	s.pending = nil

	for _, w := range pending {
		if _, ok := s.objects[w.Binding.DN()]; ok && !w.ModifyPresent {
			return errors.Join(fmt.Errorf("dn %q", w.Binding.DN()), errAlreadyExists)
		}
	}

	for _, w := range pending {
		s.objects[w.Binding.DN()] = w.Binding.ManagedObject()
	}

	return nil
}
