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

package adapter

import (
	"context"
	"errors"

	"github.com/alexandremahdhaoui/ucsbind/internal/types"
)

var (
	ErrSessionProvider   = errors.New("resolving UCS manager connection")
	ErrInvalidConnection = errors.New("invalid UCS manager connection")

	errConnectionAddressMustBeSpecified  = errors.New("address must be specified")
	errConnectionUsernameMustBeSpecified = errors.New("username must be specified")
)

// SessionProvider supplies the connection parameters of the UCS manager.
type SessionProvider interface {
	// Connection returns the address and credentials of the UCS manager.
	Connection(ctx context.Context) (types.Connection, error)
}

// ------------------------------------------------- STATIC PROVIDER ------------------------------------------------ //

// NewStaticSessionProvider returns a SessionProvider which always returns conn.
func NewStaticSessionProvider(conn types.Connection) SessionProvider {
	return &staticSessionProvider{conn: conn}
}

type staticSessionProvider struct {
	conn types.Connection
}

func (p *staticSessionProvider) Connection(_ context.Context) (types.Connection, error) {
	if err := validateConnection(p.conn); err != nil {
		return types.Connection{}, errors.Join(err, ErrSessionProvider)
	}

	return p.conn, nil
}

// --------------------------------------------- UTILS -------------------------------------------------------------- //

func validateConnection(conn types.Connection) error {
	if conn.Address == "" {
		return errors.Join(errConnectionAddressMustBeSpecified, ErrInvalidConnection)
	}

	if conn.Username == "" {
		return errors.Join(errConnectionUsernameMustBeSpecified, ErrInvalidConnection)
	}

	return nil
}
