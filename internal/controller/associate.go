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

package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexandremahdhaoui/ucsbind/internal/adapter"
	"github.com/alexandremahdhaoui/ucsbind/internal/metrics"
	"github.com/alexandremahdhaoui/ucsbind/internal/types"
)

var (
	ErrNotFound                          = errors.New("not found")
	ErrServiceProfileNotFound            = errors.New("service profile does not exist")
	ErrServerNotFound                    = errors.New("server does not exist")
	ErrAlreadyAssociated                 = errors.New("service profile is already associated with server")
	ErrAlreadyAdministrativelyAssociated = errors.New("service profile is already administratively associated with server")

	ErrAssociate = errors.New("associating service profile")
	ErrBinding   = errors.New("getting service profile binding")

	errResolvingServiceProfile = errors.New("resolving service profile")
	errResolvingServer         = errors.New("resolving server")
	errResolvingBinding        = errors.New("resolving binding")
	errSubmittingBinding       = errors.New("submitting binding")
	errCommittingBinding       = errors.New("committing binding")
)

// ---------------------------------------------------- INTERFACES -------------------------------------------------- //

// Associator binds service profiles to servers.
type Associator interface {
	// Associate binds the service profile at profileDN to the server at serverDN.
	//
	// It fails without writing anything if either object does not exist, or if the profile is already associated
	// with the server, operationally or administratively.
	Associate(ctx context.Context, profileDN, serverDN string, opts types.AssociateOptions) error

	// Binding returns the binding of the service profile at profileDN.
	Binding(ctx context.Context, profileDN string) (types.Binding, error)
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewAssociator returns a new Associator.
func NewAssociator(store adapter.Store, m *metrics.Metrics) Associator {
	if m == nil {
		m = metrics.NewNoop()
	}

	return &associator{
		store:   store,
		metrics: m,
	}
}

// ---------------------------------------------------- ASSOCIATOR -------------------------------------------------- //

type associator struct {
	store   adapter.Store
	metrics *metrics.Metrics
}

// ---------------------------------------------------- Associate --------------------------------------------------- //

func (a *associator) Associate(
	ctx context.Context,
	profileDN, serverDN string,
	opts types.AssociateOptions,
) error {
	err := a.associate(ctx, profileDN, serverDN, opts)
	a.metrics.AssociationsTotal.WithLabelValues(result(err)).Inc()

	if err != nil {
		return errors.Join(err, ErrAssociate)
	}

	return nil
}

func (a *associator) associate(
	ctx context.Context,
	profileDN, serverDN string,
	opts types.AssociateOptions,
) error {
	mo, err := a.store.Resolve(ctx, profileDN)
	if errors.Is(err, adapter.ErrManagedObjectNotFound) {
		return errors.Join(fmt.Errorf("service profile %q", profileDN), ErrServiceProfileNotFound, ErrNotFound)
	} else if err != nil {
		return errors.Join(err, errResolvingServiceProfile)
	}

	profile := types.NewServiceProfile(mo)

	if _, err := a.store.Resolve(ctx, serverDN); errors.Is(err, adapter.ErrManagedObjectNotFound) {
		return errors.Join(fmt.Errorf("server %q", serverDN), ErrServerNotFound, ErrNotFound)
	} else if err != nil {
		return errors.Join(err, errResolvingServer)
	}

	if profile.IsAssociatedWith(serverDN) {
		return errors.Join(fmt.Errorf("server %q", serverDN), ErrAlreadyAssociated)
	}

	// the binding exists as soon as the association is requested, before the profile reports it.
	binding, err := a.binding(ctx, profileDN)
	if err != nil && !errors.Is(err, adapter.ErrManagedObjectNotFound) {
		return err
	} else if err == nil && binding.ServerDN == serverDN {
		return errors.Join(fmt.Errorf("server %q", serverDN), ErrAlreadyAdministrativelyAssociated, ErrAlreadyAssociated)
	}

	newBinding := types.Binding{
		ProfileDN:         profileDN,
		ServerDN:          serverDN,
		RestrictMigration: false,
	}

	if err := a.store.SubmitBinding(ctx, newBinding, true); err != nil {
		return errors.Join(err, errSubmittingBinding)
	}

	if err := a.store.Commit(ctx); err != nil {
		return errors.Join(err, errCommittingBinding)
	}

	slog.InfoContext(ctx, "requested service profile association",
		"serviceProfile", profileDN,
		"server", serverDN,
		"previousAssocState", profile.AssocState)

	// completion is driven by the UCS manager; callers observe it through Binding or the profile's assocState.
	if opts.WaitForCompletion {
		slog.DebugContext(ctx, "association completion is not awaited", "timeout", opts.Timeout.String())
	}

	return nil
}

// ----------------------------------------------------- Binding ---------------------------------------------------- //

func (a *associator) Binding(ctx context.Context, profileDN string) (types.Binding, error) {
	binding, err := a.binding(ctx, profileDN)
	if err != nil {
		return types.Binding{}, errors.Join(err, ErrBinding)
	}

	return binding, nil
}

func (a *associator) binding(ctx context.Context, profileDN string) (types.Binding, error) {
	mo, err := a.store.Resolve(ctx, types.BindingDN(profileDN))
	if err != nil {
		return types.Binding{}, errors.Join(err, errResolvingBinding)
	}

	return types.NewBinding(mo), nil
}

// --------------------------------------------- UTILS -------------------------------------------------------------- //

func result(err error) string {
	switch {
	case err == nil:
		return metrics.ResultAssociated
	case errors.Is(err, ErrServiceProfileNotFound):
		return metrics.ResultProfileNotFound
	case errors.Is(err, ErrServerNotFound):
		return metrics.ResultServerNotFound
	case errors.Is(err, ErrAlreadyAdministrativelyAssociated):
		return metrics.ResultAlreadyAdministrativelyAssociated
	case errors.Is(err, ErrAlreadyAssociated):
		return metrics.ResultAlreadyAssociated
	default:
		return metrics.ResultError
	}
}
