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

package types

import (
	"strings"
	"time"
)

// ------------------------------------------------- SERVICE PROFILE ------------------------------------------------ //

// AssocState is the association state of a service profile as observed on the UCS manager.
type AssocState string

const (
	AssocStateUnassociated AssocState = "unassociated"
	AssocStateAssociating  AssocState = "associating"
	AssocStateAssociated   AssocState = "associated"
	AssocStateFailed       AssocState = "failed"
)

// ServiceProfile is a logical server configuration which can be bound to a physical server.
type ServiceProfile struct {
	// DN is the distinguished name of the service profile.
	DN string
	// AssocState is the operational association state.
	AssocState AssocState
	// PnDN is the DN of the server the profile is bound to, if any.
	PnDN string
}

// NewServiceProfile converts an "lsServer" managed object.
func NewServiceProfile(mo ManagedObject) ServiceProfile {
	return ServiceProfile{
		DN:         mo.DN(),
		AssocState: AssocState(mo.Attr(AttrAssocState)),
		PnDN:       mo.Attr(AttrPnDN),
	}
}

// IsAssociatedWith reports whether the profile is operationally associated with serverDN.
func (sp ServiceProfile) IsAssociatedWith(serverDN string) bool {
	return sp.AssocState == AssocStateAssociated && sp.PnDN == serverDN
}

// ----------------------------------------------------- SERVER ----------------------------------------------------- //

// Server is a blade or a rack unit.
type Server struct {
	// DN is the distinguished name of the server.
	DN string
	// Class is either BladeClass or RackUnitClass.
	Class string
}

// NewServer converts a "computeBlade" or "computeRackUnit" managed object.
func NewServer(mo ManagedObject) Server {
	return Server{DN: mo.DN(), Class: mo.Class}
}

// ----------------------------------------------------- BINDING ---------------------------------------------------- //

// Binding is the administrative association of a service profile to a server.
// It may exist before the UCS manager has completed the association.
type Binding struct {
	// ProfileDN is the DN of the parent service profile.
	ProfileDN string
	// ServerDN is the DN of the server the profile should be bound to.
	ServerDN string
	// RestrictMigration prevents the profile from migrating to another server.
	RestrictMigration bool
}

// BindingDN returns the DN of the binding of the given service profile.
func BindingDN(profileDN string) string {
	return profileDN + "/" + BindingRN
}

// NewBinding converts an "lsBinding" managed object.
func NewBinding(mo ManagedObject) Binding {
	return Binding{
		ProfileDN:         strings.TrimSuffix(mo.DN(), "/"+BindingRN),
		ServerDN:          mo.Attr(AttrPnDN),
		RestrictMigration: mo.Attr(AttrRestrictMigration) == "yes",
	}
}

// DN returns the distinguished name of the binding.
func (b Binding) DN() string {
	return BindingDN(b.ProfileDN)
}

// ManagedObject converts the binding into an "lsBinding" managed object.
func (b Binding) ManagedObject() ManagedObject {
	restrictMigration := "no"
	if b.RestrictMigration {
		restrictMigration = "yes"
	}

	return NewManagedObject(BindingClass, b.DN()).
		WithAttr(AttrPnDN, b.ServerDN).
		WithAttr(AttrRestrictMigration, restrictMigration)
}

// ---------------------------------------------------- OPTIONS ----------------------------------------------------- //

// DefaultAssociationTimeout is how long an association is expected to take at most.
const DefaultAssociationTimeout = 20 * time.Minute

// AssociateOptions holds the optional parameters of an association.
type AssociateOptions struct {
	// WaitForCompletion asks the caller to monitor the association until it reaches a terminal state.
	WaitForCompletion bool
	// Timeout bounds the completion wait.
	Timeout time.Duration
}

// DefaultAssociateOptions returns the default association options.
func DefaultAssociateOptions() AssociateOptions {
	return AssociateOptions{
		WaitForCompletion: true,
		Timeout:           DefaultAssociationTimeout,
	}
}
