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

// ------------------------------------------------- MANAGED OBJECT ------------------------------------------------- //

const (
	// ServiceProfileClass is the UCS class of a service profile.
	ServiceProfileClass = "lsServer"
	// BindingClass is the UCS class of a service profile binding.
	BindingClass = "lsBinding"
	// BladeClass is the UCS class of a blade server.
	BladeClass = "computeBlade"
	// RackUnitClass is the UCS class of a rack server.
	RackUnitClass = "computeRackUnit"

	// BindingRN is the relative name of a binding under its service profile.
	BindingRN = "pn"

	AttrDN                = "dn"
	AttrAssocState        = "assocState"
	AttrPnDN              = "pnDn"
	AttrRestrictMigration = "restrictMigration"
	AttrStatus            = "status"
)

// ManagedObject is a managed object as stored by the UCS manager: a class name and its attributes.
type ManagedObject struct {
	// Class is the UCS class name, e.g. "lsServer".
	Class string
	// Attributes holds the raw attribute values keyed by attribute name.
	Attributes map[string]string
}

// NewManagedObject returns a ManagedObject of the given class located at dn.
func NewManagedObject(class, dn string) ManagedObject {
	return ManagedObject{
		Class:      class,
		Attributes: map[string]string{AttrDN: dn},
	}
}

// DN returns the distinguished name of the managed object.
func (mo ManagedObject) DN() string {
	return mo.Attr(AttrDN)
}

// Attr returns the value of the named attribute or an empty string.
func (mo ManagedObject) Attr(name string) string {
	if mo.Attributes == nil {
		return ""
	}

	return mo.Attributes[name]
}

// WithAttr returns a copy of the managed object with the attribute set.
func (mo ManagedObject) WithAttr(name, value string) ManagedObject {
	attrs := make(map[string]string, len(mo.Attributes)+1)
	for k, v := range mo.Attributes {
		attrs[k] = v
	}

	attrs[name] = value
	mo.Attributes = attrs

	return mo
}
