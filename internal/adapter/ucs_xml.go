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
	"encoding/xml"
	"errors"
	"fmt"
	"sort"

	"github.com/alexandremahdhaoui/ucsbind/internal/types"
)

// XML documents exchanged with the UCS manager on its "/nuova" endpoint.

const (
	methodAAALogin        = "aaaLogin"
	methodAAALogout       = "aaaLogout"
	methodConfigResolveDn = "configResolveDn"
	methodConfigConfMos   = "configConfMos"

	statusCreated         = "created"
	statusCreatedModified = "created,modified"

	xmlFalse = "false"
)

// apiError is carried by every response; ErrorCode is only set on failure.
type apiError struct {
	ErrorCode        string `xml:"errorCode,attr"`
	ErrorDescr       string `xml:"errorDescr,attr"`
	InvocationResult string `xml:"invocationResult,attr"`
}

func (e apiError) err() error {
	if e.ErrorCode == "" {
		return nil
	}

	return errors.Join(
		fmt.Errorf("errorCode=%s invocationResult=%q: %s", e.ErrorCode, e.InvocationResult, e.ErrorDescr),
		ErrUCSAPI,
	)
}

// ---------------------------------------------------- AAA --------------------------------------------------------- //

type aaaLoginRequest struct {
	XMLName    xml.Name `xml:"aaaLogin"`
	InName     string   `xml:"inName,attr"`
	InPassword string   `xml:"inPassword,attr"`
}

type aaaLoginResponse struct {
	XMLName xml.Name
	apiError

	OutCookie        string `xml:"outCookie,attr"`
	OutRefreshPeriod int    `xml:"outRefreshPeriod,attr"`
	OutPriv          string `xml:"outPriv,attr"`
	OutVersion       string `xml:"outVersion,attr"`
}

type aaaLogoutRequest struct {
	XMLName  xml.Name `xml:"aaaLogout"`
	InCookie string   `xml:"inCookie,attr"`
}

type aaaLogoutResponse struct {
	XMLName xml.Name
	apiError

	OutStatus string `xml:"outStatus,attr"`
}

// --------------------------------------------------- CONFIG ------------------------------------------------------- //

type configResolveDnRequest struct {
	XMLName        xml.Name `xml:"configResolveDn"`
	Cookie         string   `xml:"cookie,attr"`
	DN             string   `xml:"dn,attr"`
	InHierarchical string   `xml:"inHierarchical,attr"`
}

type configResolveDnResponse struct {
	XMLName xml.Name
	apiError

	DN        string `xml:"dn,attr"`
	OutConfig struct {
		MOs []xmlMO `xml:",any"`
	} `xml:"outConfig"`
}

type configConfMosRequest struct {
	XMLName        xml.Name     `xml:"configConfMos"`
	Cookie         string       `xml:"cookie,attr"`
	InHierarchical string       `xml:"inHierarchical,attr"`
	Pairs          []configPair `xml:"inConfigs>pair"`
}

type configConfMosResponse struct {
	XMLName xml.Name
	apiError

	Pairs []configPair `xml:"outConfigs>pair"`
}

type configPair struct {
	Key string `xml:"key,attr"`
	MO  xmlMO  `xml:",any"`
}

// ------------------------------------------------ MANAGED OBJECT -------------------------------------------------- //

// xmlMO is any managed object element: its tag is the class name and its attributes are the properties.
type xmlMO struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlMO    `xml:",any"`
}

func newXMLMO(mo types.ManagedObject) xmlMO {
	names := make([]string, 0, len(mo.Attributes))
	for name := range mo.Attributes {
		names = append(names, name)
	}

	sort.Strings(names)

	attrs := make([]xml.Attr, 0, len(names))
	for _, name := range names {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: name}, Value: mo.Attributes[name]})
	}

	return xmlMO{XMLName: xml.Name{Local: mo.Class}, Attrs: attrs}
}

func (x xmlMO) managedObject() types.ManagedObject {
	attrs := make(map[string]string, len(x.Attrs))
	for _, attr := range x.Attrs {
		attrs[attr.Name.Local] = attr.Value
	}

	return types.ManagedObject{Class: x.XMLName.Local, Attributes: attrs}
}
