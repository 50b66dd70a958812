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
	"strings"
)

// XML documents exchanged with the CloudShell automation API.

type csLogonRequest struct {
	XMLName    xml.Name `xml:"Logon"`
	Username   string   `xml:"username"`
	Password   string   `xml:"password"`
	DomainName string   `xml:"domainName"`
}

func (csLogonRequest) command() string { return "Logon" }

type csLogoffRequest struct {
	XMLName xml.Name `xml:"Logoff"`
}

func (csLogoffRequest) command() string { return "Logoff" }

type csGetReservationDetailsRequest struct {
	XMLName       xml.Name `xml:"GetReservationDetails"`
	ReservationID string   `xml:"reservationId"`
}

func (csGetReservationDetailsRequest) command() string { return "GetReservationDetails" }

type csGetResourceDetailsRequest struct {
	XMLName          xml.Name `xml:"GetResourceDetails"`
	ResourceFullPath string   `xml:"resourceFullPath"`
	ShowAllLevels    bool     `xml:"showAllLevels"`
}

func (csGetResourceDetailsRequest) command() string { return "GetResourceDetails" }

type csDecryptPasswordRequest struct {
	XMLName         xml.Name `xml:"DecryptPassword"`
	EncryptedString string   `xml:"encryptedString"`
}

func (csDecryptPasswordRequest) command() string { return "DecryptPassword" }

// csResponse is the envelope of every CloudShell answer. ResponseInfo depends on the command.
type csResponse struct {
	XMLName      xml.Name       `xml:"Response"`
	CommandName  string         `xml:"CommandName,attr"`
	Success      bool           `xml:"Success,attr"`
	ErrorCode    string         `xml:"ErrorCode"`
	ErrorMessage string         `xml:"ErrorMessage"`
	Info         csResponseInfo `xml:"ResponseInfo"`
}

type csResponseInfo struct {
	// Logon
	Token struct {
		Token string `xml:"Token,attr"`
	} `xml:"Token"`

	// GetReservationDetails
	Reservation struct {
		ID        string       `xml:"Id,attr"`
		Resources []csResource `xml:"Resources>ReservationDiagramResource"`
	} `xml:"ReservationDescription"`

	// GetResourceDetails
	Name       string        `xml:"Name,attr"`
	Address    string        `xml:"Address,attr"`
	Attributes []csAttribute `xml:"ResourceAttributes>ResourceAttribute"`

	// DecryptPassword
	Value string `xml:"Value,attr"`
}

type csResource struct {
	Name        string `xml:"Name,attr"`
	FullAddress string `xml:"FullAddress,attr"`
}

type csAttribute struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:"Value,attr"`
	Type  string `xml:"Type,attr"`
}

// attribute returns the value of the named resource attribute. Attributes of 2nd gen shells are prefixed with the
// shell model, e.g. "Cisco UCSM.User".
func (i csResponseInfo) attribute(name string) (string, error) {
	for _, attr := range i.Attributes {
		if attr.Name == name || strings.HasSuffix(attr.Name, "."+name) {
			return attr.Value, nil
		}
	}

	return "", errors.Join(fmt.Errorf("attribute %q", name), ErrResourceAttributeNotFound)
}
